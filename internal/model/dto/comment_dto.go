package dto

// CreateCommentRequest 发表评论请求
type CreateCommentRequest struct {
	Content     string `json:"content" binding:"required,min=1,max=2000"`
	ContentType string `json:"content_type" binding:"required,oneof=tutorial course"`
	ContentID   int64  `json:"content_id" binding:"required"`
	ParentID    *int64 `json:"parent_id,omitempty"`
}

// UpdateCommentRequest 编辑评论请求
type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// ReportCommentRequest 举报评论请求
type ReportCommentRequest struct {
	Reason      string `json:"reason" binding:"required,oneof=spam inappropriate offensive harassment other"`
	Description string `json:"description,omitempty" binding:"omitempty,max=500"`
}

// ModerateCommentRequest 管理评论请求
type ModerateCommentRequest struct {
	Action string `json:"action" binding:"required"` // approve, reject, delete, restore
	Reason string `json:"reason,omitempty" binding:"omitempty,max=500"`
}

// CommentListRequest 评论列表请求参数
type CommentListRequest struct {
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=10"`
	SortBy    string `form:"sort_by,default=created_at"` // created_at, likes, replies
	SortOrder string `form:"sort_order,default=desc"`    // asc, desc
}

// CommentAuthor 评论作者快照
type CommentAuthor struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Avatar string `json:"avatar,omitempty"`
}

// CommentItem 评论项（含嵌套回复）
type CommentItem struct {
	ID           int64          `json:"id"`
	ContentType  string         `json:"content_type"`
	ContentID    int64          `json:"content_id"`
	ParentID     *int64         `json:"parent_id,omitempty"`
	Level        int            `json:"level"`
	Content      string         `json:"content"`
	Author       *CommentAuthor `json:"author"`
	LikeCount    int64          `json:"like_count"`
	DislikeCount int64          `json:"dislike_count"`
	ReplyCount   int64          `json:"reply_count"`
	IsApproved   bool           `json:"is_approved"`
	IsEdited     bool           `json:"is_edited"`
	IsReported   bool           `json:"is_reported,omitempty"`
	Replies      []*CommentItem `json:"replies,omitempty"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
}

// ToggleReactionResponse 点赞/点踩切换响应
type ToggleReactionResponse struct {
	LikeCount    int64  `json:"like_count"`
	DislikeCount int64  `json:"dislike_count"`
	UserAction   string `json:"user_action"` // liked, unliked, disliked, undisliked
}

// Pagination 分页元数据
type Pagination struct {
	CurrentPage   int   `json:"current_page"`
	TotalPages    int64 `json:"total_pages"`
	TotalComments int64 `json:"total_comments"`
	HasNext       bool  `json:"has_next"`
	HasPrev       bool  `json:"has_prev"`
}

// CommentListData 评论列表响应
type CommentListData struct {
	Comments   []*CommentItem `json:"comments"`
	Pagination *Pagination    `json:"pagination"`
}

// ReplyListData 回复列表响应
type ReplyListData struct {
	Replies    []*CommentItem `json:"replies"`
	Pagination *Pagination    `json:"pagination"`
}

// TopCommenter 活跃评论用户
type TopCommenter struct {
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
	CommentCount int64  `json:"comment_count"`
}

// CommentStats 评论统计
type CommentStats struct {
	TotalComments              int64           `json:"total_comments"`
	ApprovedComments           int64           `json:"approved_comments"`
	PendingComments            int64           `json:"pending_comments"`
	ReportedComments           int64           `json:"reported_comments"`
	TotalReplies               int64           `json:"total_replies"`
	AverageCommentsPerTutorial float64         `json:"average_comments_per_tutorial"`
	AverageCommentsPerCourse   float64         `json:"average_comments_per_course"`
	TopCommenters              []*TopCommenter `json:"top_commenters"`
}

// ReportItem 举报详情（管理端）
type ReportItem struct {
	UserID      int64  `json:"user_id"`
	Reason      string `json:"reason"`
	Description string `json:"description,omitempty"`
	ReportedAt  string `json:"reported_at"`
}

// ReportedCommentItem 被举报评论（管理端列表）
type ReportedCommentItem struct {
	Comment *CommentItem  `json:"comment"`
	Reports []*ReportItem `json:"reports"`
}
