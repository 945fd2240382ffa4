package model

import (
	"time"
)

// 评论所属内容类型
const (
	ContentTypeTutorial = "tutorial"
	ContentTypeCourse   = "course"
)

// MaxCommentLevel 最大嵌套层级（0 为顶层评论）
const MaxCommentLevel = 3

type Comment struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	ContentType string `gorm:"size:20;not null;index:idx_comments_content,priority:1" json:"content_type"`
	ContentID   int64  `gorm:"not null;index:idx_comments_content,priority:2" json:"content_id"`
	ParentID    *int64 `gorm:"index" json:"parent_id,omitempty"`
	Level       int    `gorm:"default:0;index" json:"level"`
	Content     string `gorm:"type:text;not null" json:"content"`

	// 作者快照：发布时从用户资料复制，之后不随资料变更（保留发布时刻的显示信息）
	AuthorID     int64  `gorm:"not null;index" json:"author_id"`
	AuthorName   string `gorm:"size:50;not null" json:"author_name"`
	AuthorEmail  string `gorm:"size:100" json:"author_email"`
	AuthorAvatar string `gorm:"size:500" json:"author_avatar"`

	// 冗余计数，与 reaction/report/子评论行保持一致，由对账任务兜底
	LikeCount    int64 `gorm:"default:0" json:"like_count"`
	DislikeCount int64 `gorm:"default:0" json:"dislike_count"`
	ReplyCount   int64 `gorm:"default:0" json:"reply_count"`
	ReportCount  int64 `gorm:"default:0" json:"report_count"`

	IsApproved bool `gorm:"default:true;index" json:"is_approved"`
	IsEdited   bool `gorm:"default:false" json:"is_edited"`
	IsReported bool `gorm:"default:false;index" json:"is_reported"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联
	Replies []*Comment `gorm:"-" json:"replies,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
