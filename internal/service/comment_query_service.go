package service

import (
	"errors"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/tutor_go_server/internal/model"
	"github.com/qs3c/tutor_go_server/internal/model/dto"
	"github.com/qs3c/tutor_go_server/internal/repository"
)

// CommentQueryService 评论的读侧：线程视图、回复列表、统计
type CommentQueryService struct {
	commentRepo *repository.CommentRepository
	reportRepo  *repository.ReportRepository
	contentRepo *repository.ContentRepository
}

func NewCommentQueryService(
	commentRepo *repository.CommentRepository,
	reportRepo *repository.ReportRepository,
	contentRepo *repository.ContentRepository,
) *CommentQueryService {
	return &CommentQueryService{
		commentRepo: commentRepo,
		reportRepo:  reportRepo,
		contentRepo: contentRepo,
	}
}

// ListByContent 获取内容的顶层评论，附带最多 3 层嵌套回复。
// 顶层按请求的字段排序，各层回复固定按时间正序。
func (s *CommentQueryService) ListByContent(contentType string, contentID int64, req *dto.CommentListRequest) (*dto.CommentListData, error) {
	if contentType != model.ContentTypeTutorial && contentType != model.ContentTypeCourse {
		return nil, ErrInvalidContentType
	}

	exists, err := s.contentRepo.Exists(contentType, contentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrContentNotFound
	}

	page, limit := normalizePage(req.Page, req.Limit)

	comments, total, err := s.commentRepo.ListTopLevel(contentType, contentID, page, limit, orderClause(req.SortBy, req.SortOrder))
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CommentItem, len(comments))
	itemsByID := make(map[int64]*dto.CommentItem, len(comments))
	frontier := make([]int64, len(comments))
	for i, c := range comments {
		items[i] = buildCommentItem(c)
		itemsByID[c.ID] = items[i]
		frontier[i] = c.ID
	}

	// 逐层批量加载回复，每层一次查询
	for depth := 0; depth < model.MaxCommentLevel && len(frontier) > 0; depth++ {
		replies, err := s.commentRepo.GetRepliesByParentIDs(frontier)
		if err != nil {
			return nil, err
		}

		frontier = frontier[:0]
		for _, r := range replies {
			item := buildCommentItem(r)
			if parent, ok := itemsByID[*r.ParentID]; ok {
				parent.Replies = append(parent.Replies, item)
			}
			itemsByID[r.ID] = item
			frontier = append(frontier, r.ID)
		}
	}

	return &dto.CommentListData{
		Comments:   items,
		Pagination: buildPagination(page, limit, total),
	}, nil
}

// ListReplies 分页获取某条评论的直接回复（按时间正序）
func (s *CommentQueryService) ListReplies(parentID int64, page, limit int) (*dto.ReplyListData, error) {
	if _, err := s.commentRepo.GetByID(parentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	page, limit = normalizePage(page, limit)

	replies, total, err := s.commentRepo.ListReplies(parentID, page, limit)
	if err != nil {
		return nil, err
	}

	items := make([]*dto.CommentItem, len(replies))
	for i, r := range replies {
		items[i] = buildCommentItem(r)
	}

	return &dto.ReplyListData{
		Replies:    items,
		Pagination: buildPagination(page, limit, total),
	}, nil
}

// Stats 全站评论统计（管理端）
func (s *CommentQueryService) Stats() (*dto.CommentStats, error) {
	stats := &dto.CommentStats{}
	var err error

	if stats.TotalComments, err = s.commentRepo.CountAll(); err != nil {
		return nil, err
	}
	if stats.ApprovedComments, err = s.commentRepo.CountApproved(); err != nil {
		return nil, err
	}
	if stats.PendingComments, err = s.commentRepo.CountPending(); err != nil {
		return nil, err
	}
	if stats.ReportedComments, err = s.commentRepo.CountReported(); err != nil {
		return nil, err
	}
	if stats.TotalReplies, err = s.commentRepo.CountReplies(); err != nil {
		return nil, err
	}

	// 均值按内容类型分开计算，分母只含已发布内容
	tutorialComments, err := s.commentRepo.CountByContentType(model.ContentTypeTutorial)
	if err != nil {
		return nil, err
	}
	publishedTutorials, err := s.contentRepo.CountPublishedTutorials()
	if err != nil {
		return nil, err
	}
	stats.AverageCommentsPerTutorial = average(tutorialComments, publishedTutorials)

	courseComments, err := s.commentRepo.CountByContentType(model.ContentTypeCourse)
	if err != nil {
		return nil, err
	}
	publishedCourses, err := s.contentRepo.CountPublishedCourses()
	if err != nil {
		return nil, err
	}
	stats.AverageCommentsPerCourse = average(courseComments, publishedCourses)

	rows, err := s.commentRepo.TopCommenters(10)
	if err != nil {
		return nil, err
	}
	stats.TopCommenters = make([]*dto.TopCommenter, len(rows))
	for i, row := range rows {
		stats.TopCommenters[i] = &dto.TopCommenter{
			UserID:       row.UserID,
			Name:         row.Name,
			CommentCount: row.CommentCount,
		}
	}

	return stats, nil
}

// ListReported 获取被举报评论及举报详情（管理端）
func (s *CommentQueryService) ListReported(page, limit int) ([]*dto.ReportedCommentItem, *dto.Pagination, error) {
	page, limit = normalizePage(page, limit)

	comments, total, err := s.commentRepo.ListReported(page, limit)
	if err != nil {
		return nil, nil, err
	}

	commentIDs := make([]int64, len(comments))
	for i, c := range comments {
		commentIDs[i] = c.ID
	}

	reports, err := s.reportRepo.ListByCommentIDs(commentIDs)
	if err != nil {
		return nil, nil, err
	}

	reportsByComment := make(map[int64][]*dto.ReportItem)
	for _, r := range reports {
		reportsByComment[r.CommentID] = append(reportsByComment[r.CommentID], &dto.ReportItem{
			UserID:      r.UserID,
			Reason:      r.Reason,
			Description: r.Description,
			ReportedAt:  r.CreatedAt.Format(time.RFC3339),
		})
	}

	items := make([]*dto.ReportedCommentItem, len(comments))
	for i, c := range comments {
		items[i] = &dto.ReportedCommentItem{
			Comment: buildCommentItem(c),
			Reports: reportsByComment[c.ID],
		}
	}

	return items, buildPagination(page, limit, total), nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

func orderClause(sortBy, sortOrder string) string {
	column := "created_at"
	switch sortBy {
	case "likes":
		column = "like_count"
	case "replies":
		column = "reply_count"
	}

	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}

	return column + " " + direction
}

func buildPagination(page, limit int, total int64) *dto.Pagination {
	totalPages := (total + int64(limit) - 1) / int64(limit)
	return &dto.Pagination{
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalComments: total,
		HasNext:       int64(page) < totalPages,
		HasPrev:       page > 1 && total > 0,
	}
}

func average(numerator, denominator int64) float64 {
	if denominator == 0 {
		return 0
	}
	return math.Round(float64(numerator)/float64(denominator)*100) / 100
}
