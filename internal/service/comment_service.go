package service

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/qs3c/tutor_go_server/config"
	"github.com/qs3c/tutor_go_server/internal/model"
	"github.com/qs3c/tutor_go_server/internal/model/dto"
	"github.com/qs3c/tutor_go_server/internal/pkg/oss"
	"github.com/qs3c/tutor_go_server/internal/pkg/queue"
	"github.com/qs3c/tutor_go_server/internal/repository"
)

var (
	ErrCommentNotFound       = errors.New("评论不存在")
	ErrContentNotFound       = errors.New("内容不存在")
	ErrCommentAuthorNotFound = errors.New("用户不存在")
	ErrParentNotFound        = errors.New("父评论不存在")
	ErrParentContentMismatch = errors.New("父评论不属于该内容")
	ErrDepthExceeded         = errors.New("回复层级超出限制")
	ErrCommentPermission     = errors.New("无权操作此评论")
	ErrInvalidContent        = errors.New("评论内容长度不合法")
	ErrInvalidContentType    = errors.New("未知的内容类型")
	ErrInvalidReportReason   = errors.New("未知的举报原因")
	ErrAlreadyReported       = errors.New("请勿重复举报")
	ErrInvalidModerateAction = errors.New("未知的管理操作")
)

// 管理操作
const (
	ModerateApprove = "approve"
	ModerateReject  = "reject"
	ModerateDelete  = "delete"
	ModerateRestore = "restore"
)

const maxContentLength = 2000

type CommentService struct {
	commentRepo  *repository.CommentRepository
	reactionRepo *repository.ReactionRepository
	reportRepo   *repository.ReportRepository
	contentRepo  *repository.ContentRepository
	userRepo     *repository.UserRepository
	notifyQueue  *queue.Queue
	ossClient    *oss.Client
	cfg          *config.Config
}

func NewCommentService(
	commentRepo *repository.CommentRepository,
	reactionRepo *repository.ReactionRepository,
	reportRepo *repository.ReportRepository,
	contentRepo *repository.ContentRepository,
	userRepo *repository.UserRepository,
	notifyQueue *queue.Queue,
	ossClient *oss.Client,
	cfg *config.Config,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		reactionRepo: reactionRepo,
		reportRepo:   reportRepo,
		contentRepo:  contentRepo,
		userRepo:     userRepo,
		notifyQueue:  notifyQueue,
		ossClient:    ossClient,
		cfg:          cfg,
	}
}

// Create 发表评论
func (s *CommentService) Create(userID int64, req *dto.CreateCommentRequest) (*dto.CommentItem, error) {
	content, err := normalizeContent(req.Content)
	if err != nil {
		return nil, err
	}

	if req.ContentType != model.ContentTypeTutorial && req.ContentType != model.ContentTypeCourse {
		return nil, ErrInvalidContentType
	}

	// 验证内容存在
	exists, err := s.contentRepo.Exists(req.ContentType, req.ContentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrContentNotFound
	}

	// 获取作者资料用于快照
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentAuthorNotFound
		}
		return nil, err
	}

	// 如果是回复，验证父评论并计算层级。层级永远由父评论推导，不信任请求值
	level := 0
	if req.ParentID != nil {
		parent, err := s.commentRepo.GetByID(*req.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}

		// 回复必须挂在同一内容下
		if parent.ContentType != req.ContentType || parent.ContentID != req.ContentID {
			return nil, ErrParentContentMismatch
		}

		level = parent.Level + 1
		if level > model.MaxCommentLevel {
			return nil, ErrDepthExceeded
		}
	}

	email := ""
	if user.Email != nil {
		email = *user.Email
	}

	comment := &model.Comment{
		ContentType:  req.ContentType,
		ContentID:    req.ContentID,
		ParentID:     req.ParentID,
		Level:        level,
		Content:      content,
		AuthorID:     user.ID,
		AuthorName:   user.Username,
		AuthorEmail:  email,
		AuthorAvatar: user.AvatarURL,
		IsApproved:   true,
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}

	// 内容上的评论计数尽力维护，偏差由对账任务修正
	if err := s.contentRepo.IncrementCommentCount(req.ContentType, req.ContentID, 1); err != nil {
		log.Printf("Increment comment count failed: content=%s/%d: %v", req.ContentType, req.ContentID, err)
	}

	return buildCommentItem(comment), nil
}

// Update 编辑评论（仅作者本人）
func (s *CommentService) Update(commentID, userID int64, req *dto.UpdateCommentRequest) (*dto.CommentItem, error) {
	content, err := normalizeContent(req.Content)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	if comment.AuthorID != userID {
		return nil, ErrCommentPermission
	}

	if err := s.commentRepo.UpdateContent(commentID, comment.Content, content); err != nil {
		return nil, err
	}

	updated, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, err
	}

	return buildCommentItem(updated), nil
}

// Delete 删除评论及其全部回复（作者本人或管理员）
func (s *CommentService) Delete(commentID, userID int64, isAdmin bool) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	if comment.AuthorID != userID && !isAdmin {
		return ErrCommentPermission
	}

	// 删除前归档子树（审计留痕，失败不阻塞删除）
	s.archiveSubtree(commentID)

	deleted, err := s.commentRepo.DeleteSubtree(commentID)
	if err != nil {
		return err
	}

	if err := s.contentRepo.IncrementCommentCount(comment.ContentType, comment.ContentID, -int(deleted)); err != nil {
		log.Printf("Decrement comment count failed: content=%s/%d: %v", comment.ContentType, comment.ContentID, err)
	}

	return nil
}

// ToggleLike 切换点赞
func (s *CommentService) ToggleLike(commentID, userID int64) (*dto.ToggleReactionResponse, error) {
	return s.toggleReaction(commentID, userID, model.ReactionLike)
}

// ToggleDislike 切换点踩
func (s *CommentService) ToggleDislike(commentID, userID int64) (*dto.ToggleReactionResponse, error) {
	return s.toggleReaction(commentID, userID, model.ReactionDislike)
}

func (s *CommentService) toggleReaction(commentID, userID int64, reactionType string) (*dto.ToggleReactionResponse, error) {
	if _, err := s.commentRepo.GetByID(commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	action, err := s.reactionRepo.Toggle(commentID, userID, reactionType)
	if err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, err
	}

	return &dto.ToggleReactionResponse{
		LikeCount:    comment.LikeCount,
		DislikeCount: comment.DislikeCount,
		UserAction:   action,
	}, nil
}

// Report 举报评论
func (s *CommentService) Report(commentID, userID int64, req *dto.ReportCommentRequest) error {
	if !model.ValidReportReason(req.Reason) {
		return ErrInvalidReportReason
	}

	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCommentNotFound
		}
		return err
	}

	report := &model.CommentReport{
		CommentID:   commentID,
		UserID:      userID,
		Reason:      req.Reason,
		Description: req.Description,
	}

	reportCount, err := s.reportRepo.Add(report)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyReported
		}
		return err
	}

	// 阈值判断用事务内回读的计数，并发举报下不会漏触发或重复触发
	threshold := s.cfg.Comment.ReportThreshold
	if threshold > 0 && reportCount == int64(threshold) {
		s.enqueue(&queue.NotificationMessage{
			Type:        model.NotificationCommentFlagged,
			CommentID:   commentID,
			AuthorID:    comment.AuthorID,
			Excerpt:     excerpt(comment.Content),
			ReportCount: reportCount,
		})
	}

	return nil
}

// Moderate 管理评论（审核通过 / 下架 / 删除 / 恢复）
func (s *CommentService) Moderate(commentID, moderatorID int64, req *dto.ModerateCommentRequest) (*dto.CommentItem, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}

	switch req.Action {
	case ModerateApprove:
		if err := s.commentRepo.SetApproved(commentID, true); err != nil {
			return nil, err
		}

	case ModerateReject:
		if err := s.commentRepo.SetApproved(commentID, false); err != nil {
			return nil, err
		}
		s.enqueue(&queue.NotificationMessage{
			Type:        model.NotificationCommentRejected,
			CommentID:   commentID,
			AuthorID:    comment.AuthorID,
			AuthorEmail: comment.AuthorEmail,
			Excerpt:     excerpt(comment.Content),
			Reason:      req.Reason,
		})

	case ModerateDelete:
		if err := s.Delete(commentID, moderatorID, true); err != nil {
			return nil, err
		}
		return nil, nil

	case ModerateRestore:
		if err := s.commentRepo.SetApproved(commentID, true); err != nil {
			return nil, err
		}
		if err := s.reportRepo.Clear(commentID); err != nil {
			return nil, err
		}
		s.enqueue(&queue.NotificationMessage{
			Type:        model.NotificationCommentRestored,
			CommentID:   commentID,
			AuthorID:    comment.AuthorID,
			AuthorEmail: comment.AuthorEmail,
			Excerpt:     excerpt(comment.Content),
		})

	default:
		return nil, ErrInvalidModerateAction
	}

	updated, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		return nil, err
	}
	return buildCommentItem(updated), nil
}

// archiveSubtree 序列化子树并上传 OSS，尽力而为
func (s *CommentService) archiveSubtree(commentID int64) {
	if s.ossClient == nil || !s.cfg.Comment.ArchiveDeleted {
		return
	}

	subtree, err := s.commentRepo.GetSubtree(commentID)
	if err != nil {
		log.Printf("Archive subtree %d: collect failed: %v", commentID, err)
		return
	}

	data, err := json.Marshal(subtree)
	if err != nil {
		log.Printf("Archive subtree %d: marshal failed: %v", commentID, err)
		return
	}

	if _, err := s.ossClient.ArchiveCommentTree(commentID, data); err != nil {
		log.Printf("Archive subtree %d: upload failed: %v", commentID, err)
	}
}

func (s *CommentService) enqueue(msg *queue.NotificationMessage) {
	if s.notifyQueue == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := s.notifyQueue.Push(ctx, msg); err != nil {
		log.Printf("Push notification event failed: type=%s comment=%d: %v", msg.Type, msg.CommentID, err)
	}
}

// normalizeContent 去除首尾空白并校验长度
func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" || utf8.RuneCountInString(content) > maxContentLength {
		return "", ErrInvalidContent
	}
	return content, nil
}

// excerpt 取内容前 80 个字符用于通知
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= 80 {
		return content
	}
	return string(runes[:80]) + "..."
}

func buildCommentItem(c *model.Comment) *dto.CommentItem {
	return &dto.CommentItem{
		ID:           c.ID,
		ContentType:  c.ContentType,
		ContentID:    c.ContentID,
		ParentID:     c.ParentID,
		Level:        c.Level,
		Content:      c.Content,
		Author: &dto.CommentAuthor{
			UserID: c.AuthorID,
			Name:   c.AuthorName,
			Email:  c.AuthorEmail,
			Avatar: c.AuthorAvatar,
		},
		LikeCount:    c.LikeCount,
		DislikeCount: c.DislikeCount,
		ReplyCount:   c.ReplyCount,
		IsApproved:   c.IsApproved,
		IsEdited:     c.IsEdited,
		IsReported:   c.IsReported,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    c.UpdatedAt.Format(time.RFC3339),
	}
}
