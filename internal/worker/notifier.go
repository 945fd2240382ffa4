package worker

import (
	"context"
	"fmt"
	"log"

	"github.com/qs3c/tutor_go_server/config"
	"github.com/qs3c/tutor_go_server/internal/model"
	"github.com/qs3c/tutor_go_server/internal/pkg/email"
	"github.com/qs3c/tutor_go_server/internal/pkg/queue"
	"github.com/qs3c/tutor_go_server/internal/repository"
)

// Processor 通知事件处理器
type Processor struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	emailService     *email.Service
	cfg              *config.Config
}

// NewProcessor 创建通知事件处理器
func NewProcessor(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	emailService *email.Service,
	cfg *config.Config,
) *Processor {
	return &Processor{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		emailService:     emailService,
		cfg:              cfg,
	}
}

// Process 消费一条审核/举报事件：落库站内通知，必要时发邮件
func (p *Processor) Process(ctx context.Context, msg *queue.NotificationMessage) error {
	switch msg.Type {
	case model.NotificationCommentRejected:
		return p.handleRejected(msg)
	case model.NotificationCommentRestored:
		return p.handleRestored(msg)
	case model.NotificationCommentFlagged:
		return p.handleFlagged(msg)
	default:
		return fmt.Errorf("unknown notification type: %s", msg.Type)
	}
}

func (p *Processor) handleRejected(msg *queue.NotificationMessage) error {
	message := fmt.Sprintf("你的评论「%s」未通过审核", msg.Excerpt)
	if msg.Reason != "" {
		message = fmt.Sprintf("%s，原因：%s", message, msg.Reason)
	}

	if err := p.notificationRepo.Create(&model.Notification{
		UserID:    msg.AuthorID,
		Type:      msg.Type,
		CommentID: msg.CommentID,
		Message:   message,
	}); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	// 邮件失败不阻塞，站内通知已落库
	if p.emailService != nil && msg.AuthorEmail != "" {
		if err := p.emailService.SendCommentRejected(msg.AuthorEmail, msg.Excerpt, msg.Reason); err != nil {
			log.Printf("Failed to send rejection email for comment %d: %v", msg.CommentID, err)
		}
	}

	return nil
}

func (p *Processor) handleRestored(msg *queue.NotificationMessage) error {
	message := fmt.Sprintf("你的评论「%s」已恢复显示", msg.Excerpt)

	if err := p.notificationRepo.Create(&model.Notification{
		UserID:    msg.AuthorID,
		Type:      msg.Type,
		CommentID: msg.CommentID,
		Message:   message,
	}); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if p.emailService != nil && msg.AuthorEmail != "" {
		if err := p.emailService.SendCommentRestored(msg.AuthorEmail, msg.Excerpt); err != nil {
			log.Printf("Failed to send restore email for comment %d: %v", msg.CommentID, err)
		}
	}

	return nil
}

// handleFlagged 举报数达到阈值，给所有管理员发站内通知
func (p *Processor) handleFlagged(msg *queue.NotificationMessage) error {
	admins, err := p.userRepo.ListAdmins()
	if err != nil {
		return fmt.Errorf("failed to list admins: %w", err)
	}

	message := fmt.Sprintf("评论「%s」被举报 %d 次，请及时处理", msg.Excerpt, msg.ReportCount)
	for _, admin := range admins {
		if err := p.notificationRepo.Create(&model.Notification{
			UserID:    admin.ID,
			Type:      msg.Type,
			CommentID: msg.CommentID,
			Message:   message,
		}); err != nil {
			log.Printf("Failed to notify admin %d for comment %d: %v", admin.ID, msg.CommentID, err)
		}
	}

	return nil
}
