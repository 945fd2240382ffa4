package model

import (
	"time"
)

// 通知事件类型
const (
	NotificationCommentRejected = "comment_rejected"
	NotificationCommentRestored = "comment_restored"
	NotificationCommentFlagged  = "comment_flagged"
)

// Notification 由 worker 消费队列后落库，供站内消息列表使用
type Notification struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	Type      string    `gorm:"size:30;not null" json:"type"`
	CommentID int64     `gorm:"index" json:"comment_id"`
	Message   string    `gorm:"size:500" json:"message"`
	IsRead    bool      `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
