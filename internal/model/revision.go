package model

import (
	"time"
)

// CommentRevision 编辑历史：每次修改前的旧内容存一行
type CommentRevision struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CommentID int64     `gorm:"not null;index" json:"comment_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	EditedAt  time.Time `json:"edited_at"`
}

func (CommentRevision) TableName() string {
	return "comment_revisions"
}
