package model

import (
	"time"
)

// 教程状态
const (
	TutorialStatusDraft     = "draft"
	TutorialStatusPublished = "published"
)

type Tutorial struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	AuthorID     int64     `gorm:"not null;index" json:"author_id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text" json:"description"`
	Status       string    `gorm:"size:20;default:draft;index" json:"status"`
	CommentCount int64     `gorm:"default:0" json:"comment_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Tutorial) TableName() string {
	return "tutorials"
}
