package model

import (
	"time"
)

// 评论表态类型
const (
	ReactionLike    = "like"
	ReactionDislike = "dislike"
)

// CommentReaction 每个 (评论, 用户) 至多一行，唯一索引保证点赞/点踩互斥
type CommentReaction struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	CommentID int64     `gorm:"not null;uniqueIndex:idx_reaction_comment_user,priority:1" json:"comment_id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_reaction_comment_user,priority:2;index" json:"user_id"`
	Type      string    `gorm:"size:20;not null" json:"type"` // like, dislike
	CreatedAt time.Time `json:"created_at"`
}

func (CommentReaction) TableName() string {
	return "comment_reactions"
}
