package model

import (
	"time"
)

// 举报原因
const (
	ReportReasonSpam          = "spam"
	ReportReasonInappropriate = "inappropriate"
	ReportReasonOffensive     = "offensive"
	ReportReasonHarassment    = "harassment"
	ReportReasonOther         = "other"
)

// ValidReportReason 校验举报原因枚举
func ValidReportReason(reason string) bool {
	switch reason {
	case ReportReasonSpam, ReportReasonInappropriate, ReportReasonOffensive,
		ReportReasonHarassment, ReportReasonOther:
		return true
	}
	return false
}

// CommentReport 唯一索引保证同一用户对同一评论只能举报一次
type CommentReport struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	CommentID   int64     `gorm:"not null;uniqueIndex:idx_report_comment_user,priority:1" json:"comment_id"`
	UserID      int64     `gorm:"not null;uniqueIndex:idx_report_comment_user,priority:2" json:"user_id"`
	Reason      string    `gorm:"size:20;not null" json:"reason"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (CommentReport) TableName() string {
	return "comment_reports"
}
