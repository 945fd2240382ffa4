package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/tutor_go_server/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// Add 新增举报并更新评论的举报状态，单事务执行，返回更新后的举报数。
// 计数在事务内自增后回读，UPDATE 的行锁保证并发举报各自拿到不同的值，
// 调用方据此做阈值判断不会漏触发或重复触发。
// 同一用户重复举报由唯一索引拦截，返回 gorm.ErrDuplicatedKey。
func (r *ReportRepository) Add(report *model.CommentReport) (int64, error) {
	var reportCount int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Comment{}).Where("id = ?", report.CommentID).
			Updates(map[string]interface{}{
				"report_count": gorm.Expr("report_count + 1"),
				"is_reported":  true,
			}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Comment{}).Select("report_count").
			Where("id = ?", report.CommentID).Take(&reportCount).Error
	})
	return reportCount, err
}

// ListByCommentID 获取某条评论的全部举报
func (r *ReportRepository) ListByCommentID(commentID int64) ([]*model.CommentReport, error) {
	var reports []*model.CommentReport
	err := r.db.Where("comment_id = ?", commentID).
		Order("created_at ASC").Find(&reports).Error
	return reports, err
}

// ListByCommentIDs 批量获取举报（管理端列表用）
func (r *ReportRepository) ListByCommentIDs(commentIDs []int64) ([]*model.CommentReport, error) {
	if len(commentIDs) == 0 {
		return nil, nil
	}

	var reports []*model.CommentReport
	err := r.db.Where("comment_id IN ?", commentIDs).
		Order("created_at ASC").Find(&reports).Error
	return reports, err
}

// Clear 清空评论的举报记录并复位举报状态，单事务执行（恢复操作用）
func (r *ReportRepository) Clear(commentID int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("comment_id = ?", commentID).
			Delete(&model.CommentReport{}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Comment{}).Where("id = ?", commentID).
			Updates(map[string]interface{}{
				"report_count": 0,
				"is_reported":  false,
			}).Error
	})
}
