package repository

import (
	"gorm.io/gorm"

	"github.com/qs3c/tutor_go_server/internal/model"
)

// ContentRepository 教程/课程的只读视角 + 评论计数维护。
// 内容模块本身的增删改查不在本仓库范围内。
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// Exists 检查指定类型的内容是否存在
func (r *ContentRepository) Exists(contentType string, contentID int64) (bool, error) {
	var count int64
	query := r.db.Where("id = ?", contentID)

	switch contentType {
	case model.ContentTypeTutorial:
		query = query.Model(&model.Tutorial{})
	case model.ContentTypeCourse:
		query = query.Model(&model.Course{})
	default:
		return false, nil
	}

	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// IncrementCommentCount 维护内容上的评论计数
func (r *ContentRepository) IncrementCommentCount(contentType string, contentID int64, delta int) error {
	expr := gorm.Expr("comment_count + ?", delta)

	switch contentType {
	case model.ContentTypeTutorial:
		return r.db.Model(&model.Tutorial{}).Where("id = ?", contentID).
			Update("comment_count", expr).Error
	case model.ContentTypeCourse:
		return r.db.Model(&model.Course{}).Where("id = ?", contentID).
			Update("comment_count", expr).Error
	}
	return nil
}

// CountPublishedTutorials 已发布教程数（统计用）
func (r *ContentRepository) CountPublishedTutorials() (int64, error) {
	var count int64
	err := r.db.Model(&model.Tutorial{}).
		Where("status = ?", model.TutorialStatusPublished).Count(&count).Error
	return count, err
}

// CountPublishedCourses 已发布课程数（统计用）
func (r *ContentRepository) CountPublishedCourses() (int64, error) {
	var count int64
	err := r.db.Model(&model.Course{}).
		Where("status = ?", model.CourseStatusPublished).Count(&count).Error
	return count, err
}

// ReconcileCommentCounts 对账：按评论表实际行数重算内容上的评论计数
func (r *ContentRepository) ReconcileCommentCounts() error {
	stmts := []string{
		`UPDATE tutorials SET comment_count = (
			SELECT COUNT(*) FROM comments
			WHERE comments.content_type = 'tutorial' AND comments.content_id = tutorials.id)`,
		`UPDATE courses SET comment_count = (
			SELECT COUNT(*) FROM comments
			WHERE comments.content_type = 'course' AND comments.content_id = courses.id)`,
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range stmts {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
