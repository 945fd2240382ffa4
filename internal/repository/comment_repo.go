package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/qs3c/tutor_go_server/internal/model"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create 创建评论；如果是回复，同一事务内维护父评论的回复计数
func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(comment).Error; err != nil {
			return err
		}
		if comment.ParentID != nil {
			return tx.Model(&model.Comment{}).Where("id = ?", *comment.ParentID).
				Update("reply_count", gorm.Expr("reply_count + 1")).Error
		}
		return nil
	})
}

// GetByID 根据 ID 获取评论
func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	err := r.db.Where("id = ?", id).First(&comment).Error
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateContent 更新评论内容，旧版本同一事务内写入编辑历史
func (r *CommentRepository) UpdateContent(id int64, oldContent, newContent string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		revision := &model.CommentRevision{
			CommentID: id,
			Content:   oldContent,
			EditedAt:  time.Now(),
		}
		if err := tx.Create(revision).Error; err != nil {
			return err
		}
		return tx.Model(&model.Comment{}).Where("id = ?", id).
			Updates(map[string]interface{}{
				"content":   newContent,
				"is_edited": true,
			}).Error
	})
}

// ListRevisions 获取评论的编辑历史
func (r *CommentRepository) ListRevisions(commentID int64) ([]*model.CommentRevision, error) {
	var revisions []*model.CommentRevision
	err := r.db.Where("comment_id = ?", commentID).
		Order("edited_at ASC").Find(&revisions).Error
	return revisions, err
}

// SetApproved 更新审核状态
func (r *CommentRepository) SetApproved(id int64, approved bool) error {
	return r.db.Model(&model.Comment{}).Where("id = ?", id).
		Update("is_approved", approved).Error
}

// GetSubtree 获取评论及其全部后代（逐层批量查询，层级有上限）
func (r *CommentRepository) GetSubtree(rootID int64) ([]*model.Comment, error) {
	var root model.Comment
	if err := r.db.Where("id = ?", rootID).First(&root).Error; err != nil {
		return nil, err
	}

	comments := []*model.Comment{&root}
	frontier := []int64{rootID}

	for len(frontier) > 0 {
		var children []*model.Comment
		err := r.db.Where("parent_id IN ?", frontier).
			Order("created_at ASC").Find(&children).Error
		if err != nil {
			return nil, err
		}
		if len(children) == 0 {
			break
		}

		frontier = frontier[:0]
		for _, c := range children {
			comments = append(comments, c)
			frontier = append(frontier, c.ID)
		}
	}

	return comments, nil
}

// DeleteSubtree 级联删除评论及其全部后代，连同表态/举报/编辑历史，单事务执行。
// 返回删除的评论数。
func (r *CommentRepository) DeleteSubtree(rootID int64) (int64, error) {
	var deleted int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var root model.Comment
		if err := tx.Where("id = ?", rootID).First(&root).Error; err != nil {
			return err
		}

		// 逐层收集后代 ID
		ids := []int64{rootID}
		frontier := []int64{rootID}
		for len(frontier) > 0 {
			var childIDs []int64
			if err := tx.Model(&model.Comment{}).Where("parent_id IN ?", frontier).
				Pluck("id", &childIDs).Error; err != nil {
				return err
			}
			if len(childIDs) == 0 {
				break
			}
			ids = append(ids, childIDs...)
			frontier = childIDs
		}

		if err := tx.Where("comment_id IN ?", ids).Delete(&model.CommentReaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&model.CommentReport{}).Error; err != nil {
			return err
		}
		if err := tx.Where("comment_id IN ?", ids).Delete(&model.CommentRevision{}).Error; err != nil {
			return err
		}

		result := tx.Where("id IN ?", ids).Delete(&model.Comment{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected

		// 从父评论的回复计数中摘除
		if root.ParentID != nil {
			return tx.Model(&model.Comment{}).
				Where("id = ? AND reply_count > 0", *root.ParentID).
				Update("reply_count", gorm.Expr("reply_count - 1")).Error
		}
		return nil
	})

	return deleted, err
}

// ListTopLevel 获取内容的顶层评论列表（仅已通过审核）
func (r *CommentRepository) ListTopLevel(contentType string, contentID int64, page, limit int, orderClause string) ([]*model.Comment, int64, error) {
	var comments []*model.Comment
	var total int64

	query := r.db.Model(&model.Comment{}).
		Where("content_type = ? AND content_id = ? AND level = 0 AND is_approved = ?",
			contentType, contentID, true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order(orderClause).Offset(offset).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// GetRepliesByParentIDs 批量获取直接回复（仅已通过审核，按时间正序）
func (r *CommentRepository) GetRepliesByParentIDs(parentIDs []int64) ([]*model.Comment, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}

	var replies []*model.Comment
	err := r.db.Where("parent_id IN ? AND is_approved = ?", parentIDs, true).
		Order("created_at ASC").
		Find(&replies).Error
	return replies, err
}

// ListReplies 分页获取某条评论的直接回复（仅已通过审核，按时间正序）
func (r *CommentRepository) ListReplies(parentID int64, page, limit int) ([]*model.Comment, int64, error) {
	var replies []*model.Comment
	var total int64

	query := r.db.Model(&model.Comment{}).
		Where("parent_id = ? AND is_approved = ?", parentID, true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("created_at ASC").Offset(offset).Limit(limit).Find(&replies).Error
	if err != nil {
		return nil, 0, err
	}

	return replies, total, nil
}

// ListReported 获取被举报的评论（管理端，按举报数倒序）
func (r *CommentRepository) ListReported(page, limit int) ([]*model.Comment, int64, error) {
	var comments []*model.Comment
	var total int64

	query := r.db.Model(&model.Comment{}).Where("is_reported = ?", true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("report_count DESC, created_at DESC").
		Offset(offset).Limit(limit).Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

// CountAll 评论总数
func (r *CommentRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Count(&count).Error
	return count, err
}

// CountApproved 已通过审核的评论数
func (r *CommentRepository) CountApproved() (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("is_approved = ?", true).Count(&count).Error
	return count, err
}

// CountPending 待审核（被下架）的评论数
func (r *CommentRepository) CountPending() (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("is_approved = ?", false).Count(&count).Error
	return count, err
}

// CountReported 被举报的评论数
func (r *CommentRepository) CountReported() (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("is_reported = ?", true).Count(&count).Error
	return count, err
}

// CountReplies 回复数（level > 0）
func (r *CommentRepository) CountReplies() (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("level > 0").Count(&count).Error
	return count, err
}

// CountByContentType 某内容类型下的评论总数
func (r *CommentRepository) CountByContentType(contentType string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Comment{}).Where("content_type = ?", contentType).Count(&count).Error
	return count, err
}

// TopCommenterRow 活跃评论用户聚合行
type TopCommenterRow struct {
	UserID       int64
	Name         string
	CommentCount int64
}

// TopCommenters 按已通过审核的评论数取前 N 名用户
func (r *CommentRepository) TopCommenters(limit int) ([]*TopCommenterRow, error) {
	var rows []*TopCommenterRow
	err := r.db.Model(&model.Comment{}).
		Select("author_id AS user_id, author_name AS name, COUNT(*) AS comment_count").
		Where("is_approved = ?", true).
		Group("author_id, author_name").
		Order("comment_count DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// ReconcileCounters 对账：按实际行数重算冗余计数（对账任务调用）
func (r *CommentRepository) ReconcileCounters() error {
	stmts := []string{
		`UPDATE comments SET like_count = (
			SELECT COUNT(*) FROM comment_reactions
			WHERE comment_reactions.comment_id = comments.id AND comment_reactions.type = 'like')`,
		`UPDATE comments SET dislike_count = (
			SELECT COUNT(*) FROM comment_reactions
			WHERE comment_reactions.comment_id = comments.id AND comment_reactions.type = 'dislike')`,
		`UPDATE comments SET reply_count = (
			SELECT COUNT(*) FROM comments AS children
			WHERE children.parent_id = comments.id)`,
		`UPDATE comments SET report_count = (
			SELECT COUNT(*) FROM comment_reports
			WHERE comment_reports.comment_id = comments.id)`,
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

// FindOrphanIDs 查找父评论已不存在的回复（级联删除与并发回复竞争的残留）
func (r *CommentRepository) FindOrphanIDs() ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Comment{}).
		Where("parent_id IS NOT NULL AND parent_id NOT IN (?)",
			r.db.Model(&model.Comment{}).Select("id")).
		Pluck("id", &ids).Error
	return ids, err
}
