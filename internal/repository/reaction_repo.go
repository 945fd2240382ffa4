package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/qs3c/tutor_go_server/internal/model"
)

// 切换结果
const (
	ActionLiked      = "liked"
	ActionUnliked    = "unliked"
	ActionDisliked   = "disliked"
	ActionUndisliked = "undisliked"
)

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Toggle 切换用户对评论的表态，返回本次动作。
// 每个 (评论, 用户) 至多一行表态，行的增删改和计数更新在同一事务内完成。
// 新增方向由唯一索引兜底并发重复插入；取消/翻转方向的写入带行快照条件，
// 行已被并发事务改掉时落空，计数只跟着真正生效的写入走，不会被重复扣减。
func (r *ReactionRepository) Toggle(commentID, userID int64, reactionType string) (string, error) {
	var action string

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing model.CommentReaction
		err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).
			First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 无表态 -> 新增
			reaction := &model.CommentReaction{
				CommentID: commentID,
				UserID:    userID,
				Type:      reactionType,
			}
			if err := tx.Create(reaction).Error; err != nil {
				return err
			}
			if err := incrementReactionCount(tx, commentID, reactionType, 1); err != nil {
				return err
			}
			action = addAction(reactionType)

		case err != nil:
			return err

		case existing.Type == reactionType:
			// 同类表态 -> 取消
			removed, err := removeReaction(tx, &existing)
			if err != nil {
				return err
			}
			if removed {
				if err := incrementReactionCount(tx, commentID, reactionType, -1); err != nil {
					return err
				}
			}
			action = removeAction(reactionType)

		default:
			// 异类表态 -> 原地翻转，互斥由唯一行保证
			flipped, err := flipReaction(tx, &existing, reactionType)
			if err != nil {
				return err
			}
			if flipped {
				if err := incrementReactionCount(tx, commentID, existing.Type, -1); err != nil {
					return err
				}
				if err := incrementReactionCount(tx, commentID, reactionType, 1); err != nil {
					return err
				}
			}
			action = addAction(reactionType)
		}
		return nil
	})

	return action, err
}

// removeReaction 按读到的行快照做条件删除；返回是否真正删掉了行。
// 并发的同类切换里后提交的一方会落空（0 行），此时计数不能再扣。
func removeReaction(tx *gorm.DB, existing *model.CommentReaction) (bool, error) {
	result := tx.Where("id = ? AND type = ?", existing.ID, existing.Type).
		Delete(&model.CommentReaction{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// flipReaction 按读到的行快照做条件翻转；返回是否真正改到了行
func flipReaction(tx *gorm.DB, existing *model.CommentReaction, newType string) (bool, error) {
	result := tx.Model(&model.CommentReaction{}).
		Where("id = ? AND type = ?", existing.ID, existing.Type).
		Update("type", newType)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Get 获取用户对评论的表态
func (r *ReactionRepository) Get(commentID, userID int64) (*model.CommentReaction, error) {
	var reaction model.CommentReaction
	err := r.db.Where("comment_id = ? AND user_id = ?", commentID, userID).
		First(&reaction).Error
	if err != nil {
		return nil, err
	}
	return &reaction, nil
}

// CountByType 统计评论某类表态的实际行数
func (r *ReactionRepository) CountByType(commentID int64, reactionType string) (int64, error) {
	var count int64
	err := r.db.Model(&model.CommentReaction{}).
		Where("comment_id = ? AND type = ?", commentID, reactionType).
		Count(&count).Error
	return count, err
}

func incrementReactionCount(tx *gorm.DB, commentID int64, reactionType string, delta int) error {
	column := "like_count"
	if reactionType == model.ReactionDislike {
		column = "dislike_count"
	}
	return tx.Model(&model.Comment{}).Where("id = ?", commentID).
		Update(column, gorm.Expr(column+" + ?", delta)).Error
}

func addAction(reactionType string) string {
	if reactionType == model.ReactionDislike {
		return ActionDisliked
	}
	return ActionLiked
}

func removeAction(reactionType string) string {
	if reactionType == model.ReactionDislike {
		return ActionUndisliked
	}
	return ActionUnliked
}
