package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/tutor_go_server/internal/model"
	"github.com/qs3c/tutor_go_server/internal/testutil"
)

func TestCommentRepository_Create_TopLevel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)

	comment := &model.Comment{
		ContentType: model.ContentTypeTutorial,
		ContentID:   tutorial.ID,
		Content:     "Great tutorial",
		AuthorID:    user.ID,
		AuthorName:  user.Username,
		IsApproved:  true,
	}

	err := repo.Create(comment)
	require.NoError(t, err)
	assert.NotZero(t, comment.ID)
	assert.Equal(t, 0, comment.Level)
	assert.Nil(t, comment.ParentID)
}

func TestCommentRepository_Create_ReplyIncrementsParentCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)
	parent := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)

	reply := &model.Comment{
		ContentType: model.ContentTypeTutorial,
		ContentID:   tutorial.ID,
		ParentID:    &parent.ID,
		Level:       1,
		Content:     "Agreed",
		AuthorID:    user.ID,
		AuthorName:  user.Username,
		IsApproved:  true,
	}

	err := repo.Create(reply)
	require.NoError(t, err)

	updated, err := repo.GetByID(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ReplyCount)
}

func TestCommentRepository_UpdateContent_KeepsRevision(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)
	comment := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID,
		testutil.WithContent("original"))

	err := repo.UpdateContent(comment.ID, "original", "edited")
	require.NoError(t, err)

	updated, err := repo.GetByID(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.True(t, updated.IsEdited)

	revisions, err := repo.ListRevisions(comment.ID)
	require.NoError(t, err)
	require.Len(t, revisions, 1)
	assert.Equal(t, "original", revisions[0].Content)
}

func TestCommentRepository_DeleteSubtree_Cascades(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)

	// root -> child -> grandchild
	root := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	child := testutil.TestReply(t, db, user, root)
	grandchild := testutil.TestReply(t, db, user, child)

	// 子树上的表态和举报也要一并删除
	require.NoError(t, db.Create(&model.CommentReaction{
		CommentID: child.ID, UserID: user.ID, Type: model.ReactionLike,
	}).Error)
	require.NoError(t, db.Create(&model.CommentReport{
		CommentID: grandchild.ID, UserID: user.ID, Reason: model.ReportReasonSpam,
	}).Error)

	deleted, err := repo.DeleteSubtree(root.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	for _, id := range []int64{root.ID, child.ID, grandchild.ID} {
		_, err := repo.GetByID(id)
		assert.Error(t, err)
	}

	var reactionCount, reportCount int64
	db.Model(&model.CommentReaction{}).Count(&reactionCount)
	db.Model(&model.CommentReport{}).Count(&reportCount)
	assert.Zero(t, reactionCount)
	assert.Zero(t, reportCount)
}

func TestCommentRepository_DeleteSubtree_DecrementsParentCount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)

	parent := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	reply := testutil.TestReply(t, db, user, parent)
	testutil.TestReply(t, db, user, parent)

	deleted, err := repo.DeleteSubtree(reply.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	updated, err := repo.GetByID(parent.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.ReplyCount)
}

func TestCommentRepository_ListTopLevel_FiltersAndPaginates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)

	for i := 0; i < 5; i++ {
		testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	}
	// 未过审的顶层评论与回复都不计入
	testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID,
		testutil.WithApproved(false))
	parent := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	testutil.TestReply(t, db, user, parent)

	comments, total, err := repo.ListTopLevel(model.ContentTypeTutorial, tutorial.ID, 1, 4, "created_at DESC")
	require.NoError(t, err)
	assert.Equal(t, int64(6), total)
	assert.Len(t, comments, 4)

	comments, _, err = repo.ListTopLevel(model.ContentTypeTutorial, tutorial.ID, 2, 4, "created_at DESC")
	require.NoError(t, err)
	assert.Len(t, comments, 2)
}

func TestCommentRepository_GetRepliesByParentIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)

	parent1 := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	parent2 := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	testutil.TestReply(t, db, user, parent1)
	testutil.TestReply(t, db, user, parent1)
	testutil.TestReply(t, db, user, parent2)
	testutil.TestReply(t, db, user, parent2, testutil.WithApproved(false))

	replies, err := repo.GetRepliesByParentIDs([]int64{parent1.ID, parent2.ID})
	require.NoError(t, err)
	assert.Len(t, replies, 3)

	replies, err = repo.GetRepliesByParentIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, replies)
}

func TestCommentRepository_ReconcileCounters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	other := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)

	comment := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	testutil.TestReply(t, db, user, comment)

	require.NoError(t, db.Create(&model.CommentReaction{
		CommentID: comment.ID, UserID: user.ID, Type: model.ReactionLike,
	}).Error)
	require.NoError(t, db.Create(&model.CommentReaction{
		CommentID: comment.ID, UserID: other.ID, Type: model.ReactionDislike,
	}).Error)

	// 人为制造计数偏差
	require.NoError(t, db.Model(&model.Comment{}).Where("id = ?", comment.ID).
		Updates(map[string]interface{}{
			"like_count":  99,
			"reply_count": 99,
		}).Error)

	require.NoError(t, repo.ReconcileCounters())

	updated, err := repo.GetByID(comment.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.LikeCount)
	assert.Equal(t, int64(1), updated.DislikeCount)
	assert.Equal(t, int64(1), updated.ReplyCount)
}

func TestCommentRepository_FindOrphanIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)

	parent := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	orphan := testutil.TestReply(t, db, user, parent)

	// 绕过级联删除，直接删掉父评论制造孤儿
	require.NoError(t, db.Delete(&model.Comment{}, parent.ID).Error)

	ids, err := repo.FindOrphanIDs()
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, orphan.ID, ids[0])
}

func TestCommentRepository_TopCommenters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewCommentRepository(db)
	active := testutil.TestUser(t, db, testutil.WithUsername("active"))
	quiet := testutil.TestUser(t, db, testutil.WithUsername("quiet"))
	tutorial := testutil.TestTutorial(t, db, active.ID)

	for i := 0; i < 3; i++ {
		testutil.TestComment(t, db, active, model.ContentTypeTutorial, tutorial.ID)
	}
	testutil.TestComment(t, db, quiet, model.ContentTypeTutorial, tutorial.ID)

	rows, err := repo.TopCommenters(10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "active", rows[0].Name)
	assert.Equal(t, int64(3), rows[0].CommentCount)
	assert.Equal(t, int64(1), rows[1].CommentCount)
}
