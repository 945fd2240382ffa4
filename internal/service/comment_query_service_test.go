package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/qs3c/tutor_go_server/internal/model"
	"github.com/qs3c/tutor_go_server/internal/model/dto"
	"github.com/qs3c/tutor_go_server/internal/repository"
	"github.com/qs3c/tutor_go_server/internal/testutil"
)

func setupQueryService(t *testing.T, db *gorm.DB) *CommentQueryService {
	t.Helper()

	return NewCommentQueryService(
		repository.NewCommentRepository(db),
		repository.NewReportRepository(db),
		repository.NewContentRepository(db),
	)
}

func TestCommentQueryService_ListByContent_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupQueryService(t, db)

	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)

	for i := 0; i < 25; i++ {
		testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	}

	// 第一页
	data, err := service.ListByContent(model.ContentTypeTutorial, tutorial.ID, &dto.CommentListRequest{
		Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Len(t, data.Comments, 10)
	assert.Equal(t, 1, data.Pagination.CurrentPage)
	assert.Equal(t, int64(3), data.Pagination.TotalPages)
	assert.Equal(t, int64(25), data.Pagination.TotalComments)
	assert.True(t, data.Pagination.HasNext)
	assert.False(t, data.Pagination.HasPrev)

	// 末页只剩 5 条
	data, err = service.ListByContent(model.ContentTypeTutorial, tutorial.ID, &dto.CommentListRequest{
		Page: 3, Limit: 10,
	})
	require.NoError(t, err)
	assert.Len(t, data.Comments, 5)
	assert.False(t, data.Pagination.HasNext)
	assert.True(t, data.Pagination.HasPrev)
}

func TestCommentQueryService_ListByContent_EmptyContent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupQueryService(t, db)

	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)

	data, err := service.ListByContent(model.ContentTypeTutorial, tutorial.ID, &dto.CommentListRequest{
		Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, data.Comments)
	assert.Equal(t, int64(0), data.Pagination.TotalPages)
	assert.False(t, data.Pagination.HasNext)
	assert.False(t, data.Pagination.HasPrev)
}

func TestCommentQueryService_ListByContent_NestedReplies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupQueryService(t, db)

	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)

	// root -> child -> grandchild -> greatgrandchild（3 级）
	root := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	child := testutil.TestReply(t, db, user, root)
	grandchild := testutil.TestReply(t, db, user, child)
	testutil.TestReply(t, db, user, grandchild)

	data, err := service.ListByContent(model.ContentTypeTutorial, tutorial.ID, &dto.CommentListRequest{
		Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, data.Comments, 1)

	level0 := data.Comments[0]
	assert.Equal(t, root.ID, level0.ID)
	require.Len(t, level0.Replies, 1)

	level1 := level0.Replies[0]
	assert.Equal(t, child.ID, level1.ID)
	assert.Equal(t, 1, level1.Level)
	require.Len(t, level1.Replies, 1)

	level2 := level1.Replies[0]
	assert.Equal(t, grandchild.ID, level2.ID)
	require.Len(t, level2.Replies, 1)
	assert.Equal(t, 3, level2.Replies[0].Level)
}

func TestCommentQueryService_ListByContent_HidesUnapproved(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupQueryService(t, db)

	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)

	visible := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID,
		testutil.WithApproved(false))
	testutil.TestReply(t, db, user, visible, testutil.WithApproved(false))

	data, err := service.ListByContent(model.ContentTypeTutorial, tutorial.ID, &dto.CommentListRequest{
		Page: 1, Limit: 10,
	})
	require.NoError(t, err)
	require.Len(t, data.Comments, 1)
	assert.Equal(t, visible.ID, data.Comments[0].ID)
	assert.Empty(t, data.Comments[0].Replies)
}

func TestCommentQueryService_ListByContent_SortByLikes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupQueryService(t, db)

	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)

	low := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	high := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	require.NoError(t, db.Model(&model.Comment{}).Where("id = ?", high.ID).
		Update("like_count", 10).Error)
	require.NoError(t, db.Model(&model.Comment{}).Where("id = ?", low.ID).
		Update("like_count", 2).Error)

	data, err := service.ListByContent(model.ContentTypeTutorial, tutorial.ID, &dto.CommentListRequest{
		Page: 1, Limit: 10, SortBy: "likes", SortOrder: "desc",
	})
	require.NoError(t, err)
	require.Len(t, data.Comments, 2)
	assert.Equal(t, high.ID, data.Comments[0].ID)
	assert.Equal(t, low.ID, data.Comments[1].ID)
}

func TestCommentQueryService_ListByContent_ContentNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupQueryService(t, db)

	_, err := service.ListByContent(model.ContentTypeTutorial, 99999, &dto.CommentListRequest{
		Page: 1, Limit: 10,
	})
	assert.Equal(t, ErrContentNotFound, err)

	_, err = service.ListByContent("article", 1, &dto.CommentListRequest{Page: 1, Limit: 10})
	assert.Equal(t, ErrInvalidContentType, err)
}

func TestCommentQueryService_ListReplies(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupQueryService(t, db)

	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)
	parent := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)

	for i := 0; i < 7; i++ {
		testutil.TestReply(t, db, user, parent)
	}

	data, err := service.ListReplies(parent.ID, 1, 5)
	require.NoError(t, err)
	assert.Len(t, data.Replies, 5)
	assert.Equal(t, int64(7), data.Pagination.TotalComments)
	assert.Equal(t, int64(2), data.Pagination.TotalPages)

	_, err = service.ListReplies(99999, 1, 5)
	assert.Equal(t, ErrCommentNotFound, err)
}

func TestNormalizePage(t *testing.T) {
	page, limit := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	// 超出上限收敛到上限，而不是退回默认值
	page, limit = normalizePage(2, 101)
	assert.Equal(t, 2, page)
	assert.Equal(t, 100, limit)

	page, limit = normalizePage(3, 50)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, limit)
}

func TestCommentQueryService_ListReplies_LimitClamped(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupQueryService(t, db)

	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)
	parent := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)

	for i := 0; i < 12; i++ {
		testutil.TestReply(t, db, user, parent)
	}

	// limit 超过上限按 100 取，一页能拿全 12 条
	data, err := service.ListReplies(parent.ID, 1, 101)
	require.NoError(t, err)
	assert.Len(t, data.Replies, 12)
	assert.Equal(t, int64(1), data.Pagination.TotalPages)
}

func TestCommentQueryService_Stats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupQueryService(t, db)

	user := testutil.TestUser(t, db, testutil.WithUsername("prolific"))
	tutorial := testutil.TestTutorial(t, db, user.ID)
	testutil.TestTutorial(t, db, user.ID)
	testutil.TestTutorial(t, db, user.ID, testutil.WithTutorialStatus(model.TutorialStatusDraft))
	course := testutil.TestCourse(t, db, user.ID)

	// 教程下 3 条（其中 1 条未过审），课程下 1 条
	c1 := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)
	testutil.TestReply(t, db, user, c1)
	testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID,
		testutil.WithApproved(false))
	reported := testutil.TestComment(t, db, user, model.ContentTypeCourse, course.ID)
	require.NoError(t, db.Model(&model.Comment{}).Where("id = ?", reported.ID).
		Update("is_reported", true).Error)

	stats, err := service.Stats()
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalComments)
	assert.Equal(t, int64(3), stats.ApprovedComments)
	assert.Equal(t, int64(1), stats.PendingComments)
	assert.Equal(t, int64(1), stats.ReportedComments)
	assert.Equal(t, int64(1), stats.TotalReplies)

	// 均值只按已发布内容做分母：教程 3 条评论 / 2 个已发布教程
	assert.Equal(t, 1.5, stats.AverageCommentsPerTutorial)
	assert.Equal(t, 1.0, stats.AverageCommentsPerCourse)

	require.NotEmpty(t, stats.TopCommenters)
	assert.Equal(t, "prolific", stats.TopCommenters[0].Name)
}

func TestCommentQueryService_ListReported(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	service := setupQueryService(t, db)

	reportRepo := repository.NewReportRepository(db)
	user := testutil.TestUser(t, db)
	tutorial := testutil.TestTutorial(t, db, user.ID)
	comment := testutil.TestComment(t, db, user, model.ContentTypeTutorial, tutorial.ID)

	for i := 0; i < 2; i++ {
		reporter := testutil.TestUser(t, db)
		_, err := reportRepo.Add(&model.CommentReport{
			CommentID:   comment.ID,
			UserID:      reporter.ID,
			Reason:      model.ReportReasonSpam,
			Description: "spam link",
		})
		require.NoError(t, err)
	}

	items, pagination, err := service.ListReported(1, 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, comment.ID, items[0].Comment.ID)
	assert.Len(t, items[0].Reports, 2)
	assert.Equal(t, int64(1), pagination.TotalComments)
}
