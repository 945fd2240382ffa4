package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/tutor_go_server/internal/api/middleware"
	"github.com/qs3c/tutor_go_server/internal/model"
	"github.com/qs3c/tutor_go_server/internal/model/dto"
	"github.com/qs3c/tutor_go_server/internal/pkg/response"
	"github.com/qs3c/tutor_go_server/internal/service"
)

type CommentHandler struct {
	commentService *service.CommentService
	queryService   *service.CommentQueryService
}

func NewCommentHandler(commentService *service.CommentService, queryService *service.CommentQueryService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		queryService:   queryService,
	}
}

// ListByTutorial 获取教程的评论列表
// GET /api/v1/tutorials/:id/comments
func (h *CommentHandler) ListByTutorial(c *gin.Context) {
	h.listByContent(c, model.ContentTypeTutorial)
}

// ListByCourse 获取课程的评论列表
// GET /api/v1/courses/:id/comments
func (h *CommentHandler) ListByCourse(c *gin.Context) {
	h.listByContent(c, model.ContentTypeCourse)
}

func (h *CommentHandler) listByContent(c *gin.Context, contentType string) {
	contentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的内容ID")
		return
	}

	var req dto.CommentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	data, err := h.queryService.ListByContent(contentType, contentID, &req)
	if err != nil {
		handleCommentError(c, err)
		return
	}

	response.Success(c, data)
}

// ListReplies 获取评论的回复列表
// GET /api/v1/comments/:id/replies
func (h *CommentHandler) ListReplies(c *gin.Context) {
	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	data, err := h.queryService.ListReplies(commentID, page, limit)
	if err != nil {
		handleCommentError(c, err)
		return
	}

	response.Success(c, data)
}

// Create 发表评论
// POST /api/v1/comments
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	comment, err := h.commentService.Create(userID, &req)
	if err != nil {
		handleCommentError(c, err)
		return
	}

	response.SuccessWithMessage(c, "评论成功", comment)
}

// Update 编辑评论
// PUT /api/v1/comments/:id
func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	var req dto.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	comment, err := h.commentService.Update(commentID, userID, &req)
	if err != nil {
		handleCommentError(c, err)
		return
	}

	response.SuccessWithMessage(c, "修改成功", comment)
}

// Delete 删除评论（作者本人或管理员，级联删除全部回复）
// DELETE /api/v1/comments/:id
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	if err := h.commentService.Delete(commentID, userID, middleware.IsAdmin(c)); err != nil {
		handleCommentError(c, err)
		return
	}

	response.SuccessWithMessage(c, "删除成功", nil)
}

// ToggleLike 切换点赞
// POST /api/v1/comments/:id/like
func (h *CommentHandler) ToggleLike(c *gin.Context) {
	h.toggleReaction(c, model.ReactionLike)
}

// ToggleDislike 切换点踩
// POST /api/v1/comments/:id/dislike
func (h *CommentHandler) ToggleDislike(c *gin.Context) {
	h.toggleReaction(c, model.ReactionDislike)
}

func (h *CommentHandler) toggleReaction(c *gin.Context, reactionType string) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	var result *dto.ToggleReactionResponse
	if reactionType == model.ReactionDislike {
		result, err = h.commentService.ToggleDislike(commentID, userID)
	} else {
		result, err = h.commentService.ToggleLike(commentID, userID)
	}
	if err != nil {
		handleCommentError(c, err)
		return
	}

	response.Success(c, result)
}

// Report 举报评论
// POST /api/v1/comments/:id/report
func (h *CommentHandler) Report(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	var req dto.ReportCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	if err := h.commentService.Report(commentID, userID, &req); err != nil {
		handleCommentError(c, err)
		return
	}

	response.SuccessWithMessage(c, "举报成功", nil)
}

func handleCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrContentNotFound),
		errors.Is(err, service.ErrParentNotFound),
		errors.Is(err, service.ErrCommentAuthorNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrParentContentMismatch):
		response.RelationError(c, err.Error())
	case errors.Is(err, service.ErrDepthExceeded):
		response.DepthError(c, err.Error())
	case errors.Is(err, service.ErrCommentPermission):
		response.PermissionError(c, err.Error())
	case errors.Is(err, service.ErrAlreadyReported):
		response.DuplicateError(c, err.Error())
	case errors.Is(err, service.ErrInvalidContent),
		errors.Is(err, service.ErrInvalidContentType),
		errors.Is(err, service.ErrInvalidReportReason),
		errors.Is(err, service.ErrInvalidModerateAction):
		response.ParamError(c, err.Error())
	default:
		response.ServerError(c, "")
	}
}
