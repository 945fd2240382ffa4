package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/tutor_go_server/internal/api/middleware"
	"github.com/qs3c/tutor_go_server/internal/model/dto"
	"github.com/qs3c/tutor_go_server/internal/pkg/response"
	"github.com/qs3c/tutor_go_server/internal/service"
)

type AdminHandler struct {
	commentService *service.CommentService
	queryService   *service.CommentQueryService
}

func NewAdminHandler(commentService *service.CommentService, queryService *service.CommentQueryService) *AdminHandler {
	return &AdminHandler{
		commentService: commentService,
		queryService:   queryService,
	}
}

// Moderate 审核评论（approve/reject/delete/restore）
// POST /api/v1/admin/comments/:id/moderate
func (h *AdminHandler) Moderate(c *gin.Context) {
	moderatorID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的评论ID")
		return
	}

	var req dto.ModerateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, err.Error())
		return
	}

	comment, err := h.commentService.Moderate(commentID, moderatorID, &req)
	if err != nil {
		handleCommentError(c, err)
		return
	}

	response.SuccessWithMessage(c, "处理成功", comment)
}

// ListReported 获取被举报的评论列表
// GET /api/v1/admin/comments/reported
func (h *AdminHandler) ListReported(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	items, pagination, err := h.queryService.ListReported(page, limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"comments":   items,
		"pagination": pagination,
	})
}

// Stats 获取评论统计
// GET /api/v1/admin/comments/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.queryService.Stats()
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, stats)
}
