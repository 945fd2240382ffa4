package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/tutor_go_server/internal/api/middleware"
	"github.com/qs3c/tutor_go_server/internal/pkg/response"
	"github.com/qs3c/tutor_go_server/internal/repository"
)

type NotificationHandler struct {
	notificationRepo *repository.NotificationRepository
}

func NewNotificationHandler(notificationRepo *repository.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepo: notificationRepo}
}

// List 获取当前用户的通知列表
// GET /api/v1/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	notifications, total, err := h.notificationRepo.ListByUser(userID, page, limit)
	if err != nil {
		response.ServerError(c, "")
		return
	}

	response.Success(c, gin.H{
		"notifications": notifications,
		"total":         total,
	})
}

// MarkRead 标记通知已读
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	notificationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.ParamError(c, "无效的通知ID")
		return
	}

	if err := h.notificationRepo.MarkRead(userID, notificationID); err != nil {
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "已标记为已读", nil)
}
