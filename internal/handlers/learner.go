package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"edumaster/web/internal/models"
	"edumaster/web/internal/store"
)

type dashboardView struct {
	User          models.User                         `json:"user"`
	Enrollments   store.Collection[models.Enrollment] `json:"enrollments"`
	Notifications store.NotificationsState            `json:"notifications"`
}

func (h HandlerSet) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)

	_ = h.enrollments.Fetch(ctx, user.ID, 0, 10)
	_ = h.notifications.Fetch(ctx, user.ID, 0, 20)

	c.JSON(http.StatusOK, dashboardView{
		User:          user,
		Enrollments:   h.enrollments.State(),
		Notifications: h.notifications.State(),
	})
}

func (h HandlerSet) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentUser(c)})
}

func (h HandlerSet) MyCourses(c *gin.Context) {
	page, size := pageParams(c, 10)
	_ = h.enrollments.Fetch(c.Request.Context(), currentUser(c).ID, page, size)
	c.JSON(http.StatusOK, h.enrollments.State())
}

func (h HandlerSet) Enroll(c *gin.Context) {
	courseID, ok := pathID(c)
	if !ok {
		return
	}

	enrollment, err := h.enrollments.Enroll(c.Request.Context(), courseID, currentUser(c).ID)
	if err != nil {
		respondError(c, err, "Failed to enroll in course")
		return
	}
	c.JSON(http.StatusCreated, enrollment)
}

func (h HandlerSet) UpdateProgress(c *gin.Context) {
	enrollmentID, ok := pathID(c)
	if !ok {
		return
	}
	progress, err := strconv.ParseFloat(c.Query("progress"), 64)
	if err != nil || progress < 0 || progress > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "progress must be between 0 and 100"})
		return
	}

	enrollment, err := h.enrollments.UpdateProgress(c.Request.Context(), enrollmentID, progress)
	if err != nil {
		respondError(c, err, "Failed to update progress")
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

func (h HandlerSet) Payments(c *gin.Context) {
	page, size := pageParams(c, 10)
	_ = h.payments.Fetch(c.Request.Context(), currentUser(c).ID, page, size)
	c.JSON(http.StatusOK, h.payments.State())
}

func (h HandlerSet) CreatePaymentIntent(c *gin.Context) {
	courseID, err := strconv.ParseInt(c.Query("courseId"), 10, 64)
	if err != nil || courseID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "courseId is required"})
		return
	}

	intent, err := h.api.Payments.CreateIntent(c.Request.Context(), currentUser(c).ID, courseID)
	if err != nil {
		respondError(c, err, "Failed to create payment intent")
		return
	}
	c.JSON(http.StatusCreated, intent)
}

type confirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" binding:"required"`
	PaymentMethodID string `json:"paymentMethodId" binding:"required"`
}

func (h HandlerSet) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	payment, err := h.payments.Confirm(c.Request.Context(), req.PaymentIntentID, req.PaymentMethodID)
	if err != nil {
		respondError(c, err, "Payment confirmation failed")
		return
	}
	c.JSON(http.StatusOK, payment)
}

func (h HandlerSet) MarkNotificationRead(c *gin.Context) {
	notificationID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.notifications.MarkRead(c.Request.Context(), notificationID); err != nil {
		respondError(c, err, "Failed to mark notification as read")
		return
	}
	c.JSON(http.StatusOK, h.notifications.State())
}
