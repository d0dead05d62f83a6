package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/config"
	"edumaster/web/internal/guard"
	"edumaster/web/internal/middleware"
	"edumaster/web/internal/models"
	"edumaster/web/internal/services"
	"edumaster/web/internal/session"
	"edumaster/web/internal/store"
)

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	session       *session.Service
	api           services.Set
	courses       *store.Courses
	enrollments   *store.Enrollments
	payments      *store.Payments
	notifications *store.Notifications
	// cache is nil unless tokens live in redis.
	cache *redis.Client
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, sess *session.Service, api services.Set, cache *redis.Client) HandlerSet {
	return HandlerSet{
		log:           log,
		cfg:           cfg,
		session:       sess,
		api:           api,
		courses:       store.NewCourses(api.Courses, log),
		enrollments:   store.NewEnrollments(api.Enrollments, log),
		payments:      store.NewPayments(api.Payments, log),
		notifications: store.NewNotifications(api.Notifications, log),
		cache:         cache,
	}
}

// Notifications exposes the slice the poll job refreshes.
func (h HandlerSet) Notifications() *store.Notifications {
	return h.notifications
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/api/healthz", h.Health)

	router.GET("/session", h.Session)
	router.GET("/session/events", h.SessionEvents)
	router.POST("/login", h.Login)
	router.POST("/register", h.RegisterAccount)
	router.POST("/logout", h.Logout)
	router.POST("/session/refresh", h.Refresh)
	router.DELETE("/session/error", h.ClearError)
	router.GET("/auth/check-email", h.CheckEmail)

	router.GET("/", h.Home)
	router.GET("/login", h.LoginPage)
	router.GET("/register", h.RegisterPage)
	router.GET("/courses", h.Courses)
	router.GET("/courses/:id", h.CourseDetail)

	loginPath := h.cfg.Frontend.LoginPath
	anyRole := middleware.RequireSession(h.session, loginPath, guard.AnyRole...)
	instructor := middleware.RequireSession(h.session, loginPath, guard.InstructorRoles...)
	admin := middleware.RequireSession(h.session, loginPath, guard.AdminRoles...)

	router.PATCH("/session/user", anyRole, h.UpdateProfile)
	router.POST("/courses/:id/enroll", anyRole, h.Enroll)

	router.GET("/dashboard", anyRole, h.Dashboard)
	router.GET("/profile", anyRole, h.Profile)
	router.GET("/my-courses", anyRole, h.MyCourses)
	router.PUT("/my-courses/:id/progress", anyRole, h.UpdateProgress)
	router.GET("/payments", anyRole, h.Payments)
	router.POST("/payments/intent", anyRole, h.CreatePaymentIntent)
	router.POST("/payments/confirm", anyRole, h.ConfirmPayment)
	router.POST("/notifications/:id/read", anyRole, h.MarkNotificationRead)

	router.GET("/instructor", instructor, h.InstructorDashboard)
	router.GET("/instructor/courses", instructor, h.InstructorCourses)
	router.GET("/instructor/courses/create", instructor, h.CreateCoursePage)
	router.POST("/instructor/courses/create", instructor, h.CreateCourse)
	router.POST("/instructor/courses/:id/:action", instructor, h.TransitionCourse)

	router.GET("/admin", admin, h.AdminDashboard)
	router.GET("/admin/categories", admin, h.AdminCategories)
}

// currentUser is only valid behind RequireSession.
func currentUser(c *gin.Context) models.User {
	state, ok := middleware.SessionState(c)
	if !ok || state.User == nil {
		return models.User{}
	}
	return *state.User
}

func pageParams(c *gin.Context, defaultSize int) (int, int) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 0 {
		page = 0
	}
	size, err := strconv.Atoi(c.Query("size"))
	if err != nil || size <= 0 || size > 100 {
		size = defaultSize
	}
	return page, size
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid id"})
		return 0, false
	}
	return id, true
}

// respondError maps a backend failure onto the gateway response. Backend 4xx
// statuses pass through; everything else is a bad gateway.
func respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusBadGateway
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		status = apiErr.Status
	}
	c.JSON(status, gin.H{"success": false, "message": apiclient.MessageOf(err, fallback)})
}
