package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edumaster/web/internal/models"
	"edumaster/web/internal/services"
)

type instructorView struct {
	User    models.User                `json:"user"`
	Courses models.Page[models.Course] `json:"courses"`
	Error   string                     `json:"error,omitempty"`
}

func (h HandlerSet) InstructorDashboard(c *gin.Context) {
	h.instructorCourses(c, 0, 5)
}

func (h HandlerSet) InstructorCourses(c *gin.Context) {
	page, size := pageParams(c, 10)
	h.instructorCourses(c, page, size)
}

func (h HandlerSet) instructorCourses(c *gin.Context, page, size int) {
	user := currentUser(c)
	courses, err := h.api.Courses.ByInstructor(c.Request.Context(), user.ID, page, size)
	if err != nil {
		respondError(c, err, "Failed to fetch courses")
		return
	}
	c.JSON(http.StatusOK, instructorView{User: user, Courses: courses})
}

func (h HandlerSet) CreateCoursePage(c *gin.Context) {
	categories, err := h.api.Categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"levels":     []models.CourseLevel{models.CourseLevelBeginner, models.CourseLevelIntermediate, models.CourseLevelAdvanced},
	})
}

type createCourseRequest struct {
	Title            string             `json:"title" binding:"required"`
	Description      string             `json:"description" binding:"required"`
	ShortDescription string             `json:"shortDescription"`
	Price            float64            `json:"price" binding:"gte=0"`
	CategoryID       int64              `json:"categoryId" binding:"required"`
	Level            models.CourseLevel `json:"level" binding:"required"`
	Language         string             `json:"language"`
	Requirements     string             `json:"requirements"`
	LearningOutcomes string             `json:"learningOutcomes"`
	ThumbnailURL     string             `json:"thumbnailUrl"`
	DurationHours    int                `json:"durationHours"`
}

// CreateCourse always files the course under the signed-in instructor.
func (h HandlerSet) CreateCourse(c *gin.Context) {
	var req createCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}
	if req.Language == "" {
		req.Language = "English"
	}

	course, err := h.courses.Create(c.Request.Context(), models.CourseCreateRequest{
		Title:            req.Title,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		CategoryID:       req.CategoryID,
		InstructorID:     currentUser(c).ID,
		Level:            req.Level,
		Language:         req.Language,
		Requirements:     req.Requirements,
		LearningOutcomes: req.LearningOutcomes,
		ThumbnailURL:     req.ThumbnailURL,
		DurationHours:    req.DurationHours,
	})
	if err != nil {
		respondError(c, err, "Failed to create course")
		return
	}
	c.JSON(http.StatusCreated, course)
}

// TransitionCourse moves a course through publish, submit-approval or approve.
// Approval is reserved for admins.
func (h HandlerSet) TransitionCourse(c *gin.Context) {
	courseID, ok := pathID(c)
	if !ok {
		return
	}

	action := services.Transition(c.Param("action"))
	switch action {
	case services.TransitionPublish, services.TransitionSubmitApproval:
	case services.TransitionApprove:
		if currentUser(c).Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "Only admins can approve courses"})
			return
		}
	default:
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "unknown course action"})
		return
	}

	course, err := h.api.Courses.Transition(c.Request.Context(), courseID, action)
	if err != nil {
		respondError(c, err, "Failed to update course")
		return
	}
	c.JSON(http.StatusOK, course)
}
