package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/models"
)

type adminView struct {
	User           models.User       `json:"user"`
	TotalPublished int64             `json:"totalPublishedCourses"`
	Categories     []models.Category `json:"categories"`
	Error          string            `json:"error,omitempty"`
}

func (h HandlerSet) AdminDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	view := adminView{User: currentUser(c)}

	total, err := h.api.Courses.TotalPublished(ctx)
	if err != nil {
		view.Error = apiclient.MessageOf(err, "Failed to load statistics")
	}
	view.TotalPublished = total

	if view.Categories, err = h.api.Categories.List(ctx); err != nil {
		view.Error = apiclient.MessageOf(err, "Failed to fetch categories")
	}

	c.JSON(http.StatusOK, view)
}

func (h HandlerSet) AdminCategories(c *gin.Context) {
	categories, err := h.api.Categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to fetch categories")
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}
