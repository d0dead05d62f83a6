package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/guard"
	"edumaster/web/internal/models"
	"edumaster/web/internal/services"
	"edumaster/web/internal/session"
	"edumaster/web/internal/store"
)

type homeView struct {
	Session session.State   `json:"session"`
	Popular []models.Course `json:"popular"`
	Recent  []models.Course `json:"recent"`
	Free    []models.Course `json:"free"`
	Error   string          `json:"error,omitempty"`
}

// Home shows the catalog highlights. A failed highlight list is reported in
// the view instead of failing the page.
func (h HandlerSet) Home(c *gin.Context) {
	ctx := c.Request.Context()
	view := homeView{Session: h.session.State()}

	var err error
	if view.Popular, err = h.api.Courses.Highlights(ctx, services.HighlightPopular, 6); err != nil {
		view.Error = apiclient.MessageOf(err, "Failed to fetch courses")
	}
	if view.Recent, err = h.api.Courses.Highlights(ctx, services.HighlightRecent, 6); err != nil {
		view.Error = apiclient.MessageOf(err, "Failed to fetch courses")
	}
	if view.Free, err = h.api.Courses.Highlights(ctx, services.HighlightFree, 6); err != nil {
		view.Error = apiclient.MessageOf(err, "Failed to fetch courses")
	}

	c.JSON(http.StatusOK, view)
}

type authPageView struct {
	Page      string `json:"page"`
	From      string `json:"from,omitempty"`
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}

func (h HandlerSet) LoginPage(c *gin.Context) {
	h.authPage(c, "login")
}

func (h HandlerSet) RegisterPage(c *gin.Context) {
	h.authPage(c, "register")
}

// authPage sends an already signed-in user to their landing page.
func (h HandlerSet) authPage(c *gin.Context, page string) {
	state := h.session.State()
	if state.IsAuthenticated {
		target := guard.LandingFor(state.Role())
		c.Header("Location", target)
		c.JSON(http.StatusSeeOther, gin.H{"redirect": target})
		return
	}

	c.JSON(http.StatusOK, authPageView{
		Page:      page,
		From:      c.Query("from"),
		IsLoading: state.IsLoading,
		Error:     state.Error,
	})
}

type catalogView struct {
	store.CoursesState
	Categories []models.Category `json:"categories"`
}

func (h HandlerSet) Courses(c *gin.Context) {
	ctx := c.Request.Context()
	page, size := pageParams(c, services.DefaultCoursePageSize)

	if keyword := c.Query("q"); keyword != "" {
		_ = h.courses.Search(ctx, keyword, page, size)
	} else {
		_ = h.courses.Fetch(ctx, filtersFromQuery(c), page, size)
	}

	categories, err := h.api.Categories.List(ctx)
	if err != nil {
		h.log.Warn().Err(err).Msg("list categories failed")
	}

	c.JSON(http.StatusOK, catalogView{CoursesState: h.courses.State(), Categories: categories})
}

func filtersFromQuery(c *gin.Context) models.CourseFilters {
	f := models.CourseFilters{
		SearchTerm: c.Query("searchTerm"),
		Level:      models.CourseLevel(c.Query("level")),
		SortBy:     c.Query("sortBy"),
		SortDir:    c.Query("sortDir"),
	}
	if v, err := strconv.ParseInt(c.Query("categoryId"), 10, 64); err == nil {
		f.CategoryID = v
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		f.MinPrice = v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		f.MaxPrice = v
	}
	return f
}

type courseView struct {
	Course   models.Course `json:"course"`
	Enrolled bool          `json:"enrolled"`
}

func (h HandlerSet) CourseDetail(c *gin.Context) {
	courseID, ok := pathID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	course, err := h.courses.Load(ctx, courseID)
	if err != nil {
		respondError(c, err, "Failed to fetch course")
		return
	}

	view := courseView{Course: course}
	if state := h.session.State(); state.IsAuthenticated {
		enrolled, err := h.api.Enrollments.IsEnrolled(ctx, state.User.ID, courseID)
		if err != nil {
			h.log.Warn().Err(err).Int64("course_id", courseID).Msg("enrollment check failed")
		}
		view.Enrolled = enrolled
	}
	c.JSON(http.StatusOK, view)
}
