package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/models"
)

type CourseAPI interface {
	List(ctx context.Context, filters models.CourseFilters, page, size int) (models.Page[models.Course], error)
	Get(ctx context.Context, courseID int64) (models.Course, error)
	Search(ctx context.Context, keyword string, page, size int) (models.Page[models.Course], error)
	Create(ctx context.Context, req models.CourseCreateRequest) (models.Course, error)
}

type CoursesState struct {
	Collection[models.Course]
	Current *models.Course       `json:"current,omitempty"`
	Filters models.CourseFilters `json:"filters"`
}

type Courses struct {
	mu    sync.RWMutex
	state CoursesState
	api   CourseAPI
	log   zerolog.Logger
}

func NewCourses(api CourseAPI, log zerolog.Logger) *Courses {
	return &Courses{api: api, log: log.With().Str("slice", "courses").Logger()}
}

func (c *Courses) State() CoursesState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.state
	s.Collection = s.Collection.clone()
	if s.Current != nil {
		current := *s.Current
		s.Current = &current
	}
	return s
}

// Fetch lists public courses using the stored filters overlaid with filters.
func (c *Courses) Fetch(ctx context.Context, filters models.CourseFilters, page, size int) error {
	c.mu.Lock()
	c.state.begin()
	effective := c.state.Filters.Merge(filters)
	c.mu.Unlock()

	result, err := c.api.List(ctx, effective, page, size)
	return c.settlePage(result, err, "Failed to fetch courses")
}

func (c *Courses) Search(ctx context.Context, keyword string, page, size int) error {
	c.mu.Lock()
	c.state.begin()
	c.mu.Unlock()

	result, err := c.api.Search(ctx, keyword, page, size)
	return c.settlePage(result, err, "Failed to search courses")
}

func (c *Courses) settlePage(result models.Page[models.Course], err error, fallback string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.state.fail(apiclient.MessageOf(err, fallback))
		c.log.Warn().Err(err).Msg(fallback)
		return err
	}
	c.state.replace(result)
	return nil
}

// Load fetches one course into Current.
func (c *Courses) Load(ctx context.Context, courseID int64) (models.Course, error) {
	c.mu.Lock()
	c.state.begin()
	c.mu.Unlock()

	course, err := c.api.Get(ctx, courseID)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.fail(apiclient.MessageOf(err, "Failed to fetch course"))
		c.log.Warn().Err(err).Int64("course_id", courseID).Msg("load course failed")
		return models.Course{}, err
	}
	c.state.Loading = false
	c.state.Current = &course
	return course, nil
}

func (c *Courses) Create(ctx context.Context, req models.CourseCreateRequest) (models.Course, error) {
	c.mu.Lock()
	c.state.begin()
	c.mu.Unlock()

	course, err := c.api.Create(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.state.fail(apiclient.MessageOf(err, "Failed to create course"))
		c.log.Warn().Err(err).Msg("create course failed")
		return models.Course{}, err
	}
	c.state.prepend(course)
	return course, nil
}

func (c *Courses) SetFilters(filters models.CourseFilters) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Filters = c.state.Filters.Merge(filters)
}

func (c *Courses) ClearFilters() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Filters = models.CourseFilters{}
}

func (c *Courses) ClearCurrent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Current = nil
}

func (c *Courses) ClearError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Error = ""
}
