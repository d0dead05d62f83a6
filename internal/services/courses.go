package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/models"
)

const (
	DefaultCoursePageSize = 12
	defaultListLimit      = 10
)

type CourseService struct {
	client Doer
}

func NewCourseService(client Doer) *CourseService {
	return &CourseService{client: client}
}

func (s *CourseService) List(ctx context.Context, filters models.CourseFilters, page, size int) (models.Page[models.Course], error) {
	if size <= 0 {
		size = DefaultCoursePageSize
	}

	q := pageQuery(page, size)
	q.Set("sortBy", orDefault(filters.SortBy, "createdAt"))
	q.Set("sortDir", orDefault(filters.SortDir, "desc"))
	if filters.SearchTerm != "" {
		q.Set("searchTerm", filters.SearchTerm)
	}
	if filters.CategoryID != 0 {
		q.Set("categoryId", id(filters.CategoryID))
	}
	if filters.Level != "" {
		q.Set("level", string(filters.Level))
	}
	if filters.MinPrice != 0 {
		q.Set("minPrice", strconv.FormatFloat(filters.MinPrice, 'f', -1, 64))
	}
	if filters.MaxPrice != 0 {
		q.Set("maxPrice", strconv.FormatFloat(filters.MaxPrice, 'f', -1, 64))
	}

	var out models.Page[models.Course]
	err := s.client.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/courses/public", Query: q}, &out)
	return out, err
}

func (s *CourseService) Get(ctx context.Context, courseID int64) (models.Course, error) {
	var out models.Course
	err := s.client.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/courses/public/" + id(courseID)}, &out)
	return out, err
}

func (s *CourseService) Search(ctx context.Context, keyword string, page, size int) (models.Page[models.Course], error) {
	if size <= 0 {
		size = DefaultCoursePageSize
	}
	q := pageQuery(page, size)
	q.Set("keyword", keyword)

	var out models.Page[models.Course]
	err := s.client.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/courses/public/search", Query: q}, &out)
	return out, err
}

// Highlight is one of the curated public course lists.
type Highlight string

const (
	HighlightPopular Highlight = "popular"
	HighlightRecent  Highlight = "recent"
	HighlightFree    Highlight = "free"
)

func (s *CourseService) Highlights(ctx context.Context, kind Highlight, limit int) ([]models.Course, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	var out []models.Course
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/courses/public/" + string(kind),
		Query:  url.Values{"limit": {strconv.Itoa(limit)}},
	}, &out)
	return out, err
}

func (s *CourseService) Create(ctx context.Context, req models.CourseCreateRequest) (models.Course, error) {
	var out models.Course
	err := s.client.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/courses", Body: req}, &out)
	return out, err
}

func (s *CourseService) Update(ctx context.Context, courseID int64, req models.CourseCreateRequest) (models.Course, error) {
	var out models.Course
	err := s.client.Do(ctx, apiclient.Request{Method: http.MethodPut, Path: "/courses/" + id(courseID), Body: req}, &out)
	return out, err
}

// Transition is a course lifecycle action.
type Transition string

const (
	TransitionPublish        Transition = "publish"
	TransitionSubmitApproval Transition = "submit-approval"
	TransitionApprove        Transition = "approve"
)

func (s *CourseService) Transition(ctx context.Context, courseID int64, action Transition) (models.Course, error) {
	var out models.Course
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/courses/" + id(courseID) + "/" + string(action),
	}, &out)
	return out, err
}

func (s *CourseService) Suspend(ctx context.Context, courseID int64, reason string) (models.Course, error) {
	var out models.Course
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/courses/" + id(courseID) + "/suspend",
		Query:  url.Values{"reason": {reason}},
	}, &out)
	return out, err
}

func (s *CourseService) Delete(ctx context.Context, courseID int64) error {
	return s.client.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: "/courses/" + id(courseID)}, nil)
}

func (s *CourseService) ByInstructor(ctx context.Context, instructorID int64, page, size int) (models.Page[models.Course], error) {
	if size <= 0 {
		size = 10
	}
	var out models.Page[models.Course]
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/courses/instructor/" + id(instructorID),
		Query:  pageQuery(page, size),
	}, &out)
	return out, err
}

func (s *CourseService) TotalPublished(ctx context.Context) (int64, error) {
	var out int64
	err := s.client.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/courses/stats/total-published"}, &out)
	return out, err
}

type CategoryService struct {
	client Doer
}

func NewCategoryService(client Doer) *CategoryService {
	return &CategoryService{client: client}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := s.client.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/categories/public"}, &out)
	return out, err
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
