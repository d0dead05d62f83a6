package store

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rs/zerolog"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/models"
)

var errBackendDown = errors.New("dial tcp: connection refused")

type fakeCourses struct {
	page        models.Page[models.Course]
	err         error
	lastFilters models.CourseFilters
}

func (f *fakeCourses) List(_ context.Context, filters models.CourseFilters, page, size int) (models.Page[models.Course], error) {
	f.lastFilters = filters
	return f.page, f.err
}

func (f *fakeCourses) Get(_ context.Context, courseID int64) (models.Course, error) {
	return models.Course{ID: courseID, Title: "Go in practice"}, f.err
}

func (f *fakeCourses) Search(_ context.Context, keyword string, page, size int) (models.Page[models.Course], error) {
	return f.page, f.err
}

func (f *fakeCourses) Create(_ context.Context, req models.CourseCreateRequest) (models.Course, error) {
	return models.Course{ID: 100, Title: req.Title}, f.err
}

func coursePage(ids ...int64) models.Page[models.Course] {
	page := models.Page[models.Course]{Number: 0, Size: 12, TotalPages: 1, TotalElements: int64(len(ids))}
	for _, id := range ids {
		page.Content = append(page.Content, models.Course{ID: id})
	}
	return page
}

func TestCoursesFetchReplaces(t *testing.T) {
	ctx := context.Background()
	api := &fakeCourses{page: coursePage(1, 2, 3)}
	courses := NewCourses(api, zerolog.Nop())

	if err := courses.Fetch(ctx, models.CourseFilters{}, 0, 12); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	api.page = coursePage(4)
	if err := courses.Fetch(ctx, models.CourseFilters{}, 1, 12); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	state := courses.State()
	if len(state.Items) != 1 || state.Items[0].ID != 4 {
		t.Fatalf("items = %+v", state.Items)
	}
	if state.Page.TotalElements != 1 || state.Loading {
		t.Fatalf("state = %+v", state)
	}
}

func TestCoursesFiltersApplyToFetch(t *testing.T) {
	api := &fakeCourses{page: coursePage()}
	courses := NewCourses(api, zerolog.Nop())

	courses.SetFilters(models.CourseFilters{CategoryID: 3, Level: models.CourseLevelBeginner})
	if err := courses.Fetch(context.Background(), models.CourseFilters{SearchTerm: "go"}, 0, 12); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if api.lastFilters.CategoryID != 3 || api.lastFilters.SearchTerm != "go" {
		t.Fatalf("filters = %+v", api.lastFilters)
	}
	if courses.State().Filters.SearchTerm != "" {
		t.Fatal("per-call filters leaked into stored filters")
	}

	courses.ClearFilters()
	if courses.State().Filters != (models.CourseFilters{}) {
		t.Fatal("filters not cleared")
	}
}

func TestCoursesFailureKeepsItems(t *testing.T) {
	ctx := context.Background()
	api := &fakeCourses{page: coursePage(1, 2)}
	courses := NewCourses(api, zerolog.Nop())
	_ = courses.Fetch(ctx, models.CourseFilters{}, 0, 12)

	api.err = &apiclient.APIError{Status: http.StatusServiceUnavailable, Message: "Catalog unavailable"}
	if err := courses.Fetch(ctx, models.CourseFilters{}, 0, 12); err == nil {
		t.Fatal("expected error")
	}

	state := courses.State()
	if state.Error != "Catalog unavailable" || state.Loading || len(state.Items) != 2 {
		t.Fatalf("state = %+v", state)
	}

	api.err = errBackendDown
	_ = courses.Search(ctx, "go", 0, 12)
	if got := courses.State().Error; got != "Failed to search courses" {
		t.Fatalf("error = %q", got)
	}

	courses.ClearError()
	if courses.State().Error != "" {
		t.Fatal("error not cleared")
	}
}

func TestCoursesLoadAndCreate(t *testing.T) {
	ctx := context.Background()
	api := &fakeCourses{page: coursePage(1)}
	courses := NewCourses(api, zerolog.Nop())
	_ = courses.Fetch(ctx, models.CourseFilters{}, 0, 12)

	if _, err := courses.Load(ctx, 9); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if current := courses.State().Current; current == nil || current.ID != 9 {
		t.Fatalf("current = %+v", current)
	}
	courses.ClearCurrent()
	if courses.State().Current != nil {
		t.Fatal("current not cleared")
	}

	if _, err := courses.Create(ctx, models.CourseCreateRequest{Title: "New"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	state := courses.State()
	if len(state.Items) != 2 || state.Items[0].ID != 100 {
		t.Fatalf("items = %+v", state.Items)
	}
}

type fakeEnrollments struct {
	page models.Page[models.Enrollment]
	err  error
}

func (f *fakeEnrollments) ListByUser(context.Context, int64, int, int) (models.Page[models.Enrollment], error) {
	return f.page, f.err
}

func (f *fakeEnrollments) EnrollFree(_ context.Context, courseID, userID int64) (models.Enrollment, error) {
	return models.Enrollment{ID: 50, Course: models.CourseRef{ID: courseID}}, f.err
}

func (f *fakeEnrollments) UpdateProgress(_ context.Context, enrollmentID int64, percentage float64) (models.Enrollment, error) {
	return models.Enrollment{ID: enrollmentID, ProgressPercentage: percentage}, f.err
}

func TestEnrollmentsAppendAndProgress(t *testing.T) {
	ctx := context.Background()
	api := &fakeEnrollments{page: models.Page[models.Enrollment]{Content: []models.Enrollment{{ID: 1}}, TotalElements: 1}}
	enrollments := NewEnrollments(api, zerolog.Nop())

	if err := enrollments.Fetch(ctx, 11, 0, 10); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if _, err := enrollments.Enroll(ctx, 7, 11); err != nil {
		t.Fatalf("Enroll: %v", err)
	}
	if _, err := enrollments.UpdateProgress(ctx, 1, 40); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}

	state := enrollments.State()
	if len(state.Items) != 2 || state.Items[1].ID != 50 || state.Items[1].Course.ID != 7 {
		t.Fatalf("items = %+v", state.Items)
	}
	if state.Items[0].ProgressPercentage != 40 {
		t.Fatalf("progress = %v", state.Items[0].ProgressPercentage)
	}
}

type fakePayments struct {
	err error
}

func (f *fakePayments) ListByUser(context.Context, int64, int, int) (models.Page[models.Payment], error) {
	return models.Page[models.Payment]{Content: []models.Payment{{ID: 1}}}, f.err
}

func (f *fakePayments) Confirm(context.Context, string, string) (models.Payment, error) {
	return models.Payment{ID: 2, Status: models.PaymentSucceeded}, f.err
}

func TestPaymentsConfirmAppends(t *testing.T) {
	ctx := context.Background()
	payments := NewPayments(&fakePayments{}, zerolog.Nop())

	_ = payments.Fetch(ctx, 11, 0, 10)
	if _, err := payments.Confirm(ctx, "pi_1", "pm_1"); err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if items := payments.State().Items; len(items) != 2 || items[1].ID != 2 {
		t.Fatalf("items = %+v", items)
	}
}

type fakeNotifications struct {
	page models.Page[models.Notification]
	err  error
}

func (f *fakeNotifications) ListByUser(context.Context, int64, int, int) (models.Page[models.Notification], error) {
	return f.page, f.err
}

func (f *fakeNotifications) MarkRead(_ context.Context, id int64) (models.Notification, error) {
	return models.Notification{ID: id, IsRead: true}, f.err
}

func (f *fakeNotifications) Create(_ context.Context, req models.NotificationCreateRequest) (models.Notification, error) {
	return models.Notification{ID: 77, Title: req.Title}, f.err
}

func TestNotificationsUnreadCount(t *testing.T) {
	ctx := context.Background()
	api := &fakeNotifications{page: models.Page[models.Notification]{Content: []models.Notification{
		{ID: 1, IsRead: false},
		{ID: 2, IsRead: true},
		{ID: 3, IsRead: false},
	}}}
	notifications := NewNotifications(api, zerolog.Nop())

	if err := notifications.Fetch(ctx, 11, 0, 20); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if got := notifications.State().UnreadCount; got != 2 {
		t.Fatalf("unread = %d, want 2", got)
	}

	_ = notifications.MarkRead(ctx, 1)
	_ = notifications.MarkRead(ctx, 1)
	_ = notifications.MarkRead(ctx, 2)
	if got := notifications.State().UnreadCount; got != 1 {
		t.Fatalf("unread after mark = %d, want 1", got)
	}

	notifications.Add(models.Notification{ID: 4})
	notifications.Add(models.Notification{ID: 5, IsRead: true})
	state := notifications.State()
	if state.UnreadCount != 2 || state.Items[0].ID != 5 || state.Items[1].ID != 4 {
		t.Fatalf("state = %+v", state)
	}

	if _, err := notifications.Create(ctx, models.NotificationCreateRequest{Title: "hi"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if state := notifications.State(); state.Items[0].ID != 77 || state.UnreadCount != 3 {
		t.Fatalf("state after create = %+v", state)
	}
}

func TestSliceFailuresAreIsolated(t *testing.T) {
	ctx := context.Background()
	notifications := NewNotifications(&fakeNotifications{err: errBackendDown}, zerolog.Nop())
	payments := NewPayments(&fakePayments{}, zerolog.Nop())

	_ = notifications.Fetch(ctx, 11, 0, 20)
	_ = payments.Fetch(ctx, 11, 0, 10)

	if notifications.State().Error != "Failed to fetch notifications" {
		t.Fatalf("notifications error = %q", notifications.State().Error)
	}
	if payments.State().Error != "" {
		t.Fatalf("payments error = %q", payments.State().Error)
	}
}
