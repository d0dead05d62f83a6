package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/models"
)

type recordingDoer struct {
	requests []apiclient.Request
	data     any
}

func (d *recordingDoer) Do(_ context.Context, req apiclient.Request, out any) error {
	d.requests = append(d.requests, req)
	if out == nil || d.data == nil {
		return nil
	}
	raw, err := json.Marshal(d.data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (d *recordingDoer) last(t *testing.T) apiclient.Request {
	t.Helper()
	if len(d.requests) == 0 {
		t.Fatal("no request recorded")
	}
	return d.requests[len(d.requests)-1]
}

func TestAuthRefreshUsesQueryParameter(t *testing.T) {
	doer := &recordingDoer{data: map[string]string{"accessToken": "new-a", "refreshToken": "new-r"}}
	svc := NewAuthService(doer)

	pair, err := svc.Refresh(context.Background(), "old-r")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	req := doer.last(t)
	if req.Method != http.MethodPost || req.Path != "/auth/refresh" {
		t.Fatalf("request = %s %s", req.Method, req.Path)
	}
	if req.Query.Get("refreshToken") != "old-r" || req.Body != nil {
		t.Fatalf("query = %v body = %v", req.Query, req.Body)
	}
	if pair.AccessToken != "new-a" || pair.RefreshToken != "new-r" {
		t.Fatalf("pair = %+v", pair)
	}
}

func TestCourseListDefaultsAndFilters(t *testing.T) {
	doer := &recordingDoer{}
	svc := NewCourseService(doer)

	if _, err := svc.List(context.Background(), models.CourseFilters{}, 0, 0); err != nil {
		t.Fatalf("List: %v", err)
	}
	q := doer.last(t).Query
	if q.Get("page") != "0" || q.Get("size") != "12" || q.Get("sortBy") != "createdAt" || q.Get("sortDir") != "desc" {
		t.Fatalf("default query = %v", q)
	}
	if q.Has("searchTerm") || q.Has("categoryId") {
		t.Fatalf("unexpected filter params: %v", q)
	}

	_, err := svc.List(context.Background(), models.CourseFilters{
		SearchTerm: "go",
		CategoryID: 3,
		Level:      models.CourseLevelAdvanced,
		MaxPrice:   49.5,
		SortDir:    "asc",
	}, 2, 6)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	q = doer.last(t).Query
	if q.Get("searchTerm") != "go" || q.Get("categoryId") != "3" || q.Get("level") != "ADVANCED" ||
		q.Get("maxPrice") != "49.5" || q.Get("sortDir") != "asc" || q.Get("page") != "2" || q.Get("size") != "6" {
		t.Fatalf("filtered query = %v", q)
	}
}

func TestServicePaths(t *testing.T) {
	doer := &recordingDoer{}
	set := NewSet(doer)
	ctx := context.Background()

	tests := []struct {
		name   string
		call   func() error
		method string
		path   string
	}{
		{"course detail", func() error { _, err := set.Courses.Get(ctx, 9); return err }, http.MethodGet, "/courses/public/9"},
		{"course publish", func() error { _, err := set.Courses.Transition(ctx, 9, TransitionPublish); return err }, http.MethodPost, "/courses/9/publish"},
		{"course delete", func() error { return set.Courses.Delete(ctx, 9) }, http.MethodDelete, "/courses/9"},
		{"popular", func() error { _, err := set.Courses.Highlights(ctx, HighlightPopular, 0); return err }, http.MethodGet, "/courses/public/popular"},
		{"categories", func() error { _, err := set.Categories.List(ctx); return err }, http.MethodGet, "/categories/public"},
		{"enroll free", func() error { _, err := set.Enrollments.EnrollFree(ctx, 5, 1); return err }, http.MethodPost, "/enrollments/free/5"},
		{"progress", func() error { _, err := set.Enrollments.UpdateProgress(ctx, 4, 50); return err }, http.MethodPut, "/enrollments/4/progress"},
		{"payments", func() error { _, err := set.Payments.ListByUser(ctx, 1, 0, 0); return err }, http.MethodGet, "/payments/user/1"},
		{"mark read", func() error { _, err := set.Notifications.MarkRead(ctx, 8); return err }, http.MethodPut, "/notifications/8/read"},
		{"read all", func() error { return set.Notifications.MarkAllRead(ctx, 1) }, http.MethodPut, "/notifications/user/1/read-all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); err != nil {
				t.Fatalf("call: %v", err)
			}
			req := doer.last(t)
			if req.Method != tt.method || req.Path != tt.path {
				t.Fatalf("request = %s %s, want %s %s", req.Method, req.Path, tt.method, tt.path)
			}
		})
	}
}

func TestPaymentConfirmSendsIdempotencyKey(t *testing.T) {
	doer := &recordingDoer{}
	svc := NewPaymentService(doer)

	for i := 0; i < 2; i++ {
		if _, err := svc.Confirm(context.Background(), "pi_1", "pm_1"); err != nil {
			t.Fatalf("Confirm: %v", err)
		}
	}

	first := doer.requests[0].Header.Get(apiclient.IdempotencyKeyHeader)
	second := doer.requests[1].Header.Get(apiclient.IdempotencyKeyHeader)
	if first == "" || second == "" || first == second {
		t.Fatalf("idempotency keys = %q, %q", first, second)
	}
	if q := doer.requests[0].Query; q.Get("paymentIntentId") != "pi_1" || q.Get("paymentMethodId") != "pm_1" {
		t.Fatalf("query = %v", q)
	}
}
