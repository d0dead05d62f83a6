// Package services maps marketplace operations onto backend verbs, paths and
// query parameters. Each service is a thin request builder over the API client.
package services

import (
	"context"
	"net/url"
	"strconv"

	"edumaster/web/internal/apiclient"
)

// Doer is the subset of *apiclient.Client the services need.
type Doer interface {
	Do(ctx context.Context, req apiclient.Request, out any) error
}

// Set bundles every resource service over one client.
type Set struct {
	Auth          *AuthService
	Courses       *CourseService
	Categories    *CategoryService
	Enrollments   *EnrollmentService
	Payments      *PaymentService
	Notifications *NotificationService
}

func NewSet(client Doer) Set {
	return Set{
		Auth:          NewAuthService(client),
		Courses:       NewCourseService(client),
		Categories:    NewCategoryService(client),
		Enrollments:   NewEnrollmentService(client),
		Payments:      NewPaymentService(client),
		Notifications: NewNotificationService(client),
	}
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	return q
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}
