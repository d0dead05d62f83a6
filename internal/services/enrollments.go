package services

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/models"
)

type EnrollmentService struct {
	client Doer
}

func NewEnrollmentService(client Doer) *EnrollmentService {
	return &EnrollmentService{client: client}
}

func (s *EnrollmentService) ListByUser(ctx context.Context, userID int64, page, size int) (models.Page[models.Enrollment], error) {
	if size <= 0 {
		size = 10
	}
	var out models.Page[models.Enrollment]
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/enrollments/user/" + id(userID),
		Query:  pageQuery(page, size),
	}, &out)
	return out, err
}

func (s *EnrollmentService) EnrollFree(ctx context.Context, courseID, userID int64) (models.Enrollment, error) {
	var out models.Enrollment
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/enrollments/free/" + id(courseID),
		Query:  url.Values{"userId": {id(userID)}},
	}, &out)
	return out, err
}

func (s *EnrollmentService) UpdateProgress(ctx context.Context, enrollmentID int64, percentage float64) (models.Enrollment, error) {
	var out models.Enrollment
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPut,
		Path:   "/enrollments/" + id(enrollmentID) + "/progress",
		Query:  url.Values{"progressPercentage": {strconv.FormatFloat(percentage, 'f', -1, 64)}},
	}, &out)
	return out, err
}

func (s *EnrollmentService) Complete(ctx context.Context, enrollmentID int64) (models.Enrollment, error) {
	var out models.Enrollment
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodPost,
		Path:   "/enrollments/" + id(enrollmentID) + "/complete",
	}, &out)
	return out, err
}

func (s *EnrollmentService) IsEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	var out bool
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/enrollments/check",
		Query:  url.Values{"userId": {id(userID)}, "courseId": {id(courseID)}},
	}, &out)
	return out, err
}

func (s *EnrollmentService) Unenroll(ctx context.Context, enrollmentID int64, reason string) error {
	return s.client.Do(ctx, apiclient.Request{
		Method: http.MethodDelete,
		Path:   "/enrollments/" + id(enrollmentID),
		Query:  url.Values{"reason": {reason}},
	}, nil)
}
