package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/models"
)

type EnrollmentAPI interface {
	ListByUser(ctx context.Context, userID int64, page, size int) (models.Page[models.Enrollment], error)
	EnrollFree(ctx context.Context, courseID, userID int64) (models.Enrollment, error)
	UpdateProgress(ctx context.Context, enrollmentID int64, percentage float64) (models.Enrollment, error)
}

type Enrollments struct {
	mu    sync.RWMutex
	state Collection[models.Enrollment]
	api   EnrollmentAPI
	log   zerolog.Logger
}

func NewEnrollments(api EnrollmentAPI, log zerolog.Logger) *Enrollments {
	return &Enrollments{api: api, log: log.With().Str("slice", "enrollments").Logger()}
}

func (e *Enrollments) State() Collection[models.Enrollment] {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state.clone()
}

func (e *Enrollments) Fetch(ctx context.Context, userID int64, page, size int) error {
	e.mu.Lock()
	e.state.begin()
	e.mu.Unlock()

	result, err := e.api.ListByUser(ctx, userID, page, size)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state.fail(apiclient.MessageOf(err, "Failed to fetch enrollments"))
		e.log.Warn().Err(err).Int64("user_id", userID).Msg("fetch enrollments failed")
		return err
	}
	e.state.replace(result)
	return nil
}

func (e *Enrollments) Enroll(ctx context.Context, courseID, userID int64) (models.Enrollment, error) {
	e.mu.Lock()
	e.state.begin()
	e.mu.Unlock()

	enrollment, err := e.api.EnrollFree(ctx, courseID, userID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state.fail(apiclient.MessageOf(err, "Failed to enroll in course"))
		e.log.Warn().Err(err).Int64("course_id", courseID).Msg("enroll failed")
		return models.Enrollment{}, err
	}
	e.state.push(enrollment)
	return enrollment, nil
}

// UpdateProgress replaces the matching enrollment in place.
func (e *Enrollments) UpdateProgress(ctx context.Context, enrollmentID int64, percentage float64) (models.Enrollment, error) {
	updated, err := e.api.UpdateProgress(ctx, enrollmentID, percentage)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state.Error = apiclient.MessageOf(err, "Failed to update progress")
		e.log.Warn().Err(err).Int64("enrollment_id", enrollmentID).Msg("update progress failed")
		return models.Enrollment{}, err
	}
	items := append([]models.Enrollment(nil), e.state.Items...)
	for i := range items {
		if items[i].ID == updated.ID {
			items[i] = updated
		}
	}
	e.state.Items = items
	return updated, nil
}

func (e *Enrollments) ClearError() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state.Error = ""
}
