package services

import (
	"context"
	"net/http"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/models"
)

type NotificationService struct {
	client Doer
}

func NewNotificationService(client Doer) *NotificationService {
	return &NotificationService{client: client}
}

func (s *NotificationService) ListByUser(ctx context.Context, userID int64, page, size int) (models.Page[models.Notification], error) {
	if size <= 0 {
		size = 20
	}
	var out models.Page[models.Notification]
	err := s.client.Do(ctx, apiclient.Request{
		Method: http.MethodGet,
		Path:   "/notifications/user/" + id(userID),
		Query:  pageQuery(page, size),
	}, &out)
	return out, err
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var out int64
	err := s.client.Do(ctx, apiclient.Request{Method: http.MethodGet, Path: "/notifications/user/" + id(userID) + "/count"}, &out)
	return out, err
}

func (s *NotificationService) MarkRead(ctx context.Context, notificationID int64) (models.Notification, error) {
	var out models.Notification
	err := s.client.Do(ctx, apiclient.Request{Method: http.MethodPut, Path: "/notifications/" + id(notificationID) + "/read"}, &out)
	return out, err
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) error {
	return s.client.Do(ctx, apiclient.Request{Method: http.MethodPut, Path: "/notifications/user/" + id(userID) + "/read-all"}, nil)
}

func (s *NotificationService) Delete(ctx context.Context, notificationID int64) error {
	return s.client.Do(ctx, apiclient.Request{Method: http.MethodDelete, Path: "/notifications/" + id(notificationID)}, nil)
}

func (s *NotificationService) Create(ctx context.Context, req models.NotificationCreateRequest) (models.Notification, error) {
	var out models.Notification
	err := s.client.Do(ctx, apiclient.Request{Method: http.MethodPost, Path: "/notifications", Body: req}, &out)
	return out, err
}
