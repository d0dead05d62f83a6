package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"edumaster/web/internal/apiclient"
	"edumaster/web/internal/models"
)

type NotificationAPI interface {
	ListByUser(ctx context.Context, userID int64, page, size int) (models.Page[models.Notification], error)
	MarkRead(ctx context.Context, notificationID int64) (models.Notification, error)
	Create(ctx context.Context, req models.NotificationCreateRequest) (models.Notification, error)
}

type NotificationsState struct {
	Collection[models.Notification]
	UnreadCount int `json:"unreadCount"`
}

type Notifications struct {
	mu    sync.RWMutex
	state NotificationsState
	api   NotificationAPI
	log   zerolog.Logger
}

func NewNotifications(api NotificationAPI, log zerolog.Logger) *Notifications {
	return &Notifications{api: api, log: log.With().Str("slice", "notifications").Logger()}
}

func (n *Notifications) State() NotificationsState {
	n.mu.RLock()
	defer n.mu.RUnlock()

	s := n.state
	s.Collection = s.Collection.clone()
	return s
}

func (n *Notifications) Fetch(ctx context.Context, userID int64, page, size int) error {
	n.mu.Lock()
	n.state.begin()
	n.mu.Unlock()

	result, err := n.api.ListByUser(ctx, userID, page, size)

	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		n.state.fail(apiclient.MessageOf(err, "Failed to fetch notifications"))
		n.log.Warn().Err(err).Int64("user_id", userID).Msg("fetch notifications failed")
		return err
	}
	n.state.replace(result)
	n.state.UnreadCount = 0
	for _, item := range n.state.Items {
		if !item.IsRead {
			n.state.UnreadCount++
		}
	}
	return nil
}

// MarkRead decrements the unread count only when the entry was unread before.
func (n *Notifications) MarkRead(ctx context.Context, notificationID int64) error {
	_, err := n.api.MarkRead(ctx, notificationID)

	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		n.state.Error = apiclient.MessageOf(err, "Failed to mark notification as read")
		n.log.Warn().Err(err).Int64("notification_id", notificationID).Msg("mark read failed")
		return err
	}

	items := append([]models.Notification(nil), n.state.Items...)
	for i := range items {
		if items[i].ID != notificationID {
			continue
		}
		if !items[i].IsRead {
			items[i].IsRead = true
			if n.state.UnreadCount > 0 {
				n.state.UnreadCount--
			}
		}
	}
	n.state.Items = items
	return nil
}

// Add records a notification received out of band.
func (n *Notifications) Add(item models.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.state.prepend(item)
	if !item.IsRead {
		n.state.UnreadCount++
	}
}

func (n *Notifications) Create(ctx context.Context, req models.NotificationCreateRequest) (models.Notification, error) {
	created, err := n.api.Create(ctx, req)

	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		n.state.Error = apiclient.MessageOf(err, "Failed to create notification")
		n.log.Warn().Err(err).Msg("create notification failed")
		return models.Notification{}, err
	}
	n.state.prepend(created)
	if !created.IsRead {
		n.state.UnreadCount++
	}
	return created, nil
}

func (n *Notifications) ClearError() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state.Error = ""
}
