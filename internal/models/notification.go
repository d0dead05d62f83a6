package models

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "INFO"
	NotificationSuccess NotificationType = "SUCCESS"
	NotificationWarning NotificationType = "WARNING"
	NotificationError   NotificationType = "ERROR"
)

type Notification struct {
	ID                int64            `json:"id"`
	Title             string           `json:"title"`
	Message           string           `json:"message"`
	Type              NotificationType `json:"type"`
	IsRead            bool             `json:"isRead"`
	RelatedEntityType string           `json:"relatedEntityType,omitempty"`
	RelatedEntityID   *int64           `json:"relatedEntityId,omitempty"`
	CreatedAt         time.Time        `json:"createdAt"`
}

type NotificationCreateRequest struct {
	UserID            int64            `json:"userId"`
	Title             string           `json:"title"`
	Message           string           `json:"message"`
	Type              NotificationType `json:"type"`
	RelatedEntityType string           `json:"relatedEntityType,omitempty"`
	RelatedEntityID   *int64           `json:"relatedEntityId,omitempty"`
}
