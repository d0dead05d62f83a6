package models

import "time"

type CompletionStatus string

const (
	CompletionEnrolled   CompletionStatus = "ENROLLED"
	CompletionInProgress CompletionStatus = "IN_PROGRESS"
	CompletionCompleted  CompletionStatus = "COMPLETED"
)

type CourseRef struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	ThumbnailURL  string  `json:"thumbnailUrl,omitempty"`
	Price         float64 `json:"price,omitempty"`
	DurationHours int     `json:"durationHours,omitempty"`
}

type Enrollment struct {
	ID                 int64            `json:"id"`
	EnrollmentDate     time.Time        `json:"enrollmentDate"`
	CompletionStatus   CompletionStatus `json:"completionStatus"`
	CompletionDate     *time.Time       `json:"completionDate,omitempty"`
	ProgressPercentage float64          `json:"progressPercentage"`
	User               UserRef          `json:"user"`
	Course             CourseRef        `json:"course"`
	TotalLessons       int              `json:"totalLessons"`
	CompletedLessons   int              `json:"completedLessons"`
	IsCompleted        bool             `json:"isCompleted"`
	IsInProgress       bool             `json:"isInProgress"`
}
