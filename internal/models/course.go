package models

import "time"

type CourseStatus string

const (
	CourseStatusDraft           CourseStatus = "DRAFT"
	CourseStatusPendingApproval CourseStatus = "PENDING_APPROVAL"
	CourseStatusPublished       CourseStatus = "PUBLISHED"
	CourseStatusSuspended       CourseStatus = "SUSPENDED"
)

type CourseLevel string

const (
	CourseLevelBeginner     CourseLevel = "BEGINNER"
	CourseLevelIntermediate CourseLevel = "INTERMEDIATE"
	CourseLevelAdvanced     CourseLevel = "ADVANCED"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

type Course struct {
	ID               int64        `json:"id"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	ShortDescription string       `json:"shortDescription,omitempty"`
	Price            float64      `json:"price"`
	Status           CourseStatus `json:"status"`
	ThumbnailURL     string       `json:"thumbnailUrl,omitempty"`
	DurationHours    int          `json:"durationHours,omitempty"`
	Level            CourseLevel  `json:"level"`
	Language         string       `json:"language"`
	Requirements     string       `json:"requirements,omitempty"`
	LearningOutcomes string       `json:"learningOutcomes,omitempty"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
	Instructor       UserRef      `json:"instructor"`
	Category         Category     `json:"category"`
	TotalLessons     int          `json:"totalLessons"`
	TotalEnrollments int          `json:"totalEnrollments"`
	AverageRating    float64      `json:"averageRating"`
	TotalReviews     int          `json:"totalReviews"`
	IsFree           bool         `json:"isFree"`
}

type CourseFilters struct {
	SearchTerm string      `json:"searchTerm,omitempty"`
	CategoryID int64       `json:"categoryId,omitempty"`
	Level      CourseLevel `json:"level,omitempty"`
	MinPrice   float64     `json:"minPrice,omitempty"`
	MaxPrice   float64     `json:"maxPrice,omitempty"`
	SortBy     string      `json:"sortBy,omitempty"`
	SortDir    string      `json:"sortDir,omitempty"`
}

// Merge overlays the non-zero fields of other onto f.
func (f CourseFilters) Merge(other CourseFilters) CourseFilters {
	if other.SearchTerm != "" {
		f.SearchTerm = other.SearchTerm
	}
	if other.CategoryID != 0 {
		f.CategoryID = other.CategoryID
	}
	if other.Level != "" {
		f.Level = other.Level
	}
	if other.MinPrice != 0 {
		f.MinPrice = other.MinPrice
	}
	if other.MaxPrice != 0 {
		f.MaxPrice = other.MaxPrice
	}
	if other.SortBy != "" {
		f.SortBy = other.SortBy
	}
	if other.SortDir != "" {
		f.SortDir = other.SortDir
	}
	return f
}

type CourseCreateRequest struct {
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	ShortDescription string      `json:"shortDescription,omitempty"`
	Price            float64     `json:"price"`
	CategoryID       int64       `json:"categoryId"`
	InstructorID     int64       `json:"instructorId"`
	Level            CourseLevel `json:"level"`
	Language         string      `json:"language"`
	Requirements     string      `json:"requirements,omitempty"`
	LearningOutcomes string      `json:"learningOutcomes,omitempty"`
	ThumbnailURL     string      `json:"thumbnailUrl,omitempty"`
	DurationHours    int         `json:"durationHours,omitempty"`
}
