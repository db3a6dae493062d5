package models

import "time"

// Enrollment represents a user's enrollment in a course
type Enrollment struct {
	ID                 int       `json:"id"`
	UserID             string    `json:"userId"`
	CourseID           string    `json:"courseId"`
	ProgressPercentage int       `json:"progressPercentage"`
	EnrolledAt         time.Time `json:"enrolledAt"`
}

// EnrollmentKey identifies an enrollment
type EnrollmentKey struct {
	UserID   string
	CourseID string
}
