package models

import "time"

// LessonCompletion represents a persisted fact that a user finished a lesson.
// It is unique per (UserID, LessonID).
type LessonCompletion struct {
	UserID      string    `json:"userId"`
	LessonID    string    `json:"lessonId"`
	CourseID    string    `json:"courseId"`
	Completed   bool      `json:"completed"`
	CompletedAt time.Time `json:"completedAt"`
}

// CompleteLessonResponse is returned after a lesson has been marked complete
type CompleteLessonResponse struct {
	Completion LessonCompletion `json:"completion"`
	Progress   CourseProgress   `json:"progress"`
}
