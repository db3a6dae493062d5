// Package progress derives course completion and lesson navigation from a course structure
// and a set of completed lesson IDs. Everything here is a pure function of its inputs.
package progress

import (
	"fmt"

	"github.com/japanesestudent/progress-service/internal/models"
)

// Result is the outcome of a progress calculation
type Result struct {
	Percentage int
	// NextLessonID is nil only for a course without lessons
	NextLessonID *string
	Total        int
	Completed    int
}

// Flatten returns the lessons of a course in canonical order: module order, then lesson order
func Flatten(course *models.Course) []models.Lesson {
	if course == nil {
		return nil
	}

	var lessons []models.Lesson
	for _, module := range course.Modules {
		lessons = append(lessons, module.Lessons...)
	}
	return lessons
}

// Calculate computes the completion percentage and the lesson to resume from.
// Completed IDs that are not part of the course are ignored, duplicates count once.
func Calculate(course *models.Course, completedLessonIDs []string) Result {
	lessons := Flatten(course)
	if len(lessons) == 0 {
		return Result{}
	}

	completed := make(map[string]struct{}, len(completedLessonIDs))
	for _, id := range completedLessonIDs {
		completed[id] = struct{}{}
	}

	var done int
	var next *string
	for i := range lessons {
		if _, ok := completed[lessons[i].ID]; ok {
			done++
			continue
		}
		if next == nil {
			id := lessons[i].ID
			next = &id
		}
	}

	// Everything is complete, resume from the start for review
	if next == nil {
		id := lessons[0].ID
		next = &id
	}

	return Result{
		Percentage:   Percentage(done, len(lessons)),
		NextLessonID: next,
		Total:        len(lessons),
		Completed:    done,
	}
}

// Percentage returns round-half-up(100 * done / total), or 0 when total is 0
func Percentage(done, total int) int {
	if total <= 0 || done <= 0 {
		return 0
	}
	if done >= total {
		return 100
	}
	return (200*done + total) / (2 * total)
}

// Contains reports whether the lesson belongs to the course
func Contains(course *models.Course, lessonID string) bool {
	for _, lesson := range Flatten(course) {
		if lesson.ID == lessonID {
			return true
		}
	}
	return false
}

// Neighbors returns the lessons before and after lessonID in canonical order.
// Module boundaries are crossed, so the last lesson of a module links to the first of the next.
func Neighbors(course *models.Course, lessonID string) (previous, next *models.Lesson, err error) {
	lessons := Flatten(course)
	for i := range lessons {
		if lessons[i].ID != lessonID {
			continue
		}
		if i > 0 {
			prev := lessons[i-1]
			previous = &prev
		}
		if i < len(lessons)-1 {
			n := lessons[i+1]
			next = &n
		}
		return previous, next, nil
	}
	return nil, nil, fmt.Errorf("lesson %q in course: %w", lessonID, models.ErrNotFound)
}
