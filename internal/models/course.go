package models

// Course represents a course structure delivered by the content service.
// Module order, and lesson order within a module, define the canonical lesson sequence.
type Course struct {
	ID      string   `json:"id" yaml:"id"`
	Slug    string   `json:"slug,omitempty" yaml:"slug"`
	Title   string   `json:"title,omitempty" yaml:"title"`
	Modules []Module `json:"modules" yaml:"modules"`
}

// Module represents an ordered group of lessons within a course
type Module struct {
	ID      string   `json:"id" yaml:"id"`
	Title   string   `json:"title" yaml:"title"`
	Lessons []Lesson `json:"lessons" yaml:"lessons"`
}

// Lesson represents a lesson reference within a module
type Lesson struct {
	ID    string `json:"id" yaml:"id"`
	Title string `json:"title" yaml:"title"`
	Slug  string `json:"slug" yaml:"slug"`
}

// CourseProgress represents a user's completion state for a course
type CourseProgress struct {
	CourseID         string  `json:"courseId"`
	Percentage       int     `json:"percentage"`
	NextLessonID     *string `json:"nextLessonId"`
	TotalLessons     int     `json:"totalLessons"`
	CompletedLessons int     `json:"completedLessons"`
}

// LessonNavigation holds the neighbours of a lesson in canonical course order
type LessonNavigation struct {
	CourseID       string  `json:"courseId"`
	LessonID       string  `json:"lessonId"`
	PreviousLesson *Lesson `json:"previousLesson"`
	NextLesson     *Lesson `json:"nextLesson"`
}
