package models

import "time"

// Quiz represents a quiz definition delivered by the content service
type Quiz struct {
	ID        string     `json:"id" yaml:"id"`
	Title     string     `json:"title,omitempty" yaml:"title"`
	Questions []Question `json:"questions" yaml:"questions"`
}

// Question represents a single quiz question.
// A well-formed question has at least two options and exactly one correct option.
type Question struct {
	Key     string   `json:"key" yaml:"key"`
	Text    string   `json:"text" yaml:"text"`
	Options []Option `json:"options" yaml:"options"`
}

// Option represents an answer option of a question
type Option struct {
	Key         string `json:"key" yaml:"key"`
	Text        string `json:"text" yaml:"text"`
	IsCorrect   bool   `json:"isCorrect" yaml:"isCorrect"`
	Explanation string `json:"explanation,omitempty" yaml:"explanation"`
}

// AnswerResult is the evaluation of one question in an attempt
type AnswerResult struct {
	SelectedOptionKey *string `json:"selectedOptionKey"`
	CorrectOptionKey  *string `json:"correctOptionKey"`
	IsCorrect         bool    `json:"isCorrect"`
	Explanation       string  `json:"explanation,omitempty"`
}

// QuizAttempt represents one persisted quiz submission and its score
type QuizAttempt struct {
	ID          int                     `json:"id"`
	UserID      string                  `json:"userId"`
	QuizID      string                  `json:"quizId"`
	LessonID    *string                 `json:"lessonId,omitempty"`
	Score       int                     `json:"score"`
	Answers     map[string]AnswerResult `json:"answers"`
	SubmittedAt time.Time               `json:"submittedAt"`
}

// SubmitQuizRequest represents a quiz submission
type SubmitQuizRequest struct {
	// Answers maps question keys to selected option keys
	Answers  map[string]string `json:"answers"`
	LessonID *string           `json:"lessonId,omitempty"`
	// CourseID is only needed for lesson auto-completion on a passing score
	CourseID *string `json:"courseId,omitempty"`
}

// SubmitQuizResponse is returned after a quiz submission has been scored and stored
type SubmitQuizResponse struct {
	Attempt QuizAttempt `json:"attempt"`
	// LessonCompleted is true when a passing score marked the lesson complete
	LessonCompleted bool `json:"lessonCompleted"`
}
