// Package quiz scores quiz submissions against a quiz definition
package quiz

import (
	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/japanesestudent/progress-service/internal/progress"
)

// Result is a scored submission, ready to be packaged into an attempt
type Result struct {
	Score   int
	Correct int
	Total   int
	// Answers holds one entry per question of the quiz, keyed by question key
	Answers map[string]models.AnswerResult
	// Unscoreable lists questions that have no correct option
	Unscoreable []string
}

// Score evaluates a submission (question key -> selected option key) against the quiz.
// Unanswered questions count toward the total but never as correct.
// A question without a correct option can never be answered correctly.
func Score(q *models.Quiz, submission map[string]string) Result {
	result := Result{Answers: make(map[string]models.AnswerResult)}
	if q == nil {
		return result
	}

	for _, question := range q.Questions {
		result.Total++

		answer := models.AnswerResult{}
		key := correctOption(question)
		if key == nil {
			result.Unscoreable = append(result.Unscoreable, question.Key)
		} else {
			correctKey := key.Key
			answer.CorrectOptionKey = &correctKey
			answer.Explanation = key.Explanation
		}

		if selected, ok := submission[question.Key]; ok && selected != "" {
			s := selected
			answer.SelectedOptionKey = &s
			answer.IsCorrect = key != nil && selected == key.Key
		}

		if answer.IsCorrect {
			result.Correct++
		}
		result.Answers[question.Key] = answer
	}

	result.Score = progress.Percentage(result.Correct, result.Total)
	return result
}

// correctOption returns the first option marked correct, or nil
func correctOption(question models.Question) *models.Option {
	for i := range question.Options {
		if question.Options[i].IsCorrect {
			return &question.Options[i]
		}
	}
	return nil
}
