package content

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/japanesestudent/progress-service/internal/models"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Document kinds accepted in a content directory
const (
	KindCourse   = "course"
	KindQuiz     = "quiz"
	KindActivity = "activity"
)

const courseSchema = `{
  "type": "object",
  "required": ["id", "modules"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "modules": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "lessons"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "lessons": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id"],
              "properties": {"id": {"type": "string", "minLength": 1}}
            }
          }
        }
      }
    }
  }
}`

const quizSchema = `{
  "type": "object",
  "required": ["id", "questions"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "questions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["key", "options"],
        "properties": {
          "key": {"type": "string", "minLength": 1},
          "options": {
            "type": "array",
            "minItems": 1,
            "items": {
              "type": "object",
              "required": ["key"],
              "properties": {
                "key": {"type": "string", "minLength": 1},
                "isCorrect": {"type": "boolean"}
              }
            }
          }
        }
      }
    }
  }
}`

const activitySchema = `{
  "type": "object",
  "required": ["id", "pairs"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "pairs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["key"],
        "properties": {"key": {"type": "string", "minLength": 1}}
      }
    }
  }
}`

// FileReader serves content documents from a directory of YAML files.
// Every file holds one document with a top-level kind of course, quiz or activity.
type FileReader struct {
	dir     string
	logger  *zap.Logger
	schemas map[string]*gojsonschema.Schema

	mu         sync.RWMutex
	courses    map[string]models.Course
	quizzes    map[string]models.Quiz
	activities map[string]models.Activity
}

// NewFileReader creates a reader and loads every document under dir
func NewFileReader(dir string, logger *zap.Logger) (*FileReader, error) {
	schemas := make(map[string]*gojsonschema.Schema, 3)
	for kind, raw := range map[string]string{
		KindCourse:   courseSchema,
		KindQuiz:     quizSchema,
		KindActivity: activitySchema,
	} {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s schema: %w", kind, err)
		}
		schemas[kind] = schema
	}

	r := &FileReader{
		dir:     dir,
		logger:  logger,
		schemas: schemas,
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads the content directory. Invalid documents are skipped with a warning.
func (r *FileReader) Reload() error {
	courses := make(map[string]models.Course)
	quizzes := make(map[string]models.Quiz)
	activities := make(map[string]models.Activity)

	err := filepath.WalkDir(r.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		kind, err := r.validate(data)
		if err != nil {
			r.logger.Warn("skipping invalid content document", zap.String("path", path), zap.Error(err))
			return nil
		}

		switch kind {
		case KindCourse:
			var course models.Course
			if err := yaml.Unmarshal(data, &course); err != nil {
				r.logger.Warn("skipping invalid course document", zap.String("path", path), zap.Error(err))
				return nil
			}
			courses[course.ID] = course
		case KindQuiz:
			var quiz models.Quiz
			if err := yaml.Unmarshal(data, &quiz); err != nil {
				r.logger.Warn("skipping invalid quiz document", zap.String("path", path), zap.Error(err))
				return nil
			}
			quizzes[quiz.ID] = quiz
		case KindActivity:
			var activity models.Activity
			if err := yaml.Unmarshal(data, &activity); err != nil {
				r.logger.Warn("skipping invalid activity document", zap.String("path", path), zap.Error(err))
				return nil
			}
			activities[activity.ID] = activity
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load content directory %s: %w", r.dir, err)
	}

	r.mu.Lock()
	r.courses = courses
	r.quizzes = quizzes
	r.activities = activities
	r.mu.Unlock()

	r.logger.Info("content directory loaded",
		zap.String("dir", r.dir),
		zap.Int("courses", len(courses)),
		zap.Int("quizzes", len(quizzes)),
		zap.Int("activities", len(activities)),
	)
	return nil
}

// validate checks a raw document against the schema of its kind and returns the kind
func (r *FileReader) validate(data []byte) (string, error) {
	var doc map[string]interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", fmt.Errorf("invalid yaml: %w", err)
	}

	kind, _ := doc["kind"].(string)
	schema, ok := r.schemas[kind]
	if !ok {
		return "", fmt.Errorf("unknown document kind %q", kind)
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return "", fmt.Errorf("failed to validate %s: %w", kind, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return "", fmt.Errorf("%w: %s", models.ErrDefinitionIntegrity, strings.Join(msgs, "; "))
	}
	return kind, nil
}

// FetchCourseStructure returns a loaded course
func (r *FileReader) FetchCourseStructure(ctx context.Context, courseID string) (*models.Course, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	course, ok := r.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("course %q: %w", courseID, models.ErrNotFound)
	}
	return &course, nil
}

// FetchQuiz returns a loaded quiz
func (r *FileReader) FetchQuiz(ctx context.Context, quizID string) (*models.Quiz, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	quiz, ok := r.quizzes[quizID]
	if !ok {
		return nil, fmt.Errorf("quiz %q: %w", quizID, models.ErrNotFound)
	}
	return &quiz, nil
}

// FetchActivity returns a loaded activity
func (r *FileReader) FetchActivity(ctx context.Context, activityID string) (*models.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[activityID]
	if !ok {
		return nil, fmt.Errorf("activity %q: %w", activityID, models.ErrNotFound)
	}
	return &activity, nil
}
