package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/local/instructai/api/models"
	"github.com/local/instructai/api/store"
	"gorm.io/gorm"
)

// TutorService orchestrates syllabus and lesson generation: it composes
// prompts, calls the completion provider, parses the output and persists
// the result. Both operations are idempotent reads first, generation only
// on a store miss.
type TutorService struct {
	store    *store.Store
	provider CompletionProvider
	profiles *ProfileService
}

func NewTutorService(st *store.Store, provider CompletionProvider, profiles *ProfileService) *TutorService {
	return &TutorService{store: st, provider: provider, profiles: profiles}
}

// Syllabus is the result of a syllabus request. Created reports whether
// this call generated the topic (true) or served it from the store (false).
type Syllabus struct {
	Topic   models.Topic    `json:"topic"`
	Lessons []models.Lesson `json:"lessons"`
	Created bool            `json:"-"`
}

// LessonContent is a lesson's explanation plus its quiz.
type LessonContent struct {
	Lesson    models.Lesson     `json:"lesson"`
	Questions []models.Question `json:"questions"`
}

// GetSyllabus returns the syllabus for a topic name, generating and
// persisting it on first request. Re-requesting an existing topic returns
// the stored record without calling the completion provider. On a miss,
// the topic and its 8 empty lesson slots are committed atomically; any
// generation failure leaves the store untouched.
func (t *TutorService) GetSyllabus(ctx context.Context, topicName string) (*Syllabus, error) {
	topicName = strings.TrimSpace(topicName)

	topic, lessons, err := t.store.FindTopicByName(ctx, topicName)
	if err != nil {
		return nil, &StoreError{Op: "find topic", Err: err}
	}
	if topic != nil {
		return &Syllabus{Topic: *topic, Lessons: lessons, Created: false}, nil
	}

	text, err := t.provider.Generate(ctx, buildSyllabusPrompt(topicName), t.profiles.MasterPrompt(ctx))
	if err != nil {
		return nil, &GenerationError{Stage: "syllabus", Err: err}
	}

	names := ParseLessonList(text)

	now := time.Now()
	newTopic := &models.Topic{
		ID:        uuid.New().String(),
		Name:      topicName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	newLessons := make([]models.Lesson, 0, len(names))
	for i, name := range names {
		newLessons = append(newLessons, models.Lesson{
			ID:        uuid.New().String(),
			TopicID:   newTopic.ID,
			Position:  i,
			Name:      name,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	if err := t.store.CreateTopicWithLessons(ctx, newTopic, newLessons); err != nil {
		return nil, &StoreError{Op: "create topic", Err: err}
	}

	return &Syllabus{Topic: *newTopic, Lessons: newLessons, Created: true}, nil
}

// GenerateLessonContent fills in a lesson's explanation and quiz,
// generating them on first request. A lesson whose explanation is already
// set is served from the store without calling the completion provider.
// Explanation and questions are written together or not at all.
func (t *TutorService) GenerateLessonContent(ctx context.Context, lessonID string) (*LessonContent, error) {
	lesson, err := t.store.GetLesson(ctx, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, &StoreError{Op: "get lesson", Err: err}
	}

	if lesson.Explanation != "" {
		questions, err := t.store.GetLessonQuestions(ctx, lesson.ID)
		if err != nil {
			return nil, &StoreError{Op: "get questions", Err: err}
		}
		return &LessonContent{Lesson: *lesson, Questions: questions}, nil
	}

	text, err := t.provider.Generate(ctx, buildLessonPrompt(lesson.Name), t.profiles.MasterPrompt(ctx))
	if err != nil {
		return nil, &GenerationError{Stage: "lesson", Err: err}
	}

	data, err := ParseLessonData(text)
	if err != nil {
		return nil, &GenerationError{Stage: "lesson", Err: err}
	}

	now := time.Now()
	questions := make([]models.Question, 0, len(data.Questions))
	for i, q := range data.Questions {
		optionsJSON, _ := json.Marshal(q.Options)
		questions = append(questions, models.Question{
			ID:            uuid.New().String(),
			LessonID:      lesson.ID,
			Position:      i,
			Question:      q.Question,
			Options:       string(optionsJSON),
			CorrectAnswer: q.CorrectAnswer,
			CreatedAt:     now,
		})
	}

	if err := t.store.SaveLessonContent(ctx, lesson.ID, data.Explanation, questions); err != nil {
		return nil, &StoreError{Op: "save lesson", Err: err}
	}

	lesson.Explanation = data.Explanation
	return &LessonContent{Lesson: *lesson, Questions: questions}, nil
}

// Chat answers a freeform student question under the adaptive master
// prompt. Nothing is persisted.
func (t *TutorService) Chat(ctx context.Context, question string) (string, error) {
	answer, err := t.provider.Generate(ctx, question, t.profiles.MasterPrompt(ctx))
	if err != nil {
		return "", &GenerationError{Stage: "chat", Err: err}
	}
	return answer, nil
}
