package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/local/instructai/api/models"
	"github.com/local/instructai/api/store"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return store.New(db)
}

func newTestTutor(t *testing.T, provider CompletionProvider) (*TutorService, *store.Store) {
	t.Helper()
	st := newTestStore(t)
	profiles := NewProfileService(st, provider)
	return NewTutorService(st, provider, profiles), st
}

const syllabusResponse = `1. Variables and Expressions
2. Linear Equations
3. Inequalities
4. Systems of Equations
5. Polynomials
6. Factoring
7. Quadratic Equations
8. Functions`

func TestGetSyllabus_Idempotent(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: syllabusResponse})
	tutor, _ := newTestTutor(t, mock)
	ctx := context.Background()

	first, err := tutor.GetSyllabus(ctx, "Algebra")
	require.NoError(t, err)
	assert.True(t, first.Created)
	require.Len(t, first.Lessons, 8)
	assert.Equal(t, "Variables and Expressions", first.Lessons[0].Name)

	second, err := tutor.GetSyllabus(ctx, "Algebra")
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Topic.ID, second.Topic.ID)
	require.Len(t, second.Lessons, 8)
	for i := range first.Lessons {
		assert.Equal(t, first.Lessons[i].ID, second.Lessons[i].ID)
	}

	// Exactly one completion call across both requests.
	assert.Equal(t, 1, mock.CallCount())
}

func TestGetSyllabus_PadsShortSyllabus(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "1. Only\n2. Three\n3. Lessons"})
	tutor, _ := newTestTutor(t, mock)

	syllabus, err := tutor.GetSyllabus(context.Background(), "Chemistry")
	require.NoError(t, err)
	require.Len(t, syllabus.Lessons, 8)
	assert.Equal(t, "Lessons", syllabus.Lessons[2].Name)
	assert.Equal(t, "Lesson 4", syllabus.Lessons[3].Name)
	assert.Equal(t, "Lesson 8", syllabus.Lessons[7].Name)
}

func TestGetSyllabus_CompletionFailurePersistsNothing(t *testing.T) {
	mock := NewMockProvider(MockResponse{
		Err: &CompletionError{Provider: "mock", Err: fmt.Errorf("boom")},
	})
	tutor, st := newTestTutor(t, mock)
	ctx := context.Background()

	_, err := tutor.GetSyllabus(ctx, "Physics")
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)

	topic, lessons, err := st.FindTopicByName(ctx, "Physics")
	require.NoError(t, err)
	assert.Nil(t, topic)
	assert.Nil(t, lessons)
}

func seedTopic(t *testing.T, st *store.Store, topicName string) []models.Lesson {
	t.Helper()

	mock := NewMockProvider(MockResponse{Text: syllabusResponse})
	profiles := NewProfileService(st, mock)
	tutor := NewTutorService(st, mock, profiles)

	syllabus, err := tutor.GetSyllabus(context.Background(), topicName)
	require.NoError(t, err)
	return syllabus.Lessons
}

func TestGenerateLessonContent(t *testing.T) {
	st := newTestStore(t)
	lessons := seedTopic(t, st, "Biology")

	mock := NewMockProvider(MockResponse{Text: lessonText})
	profiles := NewProfileService(st, mock)
	tutor := NewTutorService(st, mock, profiles)
	ctx := context.Background()

	content, err := tutor.GenerateLessonContent(ctx, lessons[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, content.Lesson.Explanation)
	require.Len(t, content.Questions, 4)
	assert.Equal(t, "Where does photosynthesis occur?", content.Questions[0].Question)
	assert.Equal(t, "B", content.Questions[0].CorrectAnswer)

	// Second request is served from the store without another completion call.
	cached, err := tutor.GenerateLessonContent(ctx, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, content.Lesson.Explanation, cached.Lesson.Explanation)
	require.Len(t, cached.Questions, 4)
	assert.Equal(t, 1, mock.CallCount())
}

func TestGenerateLessonContent_ParseFailurePersistsNothing(t *testing.T) {
	st := newTestStore(t)
	lessons := seedTopic(t, st, "Geology")

	mock := NewMockProvider(MockResponse{Text: "complete nonsense with no questions"})
	profiles := NewProfileService(st, mock)
	tutor := NewTutorService(st, mock, profiles)
	ctx := context.Background()

	_, err := tutor.GenerateLessonContent(ctx, lessons[0].ID)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)

	lesson, err := st.GetLesson(ctx, lessons[0].ID)
	require.NoError(t, err)
	assert.Empty(t, lesson.Explanation)

	questions, err := st.GetLessonQuestions(ctx, lessons[0].ID)
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestGenerateLessonContent_NotFound(t *testing.T) {
	mock := NewMockProvider()
	tutor, _ := newTestTutor(t, mock)

	_, err := tutor.GenerateLessonContent(context.Background(), "no-such-lesson")
	assert.ErrorIs(t, err, ErrLessonNotFound)
	assert.Equal(t, 0, mock.CallCount())
}

func TestChat(t *testing.T) {
	mock := NewMockProvider(MockResponse{Text: "Gravity pulls objects together."})
	tutor, _ := newTestTutor(t, mock)

	answer, err := tutor.Chat(context.Background(), "What is gravity?")
	require.NoError(t, err)
	assert.Equal(t, "Gravity pulls objects together.", answer)
}
