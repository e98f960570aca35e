// Package store is the persistence layer over gorm. A Store is constructed
// once at bootstrap and injected into the services that need it; there is
// no package-level database handle.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/local/instructai/api/models"
	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// FindTopicByName returns the topic with the given name and its lessons
// ordered by position, or (nil, nil, nil) if no such topic exists.
func (s *Store) FindTopicByName(ctx context.Context, name string) (*models.Topic, []models.Lesson, error) {
	var topic models.Topic
	err := s.db.WithContext(ctx).Where("name = ?", name).First(&topic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find topic: %w", err)
	}

	var lessons []models.Lesson
	if err := s.db.WithContext(ctx).Where("topic_id = ?", topic.ID).Order("position ASC").Find(&lessons).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to load lessons: %w", err)
	}
	return &topic, lessons, nil
}

// CreateTopicWithLessons persists a topic and its lesson slots atomically.
// Either all records are committed or none are. A concurrent first request
// for the same name loses on the unique name index and gets an error.
func (s *Store) CreateTopicWithLessons(ctx context.Context, topic *models.Topic, lessons []models.Lesson) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(topic).Error; err != nil {
			return err
		}
		for i := range lessons {
			if err := tx.Create(&lessons[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create topic %q: %w", topic.Name, err)
	}
	return nil
}

// GetLesson returns the lesson with the given id, or gorm.ErrRecordNotFound.
func (s *Store) GetLesson(ctx context.Context, id string) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

// GetLessonQuestions returns a lesson's quiz questions in creation order.
func (s *Store) GetLessonQuestions(ctx context.Context, lessonID string) ([]models.Question, error) {
	var questions []models.Question
	if err := s.db.WithContext(ctx).Where("lesson_id = ?", lessonID).Order("position ASC").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to load questions: %w", err)
	}
	return questions, nil
}

// SaveLessonContent writes a lesson's explanation and its quiz questions in
// one transaction so a lesson is never left half-generated.
func (s *Store) SaveLessonContent(ctx context.Context, lessonID string, explanation string, questions []models.Question) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range questions {
			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Lesson{}).Where("id = ?", lessonID).
			Update("explanation", explanation).Error
	})
	if err != nil {
		return fmt.Errorf("failed to save lesson content: %w", err)
	}
	return nil
}

// GetProfile returns the learner profile, or (nil, nil) if none exists yet.
func (s *Store) GetProfile(ctx context.Context, id string) (*models.LearnerProfile, error) {
	var profile models.LearnerProfile
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return &profile, nil
}

// SaveProfile inserts or updates the learner profile.
func (s *Store) SaveProfile(ctx context.Context, profile *models.LearnerProfile) error {
	if err := s.db.WithContext(ctx).Save(profile).Error; err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}
