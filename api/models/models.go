package models

import (
	"time"

	"gorm.io/gorm"
)

// Topic is a subject for which a syllabus of 8 lessons has been generated.
// Topics are immutable once created: a repeated syllabus request for the
// same name returns the stored record.
type Topic struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Lesson is one subdivision of a topic's syllabus. It is created empty
// alongside its topic and filled in exactly once when its explanation and
// quiz are generated.
type Lesson struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	TopicID     string    `gorm:"index" json:"topic_id"`
	Position    int       `json:"position"`
	Name        string    `json:"name"`
	Explanation string    `json:"explanation"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Question is a multiple choice quiz question belonging to a lesson.
// Immutable after creation.
type Question struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	LessonID      string    `gorm:"index" json:"lesson_id"`
	Position      int       `json:"position"`
	Question      string    `json:"question"`
	Options       string    `json:"options"` // JSON-encoded array of 4 options
	CorrectAnswer string    `json:"correct_answer"`
	CreatedAt     time.Time `json:"created_at"`
}

// LearnerProfile holds the student's self-reported learning preferences and
// the tutor's running assessment of their level. One row per learner; the
// adaptive master prompt is rebuilt from it on every request.
type LearnerProfile struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	LearningStyle string    `json:"learning_style"`
	Interests     string    `json:"interests"`  // JSON-encoded array
	Strengths     string    `json:"strengths"`  // JSON-encoded array
	Weaknesses    string    `json:"weaknesses"` // JSON-encoded array
	Level         string    `json:"level"`      // beginner/intermediate/advanced/expert
	Difficulty    int       `json:"difficulty"` // 1-5
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AutoMigrate runs all migrations
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Topic{},
		&Lesson{},
		&Question{},
		&LearnerProfile{},
	)
}
