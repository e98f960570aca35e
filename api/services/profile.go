package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/local/instructai/api/models"
	"github.com/local/instructai/api/store"
	"github.com/rs/zerolog/log"
)

// DefaultProfileID keys the single learner profile row. The backend serves
// one student per deployment.
const DefaultProfileID = "default"

var validLevels = map[string]bool{
	"beginner":     true,
	"intermediate": true,
	"advanced":     true,
	"expert":       true,
}

// ProfileInput is the learner's self-reported preferences.
type ProfileInput struct {
	LearningStyle string   `json:"learning_style"`
	Interests     []string `json:"interests"`
	Strengths     []string `json:"strengths"`
	Weaknesses    []string `json:"weaknesses"`
}

// LevelAssessment is the model's judgement of the student's level after
// seeing one of their answers.
type LevelAssessment struct {
	Level     string `json:"level"`
	Reasoning string `json:"reasoning"`
}

// EvaluationInput describes one answered question to evaluate.
type EvaluationInput struct {
	Topic         string `json:"topic"`
	Question      string `json:"question"`
	StudentAnswer string `json:"student_answer"`
	CorrectAnswer string `json:"correct_answer"`
}

// Evaluation is the model's feedback on a student answer.
type Evaluation struct {
	Evaluation     string `json:"evaluation"`
	Feedback       string `json:"feedback"`
	NextStep       string `json:"next_step"`
	SpecificReview string `json:"specific_review"`
}

// ProfileService owns the learner proficiency model: the stored profile,
// the adaptive master prompt derived from it, and the LLM-backed level
// assessment and answer evaluation.
type ProfileService struct {
	store    *store.Store
	provider CompletionProvider
}

func NewProfileService(st *store.Store, provider CompletionProvider) *ProfileService {
	return &ProfileService{store: st, provider: provider}
}

// Get returns the stored profile, or a fresh beginner profile if the
// learner has not been profiled yet.
func (p *ProfileService) Get(ctx context.Context) (*models.LearnerProfile, error) {
	profile, err := p.store.GetProfile(ctx, DefaultProfileID)
	if err != nil {
		return nil, &StoreError{Op: "get profile", Err: err}
	}
	if profile == nil {
		return defaultProfile(), nil
	}
	return profile, nil
}

// Update stores the learner's self-reported preferences, keeping any
// previously assessed level.
func (p *ProfileService) Update(ctx context.Context, input ProfileInput) (*models.LearnerProfile, error) {
	profile, err := p.Get(ctx)
	if err != nil {
		return nil, err
	}

	profile.LearningStyle = strings.TrimSpace(strings.ToLower(input.LearningStyle))
	profile.Interests = marshalList(input.Interests)
	profile.Strengths = marshalList(input.Strengths)
	profile.Weaknesses = marshalList(input.Weaknesses)
	profile.UpdatedAt = time.Now()

	if err := p.store.SaveProfile(ctx, profile); err != nil {
		return nil, &StoreError{Op: "save profile", Err: err}
	}
	return profile, nil
}

// MasterPrompt rebuilds the adaptive master prompt from the stored
// profile. A store failure degrades to the base prompt rather than
// blocking generation.
func (p *ProfileService) MasterPrompt(ctx context.Context) string {
	profile, err := p.store.GetProfile(ctx, DefaultProfileID)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to load profile for master prompt")
		return baseMasterPrompt
	}
	if profile == nil {
		return baseMasterPrompt
	}

	var b strings.Builder
	b.WriteString(baseMasterPrompt)
	if profile.LearningStyle != "" {
		fmt.Fprintf(&b, "\nStudent's learning style: %s", profile.LearningStyle)
	}
	if s := unmarshalList(profile.Interests); s != "" {
		fmt.Fprintf(&b, "\nStudent's interests: %s", s)
	}
	if s := unmarshalList(profile.Strengths); s != "" {
		fmt.Fprintf(&b, "\nStudent's strengths: %s", s)
	}
	if s := unmarshalList(profile.Weaknesses); s != "" {
		fmt.Fprintf(&b, "\nStudent's weaknesses: %s", s)
	}
	if profile.Level != "" {
		fmt.Fprintf(&b, "\nStudent's current level: %s", profile.Level)
	}
	return b.String()
}

// AssessLevel asks the model to judge the student's level from their
// response to a topic and persists the result on the profile.
func (p *ProfileService) AssessLevel(ctx context.Context, topic, response string) (*LevelAssessment, error) {
	text, err := p.provider.Generate(ctx, buildAssessLevelPrompt(topic, response), p.MasterPrompt(ctx))
	if err != nil {
		return nil, &GenerationError{Stage: "assessment", Err: err}
	}

	var assessment LevelAssessment
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &assessment); err != nil {
		return nil, &RecoverableParseError{Reason: fmt.Sprintf("invalid JSON: %v", err), Raw: text}
	}

	assessment.Level = strings.TrimSpace(strings.ToLower(assessment.Level))
	if !validLevels[assessment.Level] {
		return nil, &RecoverableParseError{Reason: fmt.Sprintf("unknown level %q", assessment.Level), Raw: text}
	}

	profile, err := p.Get(ctx)
	if err != nil {
		return nil, err
	}
	profile.Level = assessment.Level
	profile.UpdatedAt = time.Now()
	if err := p.store.SaveProfile(ctx, profile); err != nil {
		return nil, &StoreError{Op: "save profile", Err: err}
	}

	return &assessment, nil
}

// EvaluateAnswer asks the model to grade a student answer. A generation or
// parse failure falls back to a canned review suggestion so the caller
// always gets usable feedback.
func (p *ProfileService) EvaluateAnswer(ctx context.Context, input EvaluationInput) Evaluation {
	fallback := Evaluation{
		Evaluation:     "unclear",
		Feedback:       "I'm having trouble evaluating your answer. Let's review the topic to ensure understanding.",
		NextStep:       "review",
		SpecificReview: input.Topic,
	}

	text, err := p.provider.Generate(ctx,
		buildEvaluateAnswerPrompt(input.Topic, input.Question, input.StudentAnswer, input.CorrectAnswer),
		p.MasterPrompt(ctx))
	if err != nil {
		log.Warn().Err(err).Msg("Failed to generate answer evaluation")
		return fallback
	}

	var evaluation Evaluation
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &evaluation); err != nil || evaluation.Evaluation == "" {
		log.Warn().Err(err).Msg("Failed to parse answer evaluation")
		return fallback
	}
	return evaluation
}

func defaultProfile() *models.LearnerProfile {
	now := time.Now()
	return &models.LearnerProfile{
		ID:         DefaultProfileID,
		Level:      "beginner",
		Difficulty: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func marshalList(values []string) string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	data, _ := json.Marshal(cleaned)
	return string(data)
}

func unmarshalList(data string) string {
	if data == "" {
		return ""
	}
	var values []string
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return ""
	}
	return strings.Join(values, ", ")
}
