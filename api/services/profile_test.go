package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpdateAndMasterPrompt(t *testing.T) {
	st := newTestStore(t)
	mock := NewMockProvider()
	svc := NewProfileService(st, mock)
	ctx := context.Background()

	profile, err := svc.Update(ctx, ProfileInput{
		LearningStyle: "Visual",
		Interests:     []string{"space", "robots"},
		Strengths:     []string{"geometry"},
		Weaknesses:    []string{"fractions"},
	})
	require.NoError(t, err)
	assert.Equal(t, "visual", profile.LearningStyle)

	prompt := svc.MasterPrompt(ctx)
	assert.Contains(t, prompt, "adaptive AI teacher")
	assert.Contains(t, prompt, "learning style: visual")
	assert.Contains(t, prompt, "interests: space, robots")
	assert.Contains(t, prompt, "strengths: geometry")
	assert.Contains(t, prompt, "weaknesses: fractions")
}

func TestMasterPrompt_NoProfile(t *testing.T) {
	svc := NewProfileService(newTestStore(t), NewMockProvider())
	assert.Equal(t, baseMasterPrompt, svc.MasterPrompt(context.Background()))
}

func TestAssessLevel(t *testing.T) {
	st := newTestStore(t)
	mock := NewMockProvider(MockResponse{
		Text: "```json\n{\"level\": \"Intermediate\", \"reasoning\": \"Solid fundamentals.\"}\n```",
	})
	svc := NewProfileService(st, mock)
	ctx := context.Background()

	assessment, err := svc.AssessLevel(ctx, "Algebra", "x equals 4 because 2x = 8")
	require.NoError(t, err)
	assert.Equal(t, "intermediate", assessment.Level)
	assert.Equal(t, "Solid fundamentals.", assessment.Reasoning)

	// The assessed level lands on the stored profile.
	profile, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "intermediate", profile.Level)
}

func TestAssessLevel_MalformedJSON(t *testing.T) {
	svc := NewProfileService(newTestStore(t), NewMockProvider(MockResponse{Text: "not json"}))

	_, err := svc.AssessLevel(context.Background(), "Algebra", "whatever")
	var parseErr *RecoverableParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestAssessLevel_UnknownLevel(t *testing.T) {
	svc := NewProfileService(newTestStore(t), NewMockProvider(MockResponse{
		Text: `{"level": "galactic", "reasoning": "made up"}`,
	}))

	_, err := svc.AssessLevel(context.Background(), "Algebra", "whatever")
	var parseErr *RecoverableParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestEvaluateAnswer(t *testing.T) {
	svc := NewProfileService(newTestStore(t), NewMockProvider(MockResponse{
		Text: `{"evaluation": "correct", "feedback": "Well reasoned.", "next_step": "advance", "specific_review": ""}`,
	}))

	evaluation := svc.EvaluateAnswer(context.Background(), EvaluationInput{
		Topic:         "Algebra",
		Question:      "What is 2x when x=4?",
		StudentAnswer: "8",
		CorrectAnswer: "8",
	})
	assert.Equal(t, "correct", evaluation.Evaluation)
	assert.Equal(t, "advance", evaluation.NextStep)
}

func TestEvaluateAnswer_FallsBackOnFailure(t *testing.T) {
	svc := NewProfileService(newTestStore(t), NewMockProvider(MockResponse{
		Err: &CompletionError{Provider: "mock", Err: fmt.Errorf("boom")},
	}))

	evaluation := svc.EvaluateAnswer(context.Background(), EvaluationInput{Topic: "Algebra"})
	assert.Equal(t, "unclear", evaluation.Evaluation)
	assert.Equal(t, "review", evaluation.NextStep)
	assert.Equal(t, "Algebra", evaluation.SpecificReview)
}
