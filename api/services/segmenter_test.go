package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionCount(t *testing.T) {
	tests := []struct {
		minutes float64
		want    int
	}{
		{0, 2},
		{5, 2},
		{9.99, 2},
		{10, 3},
		{15, 3},
		{20, 4},
		{29.5, 4},
		{30, 5},
		{40, 6},
		{120, 6},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, QuestionCount(tt.minutes), "minutes=%v", tt.minutes)
	}
}

func TestQuestionCount_Monotone(t *testing.T) {
	prev := QuestionCount(0)
	for m := 0.0; m <= 60; m += 0.5 {
		cur := QuestionCount(m)
		assert.GreaterOrEqual(t, cur, prev, "minutes=%v", m)
		assert.GreaterOrEqual(t, cur, 2)
		assert.LessOrEqual(t, cur, 6)
		prev = cur
	}
}

func makeTranscript(fragments int, fragmentDuration float64) []TranscriptFragment {
	out := make([]TranscriptFragment, 0, fragments)
	for i := 0; i < fragments; i++ {
		out = append(out, TranscriptFragment{
			Text:     fmt.Sprintf("fragment%d", i),
			Start:    float64(i) * fragmentDuration,
			Duration: fragmentDuration,
		})
	}
	return out
}

func TestSegmentTranscript_ExactCount(t *testing.T) {
	// 90 fragments x 10s = 900s = 15 minutes -> 3 questions.
	fragments := makeTranscript(90, 10)
	segments := SegmentTranscript(fragments, 900)

	require.Len(t, segments, 3)

	prev := 0.0
	for _, seg := range segments {
		assert.GreaterOrEqual(t, seg.Timestamp, prev)
		prev = seg.Timestamp
	}
	assert.Equal(t, 900.0, segments[len(segments)-1].Timestamp)
}

func TestSegmentTranscript_FullConsumption(t *testing.T) {
	fragments := makeTranscript(30, 20) // 600s = 10 minutes -> 3 questions
	segments := SegmentTranscript(fragments, 600)
	require.Len(t, segments, 3)

	var joined []string
	for _, seg := range segments {
		require.NotEmpty(t, seg.Text)
		joined = append(joined, seg.Text)
	}

	var all []string
	for _, f := range fragments {
		all = append(all, f.Text)
	}
	assert.Equal(t, strings.Join(all, " "), strings.Join(joined, " "))
}

func TestSegmentTranscript_UnevenFragments(t *testing.T) {
	fragments := []TranscriptFragment{
		{Text: "a", Duration: 50},
		{Text: "b", Duration: 100},
		{Text: "c", Duration: 10},
		{Text: "d", Duration: 40},
	}
	segments := SegmentTranscript(fragments, 200) // 3.3 minutes -> 2 questions

	require.Len(t, segments, 2)
	assert.Equal(t, "a b", segments[0].Text)
	assert.Equal(t, 150.0, segments[0].Timestamp)
	assert.Equal(t, "c d", segments[1].Text)
	assert.Equal(t, 200.0, segments[1].Timestamp)
}

func TestSegmentTranscript_ZeroDuration(t *testing.T) {
	assert.Nil(t, SegmentTranscript(makeTranscript(3, 0), 0))
	assert.Nil(t, SegmentTranscript(nil, 600))
}
