package services

import "strings"

// TranscriptFragment is one timed caption line supplied by the transcript
// provider. Consumed during segmentation, never persisted.
type TranscriptFragment struct {
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Segment is a contiguous time-bounded slice of a transcript. Timestamp is
// the elapsed time, in seconds, at which the segment ends.
type Segment struct {
	Text      string
	Timestamp float64
}

// QuestionCount maps a video length in minutes to the number of
// comprehension questions to generate. Monotone step function bounded to
// [2,6] so generation-call volume stays constant regardless of length.
func QuestionCount(minutes float64) int {
	switch {
	case minutes < 10:
		return 2
	case minutes < 20:
		return 3
	case minutes < 30:
		return 4
	case minutes < 40:
		return 5
	default:
		return 6
	}
}

// SegmentTranscript partitions the transcript into exactly
// QuestionCount(totalDuration/60) contiguous segments. Fragments
// accumulate into the current segment until elapsed time reaches the
// nominal boundary; the final segment absorbs whatever remains, so every
// fragment lands in exactly one segment. A zero duration or empty
// transcript yields no segments.
func SegmentTranscript(fragments []TranscriptFragment, totalDuration float64) []Segment {
	if totalDuration <= 0 || len(fragments) == 0 {
		return nil
	}

	n := QuestionCount(totalDuration / 60)
	segmentDuration := totalDuration / float64(n)

	segments := make([]Segment, 0, n)
	elapsed := 0.0
	next := 0

	for i := 0; i < n; i++ {
		boundary := float64(i+1) * segmentDuration
		last := i == n-1

		var texts []string
		for next < len(fragments) && (last || elapsed < boundary) {
			texts = append(texts, fragments[next].Text)
			elapsed += fragments[next].Duration
			next++
		}

		segments = append(segments, Segment{
			Text:      strings.TrimSpace(strings.Join(texts, " ")),
			Timestamp: elapsed,
		})
	}

	return segments
}
