package services

import (
	"context"

	"github.com/rs/zerolog/log"
)

// VideoService turns a video transcript into timed comprehension
// questions. Results are ephemeral; every call regenerates.
type VideoService struct {
	provider CompletionProvider
	profiles *ProfileService
}

func NewVideoService(provider CompletionProvider, profiles *ProfileService) *VideoService {
	return &VideoService{provider: provider, profiles: profiles}
}

// TeachWithVideo segments the transcript and generates one question per
// segment. A segment whose generation or parse fails yields a flagged
// placeholder instead of aborting, so the result always has exactly one
// entry per segment and timestamps stay aligned.
func (v *VideoService) TeachWithVideo(ctx context.Context, fragments []TranscriptFragment) []VideoQuestion {
	var totalDuration float64
	for _, f := range fragments {
		totalDuration += f.Duration
	}

	segments := SegmentTranscript(fragments, totalDuration)
	if len(segments) == 0 {
		return nil
	}

	masterPrompt := v.profiles.MasterPrompt(ctx)

	questions := make([]VideoQuestion, 0, len(segments))
	for i, seg := range segments {
		text, err := v.provider.Generate(ctx, buildVideoQuestionPrompt(seg.Text), masterPrompt)
		if err != nil {
			log.Warn().Err(err).Int("segment", i).Msg("Failed to generate video question")
			questions = append(questions, VideoQuestion{Timestamp: seg.Timestamp, Failed: true})
			continue
		}

		q, err := ParseVideoQuestion(text)
		if err != nil {
			log.Warn().Err(err).Int("segment", i).Msg("Failed to parse video question")
			questions = append(questions, VideoQuestion{Timestamp: seg.Timestamp, Failed: true})
			continue
		}

		q.Timestamp = seg.Timestamp
		questions = append(questions, q)
	}

	return questions
}
