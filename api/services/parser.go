package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// SyllabusSize is the fixed number of lessons every topic gets. The parser
// pads or truncates model output so downstream storage can always allocate
// exactly this many lesson slots.
const SyllabusSize = 8

// QuizSize is the number of quiz questions generated per lesson.
const QuizSize = 4

// ParsedQuestion is one multiple choice question extracted from generated
// lesson text.
type ParsedQuestion struct {
	Question      string
	Options       []string
	CorrectAnswer string
}

// LessonData is the structured result of parsing generated lesson text.
type LessonData struct {
	Explanation string
	Questions   []ParsedQuestion
}

// VideoQuestion is one timed comprehension question produced from a video
// transcript segment. Not persisted; regenerated on every request. Failed
// marks a placeholder for a segment whose generation or parse failed.
type VideoQuestion struct {
	Question      string  `json:"question"`
	CorrectAnswer string  `json:"correct_answer"`
	Explanation   string  `json:"explanation"`
	Timestamp     float64 `json:"timestamp"`
	Failed        bool    `json:"failed,omitempty"`
}

var (
	numberedLineRe = regexp.MustCompile(`^\s*\d+[.)]\s*`)
	questionLineRe = regexp.MustCompile(`^([1-4])\.\s*(.+)$`)
	optionLineRe   = regexp.MustCompile(`^([A-D])\)\s*(.+)$`)
	answerLineRe   = regexp.MustCompile(`^Correct Answer:\s*(.+)$`)
)

// ParseLessonList extracts lesson names from generated syllabus text. Each
// line is stripped of a leading "<n>." prefix; blank results are dropped.
// The result is always exactly SyllabusSize names: extra lines are
// truncated and missing slots are filled with "Lesson N" placeholders.
func ParseLessonList(text string) []string {
	var lessons []string
	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		name := strings.TrimSpace(numberedLineRe.ReplaceAllString(line, ""))
		if name == "" {
			continue
		}
		lessons = append(lessons, name)
		if len(lessons) == SyllabusSize {
			break
		}
	}

	for len(lessons) < SyllabusSize {
		lessons = append(lessons, fmt.Sprintf("Lesson %d", len(lessons)+1))
	}
	return lessons
}

// ParseLessonData splits generated lesson text into an explanation and up
// to QuizSize well-formed quiz questions. Lines before the "Questions"
// marker form the explanation; an "Explanation" marker line and the line
// after it are skipped. Question blocks missing any field (text, exactly 4
// options, a correct answer) are rejected rather than silently kept. An
// empty explanation or zero valid questions fails the whole parse.
func ParseLessonData(text string) (LessonData, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var explanation []string
	questionStart := len(lines)
	for i := 0; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])
		if isMarker(line, "Explanation") {
			i++ // skip the marker and the line after it
			continue
		}
		if isMarker(line, "Questions") {
			questionStart = i + 1
			break
		}
		if line == "" {
			continue
		}
		explanation = append(explanation, line)
	}

	data := LessonData{
		Explanation: strings.TrimSpace(strings.Join(explanation, " ")),
	}
	if data.Explanation == "" {
		return LessonData{}, &RecoverableParseError{Reason: "empty explanation", Raw: text}
	}

	var current *ParsedQuestion
	flush := func() {
		if current == nil {
			return
		}
		if current.Question != "" && len(current.Options) == QuizSize && current.CorrectAnswer != "" {
			data.Questions = append(data.Questions, *current)
		}
		current = nil
	}

	for _, raw := range lines[questionStart:] {
		line := strings.TrimSpace(raw)
		switch {
		case questionLineRe.MatchString(line):
			flush()
			m := questionLineRe.FindStringSubmatch(line)
			current = &ParsedQuestion{Question: strings.TrimSpace(m[2])}
		case optionLineRe.MatchString(line):
			if current != nil {
				m := optionLineRe.FindStringSubmatch(line)
				current.Options = append(current.Options, strings.TrimSpace(m[2]))
			}
		case answerLineRe.MatchString(line):
			if current != nil {
				m := answerLineRe.FindStringSubmatch(line)
				current.CorrectAnswer = strings.TrimSpace(m[1])
			}
		}
	}
	flush()

	if len(data.Questions) == 0 {
		return LessonData{}, &RecoverableParseError{Reason: "no well-formed questions", Raw: text}
	}
	if len(data.Questions) > QuizSize {
		data.Questions = data.Questions[:QuizSize]
	}
	return data, nil
}

// ParseVideoQuestion decodes one JSON-encoded question record from model
// output, tolerating markdown code fences around the JSON.
func ParseVideoQuestion(text string) (VideoQuestion, error) {
	cleaned := StripCodeFences(text)

	var q VideoQuestion
	if err := json.Unmarshal([]byte(cleaned), &q); err != nil {
		return VideoQuestion{}, &RecoverableParseError{Reason: fmt.Sprintf("invalid JSON: %v", err), Raw: text}
	}
	if q.Question == "" {
		return VideoQuestion{}, &RecoverableParseError{Reason: "missing question field", Raw: text}
	}
	return q, nil
}

// StripCodeFences removes markdown ``` fences (with or without a json
// language tag) that models often wrap JSON output in.
func StripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// isMarker reports whether a trimmed line is a section marker like
// "Questions:", "**Questions:**" or bare "Questions".
func isMarker(line, word string) bool {
	line = strings.Trim(line, "* \t")
	line = strings.TrimSuffix(line, ":")
	return strings.EqualFold(line, word)
}
