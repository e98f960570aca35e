package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/local/instructai/api/config"
	"github.com/local/instructai/api/services"
	"github.com/local/instructai/api/store"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type Handler struct {
	cfg      *config.Config
	tutor    *services.TutorService
	video    *services.VideoService
	profiles *services.ProfileService
	videos   services.VideoProvider
}

func New(db *gorm.DB, cfg *config.Config) *Handler {
	var provider services.CompletionProvider
	if cfg.ModelProvider == "openai" {
		provider = services.NewCompletionProvider("openai", cfg.OpenAIAPIKey, cfg.OpenAIModel)
	} else {
		provider = services.NewCompletionProvider("gemini", cfg.GeminiAPIKey, cfg.GeminiModel)
	}

	st := store.New(db)
	profiles := services.NewProfileService(st, provider)

	return &Handler{
		cfg:      cfg,
		tutor:    services.NewTutorService(st, provider, profiles),
		video:    services.NewVideoService(provider, profiles),
		profiles: profiles,
		videos:   services.NewYouTubeClient(cfg.YouTubeAPIKey, cfg.TranscriptLang),
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"model_provider": h.cfg.ModelProvider,
	})
}

// GetSyllabus handles GET /api/v1/generateLessons?topic=. It returns 201
// when this request generated the syllabus and 200 when the topic already
// existed (idempotent cache hit).
func (h *Handler) GetSyllabus(c *gin.Context) {
	topic := strings.TrimSpace(c.Query("topic"))
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing topic parameter"})
		return
	}

	syllabus, err := h.tutor.GetSyllabus(c.Request.Context(), topic)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to generate syllabus")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate syllabus"})
		return
	}

	status := http.StatusOK
	if syllabus.Created {
		status = http.StatusCreated
	}
	c.JSON(status, syllabus)
}

// GenerateLesson handles GET /api/v1/genExplanation?lesson_id=. Already
// generated lessons are served from the store unchanged.
func (h *Handler) GenerateLesson(c *gin.Context) {
	lessonID := strings.TrimSpace(c.Query("lesson_id"))
	if lessonID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing lesson_id parameter"})
		return
	}

	content, err := h.tutor.GenerateLessonContent(c.Request.Context(), lessonID)
	if errors.Is(err, services.ErrLessonNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Lesson not found"})
		return
	}
	if err != nil {
		log.Error().Err(err).Str("lesson_id", lessonID).Msg("Failed to generate lesson")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate lesson"})
		return
	}

	type QuestionResponse struct {
		ID            string   `json:"id"`
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correct_answer"`
	}

	questions := make([]QuestionResponse, 0, len(content.Questions))
	for _, q := range content.Questions {
		var options []string
		json.Unmarshal([]byte(q.Options), &options)
		questions = append(questions, QuestionResponse{
			ID:            q.ID,
			Question:      q.Question,
			Options:       options,
			CorrectAnswer: q.CorrectAnswer,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"lesson_id":   content.Lesson.ID,
		"name":        content.Lesson.Name,
		"explanation": content.Lesson.Explanation,
		"questions":   questions,
	})
}

// SearchVideos handles GET /api/v1/youtube?topic=.
func (h *Handler) SearchVideos(c *gin.Context) {
	topic := c.DefaultQuery("topic", "machine learning")

	videos, err := h.videos.Search(c.Request.Context(), topic)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to search videos")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to search videos"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"videos": videos})
}

// GetVideoQuestions handles GET /api/v1/video/question?video_id=. It
// fetches the transcript and returns one timed question per segment;
// segments whose generation failed come back flagged, never dropped.
func (h *Handler) GetVideoQuestions(c *gin.Context) {
	videoID := strings.TrimSpace(c.Query("video_id"))
	if videoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing video_id parameter"})
		return
	}

	fragments, err := h.videos.GetTranscript(c.Request.Context(), videoID)
	if err != nil {
		var unavailable *services.TranscriptUnavailableError
		if errors.As(err, &unavailable) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Transcript unavailable for this video"})
			return
		}
		log.Error().Err(err).Str("video_id", videoID).Msg("Failed to fetch transcript")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transcript"})
		return
	}

	questions := h.video.TeachWithVideo(c.Request.Context(), fragments)
	c.JSON(http.StatusOK, gin.H{
		"video_id":  videoID,
		"questions": questions,
	})
}

type AssessRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Response string `json:"response" binding:"required"`
}

// AssessLevel handles POST /api/v1/assess.
func (h *Handler) AssessLevel(c *gin.Context) {
	var req AssessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assessment, err := h.profiles.AssessLevel(c.Request.Context(), req.Topic, req.Response)
	if err != nil {
		log.Error().Err(err).Str("topic", req.Topic).Msg("Failed to assess level")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assess level"})
		return
	}

	c.JSON(http.StatusOK, assessment)
}

// EvaluateAnswer handles POST /api/v1/evaluate. The service falls back to
// a canned review suggestion on upstream failure, so this never 500s for
// generation problems.
func (h *Handler) EvaluateAnswer(c *gin.Context) {
	var req services.EvaluationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	evaluation := h.profiles.EvaluateAnswer(c.Request.Context(), req)
	c.JSON(http.StatusOK, evaluation)
}

type ChatRequest struct {
	Question string `json:"question" binding:"required"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

// Chat handles POST /api/v1/chat.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.tutor.Chat(c.Request.Context(), req.Question)
	if err != nil {
		log.Error().Err(err).Msg("Failed to generate chat answer")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate answer"})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Answer: answer})
}

// GetProfile handles GET /api/v1/profile.
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.profiles.Get(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to load profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateProfile handles PUT /api/v1/profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req services.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	profile, err := h.profiles.Update(c.Request.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to update profile")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, profile)
}
