package handlers

import (
	"errors"
	"net/http"

	"studybuddy/internal/llm"
	"studybuddy/internal/service"

	"github.com/gin-gonic/gin"
)

// User-facing messages for generation failures; no history entry exists
// when either of these is returned.
const (
	msgQuotaExceeded = "The AI service is temporarily unavailable due to usage limits. Please check back later."
	msgTransient     = "Sorry, we couldn't generate a response at this moment. Please try again later."
)

// Request DTOs for the four tools.
type explainRequest struct {
	Topic string `json:"topic" binding:"required"`
	Style string `json:"style"` // e.g. "Like I'm 10 years old"
}

type summarizeRequest struct {
	Notes  string `json:"notes" binding:"required"`
	Length string `json:"length"` // e.g. "A few key bullet points"
}

type quizRequest struct {
	Material  string `json:"material" binding:"required"`
	Questions int    `json:"questions"` // 3..10, default 5
}

type flashcardsRequest struct {
	Material string `json:"material" binding:"required"`
	Count    int    `json:"count"` // 3..15, default 5
}

// respondTool writes either the generated text or the mapped failure.
func (h *Handler) respondTool(c *gin.Context, logKey string, response string, err error) {
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"response": response})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, llm.ErrQuotaExceeded):
		if h.log != nil {
			h.log.Warnw(logKey, "err", err, "reason", "quota")
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": msgQuotaExceeded})
	default:
		if h.log != nil {
			h.log.Errorw(logKey, "err", err)
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": msgTransient})
	}
}

// @Summary      Explain a topic
// @Tags         tools
// @Accept       json
// @Produce      json
// @Param        body  body  explainRequest  true  "Topic and style"
// @Success      200   {object}  map[string]string  "response"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/tools/explain [post]
// @Security     BearerAuth
func (h *Handler) explain(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var req explainRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	resp, err := h.services.Explain(c.Request.Context(), username, service.ExplainParams{
		Topic: req.Topic,
		Style: req.Style,
	})
	h.respondTool(c, "tool_explain_failed", resp, err)
}

// @Summary      Summarize notes
// @Description  The raw notes are not persisted; history records only their length.
// @Tags         tools
// @Accept       json
// @Produce      json
// @Param        body  body  summarizeRequest  true  "Notes and summary length"
// @Success      200   {object}  map[string]string  "response"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/tools/summarize [post]
// @Security     BearerAuth
func (h *Handler) summarize(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var req summarizeRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	resp, err := h.services.Summarize(c.Request.Context(), username, service.SummarizeParams{
		Notes:  req.Notes,
		Length: req.Length,
	})
	h.respondTool(c, "tool_summarize_failed", resp, err)
}

// @Summary      Generate a quiz
// @Tags         tools
// @Accept       json
// @Produce      json
// @Param        body  body  quizRequest  true  "Topic/notes and question count (3-10)"
// @Success      200   {object}  map[string]string  "response"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/tools/quiz [post]
// @Security     BearerAuth
func (h *Handler) quiz(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var req quizRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	resp, err := h.services.Quiz(c.Request.Context(), username, service.QuizParams{
		Material:  req.Material,
		Questions: req.Questions,
	})
	h.respondTool(c, "tool_quiz_failed", resp, err)
}

// @Summary      Generate flashcards
// @Tags         tools
// @Accept       json
// @Produce      json
// @Param        body  body  flashcardsRequest  true  "Topic/notes and card count (3-15)"
// @Success      200   {object}  map[string]string  "response"
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /api/v1/tools/flashcards [post]
// @Security     BearerAuth
func (h *Handler) flashcards(c *gin.Context) {
	username, ok := currentUsername(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	var req flashcardsRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	resp, err := h.services.Flashcards(c.Request.Context(), username, service.FlashcardsParams{
		Material: req.Material,
		Count:    req.Count,
	})
	h.respondTool(c, "tool_flashcards_failed", resp, err)
}
