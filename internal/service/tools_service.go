package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"studybuddy/internal/llm"
	"studybuddy/internal/models"
	"studybuddy/internal/repository"
)

// ExplainParams selects a topic and an explanation style.
type ExplainParams struct {
	Topic string // e.g. "Photosynthesis"
	Style string // e.g. "Like I'm 10 years old"
}

// SummarizeParams carries pasted notes and the desired summary length.
type SummarizeParams struct {
	Notes  string
	Length string // e.g. "A few key bullet points"
}

// QuizParams carries a topic or pasted notes plus the question count.
type QuizParams struct {
	Material  string
	Questions int // 3..10, default 5
}

// FlashcardsParams carries a topic or pasted notes plus the card count.
type FlashcardsParams struct {
	Material string
	Count    int // 3..15, default 5
}

const (
	topicSummaryMax = 100

	minQuizQuestions = 3
	maxQuizQuestions = 10
	minFlashcards    = 3
	maxFlashcards    = 15
	defaultCount     = 5
)

// ErrInvalidInput marks user-correctable validation failures so the
// HTTP layer can answer 400 instead of treating them as generation
// faults.
var ErrInvalidInput = errors.New("invalid input")

var (
	errEmptyTopic    = fmt.Errorf("%w: topic is required", ErrInvalidInput)
	errEmptyNotes    = fmt.Errorf("%w: notes are required", ErrInvalidInput)
	errEmptyMaterial = fmt.Errorf("%w: topic or notes are required", ErrInvalidInput)
)

// Defaults mirroring the frontend's select boxes when a field is omitted.
const (
	defaultExplainStyle  = "In a simple paragraph"
	defaultSummaryLength = "A short paragraph"
)

type ToolsService struct {
	history repository.History
	gen     llm.Generator
}

func NewToolsService(history repository.History, gen llm.Generator) *ToolsService {
	return &ToolsService{history: history, gen: gen}
}

var _ Tools = (*ToolsService)(nil)

func (s *ToolsService) Explain(ctx context.Context, username string, p ExplainParams) (string, error) {
	if strings.TrimSpace(p.Topic) == "" {
		return "", errEmptyTopic
	}
	if p.Style == "" {
		p.Style = defaultExplainStyle
	}
	return s.invoke(ctx, username, models.KindExplanation,
		systemPromptExplainer,
		explainUserPrompt(p.Topic, p.Style),
		map[string]any{
			"topic": p.Topic,
			"style": p.Style,
		})
}

func (s *ToolsService) Summarize(ctx context.Context, username string, p SummarizeParams) (string, error) {
	if strings.TrimSpace(p.Notes) == "" {
		return "", errEmptyNotes
	}
	if p.Length == "" {
		p.Length = defaultSummaryLength
	}
	// The raw notes never reach storage: record only their length.
	return s.invoke(ctx, username, models.KindSummary,
		systemPromptSummarizer,
		summarizeUserPrompt(p.Notes, p.Length),
		map[string]any{
			"summary_style":   p.Length,
			"original_length": fmt.Sprintf("%d characters", len(p.Notes)),
		})
}

func (s *ToolsService) Quiz(ctx context.Context, username string, p QuizParams) (string, error) {
	if strings.TrimSpace(p.Material) == "" {
		return "", errEmptyMaterial
	}
	questions, err := boundedCount(p.Questions, minQuizQuestions, maxQuizQuestions)
	if err != nil {
		return "", fmt.Errorf("questions: %w", err)
	}
	return s.invoke(ctx, username, models.KindQuiz,
		systemPromptQuizzer,
		quizUserPrompt(p.Material, questions),
		map[string]any{
			"topic":     summarizeTopic(p.Material, topicSummaryMax),
			"questions": questions,
		})
}

func (s *ToolsService) Flashcards(ctx context.Context, username string, p FlashcardsParams) (string, error) {
	if strings.TrimSpace(p.Material) == "" {
		return "", errEmptyMaterial
	}
	count, err := boundedCount(p.Count, minFlashcards, maxFlashcards)
	if err != nil {
		return "", fmt.Errorf("count: %w", err)
	}
	return s.invoke(ctx, username, models.KindFlashcards,
		systemPromptFlashcard,
		flashcardsUserPrompt(p.Material, count),
		map[string]any{
			"topic": summarizeTopic(p.Material, topicSummaryMax),
			"count": count,
		})
}

// invoke runs one tool call end to end. The history append happens only
// after a successful generation, so a failed or quota-limited call
// leaves no partial record.
func (s *ToolsService) invoke(ctx context.Context, username, kind, systemPrompt, userPrompt string, input map[string]any) (string, error) {
	response, err := s.gen.Generate(ctx, systemPrompt, userPrompt)
	if err != nil {
		return "", err
	}

	if err := s.history.Append(ctx, models.InteractionRecord{
		Username: username,
		Kind:     kind,
		Input:    input,
		Response: response,
	}); err != nil {
		return "", fmt.Errorf("record %s interaction: %w", kind, err)
	}
	return response, nil
}

// boundedCount applies the default and rejects out-of-range values.
func boundedCount(n, min, max int) (int, error) {
	if n == 0 {
		return defaultCount, nil
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%w: must be between %d and %d", ErrInvalidInput, min, max)
	}
	return n, nil
}
