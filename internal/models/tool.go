package models

// Tool kinds as stored in history records.
const (
	KindExplanation = "Explanation"
	KindSummary     = "Summary"
	KindQuiz        = "Quiz"
	KindFlashcards  = "Flashcards"
)

// ValidKind reports whether k is one of the four tool kinds.
func ValidKind(k string) bool {
	switch k {
	case KindExplanation, KindSummary, KindQuiz, KindFlashcards:
		return true
	}
	return false
}
