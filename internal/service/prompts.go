package service

import (
	"fmt"
	"unicode/utf8"
)

// System prompts for the four tools. Responses are rendered as Markdown
// by the frontend, so every template asks for Markdown output.
const (
	systemPromptExplainer = "You are an expert educator and study assistant. Your goal is to explain " +
		"complex topics to students in a clear, simple, and engaging way. Use analogies and simple " +
		"language. Format your response using Markdown."

	systemPromptSummarizer = "You are an expert summarizer. Your goal is to condense study notes or " +
		"long texts into key points for students. You must be concise and accurate. Format your " +
		"response using Markdown."

	systemPromptQuizzer = "You are an expert quiz master. Your goal is to create quizzes for students " +
		"based on a topic or their notes. Create multiple-choice questions with a clear answer key at " +
		"the end. Format your response using Markdown."

	systemPromptFlashcard = "You are an expert flashcard creator. Your goal is to generate flashcards " +
		"from a given topic or notes. Each flashcard should have a 'Term' and a 'Definition'. Format " +
		"the output clearly using Markdown, with each flashcard separated by a horizontal rule (---)."
)

func explainUserPrompt(topic, style string) string {
	return fmt.Sprintf("Explain the topic: '%s' in the style of '%s'.", topic, style)
}

func summarizeUserPrompt(notes, length string) string {
	return fmt.Sprintf("Summarize the following text into '%s':\n\n%s", length, notes)
}

func quizUserPrompt(material string, questions int) string {
	return fmt.Sprintf("Generate a quiz with %d multiple-choice questions based on the following "+
		"information:\n\n%s\n\nProvide an answer key at the very end, clearly separated from the "+
		"questions.", questions, material)
}

func flashcardsUserPrompt(material string, count int) string {
	return fmt.Sprintf("Generate %d flashcards from the following information. For each flashcard, "+
		"provide a 'Term' and a 'Definition'.\n\nInformation:\n%s", count, material)
}

// summarizeTopic bounds what goes into a history record: long pasted
// material is stored truncated, never verbatim. The cut lands on a rune
// boundary so multi-byte text is never mangled.
func summarizeTopic(material string, max int) string {
	if len(material) <= max {
		return material
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(material[cut]) {
		cut--
	}
	return material[:cut] + "..."
}
