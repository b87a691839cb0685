package quizgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are an expert author of national high-school graduation exams and gifted-student competition papers. You know the current exam structure set by the Ministry of Education in depth.`

// buildUserMessage constructs the single user message for topic and level.
func buildUserMessage(topic string, level Level, cfg Config) string {
	var b strings.Builder

	count := level.QuestionCount()
	switch level {
	case LevelEasy:
		fmt.Fprintf(&b, "Create exactly %d multiple-choice questions with %d options each (recognition level, basic) on the topic: %s.\n",
			count, OptionCount, topic)
		b.WriteString("Each question has exactly one correct option. The answer field must repeat the correct option's text exactly.\n")
	case LevelChallenge:
		fmt.Fprintf(&b, "Create exactly %d true/false questions on the topic: %s.\n", count, topic)
		fmt.Fprintf(&b, "Each question must have exactly %d statements (a, b, c, d). Statements a and b are at comprehension level; statements c and d are at application level.\n",
			SubItemCount)
	case LevelFinal:
		fmt.Fprintf(&b, "Create exactly %d short-answer questions (high application level: real-world problems, specialist or entrance-exam thinking) on the topic: %s.\n",
			count, topic)
		b.WriteString("The answer must be short: a number or a keyword.\n")
	}

	b.WriteString("\nRules:\n")
	b.WriteString("- Use LaTeX between $ signs for every math, physics and chemistry formula.\n")
	b.WriteString("- Return pure JSON only. No commentary outside the JSON.\n")
	if cfg.Curriculum != "" {
		fmt.Fprintf(&b, "- Content must follow %s.\n", cfg.Curriculum)
	}
	if cfg.Language != "" {
		fmt.Fprintf(&b, "- Write all question text, options and explanations in %s.\n", cfg.Language)
	}
	fmt.Fprintf(&b, "- Give each question a distinct id (q1 to q%d).\n", count)

	return b.String()
}
