package prompt

import (
	"fmt"
	"strings"
)

// maxCVChars keeps the prompt well inside the context window.
const maxCVChars = 12000

// SummarySystemPrompt gives the model its role and output rules.
func SummarySystemPrompt() string {
	return `You are an experienced technical recruiter who rewrites CV profile summaries.

Requirements:
- Reply with the rewritten summary only: plain text, no markdown, no headings, no quotes.
- Three or four sentences, written in the third person without naming the candidate.
- Only mention skills and experience that appear in the CV. Never invent employers, degrees, or numbers.
- Aim the summary at the target role.`
}

// SummaryUserPrompt wraps the CV text with the detected skills and target role.
func SummaryUserPrompt(cvText string, skills []string, role string) string {
	cvText = strings.TrimSpace(cvText)
	if r := []rune(cvText); len(r) > maxCVChars {
		cvText = string(r[:maxCVChars])
	}
	skillLine := "none detected"
	if len(skills) > 0 {
		skillLine = strings.Join(skills, ", ")
	}
	return fmt.Sprintf("Target role: %s\nDetected skills: %s\n\nCV:\n%s", role, skillLine, cvText)
}
