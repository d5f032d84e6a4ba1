package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummaryUserPrompt(t *testing.T) {
	p := SummaryUserPrompt("  my cv  ", nil, "DevOps Intern")
	assert.Equal(t, "Target role: DevOps Intern\nDetected skills: none detected\n\nCV:\nmy cv", p)

	long := SummaryUserPrompt(strings.Repeat("é", maxCVChars+50), []string{"Git"}, "x")
	assert.Equal(t, maxCVChars, strings.Count(long, "é"))
}
