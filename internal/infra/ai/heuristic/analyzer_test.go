package heuristic

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindSkills(t *testing.T) {
	assert.Equal(t, []string{"Python", "SQL", "MySQL", "Docker"},
		FindSkills("I use docker and python with mysql every day"))
	assert.Empty(t, FindSkills("gardening and cooking"))
	// substring semantics: "Javascript" contains "Java"
	assert.Equal(t, []string{"Java"}, FindSkills("Javascript"))
}

func TestATSScore(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		skills int
		want   int
	}{
		{"nothing", "hello", 0, 0},
		{"skills capped", "x", 15, 30},
		{"sections capped", "Experience Education Projects Skills Summary", 0, 40},
		{"two sections", "experience and education", 0, 20},
		{"length", strings.Repeat("a", 2000), 0, 10},
		{"length capped", strings.Repeat("a", 20000), 0, 30},
		{"all capped", "experience education projects skills summary" + strings.Repeat("a", 20000), 12, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skills := make([]string, tt.skills)
			assert.Equal(t, tt.want, ATSScore(tt.text, skills))
		})
	}
}

func TestRecommendRoles(t *testing.T) {
	assert.Equal(t, []string{DefaultRole}, RecommendRoles(nil))
	assert.Equal(t, []string{"DevOps Intern"}, RecommendRoles([]string{"Docker", "Linux", "Git"}))
	// Python alone ties three roles, ordered by name descending
	assert.Equal(t, []string{"Junior ML Engineer", "Data Analyst", "Backend Developer"},
		RecommendRoles([]string{"Python"}))
}

func TestSummary(t *testing.T) {
	short := Summary("short", nil, "Data Analyst")
	assert.True(t, strings.HasPrefix(short,
		"Motivated candidate targeting Data Analyst roles with hands-on exposure to foundational skills."))
	assert.True(t, strings.HasSuffix(short, "Currently strengthening portfolio with tangible projects to showcase impact."))

	long := Summary(strings.Repeat("x", 400), []string{"A", "B", "C", "D", "E", "F", "G"}, "Backend Developer")
	assert.Contains(t, long, "exposure to A, B, C, D, E, F.")
	assert.NotContains(t, long, "Currently strengthening")
}

func TestAnalyzer_Analyze(t *testing.T) {
	text := "Summary\nExperience: built REST services in Python with FastAPI and JWT.\nEducation: BSc\nSkills: SQL, Docker, Git"
	res, err := Analyzer{}.Analyze(context.Background(), text)
	require.NoError(t, err)

	assert.Equal(t, []string{"Python", "SQL", "Docker", "Git", "FastAPI", "REST", "JWT"}, res.SkillList())
	// 7*3=21, sections: summary experience education skills = 40, length 0
	assert.Equal(t, 61, res.Score())
	assert.Equal(t, []string{"Backend Developer"}, res.RoleList())
	assert.Equal(t, []string{"Consider adding AWS", "Consider adding React"}, res.GapList())
	assert.Contains(t, res.StrengthList(), "Strong with FastAPI")
	assert.Contains(t, res.Summary(), "targeting Backend Developer roles")

	rewritten, err := Analyzer{}.RewriteSummary(context.Background(), text)
	require.NoError(t, err)
	assert.Equal(t, res.Summary(), rewritten)
}

func TestAnalyzer_NoSkills(t *testing.T) {
	res, err := Analyzer{}.Analyze(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, []string{"Add more concrete skills"}, res.StrengthList())
	assert.Len(t, res.GapList(), 6)
	assert.Equal(t, []string{DefaultRole}, res.RoleList())
}

func TestAnalyzer_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Analyzer{}.Analyze(ctx, "Python")
	assert.ErrorIs(t, err, context.Canceled)
}
