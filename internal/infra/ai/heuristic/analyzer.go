// Package heuristic scores a CV offline with keyword matching.
package heuristic

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
)

// SkillKeywords in reporting order.
var SkillKeywords = []string{
	"Python", "Java", "Spring", "SQL", "MySQL", "PostgreSQL", "Docker", "Git", "Linux",
	"Pandas", "NumPy", "Scikit-learn", "TensorFlow", "PyTorch", "FastAPI", "Angular",
	"React", "TypeScript", "REST", "JWT", "AWS", "Azure",
}

var sectionTokens = []string{"experience", "education", "project", "projects", "skills", "summary"}

// commonSkills are suggested as gaps when missing.
var commonSkills = []string{"Python", "SQL", "Docker", "Git", "AWS", "React"}

// DefaultRole is recommended when no signature overlaps.
const DefaultRole = "Data Analyst"

var roleSignatures = map[string][]string{
	"Data Analyst":         {"SQL", "MySQL", "PostgreSQL", "Python", "Pandas", "NumPy"},
	"Junior ML Engineer":   {"Python", "Pandas", "NumPy", "Scikit-learn", "TensorFlow", "PyTorch"},
	"Backend Developer":    {"Python", "FastAPI", "Java", "Spring", "REST", "JWT", "SQL"},
	"Full-Stack Developer": {"React", "Angular", "TypeScript", "REST", "FastAPI", "Docker"},
	"DevOps Intern":        {"Docker", "Linux", "Git", "AWS", "Azure"},
}

// Analyzer implements analysis.Analyzer without any network dependency.
type Analyzer struct{}

var _ analysis.Analyzer = Analyzer{}

func (Analyzer) Analyze(ctx context.Context, text string) (*analysis.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	skills := FindSkills(text)
	strengths, gaps := strengthsAndGaps(skills)
	roles := RecommendRoles(skills)
	return &analysis.Result{
		ATSScore:         analysis.Int(ATSScore(text, skills)),
		Skills:           skills,
		Strengths:        strengths,
		Gaps:             gaps,
		RecommendedRoles: roles,
		SummaryRewrite:   analysis.String(Summary(text, skills, roles[0])),
	}, nil
}

func (Analyzer) RewriteSummary(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	skills := FindSkills(text)
	return Summary(text, skills, RecommendRoles(skills)[0]), nil
}

// FindSkills returns every keyword that appears anywhere in text, case-insensitively.
func FindSkills(text string) []string {
	lowered := strings.ToLower(text)
	out := []string{}
	for _, kw := range SkillKeywords {
		if strings.Contains(lowered, strings.ToLower(kw)) {
			out = append(out, kw)
		}
	}
	return out
}

// ATSScore = skills (max 30) + sections (max 40) + length (max 30).
func ATSScore(text string, skills []string) int {
	lowered := strings.ToLower(text)
	hits := 0
	for _, tok := range sectionTokens {
		if strings.Contains(lowered, tok) {
			hits++
		}
	}
	total := min(len(skills)*3, 30) + min(hits*10, 40) + min(utf8.RuneCountInString(text)/200, 30)
	return max(0, min(100, total))
}

func strengthsAndGaps(skills []string) ([]string, []string) {
	strengths := make([]string, 0, len(skills))
	for _, s := range skills {
		strengths = append(strengths, "Strong with "+s)
	}
	if len(strengths) == 0 {
		strengths = []string{"Add more concrete skills"}
	}
	gaps := []string{}
	for _, s := range commonSkills {
		if !slices.Contains(skills, s) {
			gaps = append(gaps, "Consider adding "+s)
		}
	}
	return strengths, gaps
}

// RecommendRoles returns every role tied for the best overlap, ordered by name descending.
func RecommendRoles(skills []string) []string {
	type scored struct {
		overlap int
		role    string
	}
	ranked := make([]scored, 0, len(roleSignatures))
	for role, sig := range roleSignatures {
		n := 0
		for _, s := range sig {
			if slices.Contains(skills, s) {
				n++
			}
		}
		ranked = append(ranked, scored{n, role})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].overlap != ranked[j].overlap {
			return ranked[i].overlap > ranked[j].overlap
		}
		return ranked[i].role > ranked[j].role
	})

	best := ranked[0].overlap
	if best == 0 {
		return []string{DefaultRole}
	}
	out := []string{}
	for _, r := range ranked {
		if r.overlap == best {
			out = append(out, r.role)
		}
	}
	return out
}

// Summary builds the templated profile summary for role.
func Summary(text string, skills []string, role string) string {
	phrase := "foundational skills"
	if len(skills) > 0 {
		phrase = strings.Join(skills[:min(len(skills), 6)], ", ")
	}
	lines := []string{
		fmt.Sprintf("Motivated candidate targeting %s roles with hands-on exposure to %s.", role, phrase),
		"Focuses on building reliable solutions, documenting work, and collaborating with cross-functional teams.",
		"Eager to learn quickly, refine delivery, and contribute to projects end-to-end.",
	}
	if utf8.RuneCountInString(text) < 400 {
		lines = append(lines, "Currently strengthening portfolio with tangible projects to showcase impact.")
	}
	return strings.Join(lines, " ")
}
