// Package dashboard builds the results view shown after an analysis.
package dashboard

import (
	"context"

	"github.com/bryanwahyu/cv-analyzer/internal/application/upload"
	"github.com/bryanwahyu/cv-analyzer/internal/domain/analysis"
)

type State int

const (
	NoResult State = iota
	HasResult
)

func (s State) String() string {
	if s == HasResult {
		return "has_result"
	}
	return "no_result"
}

// Tone is the visual emphasis of a value.
type Tone string

const (
	ToneSuccess     Tone = "success"
	TonePrimary     Tone = "primary"
	ToneWarning     Tone = "warning"
	ToneDestructive Tone = "destructive"
)

// SourceCache marks a view restored from the device cache.
const SourceCache = "cache"

type ScoreCard struct {
	Score int
	Label string
	Tone  Tone
}

type RoleMatch struct {
	Title string
	Match int
	Tone  Tone
}

// View is everything the dashboard renders.
type View struct {
	State     State
	Source    string
	Result    *analysis.Result
	Score     ScoreCard
	Radar     []analysis.CategoryScore
	Skills    []string
	Strengths []string
	Gaps      []string
	Roles     []RoleMatch
	Summary   string
}

// Empty reports whether there is nothing to show yet.
func (v View) Empty() bool { return v.State == NoResult }

// Hydrate picks the result to show: navigation state first, then the cache.
func Hydrate(ctx context.Context, nav *upload.Navigation, store analysis.ResultStore) View {
	if nav != nil && nav.Analysis != nil {
		return Build(nav.Analysis, nav.Source)
	}
	if store != nil {
		if res, ok := store.Load(ctx); ok {
			return Build(res, SourceCache)
		}
	}
	return View{State: NoResult}
}

// Build derives every dashboard section from r. Missing fields get neutral defaults.
func Build(r *analysis.Result, source string) View {
	if r == nil {
		return View{State: NoResult}
	}
	score := r.Score()
	label, tone := ScoreBucket(score)
	roles := r.RoleList()
	matches := make([]RoleMatch, 0, len(roles))
	for i, title := range roles {
		m := MatchPercent(i)
		matches = append(matches, RoleMatch{Title: title, Match: m, Tone: MatchTone(m)})
	}
	skills := r.SkillList()
	return View{
		State:     HasResult,
		Source:    source,
		Result:    r,
		Score:     ScoreCard{Score: score, Label: label, Tone: tone},
		Radar:     analysis.Radar(skills),
		Skills:    skills,
		Strengths: r.StrengthList(),
		Gaps:      r.GapList(),
		Roles:     matches,
		Summary:   r.Summary(),
	}
}

// ScoreBucket maps an ATS score to its label and tone.
func ScoreBucket(score int) (string, Tone) {
	switch {
	case score >= 80:
		return "Excellent", ToneSuccess
	case score >= 60:
		return "Good", TonePrimary
	case score >= 40:
		return "Fair", ToneWarning
	default:
		return "Needs Work", ToneDestructive
	}
}

// MatchPercent is the synthetic match for the role at index i: 90, 85, 80... floored at 50.
func MatchPercent(i int) int {
	return max(90-5*i, 50)
}

func MatchTone(match int) Tone {
	switch {
	case match >= 80:
		return ToneSuccess
	case match >= 60:
		return TonePrimary
	default:
		return ToneWarning
	}
}
