package analysis

import (
	"math"
	"strings"
)

// Category of the skills radar
type Category string

const (
	CategoryBackend  Category = "Backend"
	CategoryFrontend Category = "Frontend"
	CategoryData     Category = "Data"
	CategoryCloud    Category = "Cloud/DevOps"
	CategoryAPIs     Category = "APIs"
)

// RadarFloor keeps every axis visibly drawn even with zero matches. It is cosmetic.
const RadarFloor = 20

// CategoryScore is one radar axis.
type CategoryScore struct {
	Category Category `json:"category"`
	Score    int      `json:"score"`
}

type radarAxis struct {
	category Category
	keywords []string
}

// keywords may appear under more than one axis; each axis is scored on its own.
var radarAxes = []radarAxis{
	{CategoryBackend, []string{"Python", "Java", "Spring", "FastAPI", "Node.js", "Go"}},
	{CategoryFrontend, []string{"React", "Angular", "TypeScript", "JavaScript", "HTML", "CSS"}},
	{CategoryData, []string{"SQL", "MySQL", "PostgreSQL", "Pandas", "NumPy", "Scikit-learn", "TensorFlow", "PyTorch"}},
	{CategoryCloud, []string{"AWS", "Azure", "Docker", "Kubernetes", "Linux", "Git"}},
	{CategoryAPIs, []string{"REST", "REST APIs", "JWT", "GraphQL", "FastAPI"}},
}

// RadarKeywords returns the keyword set of a category.
func RadarKeywords(c Category) []string {
	for _, axis := range radarAxes {
		if axis.category == c {
			return copyList(axis.keywords)
		}
	}
	return nil
}

// Radar buckets a flat skills list into the five fixed category scores.
// score = round(100 * matched / total), clamped to [RadarFloor, 100].
func Radar(skills []string) []CategoryScore {
	have := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		have[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	out := make([]CategoryScore, 0, len(radarAxes))
	for _, axis := range radarAxes {
		matched := 0
		for _, kw := range axis.keywords {
			if _, ok := have[strings.ToLower(kw)]; ok {
				matched++
			}
		}
		score := int(math.Round(100 * float64(matched) / float64(len(axis.keywords))))
		out = append(out, CategoryScore{
			Category: axis.category,
			Score:    clamp(score, RadarFloor, 100),
		})
	}
	return out
}
