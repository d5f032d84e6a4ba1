package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ResultID identifier type. The service may send it as a JSON string or number.
type ResultID string

func (id *ResultID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ResultID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ResultID(n.String())
	return nil
}

// naive timestamps (no zone) are what a Python datetime.utcnow() serializes to
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// Timestamp is a created_at value that tolerates zone-less ISO-8601 input (read as UTC).
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) *Timestamp {
	return &Timestamp{Time: t.UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.UTC().Format(time.RFC3339Nano))
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("created_at must be a string: %w", err)
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("created_at: unrecognized time %q", s)
}

// Result is the structured output of the analysis service.
//
// Every field is optional: a nil pointer or nil slice means the service did not
// send it. Read through the accessors, which fill the neutral defaults and hand
// out copies so a received Result is never mutated.
type Result struct {
	ID               *ResultID  `json:"id,omitempty"`
	CreatedAt        *Timestamp `json:"created_at,omitempty"`
	ATSScore         *int       `json:"ats_score"`
	Skills           []string   `json:"skills"`
	Strengths        []string   `json:"strengths"`
	Gaps             []string   `json:"gaps"`
	RecommendedRoles []string   `json:"recommended_roles"`
	SummaryRewrite   *string    `json:"summary_rewrite"`
}

// Score returns the ATS score clamped to 0..100, or 0 when absent.
func (r *Result) Score() int {
	if r == nil || r.ATSScore == nil {
		return 0
	}
	return clamp(*r.ATSScore, 0, 100)
}

func (r *Result) SkillList() []string {
	if r == nil {
		return []string{}
	}
	return copyList(r.Skills)
}

func (r *Result) StrengthList() []string {
	if r == nil {
		return []string{}
	}
	return copyList(r.Strengths)
}

func (r *Result) GapList() []string {
	if r == nil {
		return []string{}
	}
	return copyList(r.Gaps)
}

func (r *Result) RoleList() []string {
	if r == nil {
		return []string{}
	}
	return copyList(r.RecommendedRoles)
}

func (r *Result) Summary() string {
	if r == nil || r.SummaryRewrite == nil {
		return ""
	}
	return *r.SummaryRewrite
}

func (r *Result) Identifier() string {
	if r == nil || r.ID == nil {
		return ""
	}
	return string(*r.ID)
}

// Record is a persisted analysis row on the service side.
type Record struct {
	Result      Result
	Text        string
	DocumentKey string // object key of the archived text, empty when archiving is off
}

// Int and String are helpers for building Results by hand.
func Int(v int) *int          { return &v }
func String(v string) *string { return &v }

func IDFrom(v string) *ResultID {
	id := ResultID(v)
	return &id
}

func copyList(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
