package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult_DefaultsWhenAbsent(t *testing.T) {
	var r Result
	assert.Equal(t, 0, r.Score())
	assert.Equal(t, []string{}, r.SkillList())
	assert.Equal(t, []string{}, r.StrengthList())
	assert.Equal(t, []string{}, r.GapList())
	assert.Equal(t, []string{}, r.RoleList())
	assert.Equal(t, "", r.Summary())
	assert.Equal(t, "", r.Identifier())

	var nilResult *Result
	assert.Equal(t, 0, nilResult.Score())
	assert.Empty(t, nilResult.SkillList())
}

func TestResult_ScoreClamped(t *testing.T) {
	assert.Equal(t, 100, (&Result{ATSScore: Int(140)}).Score())
	assert.Equal(t, 0, (&Result{ATSScore: Int(-3)}).Score())
	assert.Equal(t, 78, (&Result{ATSScore: Int(78)}).Score())
}

func TestResult_AccessorsReturnCopies(t *testing.T) {
	r := &Result{Skills: []string{"Go"}}
	skills := r.SkillList()
	skills[0] = "Rust"
	assert.Equal(t, []string{"Go"}, r.Skills)
}

func TestResult_DecodeWireShape(t *testing.T) {
	body := `{"id": 7, "created_at": "2024-05-01T10:11:12.123456", "ats_score": 78,
		"skills": ["React"], "strengths": [], "gaps": ["Consider adding Python"],
		"recommended_roles": ["Senior Frontend Developer"], "summary_rewrite": "Motivated."}`

	var r Result
	require.NoError(t, json.Unmarshal([]byte(body), &r))
	assert.Equal(t, "7", r.Identifier())
	require.NotNil(t, r.CreatedAt)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 11, 12, 123456000, time.UTC), r.CreatedAt.Time)
	assert.Equal(t, 78, r.Score())
	assert.Equal(t, []string{}, r.Strengths)
	assert.Equal(t, "Motivated.", r.Summary())
}

func TestResult_DecodeMissingFields(t *testing.T) {
	var r Result
	require.NoError(t, json.Unmarshal([]byte(`{}`), &r))
	assert.Nil(t, r.ATSScore)
	assert.Nil(t, r.Skills)
	assert.Nil(t, r.SummaryRewrite)
}

func TestTimestamp_RejectsGarbage(t *testing.T) {
	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
	assert.Error(t, json.Unmarshal([]byte(`12`), &ts))
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &ValidationError{Message: MsgUnreadableText}, MsgUnreadableText},
		{"server with body", &ServerError{StatusCode: 500, Message: "Internal error"}, "Internal error"},
		{"server without body", &ServerError{StatusCode: 502}, MsgAnalysisFailed},
		{"wrapped server", fmt.Errorf("upload: %w", &ServerError{StatusCode: 400, Message: "bad"}), "bad"},
		{"transport", &TransportError{Cause: assert.AnError}, MsgUnreachable},
		{"malformed", &MalformedResponseError{Cause: assert.AnError}, MsgMalformed},
		{"other", assert.AnError, assert.AnError.Error()},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestIsAborted(t *testing.T) {
	assert.True(t, IsAborted(&TransportError{Cause: context.Canceled}))
	assert.False(t, IsAborted(&TransportError{Cause: assert.AnError}))
}
