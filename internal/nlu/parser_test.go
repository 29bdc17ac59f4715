package nlu_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hrbot/internal/nlu"
)

func TestDetectIntent_TableMatches(t *testing.T) {
	tests := []struct {
		name    string
		message string
		intent  nlu.Intent
	}{
		{"balance phrase", "What is my leave balance?", nlu.IntentLeaveBalance},
		{"remaining phrase", "remaining leaves", nlu.IntentLeaveBalance},
		{"how many phrase", "how many leaves do I have?", nlu.IntentLeaveBalance},
		{"apply phrase", "I want to apply leave", nlu.IntentLeaveApply},
		{"take phrase", "can I take leave tomorrow", nlu.IntentLeaveApply},
		{"history phrase", "show my recent leaves", nlu.IntentLeaveHistory},
		{"manager phrase", "who is my manager?", nlu.IntentManagerInfo},
		{"boss phrase", "tell me about my boss", nlu.IntentManagerInfo},
		{"search phrase", "find employee Jane", nlu.IntentEmployeeSearch},
		{"department phrase", "who works in finance", nlu.IntentEmployeeSearch},
		{"profile phrase", "show my profile", nlu.IntentMyInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, score := nlu.DetectIntent(tt.message)
			assert.Equal(t, tt.intent, intent)
			assert.Equal(t, 1.0, score)
		})
	}
}

func TestDetectIntent_TableBeatsFallback(t *testing.T) {
	// "want" is an apply-verb, but the table pattern must win with full score.
	intent, score := nlu.DetectIntent("I want to apply leave")
	assert.Equal(t, nlu.IntentLeaveApply, intent)
	assert.Equal(t, 1.0, score)
}

func TestDetectIntent_Fallbacks(t *testing.T) {
	tests := []struct {
		name    string
		message string
		intent  nlu.Intent
		score   float64
	}{
		{"leave with apply verb", "I would want some leave soon", nlu.IntentLeaveApply, 0.7},
		{"bare leave mention", "something about leave unrelated", nlu.IntentLeaveBalance, 0.6},
		{"bare manager mention", "the manager structure here", nlu.IntentManagerInfo, 0.8},
		{"no match", "random unrelated text", nlu.IntentNone, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			intent, score := nlu.DetectIntent(tt.message)
			assert.Equal(t, tt.intent, intent)
			assert.Equal(t, tt.score, score)
		})
	}
}

func TestDetectIntent_Deterministic(t *testing.T) {
	for _, msg := range []string{"leave balance", "who is my manager", "xyzzy"} {
		i1, s1 := nlu.DetectIntent(msg)
		i2, s2 := nlu.DetectIntent(msg)
		assert.Equal(t, i1, i2)
		assert.Equal(t, s1, s2)
	}
}

func TestExtractEntities(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    map[string]string
	}{
		{
			"leave type and department",
			"sick leave for the IT department",
			map[string]string{nlu.EntityLeaveType: "Sick Leave", nlu.EntityDepartment: "It"},
		},
		{
			"department only",
			"Find employees in Marketing",
			map[string]string{nlu.EntityDepartment: "Marketing"},
		},
		{
			"earned maps to privilege leave",
			"how much earned leave do I have",
			map[string]string{nlu.EntityLeaveType: "Privilege Leave"},
		},
		{
			"nothing recognized",
			"hello there",
			map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, nlu.ExtractEntities(tt.message))
		})
	}
}
