// Package nlu implements the rule-based intent parser behind the chatbot.
// It is pure: the same message always yields the same intent, confidence
// and entities, with no external state.
package nlu

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Intent is a coarse classification of what the user is asking for.
type Intent string

const (
	IntentLeaveBalance   Intent = "leave_balance"
	IntentLeaveApply     Intent = "leave_apply"
	IntentLeaveHistory   Intent = "leave_history"
	IntentManagerInfo    Intent = "manager_info"
	IntentEmployeeSearch Intent = "employee_search"
	IntentMyInfo         Intent = "my_info"
	IntentNone           Intent = ""
)

// Entity keys produced by ExtractEntities.
const (
	EntityLeaveType  = "leave_type"
	EntityDepartment = "department"
)

type intentRule struct {
	intent   Intent
	patterns []*regexp.Regexp
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// intentTable is scanned in order and the first matching rule wins. The
// order is the tie-break when patterns overlap (e.g. "find" under
// employee_search would otherwise swallow "find my leave balance"), so it
// must stay a slice, not a map.
var intentTable = []intentRule{
	{IntentLeaveBalance, compile(
		`leave balance`, `remaining leaves`, `how many leaves`,
		`leave quota`, `my leaves`, `check leave`, `leave status`,
	)},
	{IntentLeaveApply, compile(
		`apply leave`, `request leave`, `take leave`,
		`book leave`, `want leave`, `need leave`,
	)},
	{IntentLeaveHistory, compile(
		`leave history`, `past leaves`, `recent leaves`,
		`previous leaves`, `history of leave`,
	)},
	{IntentManagerInfo, compile(
		`who is my manager`, `reporting manager`, `my boss`,
		`who do i report to`, `manager details`,
	)},
	{IntentEmployeeSearch, compile(
		`find employee`, `search employee`, `who works in`,
		`employee in`, `search for`, `find`,
	)},
	{IntentMyInfo, compile(
		`my profile`, `my info`, `my details`,
		`about me`, `employee id`,
	)},
}

var applyVerbs = []string{"apply", "take", "request", "want"}

// DetectIntent classifies a message. Table matches return confidence 1.0;
// the keyword fallbacks return their heuristic scores; no match returns
// (IntentNone, 0).
func DetectIntent(message string) (Intent, float64) {
	message = strings.TrimSpace(strings.ToLower(message))

	for _, rule := range intentTable {
		for _, p := range rule.patterns {
			if p.MatchString(message) {
				return rule.intent, 1.0
			}
		}
	}

	// Fallback heuristics, applied in order.
	if strings.Contains(message, "leave") {
		for _, v := range applyVerbs {
			if strings.Contains(message, v) {
				return IntentLeaveApply, 0.7
			}
		}
		return IntentLeaveBalance, 0.6
	}
	if strings.Contains(message, "manager") {
		return IntentManagerInfo, 0.8
	}

	return IntentNone, 0.0
}

// leaveTypes maps keywords to the canonical leave-type names used by the
// leave ledger. Scan order matters: first match wins.
var leaveTypes = []struct {
	keyword string
	value   string
}{
	{"casual", "Casual Leave"},
	{"sick", "Sick Leave"},
	{"privilege", "Privilege Leave"},
	{"earned", "Privilege Leave"},
}

var departments = []string{"marketing", "sales", "hr", "it", "finance", "operations", "production"}

var titleCaser = cases.Title(language.English)

// ExtractEntities pulls a leave type and a department out of free text.
// Both are best effort: keys are simply absent when nothing matches.
func ExtractEntities(message string) map[string]string {
	message = strings.ToLower(message)
	entities := make(map[string]string)

	for _, lt := range leaveTypes {
		if strings.Contains(message, lt.keyword) {
			entities[EntityLeaveType] = lt.value
			break
		}
	}

	for _, dept := range departments {
		if strings.Contains(message, dept) {
			entities[EntityDepartment] = titleCaser.String(dept)
		}
	}

	return entities
}
