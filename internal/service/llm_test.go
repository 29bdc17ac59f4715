package service

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrbot/internal/i18n"
	"hrbot/internal/model"
	"hrbot/internal/store"
)

func TestMain(m *testing.M) {
	i18n.Init("en")
	os.Exit(m.Run())
}

// fakeMessages replays canned API responses and records every request.
type fakeMessages struct {
	responses []*anthropic.Message
	err       error
	calls     []anthropic.MessageNewParams
}

func (f *fakeMessages) New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	resp := f.responses[0]
	f.responses = f.responses[1:]
	return resp, nil
}

type llmDirectory struct {
	byID          map[string]*model.Employee
	searchResults []model.Employee
	lastSearch    store.EmployeeFilter
	searchCalls   int
}

func (d *llmDirectory) ByID(ctx context.Context, employeeID string) (*model.Employee, error) {
	return d.byID[employeeID], nil
}

func (d *llmDirectory) Search(ctx context.Context, f store.EmployeeFilter) ([]model.Employee, error) {
	d.searchCalls++
	d.lastSearch = f
	return d.searchResults, nil
}

func (d *llmDirectory) DirectReports(ctx context.Context, employeeID string) ([]model.Employee, error) {
	return nil, nil
}

func (d *llmDirectory) CountDirectReports(ctx context.Context, employeeID string) (int64, error) {
	return 0, nil
}

type llmLedger struct {
	allocations []model.LeaveAllocation
	err         error
	lastIDs     []string
}

func (l *llmLedger) Allocations(ctx context.Context, employeeIDs []string) ([]model.LeaveAllocation, error) {
	l.lastIDs = employeeIDs
	if l.err != nil {
		return nil, l.err
	}
	return l.allocations, nil
}

func (l *llmLedger) Applications(ctx context.Context, f store.ApplicationFilter) ([]model.LeaveApplication, error) {
	return nil, nil
}

func employeeContext(privileged bool) *UserContext {
	return &UserContext{
		User: ContextUser{ID: "john@example.com", FullName: "John Doe"},
		Roles: RoleSet{
			List:         []string{"Employee"},
			IsPrivileged: privileged,
			IsEmployee:   true,
		},
		Employee: &model.Employee{ID: "EMP001", EmployeeName: "John Doe", ReportsTo: "EMP002"},
	}
}

func TestProcessMessageMissingKey(t *testing.T) {
	svc := NewLLMService("", "", &llmDirectory{}, &llmLedger{})

	got := svc.ProcessMessage(context.Background(), "hi", employeeContext(false))

	assert.Contains(t, got, "Configuration Error")
}

func TestProcessMessagePlainText(t *testing.T) {
	fake := &fakeMessages{responses: []*anthropic.Message{{
		StopReason: anthropic.StopReasonEndTurn,
		Content:    []anthropic.ContentBlockUnion{{Type: "text", Text: "Hello John!"}},
	}}}
	svc := &LLMService{client: fake, model: defaultModel, apiKey: "test-key", employees: &llmDirectory{}, leaves: &llmLedger{}}

	got := svc.ProcessMessage(context.Background(), "hi", employeeContext(false))

	assert.Equal(t, "Hello John!", got)
	require.Len(t, fake.calls, 1)
	assert.Len(t, fake.calls[0].Tools, 3)
	assert.Contains(t, fake.calls[0].System[0].Text, "EMP001")
}

func TestProcessMessageToolRoundTrip(t *testing.T) {
	ledger := &llmLedger{allocations: []model.LeaveAllocation{
		{EmployeeID: "EMP001", LeaveType: "Casual Leave", TotalAllocated: 10, Balance: 7},
	}}
	fake := &fakeMessages{responses: []*anthropic.Message{
		{
			StopReason: anthropic.StopReasonToolUse,
			Content: []anthropic.ContentBlockUnion{
				{Type: "text", Text: "Let me check."},
				{Type: "tool_use", ID: "tu_1", Name: "get_leave_balance", Input: json.RawMessage(`{}`)},
			},
		},
		{
			StopReason: anthropic.StopReasonEndTurn,
			Content:    []anthropic.ContentBlockUnion{{Type: "text", Text: "You have 7 casual leave days left."}},
		},
	}}
	svc := &LLMService{client: fake, model: defaultModel, apiKey: "test-key", employees: &llmDirectory{}, leaves: ledger}

	got := svc.ProcessMessage(context.Background(), "how many leaves do I have?", employeeContext(false))

	assert.Equal(t, "You have 7 casual leave days left.", got)
	// The tool defaulted to the caller's own record.
	assert.Equal(t, []string{"EMP001"}, ledger.lastIDs)
	// Second call carries the original turn, the assistant echo and the
	// tool results.
	require.Len(t, fake.calls, 2)
	assert.Len(t, fake.calls[1].Messages, 3)
}

func TestProcessMessageAPIFailure(t *testing.T) {
	fake := &fakeMessages{err: errors.New("rate limited")}
	svc := &LLMService{client: fake, model: defaultModel, apiKey: "test-key", employees: &llmDirectory{}, leaves: &llmLedger{}}

	got := svc.ProcessMessage(context.Background(), "hi", employeeContext(false))

	assert.Contains(t, got, "AI Error")
	assert.Contains(t, got, "rate limited")
}

func TestExecuteToolLeaveBalanceDefaultsToSelf(t *testing.T) {
	ledger := &llmLedger{allocations: []model.LeaveAllocation{{EmployeeID: "EMP001", LeaveType: "Sick Leave", TotalAllocated: 5, Balance: 5}}}
	svc := &LLMService{employees: &llmDirectory{}, leaves: ledger}

	result, isErr := svc.ExecuteTool(context.Background(), "get_leave_balance", []byte(`{}`), employeeContext(false))

	assert.False(t, isErr)
	assert.Equal(t, ledger.allocations, result)
	assert.Equal(t, []string{"EMP001"}, ledger.lastIDs)
}

func TestExecuteToolLeaveBalanceUnlinked(t *testing.T) {
	svc := &LLMService{employees: &llmDirectory{}, leaves: &llmLedger{}}
	uctx := employeeContext(false)
	uctx.Employee = nil

	_, isErr := svc.ExecuteTool(context.Background(), "get_leave_balance", []byte(`{}`), uctx)

	assert.True(t, isErr)
}

func TestExecuteToolEmployeeInfo(t *testing.T) {
	jane := &model.Employee{ID: "EMP002", EmployeeName: "Jane Smith"}
	svc := &LLMService{employees: &llmDirectory{byID: map[string]*model.Employee{"EMP002": jane}}, leaves: &llmLedger{}}
	uctx := employeeContext(false)

	self, isErr := svc.ExecuteTool(context.Background(), "get_employee_info", []byte(`{}`), uctx)
	assert.False(t, isErr)
	assert.Equal(t, uctx.Employee, self)

	other, isErr := svc.ExecuteTool(context.Background(), "get_employee_info", []byte(`{"employee_id":"EMP002"}`), uctx)
	assert.False(t, isErr)
	assert.Equal(t, jane, other)

	_, isErr = svc.ExecuteTool(context.Background(), "get_employee_info", []byte(`{"employee_id":"EMP999"}`), uctx)
	assert.True(t, isErr)
}

func TestExecuteToolSearchGate(t *testing.T) {
	dir := &llmDirectory{searchResults: []model.Employee{{ID: "EMP002", EmployeeName: "Jane Smith"}}}
	svc := &LLMService{employees: dir, leaves: &llmLedger{}}
	args := []byte(`{"keywords":"jane"}`)

	_, isErr := svc.ExecuteTool(context.Background(), "search_other_employees", args, employeeContext(false))
	assert.True(t, isErr)
	assert.Zero(t, dir.searchCalls)

	result, isErr := svc.ExecuteTool(context.Background(), "search_other_employees", args, employeeContext(true))
	assert.False(t, isErr)
	assert.Equal(t, dir.searchResults, result)
	assert.Equal(t, "jane", dir.lastSearch.NameKeyword)
	assert.EqualValues(t, 5, dir.lastSearch.Limit)
}

func TestExecuteToolUnknown(t *testing.T) {
	svc := &LLMService{employees: &llmDirectory{}, leaves: &llmLedger{}}

	_, isErr := svc.ExecuteTool(context.Background(), "delete_everything", nil, employeeContext(true))

	assert.True(t, isErr)
}
