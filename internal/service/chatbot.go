package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"hrbot/internal/i18n"
	"hrbot/internal/model"
	"hrbot/internal/nlu"
	"hrbot/internal/store"
)

// EmployeeDirectory covers the employee lookups the query handlers need.
type EmployeeDirectory interface {
	ByID(ctx context.Context, employeeID string) (*model.Employee, error)
	Search(ctx context.Context, f store.EmployeeFilter) ([]model.Employee, error)
	DirectReports(ctx context.Context, employeeID string) ([]model.Employee, error)
	CountDirectReports(ctx context.Context, employeeID string) (int64, error)
}

// LeaveLedger covers the leave reads the query handlers need.
type LeaveLedger interface {
	Allocations(ctx context.Context, employeeIDs []string) ([]model.LeaveAllocation, error)
	Applications(ctx context.Context, f store.ApplicationFilter) ([]model.LeaveApplication, error)
}

// Response is the uniform envelope returned to the chat frontend.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ChatbotService routes an inbound message to the matching query handler.
// It holds no per-request state; a fresh UserContext is built per call.
type ChatbotService struct {
	contexts  *ContextService
	employees EmployeeDirectory
	leaves    LeaveLedger
}

func NewChatbotService(contexts *ContextService, employees EmployeeDirectory, leaves LeaveLedger) *ChatbotService {
	return &ChatbotService{contexts: contexts, employees: employees, leaves: leaves}
}

var (
	greetingRe   = regexp.MustCompile(`\b(hi|hello|hey)\b`)
	widerScopeRe = regexp.MustCompile(`\b(all|team|department)\b`)
	pendingRe    = regexp.MustCompile(`\b(pending|status)\b`)
)

// Respond handles one inbound message end to end. Handler failures are
// logged and converted here; nothing escapes to the caller.
func (s *ChatbotService) Respond(ctx context.Context, userID, message string) Response {
	if strings.TrimSpace(message) == "" {
		return Response{Success: false, Message: i18n.T(ctx, "chat.err.empty")}
	}

	uctx, err := s.contexts.GetUserContext(ctx, userID)
	if err != nil {
		return s.fail(err)
	}
	if uctx == nil {
		return Response{Success: false, Message: i18n.T(ctx, "chat.login_required")}
	}

	intent, _ := nlu.DetectIntent(message)

	var text string
	switch intent {
	case nlu.IntentLeaveBalance, nlu.IntentLeaveHistory:
		text, err = s.handleLeaveQuery(ctx, message, intent, uctx)
	case nlu.IntentLeaveApply:
		text = i18n.T(ctx, "leave.apply_info")
	case nlu.IntentManagerInfo:
		text, err = s.handleManagerInfo(ctx, uctx)
	case nlu.IntentEmployeeSearch:
		text, err = s.handleEmployeeSearch(ctx, message, uctx)
	case nlu.IntentMyInfo:
		text, err = s.handleMyInfo(ctx, uctx)
	default:
		text = s.smallTalk(ctx, message, uctx)
	}
	if err != nil {
		return s.fail(err)
	}
	return Response{Success: true, Message: text}
}

func (s *ChatbotService) fail(err error) Response {
	log.Printf("ERROR chatbot: %v", err)
	return Response{Success: false, Message: "Error: " + err.Error()}
}

// smallTalk covers everything the intent table does not: greetings, help
// and the generic fallback. The help text depends on the caller's roles.
func (s *ChatbotService) smallTalk(ctx context.Context, message string, uctx *UserContext) string {
	lower := strings.ToLower(message)
	if greetingRe.MatchString(lower) {
		return i18n.T(ctx, "chat.greeting")
	}
	if strings.Contains(lower, "help") {
		if uctx.Roles.IsPrivileged {
			return i18n.T(ctx, "chat.help.privileged")
		}
		return i18n.T(ctx, "chat.help.basic")
	}
	return i18n.T(ctx, "chat.fallback", map[string]any{"Message": message})
}

// handleLeaveQuery answers balance, pending and history questions. The
// employee filter defaults to the caller and is widened to the caller's
// direct reports (or dropped entirely) only for privileged callers that
// ask for team or company scope.
func (s *ChatbotService) handleLeaveQuery(ctx context.Context, message string, intent nlu.Intent, uctx *UserContext) (string, error) {
	if uctx.Employee == nil {
		return i18n.T(ctx, "employee.not_linked"), nil
	}
	lower := strings.ToLower(message)

	employeeIDs := []string{uctx.Employee.ID}
	if widerScopeRe.MatchString(lower) {
		if !uctx.Roles.IsPrivileged {
			return i18n.T(ctx, "leave.scope_denied"), nil
		}
		reports, err := s.employees.DirectReports(ctx, uctx.Employee.ID)
		if err != nil {
			return "", err
		}
		switch {
		case strings.Contains(lower, "all"):
			employeeIDs = nil // no filter: whole company
		case len(reports) > 0:
			employeeIDs = make([]string, 0, len(reports))
			for _, r := range reports {
				employeeIDs = append(employeeIDs, r.ID)
			}
		default:
			employeeIDs = nil
		}
	}

	history := intent == nlu.IntentLeaveHistory || strings.Contains(lower, "history")
	statuses := model.PendingStatuses
	heading := "Pending Leaves"
	emptyKey := "leave.no_pending"
	if history {
		statuses = model.FinalizedStatuses
		heading = "Leave History"
		emptyKey = "leave.no_history"
	}

	apps, err := s.leaves.Applications(ctx, store.ApplicationFilter{
		EmployeeIDs: employeeIDs,
		Statuses:    statuses,
		Limit:       5,
	})
	if err != nil {
		return "", err
	}
	allocs, err := s.leaves.Allocations(ctx, employeeIDs)
	if err != nil {
		return "", err
	}

	multi := len(employeeIDs) != 1
	appSection := s.formatApplications(ctx, heading, emptyKey, apps, multi)
	balSection := s.formatAllocations(ctx, allocs, multi)

	// Lead with whichever section the message actually asked for.
	if history || pendingRe.MatchString(lower) {
		return appSection + "\n\n" + balSection, nil
	}
	return balSection + "\n\n" + appSection, nil
}

func (s *ChatbotService) formatApplications(ctx context.Context, heading, emptyKey string, apps []model.LeaveApplication, withEmployee bool) string {
	if len(apps) == 0 {
		return i18n.T(ctx, emptyKey)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "**%s** (%d)\n\n", heading, len(apps))
	for _, app := range apps {
		fmt.Fprintf(&b, "📅 **%s**", app.LeaveType)
		if app.Status != model.LeaveStatusOpen {
			fmt.Fprintf(&b, " — %s", app.Status)
		}
		b.WriteString("\n")
		if withEmployee {
			fmt.Fprintf(&b, "   Employee: %s\n", app.EmployeeID)
		}
		fmt.Fprintf(&b, "   From: %s\n   To: %s\n   Days: %g\n\n", app.FromDate, app.ToDate, app.Days)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *ChatbotService) formatAllocations(ctx context.Context, allocs []model.LeaveAllocation, withEmployee bool) string {
	if len(allocs) == 0 {
		return i18n.T(ctx, "leave.no_allocations")
	}
	var b strings.Builder
	b.WriteString("**Leave Balance** 🏖️\n\n")
	for _, a := range allocs {
		fmt.Fprintf(&b, "**%s**\n", a.LeaveType)
		if withEmployee {
			fmt.Fprintf(&b, "   Employee: %s\n", a.EmployeeID)
		}
		fmt.Fprintf(&b, "   Allocated: %g\n   Used: %g\n   Remaining: %g\n\n", a.TotalAllocated, a.Used(), a.Balance)
	}
	return strings.TrimRight(b.String(), "\n")
}

// handleManagerInfo resolves the caller's reporting chain upward one step.
func (s *ChatbotService) handleManagerInfo(ctx context.Context, uctx *UserContext) (string, error) {
	if uctx.Employee == nil {
		return i18n.T(ctx, "employee.not_linked"), nil
	}
	if uctx.Employee.ReportsTo == "" {
		return i18n.T(ctx, "manager.none"), nil
	}

	mgr, err := s.employees.ByID(ctx, uctx.Employee.ReportsTo)
	if err != nil {
		return "", err
	}
	if mgr == nil {
		// Dangling reports_to reference; treat as unassigned.
		return i18n.T(ctx, "manager.none"), nil
	}

	text := fmt.Sprintf("**Your Manager** 👔\n\n**Name:** %s\n**Designation:** %s\n**Department:** %s",
		mgr.EmployeeName, orNA(mgr.Designation), orNA(mgr.Department))

	count, err := s.employees.CountDirectReports(ctx, uctx.Employee.ID)
	if err != nil {
		return "", err
	}
	if count > 0 {
		text += "\n\n" + i18n.T(ctx, "manager.team_size", map[string]any{"Count": count})
	}
	return text, nil
}

// handleEmployeeSearch lists employees. Privileged callers search the full
// active population with an optional department filter; everyone else only
// sees themselves, their manager and their direct reports.
func (s *ChatbotService) handleEmployeeSearch(ctx context.Context, message string, uctx *UserContext) (string, error) {
	if !uctx.Roles.IsPrivileged {
		return s.restrictedSearch(ctx, message, uctx)
	}

	f := store.EmployeeFilter{Status: model.EmployeeStatusActive, Limit: 10}
	if dept, ok := nlu.ExtractEntities(message)[nlu.EntityDepartment]; ok {
		f.Department = dept
	}

	emps, err := s.employees.Search(ctx, f)
	if err != nil {
		return "", err
	}
	if len(emps) == 0 {
		return i18n.T(ctx, "search.none"), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Active Employees** (%d)\n\n", len(emps))
	for _, emp := range emps {
		fmt.Fprintf(&b, "👤 **%s**\n   %s - %s\n\n", emp.EmployeeName, orNA(emp.Designation), orNA(emp.Department))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// restrictedSearch is the non-privileged view: self, own manager and own
// direct reports, each tagged with the relationship. Free-text filters are
// ignored, and asking for broader scope is an explicit denial.
func (s *ChatbotService) restrictedSearch(ctx context.Context, message string, uctx *UserContext) (string, error) {
	if widerScopeRe.MatchString(strings.ToLower(message)) {
		return i18n.T(ctx, "search.scope_denied"), nil
	}
	if uctx.Employee == nil {
		return i18n.T(ctx, "search.denied"), nil
	}

	type entry struct {
		emp model.Employee
		tag string
	}
	entries := []entry{{*uctx.Employee, "You"}}

	if uctx.Employee.ReportsTo != "" {
		mgr, err := s.employees.ByID(ctx, uctx.Employee.ReportsTo)
		if err != nil {
			return "", err
		}
		if mgr != nil {
			entries = append(entries, entry{*mgr, "Your Manager"})
		}
	}

	reports, err := s.employees.DirectReports(ctx, uctx.Employee.ID)
	if err != nil {
		return "", err
	}
	for _, r := range reports {
		entries = append(entries, entry{r, "Your Team"})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**People You Can View** (%d)\n\n", len(entries))
	for _, e := range entries {
		fmt.Fprintf(&b, "👤 **%s** — %s\n   %s - %s\n\n",
			e.emp.EmployeeName, e.tag, orNA(e.emp.Designation), orNA(e.emp.Department))
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// handleMyInfo renders the caller's own employee profile. No role gate.
func (s *ChatbotService) handleMyInfo(ctx context.Context, uctx *UserContext) (string, error) {
	if uctx.Employee == nil {
		return i18n.T(ctx, "employee.not_linked"), nil
	}
	emp := uctx.Employee

	var b strings.Builder
	b.WriteString("**Your Profile** 🪪\n\n")
	fmt.Fprintf(&b, "**Employee ID:** %s\n**Name:** %s\n**Designation:** %s\n**Department:** %s\n**Company Email:** %s",
		emp.ID, emp.EmployeeName, orNA(emp.Designation), orNA(emp.Department), orNA(emp.CompanyEmail))

	if emp.ReportsTo != "" {
		mgr, err := s.employees.ByID(ctx, emp.ReportsTo)
		if err != nil {
			return "", err
		}
		if mgr != nil {
			fmt.Fprintf(&b, "\n**Manager:** %s", mgr.EmployeeName)
		}
	}

	count, err := s.employees.CountDirectReports(ctx, emp.ID)
	if err != nil {
		return "", err
	}
	if count > 0 {
		b.WriteString("\n\n" + i18n.T(ctx, "manager.team_size", map[string]any{"Count": count}))
	}
	return b.String(), nil
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
