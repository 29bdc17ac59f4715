package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"hrbot/internal/i18n"
	"hrbot/internal/model"
	"hrbot/internal/store"
)

const defaultModel = "claude-3-5-sonnet-20240620"

// messageCreator is the one slice of the Anthropic client we use; tests
// substitute a fake.
type messageCreator interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// LLMService forwards a message to the Anthropic API with a small set of
// tools wrapping the same data queries the rule-based handlers use. Tool
// execution re-applies the same role gates; the model never widens access.
type LLMService struct {
	client    messageCreator
	model     string
	apiKey    string
	employees EmployeeDirectory
	leaves    LeaveLedger
}

func NewLLMService(apiKey, modelName string, employees EmployeeDirectory, leaves LeaveLedger) *LLMService {
	if modelName == "" {
		modelName = defaultModel
	}
	svc := &LLMService{
		model:     modelName,
		apiKey:    apiKey,
		employees: employees,
		leaves:    leaves,
	}
	if apiKey != "" {
		client := anthropic.NewClient(option.WithAPIKey(apiKey))
		svc.client = &client.Messages
	}
	return svc
}

// tools defines the callable surface offered to the model.
func (s *LLMService) tools() []anthropic.ToolUnionParam {
	return []anthropic.ToolUnionParam{
		{OfTool: &anthropic.ToolParam{
			Name:        "get_leave_balance",
			Description: anthropic.String("Get the current leave balance for an employee. Use when the user asks about remaining leaves or leave quota."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type: "object",
				Properties: map[string]any{
					"employee_id": map[string]any{"type": "string", "description": "The employee ID (e.g. EMP001). Defaults to the current user's own record."},
				},
			},
		}},
		{OfTool: &anthropic.ToolParam{
			Name:        "get_employee_info",
			Description: anthropic.String("Get the current user's employee profile (designation, department, manager)."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type: "object",
				Properties: map[string]any{
					"employee_id": map[string]any{"type": "string", "description": "The employee ID. Defaults to the current user's own record."},
				},
			},
		}},
		{OfTool: &anthropic.ToolParam{
			Name:        "search_other_employees",
			Description: anthropic.String("Search for other employees in the organization. Restricted to HR and managerial roles."),
			InputSchema: anthropic.ToolInputSchemaParam{
				Type: "object",
				Properties: map[string]any{
					"keywords": map[string]any{"type": "string", "description": "Search terms, e.g. a name"},
				},
				Required: []string{"keywords"},
			},
		}},
	}
}

// ProcessMessage runs one conversation turn: ask the model, execute at
// most one round of tool calls, return the final text. All failures come
// back as user-facing text; nothing is raised to the dispatcher.
func (s *LLMService) ProcessMessage(ctx context.Context, message string, uctx *UserContext) string {
	if s.apiKey == "" || s.client == nil {
		return i18n.T(ctx, "llm.err.missing_key")
	}

	system := s.systemPrompt(uctx)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(message))},
		Tools:     s.tools(),
	}

	resp, err := s.client.New(ctx, params)
	if err != nil {
		log.Printf("ERROR llm call: %v", err)
		return i18n.T(ctx, "llm.err.api", map[string]any{"Reason": err.Error()})
	}

	if resp.StopReason != anthropic.StopReasonToolUse {
		return textOf(resp)
	}

	// Echo the assistant turn back, then attach one result per tool call.
	// The union's flattened fields are read directly; AsAny re-decodes from
	// the raw wire JSON, which only real API responses carry.
	var assistantBlocks []anthropic.ContentBlockParamUnion
	var results []anthropic.ContentBlockParamUnion
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			assistantBlocks = append(assistantBlocks, anthropic.NewTextBlock(block.Text))
		case "tool_use":
			args, _ := block.Input.MarshalJSON()
			assistantBlocks = append(assistantBlocks, anthropic.ContentBlockParamUnion{
				OfToolUse: &anthropic.ToolUseBlockParam{ID: block.ID, Name: block.Name, Input: block.Input},
			})
			result, isErr := s.ExecuteTool(ctx, block.Name, args, uctx)
			payload, err := json.Marshal(result)
			if err != nil {
				payload = []byte(fmt.Sprintf(`{"error":%q}`, err.Error()))
				isErr = true
			}
			results = append(results, anthropic.NewToolResultBlock(block.ID, string(payload), isErr))
		}
	}

	params.Messages = append(params.Messages,
		anthropic.NewAssistantMessage(assistantBlocks...),
		anthropic.NewUserMessage(results...),
	)

	final, err := s.client.New(ctx, params)
	if err != nil {
		log.Printf("ERROR llm followup call: %v", err)
		return i18n.T(ctx, "llm.err.api", map[string]any{"Reason": err.Error()})
	}
	return textOf(final)
}

func (s *LLMService) systemPrompt(uctx *UserContext) string {
	employeeID := "not linked"
	if uctx.Employee != nil {
		employeeID = uctx.Employee.ID
	}
	return fmt.Sprintf(`You are a helpful HR assistant.
Current user: %s (%s)
Employee ID: %s
Roles: %s

Use the available tools to answer questions accurately.
If you don't have enough information, ask the user. Do not make up facts.`,
		uctx.User.FullName, uctx.User.ID, employeeID, strings.Join(uctx.Roles.List, ", "))
}

// ExecuteTool dispatches a tool call from the model. The search gate is
// re-checked here: tool calls carry the caller's context, not the model's.
// The boolean result marks the payload as an error for the model.
func (s *LLMService) ExecuteTool(ctx context.Context, name string, args []byte, uctx *UserContext) (any, bool) {
	var input struct {
		EmployeeID string `json:"employee_id"`
		Keywords   string `json:"keywords"`
	}
	if len(args) > 0 {
		if err := json.Unmarshal(args, &input); err != nil {
			return map[string]string{"error": "invalid tool arguments: " + err.Error()}, true
		}
	}

	switch name {
	case "get_leave_balance":
		employeeID := input.EmployeeID
		if employeeID == "" {
			if uctx.Employee == nil {
				return map[string]string{"error": "no employee record linked to this user"}, true
			}
			employeeID = uctx.Employee.ID
		}
		allocs, err := s.leaves.Allocations(ctx, []string{employeeID})
		if err != nil {
			log.Printf("ERROR tool get_leave_balance: %v", err)
			return map[string]string{"error": "leave lookup failed"}, true
		}
		return allocs, false

	case "get_employee_info":
		if input.EmployeeID == "" || (uctx.Employee != nil && input.EmployeeID == uctx.Employee.ID) {
			if uctx.Employee == nil {
				return map[string]string{"error": "no employee record linked to this user"}, true
			}
			return uctx.Employee, false
		}
		emp, err := s.employees.ByID(ctx, input.EmployeeID)
		if err != nil {
			log.Printf("ERROR tool get_employee_info: %v", err)
			return map[string]string{"error": "employee lookup failed"}, true
		}
		if emp == nil {
			return map[string]string{"error": "employee not found"}, true
		}
		return emp, false

	case "search_other_employees":
		if !uctx.Roles.IsPrivileged {
			return map[string]string{"error": "Access Denied: you do not have permission to search employees."}, true
		}
		emps, err := s.employees.Search(ctx, store.EmployeeFilter{
			Status:      model.EmployeeStatusActive,
			NameKeyword: input.Keywords,
			Limit:       5,
		})
		if err != nil {
			log.Printf("ERROR tool search_other_employees: %v", err)
			return map[string]string{"error": "employee search failed"}, true
		}
		return emps, false
	}

	return map[string]string{"error": "unknown tool: " + name}, true
}

func textOf(msg *anthropic.Message) string {
	var b strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String()
}
