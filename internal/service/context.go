package service

import (
	"context"
	"fmt"

	"hrbot/internal/model"
)

// GuestUser is the identity the host reports for anonymous callers.
const GuestUser = "Guest"

// UserSource is the identity collaborator's user lookup.
type UserSource interface {
	UserByID(ctx context.Context, userID string) (*model.User, error)
}

// EmployeeLinker resolves employee records by a linkage field.
type EmployeeLinker interface {
	ByLinkField(ctx context.Context, field, value string) (*model.Employee, error)
}

// ContextUser is the identity slice of a UserContext.
type ContextUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	FirstName string `json:"first_name"`
	Image     string `json:"image,omitempty"`
}

// RoleSet is the resolved role view of a UserContext.
type RoleSet struct {
	List         []string `json:"list"`
	IsPrivileged bool     `json:"is_privileged"`
	IsAdmin      bool     `json:"is_admin"`
	IsHR         bool     `json:"is_hr"`
	IsManager    bool     `json:"is_manager"`
	IsEmployee   bool     `json:"is_employee"`
}

// UserContext is the per-request snapshot of identity, roles and linked
// employee. It is built fresh for every dispatch and never persisted.
// Employee is nil when no record is linked; that is a valid state.
type UserContext struct {
	User     ContextUser     `json:"user"`
	Roles    RoleSet         `json:"roles"`
	Employee *model.Employee `json:"employee"`
}

// ContextService assembles UserContexts from the identity and employee stores.
type ContextService struct {
	identity  UserSource
	employees EmployeeLinker
	roles     *RoleService
}

func NewContextService(identity UserSource, employees EmployeeLinker, roles *RoleService) *ContextService {
	return &ContextService{identity: identity, employees: employees, roles: roles}
}

// GetUserContext builds the snapshot for a user. Anonymous callers and
// unknown users yield (nil, nil): callers must treat a nil context as
// "not logged in", not as a failure.
func (s *ContextService) GetUserContext(ctx context.Context, userID string) (*UserContext, error) {
	if userID == "" || userID == GuestUser {
		return nil, nil
	}

	user, err := s.identity.UserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user %s: %w", userID, err)
	}
	if user == nil {
		return nil, nil
	}

	employee, err := s.resolveEmployee(ctx, userID)
	if err != nil {
		return nil, err
	}

	active := s.roles.ActiveRoles(ctx, userID)
	roleSet := RoleSet{List: make([]string, 0, len(active))}
	for _, r := range active {
		roleSet.List = append(roleSet.List, string(r))
		roleSet.IsPrivileged = roleSet.IsPrivileged || r.IsPrivileged()
		switch r {
		case model.RoleAdmin:
			roleSet.IsAdmin = true
		case model.RoleHRManager, model.RoleHRUser:
			roleSet.IsHR = true
		case model.RoleManager:
			roleSet.IsManager = true
		case model.RoleEmployee:
			roleSet.IsEmployee = true
		}
	}

	return &UserContext{
		User: ContextUser{
			ID:        user.ID,
			Email:     user.Email,
			FullName:  user.FullName,
			FirstName: user.FirstName,
			Image:     user.Image,
		},
		Roles:    roleSet,
		Employee: employee,
	}, nil
}

// resolveEmployee tries the linkage fields in priority order and stops at
// the first match. No match is not an error.
func (s *ContextService) resolveEmployee(ctx context.Context, userID string) (*model.Employee, error) {
	for _, field := range model.LinkFields {
		emp, err := s.employees.ByLinkField(ctx, field, userID)
		if err != nil {
			return nil, fmt.Errorf("resolve employee via %s: %w", field, err)
		}
		if emp != nil {
			return emp, nil
		}
	}
	return nil, nil
}
