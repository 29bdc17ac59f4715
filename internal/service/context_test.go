package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrbot/internal/model"
	"hrbot/internal/service"
)

func newContextService(identity *fakeIdentity, employees *fakeEmployees) *service.ContextService {
	return service.NewContextService(identity, employees, service.NewRoleService(identity))
}

func TestGetUserContextAnonymous(t *testing.T) {
	svc := newContextService(&fakeIdentity{}, &fakeEmployees{})
	ctx := context.Background()

	for _, id := range []string{"", service.GuestUser} {
		uctx, err := svc.GetUserContext(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, uctx)
	}
}

func TestGetUserContextUnknownUser(t *testing.T) {
	svc := newContextService(&fakeIdentity{users: map[string]*model.User{}}, &fakeEmployees{})

	uctx, err := svc.GetUserContext(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, uctx)
}

func TestGetUserContextResolvesRolesAndEmployee(t *testing.T) {
	identity := &fakeIdentity{
		users: map[string]*model.User{
			"jane@example.com": {ID: "jane@example.com", Email: "jane@example.com", FullName: "Jane Smith", FirstName: "Jane"},
		},
		roles: map[string][]string{
			"jane@example.com": {"HR Manager", "Employee"},
		},
	}
	employees := &fakeEmployees{byLink: map[string]map[string]*model.Employee{
		"user_id": {"jane@example.com": {ID: "EMP002", EmployeeName: "Jane Smith"}},
	}}
	svc := newContextService(identity, employees)

	uctx, err := svc.GetUserContext(context.Background(), "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, uctx)

	assert.Equal(t, "Jane Smith", uctx.User.FullName)
	assert.Equal(t, []string{"HR Manager", "Employee"}, uctx.Roles.List)
	assert.True(t, uctx.Roles.IsPrivileged)
	assert.True(t, uctx.Roles.IsHR)
	assert.False(t, uctx.Roles.IsAdmin)
	assert.True(t, uctx.Roles.IsEmployee)
	require.NotNil(t, uctx.Employee)
	assert.Equal(t, "EMP002", uctx.Employee.ID)
}

func TestResolveEmployeeLinkOrder(t *testing.T) {
	identity := &fakeIdentity{users: map[string]*model.User{
		"john@example.com": {ID: "john@example.com"},
	}}
	// Only the company email field matches; earlier fields must be tried
	// first and skipped.
	employees := &fakeEmployees{byLink: map[string]map[string]*model.Employee{
		"company_email": {"john@example.com": {ID: "EMP001"}},
	}}
	svc := newContextService(identity, employees)

	uctx, err := svc.GetUserContext(context.Background(), "john@example.com")
	require.NoError(t, err)
	require.NotNil(t, uctx)
	require.NotNil(t, uctx.Employee)
	assert.Equal(t, "EMP001", uctx.Employee.ID)
	assert.Equal(t, []string{"user_id", "preferred_email", "company_email"}, employees.linkTried)
}

func TestGetUserContextUnlinkedEmployee(t *testing.T) {
	identity := &fakeIdentity{
		users: map[string]*model.User{"new@example.com": {ID: "new@example.com"}},
		roles: map[string][]string{"new@example.com": {"Employee"}},
	}
	svc := newContextService(identity, &fakeEmployees{})

	uctx, err := svc.GetUserContext(context.Background(), "new@example.com")
	require.NoError(t, err)
	require.NotNil(t, uctx)
	assert.Nil(t, uctx.Employee)
	assert.False(t, uctx.Roles.IsPrivileged)
}
