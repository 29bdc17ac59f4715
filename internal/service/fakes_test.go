package service_test

import (
	"context"

	"hrbot/internal/model"
	"hrbot/internal/store"
)

// fakeIdentity serves users and role assignments from maps.
type fakeIdentity struct {
	users    map[string]*model.User
	roles    map[string][]string
	rolesErr error
}

func (f *fakeIdentity) UserByID(ctx context.Context, userID string) (*model.User, error) {
	return f.users[userID], nil
}

func (f *fakeIdentity) RolesOf(ctx context.Context, userID string) ([]string, error) {
	if f.rolesErr != nil {
		return nil, f.rolesErr
	}
	return f.roles[userID], nil
}

// fakeEmployees is an in-memory employee directory that records the
// queries made against it.
type fakeEmployees struct {
	byLink        map[string]map[string]*model.Employee // field -> value -> employee
	byID          map[string]*model.Employee
	reports       map[string][]model.Employee
	searchResults []model.Employee

	searchCalls int
	lastSearch  store.EmployeeFilter
	linkTried   []string
}

func (f *fakeEmployees) ByLinkField(ctx context.Context, field, value string) (*model.Employee, error) {
	f.linkTried = append(f.linkTried, field)
	return f.byLink[field][value], nil
}

func (f *fakeEmployees) ByID(ctx context.Context, employeeID string) (*model.Employee, error) {
	return f.byID[employeeID], nil
}

func (f *fakeEmployees) Search(ctx context.Context, filter store.EmployeeFilter) ([]model.Employee, error) {
	f.searchCalls++
	f.lastSearch = filter
	return f.searchResults, nil
}

func (f *fakeEmployees) DirectReports(ctx context.Context, employeeID string) ([]model.Employee, error) {
	return f.reports[employeeID], nil
}

func (f *fakeEmployees) CountDirectReports(ctx context.Context, employeeID string) (int64, error) {
	return int64(len(f.reports[employeeID])), nil
}

// fakeLeaves is an in-memory leave ledger that records the filters it was
// queried with.
type fakeLeaves struct {
	allocations  []model.LeaveAllocation
	applications []model.LeaveApplication
	err          error

	allocCalls    int
	appCalls      int
	lastAllocIDs  []string
	lastAppFilter store.ApplicationFilter
}

func (f *fakeLeaves) Allocations(ctx context.Context, employeeIDs []string) ([]model.LeaveAllocation, error) {
	f.allocCalls++
	f.lastAllocIDs = employeeIDs
	if f.err != nil {
		return nil, f.err
	}
	return f.allocations, nil
}

func (f *fakeLeaves) Applications(ctx context.Context, filter store.ApplicationFilter) ([]model.LeaveApplication, error) {
	f.appCalls++
	f.lastAppFilter = filter
	if f.err != nil {
		return nil, f.err
	}
	return f.applications, nil
}
