package service

import (
	"context"
	"log"

	"hrbot/internal/model"
)

// RoleSource is the identity collaborator's role lookup.
type RoleSource interface {
	RolesOf(ctx context.Context, userID string) ([]string, error)
}

// RoleService resolves role assignments. Every lookup fails closed: an
// empty user, an unknown role or a store failure yields "no access".
type RoleService struct {
	identity RoleSource
}

func NewRoleService(identity RoleSource) *RoleService {
	return &RoleService{identity: identity}
}

// ActiveRoles returns the intersection of the fixed role enumeration with
// whatever the identity store reports for the user.
func (s *RoleService) ActiveRoles(ctx context.Context, userID string) []model.Role {
	if userID == "" {
		return nil
	}
	names, err := s.identity.RolesOf(ctx, userID)
	if err != nil {
		log.Printf("ERROR resolve roles for %s: %v", userID, err)
		return nil
	}

	held := make(map[string]bool, len(names))
	for _, n := range names {
		held[n] = true
	}

	var active []model.Role
	for _, r := range model.AllRoles {
		if held[string(r)] {
			active = append(active, r)
		}
	}
	return active
}

// HasRole reports whether the user holds the given role.
func (s *RoleService) HasRole(ctx context.Context, userID string, role model.Role) bool {
	if userID == "" || role == "" {
		return false
	}
	for _, r := range s.ActiveRoles(ctx, userID) {
		if r == role {
			return true
		}
	}
	return false
}

// IsPrivileged reports whether the user holds any role that allows viewing
// data beyond their own records.
func (s *RoleService) IsPrivileged(ctx context.Context, userID string) bool {
	for _, r := range s.ActiveRoles(ctx, userID) {
		if r.IsPrivileged() {
			return true
		}
	}
	return false
}
