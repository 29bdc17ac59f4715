package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"hrbot/internal/model"
)

// IdentityStore reads users and role assignments.
type IdentityStore struct {
	users *mongo.Collection
	roles *mongo.Collection
}

func NewIdentityStore(ctx context.Context, db *MongoDB) (*IdentityStore, error) {
	users := db.Collection("users")
	roles := db.Collection("user_roles")

	if _, err := roles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
	}); err != nil {
		return nil, fmt.Errorf("create user_roles indexes: %w", err)
	}

	return &IdentityStore{users: users, roles: roles}, nil
}

// UserByID returns the user record, or nil if not found.
func (s *IdentityStore) UserByID(ctx context.Context, userID string) (*model.User, error) {
	var user model.User
	err := s.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// RolesOf returns the raw role names the identity store holds for a user.
func (s *IdentityStore) RolesOf(ctx context.Context, userID string) ([]string, error) {
	cursor, err := s.roles.Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("find user roles: %w", err)
	}
	var assignments []struct {
		Role string `bson:"role"`
	}
	if err := cursor.All(ctx, &assignments); err != nil {
		return nil, fmt.Errorf("decode user roles: %w", err)
	}
	names := make([]string, 0, len(assignments))
	for _, a := range assignments {
		names = append(names, a.Role)
	}
	return names, nil
}
