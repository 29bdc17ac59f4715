package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"hrbot/internal/model"
)

// ApplicationFilter scopes a leave-application query. An empty EmployeeIDs
// slice means no employee restriction (privileged "all" scope).
type ApplicationFilter struct {
	EmployeeIDs []string
	Statuses    []string
	Limit       int64
}

type LeaveStore struct {
	allocations  *mongo.Collection
	applications *mongo.Collection
}

func NewLeaveStore(ctx context.Context, db *MongoDB) (*LeaveStore, error) {
	allocations := db.Collection("leave_allocations")
	applications := db.Collection("leave_applications")

	if _, err := allocations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "employee", Value: 1}, {Key: "status", Value: 1}}},
	}); err != nil {
		return nil, fmt.Errorf("create leave_allocations indexes: %w", err)
	}

	if _, err := applications.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "employee", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "from_date", Value: -1}}},
	}); err != nil {
		return nil, fmt.Errorf("create leave_applications indexes: %w", err)
	}

	return &LeaveStore{allocations: allocations, applications: applications}, nil
}

// Allocations returns the approved allocations of the given employees.
func (s *LeaveStore) Allocations(ctx context.Context, employeeIDs []string) ([]model.LeaveAllocation, error) {
	filter := bson.M{"status": model.LeaveStatusApproved}
	if len(employeeIDs) > 0 {
		filter["employee"] = bson.M{"$in": employeeIDs}
	}
	cursor, err := s.allocations.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find leave allocations: %w", err)
	}
	var results []model.LeaveAllocation
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode leave allocations: %w", err)
	}
	return results, nil
}

// Applications returns leave applications matching the filter, most recent first.
func (s *LeaveStore) Applications(ctx context.Context, f ApplicationFilter) ([]model.LeaveApplication, error) {
	filter := bson.M{}
	if len(f.EmployeeIDs) > 0 {
		filter["employee"] = bson.M{"$in": f.EmployeeIDs}
	}
	if len(f.Statuses) > 0 {
		filter["status"] = bson.M{"$in": f.Statuses}
	}

	opts := options.Find().SetSort(bson.D{{Key: "from_date", Value: -1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := s.applications.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find leave applications: %w", err)
	}
	var results []model.LeaveApplication
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode leave applications: %w", err)
	}
	return results, nil
}
