package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"hrbot/internal/model"
)

// EmployeeFilter narrows an employee listing. Zero values mean "no filter".
type EmployeeFilter struct {
	Status      string
	Department  string
	NameKeyword string
	Limit       int64
}

type EmployeeStore struct {
	employees *mongo.Collection
}

func NewEmployeeStore(ctx context.Context, db *MongoDB) (*EmployeeStore, error) {
	employees := db.Collection("employees")

	if _, err := employees.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_id", Value: 1}}},
		{Keys: bson.D{{Key: "reports_to", Value: 1}}},
		{Keys: bson.D{{Key: "department", Value: 1}, {Key: "status", Value: 1}}},
	}); err != nil {
		return nil, fmt.Errorf("create employee indexes: %w", err)
	}

	return &EmployeeStore{employees: employees}, nil
}

// ByID returns the employee record, or nil if not found.
func (s *EmployeeStore) ByID(ctx context.Context, employeeID string) (*model.Employee, error) {
	return s.findOne(ctx, bson.M{"_id": employeeID})
}

// ByLinkField looks an employee up by one of the User-linkage fields
// (user_id or an email field). Nil result means no match, not an error.
func (s *EmployeeStore) ByLinkField(ctx context.Context, field, value string) (*model.Employee, error) {
	return s.findOne(ctx, bson.M{field: value})
}

// Search lists employees matching the filter, ordered by name.
func (s *EmployeeStore) Search(ctx context.Context, f EmployeeFilter) ([]model.Employee, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Department != "" {
		filter["department"] = f.Department
	}
	if f.NameKeyword != "" {
		filter["employee_name"] = bson.M{"$regex": f.NameKeyword, "$options": "i"}
	}

	opts := options.Find().SetSort(bson.D{{Key: "employee_name", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := s.employees.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find employees: %w", err)
	}
	var results []model.Employee
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode employees: %w", err)
	}
	return results, nil
}

// DirectReports returns the active employees reporting to the given employee.
func (s *EmployeeStore) DirectReports(ctx context.Context, employeeID string) ([]model.Employee, error) {
	cursor, err := s.employees.Find(ctx, bson.M{
		"reports_to": employeeID,
		"status":     model.EmployeeStatusActive,
	})
	if err != nil {
		return nil, fmt.Errorf("find direct reports: %w", err)
	}
	var results []model.Employee
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode direct reports: %w", err)
	}
	return results, nil
}

// CountDirectReports returns the team size of the given employee.
func (s *EmployeeStore) CountDirectReports(ctx context.Context, employeeID string) (int64, error) {
	n, err := s.employees.CountDocuments(ctx, bson.M{
		"reports_to": employeeID,
		"status":     model.EmployeeStatusActive,
	})
	if err != nil {
		return 0, fmt.Errorf("count direct reports: %w", err)
	}
	return n, nil
}

func (s *EmployeeStore) findOne(ctx context.Context, filter bson.M) (*model.Employee, error) {
	var emp model.Employee
	err := s.employees.FindOne(ctx, filter).Decode(&emp)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find employee: %w", err)
	}
	return &emp, nil
}
