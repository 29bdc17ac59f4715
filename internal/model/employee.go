package model

const (
	EmployeeStatusActive   = "Active"
	EmployeeStatusInactive = "Inactive"
	EmployeeStatusLeft     = "Left"
)

// User is an identity record owned by the external identity store.
type User struct {
	ID        string `bson:"_id" json:"id"`
	Email     string `bson:"email" json:"email"`
	FirstName string `bson:"first_name" json:"first_name"`
	LastName  string `bson:"last_name,omitempty" json:"last_name,omitempty"`
	FullName  string `bson:"full_name" json:"full_name"`
	Image     string `bson:"user_image,omitempty" json:"image,omitempty"`
}

// Employee is an HR master record. It is linked to at most one User, but
// the reverse lookup has to try several candidate fields (see LinkFields).
type Employee struct {
	ID            string `bson:"_id" json:"id"`
	EmployeeName  string `bson:"employee_name" json:"employee_name"`
	Department    string `bson:"department,omitempty" json:"department,omitempty"`
	Designation   string `bson:"designation,omitempty" json:"designation,omitempty"`
	Status        string `bson:"status" json:"status"`
	ReportsTo     string `bson:"reports_to,omitempty" json:"reports_to,omitempty"`
	UserID        string `bson:"user_id,omitempty" json:"user_id,omitempty"`
	PreferredMail string `bson:"preferred_email,omitempty" json:"preferred_email,omitempty"`
	CompanyEmail  string `bson:"company_email,omitempty" json:"company_email,omitempty"`
	PersonalEmail string `bson:"personal_email,omitempty" json:"personal_email,omitempty"`
}

// LinkFields is the priority order for resolving a User to an Employee.
// The first field holding the user's id wins; reordering changes which
// record a user with stale email links resolves to.
var LinkFields = []string{"user_id", "preferred_email", "company_email", "personal_email"}
