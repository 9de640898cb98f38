package applications

import "time"

// Status represents the review stage of a loan application.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewing Status = "reviewing"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Valid reports whether s is one of the known review stages. The database
// enforces the same set with a CHECK constraint.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReviewing, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Application is one customer's loan application captured during a
// consultation.
type Application struct {
	ID               string    `json:"id"`
	ClientID         string    `json:"client_id"`
	PhoneNumber      string    `json:"phone_number"`
	CustomerName     string    `json:"customer_name,omitempty"`
	LoanAmount       float64   `json:"loan_amount,omitempty"`
	LoanPurpose      string    `json:"loan_purpose,omitempty"`
	MonthlyIncome    float64   `json:"monthly_income,omitempty"`
	EmploymentStatus string    `json:"employment_status,omitempty"`
	Status           Status    `json:"application_status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ListFilter controls which applications List returns.
type ListFilter struct {
	PhoneNumber string
	Status      Status
	Limit       int
	Offset      int
}
