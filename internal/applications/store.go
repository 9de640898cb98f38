package applications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/db"
)

// ErrNotFound is returned when no application matches the given id.
var ErrNotFound = errors.New("application not found")

// Store manages persistence of loan applications.
type Store struct {
	db *db.DB
}

// NewStore creates a new application store.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Create adds a new application. Missing ID and Status are filled with a
// UUID and pending.
func (s *Store) Create(ctx context.Context, app Application) (*Application, error) {
	if app.ID == "" {
		app.ID = uuid.New().String()
	}
	if app.Status == "" {
		app.Status = StatusPending
	}
	if !app.Status.Valid() {
		return nil, fmt.Errorf("invalid status: %s", app.Status)
	}
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now

	var customerName, loanPurpose, employmentStatus sql.NullString
	if app.CustomerName != "" {
		customerName = sql.NullString{String: app.CustomerName, Valid: true}
	}
	if app.LoanPurpose != "" {
		loanPurpose = sql.NullString{String: app.LoanPurpose, Valid: true}
	}
	if app.EmploymentStatus != "" {
		employmentStatus = sql.NullString{String: app.EmploymentStatus, Valid: true}
	}

	var loanAmount, monthlyIncome sql.NullFloat64
	if app.LoanAmount != 0 {
		loanAmount = sql.NullFloat64{Float64: app.LoanAmount, Valid: true}
	}
	if app.MonthlyIncome != 0 {
		monthlyIncome = sql.NullFloat64{Float64: app.MonthlyIncome, Valid: true}
	}

	query := s.db.Rebind(`
		INSERT INTO loan_applications (
			id, client_id, phone_number, customer_name, loan_amount,
			loan_purpose, monthly_income, employment_status,
			application_status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		app.ID, app.ClientID, app.PhoneNumber, customerName, loanAmount,
		loanPurpose, monthlyIncome, employmentStatus,
		string(app.Status), app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting application: %w", err)
	}
	return &app, nil
}

// GetByID retrieves an application by its ID. Returns nil when no row
// matches.
func (s *Store) GetByID(ctx context.Context, id string) (*Application, error) {
	query := s.db.Rebind(`
		SELECT id, client_id, phone_number, customer_name, loan_amount,
			   loan_purpose, monthly_income, employment_status,
			   application_status, created_at, updated_at
		FROM loan_applications WHERE id = ?`)

	app, err := scanApplication(s.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting application: %w", err)
	}
	return app, nil
}

// List returns a client's applications matching the filter, newest first.
func (s *Store) List(ctx context.Context, clientID string, filter ListFilter) ([]Application, error) {
	query := `
		SELECT id, client_id, phone_number, customer_name, loan_amount,
			   loan_purpose, monthly_income, employment_status,
			   application_status, created_at, updated_at
		FROM loan_applications WHERE client_id = ?`
	args := []interface{}{clientID}

	if filter.PhoneNumber != "" {
		query += " AND phone_number = ?"
		args = append(args, filter.PhoneNumber)
	}
	if filter.Status != "" {
		query += " AND application_status = ?"
		args = append(args, string(filter.Status))
	}
	query += " ORDER BY created_at DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying applications: %w", err)
	}
	defer rows.Close()

	var apps []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	return apps, rows.Err()
}

// UpdateStatus moves an application to a new review stage.
func (s *Store) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status: %s", status)
	}

	query := s.db.Rebind(`
		UPDATE loan_applications
		SET application_status = ?, updated_at = ?
		WHERE id = ?`)

	result, err := s.db.ExecContext(ctx, query, string(status), time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of applications filed for a tenant.
func (s *Store) Count(ctx context.Context, clientID string) (int, error) {
	query := s.db.Rebind(`SELECT COUNT(*) FROM loan_applications WHERE client_id = ?`)

	var count int
	err := s.db.QueryRowContext(ctx, query, clientID).Scan(&count)
	return count, err
}

// CountByStatus returns how many of a client's applications sit in the
// given stage.
func (s *Store) CountByStatus(ctx context.Context, clientID string, status Status) (int, error) {
	query := s.db.Rebind(`
		SELECT COUNT(*) FROM loan_applications
		WHERE client_id = ? AND application_status = ?`)

	var count int
	err := s.db.QueryRowContext(ctx, query, clientID, string(status)).Scan(&count)
	return count, err
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanApplication(sc scanner) (*Application, error) {
	var (
		app                                   Application
		status                                string
		customerName, loanPurpose, employment sql.NullString
		loanAmount, monthlyIncome             sql.NullFloat64
	)

	err := sc.Scan(
		&app.ID, &app.ClientID, &app.PhoneNumber, &customerName, &loanAmount,
		&loanPurpose, &monthlyIncome, &employment,
		&status, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	app.Status = Status(status)
	app.CustomerName = customerName.String
	app.LoanPurpose = loanPurpose.String
	app.EmploymentStatus = employment.String
	app.LoanAmount = loanAmount.Float64
	app.MonthlyIncome = monthlyIncome.Float64
	return &app, nil
}
