package conversation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/UcoreAI/malaysian-loan-bot-elestio/internal/db"
)

// defaultRecentLimit bounds the context window handed to the generator.
const defaultRecentLimit = 5

// Store provides persistence for conversation turns.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Append inserts a new turn. If turn.ID is empty a UUID is generated; a zero
// Timestamp is set to now.
func (s *Store) Append(ctx context.Context, turn Turn) error {
	if turn.ID == "" {
		turn.ID = uuid.New().String()
	}
	if turn.Timestamp.IsZero() {
		turn.Timestamp = time.Now().UTC()
	}

	var customerName, responseText sql.NullString
	if turn.CustomerName != "" {
		customerName = sql.NullString{String: turn.CustomerName, Valid: true}
	}
	if turn.ResponseText != "" {
		responseText = sql.NullString{String: turn.ResponseText, Valid: true}
	}

	query := s.db.Rebind(`
		INSERT INTO conversations (
			id, client_id, phone_number, customer_name,
			message_text, response_text, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		turn.ID,
		turn.ClientID,
		turn.PhoneNumber,
		customerName,
		turn.MessageText,
		responseText,
		turn.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("inserting conversation turn: %w", err)
	}
	return nil
}

// Recent returns the last limit turns for one customer in chronological
// order. limit <= 0 uses the default context window.
func (s *Store) Recent(ctx context.Context, clientID, phoneNumber string, limit int) ([]Turn, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}

	query := s.db.Rebind(`
		SELECT id, client_id, phone_number, customer_name,
			   message_text, response_text, timestamp
		FROM conversations
		WHERE client_id = ? AND phone_number = ?
		ORDER BY timestamp DESC`) + fmt.Sprintf(" LIMIT %d", limit)

	rows, err := s.db.QueryContext(ctx, query, clientID, phoneNumber)
	if err != nil {
		return nil, fmt.Errorf("querying conversation turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		t, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		turns = append(turns, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// rows come newest-first; flip to chronological order for the caller.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// Stats summarizes one customer's history. MAX()/MIN() lose the DATETIME
// decltype on sqlite and come back as strings, so the first and last
// interaction are read with ordered column selects instead.
func (s *Store) Stats(ctx context.Context, clientID, phoneNumber string) (*Stats, error) {
	var stats Stats

	query := s.db.Rebind(`
		SELECT COUNT(*) FROM conversations
		WHERE client_id = ? AND phone_number = ?`)
	if err := s.db.QueryRowContext(ctx, query, clientID, phoneNumber).Scan(&stats.TotalMessages); err != nil {
		return nil, fmt.Errorf("counting conversation turns: %w", err)
	}
	if stats.TotalMessages == 0 {
		return &stats, nil
	}

	first, err := s.boundaryTimestamp(ctx, clientID, phoneNumber, "ASC")
	if err != nil {
		return nil, err
	}
	last, err := s.boundaryTimestamp(ctx, clientID, phoneNumber, "DESC")
	if err != nil {
		return nil, err
	}

	stats.FirstInteraction = first
	stats.LastInteraction = last
	return &stats, nil
}

// Count returns the number of stored turns for a tenant.
func (s *Store) Count(ctx context.Context, clientID string) (int, error) {
	query := s.db.Rebind(`SELECT COUNT(*) FROM conversations WHERE client_id = ?`)

	var count int
	if err := s.db.QueryRowContext(ctx, query, clientID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting conversations: %w", err)
	}
	return count, nil
}

func (s *Store) boundaryTimestamp(ctx context.Context, clientID, phoneNumber, direction string) (*time.Time, error) {
	query := s.db.Rebind(`
		SELECT timestamp FROM conversations
		WHERE client_id = ? AND phone_number = ?
		ORDER BY timestamp ` + direction + ` LIMIT 1`)

	var ts time.Time
	if err := s.db.QueryRowContext(ctx, query, clientID, phoneNumber).Scan(&ts); err != nil {
		return nil, fmt.Errorf("reading boundary timestamp: %w", err)
	}
	return &ts, nil
}

// scanner is implemented by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTurn(sc scanner) (*Turn, error) {
	var (
		t                          Turn
		customerName, responseText sql.NullString
	)

	err := sc.Scan(
		&t.ID, &t.ClientID, &t.PhoneNumber, &customerName,
		&t.MessageText, &responseText, &t.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	if customerName.Valid {
		t.CustomerName = customerName.String
	}
	if responseText.Valid {
		t.ResponseText = responseText.String
	}
	return &t, nil
}
