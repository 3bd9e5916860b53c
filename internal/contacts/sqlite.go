package contacts

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"

	_ "modernc.org/sqlite"

	"github.com/joseph-ayodele/sales-tracker/internal/entity"
)

var contactSchema = []string{
	`CREATE TABLE contact (
		seq         INTEGER PRIMARY KEY AUTOINCREMENT,
		customer_id TEXT NOT NULL,
		name        TEXT NOT NULL,
		email       TEXT NOT NULL,
		phone       TEXT NOT NULL
	)`,
	`CREATE INDEX contact_customer_idx ON contact (customer_id, seq)`,
}

// SQLiteRegister stores contacts in a private in-memory SQLite database that disappears on Close.
type SQLiteRegister struct {
	db     *sql.DB
	closed atomic.Bool
	logger *slog.Logger
}

// OpenSQLiteRegister creates the database and its table.
func OpenSQLiteRegister(ctx context.Context, logger *slog.Logger) (*SQLiteRegister, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Every new connection to :memory: is a fresh database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	for _, stmt := range contactSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create contact table: %w", err)
		}
	}
	logger.Debug("contacts.sqlite.open")
	return &SQLiteRegister{db: db, logger: logger}, nil
}

func (s *SQLiteRegister) Add(ctx context.Context, c entity.Contact) error {
	c = Normalize(c)
	if err := Validate(c); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrClosed
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO contact (customer_id, name, email, phone) VALUES (?, ?, ?, ?)`,
		c.CustomerID, c.Name, c.Email, c.Phone)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

func (s *SQLiteRegister) List(ctx context.Context, customerID string) ([]entity.Contact, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT customer_id, name, email, phone FROM contact WHERE customer_id = ? ORDER BY seq`,
		customerID)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Contact, 0)
	for rows.Next() {
		var c entity.Contact
		if err := rows.Scan(&c.CustomerID, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteRegister) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	s.logger.Debug("contacts.sqlite.close")
	return s.db.Close()
}
