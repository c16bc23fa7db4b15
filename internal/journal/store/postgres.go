package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fondos/internal/journal/models"
	id "fondos/pkg/domain"
	"fondos/pkg/platform/sentinel"
)

// Postgres persists journal records in PostgreSQL. The seq column gives
// append order; metadata is stored as JSONB.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed journal store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Save(ctx context.Context, tx models.Transaction) error {
	metadata, err := json.Marshal(tx.Metadata)
	if err != nil {
		return fmt.Errorf("marshal transaction metadata: %w", err)
	}

	query := `
		INSERT INTO transactions (id, client_id, fund_id, type, status, amount, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(ctx, query,
		uuid.UUID(tx.ID), uuid.UUID(tx.ClientID), uuid.UUID(tx.FundID),
		string(tx.Type), string(tx.Status), tx.Amount, metadata, tx.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("save transaction: %w", err)
	}
	return nil
}

func (s *Postgres) FindByExternalID(ctx context.Context, txID id.TransactionID) (models.Transaction, error) {
	query := `
		SELECT id, client_id, fund_id, type, status, amount, metadata, created_at
		FROM transactions
		WHERE id = $1
	`
	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, uuid.UUID(txID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Transaction{}, sentinel.ErrNotFound
		}
		return models.Transaction{}, fmt.Errorf("find transaction: %w", err)
	}
	return tx, nil
}

func (s *Postgres) ListByClient(ctx context.Context, clientID id.ClientID, filter ListFilter) (Page, error) {
	where, args := buildFilter(filter, []string{"client_id = $1"}, []any{uuid.UUID(clientID)})
	return s.list(ctx, where, args, filter)
}

func (s *Postgres) List(ctx context.Context, filter ListFilter) (Page, error) {
	where, args := buildFilter(filter, nil, nil)
	return s.list(ctx, where, args, filter)
}

func (s *Postgres) MarkNotified(ctx context.Context, txID id.TransactionID) error {
	query := `
		UPDATE transactions
		SET metadata = jsonb_set(metadata, '{notification_sent}', 'true')
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, uuid.UUID(txID))
	if err != nil {
		return fmt.Errorf("mark transaction notified: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark transaction notified: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// buildFilter appends type/status predicates to the given conditions.
func buildFilter(filter ListFilter, conds []string, args []any) (string, []any) {
	if filter.Type != "" {
		args = append(args, string(filter.Type))
		conds = append(conds, "type = $"+strconv.Itoa(len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (s *Postgres) list(ctx context.Context, where string, args []any, filter ListFilter) (Page, error) {
	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions"+where, args...).Scan(&total); err != nil {
		return Page{}, fmt.Errorf("count transactions: %w", err)
	}

	query := `
		SELECT id, client_id, fund_id, type, status, amount, metadata, created_at
		FROM transactions` + where + `
		ORDER BY seq DESC
	`
	args = append(args, filter.Offset)
	query += " OFFSET $" + strconv.Itoa(len(args))
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += " LIMIT $" + strconv.Itoa(len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return Page{}, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var out []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return Page{}, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return Page{}, fmt.Errorf("list transactions: %w", err)
	}
	return Page{Transactions: out, Total: total}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (models.Transaction, error) {
	var (
		tx       models.Transaction
		txID     uuid.UUID
		clientID uuid.UUID
		fundID   uuid.UUID
		txType   string
		status   string
		metadata []byte
	)
	if err := row.Scan(&txID, &clientID, &fundID, &txType, &status, &tx.Amount, &metadata, &tx.CreatedAt); err != nil {
		return models.Transaction{}, err
	}
	tx.ID = id.TransactionID(txID)
	tx.ClientID = id.ClientID(clientID)
	tx.FundID = id.FundID(fundID)
	tx.Type = models.Type(txType)
	tx.Status = models.Status(status)
	if err := json.Unmarshal(metadata, &tx.Metadata); err != nil {
		return models.Transaction{}, fmt.Errorf("unmarshal transaction metadata: %w", err)
	}
	return tx, nil
}
