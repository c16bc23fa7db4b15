package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fondos/internal/catalog/models"
	id "fondos/pkg/domain"
	"fondos/pkg/platform/sentinel"
)

// Postgres persists funds in PostgreSQL.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed fund store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) CreateIfNameAvailable(ctx context.Context, fund models.Fund) error {
	query := `
		INSERT INTO funds (id, name, minimum_amount, category, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(fund.ID), fund.Name, fund.MinimumAmount, string(fund.Category), fund.Active, fund.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create fund: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, fundID id.FundID) (models.Fund, error) {
	query := `
		SELECT id, name, minimum_amount, category, active, created_at
		FROM funds WHERE id = $1
	`
	return s.scanFund(s.db.QueryRowContext(ctx, query, uuid.UUID(fundID)))
}

func (s *Postgres) List(ctx context.Context) ([]models.Fund, error) {
	query := `
		SELECT id, name, minimum_amount, category, active, created_at
		FROM funds ORDER BY name ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list funds: %w", err)
	}
	defer rows.Close()

	var funds []models.Fund
	for rows.Next() {
		var (
			fund     models.Fund
			rowID    uuid.UUID
			category string
		)
		if err := rows.Scan(&rowID, &fund.Name, &fund.MinimumAmount, &category, &fund.Active, &fund.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan fund: %w", err)
		}
		fund.ID = id.FundID(rowID)
		fund.Category = models.Category(category)
		funds = append(funds, fund)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list funds: %w", err)
	}
	return funds, nil
}

func (s *Postgres) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM funds`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count funds: %w", err)
	}
	return count, nil
}

func (s *Postgres) SetActive(ctx context.Context, fundID id.FundID, active bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE funds SET active = $2 WHERE id = $1`, uuid.UUID(fundID), active)
	if err != nil {
		return fmt.Errorf("set fund active: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set fund active: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Postgres) scanFund(row *sql.Row) (models.Fund, error) {
	var (
		fund     models.Fund
		rowID    uuid.UUID
		category string
	)
	err := row.Scan(&rowID, &fund.Name, &fund.MinimumAmount, &category, &fund.Active, &fund.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Fund{}, sentinel.ErrNotFound
		}
		return models.Fund{}, fmt.Errorf("find fund: %w", err)
	}
	fund.ID = id.FundID(rowID)
	fund.Category = models.Category(category)
	return fund, nil
}
