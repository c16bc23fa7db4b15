package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"fondos/internal/client/models"
	id "fondos/pkg/domain"
	"fondos/pkg/platform/sentinel"
)

// Postgres persists clients and their memberships in PostgreSQL. Save
// rewrites the membership rows inside one DB transaction so the client row
// and its memberships never diverge.
type Postgres struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed client store.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (s *Postgres) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, name, email, password_hash, phone, balance,
			notification_preference, active, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(ctx, query,
		uuid.UUID(client.ID), client.Name, strings.ToLower(client.Email),
		client.PasswordHash, client.Phone, client.Balance,
		string(client.Preference), client.Active, string(client.Role),
		client.CreatedAt, client.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create client: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, clientID id.ClientID) (*models.Client, error) {
	return s.findOne(ctx, `WHERE id = $1`, uuid.UUID(clientID))
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*models.Client, error) {
	return s.findOne(ctx, `WHERE email = $1`, strings.ToLower(email))
}

func (s *Postgres) findOne(ctx context.Context, where string, arg any) (*models.Client, error) {
	query := `
		SELECT id, name, email, password_hash, phone, balance,
			notification_preference, active, role, created_at, updated_at
		FROM clients ` + where

	var (
		client     models.Client
		rowID      uuid.UUID
		preference string
		role       string
	)
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&rowID, &client.Name, &client.Email, &client.PasswordHash,
		&client.Phone, &client.Balance, &preference, &client.Active,
		&role, &client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	client.ID = id.ClientID(rowID)
	client.Preference = models.NotificationPreference(preference)
	client.Role = models.Role(role)

	memberships, err := s.loadMemberships(ctx, client.ID)
	if err != nil {
		return nil, err
	}
	client.Memberships = memberships
	return &client, nil
}

func (s *Postgres) loadMemberships(ctx context.Context, clientID id.ClientID) ([]models.Membership, error) {
	query := `
		SELECT fund_id, invested_amount, subscribed_at
		FROM memberships
		WHERE client_id = $1
		ORDER BY position ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(clientID))
	if err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}
	defer rows.Close()

	var memberships []models.Membership
	for rows.Next() {
		var (
			m      models.Membership
			fundID uuid.UUID
		)
		if err := rows.Scan(&fundID, &m.InvestedAmount, &m.SubscribedAt); err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		m.FundID = id.FundID(fundID)
		memberships = append(memberships, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load memberships: %w", err)
	}
	return memberships, nil
}

// Save upserts the client row and rewrites its membership rows in a single
// DB transaction. Membership order is preserved through the position column
// because cancel rollback re-inserts at the original position.
func (s *Postgres) Save(ctx context.Context, client *models.Client) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save client: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	upsert := `
		INSERT INTO clients (id, name, email, password_hash, phone, balance,
			notification_preference, active, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			phone = EXCLUDED.phone,
			balance = EXCLUDED.balance,
			notification_preference = EXCLUDED.notification_preference,
			active = EXCLUDED.active,
			role = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := tx.ExecContext(ctx, upsert,
		uuid.UUID(client.ID), client.Name, strings.ToLower(client.Email),
		client.PasswordHash, client.Phone, client.Balance,
		string(client.Preference), client.Active, string(client.Role),
		client.CreatedAt, client.UpdatedAt,
	); err != nil {
		return fmt.Errorf("save client: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM memberships WHERE client_id = $1`, uuid.UUID(client.ID)); err != nil {
		return fmt.Errorf("clear memberships: %w", err)
	}

	if len(client.Memberships) > 0 {
		fundIDs := make([]uuid.UUID, len(client.Memberships))
		amounts := make([]int64, len(client.Memberships))
		subscribedAts := make([]time.Time, len(client.Memberships))
		positions := make([]int64, len(client.Memberships))
		for i, m := range client.Memberships {
			fundIDs[i] = uuid.UUID(m.FundID)
			amounts[i] = m.InvestedAmount
			subscribedAts[i] = m.SubscribedAt
			positions[i] = int64(i)
		}

		insert := `
			INSERT INTO memberships (client_id, fund_id, invested_amount, subscribed_at, position)
			SELECT $1, unnest($2::uuid[]), unnest($3::bigint[]), unnest($4::timestamptz[]), unnest($5::bigint[])
		`
		if _, err := tx.ExecContext(ctx, insert,
			uuid.UUID(client.ID), pq.Array(fundIDs), pq.Array(amounts),
			pq.Array(subscribedAts), pq.Array(positions),
		); err != nil {
			return fmt.Errorf("write memberships: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save client: %w", err)
	}
	return nil
}

// List returns all active clients ordered by name.
func (s *Postgres) List(ctx context.Context) ([]*models.Client, error) {
	query := `
		SELECT id FROM clients WHERE active ORDER BY name ASC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	var ids []id.ClientID
	for rows.Next() {
		var rowID uuid.UUID
		if err := rows.Scan(&rowID); err != nil {
			return nil, fmt.Errorf("scan client id: %w", err)
		}
		ids = append(ids, id.ClientID(rowID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}

	clients := make([]*models.Client, 0, len(ids))
	for _, clientID := range ids {
		client, err := s.FindByID(ctx, clientID)
		if err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, nil
}
