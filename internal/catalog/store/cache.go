package store

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"fondos/internal/catalog/models"
	"fondos/internal/platform/redis"
	id "fondos/pkg/domain"
)

// Store is the catalog persistence contract shared by the implementations
// in this package.
type Store interface {
	CreateIfNameAvailable(ctx context.Context, fund models.Fund) error
	FindByID(ctx context.Context, fundID id.FundID) (models.Fund, error)
	List(ctx context.Context) ([]models.Fund, error)
	Count(ctx context.Context) (int, error)
	SetActive(ctx context.Context, fundID id.FundID, active bool) error
}

// Cached is a Redis read-through cache over another Store. Funds are
// near-immutable reference data, so a short TTL is enough to keep
// deactivations visible without invalidation plumbing.
type Cached struct {
	inner  Store
	redis  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewCached wraps inner with a Redis cache. Cache failures degrade to the
// inner store; they are logged at debug level and never surface.
func NewCached(inner Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Cached {
	return &Cached{inner: inner, redis: client, ttl: ttl, logger: logger}
}

func fundKey(fundID id.FundID) string { return "fund:" + fundID.String() }

const fundListKey = "funds:all"

func (c *Cached) FindByID(ctx context.Context, fundID id.FundID) (models.Fund, error) {
	key := fundKey(fundID)
	if raw, err := c.redis.Get(ctx, key).Bytes(); err == nil {
		var fund cachedFund
		if err := json.Unmarshal(raw, &fund); err == nil {
			return fund.toModel(), nil
		}
	}

	fund, err := c.inner.FindByID(ctx, fundID)
	if err != nil {
		return models.Fund{}, err
	}

	if raw, err := json.Marshal(fromModel(fund)); err == nil {
		if err := c.redis.Set(ctx, key, raw, c.ttl).Err(); err != nil {
			c.logger.DebugContext(ctx, "fund cache write failed", "fund_id", fundID, "error", err)
		}
	}
	return fund, nil
}

func (c *Cached) List(ctx context.Context) ([]models.Fund, error) {
	if raw, err := c.redis.Get(ctx, fundListKey).Bytes(); err == nil {
		var cached []cachedFund
		if err := json.Unmarshal(raw, &cached); err == nil {
			funds := make([]models.Fund, len(cached))
			for i, f := range cached {
				funds[i] = f.toModel()
			}
			return funds, nil
		}
	}

	funds, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	cached := make([]cachedFund, len(funds))
	for i, f := range funds {
		cached[i] = fromModel(f)
	}
	if raw, err := json.Marshal(cached); err == nil {
		if err := c.redis.Set(ctx, fundListKey, raw, c.ttl).Err(); err != nil {
			c.logger.DebugContext(ctx, "fund list cache write failed", "error", err)
		}
	}
	return funds, nil
}

// CreateIfNameAvailable writes through and drops the list key.
func (c *Cached) CreateIfNameAvailable(ctx context.Context, fund models.Fund) error {
	if err := c.inner.CreateIfNameAvailable(ctx, fund); err != nil {
		return err
	}
	c.invalidate(ctx, fundListKey)
	return nil
}

func (c *Cached) Count(ctx context.Context) (int, error) {
	return c.inner.Count(ctx)
}

// SetActive writes through and drops both keys so the flag change is
// visible immediately rather than after TTL expiry.
func (c *Cached) SetActive(ctx context.Context, fundID id.FundID, active bool) error {
	if err := c.inner.SetActive(ctx, fundID, active); err != nil {
		return err
	}
	c.invalidate(ctx, fundKey(fundID), fundListKey)
	return nil
}

func (c *Cached) invalidate(ctx context.Context, keys ...string) {
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		c.logger.DebugContext(ctx, "fund cache invalidation failed", "keys", keys, "error", err)
	}
}

// cachedFund is the Redis wire form; kept separate from the domain model so
// cache payloads survive model refactors explicitly.
type cachedFund struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	MinimumAmount int64     `json:"minimum_amount"`
	Category      string    `json:"category"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
}

func fromModel(fund models.Fund) cachedFund {
	return cachedFund{
		ID:            fund.ID.String(),
		Name:          fund.Name,
		MinimumAmount: fund.MinimumAmount,
		Category:      string(fund.Category),
		Active:        fund.Active,
		CreatedAt:     fund.CreatedAt,
	}
}

func (f cachedFund) toModel() models.Fund {
	fundID, _ := id.ParseFundID(f.ID)
	return models.Fund{
		ID:            fundID,
		Name:          f.Name,
		MinimumAmount: f.MinimumAmount,
		Category:      models.Category(f.Category),
		Active:        f.Active,
		CreatedAt:     f.CreatedAt,
	}
}
