package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Checker pings the backing stores for the health endpoint.
type Checker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
}

func NewChecker(pool *pgxpool.Pool, rdb *redis.Client) *Checker {
	return &Checker{pool: pool, rdb: rdb}
}

// Check returns a status per store: "ok" or the error text.
func (c *Checker) Check(ctx context.Context) map[string]string {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	status := map[string]string{"postgres": "ok", "redis": "ok"}
	if err := c.pool.Ping(ctx); err != nil {
		status["postgres"] = err.Error()
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		status["redis"] = err.Error()
	}
	return status
}
