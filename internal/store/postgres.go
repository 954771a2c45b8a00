// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Depot Contributors

// Package store provides PostgreSQL connection and schema management.
package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// Startup connection probing. Request paths never retry; this only covers
// the window where the database container is still coming up.
const (
	connectPingRetries  = 5
	connectPingInterval = time.Second
)

// Connect opens a pgx connection pool and verifies it with a ping.
// The ping is retried with a constant backoff so that the service can start
// alongside a database that is not yet accepting connections.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").
			With("operation", "create connection pool").
			Wrap(err)
	}

	backoff := retry.WithMaxRetries(connectPingRetries, retry.NewConstant(connectPingInterval))
	if err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		if pingErr := pool.Ping(ctx); pingErr != nil {
			return retry.RetryableError(pingErr)
		}
		return nil
	}); err != nil {
		pool.Close()
		return nil, oops.Code("DB_PING_FAILED").
			With("operation", "ping database").
			Wrap(err)
	}

	return pool, nil
}
