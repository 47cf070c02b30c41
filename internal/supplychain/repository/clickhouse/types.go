package clickhouse

import (
	"context"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		Observe(operation string, err error, started time.Time)
	}

	// Conn is the subset of the ClickHouse driver the repository needs.
	Conn interface {
		PrepareBatch(ctx context.Context, query string) (Batch, error)
		Ping(ctx context.Context) error
		Close() error
	}

	Batch interface {
		Append(v ...any) error
		Send() error
	}
)
