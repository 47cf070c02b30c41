package export

import (
	"context"

	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Repository interface {
		InsertBlocks(ctx context.Context, records []model.BlockRecord) error
		InsertTransactions(ctx context.Context, records []model.TransactionRecord) error
	}

	Metrics interface {
		ObserveFlush(status string, blocks int)
		SetBreakerState(state int)
	}
)
