package simulator

import (
	"context"
	"time"

	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Metrics interface {
		ObserveTick(outcome string)
		ObserveTrigger(source model.TriggerSource, accepted bool)
		ObserveCommit(err error, stage string, started time.Time)
		SetInventory(inv model.Inventory)
		SetChainHeight(height int)
	}

	BlockSink interface {
		WriteBlock(ctx context.Context, b model.Block) error
	}
)
