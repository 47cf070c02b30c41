package transport

import "github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Simulator is the read and command surface the REST handlers serve.
	Simulator interface {
		Snapshot() model.Snapshot
		Block(id int) (model.Block, bool)
		Trigger() (model.Transaction, bool)
		Verify() (int, error)
	}
)
