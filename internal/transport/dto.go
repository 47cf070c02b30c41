package transport

import (
	"time"

	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"
)

const displayTimeLayout = "15:04:05"

type blockResponse struct {
	ID             int                 `json:"id"`
	Stage          string              `json:"stage"`
	Action         string              `json:"action"`
	Timestamp      string              `json:"timestamp"`
	DisplayTime    string              `json:"displayTime"`
	PreviousDigest string              `json:"previousDigest"`
	Digest         string              `json:"digest"`
	Transactions   []model.Transaction `json:"transactions"`
}

type inventoryItem struct {
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
}

type stateResponse struct {
	Step       int                `json:"step"`
	Stage      model.Stage        `json:"stage"`
	Stages     []model.Stage      `json:"stages"`
	Blocks     []blockResponse    `json:"blocks"`
	Inventory  []inventoryItem    `json:"inventory"`
	Pending    *model.Transaction `json:"pending"`
	Processing bool               `json:"processing"`
}

type progressResponse struct {
	Accepted bool               `json:"accepted"`
	Pending  *model.Transaction `json:"pending"`
}

type verifyResponse struct {
	Valid   bool   `json:"valid"`
	Height  int    `json:"height"`
	BlockID int    `json:"blockId,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func toBlockResponse(b model.Block) blockResponse {
	txs := b.Transactions
	if txs == nil {
		txs = []model.Transaction{}
	}
	return blockResponse{
		ID:             b.ID,
		Stage:          b.Stage,
		Action:         b.Action,
		Timestamp:      b.Timestamp.Format(time.RFC3339),
		DisplayTime:    b.Timestamp.Local().Format(displayTimeLayout),
		PreviousDigest: b.PreviousDigest,
		Digest:         b.Digest,
		Transactions:   txs,
	}
}

// toBlockResponses renders blocks newest first.
func toBlockResponses(blocks []model.Block) []blockResponse {
	out := make([]blockResponse, 0, len(blocks))
	for i := len(blocks) - 1; i >= 0; i-- {
		out = append(out, toBlockResponse(blocks[i]))
	}
	return out
}

func toStateResponse(s model.Snapshot) stateResponse {
	inv := make([]inventoryItem, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		inv = append(inv, inventoryItem{Category: string(c), Quantity: s.Inventory[c]})
	}
	return stateResponse{
		Step:       s.Step,
		Stage:      s.Stage,
		Stages:     s.Stages,
		Blocks:     toBlockResponses(s.Blocks),
		Inventory:  inv,
		Pending:    s.Pending,
		Processing: s.Processing,
	}
}
