package model

// Transaction moves goods from one stage to the next.
// Field order and json names are part of the block digest input.
type Transaction struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int    `json:"amount"`
	Action string `json:"action"`
}

// PendingTransaction is the single transaction awaiting commit.
type PendingTransaction struct {
	Transaction Transaction
	Processing  bool
}

// TriggerSource tells what started a transaction.
type TriggerSource string

var (
	// TriggerManual marks an explicit "progress supply chain now" command.
	TriggerManual TriggerSource = "manual"
	// TriggerTimer marks a transaction started by the probabilistic ticker.
	TriggerTimer TriggerSource = "timer"
)
