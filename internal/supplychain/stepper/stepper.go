// Package stepper synthesizes the next supply chain transaction.
package stepper

import "github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"

// transferAmount is the number of units moved by every transaction.
const transferAmount = 1

// Advance builds the transaction for stages[current] and returns the index of the stage
// that becomes active once it commits. An empty stage table yields a zero transaction.
func Advance(stages []model.Stage, current int) (model.Transaction, int) {
	if len(stages) == 0 {
		return model.Transaction{}, 0
	}
	current = wrap(current, len(stages))

	from := model.GenesisSource
	if current > 0 {
		from = stages[current-1].Name
	}
	dst := stages[current]

	return model.Transaction{
		From:   from,
		To:     dst.Name,
		Amount: transferAmount,
		Action: dst.Action,
	}, (current + 1) % len(stages)
}

func wrap(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
