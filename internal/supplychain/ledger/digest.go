package ledger

import (
	"bytes"
	"encoding/json"
	"strconv"
	"unicode/utf16"

	"github.com/goodnatureofminers/supplychain-simulator/internal/supplychain/model"
)

// Digest fingerprints a block from its id, stage name and transactions.
//
// The input is the decimal id, the stage name and the JSON array of transactions
// concatenated together. Every UTF-16 code unit c folds into a 32-bit signed
// accumulator as h = h*31 + c with wrap-around, and the absolute value is rendered
// in lowercase hex. It is a checksum for chaining blocks visually, not a
// cryptographic hash.
func Digest(id int, stage string, txs []model.Transaction) string {
	data := strconv.Itoa(id) + stage + encodeTransactions(txs)

	var h int32
	for _, c := range utf16.Encode([]rune(data)) {
		h = (h << 5) - h + int32(c)
	}

	v := int64(h)
	if v < 0 {
		v = -v
	}
	return strconv.FormatInt(v, 16)
}

func encodeTransactions(txs []model.Transaction) string {
	if txs == nil {
		txs = []model.Transaction{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Transaction only holds strings and ints, encoding cannot fail.
	_ = enc.Encode(txs)
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
