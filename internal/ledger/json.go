package ledger

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cleared-dev/statements/internal/model"
)

// WriteJSON writes the ledger as an indented JSON array.
func WriteJSON(w io.Writer, txns []model.Transaction) error {
	if txns == nil {
		txns = []model.Transaction{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(txns); err != nil {
		return fmt.Errorf("encoding ledger JSON: %w", err)
	}
	return nil
}

// ReadJSON reads a ledger written by WriteJSON.
func ReadJSON(r io.Reader) ([]model.Transaction, error) {
	var txns []model.Transaction
	if err := json.NewDecoder(r).Decode(&txns); err != nil {
		return nil, fmt.Errorf("decoding ledger JSON: %w", err)
	}
	return txns, nil
}
