package repository

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/stemsi/qbank-manager/internal/model"
)

// BankStore persists the ordered question bank. Position is the only
// identifier, so every backend must keep entry order across Load and Save.
type BankStore interface {
	// Load returns all entries in stored order. A store that was never
	// saved yields an empty slice.
	Load(ctx context.Context) ([]model.Entry, error)
	// Save replaces the stored bank with entries.
	Save(ctx context.Context, entries []model.Entry) error
}

// decodeEntry parses one stored record. ok is false for records that are not
// a JSON object; callers drop them.
func decodeEntry(data []byte) (model.Entry, bool) {
	var e model.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return model.Entry{}, false
	}
	return e, true
}

// encodeEntry writes one record without HTML escaping so stored text that
// was carried through unchanged stays byte-identical.
func encodeEntry(e model.Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
