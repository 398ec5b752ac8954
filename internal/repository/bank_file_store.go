package repository

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/stemsi/qbank-manager/internal/model"
)

// FileBankStore keeps the bank in a line-delimited JSON file.
//
// Save truncates and rewrites the file in place. It is not atomic: a crash in
// the middle of Save can leave a partially written bank behind.
type FileBankStore struct {
	path string
	log  zerolog.Logger
}

// NewFileBankStore creates a FileBankStore for path. The file does not need
// to exist yet.
func NewFileBankStore(path string, log zerolog.Logger) *FileBankStore {
	return &FileBankStore{
		path: path,
		log:  log.With().Str("component", "file_bank_store").Str("path", path).Logger(),
	}
}

// Load reads every entry. Blank lines and lines that are not a JSON object
// are skipped without error.
func (s *FileBankStore) Load(ctx context.Context) ([]model.Entry, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Entry{}, nil
		}
		return nil, fmt.Errorf("open bank file: %w", err)
	}
	defer f.Close()

	entries := []model.Entry{}
	dropped := 0
	r := bufio.NewReader(f)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, readErr := r.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			if e, ok := decodeEntry(line); ok {
				entries = append(entries, e)
			} else {
				dropped++
			}
		}

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("read bank file: %w", readErr)
		}
	}

	if dropped > 0 {
		s.log.Debug().Int("dropped", dropped).Msg("Skipped malformed bank lines")
	}
	return entries, nil
}

// Save rewrites the whole file, one entry per line.
func (s *FileBankStore) Save(ctx context.Context, entries []model.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create bank dir: %w", err)
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create bank file: %w", err)
	}

	w := bufio.NewWriter(f)
	for i, e := range entries {
		data, err := encodeEntry(e)
		if err != nil {
			f.Close()
			return fmt.Errorf("encode entry %d: %w", i, err)
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write bank file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close bank file: %w", err)
	}

	s.log.Debug().Int("entries", len(entries)).Msg("Bank saved")
	return nil
}
