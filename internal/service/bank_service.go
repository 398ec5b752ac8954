package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/stemsi/qbank-manager/internal/model"
	"github.com/stemsi/qbank-manager/internal/repository"
)

// Sentinel errors for bank operations.
var (
	ErrEntryNotFound = errors.New("entry not found")
	ErrInvalidEntry  = errors.New("invalid entry")
)

// BankService handles question bank business logic.
//
// Load-modify-save cycles (Reconcile, CreateBlank, Update) are serialized
// within one BankService, so the background sync worker and requests cannot
// drop each other's writes. Separate processes sharing one store are not
// coordinated: the later save wins.
type BankService struct {
	store  repository.BankStore
	images *ImageService
	log    zerolog.Logger

	writeMu sync.Mutex
}

// NewBankService creates a new BankService.
func NewBankService(store repository.BankStore, images *ImageService, log zerolog.Logger) *BankService {
	return &BankService{
		store:  store,
		images: images,
		log:    log.With().Str("component", "bank_service").Logger(),
	}
}

// Reconcile loads the bank, appends blank entries for images that no entry
// references yet and persists the result when anything was appended.
func (s *BankService) Reconcile(ctx context.Context) ([]model.Entry, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entries, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}

	paths, err := s.images.Discover(ctx)
	if err != nil {
		return nil, err
	}

	entries, added := SyncEntries(entries, paths)
	if added == 0 {
		return entries, nil
	}

	if err := s.store.Save(ctx, entries); err != nil {
		return nil, fmt.Errorf("save bank: %w", err)
	}
	s.log.Info().
		Int("added", added).
		Int("total", len(entries)).
		Msg("Synced new images into bank")

	return entries, nil
}

// Summaries reconciles the bank and returns the list view of every entry.
func (s *BankService) Summaries(ctx context.Context) ([]model.EntrySummary, error) {
	entries, err := s.Reconcile(ctx)
	if err != nil {
		return nil, err
	}
	return Summarize(entries), nil
}

// Summarize builds the list view of entries, keeping positions as indexes.
func Summarize(entries []model.Entry) []model.EntrySummary {
	out := make([]model.EntrySummary, len(entries))
	for i, e := range entries {
		out[i] = model.EntrySummary{
			Index:         i,
			Image:         e.Image,
			Description:   e.Description,
			QuestionCount: len(e.Questions),
			ImageURL:      ImageURL(e.Image),
		}
	}
	return out
}

// CountComplete counts summaries that reference an image. Blank entries
// created by "new" still occupy a position but are not counted.
func CountComplete(summaries []model.EntrySummary) int {
	n := 0
	for _, s := range summaries {
		if s.Image != "" {
			n++
		}
	}
	return n
}

// CreateBlank appends an empty entry and returns its index.
func (s *BankService) CreateBlank(ctx context.Context) (int, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entries, err := s.store.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load bank: %w", err)
	}

	entries = append(entries, model.NewBlankEntry(""))
	if err := s.store.Save(ctx, entries); err != nil {
		return 0, fmt.Errorf("save bank: %w", err)
	}

	index := len(entries) - 1
	s.log.Info().Int("index", index).Msg("Blank entry created")
	return index, nil
}

// Get reconciles the bank and returns the entry at index.
func (s *BankService) Get(ctx context.Context, index int) (model.Entry, error) {
	entries, err := s.Reconcile(ctx)
	if err != nil {
		return model.Entry{}, err
	}
	if index < 0 || index >= len(entries) {
		return model.Entry{}, fmt.Errorf("%w: index %d of %d", ErrEntryNotFound, index, len(entries))
	}
	return entries[index], nil
}

// Images lists the discoverable images for the edit view.
func (s *BankService) Images(ctx context.Context) ([]string, error) {
	return s.images.Discover(ctx)
}

// Update validates entry and, when it is valid, replaces the entry at index
// and persists the bank. problems come from ParseQuestionForm; they are
// reported first and also block the save. The returned messages are
// non-empty exactly when the error wraps ErrInvalidEntry.
func (s *BankService) Update(ctx context.Context, index int, entry model.Entry, problems []FormProblem) ([]string, error) {
	msgs := ValidateSubmission(entry, problems)
	if len(msgs) > 0 {
		return msgs, fmt.Errorf("%w: %d problem(s)", ErrInvalidEntry, len(msgs))
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	entries, err := s.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	if index < 0 || index >= len(entries) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrEntryNotFound, index, len(entries))
	}

	entries[index] = entry
	if err := s.store.Save(ctx, entries); err != nil {
		return nil, fmt.Errorf("save bank: %w", err)
	}

	s.log.Info().
		Int("index", index).
		Str("image", entry.Image).
		Int("questions", len(entry.Questions)).
		Msg("Entry saved")
	return nil, nil
}
