package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/qbank-manager/internal/config"
	"github.com/stemsi/qbank-manager/internal/repository"
)

// ErrUnknownStoreDriver is returned for an unsupported STORE_DRIVER value.
var ErrUnknownStoreDriver = errors.New("unknown store driver")

// OpenBankStore builds the BankStore selected by cfg.StoreDriver. The returned
// close function releases any connection the backend holds.
func OpenBankStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (repository.BankStore, func(), error) {
	noop := func() {}

	switch cfg.StoreDriver {
	case config.StoreDriverFile, "":
		log.Info().Str("path", cfg.DataPath).Msg("Using file bank store")
		return repository.NewFileBankStore(cfg.DataPath, log), noop, nil

	case config.StoreDriverMemory:
		log.Warn().Msg("Using memory bank store; edits are lost on exit")
		return repository.NewMemoryBankStore(), noop, nil

	case config.StoreDriverPostgres:
		pool, err := NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewPostgresBankStore(pool), pool.Close, nil

	case config.StoreDriverSQLite:
		db, err := NewSQLiteDB(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		store, err := repository.NewSQLiteBankStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, func() { db.Close() }, nil

	case config.StoreDriverRedis:
		rdb, err := NewRedisClient(ctx, cfg, log)
		if err != nil {
			return nil, nil, err
		}
		store := repository.NewRedisBankStore(rdb, config.StoreKey.BankEntriesKey(cfg.RedisNamespace))
		return store, func() { rdb.Close() }, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", ErrUnknownStoreDriver, cfg.StoreDriver)
}
