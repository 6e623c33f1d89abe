package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"GroveWorld/internal/grove/app/port"
	"GroveWorld/internal/grove/errs"
)

const (
	OpGet     = "store.mysql.Get"
	OpSet     = "store.mysql.Set"
	OpCAS     = "store.mysql.CompareAndSwap"
	OpMigrate = "store.mysql.Migrate"
)

const maxSetAttempts = 3

var _ port.Store = (*Store)(nil)

// Store maps the kv contract onto one gorm table. The *gorm.DB must be
// opened with TranslateError so duplicate keys surface as gorm.ErrDuplicatedKey.
type Store struct {
	db *gorm.DB
}

func NewStore(ctx context.Context, db *gorm.DB) (*Store, error) {
	if err := db.WithContext(ctx).AutoMigrate(&KVRecord{}); err != nil {
		return nil, errs.Wrap(OpMigrate, errs.KindInfra, err, nil)
	}
	return &Store{db: db}, nil
}

func (s *Store) Get(ctx context.Context, key string) (port.Record, error) {
	var m KVRecord
	err := s.db.WithContext(ctx).Where("id = ?", key).First(&m).Error

	switch {
	case err == nil:
		return port.Record{Value: m.Payload, Version: m.Version}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return port.Record{}, port.ErrNotFound
	default:
		return port.Record{}, errs.Wrap(OpGet, errs.KindInfra, err, map[string]any{"key": key})
	}
}

// Set locks the row when present and bumps its version; a racing first
// insert is retried as an update.
func (s *Store) Set(ctx context.Context, key string, value []byte) (uint64, error) {
	var version uint64
	var err error
	for attempt := 0; attempt < maxSetAttempts; attempt++ {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var m KVRecord
			lookup := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", key).First(&m).Error
			switch {
			case errors.Is(lookup, gorm.ErrRecordNotFound):
				version = 1
				return tx.Create(&KVRecord{ID: key, Payload: value, Version: 1}).Error
			case lookup != nil:
				return lookup
			}
			version = m.Version + 1
			return tx.Model(&KVRecord{}).Where("id = ?", key).
				Updates(map[string]any{"payload": value, "version": version}).Error
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
	}
	if err != nil {
		return 0, errs.Wrap(OpSet, errs.KindInfra, err, map[string]any{"key": key})
	}
	return version, nil
}

func (s *Store) CompareAndSwap(ctx context.Context, key string, expected uint64, value []byte) (uint64, error) {
	db := s.db.WithContext(ctx)
	if expected == 0 {
		err := db.Create(&KVRecord{ID: key, Payload: value, Version: 1}).Error
		switch {
		case err == nil:
			return 1, nil
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return 0, port.ErrVersionConflict
		default:
			return 0, errs.Wrap(OpCAS, errs.KindInfra, err, map[string]any{"key": key})
		}
	}

	res := db.Model(&KVRecord{}).
		Where("id = ? AND version = ?", key, expected).
		Updates(map[string]any{"payload": value, "version": gorm.Expr("version + 1")})
	if res.Error != nil {
		return 0, errs.Wrap(OpCAS, errs.KindInfra, res.Error, map[string]any{"key": key, "expected": expected})
	}
	if res.RowsAffected == 0 {
		return 0, port.ErrVersionConflict
	}
	return expected + 1, nil
}

func (s *Store) Close(context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
