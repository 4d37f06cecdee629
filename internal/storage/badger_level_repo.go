package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
)

const badgerKeyPrefix = "level:"

// BadgerLevelRepo хранит уровни во встроенной BadgerDB
type BadgerLevelRepo struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
}

// NewBadgerLevelRepo открывает хранилище в <dataPath>/levels
func NewBadgerLevelRepo(dataPath string) (*BadgerLevelRepo, error) {
	dbPath := filepath.Join(dataPath, "levels")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &BadgerLevelRepo{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
	}, nil
}

func levelKey(id string) []byte {
	return []byte(badgerKeyPrefix + id)
}

// Close закрывает хранилище данных
func (r *BadgerLevelRepo) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.isReady {
		return nil
	}

	r.isReady = false
	return r.db.Close()
}

// Save сохраняет уровень
func (r *BadgerLevelRepo) Save(ctx context.Context, rec *LevelRecord) error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if !r.isReady {
		return fmt.Errorf("хранилище не готово")
	}
	if rec == nil || rec.ID == "" {
		return fmt.Errorf("недействительный ID уровня")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := EncodeRecord(rec)
	if err != nil {
		return err
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(levelKey(rec.ID), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}
	return nil
}

// Load загружает уровень
func (r *BadgerLevelRepo) Load(ctx context.Context, id string) (*LevelRecord, bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if !r.isReady {
		return nil, false, fmt.Errorf("хранилище не готово")
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	var rec *LevelRecord
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(levelKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			decoded, err := DecodeRecord(val)
			rec = decoded
			return err
		})
	})

	if err == badger.ErrKeyNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("ошибка загрузки уровня %s: %w", id, err)
	}
	return rec, true, nil
}

// Delete удаляет уровень
func (r *BadgerLevelRepo) Delete(ctx context.Context, id string) error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if !r.isReady {
		return fmt.Errorf("хранилище не готово")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	err := r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(levelKey(id)); err != nil {
			return err
		}
		return txn.Delete(levelKey(id))
	})
	if err == badger.ErrKeyNotFound {
		return fmt.Errorf("%w: %s", ErrLevelNotFound, id)
	}
	if err != nil {
		return fmt.Errorf("ошибка удаления уровня %s: %w", id, err)
	}
	return nil
}

// List обходит все ключи с префиксом level:
func (r *BadgerLevelRepo) List(ctx context.Context) ([]*LevelRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if !r.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	recs := make([]*LevelRecord, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(badgerKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				rec, err := DecodeRecord(val)
				if err != nil {
					return err
				}
				recs = append(recs, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения уровней: %w", err)
	}

	sortRecords(recs)
	return recs, nil
}
