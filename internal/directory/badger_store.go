// Fleetrelay - Real-Time Driver Location Relay
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/fleetrelay

package directory

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/fleetrelay/internal/config"
	"github.com/tomtom215/fleetrelay/internal/logging"
	"github.com/tomtom215/fleetrelay/internal/models"
)

const (
	driverKeyPrefix   = "driver:"
	usernameKeyPrefix = "driver_username:"
	driverSeqKey      = "seq:driver_id"
	seqBandwidth      = 100
)

// storedDriver is the persisted form. models.Driver hides the hash from JSON.
type storedDriver struct {
	models.Driver
	PasswordHash string `json:"passwordHash"`
}

// BadgerStore persists drivers in BadgerDB.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
	now func() time.Time
}

// OpenBadgerStore opens the store described by cfg.
// With InMemory set nothing is written to disk.
func OpenBadgerStore(cfg *config.DirectoryConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open directory store: %w", err)
	}

	store, err := NewBadgerStore(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	logging.Info().Str("path", cfg.Path).Bool("in_memory", cfg.InMemory).Msg("Driver directory opened")
	return store, nil
}

// NewBadgerStore wraps an already open database.
func NewBadgerStore(db *badger.DB) (*BadgerStore, error) {
	seq, err := db.GetSequence([]byte(driverSeqKey), seqBandwidth)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire driver id sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq, now: time.Now}, nil
}

// Close releases the id sequence and closes the database. Closing twice is
// a no-op.
func (s *BadgerStore) Close() error {
	if s.db.IsClosed() {
		return nil
	}
	if err := s.seq.Release(); err != nil {
		logging.Warn().Err(err).Msg("Failed to release driver id sequence")
	}
	return s.db.Close()
}

func driverKey(id int64) []byte {
	return []byte(fmt.Sprintf("%s%020d", driverKeyPrefix, id))
}

func usernameKey(username string) []byte {
	return []byte(usernameKeyPrefix + strings.ToLower(username))
}

// Create assigns an id and creation time to d and stores it.
// It returns ErrConflict if the username is taken.
func (s *BadgerStore) Create(ctx context.Context, d *models.Driver) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	next, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("failed to allocate driver id: %w", err)
	}
	d.ID = int64(next) + 1
	d.CreatedAt = s.now().UTC()

	data, err := json.Marshal(storedDriver{Driver: *d, PasswordHash: d.PasswordHash})
	if err != nil {
		return fmt.Errorf("failed to marshal driver: %w", err)
	}

	idBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(idBytes, uint64(d.ID))

	err = s.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(usernameKey(d.MdtUsername))
		if err == nil {
			return ErrConflict
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := txn.Set(usernameKey(d.MdtUsername), idBytes); err != nil {
			return err
		}
		return txn.Set(driverKey(d.ID), data)
	})
	if errors.Is(err, badger.ErrConflict) {
		return ErrConflict
	}
	if err != nil && !errors.Is(err, ErrConflict) {
		return fmt.Errorf("failed to store driver: %w", err)
	}
	return err
}

// Get returns the driver with id, including its password hash.
func (s *BadgerStore) Get(ctx context.Context, id int64) (*models.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var d *models.Driver
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		d, err = getDriver(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// FindByUsername returns the driver registered under username, compared
// case-insensitively.
func (s *BadgerStore) FindByUsername(ctx context.Context, username string) (*models.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var d *models.Driver
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(usernameKey(username))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var id int64
		if err := item.Value(func(val []byte) error {
			if len(val) != 8 {
				return fmt.Errorf("corrupt username index for %q", username)
			}
			id = int64(binary.BigEndian.Uint64(val))
			return nil
		}); err != nil {
			return err
		}

		d, err = getDriver(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// List returns every driver ordered by id. Password hashes are cleared.
func (s *BadgerStore) List(ctx context.Context) ([]models.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	drivers := make([]models.Driver, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(driverKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			var sd storedDriver
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &sd)
			}); err != nil {
				return fmt.Errorf("failed to decode driver %s: %w", it.Item().Key(), err)
			}
			drivers = append(drivers, sd.Driver)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return drivers, nil
}

// Lookup returns the display identity of subjectID.
func (s *BadgerStore) Lookup(ctx context.Context, subjectID int64) (models.DisplayIdentity, error) {
	d, err := s.Get(ctx, subjectID)
	if err != nil {
		return models.DisplayIdentity{}, err
	}
	return models.DisplayIdentity{FirstName: d.FirstName, LastName: d.LastName}, nil
}

// Ping reports whether the database is open.
func (s *BadgerStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return ErrUnavailable
	}
	return nil
}

func getDriver(txn *badger.Txn, id int64) (*models.Driver, error) {
	item, err := txn.Get(driverKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sd storedDriver
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &sd)
	}); err != nil {
		return nil, fmt.Errorf("failed to decode driver %d: %w", id, err)
	}

	d := sd.Driver
	d.PasswordHash = sd.PasswordHash
	return &d, nil
}
