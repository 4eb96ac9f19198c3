// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package comb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/cpmech/gosl/chk"
	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/engthiago/xc-sub000/fem"
)

// ErrCheckpointMismatch is returned when restoring a key that was not saved in this session
var ErrCheckpointMismatch = errors.New("checkpoint mismatch")

// sub-stages stored under the same combination tag
const (
	StageFinal     = 0 // state after solving the combination
	StageShrinkage = 1 // after shrinkage
	StageCreep     = 2 // after creep
	StagePrestress = 3 // after prestressing
)

// Key returns the checkpoint key of a combination tag and a sub-stage
func Key(tag, stage int) int { return tag*100 + stage }

// StoreConfig holds the configuration of a checkpoint store
type StoreConfig struct {
	Path     string       // directory of the database; ignored if InMemory
	InMemory bool         // no files are written
	Encoder  string       // "gob" or "json"; default "gob"
	Logger   *slog.Logger // receives badger messages; nil disables them
}

// Store keeps serialized domain states keyed by integer tags. Keys live
// in a per-session namespace; readers may run concurrently with each other
type Store struct {
	db     *badger.DB
	ns     uuid.UUID
	enc    string
	nsaves atomic.Int64
	nloads atomic.Int64
	log    *slog.Logger
}

// badgerLogger adapts slog.Logger to the badger logger
type badgerLogger struct{ l *slog.Logger }

func (o badgerLogger) Errorf(f string, a ...interface{})   { o.l.Error(fmt.Sprintf(f, a...)) }
func (o badgerLogger) Warningf(f string, a ...interface{}) { o.l.Warn(fmt.Sprintf(f, a...)) }
func (o badgerLogger) Infof(f string, a ...interface{})    { o.l.Debug(fmt.Sprintf(f, a...)) }
func (o badgerLogger) Debugf(f string, a ...interface{})   { o.l.Debug(fmt.Sprintf(f, a...)) }

// OpenStore opens a checkpoint store
func OpenStore(cfg StoreConfig) (o *Store, err error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, chk.Err("checkpoint store requires a path or the in-memory mode")
	}
	if cfg.Encoder == "" {
		cfg.Encoder = "gob"
	}
	if cfg.Encoder != "gob" && cfg.Encoder != "json" {
		return nil, chk.Err("checkpoint store: encoder must be gob or json; %q given", cfg.Encoder)
	}
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err = os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, chk.Err("cannot create directory for checkpoint store %q:\n%v", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(false).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(badgerLogger{cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, chk.Err("cannot open checkpoint store:\n%v", err)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{db: db, ns: uuid.New(), enc: cfg.Encoder, log: log}, nil
}

// OpenMemStore opens an in-memory store
func OpenMemStore() (*Store, error) { return OpenStore(StoreConfig{InMemory: true}) }

// Session returns the namespace of the keys written by this store
func (o *Store) Session() uuid.UUID { return o.ns }

// key returns the database key
func (o *Store) key(k int) []byte {
	b := make([]byte, 16+8)
	copy(b, o.ns[:])
	binary.BigEndian.PutUint64(b[16:], uint64(k))
	return b
}

// Put stores raw data under a key
func (o *Store) Put(k int, data []byte) error {
	err := o.db.Update(func(txn *badger.Txn) error {
		return txn.Set(o.key(k), data)
	})
	if err != nil {
		return chk.Err("cannot save checkpoint %d:\n%v", k, err)
	}
	o.nsaves.Add(1)
	return nil
}

// Get returns the raw data of a key
func (o *Store) Get(k int) (data []byte, err error) {
	err = o.db.View(func(txn *badger.Txn) error {
		item, e := txn.Get(o.key(k))
		if e != nil {
			return e
		}
		data, e = item.ValueCopy(nil)
		return e
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: key %d was not saved in this session", ErrCheckpointMismatch, k)
	}
	if err != nil {
		return nil, chk.Err("cannot read checkpoint %d:\n%v", k, err)
	}
	return
}

// Has tells whether a key was saved
func (o *Store) Has(k int) bool {
	err := o.db.View(func(txn *badger.Txn) error {
		_, e := txn.Get(o.key(k))
		return e
	})
	return err == nil
}

// Save stores the committed state of a domain under a key
func (o *Store) Save(d *fem.Domain, k int) (err error) {
	b, err := d.Save(o.enc)
	if err != nil {
		return
	}
	if err = o.Put(k, b); err != nil {
		return
	}
	o.log.Debug("checkpoint saved", "session", o.ns.String(), "key", k, "bytes", len(b))
	return
}

// Restore sets the committed and trial states of a domain from a key
func (o *Store) Restore(d *fem.Domain, k int) (err error) {
	b, err := o.Get(k)
	if err != nil {
		return
	}
	if err = d.Restore(b, o.enc); err != nil {
		return fmt.Errorf("%w: key %d: %v", ErrCheckpointMismatch, k, err)
	}
	o.nloads.Add(1)
	o.log.Debug("checkpoint restored", "session", o.ns.String(), "key", k)
	return
}

// Clear deletes all keys of this session
func (o *Store) Clear() error {
	if err := o.db.DropPrefix(o.ns[:]); err != nil {
		return chk.Err("cannot clear checkpoint store:\n%v", err)
	}
	return nil
}

// Stats returns the number of saves and restores
func (o *Store) Stats() (saves, restores int) {
	return int(o.nsaves.Load()), int(o.nloads.Load())
}

// Close closes the database
func (o *Store) Close() error { return o.db.Close() }
