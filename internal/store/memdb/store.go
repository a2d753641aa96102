// Package memdb keeps all shop state in an embedded go-memdb database and
// writes it through to a single JSON document after every mutation.
package memdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/fekuna/omnipos-workshop-pos/internal/pkg/logger"
	"github.com/fekuna/omnipos-workshop-pos/internal/store"
	"github.com/hashicorp/go-memdb"
	"go.uber.org/zap"
)

type Options struct {
	// SnapshotPath is the JSON document to load and write through to.
	// Empty keeps everything in memory.
	SnapshotPath string
	// Seed loads the default shop data when no snapshot exists.
	Seed   bool
	Logger logger.ZapLogger
}

type Store struct {
	db        *memdb.MemDB
	seq       atomic.Uint64
	path      string
	persistMu sync.Mutex
	logger    logger.ZapLogger
}

func New(opts Options) (*Store, error) {
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("create memdb: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	s := &Store{db: db, path: opts.SnapshotPath, logger: log}

	data, found, err := s.readSnapshot()
	if err != nil {
		return nil, err
	}
	if !found && opts.Seed {
		data = store.Seed()
	}
	if err := s.load(data); err != nil {
		return nil, err
	}
	if !found && opts.Seed {
		if err := s.persist(); err != nil {
			return nil, err
		}
	}

	log.Info("memdb store ready",
		zap.String("snapshot", s.path),
		zap.Bool("from_snapshot", found),
		zap.Int("products", len(data.Products)),
		zap.Int("transactions", len(data.Transactions)),
	)
	return s, nil
}

func (s *Store) nextSeq() uint64 {
	return s.seq.Add(1)
}

func (s *Store) readSnapshot() (store.Data, bool, error) {
	var data store.Data
	if s.path == "" {
		return data, false, nil
	}
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return data, false, nil
	}
	if err != nil {
		return data, false, fmt.Errorf("read snapshot: %w", err)
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return data, false, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	return data, true, nil
}

// load inserts data in document order. Ledger and movement lists are stored
// newest first, so they are inserted back to front.
func (s *Store) load(data store.Data) error {
	txn := s.db.Txn(true)
	defer txn.Abort()

	for _, p := range data.Products {
		if err := txn.Insert(tableProducts, &productRow{Seq: s.nextSeq(), Product: p}); err != nil {
			return fmt.Errorf("load product %s: %w", p.ID, err)
		}
	}
	for _, c := range data.Customers {
		if err := txn.Insert(tableCustomers, &customerRow{Seq: s.nextSeq(), Customer: cloneCustomer(c)}); err != nil {
			return fmt.Errorf("load customer %s: %w", c.ID, err)
		}
	}
	for i := len(data.Transactions) - 1; i >= 0; i-- {
		t := data.Transactions[i]
		if err := txn.Insert(tableTransactions, newTransactionRow(s.nextSeq(), t)); err != nil {
			return fmt.Errorf("load transaction %s: %w", t.ID, err)
		}
	}
	for i := len(data.Movements) - 1; i >= 0; i-- {
		m := data.Movements[i]
		if err := txn.Insert(tableMovements, &movementRow{Seq: s.nextSeq(), InventoryMovement: m}); err != nil {
			return fmt.Errorf("load movement %s: %w", m.ID, err)
		}
	}
	txn.Commit()
	return nil
}

// write runs fn in a write transaction and persists the result. A snapshot
// failure does not undo the committed change; it is logged and retried on
// the next write.
func (s *Store) write(ctx context.Context, fn func(txn *memdb.Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	if err := fn(txn); err != nil {
		txn.Abort()
		return err
	}
	txn.Commit()

	if err := s.persist(); err != nil {
		s.logger.Error("failed to write snapshot", zap.String("path", s.path), zap.Error(err))
	}
	return nil
}

// Dump returns the whole store in the persisted layout.
func (s *Store) Dump() (store.Data, error) {
	txn := s.db.Txn(false)
	defer txn.Abort()

	var data store.Data
	err := s.each(txn, tableProducts, false, func(obj interface{}) {
		data.Products = append(data.Products, obj.(*productRow).Product)
	})
	if err != nil {
		return data, err
	}
	err = s.each(txn, tableCustomers, false, func(obj interface{}) {
		data.Customers = append(data.Customers, cloneCustomer(obj.(*customerRow).Customer))
	})
	if err != nil {
		return data, err
	}
	err = s.each(txn, tableTransactions, true, func(obj interface{}) {
		data.Transactions = append(data.Transactions, cloneTransaction(obj.(*transactionRow).Txn))
	})
	if err != nil {
		return data, err
	}
	err = s.each(txn, tableMovements, true, func(obj interface{}) {
		data.Movements = append(data.Movements, obj.(*movementRow).InventoryMovement)
	})
	return data, err
}

func (s *Store) each(txn *memdb.Txn, table string, newestFirst bool, fn func(obj interface{})) error {
	var (
		it  memdb.ResultIterator
		err error
	)
	if newestFirst {
		it, err = txn.GetReverse(table, "seq")
	} else {
		it, err = txn.Get(table, "seq")
	}
	if err != nil {
		return fmt.Errorf("scan %s: %w", table, err)
	}
	for obj := it.Next(); obj != nil; obj = it.Next() {
		fn(obj)
	}
	return nil
}

// persist rewrites the snapshot document via a temp file and rename. The
// dump is taken under persistMu so the last writer always leaves the newest
// state on disk.
func (s *Store) persist() error {
	if s.path == "" {
		return nil
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	data, err := s.Dump()
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// Close flushes a final snapshot.
func (s *Store) Close() error {
	return s.persist()
}
