package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	errs "github.com/amirhossein-jamali/canteen-wallet/internal/domain/error"
	coreport "github.com/amirhossein-jamali/canteen-wallet/internal/domain/port/core"
	"github.com/amirhossein-jamali/canteen-wallet/internal/infrastructure/adapter/model"
)

// dataset is one consistent copy of every collection
type dataset struct {
	users        map[string]*model.User
	products     map[string]*model.Product
	orders       map[string]*model.Order
	transactions map[string]*model.Transaction
	counters     map[string]int64
	outbox       map[string]*model.OutboxMessage
}

func newDataset() *dataset {
	return &dataset{
		users:        make(map[string]*model.User),
		products:     make(map[string]*model.Product),
		orders:       make(map[string]*model.Order),
		transactions: make(map[string]*model.Transaction),
		counters:     make(map[string]int64),
		outbox:       make(map[string]*model.OutboxMessage),
	}
}

// clone deep-copies every record so a unit can mutate its working set freely
func (d *dataset) clone() *dataset {
	c := &dataset{
		users:        make(map[string]*model.User, len(d.users)),
		products:     make(map[string]*model.Product, len(d.products)),
		orders:       make(map[string]*model.Order, len(d.orders)),
		transactions: make(map[string]*model.Transaction, len(d.transactions)),
		counters:     make(map[string]int64, len(d.counters)),
		outbox:       make(map[string]*model.OutboxMessage, len(d.outbox)),
	}
	for id, u := range d.users {
		c.users[id] = u.Clone()
	}
	for id, p := range d.products {
		cp := *p
		c.products[id] = &cp
	}
	for id, o := range d.orders {
		c.orders[id] = o.Clone()
	}
	for id, t := range d.transactions {
		c.transactions[id] = t.Clone()
	}
	for name, n := range d.counters {
		c.counters[name] = n
	}
	for id, m := range d.outbox {
		cm := *m
		c.outbox[id] = &cm
	}
	return c
}

// snapshot is written to disk after each commit so a kiosk survives restarts
type snapshot struct {
	Users        []*model.User          `json:"users"`
	Products     []*model.Product       `json:"products"`
	Orders       []*model.Order         `json:"orders"`
	Transactions []*model.Transaction   `json:"transactions"`
	Counters     map[string]int64       `json:"counters"`
	Outbox       []*model.OutboxMessage `json:"outbox"`
}

// Store is an in-process ledger store. Atomic units are serialized: a unit works on a
// cloned working set and swaps it in on commit, so readers never observe partial writes.
type Store struct {
	gate         chan struct{} // held for the whole life of a unit
	mu           sync.RWMutex  // guards committed
	committed    *dataset
	snapshotPath string
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewStore creates a store, loading the snapshot at snapshotPath when one exists.
// An empty snapshotPath keeps everything in memory only.
func NewStore(snapshotPath string, timeProvider coreport.TimeProvider, logger coreport.Logger) (*Store, error) {
	s := &Store{
		gate:         make(chan struct{}, 1),
		committed:    newDataset(),
		snapshotPath: snapshotPath,
		timeProvider: timeProvider,
		logger:       logger,
	}
	if snapshotPath == "" {
		return s, nil
	}

	loaded, err := readSnapshot(snapshotPath)
	if err != nil {
		return nil, err
	}
	if loaded != nil {
		s.committed = loaded
		logger.Info("Memory store snapshot loaded", map[string]any{
			"path":   snapshotPath,
			"users":  len(loaded.users),
			"orders": len(loaded.orders),
		})
	}
	return s, nil
}

// lock waits for the unit gate or for ctx to end
func (s *Store) lock(ctx context.Context) error {
	select {
	case s.gate <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %s", errs.ErrStoreUnavailable, ctx.Err().Error())
	}
}

func (s *Store) unlock() {
	<-s.gate
}

// begin opens a unit on a private copy of the committed data
func (s *Store) begin(ctx context.Context) (*unit, error) {
	if err := s.lock(ctx); err != nil {
		return nil, err
	}
	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()
	return &unit{data: work}, nil
}

// commit publishes the unit's working set and releases the gate
func (s *Store) commit(u *unit) error {
	if u.closed {
		return fmt.Errorf("transaction already closed")
	}
	u.closed = true
	defer s.unlock()

	s.mu.Lock()
	s.committed = u.data
	s.mu.Unlock()

	if s.snapshotPath != "" {
		if err := writeSnapshot(s.snapshotPath, u.data); err != nil {
			// The commit is visible in memory; the snapshot catches up on the next commit.
			s.logger.Error("Failed to write memory store snapshot", map[string]any{
				"path":  s.snapshotPath,
				"error": err.Error(),
			})
		}
	}
	return nil
}

// rollback drops the unit's working set and releases the gate
func (s *Store) rollback(u *unit) error {
	if u.closed {
		return nil
	}
	u.closed = true
	s.unlock()
	return nil
}

// read runs fn against the caller's unit, or against the committed data under a read lock.
// fn must copy whatever it returns.
func (s *Store) read(ctx context.Context, fn func(d *dataset) error) error {
	if u := unitFrom(ctx); u != nil {
		if u.closed {
			return fmt.Errorf("transaction already closed")
		}
		return fn(u.data)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// write runs fn in the caller's unit, or in a single-operation unit of its own
func (s *Store) write(ctx context.Context, fn func(d *dataset) error) error {
	if u := unitFrom(ctx); u != nil {
		if u.closed {
			return fmt.Errorf("transaction already closed")
		}
		return fn(u.data)
	}
	u, err := s.begin(ctx)
	if err != nil {
		return err
	}
	if err := fn(u.data); err != nil {
		_ = s.rollback(u)
		return err
	}
	return s.commit(u)
}

func readSnapshot(path string) (*dataset, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}

	d := newDataset()
	for _, u := range snap.Users {
		d.users[u.ID] = u
	}
	for _, p := range snap.Products {
		d.products[p.ID] = p
	}
	for _, o := range snap.Orders {
		d.orders[o.ID] = o
	}
	for _, t := range snap.Transactions {
		d.transactions[t.ID] = t
	}
	for name, n := range snap.Counters {
		d.counters[name] = n
	}
	for _, m := range snap.Outbox {
		d.outbox[m.ID] = m
	}
	return d, nil
}

// writeSnapshot replaces the file atomically through a temporary sibling
func writeSnapshot(path string, d *dataset) error {
	snap := snapshot{Counters: d.counters}
	for _, u := range d.users {
		snap.Users = append(snap.Users, u)
	}
	for _, p := range d.products {
		snap.Products = append(snap.Products, p)
	}
	for _, o := range d.orders {
		snap.Orders = append(snap.Orders, o)
	}
	for _, t := range d.transactions {
		snap.Transactions = append(snap.Transactions, t)
	}
	for _, m := range d.outbox {
		snap.Outbox = append(snap.Outbox, m)
	}

	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
