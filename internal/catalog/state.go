package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/blobstore"
)

const (
	// DefaultKey is the store key that holds the encoded catalog.
	DefaultKey = "products"

	quarantineSuffix = ".corrupt"
	maxQuarantines   = 100
)

var (
	// ErrDuplicateID is returned by Append when the id is already present.
	ErrDuplicateID = errors.New("product id already exists")
	// ErrMissingID is returned by Append for a product without an id.
	ErrMissingID = errors.New("product id is empty")
	// ErrReadOnly is returned by mutations after corrupt data could not be
	// quarantined; writing would overwrite the only copy.
	ErrReadOnly = errors.New("catalog is read-only")
)

// Store is the persistence the State needs. blobstore.Store satisfies it.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Option configures a State.
type Option func(*State)

// WithLogger sets the logger; the default discards everything.
func WithLogger(log *zap.Logger) Option {
	return func(s *State) {
		if log != nil {
			s.log = log
		}
	}
}

// WithKey overrides the store key.
func WithKey(key string) Option {
	return func(s *State) {
		if key != "" {
			s.key = key
		}
	}
}

// WithIDFunc replaces the id generator used by Create.
func WithIDFunc(fn func() string) Option {
	return func(s *State) {
		if fn != nil {
			s.newID = fn
		}
	}
}

// State owns the in-memory catalog and keeps it in step with the store. Every
// mutation rewrites the full catalog under one key, which is fine for the
// hundreds of entries a personal catalog holds and nothing more.
type State struct {
	store Store
	key   string
	log   *zap.Logger
	newID func() string

	// writeMu serializes read-modify-write cycles.
	writeMu  sync.Mutex
	mu       sync.RWMutex
	catalog  Catalog
	readOnly error

	subMu   sync.Mutex
	subs    map[int]chan Catalog
	nextSub int
}

// New builds a State over store. The catalog starts empty until Load.
func New(store Store, opts ...Option) (*State, error) {
	if store == nil {
		return nil, fmt.Errorf("catalog requires a store")
	}
	s := &State{
		store:   store,
		key:     DefaultKey,
		log:     zap.NewNop(),
		catalog: Catalog{},
		subs:    make(map[int]chan Catalog),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.newID == nil {
		node, err := snowflake.NewNode(1)
		if err != nil {
			return nil, fmt.Errorf("init id generator: %w", err)
		}
		s.newID = func() string { return node.Generate().String() }
	}
	return s, nil
}

// Catalog returns a deep copy of the current catalog.
func (s *State) Catalog() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Clone()
}

// Load reads the persisted catalog. A missing key yields an empty catalog.
// Undecodable bytes are copied to "<key>.corrupt" (or the next free
// "<key>.corrupt.N"), the catalog is reset to empty and a *CorruptError is
// returned.
func (s *State) Load(ctx context.Context) (Catalog, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	raw, err := s.store.Get(ctx, s.key)
	if errors.Is(err, blobstore.ErrNotFound) {
		s.commit(Catalog{})
		return Catalog{}, nil
	}
	if err != nil {
		s.log.Error("catalog load failed", zap.Error(err))
		return s.Catalog(), fmt.Errorf("load catalog: %w", err)
	}

	c, err := Decode(raw)
	if err != nil {
		return Catalog{}, s.quarantine(ctx, raw, err)
	}

	s.setReadOnly(nil)
	s.commit(c)
	s.log.Debug("catalog loaded", zap.Int("products", len(c)))
	return c.Clone(), nil
}

func (s *State) quarantine(ctx context.Context, raw []byte, decodeErr error) error {
	cerr := &CorruptError{Err: decodeErr}
	qkey, fresh, err := s.quarantineTarget(ctx, raw)
	if err == nil && fresh {
		err = s.store.Set(ctx, qkey, raw)
	}
	if err != nil {
		s.log.Error("catalog quarantine failed; refusing writes",
			zap.String("key", qkey), zap.Error(err))
		s.setReadOnly(fmt.Errorf("%w: corrupt data could not be backed up: %v", ErrReadOnly, err))
	} else {
		cerr.QuarantineKey = qkey
		s.setReadOnly(nil)
	}
	s.log.Error("catalog data is corrupt",
		zap.Int("bytes", len(raw)), zap.String("quarantine", cerr.QuarantineKey), zap.Error(decodeErr))
	s.commit(Catalog{})
	return cerr
}

// quarantineTarget returns the first of "<key>.corrupt", "<key>.corrupt.1", ...
// that is free or already holds raw. Earlier backups are never overwritten;
// fresh is false when raw is already kept.
func (s *State) quarantineTarget(ctx context.Context, raw []byte) (string, bool, error) {
	base := s.key + quarantineSuffix
	for i := 0; i < maxQuarantines; i++ {
		key := base
		if i > 0 {
			key = fmt.Sprintf("%s.%d", base, i)
		}
		existing, err := s.store.Get(ctx, key)
		switch {
		case errors.Is(err, blobstore.ErrNotFound):
			return key, true, nil
		case err != nil:
			return key, false, fmt.Errorf("read quarantine %s: %w", key, err)
		case bytes.Equal(existing, raw):
			return key, false, nil
		}
	}
	return "", false, fmt.Errorf("all %d quarantine keys are in use", maxQuarantines)
}

// Append adds p at the end and persists the catalog.
func (s *State) Append(ctx context.Context, p Product) (Catalog, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if p.ID == "" {
		return s.Catalog(), ErrMissingID
	}
	current := s.Catalog()
	if current.Has(p.ID) {
		return current, fmt.Errorf("%w: %s", ErrDuplicateID, p.ID)
	}
	next := append(current, p.Clone())
	if err := s.persist(ctx, next); err != nil {
		return current, err
	}
	s.log.Info("product added", zap.String("id", p.ID), zap.Int("images", len(p.Images)))
	return next.Clone(), nil
}

// Create assigns a fresh id to a new unsold product and appends it.
func (s *State) Create(ctx context.Context, name, price string, images []string) (Product, Catalog, error) {
	p := Product{
		ID:     s.newID(),
		Name:   name,
		Price:  price,
		Images: cloneRefs(images),
		Sold:   false,
	}
	c, err := s.Append(ctx, p)
	if err != nil {
		return Product{}, c, err
	}
	return p, c, nil
}

// Replace swaps the image list of product id and persists. An unknown id is a
// no-op: nothing is written and the current catalog is returned.
func (s *State) Replace(ctx context.Context, id string, images []string) (Catalog, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.Catalog()
	i := current.index(id)
	if i < 0 {
		s.log.Debug("replace images: product not found", zap.String("id", id))
		return current, nil
	}
	next := current.Clone()
	next[i].Images = cloneRefs(images)
	if err := s.persist(ctx, next); err != nil {
		return current, err
	}
	s.log.Info("product images replaced", zap.String("id", id), zap.Int("images", len(images)))
	return next.Clone(), nil
}

// RemoveMany drops every product whose id is in ids and persists the result.
func (s *State) RemoveMany(ctx context.Context, ids []string) (Catalog, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current := s.Catalog()
	drop := toSet(ids)
	next := make(Catalog, 0, len(current))
	for _, p := range current {
		if _, ok := drop[p.ID]; ok {
			continue
		}
		next = append(next, p)
	}
	if err := s.persist(ctx, next); err != nil {
		return current, err
	}
	s.log.Info("products removed", zap.Int("removed", len(current)-len(next)), zap.Int("remaining", len(next)))
	return next.Clone(), nil
}

// Subscribe returns a channel that receives the catalog after every load and
// committed mutation. The channel holds only the latest catalog. cancel closes
// it.
func (s *State) Subscribe() (<-chan Catalog, func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Catalog, 1)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.subMu.Lock()
			defer s.subMu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// persist writes next and, only when the write succeeded, makes it current.
func (s *State) persist(ctx context.Context, next Catalog) error {
	if err := s.writeGuard(); err != nil {
		return err
	}
	data, err := Encode(next)
	if err != nil {
		return err
	}
	if err := s.store.Set(ctx, s.key, data); err != nil {
		s.log.Error("catalog persist failed", zap.Error(err))
		return fmt.Errorf("persist catalog: %w", err)
	}
	s.commit(next)
	return nil
}

func (s *State) commit(c Catalog) {
	s.mu.Lock()
	s.catalog = c.Clone()
	s.mu.Unlock()
	s.publish(c)
}

func (s *State) publish(c Catalog) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		snapshot := c.Clone()
		select {
		case ch <- snapshot:
		default:
			// Drop the stale value so the subscriber sees the newest catalog.
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

func (s *State) setReadOnly(err error) {
	s.mu.Lock()
	s.readOnly = err
	s.mu.Unlock()
}

func (s *State) writeGuard() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readOnly
}
