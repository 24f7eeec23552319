// Package drawing holds the in-memory drawing document that geometry is
// appended to.
//
// A [Document] is an ordered list of entities. Writers go through a
// transaction: [Document.Begin] acquires the single writer slot, the [Tx]
// stages entities, and [Tx.Commit] publishes them atomically while
// [Tx.Rollback] discards them. [Document.Update] wraps the whole sequence
// and guarantees that the transaction is finished on every exit path,
// including panics.
//
// Readers call [Document.Entities] for a snapshot. Snapshots never include
// staged entities and never wait for an open transaction.
//
//	doc := drawing.New("flight")
//	err := doc.Update(ctx, func(tx *drawing.Tx) error {
//	    r, err := geom.BuildRectangle(p1, p2, width)
//	    if err != nil {
//	        return err // rolls back
//	    }
//	    tx.AppendRectangle(r, 0)
//	    return nil // commits
//	})
package drawing

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/hyperstairs/pkg/cache"
	"github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/geom"
)

// DefaultLayer is the layer entities land on unless a transaction selects
// another one.
const DefaultLayer = "0"

// Kind identifies the entity type.
type Kind string

// Entity kinds.
const (
	KindLine     Kind = "line"
	KindPolyline Kind = "polyline"
)

// Entity is a committed drawing entity.
type Entity struct {
	ID     uuid.UUID     `json:"id"`
	Kind   Kind          `json:"kind"`
	Layer  string        `json:"layer"`
	Closed bool          `json:"closed,omitempty"`
	Points []geom.Point3 `json:"points"`
}

func (e Entity) clone() Entity {
	e.Points = append([]geom.Point3(nil), e.Points...)
	return e
}

// idSpace namespaces entity IDs. IDs are name-based so that the same
// geometry drawn into a document of the same name gets the same IDs, which
// keeps content hashes stable between runs.
var idSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://hyperstairs.dev/entity"))

// Document is a drawing database. It is safe for concurrent use.
type Document struct {
	name   string
	logger *log.Logger

	writer chan struct{} // holds a token while a transaction is open

	mu       sync.RWMutex
	entities []Entity
	revision uint64
	seq      uint64 // entities ever staged, including rolled back ones
}

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used for transaction debug output.
func WithLogger(l *log.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates an empty document.
func New(name string, opts ...Option) *Document {
	d := &Document{
		name:   name,
		logger: log.Default(),
		writer: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the document name.
func (d *Document) Name() string { return d.name }

// Entities returns a snapshot of the committed entities in insertion order.
func (d *Document) Entities() []Entity {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Entity, len(d.entities))
	for i, e := range d.entities {
		out[i] = e.clone()
	}
	return out
}

// Len returns the number of committed entities.
func (d *Document) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.entities)
}

// Revision returns the number of successful commits.
func (d *Document) Revision() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.revision
}

// Snapshot is a consistent view of a document at one revision.
type Snapshot struct {
	Name     string
	Revision uint64
	Hash     string // content hash of Entities
	Entities []Entity
}

// Snapshot returns the committed state. Name, revision, hash and entities
// are read under one lock and always agree.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := Snapshot{Name: d.name, Revision: d.revision, Entities: make([]Entity, len(d.entities))}
	for i, e := range d.entities {
		out.Entities[i] = e.clone()
	}
	out.Hash = hashEntities(out.Entities)
	return out
}

// Hash returns the content hash of the committed entities. Documents with
// the same name built by the same sequence of operations hash equally.
func (d *Document) Hash() string {
	return d.Snapshot().Hash
}

func hashEntities(entities []Entity) string {
	data, err := json.Marshal(entities)
	if err != nil {
		// Entities hold only plain values; Marshal cannot fail.
		panic(err)
	}
	return cache.Hash(data)
}

// Entity looks up a committed entity by ID.
func (d *Document) Entity(id uuid.UUID) (Entity, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, e := range d.entities {
		if e.ID == id {
			return e.clone(), nil
		}
	}
	return Entity{}, errors.New(errors.ErrCodeNotFound, "entity %s not found", id)
}

// Begin opens a transaction, waiting for any open one to finish. It returns
// ctx.Err() if ctx is done first. The caller must Commit or Rollback the
// returned Tx; prefer [Document.Update], which does so automatically.
func (d *Document) Begin(ctx context.Context) (*Tx, error) {
	select {
	case d.writer <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	d.logger.Debug("transaction opened", "document", d.name)
	return &Tx{doc: d, ctx: ctx, layer: DefaultLayer}, nil
}

// Update runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back when fn returns an error or panics; a panic is
// re-raised after the rollback. If fn finishes the transaction itself,
// Update leaves it alone.
func (d *Document) Update(ctx context.Context, fn func(*Tx) error) error {
	tx, err := d.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.rollback(fmt.Errorf("panic: %v", p))
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.rollback(err)
		return err
	}
	if tx.Done() {
		return nil
	}
	return tx.Commit()
}

// publish appends staged entities and bumps the revision.
func (d *Document) publish(staged []Entity) uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entities = append(d.entities, staged...)
	d.revision++
	return d.revision
}

func (d *Document) nextID(kind Kind, pts []geom.Point3) uuid.UUID {
	d.mu.Lock()
	d.seq++
	seq := d.seq
	d.mu.Unlock()
	return uuid.NewSHA1(idSpace, []byte(fmt.Sprintf("%s/%d/%s/%v", d.name, seq, kind, pts)))
}

func (d *Document) release() {
	<-d.writer
}
