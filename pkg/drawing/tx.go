package drawing

import (
	"context"

	"github.com/google/uuid"

	"github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/geom"
	"github.com/matzehuels/hyperstairs/pkg/observability"
)

// ErrTxDone is returned when a finished transaction is used again.
var ErrTxDone = errors.New(errors.ErrCodeTxClosed, "transaction already committed or rolled back")

// Tx stages entities for a Document. A Tx is owned by one goroutine.
type Tx struct {
	doc    *Document
	ctx    context.Context
	layer  string
	staged []Entity
	done   bool
}

// SetLayer selects the layer for entities appended after the call.
func (tx *Tx) SetLayer(name string) error {
	if err := errors.ValidateLayer(name); err != nil {
		return err
	}
	tx.layer = name
	return nil
}

// Layer returns the layer new entities are appended to.
func (tx *Tx) Layer() string { return tx.layer }

// Staged returns the number of entities waiting for Commit.
func (tx *Tx) Staged() int { return len(tx.staged) }

// Done reports whether the transaction has been committed or rolled back.
func (tx *Tx) Done() bool { return tx.done }

func (tx *Tx) stage(kind Kind, closed bool, pts []geom.Point3) (uuid.UUID, error) {
	if tx.done {
		return uuid.Nil, ErrTxDone
	}
	pts = append([]geom.Point3(nil), pts...)
	e := Entity{
		ID:     tx.doc.nextID(kind, pts),
		Kind:   kind,
		Layer:  tx.layer,
		Closed: closed,
		Points: pts,
	}
	tx.staged = append(tx.staged, e)
	return e.ID, nil
}

// AppendLine stages a line entity. Both endpoints must be finite and
// distinct.
func (tx *Tx) AppendLine(l geom.Line3) (uuid.UUID, error) {
	if tx.done {
		return uuid.Nil, ErrTxDone
	}
	if _, err := geom.NewLine(l.Start, l.End); err != nil {
		return uuid.Nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "line")
	}
	return tx.stage(KindLine, false, l.Points())
}

// AppendPolyline stages a polyline through pts. A polyline needs at least
// two points, and a closed one at least three.
func (tx *Tx) AppendPolyline(pts []geom.Point3, closed bool) (uuid.UUID, error) {
	min := 2
	if closed {
		min = 3
	}
	if len(pts) < min {
		return uuid.Nil, errors.New(errors.ErrCodeInvalidInput, "polyline needs at least %d points, got %d", min, len(pts))
	}
	for i, p := range pts {
		if err := validatePoint(p); err != nil {
			return uuid.Nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "polyline vertex %d", i)
		}
	}
	return tx.stage(KindPolyline, closed, pts)
}

// AppendRectangle stages r as a closed polyline at elevation z.
func (tx *Tx) AppendRectangle(r geom.Rectangle, z float64) (uuid.UUID, error) {
	return tx.AppendPolyline(r.Lift(z), true)
}

// AppendStairs stages the four outline lines of s.
func (tx *Tx) AppendStairs(s geom.Stairs) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(s.Lines))
	for _, l := range s.Lines {
		id, err := tx.AppendLine(l)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Commit publishes the staged entities and ends the transaction. If the
// transaction's context is already done, Commit rolls back instead and
// returns the context error.
func (tx *Tx) Commit() error {
	if tx.done {
		return ErrTxDone
	}
	if err := tx.ctx.Err(); err != nil {
		tx.rollback(err)
		return err
	}
	tx.done = true
	defer tx.doc.release()

	n := len(tx.staged)
	rev := tx.doc.publish(tx.staged)
	tx.staged = nil

	tx.doc.logger.Debug("transaction committed", "document", tx.doc.name, "revision", rev, "entities", n)
	observability.Drawing().OnCommit(tx.ctx, tx.doc.name, rev, n)
	return nil
}

// Rollback discards the staged entities and ends the transaction.
func (tx *Tx) Rollback() error {
	if tx.done {
		return ErrTxDone
	}
	tx.rollback(nil)
	return nil
}

func (tx *Tx) rollback(cause error) {
	if tx.done {
		return
	}
	tx.done = true
	defer tx.doc.release()

	n := len(tx.staged)
	tx.staged = nil

	tx.doc.logger.Debug("transaction rolled back", "document", tx.doc.name, "discarded", n, "cause", cause)
	observability.Drawing().OnRollback(tx.ctx, tx.doc.name, n, cause)
}

func validatePoint(p geom.Point3) error {
	for _, v := range []struct {
		name string
		val  float64
	}{{"x", p.X}, {"y", p.Y}, {"z", p.Z}} {
		if err := errors.ValidateFinite(v.name, v.val); err != nil {
			return err
		}
	}
	return nil
}
