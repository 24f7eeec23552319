package drawing

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	hserrors "github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/geom"
	"github.com/matzehuels/hyperstairs/pkg/observability"
)

func mustRect(t *testing.T) geom.Rectangle {
	t.Helper()
	r, err := geom.BuildRectangle(geom.Pt(0, 0), geom.Pt(10, 0), 4)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

func TestUpdateCommits(t *testing.T) {
	doc := New("test")
	r := mustRect(t)

	err := doc.Update(context.Background(), func(tx *Tx) error {
		_, err := tx.AppendRectangle(r, 0)
		return err
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if doc.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", doc.Len())
	}
	if doc.Revision() != 1 {
		t.Errorf("Revision() = %d, want 1", doc.Revision())
	}

	e := doc.Entities()[0]
	if e.Kind != KindPolyline || !e.Closed {
		t.Errorf("entity = %+v, want closed polyline", e)
	}
	if e.Layer != DefaultLayer {
		t.Errorf("Layer = %q, want %q", e.Layer, DefaultLayer)
	}
	if len(e.Points) != 4 {
		t.Fatalf("len(Points) = %d, want 4", len(e.Points))
	}
	for i, p := range e.Points {
		if p.Flat() != r[i] || p.Z != 0 {
			t.Errorf("Points[%d] = %v, want %v", i, p, r[i])
		}
	}
}

func TestUpdateRollsBackOnError(t *testing.T) {
	doc := New("test")
	boom := errors.New("boom")

	err := doc.Update(context.Background(), func(tx *Tx) error {
		if _, err := tx.AppendRectangle(mustRect(t), 0); err != nil {
			return err
		}
		if tx.Staged() != 1 {
			t.Errorf("Staged() = %d, want 1", tx.Staged())
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Update error = %v, want %v", err, boom)
	}
	if doc.Len() != 0 || doc.Revision() != 0 {
		t.Errorf("rolled back document has %d entities at revision %d", doc.Len(), doc.Revision())
	}

	// The writer slot must be free again.
	if err := doc.Update(context.Background(), func(*Tx) error { return nil }); err != nil {
		t.Errorf("Update after rollback: %v", err)
	}
}

func TestUpdateRollsBackDegenerateGeometry(t *testing.T) {
	doc := New("test")

	err := doc.Update(context.Background(), func(tx *Tx) error {
		tx.AppendRectangle(mustRect(t), 0)
		r, err := geom.BuildRectangle(geom.Pt(1, 1), geom.Pt(1, 1), 2)
		if err != nil {
			return err
		}
		_, err = tx.AppendRectangle(r, 0)
		return err
	})

	var de *geom.DegenerateInputError
	if !errors.As(err, &de) {
		t.Fatalf("Update error = %v, want *geom.DegenerateInputError", err)
	}
	if doc.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (first rectangle must be rolled back too)", doc.Len())
	}
}

func TestUpdateRollsBackOnPanic(t *testing.T) {
	doc := New("test")

	func() {
		defer func() {
			if recover() == nil {
				t.Error("panic was swallowed")
			}
		}()
		_ = doc.Update(context.Background(), func(tx *Tx) error {
			tx.AppendRectangle(mustRect(t), 0)
			panic("host crashed")
		})
	}()

	if doc.Len() != 0 {
		t.Errorf("Len() = %d after panic, want 0", doc.Len())
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := doc.Begin(ctx); err != nil {
		t.Errorf("writer slot not released after panic: %v", err)
	}
}

func TestUpdateCallbackFinishesTx(t *testing.T) {
	doc := New("test")

	err := doc.Update(context.Background(), func(tx *Tx) error {
		tx.AppendRectangle(mustRect(t), 0)
		return tx.Rollback()
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if doc.Len() != 0 {
		t.Errorf("Len() = %d, want 0", doc.Len())
	}
}

func TestTxFinishedTwice(t *testing.T) {
	doc := New("test")
	tx, err := doc.Begin(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}

	if err := tx.Commit(); err != ErrTxDone {
		t.Errorf("second Commit = %v, want ErrTxDone", err)
	}
	if err := tx.Rollback(); err != ErrTxDone {
		t.Errorf("Rollback after Commit = %v, want ErrTxDone", err)
	}
	if _, err := tx.AppendLine(geom.Line3{End: geom.Point3{X: 1}}); !hserrors.Is(err, hserrors.ErrCodeTxClosed) {
		t.Errorf("AppendLine after Commit = %v, want TX_CLOSED", err)
	}
}

func TestCommitWithCancelledContext(t *testing.T) {
	doc := New("test")
	ctx, cancel := context.WithCancel(context.Background())

	tx, err := doc.Begin(ctx)
	if err != nil {
		t.Fatal(err)
	}
	tx.AppendRectangle(mustRect(t), 0)
	cancel()

	if err := tx.Commit(); !errors.Is(err, context.Canceled) {
		t.Errorf("Commit = %v, want context.Canceled", err)
	}
	if doc.Len() != 0 {
		t.Errorf("Len() = %d, want 0", doc.Len())
	}
	if !tx.Done() {
		t.Error("transaction should be finished")
	}
}

func TestBeginWaitsForWriter(t *testing.T) {
	doc := New("test")
	tx, err := doc.Begin(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := doc.Begin(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("second Begin = %v, want DeadlineExceeded", err)
	}

	tx.Rollback()
	if _, err := doc.Begin(context.Background()); err != nil {
		t.Errorf("Begin after Rollback: %v", err)
	}
}

func TestReadersDoNotSeeStaged(t *testing.T) {
	doc := New("test")
	tx, err := doc.Begin(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	tx.AppendRectangle(mustRect(t), 0)

	if n := len(doc.Entities()); n != 0 {
		t.Errorf("snapshot has %d entities during open transaction, want 0", n)
	}
	if err := tx.Commit(); err != nil {
		t.Fatal(err)
	}
	if n := len(doc.Entities()); n != 1 {
		t.Errorf("snapshot has %d entities after commit, want 1", n)
	}
}

func TestEntitiesSnapshotIsCopy(t *testing.T) {
	doc := New("test")
	doc.Update(context.Background(), func(tx *Tx) error {
		_, err := tx.AppendRectangle(mustRect(t), 0)
		return err
	})

	snap := doc.Entities()
	snap[0].Points[0].X = 999

	if doc.Entities()[0].Points[0].X == 999 {
		t.Error("mutating a snapshot changed the document")
	}
}

func TestAppendStairs(t *testing.T) {
	doc := New("test")
	s, err := geom.BuildStairs(geom.Flight{Length: 3, Rise: 2, Width: 1})
	if err != nil {
		t.Fatal(err)
	}

	var ids []string
	err = doc.Update(context.Background(), func(tx *Tx) error {
		if err := tx.SetLayer("STAIRS"); err != nil {
			return err
		}
		got, err := tx.AppendStairs(s)
		for _, id := range got {
			ids = append(ids, id.String())
		}
		return err
	})
	if err != nil {
		t.Fatal(err)
	}

	ents := doc.Entities()
	if len(ents) != 4 {
		t.Fatalf("len(Entities) = %d, want 4", len(ents))
	}
	seen := map[string]bool{}
	for i, e := range ents {
		if e.Kind != KindLine || e.Layer != "STAIRS" {
			t.Errorf("entity %d = %+v", i, e)
		}
		if e.Points[0] != s.Lines[i].Start || e.Points[1] != s.Lines[i].End {
			t.Errorf("entity %d points = %v, want %v", i, e.Points, s.Lines[i])
		}
		if e.ID.String() != ids[i] {
			t.Errorf("entity %d ID = %s, want %s", i, e.ID, ids[i])
		}
		seen[ids[i]] = true
	}
	if len(seen) != 4 {
		t.Errorf("entity IDs are not unique: %v", ids)
	}

	got, err := doc.Entity(ents[2].ID)
	if err != nil || got.ID != ents[2].ID {
		t.Errorf("Entity(%s) = %+v, %v", ents[2].ID, got, err)
	}
}

func TestEntityNotFound(t *testing.T) {
	doc := New("test")
	_, err := doc.Entity([16]byte{1})
	if !hserrors.Is(err, hserrors.ErrCodeNotFound) {
		t.Errorf("Entity(unknown) = %v, want NOT_FOUND", err)
	}
}

func TestDeterministicIDs(t *testing.T) {
	draw := func() []Entity {
		doc := New("same")
		doc.Update(context.Background(), func(tx *Tx) error {
			_, err := tx.AppendRectangle(mustRect(t), 0)
			return err
		})
		return doc.Entities()
	}
	a, b := draw(), draw()
	if a[0].ID != b[0].ID {
		t.Errorf("IDs differ between identical drawings: %s vs %s", a[0].ID, b[0].ID)
	}

	other := New("other")
	other.Update(context.Background(), func(tx *Tx) error {
		_, err := tx.AppendRectangle(mustRect(t), 0)
		return err
	})
	if other.Entities()[0].ID == a[0].ID {
		t.Error("documents with different names produced the same ID")
	}
}

func TestSnapshotHash(t *testing.T) {
	draw := func(name string) *Document {
		doc := New(name)
		doc.Update(context.Background(), func(tx *Tx) error {
			_, err := tx.AppendRectangle(mustRect(t), 0)
			return err
		})
		return doc
	}

	empty := New("same").Snapshot()
	if empty.Revision != 0 || len(empty.Entities) != 0 || empty.Hash == "" {
		t.Errorf("empty snapshot = %+v", empty)
	}

	a, b := draw("same"), draw("same")
	if a.Hash() != b.Hash() {
		t.Error("identical drawings should hash equally")
	}
	if a.Hash() == empty.Hash {
		t.Error("hash did not change after commit")
	}
	if a.Hash() == draw("other").Hash() {
		t.Error("different entity IDs should change the hash")
	}

	snap := a.Snapshot()
	if snap.Name != "same" || snap.Revision != 1 || len(snap.Entities) != 1 || snap.Hash != a.Hash() {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestAppendPolylineValidation(t *testing.T) {
	tests := []struct {
		name   string
		pts    []geom.Point3
		closed bool
	}{
		{"single point", []geom.Point3{{}}, false},
		{"closed with two", []geom.Point3{{}, {X: 1}}, true},
		{"nan vertex", []geom.Point3{{}, {X: math.NaN()}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := New("test")
			err := doc.Update(context.Background(), func(tx *Tx) error {
				_, err := tx.AppendPolyline(tt.pts, tt.closed)
				return err
			})
			if !hserrors.Is(err, hserrors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestAppendLineValidation(t *testing.T) {
	tests := []struct {
		name string
		line geom.Line3
	}{
		{"zero value", geom.Line3{}},
		{"coincident ends", geom.Line3{Start: geom.Point3{X: 1, Y: 2, Z: 3}, End: geom.Point3{X: 1, Y: 2, Z: 3}}},
		{"nan end", geom.Line3{End: geom.Point3{X: math.NaN()}}},
		{"infinite start", geom.Line3{Start: geom.Point3{Z: math.Inf(1)}, End: geom.Point3{X: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := New("test")
			err := doc.Update(context.Background(), func(tx *Tx) error {
				_, err := tx.AppendLine(tt.line)
				return err
			})
			if !hserrors.Is(err, hserrors.ErrCodeInvalidInput) {
				t.Errorf("error = %v, want INVALID_INPUT", err)
			}
			if n := len(doc.Snapshot().Entities); n != 0 {
				t.Errorf("%d entities committed, want 0", n)
			}
		})
	}
}

func TestSetLayerRejectsInvalid(t *testing.T) {
	doc := New("test")
	tx, _ := doc.Begin(context.Background())
	defer tx.Rollback()

	if err := tx.SetLayer(""); err == nil {
		t.Error("SetLayer(\"\") should fail")
	}
	if tx.Layer() != DefaultLayer {
		t.Errorf("Layer() = %q after failed SetLayer", tx.Layer())
	}
}

func TestConcurrentUpdates(t *testing.T) {
	doc := New("test")
	r := mustRect(t)

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := doc.Update(context.Background(), func(tx *Tx) error {
				_, err := tx.AppendRectangle(r, 0)
				return err
			})
			if err != nil {
				t.Error(err)
			}
			_ = doc.Entities()
		}()
	}
	wg.Wait()

	if doc.Len() != writers || doc.Revision() != writers {
		t.Errorf("Len() = %d, Revision() = %d, want %d", doc.Len(), doc.Revision(), writers)
	}
}

type recordingHooks struct {
	observability.NoopDrawingHooks
	mu        sync.Mutex
	commits   []int
	rollbacks []error
}

func (h *recordingHooks) OnCommit(_ context.Context, _ string, _ uint64, n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.commits = append(h.commits, n)
}

func (h *recordingHooks) OnRollback(_ context.Context, _ string, _ int, cause error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.rollbacks = append(h.rollbacks, cause)
}

func TestHooksFire(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetDrawingHooks(hooks)
	t.Cleanup(observability.Reset)

	doc := New("test")
	boom := errors.New("boom")
	doc.Update(context.Background(), func(tx *Tx) error {
		tx.AppendRectangle(mustRect(t), 0)
		return nil
	})
	doc.Update(context.Background(), func(tx *Tx) error { return boom })

	if len(hooks.commits) != 1 || hooks.commits[0] != 1 {
		t.Errorf("commits = %v, want [1]", hooks.commits)
	}
	if len(hooks.rollbacks) != 1 || !errors.Is(hooks.rollbacks[0], boom) {
		t.Errorf("rollbacks = %v, want [boom]", hooks.rollbacks)
	}
}
