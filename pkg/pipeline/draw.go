package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/matzehuels/hyperstairs/pkg/drawing"
	"github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/geom"
)

// checkAxis applies the axis policy to a rectangle's axis points.
func checkAxis(opts Options) error {
	if !geom.AxisAligned(opts.P1, opts.P2) {
		return nil
	}
	switch opts.AxisPolicy {
	case AxisReject:
		return errors.New(errors.ErrCodeInvalidInput,
			"axis points %s and %s are axis-aligned (axis_policy=reject)", opts.P1, opts.P2)
	case AxisWarn:
		opts.Logger.Warn("axis points share a coordinate; the rectangle is axis-aligned",
			"p1", opts.P1, "p2", opts.P2)
	}
	return nil
}

// stage builds the requested geometry and stages it on tx. Builder errors
// are returned unchanged so the caller's transaction rolls back.
func stage(tx *drawing.Tx, opts Options) ([]uuid.UUID, error) {
	if err := tx.SetLayer(opts.Layer); err != nil {
		return nil, err
	}

	switch opts.Shape {
	case ShapeRectangle:
		if err := checkAxis(opts); err != nil {
			return nil, err
		}
		r, err := geom.BuildRectangle(opts.P1, opts.P2, opts.Width)
		if err != nil {
			return nil, err
		}
		id, err := tx.AppendRectangle(r, opts.Elevation)
		if err != nil {
			return nil, err
		}
		opts.Logger.Debug("staged rectangle", "corners", r.Corners(), "area", r.Area())
		return []uuid.UUID{id}, nil

	case ShapeStairs:
		s, err := geom.BuildStairs(opts.Flight)
		if err != nil {
			return nil, err
		}
		opts.Logger.Debug("staged stairs", "run", s.RunLength(), "slope", s.Slope())
		return tx.AppendStairs(s)

	case ShapeLine:
		l, err := geom.NewLine(opts.Start, opts.End)
		if err != nil {
			return nil, err
		}
		id, err := tx.AppendLine(l)
		if err != nil {
			return nil, err
		}
		return []uuid.UUID{id}, nil
	}
	return nil, ValidateShape(opts.Shape)
}

// Draw builds the geometry described by opts and appends it to doc in a
// single transaction. Nothing is appended if any step fails.
func (r *Runner) Draw(ctx context.Context, doc *drawing.Document, opts Options) ([]uuid.UUID, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForDraw(); err != nil {
		return nil, err
	}

	var ids []uuid.UUID
	err := doc.Update(ctx, func(tx *drawing.Tx) error {
		var err error
		ids, err = stage(tx, opts)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.Logger.Debug("drew shape", "shape", opts.Shape, "entities", len(ids), "revision", doc.Revision())
	return ids, nil
}
