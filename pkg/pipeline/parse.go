package pipeline

import (
	"strconv"
	"strings"

	"github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/geom"
)

// ParsePoint2 parses "x,y". Whitespace around each coordinate is ignored.
func ParsePoint2(s string) (geom.Point2, error) {
	v, err := parseCoords(s, 2)
	if err != nil {
		return geom.Point2{}, err
	}
	return geom.Pt(v[0], v[1]), nil
}

// ParsePoint3 parses "x,y,z". A two-coordinate "x,y" is accepted with z = 0.
func ParsePoint3(s string) (geom.Point3, error) {
	if strings.Count(s, ",") == 1 {
		p, err := ParsePoint2(s)
		return p.Lift(0), err
	}
	v, err := parseCoords(s, 3)
	if err != nil {
		return geom.Point3{}, err
	}
	return geom.Point3{X: v[0], Y: v[1], Z: v[2]}, nil
}

func parseCoords(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, errors.New(errors.ErrCodeInvalidInput, "point %q: want %d comma-separated coordinates", s, n)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "point %q: coordinate %d", s, i+1)
		}
		if err := errors.ValidateFinite("coordinate", v); err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ParseFormats splits a comma-separated format list, lowercases entries,
// drops empties and duplicates, and validates the result.
func ParseFormats(s string) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	if err := ValidateFormats(out); err != nil {
		return nil, err
	}
	return out, nil
}
