package geom_test

import (
	"fmt"

	"github.com/matzehuels/hyperstairs/pkg/geom"
)

func ExampleBuildRectangle() {
	r, err := geom.BuildRectangle(geom.Pt(0, 0), geom.Pt(10, 0), 4)
	if err != nil {
		fmt.Println(err)
		return
	}
	for i, c := range r {
		fmt.Printf("c%d: (%.1f, %.1f)\n", i+1, c.X, c.Y)
	}
	fmt.Printf("area: %.1f\n", r.Area())
	// Output:
	// c1: (0.0, -2.0)
	// c2: (10.0, -2.0)
	// c3: (10.0, 2.0)
	// c4: (0.0, 2.0)
	// area: 40.0
}

func ExampleBuildRectangle_degenerate() {
	_, err := geom.BuildRectangle(geom.Pt(1, 1), geom.Pt(1, 1), 4)
	fmt.Println(err)
	// Output:
	// degenerate rectangle: axis points coincide at (1, 1)
}

func ExampleBuildStairs() {
	s, err := geom.BuildStairs(geom.Flight{Length: 3, Rise: 2, Width: 1})
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, l := range s.Lines {
		fmt.Println(l.Start, "->", l.End)
	}
	// Output:
	// (0, 0, 0) -> (0, 3, 2)
	// (1, 0, 0) -> (1, 3, 2)
	// (0, 0, 0) -> (1, 0, 0)
	// (0, 3, 2) -> (1, 3, 2)
}
