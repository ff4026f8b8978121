package pipeline

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"curvetopia/pkg/cfg"
	"curvetopia/pkg/geometry"
	"curvetopia/pkg/shape"
)

func parabola() geometry.Polyline {
	var points geometry.Polyline
	for i := 0; i <= 40; i++ {
		x := float64(i) * 0.25
		points = append(points, geometry.Point{X: x, Y: (x - 5) * (x - 5) / 5})
	}
	return points
}

func drawing() []geometry.Polyline {
	return []geometry.Polyline{
		{{X: 30, Y: 0}, {X: 31, Y: 0}, {X: 31, Y: 1}, {X: 30, Y: 1}, {X: 30, Y: 0}},
		{{X: 20, Y: 0}, {X: 21, Y: 0}, {X: 20.5, Y: 0.866}, {X: 20, Y: 0}},
		parabola(),
		{{X: -1, Y: 1}, {X: 11, Y: 1}},
	}
}

func TestRun(t *testing.T) {
	report, err := Run(drawing(), cfg.Default())
	if err != nil {
		t.Fatalf("Run: %s", err)
	}

	var labels []string
	var orders []int
	for _, r := range report.Results {
		labels = append(labels, r.Label.String())
		orders = append(orders, r.Symmetry.Order)
	}
	if diff := cmp.Diff([]string{"rectangle", "regular_polygon_3", "irregular", "line"}, labels); diff != "" {
		t.Errorf("labels: %s", diff)
	}
	if diff := cmp.Diff(4, orders[0]); diff != "" {
		t.Errorf("square order: %s", diff)
	}
	if diff := cmp.Diff(3, orders[1]); diff != "" {
		t.Errorf("triangle order: %s", diff)
	}

	var completed []bool
	for _, c := range report.Completed {
		completed = append(completed, c.Completed)
	}
	if diff := cmp.Diff([]bool{false, false, true, false}, completed); diff != "" {
		t.Errorf("completed: %s", diff)
	}
	if got := report.Completed[2].Occluder; got != 3 {
		t.Errorf("parabola completed across path %d, want 3", got)
	}
	if got := len(report.CompletedPaths()[2]); got != 100 {
		t.Errorf("completed parabola has %d points, want 100", got)
	}

	want := map[string]int{"rectangle": 1, "regular_polygon_3": 1, "irregular": 1, "line": 1}
	if diff := cmp.Diff(want, report.LabelCounts()); diff != "" {
		t.Errorf("LabelCounts: %s", diff)
	}
}

func TestRunDoesNotModifyInput(t *testing.T) {
	paths := drawing()
	before := make([]geometry.Polyline, len(paths))
	for i, p := range paths {
		before[i] = p.Clone()
	}
	c := cfg.Default()
	c.SimplifyEpsilon = 0.01
	if _, err := Run(paths, c); err != nil {
		t.Fatalf("Run: %s", err)
	}
	if diff := cmp.Diff(before, paths); diff != "" {
		t.Errorf("input modified: %s", diff)
	}
}

func TestRunSimplifies(t *testing.T) {
	c := cfg.Default()
	c.SimplifyEpsilon = 0.01
	run := geometry.Polyline{{X: 0, Y: 0}, {X: 1, Y: 0.001}, {X: 2, Y: 0}, {X: 3, Y: 0}, {X: 3, Y: 0.001}}
	report, err := Run([]geometry.Polyline{run}, c)
	if err != nil {
		t.Fatalf("Run: %s", err)
	}
	// Unsimplified, the backtrack at the end keeps this from being a line.
	if got := report.Results[0].Label.Kind; got != shape.Line {
		t.Errorf("simplified path classified as %s, want line", got)
	}
	if diff := cmp.Diff(run, report.Completed[0].Path); diff != "" {
		t.Errorf("uncompleted path should be returned as given: %s", diff)
	}
}

func TestRunRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		paths []geometry.Polyline
	}{
		{"single point", []geometry.Polyline{{{X: 0, Y: 0}, {X: 1, Y: 1}}, {{X: 2, Y: 2}}}},
		{"NaN", []geometry.Polyline{{{X: 0, Y: 0}, {X: math.NaN(), Y: 1}}}},
		{"infinity", []geometry.Polyline{{{X: math.Inf(1), Y: 0}, {X: 1, Y: 1}}}},
	}
	for _, test := range tests {
		_, err := Run(test.paths, cfg.Default())
		if !errors.Is(err, ErrInvalidPath) {
			t.Errorf("%s: got error %v, want %v", test.name, err, ErrInvalidPath)
		}
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	c := cfg.Default()
	c.Completion.SampleCount = 0
	_, err := Run(drawing(), c)
	if !errors.Is(err, cfg.ErrInvalidConfig) {
		t.Errorf("got error %v, want %v", err, cfg.ErrInvalidConfig)
	}
}

func TestLabels(t *testing.T) {
	report := Report{Results: []Result{{}, {}, {}}}
	report.Results[1].Label.Kind = shape.Line
	if diff := cmp.Diff([]string{"irregular", "line"}, report.Labels()); diff != "" {
		t.Errorf("Labels: %s", diff)
	}
}

func TestRunEmpty(t *testing.T) {
	report, err := Run(nil, cfg.Default())
	if err != nil {
		t.Fatalf("Run(nil): %s", err)
	}
	if len(report.Results) != 0 || len(report.Completed) != 0 {
		t.Errorf("Run(nil) = %+v", report)
	}
}
