// Package pipeline runs the full analysis over a drawing: shape
// classification and symmetry for every path, then occlusion completion
// across the set.
package pipeline

import (
	"sort"
	"sync"

	"curvetopia/internal/logger"
	"curvetopia/pkg/cfg"
	"curvetopia/pkg/completion"
	"curvetopia/pkg/geometry"
	"curvetopia/pkg/shape"
	"curvetopia/pkg/symmetry"

	"golang.org/x/xerrors"
)

// ErrInvalidPath is returned for a path with fewer than two points or a
// non-finite coordinate.
var ErrInvalidPath = xerrors.New("invalid path")

// Result is the per-path analysis.
type Result struct {
	Label    shape.Label
	Symmetry symmetry.Record
}

// Report holds one Result and one completion.Result per input path, in
// input order.
type Report struct {
	Results   []Result
	Completed []completion.Result
}

// Validate checks the input contract shared by every stage.
func Validate(paths []geometry.Polyline) error {
	for i, p := range paths {
		if len(p) < 2 {
			return xerrors.Errorf("path %d has %d points: %w", i, len(p), ErrInvalidPath)
		}
		for j, pt := range p {
			if !pt.IsFinite() {
				return xerrors.Errorf("path %d point %d is %v: %w", i, j, pt, ErrInvalidPath)
			}
		}
	}
	return nil
}

// Run analyses paths with the given configuration. Simplification, when
// enabled, applies to analysis and completion only: a path that is not
// completed is reported as given. The input slices are not modified.
func Run(paths []geometry.Polyline, c cfg.Config) (Report, error) {
	if err := c.Validate(); err != nil {
		return Report{}, err
	}
	if err := Validate(paths); err != nil {
		return Report{}, err
	}

	prepared := paths
	if c.SimplifyEpsilon > 0 {
		prepared = make([]geometry.Polyline, len(paths))
		removed := 0
		for i, p := range paths {
			prepared[i] = p.Simplify(c.SimplifyEpsilon)
			removed += len(p) - len(prepared[i])
		}
		logger.Debug("simplified paths with epsilon %g, removed %d points", c.SimplifyEpsilon, removed)
	}

	report := Report{Results: make([]Result, len(prepared))}
	forEach(len(prepared), c.Workers, func(i int) {
		report.Results[i] = Result{
			Label:    shape.Classify(prepared[i], c.Shape),
			Symmetry: symmetry.Analyze(prepared[i], c.Symmetry),
		}
	})
	for i, r := range report.Results {
		logger.Debug("path %d: %s, %d axes, rotational order %d", i, r.Label, len(r.Symmetry.Axes), r.Symmetry.Order)
	}

	report.Completed = completion.Complete(prepared, c.Completion, c.Workers)
	completed := 0
	for i, r := range report.Completed {
		if !r.Completed {
			report.Completed[i].Path = paths[i]
			continue
		}
		completed++
		logger.Debug("path %d completed across path %d", i, r.Occluder)
	}

	logger.Info("analysed %d paths, completed %d", len(prepared), completed)
	return report, nil
}

// LabelCounts tallies the labels in the report.
func (r Report) LabelCounts() map[string]int {
	counts := map[string]int{}
	for _, res := range r.Results {
		counts[res.Label.String()]++
	}
	return counts
}

// Labels returns the distinct labels in the report, most frequent first.
func (r Report) Labels() []string {
	counts := r.LabelCounts()
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}

// CompletedPaths returns the output path for every input, completed or not.
func (r Report) CompletedPaths() []geometry.Polyline {
	paths := make([]geometry.Polyline, len(r.Completed))
	for i, c := range r.Completed {
		paths[i] = c.Path
	}
	return paths
}

// forEach calls fn for 0..n-1 on up to workers goroutines.
func forEach(n, workers int, fn func(i int)) {
	workers = max(1, min(workers, n))
	indices := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				fn(i)
			}
		}()
	}
	for i := 0; i < n; i++ {
		indices <- i
	}
	close(indices)
	wg.Wait()
}
