package cfg

import (
	"os"
	"runtime"

	"golang.org/x/xerrors"
	"gopkg.in/yaml.v3"
)

// RotationPolicy decides which order is reported when several rotational
// symmetry orders pass the tolerance test.
type RotationPolicy string

const (
	// RotationLargest reports the largest passing order, so a square is 4.
	RotationLargest RotationPolicy = "largest"
	// RotationSmallest reports the first passing order, so a square is 2.
	RotationSmallest RotationPolicy = "smallest"
)

// Shape holds the thresholds used by the shape classifier. All relative
// tolerances are fractions (0.05 is 5%).
type Shape struct {
	// CloseTolerance is the per-coordinate distance within which the first
	// and last points of a path are considered the same point.
	CloseTolerance float64 `yaml:"close_tolerance"`

	// CollinearDot is the minimum |cos| between every pair of segment
	// directions for a path to count as a line. 0.99 is roughly 8 degrees.
	CollinearDot float64 `yaml:"collinear_dot"`

	CircleTolerance  float64 `yaml:"circle_tolerance"`
	EllipseTolerance float64 `yaml:"ellipse_tolerance"`

	// RightAngleTolerance bounds |cos| between adjacent rectangle sides and
	// |sin| between opposite ones.
	RightAngleTolerance float64 `yaml:"right_angle_tolerance"`

	PolygonEdgeTolerance  float64 `yaml:"polygon_edge_tolerance"`
	PolygonAngleTolerance float64 `yaml:"polygon_angle_tolerance"`

	// StarJumpRatio is the minimum change in radius between neighbouring
	// star vertices, as a fraction of the mean radius.
	StarJumpRatio float64 `yaml:"star_jump_ratio"`
}

type Symmetry struct {
	CloseTolerance float64 `yaml:"close_tolerance"`

	// ReflectionTolerance is scaled by the length of the point pair that
	// induces each candidate axis.
	ReflectionTolerance float64 `yaml:"reflection_tolerance"`

	// RotationTolerance is scaled by the path extent.
	RotationTolerance float64        `yaml:"rotation_tolerance"`
	RotationPolicy    RotationPolicy `yaml:"rotation_policy"`
}

type Completion struct {
	SampleCount  int `yaml:"sample_count"`
	SplineDegree int `yaml:"spline_degree"`
}

// Config is the full set of tunables for a run.
type Config struct {
	Shape      Shape      `yaml:"shape"`
	Symmetry   Symmetry   `yaml:"symmetry"`
	Completion Completion `yaml:"completion"`

	// SimplifyEpsilon enables a Douglas-Peucker pass before analysis when > 0.
	SimplifyEpsilon float64 `yaml:"simplify_epsilon"`
	// Workers bounds the goroutines used by every stage.
	Workers         int     `yaml:"workers"`
}

func Default() Config {
	return Config{
		Shape: Shape{
			CloseTolerance:        1e-8,
			CollinearDot:          0.99,
			CircleTolerance:       0.05,
			EllipseTolerance:      0.10,
			RightAngleTolerance:   0.05,
			PolygonEdgeTolerance:  0.05,
			PolygonAngleTolerance: 0.05,
			StarJumpRatio:         0.3,
		},
		Symmetry: Symmetry{
			CloseTolerance:      1e-8,
			ReflectionTolerance: 0.05,
			RotationTolerance:   0.05,
			RotationPolicy:      RotationLargest,
		},
		Completion: Completion{
			SampleCount:  100,
			SplineDegree: 3,
		},
		Workers: runtime.NumCPU(),
	}
}

// Load reads a YAML file and overlays it on Default. Keys missing from the
// file keep their default values.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, xerrors.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, xerrors.Errorf("parse config %s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return c, xerrors.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = xerrors.New("invalid config")

func (c Config) Validate() error {
	positive := map[string]float64{
		"shape.circle_tolerance":        c.Shape.CircleTolerance,
		"shape.ellipse_tolerance":       c.Shape.EllipseTolerance,
		"shape.right_angle_tolerance":   c.Shape.RightAngleTolerance,
		"shape.polygon_edge_tolerance":  c.Shape.PolygonEdgeTolerance,
		"shape.polygon_angle_tolerance": c.Shape.PolygonAngleTolerance,
		"shape.star_jump_ratio":         c.Shape.StarJumpRatio,
		"symmetry.reflection_tolerance": c.Symmetry.ReflectionTolerance,
		"symmetry.rotation_tolerance":   c.Symmetry.RotationTolerance,
	}
	for name, v := range positive {
		if !(v > 0) {
			return xerrors.Errorf("%s must be positive, got %v: %w", name, v, ErrInvalidConfig)
		}
	}
	if c.Shape.CloseTolerance < 0 || c.Symmetry.CloseTolerance < 0 {
		return xerrors.Errorf("close_tolerance must not be negative: %w", ErrInvalidConfig)
	}
	if !(c.Shape.CollinearDot > 0 && c.Shape.CollinearDot <= 1) {
		return xerrors.Errorf("shape.collinear_dot must be in (0, 1], got %v: %w", c.Shape.CollinearDot, ErrInvalidConfig)
	}
	switch c.Symmetry.RotationPolicy {
	case RotationLargest, RotationSmallest:
	default:
		return xerrors.Errorf("symmetry.rotation_policy %q: %w", c.Symmetry.RotationPolicy, ErrInvalidConfig)
	}
	if c.Completion.SampleCount < 2 {
		return xerrors.Errorf("completion.sample_count must be at least 2, got %d: %w", c.Completion.SampleCount, ErrInvalidConfig)
	}
	if c.Completion.SplineDegree != 1 && c.Completion.SplineDegree != 3 {
		return xerrors.Errorf("completion.spline_degree must be 1 or 3, got %d: %w", c.Completion.SplineDegree, ErrInvalidConfig)
	}
	if c.SimplifyEpsilon < 0 {
		return xerrors.Errorf("simplify_epsilon must not be negative: %w", ErrInvalidConfig)
	}
	return nil
}
