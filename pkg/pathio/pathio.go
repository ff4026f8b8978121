// Package pathio reads and writes curves in the plain CSV layout used for
// hand-drawn input: one row per point, "path_id,polyline_id,x,y".
package pathio

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"curvetopia/pkg/geometry"

	"golang.org/x/xerrors"
)

// ErrMalformedRow is wrapped by every parse failure.
var ErrMalformedRow = xerrors.New("malformed row")

// Curve is one polyline of a drawing. Group is the path it belongs to; a
// path may be drawn with several polylines, numbered by Index.
type Curve struct {
	Group  int
	Index  int
	Points geometry.Polyline
}

type key struct{ group, index int }

// ReadCSV collects rows into curves. Rows with the same path and polyline id
// form one curve, in row order; curves are returned in the order their first
// row appears. A non-numeric first row is taken as a header and skipped.
func ReadCSV(r io.Reader) ([]Curve, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	var curves []Curve
	lookup := map[key]int{}
	for line := 1; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, xerrors.Errorf("line %d: %v: %w", line, err, ErrMalformedRow)
		}

		var values [4]float64
		for i, field := range record {
			values[i], err = strconv.ParseFloat(field, 64)
			if err != nil {
				break
			}
		}
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, xerrors.Errorf("line %d: %v: %w", line, err, ErrMalformedRow)
		}

		k, err := idKey(values[0], values[1])
		if err != nil {
			return nil, xerrors.Errorf("line %d: %v: %w", line, err, ErrMalformedRow)
		}
		i, found := lookup[k]
		if !found {
			i = len(curves)
			lookup[k] = i
			curves = append(curves, Curve{Group: k.group, Index: k.index})
		}
		curves[i].Points = append(curves[i].Points, geometry.Point{X: values[2], Y: values[3]})
	}
	return curves, nil
}

// Ids are often written as floats ("0.0e+00"); they must still be integers.
func idKey(group, index float64) (key, error) {
	if group != math.Trunc(group) || index != math.Trunc(index) {
		return key{}, xerrors.Errorf("ids %v,%v are not integers", group, index)
	}
	return key{group: int(group), index: int(index)}, nil
}

// WriteCSV writes curves in the layout ReadCSV accepts, without a header.
func WriteCSV(w io.Writer, curves []Curve) error {
	writer := csv.NewWriter(w)
	format := func(v float64) string {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	for _, c := range curves {
		group, index := strconv.Itoa(c.Group), strconv.Itoa(c.Index)
		for _, p := range c.Points {
			if err := writer.Write([]string{group, index, format(p.X), format(p.Y)}); err != nil {
				return xerrors.Errorf("write curve %d/%d: %w", c.Group, c.Index, err)
			}
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return xerrors.Errorf("flush csv: %w", err)
	}
	return nil
}

// Paths returns the point lists of curves, in the same order.
func Paths(curves []Curve) []geometry.Polyline {
	paths := make([]geometry.Polyline, len(curves))
	for i, c := range curves {
		paths[i] = c.Points
	}
	return paths
}
