package render

import (
	"encoding/xml"
	"io"
	"sort"
	"strconv"
	"strings"

	"curvetopia/pkg/color"
	"curvetopia/pkg/pathio"
	"curvetopia/pkg/svgpath"

	"golang.org/x/xerrors"
)

const svgNamespace = "http://www.w3.org/2000/svg"

type svgNode struct {
	XMLName  xml.Name
	Xmlns    string     `xml:"xmlns,attr,omitempty"`
	Width    string     `xml:"width,attr,omitempty"`
	Height   string     `xml:"height,attr,omitempty"`
	ViewBox  string     `xml:"viewBox,attr,omitempty"`
	ID       string     `xml:"id,attr,omitempty"`
	Styles   string     `xml:"style,attr,omitempty"`
	D        string     `xml:"d,attr,omitempty"`
	Children []*svgNode `xml:",any"`

	Path []*svgpath.SubPath `xml:"-"`

	style          map[string]string
	styleNameOrder map[string]int
}

func (n *svgNode) SetStyle(name string, value string) {
	if n.style == nil {
		n.style = map[string]string{}
		n.styleNameOrder = map[string]int{}
	}
	if _, found := n.style[name]; !found {
		n.styleNameOrder[name] = len(n.styleNameOrder) + 1
	}
	n.style[name] = value
}

// serializeStyle writes the style attribute with properties in the order
// they were first set.
func (n *svgNode) serializeStyle() {
	if n.style == nil {
		return
	}
	names := make([]string, 0, len(n.style))
	for name := range n.style {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return n.styleNameOrder[names[i]] < n.styleNameOrder[names[j]]
	})
	var styleStrs []string
	for _, name := range names {
		styleStrs = append(styleStrs, name+":"+n.style[name])
	}
	n.Styles = strings.Join(styleStrs, ";")
}

func (n *svgNode) marshal() ([]byte, error) {
	var prepare func(node *svgNode)
	prepare = func(node *svgNode) {
		if node.Path != nil {
			node.D = svgpath.ToString(node.Path)
		}
		node.serializeStyle()
		for _, child := range node.Children {
			prepare(child)
		}
	}
	prepare(n)
	return xml.MarshalIndent(n, "", "  ")
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// SVG writes curves as an SVG document. All polylines of a group share one
// path element and one stroke colour.
func SVG(w io.Writer, curves []pathio.Curve) error {
	vp := newViewport(curves)
	root := &svgNode{
		XMLName: xml.Name{Local: "svg"},
		Xmlns:   svgNamespace,
		Width:   formatNumber(vp.width),
		Height:  formatNumber(vp.height),
		ViewBox: strings.Join([]string{
			formatNumber(vp.minX), formatNumber(vp.minY),
			formatNumber(vp.width), formatNumber(vp.height),
		}, " "),
	}
	group := &svgNode{XMLName: xml.Name{Local: "g"}}
	root.Children = append(root.Children, group)

	byGroup := map[int]*svgNode{}
	for _, c := range curves {
		subPath := svgpath.FromPolyline(c.Points, c.Points.IsClosed(closeTolerance))
		if subPath == nil {
			continue
		}
		node, found := byGroup[c.Group]
		if !found {
			node = &svgNode{
				XMLName: xml.Name{Local: "path"},
				ID:      "path-" + strconv.Itoa(c.Group),
			}
			node.SetStyle("fill", "none")
			node.SetStyle("stroke", color.ForGroup(c.Group).Hex())
			node.SetStyle("stroke-width", "2")
			node.SetStyle("vector-effect", "non-scaling-stroke")
			byGroup[c.Group] = node
			group.Children = append(group.Children, node)
		}
		node.Path = append(node.Path, subPath)
	}

	data, err := root.marshal()
	if err != nil {
		return xerrors.Errorf("marshal svg: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return xerrors.Errorf("write svg: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return xerrors.Errorf("write svg: %w", err)
	}
	return nil
}
