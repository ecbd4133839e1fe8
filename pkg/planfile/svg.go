package planfile

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/tomsq/plan-toolkit/pkg/plan"
)

// SVGOptions controls SVG rendering.
type SVGOptions struct {
	Width       int    // canvas width in pixels
	Height      int    // canvas height in pixels
	Padding     int    // padding around the drawing
	WallWidth   float64 // wall stroke width in pixels
	FontSize    int    // room label font size
	LabelSize   int    // wall dimension label size (0 = FontSize - 3)
	Title       string
	ShowLengths bool // annotate walls with their length in feet
}

// DefaultSVGOptions returns sensible defaults.
func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:       800,
		Height:      600,
		Padding:     40,
		WallWidth:   6,
		FontSize:    14,
		ShowLengths: true,
	}
}

// GenerateSVG renders a floorplan to SVG. Rooms are filled polygons,
// walls are thick segments with gaps where doors are cut, vertices are
// small circles. The drawing is scaled to fit the canvas.
func GenerateSVG(f *plan.Floorplan, opts SVGOptions) string {
	if opts.Width == 0 {
		opts.Width = 800
	}
	if opts.Height == 0 {
		opts.Height = 600
	}
	if opts.FontSize == 0 {
		opts.FontSize = 14
	}
	if opts.LabelSize == 0 {
		opts.LabelSize = opts.FontSize - 3
	}
	if opts.WallWidth == 0 {
		opts.WallWidth = 6
	}

	tr := fitTransform(f, opts)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		opts.Width, opts.Height, opts.Width, opts.Height))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(`  <rect width="%d" height="%d" fill="#ffffff"/>`, opts.Width, opts.Height))
	sb.WriteString("\n")

	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf(`  <text x="%d" y="%d" font-family="Helvetica" font-size="%d" fill="#333333">%s</text>`,
			opts.Padding, opts.FontSize+6, opts.FontSize+4, html.EscapeString(opts.Title)))
		sb.WriteString("\n")
	}

	// Room fills go under the walls.
	for i := range f.Rooms {
		r := &f.Rooms[i]
		pts, ok := f.LoopPoints(r.WallIDs)
		if !ok {
			continue
		}
		var poly []string
		for _, p := range pts {
			s := tr.apply(p)
			poly = append(poly, fmt.Sprintf("%.1f,%.1f", s.X, s.Y))
		}
		color := r.Color
		if color == "" {
			color = "#eeeeee"
		}
		sb.WriteString(fmt.Sprintf(`  <polygon points="%s" fill="%s" fill-opacity="0.7" stroke="none"/>`,
			strings.Join(poly, " "), html.EscapeString(color)))
		sb.WriteString("\n")

		if c, ok := f.Centroid(r.WallIDs); ok {
			s := tr.apply(c)
			sb.WriteString(fmt.Sprintf(`  <text x="%.1f" y="%.1f" font-family="Helvetica" font-size="%d" fill="#333333" text-anchor="middle">%s</text>`,
				s.X, s.Y, opts.FontSize, html.EscapeString(r.Name)))
			sb.WriteString("\n")
		}
	}

	for i := range f.Walls {
		w := &f.Walls[i]
		start, end, ok := f.WallEndpoints(w)
		if !ok {
			continue
		}
		for _, seg := range wallSegments(f, w) {
			a := tr.apply(lerp(start, end, seg[0]))
			b := tr.apply(lerp(start, end, seg[1]))
			sb.WriteString(fmt.Sprintf(`  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#333333" stroke-width="%.1f" stroke-linecap="round"/>`,
				a.X, a.Y, b.X, b.Y, opts.WallWidth))
			sb.WriteString("\n")
		}
		// Door leaves drawn as thin lines across the gap.
		length := start.Dist(end)
		for j := range w.Doors {
			d := &w.Doors[j]
			a := tr.apply(lerp(start, end, d.Position/length))
			b := tr.apply(lerp(start, end, (d.Position+d.Width)/length))
			sb.WriteString(fmt.Sprintf(`  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#b36b00" stroke-width="%.1f"/>`,
				a.X, a.Y, b.X, b.Y, opts.WallWidth/3))
			sb.WriteString("\n")
		}
		if opts.ShowLengths {
			mid := tr.apply(lerp(start, end, 0.5))
			sb.WriteString(fmt.Sprintf(`  <text x="%.1f" y="%.1f" font-family="Helvetica" font-size="%d" fill="#666666" text-anchor="middle">%.1f ft</text>`,
				mid.X, mid.Y-opts.WallWidth, opts.LabelSize, length))
			sb.WriteString("\n")
		}
	}

	for i := range f.Vertices {
		s := tr.apply(f.Vertices[i].Pos())
		sb.WriteString(fmt.Sprintf(`  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="#1565c0"/>`,
			s.X, s.Y, opts.WallWidth*0.6))
		sb.WriteString("\n")
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// transform maps world feet into the SVG pixel canvas.
type transform struct {
	scale      float64
	minX, minY float64
	padX, padY float64
}

func (t transform) apply(p plan.Point) plan.Point {
	return plan.Point{
		X: (p.X-t.minX)*t.scale + t.padX,
		Y: (p.Y-t.minY)*t.scale + t.padY,
	}
}

// fitTransform scales the plan's bounding box into the canvas, centered.
func fitTransform(f *plan.Floorplan, opts SVGOptions) transform {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range f.Vertices {
		v := &f.Vertices[i]
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	if len(f.Vertices) == 0 {
		return transform{scale: 1, padX: float64(opts.Padding), padY: float64(opts.Padding)}
	}

	spanX := maxX - minX
	spanY := maxY - minY
	availW := float64(opts.Width - 2*opts.Padding)
	availH := float64(opts.Height - 2*opts.Padding)

	scale := plan.PixelsPerFoot
	if spanX > 0 && scale*spanX > availW {
		scale = availW / spanX
	}
	if spanY > 0 && scale*spanY > availH {
		scale = availH / spanY
	}

	return transform{
		scale: scale,
		minX:  minX,
		minY:  minY,
		padX:  float64(opts.Padding) + (availW-scale*spanX)/2,
		padY:  float64(opts.Padding) + (availH-scale*spanY)/2,
	}
}

// wallSegments returns the solid portions of a wall as [t0,t1] parameter
// spans, leaving gaps where doors are cut.
func wallSegments(f *plan.Floorplan, w *plan.Wall) [][2]float64 {
	start, end, ok := f.WallEndpoints(w)
	if !ok {
		return nil
	}
	length := start.Dist(end)
	if length == 0 {
		return nil
	}
	if len(w.Doors) == 0 {
		return [][2]float64{{0, 1}}
	}

	// Doors never overlap, so a single sorted sweep suffices.
	cuts := make([][2]float64, 0, len(w.Doors))
	for i := range w.Doors {
		d := &w.Doors[i]
		cuts = append(cuts, [2]float64{d.Position / length, (d.Position + d.Width) / length})
	}
	for i := 1; i < len(cuts); i++ {
		for j := i; j > 0 && cuts[j][0] < cuts[j-1][0]; j-- {
			cuts[j], cuts[j-1] = cuts[j-1], cuts[j]
		}
	}

	var segs [][2]float64
	pos := 0.0
	for _, c := range cuts {
		if c[0] > pos {
			segs = append(segs, [2]float64{pos, c[0]})
		}
		pos = c[1]
	}
	if pos < 1 {
		segs = append(segs, [2]float64{pos, 1})
	}
	return segs
}

func lerp(a, b plan.Point, t float64) plan.Point {
	return plan.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}
