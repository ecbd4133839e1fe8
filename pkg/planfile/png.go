// Native PNG rendering for floorplans. Mirrors the SVG renderer output
// using Go's image packages, with 4x supersampling for smooth lines.

package planfile

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"sort"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/tomsq/plan-toolkit/pkg/plan"
)

// PNGOptions configures PNG rendering.
type PNGOptions struct {
	Width     int
	Height    int
	Padding   int
	WallWidth float64 // wall stroke width in pixels at 1x
	FontSize  int
	Title     string
}

// DefaultPNGOptions returns sensible defaults.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{
		Width:     800,
		Height:    600,
		Padding:   40,
		WallWidth: 6,
		FontSize:  14,
	}
}

var (
	pngWhite  = color.RGBA{255, 255, 255, 255}
	pngWall   = color.RGBA{51, 51, 51, 255}    // #333
	pngGray   = color.RGBA{102, 102, 102, 255} // #666
	pngDoor   = color.RGBA{179, 107, 0, 255}   // #b36b00
	pngVertex = color.RGBA{21, 101, 192, 255}  // #1565c0
)

type renderContext struct {
	img       *image.RGBA
	scale     float64
	lineWidth float64
	face      font.Face
}

func newRenderContext(img *image.RGBA, scale int, lineWidth float64, fontSize int) *renderContext {
	fnt, err := opentype.Parse(goregular.TTF)
	if err != nil {
		panic(err) // should never happen with embedded font
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    float64(fontSize * scale),
		DPI:     72,
		Hinting: font.HintingNone, // supersampling replaces hinting
	})
	if err != nil {
		panic(err)
	}
	return &renderContext{
		img:       img,
		scale:     float64(scale),
		lineWidth: lineWidth * float64(scale),
		face:      face,
	}
}

// RenderPNG renders a floorplan to PNG.
func RenderPNG(f *plan.Floorplan, w io.Writer, opts PNGOptions) error {
	if opts.Width == 0 {
		opts.Width = 800
	}
	if opts.Height == 0 {
		opts.Height = 600
	}
	if opts.FontSize == 0 {
		opts.FontSize = 14
	}
	if opts.WallWidth == 0 {
		opts.WallWidth = 6
	}

	const scale = 4
	largeOpts := opts
	largeOpts.Width = opts.Width * scale
	largeOpts.Height = opts.Height * scale
	largeOpts.Padding = opts.Padding * scale

	largeImg := renderPNGInternal(f, largeOpts, scale, opts.WallWidth, opts.FontSize)

	finalImg := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.CatmullRom.Scale(finalImg, finalImg.Bounds(), largeImg, largeImg.Bounds(), draw.Over, nil)

	return png.Encode(w, finalImg)
}

func renderPNGInternal(f *plan.Floorplan, opts PNGOptions, scale int, lineWidth float64, fontSize int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	ctx := newRenderContext(img, scale, lineWidth, fontSize)

	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			img.Set(x, y, pngWhite)
		}
	}

	svgOpts := SVGOptions{Width: opts.Width, Height: opts.Height, Padding: opts.Padding}
	tr := fitTransform(f, svgOpts)

	if opts.Title != "" {
		drawTextCentered(ctx, opts.Width/2, 25*scale, opts.Title, pngWall)
	}

	// Room fills go under the walls.
	for i := range f.Rooms {
		r := &f.Rooms[i]
		pts, ok := f.LoopPoints(r.WallIDs)
		if !ok {
			continue
		}
		poly := make([]plan.Point, len(pts))
		for j, p := range pts {
			poly[j] = tr.apply(p)
		}
		fillPolygon(ctx, poly, parseHexColor(r.Color))

		if c, ok := f.Centroid(r.WallIDs); ok {
			s := tr.apply(c)
			drawTextCentered(ctx, int(s.X), int(s.Y), r.Name, pngWall)
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
			drawLine(ctx, a.X, a.Y, b.X, b.Y, pngWall)
		}
		length := start.Dist(end)
		for j := range w.Doors {
			d := &w.Doors[j]
			a := tr.apply(lerp(start, end, d.Position/length))
			b := tr.apply(lerp(start, end, (d.Position+d.Width)/length))
			thin := *ctx
			thin.lineWidth = ctx.lineWidth / 3
			drawLine(&thin, a.X, a.Y, b.X, b.Y, pngDoor)
		}
	}

	vertexRadius := ctx.lineWidth * 0.6
	for i := range f.Vertices {
		s := tr.apply(f.Vertices[i].Pos())
		fillCircle(ctx, s.X, s.Y, vertexRadius, pngVertex)
	}

	return img
}

// fillPolygon does a scanline fill with even-odd crossing.
func fillPolygon(ctx *renderContext, pts []plan.Point, c color.Color) {
	if len(pts) < 3 {
		return
	}
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts {
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	for y := int(minY); y <= int(maxY); y++ {
		fy := float64(y) + 0.5
		var xs []float64
		for i := range pts {
			a := pts[i]
			b := pts[(i+1)%len(pts)]
			if (a.Y <= fy) == (b.Y <= fy) {
				continue
			}
			t := (fy - a.Y) / (b.Y - a.Y)
			xs = append(xs, a.X+t*(b.X-a.X))
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := int(xs[i]); x <= int(xs[i+1]); x++ {
				ctx.img.Set(x, y, c)
			}
		}
	}
}

func fillCircle(ctx *renderContext, cx, cy, r float64, c color.Color) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				ctx.img.Set(int(cx+dx), int(cy+dy), c)
			}
		}
	}
}

// drawLine draws a line between two points with thickness from context.
func drawLine(ctx *renderContext, x1, y1, x2, y2 float64, c color.Color) {
	img := ctx.img
	thickness := ctx.lineWidth

	dx := x2 - x1
	dy := y2 - y1
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps < 1 {
		steps = 1
	}

	halfThick := thickness / 2

	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < 1 {
		for ty := -halfThick; ty <= halfThick; ty++ {
			for tx := -halfThick; tx <= halfThick; tx++ {
				img.Set(int(x1+tx), int(y1+ty), c)
			}
		}
		return
	}

	perpX := -dy / dist
	perpY := dx / dist

	for i := 0.0; i <= steps; i++ {
		t := i / steps
		cx := x1 + dx*t
		cy := y1 + dy*t

		for offset := -halfThick; offset <= halfThick; offset += 0.5 {
			img.Set(int(cx+perpX*offset), int(cy+perpY*offset), c)
		}
	}
}

// drawTextCentered draws text centered at the given position using Go
// Regular.
func drawTextCentered(ctx *renderContext, x, y int, text string, c color.Color) {
	width := font.MeasureString(ctx.face, text).Ceil()

	metrics := ctx.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	baselineY := y + int(float64(ascent)*0.15)

	d := &font.Drawer{
		Dst:  ctx.img,
		Src:  image.NewUniform(c),
		Face: ctx.face,
		Dot: fixed.Point26_6{
			X: fixed.I(x - width/2),
			Y: fixed.I(baselineY),
		},
	}
	d.DrawString(text)
}

// parseHexColor parses #rgb and #rrggbb strings, falling back to a
// light gray for anything unparseable.
func parseHexColor(s string) color.RGBA {
	fallback := color.RGBA{238, 238, 238, 255}
	if len(s) == 0 || s[0] != '#' {
		return fallback
	}
	hexVal := func(b byte) (int, bool) {
		switch {
		case b >= '0' && b <= '9':
			return int(b - '0'), true
		case b >= 'a' && b <= 'f':
			return int(b-'a') + 10, true
		case b >= 'A' && b <= 'F':
			return int(b-'A') + 10, true
		}
		return 0, false
	}
	switch len(s) {
	case 4:
		var v [3]int
		for i := 0; i < 3; i++ {
			h, ok := hexVal(s[i+1])
			if !ok {
				return fallback
			}
			v[i] = h*16 + h
		}
		return color.RGBA{uint8(v[0]), uint8(v[1]), uint8(v[2]), 255}
	case 7:
		var v [3]int
		for i := 0; i < 3; i++ {
			hi, ok1 := hexVal(s[1+2*i])
			lo, ok2 := hexVal(s[2+2*i])
			if !ok1 || !ok2 {
				return fallback
			}
			v[i] = hi*16 + lo
		}
		return color.RGBA{uint8(v[0]), uint8(v[1]), uint8(v[2]), 255}
	}
	return fallback
}
