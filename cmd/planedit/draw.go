package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/tomsq/plan-toolkit/pkg/plan"
)

// Styles
var (
	styleDefault   = tcell.StyleDefault
	styleWall      = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleWallSel   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleDoor      = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleDoorSel   = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)
	styleVertex    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleVertexSel = tcell.StyleDefault.Background(tcell.ColorGreen).Foreground(tcell.ColorBlack)
	stylePath      = tcell.StyleDefault.Foreground(tcell.ColorTeal).Bold(true)
	styleRoomLabel = tcell.StyleDefault.Foreground(tcell.ColorPurple)
	styleLength    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleStatus    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgError  = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgOK     = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleHelp      = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()
	canvasH := h - 2

	ed.drawRooms(w, canvasH)
	ed.drawWalls(w, canvasH)
	ed.drawPath(w, canvasH)
	ed.drawVertices(w, canvasH)

	ed.drawStatusBar(w, h)
	ed.drawHelpBar(w, h)
}

// cell maps a world point to a terminal cell.
func (ed *Editor) cell(p plan.Point) (int, int) {
	s := ed.viewport.WorldToScreen(p)
	return int(math.Round(s.X)), int(math.Round(s.Y))
}

func (ed *Editor) drawRooms(w, h int) {
	f := ed.session.Plan()
	for i := range f.Rooms {
		r := &f.Rooms[i]
		c, ok := f.Centroid(r.WallIDs)
		if !ok {
			continue
		}
		x, y := ed.cell(c)
		label := fmt.Sprintf("%s (%.0f sq ft)", r.Name, f.LoopArea(r.WallIDs))
		ed.drawString(x-len(label)/2, y, label, styleRoomLabel, w, h)
	}
}

func (ed *Editor) drawWalls(w, h int) {
	f := ed.session.Plan()
	sel := ed.session.Selection()

	for i := range f.Walls {
		wall := &f.Walls[i]
		start, end, ok := f.WallEndpoints(wall)
		if !ok {
			continue
		}

		wallStyle := styleWall
		if sel.Kind == plan.SelectWall && sel.ID == wall.ID {
			wallStyle = styleWallSel
		}

		length := start.Dist(end)
		x1, y1 := ed.cell(start)
		x2, y2 := ed.cell(end)
		ed.drawCellLine(x1, y1, x2, y2, wallStyle, w, h)

		// Doors overdraw their span of the wall line.
		for j := range wall.Doors {
			d := &wall.Doors[j]
			doorStyle := styleDoor
			if sel.Kind == plan.SelectDoor && sel.ID == d.ID {
				doorStyle = styleDoorSel
			}
			ax, ay := ed.cell(lerp(start, end, d.Position/length))
			bx, by := ed.cell(lerp(start, end, (d.Position+d.Width)/length))
			ed.drawCellLine(ax, ay, bx, by, doorStyle, w, h)
		}

		if ed.config.ShowLengths && length > 0 {
			mx, my := ed.cell(lerp(start, end, 0.5))
			ed.drawString(mx+1, my, fmt.Sprintf("%.1f", length), styleLength, w, h)
		}
	}
}

func (ed *Editor) drawPath(w, h int) {
	f := ed.session.Plan()
	path := ed.session.Path()
	for i := 0; i+1 < len(path); i++ {
		a := f.Vertex(path[i])
		b := f.Vertex(path[i+1])
		if a == nil || b == nil {
			continue
		}
		x1, y1 := ed.cell(a.Pos())
		x2, y2 := ed.cell(b.Pos())
		ed.drawCellLine(x1, y1, x2, y2, stylePath, w, h)
	}
}

func (ed *Editor) drawVertices(w, h int) {
	f := ed.session.Plan()
	sel := ed.session.Selection()
	path := ed.session.Path()

	inPath := make(map[string]bool, len(path))
	for _, id := range path {
		inPath[id] = true
	}

	for i := range f.Vertices {
		v := &f.Vertices[i]
		x, y := ed.cell(v.Pos())
		if x < 0 || x >= w || y < 0 || y >= h {
			continue
		}
		style := styleVertex
		r := 'o'
		if inPath[v.ID] {
			style = stylePath
			r = '+'
		}
		if sel.Kind == plan.SelectVertex && sel.ID == v.ID {
			style = styleVertexSel
			r = '@'
		}
		ed.screen.SetContent(x, y, r, nil, style)
	}
}

// drawCellLine draws a line between cells, choosing the rune by slope.
func (ed *Editor) drawCellLine(x1, y1, x2, y2 int, style tcell.Style, w, h int) {
	dx := absInt(x2 - x1)
	dy := absInt(y2 - y1)

	r := '•'
	switch {
	case dy == 0:
		r = '─'
	case dx == 0:
		r = '│'
	case (x2-x1 > 0) == (y2-y1 > 0):
		r = '\\'
	default:
		r = '/'
	}

	// Bresenham
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	x, y := x1, y1
	for {
		if x >= 0 && x < w && y >= 0 && y < h {
			ed.screen.SetContent(x, y, r, nil, style)
		}
		if x == x2 && y == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	y := h - 2
	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, y, ' ', nil, styleStatus)
	}

	name := ed.filename
	if name == "" {
		name = "[untitled]"
	}
	mod := ""
	if ed.modified {
		mod = " *"
	}
	f := ed.session.Plan()
	left := fmt.Sprintf(" %s | %s%s | %s | zoom %.0f%%",
		ed.session.Mode(), name, mod, f, ed.viewport.Scale*100)
	ed.drawString(0, y, left, styleStatus, w, h)

	if ed.message != "" {
		style := styleMsgOK
		if ed.messageType == MsgError {
			style = styleMsgError
		}
		msg := " " + ed.message + " "
		ed.drawString(w-len(msg), y, msg, style, w, h)
	}
}

func (ed *Editor) drawHelpBar(w, h int) {
	help := " V select  W draw walls  D doors  Shift+click 45°  Esc cancel  Del delete  Ctrl+S save  Ctrl+Q quit"
	ed.drawString(0, h-1, help, styleHelp, w, h)
}

func (ed *Editor) drawString(x, y int, s string, style tcell.Style, w, h int) {
	if y < 0 || y >= h {
		return
	}
	for i, r := range s {
		cx := x + i
		if cx < 0 || cx >= w {
			continue
		}
		ed.screen.SetContent(cx, y, r, nil, style)
	}
}

func lerp(a, b plan.Point, t float64) plan.Point {
	return plan.Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
