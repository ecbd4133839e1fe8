// Command planedit is a TUI editor for floorplan documents.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tomsq/plan-toolkit/pkg/plan"
	"github.com/tomsq/plan-toolkit/pkg/planfile"
)

// MessageType for status messages.
type MessageType int

const (
	MsgInfo MessageType = iota
	MsgError
	MsgSuccess
)

// dragKind tags the transient pointer interaction. Exactly one drag can
// be active, so this is a tagged state instead of boolean flags.
type dragKind int

const (
	dragNone dragKind = iota
	dragPan
	dragVertex
)

type dragState struct {
	kind     dragKind
	lastX    int
	lastY    int
	vertexID string
	moved    bool
}

// Editor holds all editor state.
type Editor struct {
	screen   tcell.Screen
	session  *plan.Session
	viewport *plan.Viewport
	zoom     plan.ZoomCoalescer

	filename string
	modified bool
	config   Config

	message     string
	messageType MessageType

	drag dragState
}

func main() {
	cfg := LoadConfig()

	f := plan.NewFloorplan()
	var filename string
	if len(os.Args) > 1 {
		filename = os.Args[1]
		data, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", filename, err)
			os.Exit(1)
		}
		f, err = planfile.ParseJSON(data)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
			os.Exit(1)
		}
	}

	ed := &Editor{
		filename: filename,
		config:   cfg,
	}
	ed.session = plan.NewSession(f, func(*plan.Floorplan) { ed.modified = true })

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()
	ed.screen = screen

	w, h := screen.Size()
	ed.viewport = plan.NewViewport(float64(w), float64(h-2))
	ed.viewport.Scale = plan.MinScale // terminal cells are coarse; start zoomed out
	ed.centerOnPlan()

	ed.run()

	screen.Fini()
	cfg.LastDir = ed.lastDir()
	_ = SaveConfig(cfg)
}

// centerOnPlan moves the viewport offset to the plan's bounding-box
// center so loaded documents appear on screen.
func (ed *Editor) centerOnPlan() {
	f := ed.session.Plan()
	if len(f.Vertices) == 0 {
		return
	}
	minX, minY := f.Vertices[0].X, f.Vertices[0].Y
	maxX, maxY := minX, minY
	for i := range f.Vertices {
		v := &f.Vertices[i]
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	ed.viewport.OffsetX = (minX + maxX) / 2
	ed.viewport.OffsetY = (minY + maxY) / 2
}

func (ed *Editor) lastDir() string {
	if ed.filename == "" {
		return ed.config.LastDir
	}
	abs, err := filepath.Abs(ed.filename)
	if err != nil {
		return ed.config.LastDir
	}
	return filepath.Dir(abs)
}

func (ed *Editor) run() {
	// Frame ticker: commits coalesced zoom steps once per tick so a
	// wheel burst costs a single viewport update.
	go func() {
		ticker := time.NewTicker(33 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}()

	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			w, h := ed.screen.Size()
			ed.viewport.Resize(float64(w), float64(h-2))
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			ed.zoom.Commit(ed.viewport)
		}
	}
}

// handleKey returns true when the editor should exit.
func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlQ, tcell.KeyCtrlC:
		return true
	case tcell.KeyCtrlS:
		ed.save()
		return false
	case tcell.KeyEscape:
		ed.session.Cancel()
		ed.setMessage("Cancelled", MsgInfo)
		return false
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		ed.session.DeleteSelection()
		return false
	case tcell.KeyUp:
		ed.viewport.Pan(0, 4)
		return false
	case tcell.KeyDown:
		ed.viewport.Pan(0, -4)
		return false
	case tcell.KeyLeft:
		ed.viewport.Pan(4, 0)
		return false
	case tcell.KeyRight:
		ed.viewport.Pan(-4, 0)
		return false
	}

	switch ev.Rune() {
	case 'v', 'V':
		ed.session.SetMode(plan.ModeSelect)
		ed.setMessage("Select mode", MsgInfo)
	case 'w', 'W':
		ed.session.SetMode(plan.ModeDrawWalls)
		ed.setMessage("Draw walls: click to place vertices, click an earlier vertex to close a room", MsgInfo)
	case 'd', 'D':
		ed.session.SetMode(plan.ModePlaceDoors)
		ed.setMessage("Place doors: click a wall", MsgInfo)
	case '+', '=':
		ed.zoomAtCenter(ed.config.ZoomStep)
	case '-', '_':
		ed.zoomAtCenter(1 / ed.config.ZoomStep)
	}
	return false
}

func (ed *Editor) zoomAtCenter(factor float64) {
	center := plan.Point{X: ed.viewport.Width / 2, Y: ed.viewport.Height / 2}
	ed.viewport.ZoomBy(center, factor)
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	cursor := plan.Point{X: float64(x), Y: float64(y)}
	buttons := ev.Buttons()
	mods := ev.Modifiers()

	switch {
	case buttons&tcell.WheelUp != 0:
		ed.zoom.Add(cursor, ed.config.ZoomStep)
		return
	case buttons&tcell.WheelDown != 0:
		ed.zoom.Add(cursor, 1/ed.config.ZoomStep)
		return
	}

	switch ed.drag.kind {
	case dragPan:
		if buttons == tcell.ButtonNone {
			ed.drag = dragState{}
			return
		}
		ed.viewport.Pan(float64(x-ed.drag.lastX), float64(y-ed.drag.lastY))
		ed.drag.lastX = x
		ed.drag.lastY = y
		return
	case dragVertex:
		if buttons == tcell.ButtonNone {
			if ed.drag.moved {
				ed.session.EndMove()
			}
			ed.drag = dragState{}
			return
		}
		if x != ed.drag.lastX || y != ed.drag.lastY {
			ed.session.MoveSelectedVertex(ed.viewport.ScreenToWorld(cursor))
			ed.drag.lastX = x
			ed.drag.lastY = y
			ed.drag.moved = true
		}
		return
	}

	if buttons&tcell.ButtonMiddle != 0 ||
		(buttons&tcell.ButtonPrimary != 0 && mods&tcell.ModCtrl != 0) {
		ed.drag = dragState{kind: dragPan, lastX: x, lastY: y}
		return
	}

	if buttons&tcell.ButtonPrimary != 0 {
		world := ed.viewport.ScreenToWorld(cursor)
		angleSnap := mods&tcell.ModShift != 0

		if err := ed.session.Click(world, angleSnap); err != nil {
			ed.setMessage(err.Error(), MsgError)
			return
		}
		ed.message = ""

		// A selected vertex can be dragged until the button releases.
		if ed.session.Mode() == plan.ModeSelect {
			if sel := ed.session.Selection(); sel.Kind == plan.SelectVertex {
				ed.drag = dragState{kind: dragVertex, lastX: x, lastY: y, vertexID: sel.ID}
			}
		}
	}
}

func (ed *Editor) save() {
	if ed.filename == "" {
		ed.filename = filepath.Join(ed.config.LastDir, "untitled.json")
	}
	data, err := planfile.ToJSON(ed.session.Plan(), true)
	if err != nil {
		ed.setMessage(fmt.Sprintf("Save failed: %v", err), MsgError)
		return
	}
	if err := os.WriteFile(ed.filename, data, 0o644); err != nil {
		ed.setMessage(fmt.Sprintf("Save failed: %v", err), MsgError)
		return
	}
	ed.modified = false
	ed.setMessage(fmt.Sprintf("Saved %s", ed.filename), MsgSuccess)
}

func (ed *Editor) setMessage(msg string, t MessageType) {
	ed.message = msg
	ed.messageType = t
}
