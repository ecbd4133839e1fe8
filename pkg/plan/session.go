package plan

import "math"

// Session is the interaction state machine: it turns interpreted
// pointer/keyboard input into mutation operator calls. The per-mode
// state is a tagged union rather than a pile of booleans, so
// mutually-exclusive interaction states cannot coexist by construction.

// Mode is the current edit mode.
type Mode int

const (
	ModeSelect Mode = iota
	ModeDrawWalls
	ModePlaceDoors
)

func (m Mode) String() string {
	switch m {
	case ModeSelect:
		return "SELECT"
	case ModeDrawWalls:
		return "DRAW WALLS"
	case ModePlaceDoors:
		return "PLACE DOORS"
	}
	return "?"
}

// SelectionKind tags the selected entity.
type SelectionKind int

const (
	SelectNone SelectionKind = iota
	SelectVertex
	SelectWall
	SelectDoor
)

// Selection identifies the selected entity. WallID is set only for
// doors, which live inside their wall.
type Selection struct {
	Kind   SelectionKind
	ID     string
	WallID string
}

// ChangeFunc receives the full snapshot after every mutation.
type ChangeFunc func(*Floorplan)

// Session drives a floorplan through user interaction.
type Session struct {
	plan     *Floorplan
	mode     Mode
	path     []string // vertex ids of the in-progress drawing path
	sel      Selection
	onChange ChangeFunc
}

// NewSession wraps a floorplan. onChange may be nil.
func NewSession(f *Floorplan, onChange ChangeFunc) *Session {
	return &Session{plan: f, mode: ModeSelect, onChange: onChange}
}

// Plan returns the underlying snapshot.
func (s *Session) Plan() *Floorplan { return s.plan }

// Mode returns the current edit mode.
func (s *Session) Mode() Mode { return s.mode }

// Path returns the in-progress drawing path vertex ids.
func (s *Session) Path() []string { return s.path }

// Selection returns the current selection.
func (s *Session) Selection() Selection { return s.sel }

// SetMode switches edit mode. Leaving DRAW_WALLS discards the
// uncommitted path; already committed walls and vertices stay.
func (s *Session) SetMode(m Mode) {
	if s.mode == ModeDrawWalls && m != ModeDrawWalls && len(s.path) > 0 {
		s.abandonPath()
		s.emit()
	}
	s.mode = m
	if m != ModeSelect {
		s.sel = Selection{}
	}
}

// Cancel handles Escape: the drawing path is discarded, the selection
// cleared, and the session returns to SELECT.
func (s *Session) Cancel() {
	s.abandonPath()
	s.sel = Selection{}
	s.mode = ModeSelect
	s.emit()
}

// abandonPath drops the path and prunes any vertex it left orphaned
// (a path of one click commits a vertex but no wall).
func (s *Session) abandonPath() {
	if len(s.path) == 0 {
		return
	}
	ids := s.path
	s.path = nil
	s.plan.pruneOrphanVertices(ids)
}

// Click interprets a world-space click in the current mode. angleSnap
// constrains the next drawn point to the nearest 45 degree increment
// from the last committed path vertex. The returned error is a
// structural rejection to surface to the user; the graph is unchanged
// when it is non-nil.
func (s *Session) Click(p Point, angleSnap bool) error {
	switch s.mode {
	case ModeSelect:
		s.clickSelect(p)
		return nil
	case ModeDrawWalls:
		return s.clickDraw(p, angleSnap)
	case ModePlaceDoors:
		return s.clickDoor(p)
	}
	return nil
}

func (s *Session) clickSelect(p Point) {
	if hit, ok := s.plan.FindNearbyDoor(p, WallSnapTolerance); ok {
		s.sel = Selection{Kind: SelectDoor, ID: hit.Door.ID, WallID: hit.Wall.ID}
		return
	}
	if v := s.plan.FindNearbyVertex(p, VertexSnapTolerance); v != nil {
		s.sel = Selection{Kind: SelectVertex, ID: v.ID}
		return
	}
	if hit, ok := s.plan.FindNearbyWall(p, WallSnapTolerance); ok {
		s.sel = Selection{Kind: SelectWall, ID: hit.Wall.ID}
		return
	}
	s.sel = Selection{}
}

func (s *Session) clickDraw(p Point, angleSnap bool) error {
	if angleSnap && len(s.path) > 0 {
		if last := s.plan.Vertex(s.path[len(s.path)-1]); last != nil {
			p = snapToAngle(last.Pos(), p)
		}
	}

	target := s.resolveDrawTarget(p)
	if target == "" {
		return nil
	}

	if len(s.path) == 0 {
		s.path = []string{target}
		s.emit()
		return nil
	}

	last := s.path[len(s.path)-1]
	if target == last {
		return nil
	}

	// Clicking a vertex already in the path (other than the most
	// recent) closes a loop and resets the path, staying in the mode.
	closing := false
	for _, id := range s.path[:len(s.path)-1] {
		if id == target {
			closing = true
			break
		}
	}

	if !s.plan.WallExists(last, target) {
		if _, err := s.plan.CreateWall(last, target); err != nil {
			return err
		}
	}

	if closing {
		if loop := s.plan.DetectRoomFromDrawing(s.path, target); loop != nil {
			s.plan.AddDetectedRoom(loop)
		}
		s.path = nil
	} else {
		s.path = append(s.path, target)
	}
	s.emit()
	return nil
}

// resolveDrawTarget turns a draw click into a vertex id: an existing
// nearby vertex, a new vertex splitting a nearby wall, or a fresh
// grid-snapped vertex.
func (s *Session) resolveDrawTarget(p Point) string {
	if v := s.plan.FindNearbyVertex(p, VertexSnapTolerance); v != nil {
		return v.ID
	}
	if hit, ok := s.plan.FindNearbyWall(p, WallSnapTolerance); ok {
		v, err := s.plan.SplitWallAtPoint(hit.Wall.ID, hit.Point)
		if err != nil || v == nil {
			return ""
		}
		return v.ID
	}
	return s.plan.CreateVertex(p).ID
}

func (s *Session) clickDoor(p Point) error {
	hit, ok := s.plan.FindNearbyWall(p, WallSnapTolerance)
	if !ok {
		return nil
	}
	_, err := s.plan.PlaceDoor(hit.Wall.ID, p)
	if err != nil {
		return err
	}
	s.emit()
	return nil
}

// DeleteSelection removes the selected entity, cascading per the
// operator semantics, then clears the selection.
func (s *Session) DeleteSelection() {
	switch s.sel.Kind {
	case SelectVertex:
		s.plan.DeleteVertex(s.sel.ID)
	case SelectWall:
		s.plan.DeleteWall(s.sel.ID)
	case SelectDoor:
		s.plan.DeleteDoor(s.sel.WallID, s.sel.ID)
	default:
		return
	}
	s.sel = Selection{}
	s.emit()
}

// MoveSelectedVertex drags the selected vertex to a new position.
// Rooms are reconciled once on release via EndMove.
func (s *Session) MoveSelectedVertex(p Point) {
	if s.sel.Kind != SelectVertex {
		return
	}
	s.plan.MoveVertex(s.sel.ID, p)
	s.emit()
}

// EndMove reconciles rooms after a completed vertex drag.
func (s *Session) EndMove() {
	s.plan.ReconcileRooms()
	s.emit()
}

func (s *Session) emit() {
	if s.onChange != nil {
		s.onChange(s.plan)
	}
}

// snapToAngle projects p onto the nearest 45 degree ray from origin.
func snapToAngle(origin, p Point) Point {
	dx := p.X - origin.X
	dy := p.Y - origin.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist == 0 {
		return p
	}
	step := math.Pi / 4
	angle := math.Round(math.Atan2(dy, dx)/step) * step
	return Point{
		X: origin.X + dist*math.Cos(angle),
		Y: origin.Y + dist*math.Sin(angle),
	}
}
