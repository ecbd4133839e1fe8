package plan

import (
	"math"
	"testing"
)

func drawClicks(t *testing.T, s *Session, points ...Point) {
	t.Helper()
	for _, p := range points {
		if err := s.Click(p, false); err != nil {
			t.Fatalf("click %v: %v", p, err)
		}
	}
}

func TestSessionDrawSquare(t *testing.T) {
	f := NewFloorplan()
	changes := 0
	s := NewSession(f, func(*Floorplan) { changes++ })
	s.SetMode(ModeDrawWalls)

	drawClicks(t, s,
		Point{0, 0},
		Point{10, 0},
		Point{10, 10},
		Point{0, 10},
		Point{0.2, 0.1}, // near the first vertex: closes the loop
	)

	if len(f.Vertices) != 4 || len(f.Walls) != 4 {
		t.Fatalf("%d vertices, %d walls; want 4, 4", len(f.Vertices), len(f.Walls))
	}
	if len(f.Rooms) != 1 {
		t.Fatalf("%d rooms, want 1", len(f.Rooms))
	}
	if area := f.LoopArea(f.Rooms[0].WallIDs); math.Abs(area-100) > 1e-9 {
		t.Errorf("room area = %v, want 100", area)
	}

	// Closing resets the path but stays in the mode.
	if len(s.Path()) != 0 {
		t.Errorf("path not reset after closing: %v", s.Path())
	}
	if s.Mode() != ModeDrawWalls {
		t.Errorf("mode = %v, want DRAW WALLS", s.Mode())
	}
	if changes == 0 {
		t.Error("no change notifications fired")
	}
	if err := f.CheckIntegrity(); err != nil {
		t.Errorf("integrity: %v", err)
	}
}

func TestSessionDrawSnapsToExistingVertex(t *testing.T) {
	f := squarePlan()
	s := NewSession(f, nil)
	s.SetMode(ModeDrawWalls)

	// Within vertex tolerance of b; no new vertex appears.
	drawClicks(t, s, Point{10.3, 0.2})
	if len(f.Vertices) != 4 {
		t.Fatalf("%d vertices, want 4", len(f.Vertices))
	}
	if len(s.Path()) != 1 || s.Path()[0] != "b" {
		t.Errorf("path = %v, want [b]", s.Path())
	}
}

func TestSessionDrawSplitsWall(t *testing.T) {
	f := squarePlan()
	s := NewSession(f, nil)
	s.SetMode(ModeDrawWalls)

	// On the bottom wall, away from both endpoints.
	drawClicks(t, s, Point{5, 0.3})

	if len(f.Vertices) != 5 {
		t.Fatalf("%d vertices, want 5 after split", len(f.Vertices))
	}
	if len(f.Walls) != 5 {
		t.Fatalf("%d walls, want 5 after split", len(f.Walls))
	}
	if f.Wall("ab") != nil {
		t.Error("split wall still present")
	}
	mid := f.Vertex(s.Path()[0])
	if mid == nil || mid.X != 5 || mid.Y != 0 {
		t.Errorf("split vertex = %+v, want (5,0)", mid)
	}
}

func TestSessionAngleSnap(t *testing.T) {
	f := NewFloorplan()
	s := NewSession(f, nil)
	s.SetMode(ModeDrawWalls)

	drawClicks(t, s, Point{0, 0})
	// Slightly off-axis; Shift snaps the segment to horizontal.
	if err := s.Click(Point{10, 0.8}, true); err != nil {
		t.Fatal(err)
	}

	if len(f.Vertices) != 2 {
		t.Fatalf("%d vertices, want 2", len(f.Vertices))
	}
	second := f.Vertices[1]
	if second.Y != 0 {
		t.Errorf("snapped vertex Y = %v, want 0", second.Y)
	}

	// A click near 45 degrees snaps onto the diagonal.
	if err := s.Click(Point{15, 5.4}, true); err != nil {
		t.Fatal(err)
	}
	third := f.Vertices[2]
	if math.Abs((third.X-second.X)-(third.Y-second.Y)) > GridSnap {
		t.Errorf("vertex (%v,%v) not on the 45 degree ray from (%v,%v)",
			third.X, third.Y, second.X, second.Y)
	}
}

func TestSessionCancelDiscardsPathOnly(t *testing.T) {
	f := squarePlan()
	f.ReconcileRooms()
	s := NewSession(f, nil)
	s.SetMode(ModeDrawWalls)

	// Two committed segments hanging off vertex b, then an open click.
	drawClicks(t, s, Point{10, 0}, Point{15, 0}, Point{15, 5})
	if len(f.Walls) != 6 {
		t.Fatalf("%d walls, want 6", len(f.Walls))
	}

	s.Cancel()

	if s.Mode() != ModeSelect {
		t.Errorf("mode = %v, want SELECT", s.Mode())
	}
	if len(s.Path()) != 0 {
		t.Errorf("path survived cancel: %v", s.Path())
	}
	// Committed geometry stays; only the path state is discarded.
	if len(f.Walls) != 6 {
		t.Errorf("%d walls after cancel, want 6", len(f.Walls))
	}
	if len(f.Rooms) != 1 {
		t.Errorf("%d rooms after cancel, want 1", len(f.Rooms))
	}
}

func TestSessionCancelPrunesLoneVertex(t *testing.T) {
	f := NewFloorplan()
	s := NewSession(f, nil)
	s.SetMode(ModeDrawWalls)

	drawClicks(t, s, Point{3, 3})
	if len(f.Vertices) != 1 {
		t.Fatalf("%d vertices, want 1", len(f.Vertices))
	}

	s.Cancel()

	if len(f.Vertices) != 0 {
		t.Errorf("single-click vertex survived cancel")
	}
}

func TestSessionSetModeDiscardsPath(t *testing.T) {
	f := NewFloorplan()
	s := NewSession(f, nil)
	s.SetMode(ModeDrawWalls)
	drawClicks(t, s, Point{3, 3})

	s.SetMode(ModeSelect)

	if len(s.Path()) != 0 {
		t.Errorf("path survived mode switch: %v", s.Path())
	}
	if len(f.Vertices) != 0 {
		t.Errorf("orphan vertex survived mode switch")
	}
}

func TestSessionSelectPriority(t *testing.T) {
	f := squarePlan()
	f.Walls[0].Doors = []Door{{ID: "d1", Position: 3, Width: 3, Height: 7}}
	s := NewSession(f, nil)

	// Door beats wall within the door span.
	s.Click(Point{4.5, 0.2}, false)
	if sel := s.Selection(); sel.Kind != SelectDoor || sel.ID != "d1" || sel.WallID != "ab" {
		t.Errorf("selection = %+v, want door d1", sel)
	}

	// Vertex beats wall near a corner.
	s.Click(Point{0.3, 0.2}, false)
	if sel := s.Selection(); sel.Kind != SelectVertex || sel.ID != "a" {
		t.Errorf("selection = %+v, want vertex a", sel)
	}

	// Bare wall segment.
	s.Click(Point{8, 0.2}, false)
	if sel := s.Selection(); sel.Kind != SelectWall || sel.ID != "ab" {
		t.Errorf("selection = %+v, want wall ab", sel)
	}

	// Empty space clears.
	s.Click(Point{5, 5}, false)
	if sel := s.Selection(); sel.Kind != SelectNone {
		t.Errorf("selection = %+v, want none", sel)
	}
}

func TestSessionPlaceAndDeleteDoor(t *testing.T) {
	f := squarePlan()
	s := NewSession(f, nil)
	s.SetMode(ModePlaceDoors)

	if err := s.Click(Point{4.5, 0.2}, false); err != nil {
		t.Fatal(err)
	}
	if len(f.Wall("ab").Doors) != 1 {
		t.Fatal("door not placed")
	}

	// A click in empty space is a quiet no-op.
	if err := s.Click(Point{5, 5}, false); err != nil {
		t.Fatal(err)
	}

	doorID := f.Wall("ab").Doors[0].ID
	s.SetMode(ModeSelect)
	s.Click(Point{4.5, 0.2}, false)
	if sel := s.Selection(); sel.Kind != SelectDoor || sel.ID != doorID {
		t.Fatalf("selection = %+v, want the placed door", sel)
	}
	s.DeleteSelection()
	if len(f.Wall("ab").Doors) != 0 {
		t.Error("door not deleted")
	}
	if s.Selection().Kind != SelectNone {
		t.Error("selection not cleared after delete")
	}
}

func TestSessionDeleteSelectedWall(t *testing.T) {
	f := squarePlan()
	f.ReconcileRooms()
	s := NewSession(f, nil)

	s.Click(Point{5, 0.2}, false)
	if sel := s.Selection(); sel.Kind != SelectWall || sel.ID != "ab" {
		t.Fatalf("selection = %+v, want wall ab", sel)
	}

	s.DeleteSelection()

	if f.Wall("ab") != nil {
		t.Error("wall not deleted")
	}
	if len(f.Rooms) != 0 {
		t.Errorf("%d rooms, want 0", len(f.Rooms))
	}
}

func TestSessionMoveVertexReconcilesOnRelease(t *testing.T) {
	f := squarePlan()
	f.ReconcileRooms()
	roomID := f.Rooms[0].ID
	s := NewSession(f, nil)

	s.Click(Point{0.2, 0.1}, false)
	if sel := s.Selection(); sel.Kind != SelectVertex || sel.ID != "a" {
		t.Fatalf("selection = %+v, want vertex a", sel)
	}

	s.MoveSelectedVertex(Point{-2, -2})
	s.EndMove()

	v := f.Vertex("a")
	if v.X != -2 || v.Y != -2 {
		t.Errorf("vertex at (%v,%v), want (-2,-2)", v.X, v.Y)
	}
	// The wall set is unchanged, so the room keeps its identity.
	if len(f.Rooms) != 1 || f.Rooms[0].ID != roomID {
		t.Errorf("room identity lost after drag: %+v", f.Rooms)
	}
	if area := f.LoopArea(f.Rooms[0].WallIDs); math.Abs(area-100) < 1e-9 {
		t.Error("area did not change after moving a corner")
	}
}

func TestSessionDrawReusesExistingWall(t *testing.T) {
	f := squarePlan()
	s := NewSession(f, nil)
	s.SetMode(ModeDrawWalls)

	// Path a -> b over the existing wall: reusing it is not an error.
	drawClicks(t, s, Point{0, 0}, Point{10, 0})
	if len(f.Walls) != 4 {
		t.Errorf("%d walls, want 4 (existing wall reused)", len(f.Walls))
	}
	if len(s.Path()) != 2 {
		t.Errorf("path = %v, want [a b]", s.Path())
	}
}

func TestSessionRepeatClickSameVertex(t *testing.T) {
	f := NewFloorplan()
	s := NewSession(f, nil)
	s.SetMode(ModeDrawWalls)

	drawClicks(t, s, Point{0, 0}, Point{0.1, 0.1})

	if len(f.Vertices) != 1 {
		t.Errorf("%d vertices, want 1", len(f.Vertices))
	}
	if len(f.Walls) != 0 {
		t.Errorf("%d walls, want 0", len(f.Walls))
	}
	if len(s.Path()) != 1 {
		t.Errorf("path = %v, want a single vertex", s.Path())
	}
}

func TestModeString(t *testing.T) {
	if ModeSelect.String() != "SELECT" ||
		ModeDrawWalls.String() != "DRAW WALLS" ||
		ModePlaceDoors.String() != "PLACE DOORS" {
		t.Error("unexpected mode labels")
	}
}
