package plan

import (
	"errors"
	"fmt"
	"math"
)

// Mutation operators: the only legal way the graph changes. Every
// operator either applies fully and leaves all invariants intact, or
// rejects with a sentinel error and mutates nothing. Operators invoked
// with dangling ids are defensive no-ops: partially-applied edits can
// leave recoverable stale references, and those must not blow up the
// interaction loop.

// Structural rejection reasons. Callers match with errors.Is.
var (
	ErrDuplicateWall   = errors.New("a wall already connects these vertices")
	ErrDegenerateWall  = errors.New("wall endpoints are the same vertex")
	ErrDoorDoesNotFit  = errors.New("door does not fit within the wall corner margins")
	ErrDoorOverlap     = errors.New("door overlaps an existing door")
	ErrDoorAcrossSplit = errors.New("a door spans the split point")
	ErrSplitAtEndpoint = errors.New("split point coincides with a wall endpoint")
)

// roomPalette cycles as rooms are detected.
var roomPalette = []string{
	"#e8f5e9", "#fff3e0", "#e3f2fd", "#fce4ec", "#f3e5f5", "#fffde7",
}

// SnapToGrid snaps a world point to the vertex placement grid.
func SnapToGrid(p Point) Point {
	return Point{
		X: math.Round(p.X/GridSnap) * GridSnap,
		Y: math.Round(p.Y/GridSnap) * GridSnap,
	}
}

// CreateVertex appends a new vertex at the grid-snapped position and
// returns it.
func (f *Floorplan) CreateVertex(p Point) *Vertex {
	p = SnapToGrid(p)
	f.insertVertex(Vertex{ID: NewID(), X: p.X, Y: p.Y})
	return &f.Vertices[len(f.Vertices)-1]
}

// MoveVertex snaps and updates a vertex position in place. It does not
// recompute rooms; the caller decides when reconciliation happens.
// No-op if the id is unknown.
func (f *Floorplan) MoveVertex(id string, p Point) {
	v := f.Vertex(id)
	if v == nil {
		return
	}
	p = SnapToGrid(p)
	v.X = p.X
	v.Y = p.Y
}

// CreateWall appends a wall between two existing vertices. Rejects
// degenerate walls and duplicate connections; no-op (nil, nil) if
// either vertex id is dangling.
func (f *Floorplan) CreateWall(a, b string) (*Wall, error) {
	if a == b {
		return nil, ErrDegenerateWall
	}
	if f.Vertex(a) == nil || f.Vertex(b) == nil {
		return nil, nil
	}
	if f.WallExists(a, b) {
		return nil, ErrDuplicateWall
	}
	f.insertWall(Wall{ID: NewID(), StartVertexID: a, EndVertexID: b})
	return &f.Walls[len(f.Walls)-1], nil
}

// SplitWallAtPoint replaces a wall with two sub-walls meeting at a new
// vertex placed at the projection of p onto the wall. Existing doors are
// reassigned to whichever sub-wall contains their span; a door whose
// span (margins included) crosses the split point rejects the whole
// operation. Rooms referencing the old wall have it replaced by the two
// new ids in traversal order. No-op (nil, nil) for unknown wall ids.
func (f *Floorplan) SplitWallAtPoint(wallID string, p Point) (*Vertex, error) {
	w := f.Wall(wallID)
	if w == nil {
		return nil, nil
	}
	start, end, ok := f.WallEndpoints(w)
	if !ok {
		return nil, nil
	}

	t, split := ProjectPointOnSegment(p, start, end)
	length := start.Dist(end)
	const eps = 1e-9
	if t*length < eps || (1-t)*length < eps {
		return nil, ErrSplitAtEndpoint
	}
	splitOffset := t * length

	// Partition doors before mutating anything. A door survives the
	// split only if its span plus corner margin fits entirely inside
	// one of the halves.
	var firstDoors, secondDoors []Door
	for _, d := range w.Doors {
		switch {
		case d.Position >= DoorMargin && d.Position+d.Width <= splitOffset-DoorMargin:
			firstDoors = append(firstDoors, d)
		case d.Position >= splitOffset+DoorMargin && d.Position+d.Width <= length-DoorMargin:
			d.Position -= splitOffset
			secondDoors = append(secondDoors, d)
		default:
			return nil, fmt.Errorf("door %s: %w", d.ID, ErrDoorAcrossSplit)
		}
	}

	f.insertVertex(Vertex{ID: NewID(), X: split.X, Y: split.Y})
	mid := f.Vertices[len(f.Vertices)-1].ID

	first := Wall{ID: NewID(), StartVertexID: w.StartVertexID, EndVertexID: mid, Doors: firstDoors}
	second := Wall{ID: NewID(), StartVertexID: mid, EndVertexID: w.EndVertexID, Doors: secondDoors}

	oldStart := w.StartVertexID
	oldID := w.ID
	f.removeWall(oldID)
	f.insertWall(first)
	f.insertWall(second)

	// Rewrite room loops to reference both halves in traversal order:
	// if the preceding wall in the loop touches the old start vertex,
	// the first half comes first.
	for i := range f.Rooms {
		r := &f.Rooms[i]
		for j, id := range r.WallIDs {
			if id != oldID {
				continue
			}
			prev := f.Wall(r.WallIDs[(j-1+len(r.WallIDs))%len(r.WallIDs)])
			pair := []string{first.ID, second.ID}
			if prev != nil && !prev.HasVertex(oldStart) {
				pair = []string{second.ID, first.ID}
			}
			rewritten := make([]string, 0, len(r.WallIDs)+1)
			rewritten = append(rewritten, r.WallIDs[:j]...)
			rewritten = append(rewritten, pair...)
			rewritten = append(rewritten, r.WallIDs[j+1:]...)
			r.WallIDs = rewritten
			break
		}
	}

	return f.Vertex(mid), nil
}

// DeleteWall removes a wall, prunes endpoints left with no connections,
// strips the wall from rooms (dropping rooms that fall below 3 walls),
// and reconciles the room set against freshly detected faces. No-op for
// unknown ids.
func (f *Floorplan) DeleteWall(id string) {
	w := f.Wall(id)
	if w == nil {
		return
	}
	a, b := w.StartVertexID, w.EndVertexID
	f.removeWall(id)
	f.pruneOrphanVertices([]string{a, b})

	for i := len(f.Rooms) - 1; i >= 0; i-- {
		r := &f.Rooms[i]
		kept := r.WallIDs[:0]
		for _, wid := range r.WallIDs {
			if wid != id {
				kept = append(kept, wid)
			}
		}
		r.WallIDs = kept
		if len(r.WallIDs) < 3 {
			f.removeRoom(r.ID)
		}
	}

	f.ReconcileRooms()
}

// DeleteVertex removes a vertex and cascades to every wall that
// references it. No-op for unknown ids.
func (f *Floorplan) DeleteVertex(id string) {
	if f.Vertex(id) == nil {
		return
	}
	for {
		walls := f.WallsAt(id)
		if len(walls) == 0 {
			break
		}
		f.DeleteWall(walls[0].ID)
	}
	f.removeVertex(id)
}

// PlaceDoor centers a default-width door at the wall-local projection
// of the click point, clamped to respect the corner margins. Rejects if
// the wall is too short or the door would overlap an existing one.
// No-op (nil, nil) for unknown wall ids.
func (f *Floorplan) PlaceDoor(wallID string, click Point) (*Door, error) {
	w := f.Wall(wallID)
	if w == nil {
		return nil, nil
	}
	start, end, ok := f.WallEndpoints(w)
	if !ok {
		return nil, nil
	}
	length := start.Dist(end)
	if length < 2*DoorMargin+DefaultDoorWidth {
		return nil, ErrDoorDoesNotFit
	}

	t, _ := ProjectPointOnSegment(click, start, end)
	pos := t*length - DefaultDoorWidth/2
	pos = math.Max(DoorMargin, math.Min(pos, length-DoorMargin-DefaultDoorWidth))

	if overlapsAnyDoor(w.Doors, pos, DefaultDoorWidth, "") {
		return nil, ErrDoorOverlap
	}

	w.Doors = append(w.Doors, Door{
		ID:       NewID(),
		Position: pos,
		Width:    DefaultDoorWidth,
		Height:   DefaultDoorHeight,
	})
	return &w.Doors[len(w.Doors)-1], nil
}

// UpdateDoor revalidates the corner margins and non-overlap with the new
// position and width, exactly as in placement. On rejection no partial
// update occurs. No-op for unknown wall or door ids.
func (f *Floorplan) UpdateDoor(wallID, doorID string, position, width float64) error {
	w := f.Wall(wallID)
	if w == nil {
		return nil
	}
	var door *Door
	for i := range w.Doors {
		if w.Doors[i].ID == doorID {
			door = &w.Doors[i]
			break
		}
	}
	if door == nil {
		return nil
	}

	length := f.WallLength(w)
	if width <= 0 || position < DoorMargin || position+width > length-DoorMargin {
		return ErrDoorDoesNotFit
	}
	if overlapsAnyDoor(w.Doors, position, width, doorID) {
		return ErrDoorOverlap
	}

	door.Position = position
	door.Width = width
	return nil
}

// DeleteDoor removes a door from a wall. No-op for unknown ids.
func (f *Floorplan) DeleteDoor(wallID, doorID string) {
	w := f.Wall(wallID)
	if w == nil {
		return
	}
	for i := range w.Doors {
		if w.Doors[i].ID == doorID {
			w.Doors = append(w.Doors[:i], w.Doors[i+1:]...)
			return
		}
	}
}

// overlapsAnyDoor checks the half-open interval [position, position+width)
// against every door except excludeID.
func overlapsAnyDoor(doors []Door, position, width float64, excludeID string) bool {
	for i := range doors {
		d := &doors[i]
		if d.ID == excludeID {
			continue
		}
		if position < d.Position+d.Width && d.Position < position+width {
			return true
		}
	}
	return false
}

// ReconcileRooms realigns the room set with the detected faces of the
// graph. Rooms whose wall set matches a face survive with their id,
// name and color; faces not covered by any room become new rooms;
// rooms whose wall set no longer encloses a face are removed.
func (f *Floorplan) ReconcileRooms() {
	faces := f.DetectAllRooms()

	existing := make(map[string]*Room, len(f.Rooms))
	for i := range f.Rooms {
		existing[sortedWallKey(f.Rooms[i].WallIDs)] = &f.Rooms[i]
	}

	next := make([]Room, 0, len(faces))
	for _, face := range faces {
		if r, ok := existing[sortedWallKey(face)]; ok {
			next = append(next, *r)
			continue
		}
		next = append(next, f.newDetectedRoom(face, len(next)))
	}
	f.Rooms = next
}

// AddDetectedRoom registers a freshly detected loop as a room unless an
// existing room already covers the same wall set. Returns the room
// covering the loop.
func (f *Floorplan) AddDetectedRoom(wallIDs []string) *Room {
	key := sortedWallKey(wallIDs)
	for i := range f.Rooms {
		if sortedWallKey(f.Rooms[i].WallIDs) == key {
			return &f.Rooms[i]
		}
	}
	f.insertRoom(f.newDetectedRoom(wallIDs, len(f.Rooms)))
	return &f.Rooms[len(f.Rooms)-1]
}

func (f *Floorplan) newDetectedRoom(wallIDs []string, ordinal int) Room {
	ids := make([]string, len(wallIDs))
	copy(ids, wallIDs)
	return Room{
		ID:      NewID(),
		Name:    fmt.Sprintf("Room %d", ordinal+1),
		WallIDs: ids,
		Color:   roomPalette[ordinal%len(roomPalette)],
	}
}
