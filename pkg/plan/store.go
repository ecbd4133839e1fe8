package plan

import "fmt"

// Structural primitives. These touch the collections and nothing else:
// no snapping, no geometry, no room logic. The mutation operators in
// ops.go are the only callers expected to use them.

func (f *Floorplan) insertVertex(v Vertex) {
	f.Vertices = append(f.Vertices, v)
}

func (f *Floorplan) removeVertex(id string) bool {
	for i := range f.Vertices {
		if f.Vertices[i].ID == id {
			f.Vertices = append(f.Vertices[:i], f.Vertices[i+1:]...)
			return true
		}
	}
	return false
}

func (f *Floorplan) insertWall(w Wall) {
	f.Walls = append(f.Walls, w)
}

func (f *Floorplan) removeWall(id string) bool {
	for i := range f.Walls {
		if f.Walls[i].ID == id {
			f.Walls = append(f.Walls[:i], f.Walls[i+1:]...)
			return true
		}
	}
	return false
}

func (f *Floorplan) insertRoom(r Room) {
	f.Rooms = append(f.Rooms, r)
}

func (f *Floorplan) removeRoom(id string) bool {
	for i := range f.Rooms {
		if f.Rooms[i].ID == id {
			f.Rooms = append(f.Rooms[:i], f.Rooms[i+1:]...)
			return true
		}
	}
	return false
}

// pruneOrphanVertices removes vertices no wall references.
// Only vertices in the candidate list are considered; pass nil to scan all.
func (f *Floorplan) pruneOrphanVertices(candidates []string) {
	if candidates == nil {
		for i := range f.Vertices {
			candidates = append(candidates, f.Vertices[i].ID)
		}
	}
	for _, id := range candidates {
		if len(f.WallsAt(id)) == 0 {
			f.removeVertex(id)
		}
	}
}

// CheckIntegrity verifies every structural invariant of the snapshot.
// It returns the first violation found, or nil if the graph is clean.
func (f *Floorplan) CheckIntegrity() error {
	seen := make(map[string]bool)
	for i := range f.Vertices {
		id := f.Vertices[i].ID
		if id == "" {
			return fmt.Errorf("vertex %d has empty id", i)
		}
		if seen[id] {
			return fmt.Errorf("duplicate vertex id %q", id)
		}
		seen[id] = true
	}

	pairs := make(map[[2]string]string)
	for i := range f.Walls {
		w := &f.Walls[i]
		if seen[w.ID] {
			return fmt.Errorf("duplicate id %q", w.ID)
		}
		seen[w.ID] = true

		if w.StartVertexID == w.EndVertexID {
			return fmt.Errorf("wall %q is degenerate: both endpoints are %q", w.ID, w.StartVertexID)
		}
		if f.Vertex(w.StartVertexID) == nil {
			return fmt.Errorf("wall %q references missing vertex %q", w.ID, w.StartVertexID)
		}
		if f.Vertex(w.EndVertexID) == nil {
			return fmt.Errorf("wall %q references missing vertex %q", w.ID, w.EndVertexID)
		}

		a, b := w.StartVertexID, w.EndVertexID
		if b < a {
			a, b = b, a
		}
		key := [2]string{a, b}
		if other, dup := pairs[key]; dup {
			return fmt.Errorf("walls %q and %q connect the same vertex pair", other, w.ID)
		}
		pairs[key] = w.ID

		if err := f.checkWallDoors(w); err != nil {
			return err
		}
	}

	for i := range f.Rooms {
		if err := f.checkRoomLoop(&f.Rooms[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f *Floorplan) checkWallDoors(w *Wall) error {
	length := f.WallLength(w)
	for i := range w.Doors {
		d := &w.Doors[i]
		if d.Width <= 0 {
			return fmt.Errorf("door %q on wall %q has non-positive width", d.ID, w.ID)
		}
		if d.Position < DoorMargin || d.Position+d.Width > length-DoorMargin {
			return fmt.Errorf("door %q on wall %q violates corner margin (pos=%.2f width=%.2f wall=%.2f)",
				d.ID, w.ID, d.Position, d.Width, length)
		}
		for j := 0; j < i; j++ {
			o := &w.Doors[j]
			if d.Position < o.Position+o.Width && o.Position < d.Position+d.Width {
				return fmt.Errorf("doors %q and %q overlap on wall %q", o.ID, d.ID, w.ID)
			}
		}
	}
	return nil
}

// checkRoomLoop verifies a room's wall ids form a closed traversal of
// length >= 3. Pairwise shared vertices do not imply closure (walls all
// meeting at one vertex share pairwise yet enclose nothing), so the
// walk is chained: each wall is entered at the vertex shared with its
// predecessor, exited through its other endpoint, and the final exit
// must return to the first wall's entry vertex.
func (f *Floorplan) checkRoomLoop(r *Room) error {
	if len(r.WallIDs) < 3 {
		return fmt.Errorf("room %q has %d walls, need at least 3", r.ID, len(r.WallIDs))
	}
	walls := make([]*Wall, len(r.WallIDs))
	for i, id := range r.WallIDs {
		w := f.Wall(id)
		if w == nil {
			return fmt.Errorf("room %q references missing wall %q", r.ID, id)
		}
		walls[i] = w
	}

	n := len(walls)
	entry := sharedVertex(walls[n-1], walls[0])
	if entry == "" {
		return fmt.Errorf("room %q: walls %q and %q do not share a vertex",
			r.ID, walls[n-1].ID, walls[0].ID)
	}
	start := entry
	for _, w := range walls {
		if !w.HasVertex(entry) {
			return fmt.Errorf("room %q: wall %q does not chain from vertex %q",
				r.ID, w.ID, entry)
		}
		entry = w.OtherVertex(entry)
	}
	if entry != start {
		return fmt.Errorf("room %q: wall sequence does not return to its start", r.ID)
	}
	return nil
}

// sharedVertex returns the vertex id two walls have in common, or "".
func sharedVertex(a, b *Wall) string {
	if b.HasVertex(a.StartVertexID) {
		return a.StartVertexID
	}
	if b.HasVertex(a.EndVertexID) {
		return a.EndVertexID
	}
	return ""
}
