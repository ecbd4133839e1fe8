package plan

import (
	"math"
	"sort"
	"strings"
)

// Room cycle detection. The wall graph is treated as a planar
// subdivision: incident walls are ordered by polar angle around each
// vertex, and faces are traced by always taking the tightest clockwise
// turn relative to the edge just traversed. Every bounded face comes out
// counter-clockwise (positive shoelace area); the single unbounded face
// comes out clockwise and is discarded by its sign.

// outgoing is a directed use of a wall, leaving vertex `from`.
type outgoing struct {
	wallID string
	to     string
	angle  float64
}

type dartKey struct {
	wallID string
	from   string
}

// DetectAllRooms returns every bounded face of the wall graph, each as
// an ordered list of wall ids. Walls the face walk traverses twice are
// excursions into dangling stubs, not boundary, and are stripped; a
// face that is not a closed loop after stripping is discarded. Faces
// are deduplicated by their sorted wall-id set. The result is
// deterministic and idempotent: re-running on an unchanged graph
// yields the same set.
func (f *Floorplan) DetectAllRooms() [][]string {
	adj := f.buildRotationSystem()

	visited := make(map[dartKey]bool)
	var faces [][]string
	seen := make(map[string]bool)

	for i := range f.Walls {
		w := &f.Walls[i]
		for _, from := range []string{w.StartVertexID, w.EndVertexID} {
			start := dartKey{w.ID, from}
			if visited[start] {
				continue
			}
			face, loop := f.traceFace(adj, visited, start)
			if face == nil {
				continue
			}
			if loopArea(loop) <= 0 {
				continue // unbounded outer face
			}
			face = dropRetracedWalls(face)
			if len(face) < 3 {
				continue
			}
			if _, ok := f.LoopVertices(face); !ok {
				continue
			}
			key := sortedWallKey(face)
			if seen[key] {
				continue
			}
			seen[key] = true
			faces = append(faces, face)
		}
	}
	return faces
}

// buildRotationSystem returns, per vertex, the incident wall directions
// sorted by polar angle, with ties broken by wall id: coincident
// vertices (a drag can stack two on the same snapped point) give two
// incident walls the same angle, and detection must stay deterministic
// regardless of wall insertion order. Walls with dangling endpoints are
// ignored.
func (f *Floorplan) buildRotationSystem() map[string][]outgoing {
	adj := make(map[string][]outgoing)
	for i := range f.Walls {
		w := &f.Walls[i]
		sv := f.Vertex(w.StartVertexID)
		ev := f.Vertex(w.EndVertexID)
		if sv == nil || ev == nil {
			continue
		}
		adj[sv.ID] = append(adj[sv.ID], outgoing{
			wallID: w.ID,
			to:     ev.ID,
			angle:  math.Atan2(ev.Y-sv.Y, ev.X-sv.X),
		})
		adj[ev.ID] = append(adj[ev.ID], outgoing{
			wallID: w.ID,
			to:     sv.ID,
			angle:  math.Atan2(sv.Y-ev.Y, sv.X-ev.X),
		})
	}
	for id := range adj {
		list := adj[id]
		sort.Slice(list, func(a, b int) bool {
			if list[a].angle != list[b].angle {
				return list[a].angle < list[b].angle
			}
			return list[a].wallID < list[b].wallID
		})
	}
	return adj
}

// traceFace walks one face starting from the given wall direction,
// marking every dart it consumes. It returns the ordered wall ids and
// the vertex loop, or nil if the walk cannot proceed (malformed graph).
func (f *Floorplan) traceFace(adj map[string][]outgoing, visited map[dartKey]bool, start dartKey) ([]string, []Point) {
	w := f.Wall(start.wallID)
	if w == nil {
		return nil, nil
	}
	cur := outgoing{wallID: w.ID, to: w.OtherVertex(start.from)}
	from := start.from

	var face []string
	var loop []Point

	for steps := 0; steps <= 4*len(f.Walls)+4; steps++ {
		visited[dartKey{cur.wallID, from}] = true
		face = append(face, cur.wallID)
		v := f.Vertex(from)
		if v == nil {
			return nil, nil
		}
		loop = append(loop, v.Pos())

		// Arrived at cur.to along cur.wallID; the next edge is the
		// clockwise-next one from the reversed arrival direction.
		here := cur.to
		list := adj[here]
		if len(list) == 0 {
			return nil, nil
		}
		idx := -1
		for i, o := range list {
			if o.wallID == cur.wallID && o.to == from {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, nil
		}
		next := list[(idx-1+len(list))%len(list)]

		from = here
		cur = next
		if (dartKey{cur.wallID, from}) == start {
			return face, loop
		}
	}
	return nil, nil // walk did not close; malformed graph contributes no face
}

// DetectRoomFromDrawing finds the cycle contained in an in-progress
// drawing path once it is closed at closingVertexID. The path is the
// ordered list of committed vertex ids; the closing vertex must already
// appear in it. Returns the ordered wall ids of the loop, or nil if the
// path does not contain a closed loop of at least 3 walls.
func (f *Floorplan) DetectRoomFromDrawing(pathVertexIDs []string, closingVertexID string) []string {
	startIdx := -1
	for i, id := range pathVertexIDs {
		if id == closingVertexID {
			startIdx = i
			break
		}
	}
	if startIdx < 0 {
		return nil
	}
	cycle := pathVertexIDs[startIdx:]
	if len(cycle) < 3 {
		return nil
	}

	wallIDs := make([]string, 0, len(cycle))
	for i := range cycle {
		a := cycle[i]
		b := cycle[(i+1)%len(cycle)]
		w := f.WallBetween(a, b)
		if w == nil {
			return nil
		}
		wallIDs = append(wallIDs, w.ID)
	}
	if !simpleLoop(wallIDs) {
		return nil
	}
	return wallIDs
}

// LoopVertices reconstructs the ordered vertex ids of a wall loop:
// element i is the vertex through which the walk enters wall i. Each
// wall must be entered at the vertex shared with its predecessor and
// exited through its other endpoint; checking shared vertices pairwise
// is not enough, since walls all meeting at one vertex would pass. ok
// is false if the ids do not form a closed traversal.
func (f *Floorplan) LoopVertices(wallIDs []string) ([]string, bool) {
	n := len(wallIDs)
	if n < 3 {
		return nil, false
	}
	walls := make([]*Wall, n)
	for i, id := range wallIDs {
		w := f.Wall(id)
		if w == nil {
			return nil, false
		}
		walls[i] = w
	}

	entry := sharedVertex(walls[n-1], walls[0])
	if entry == "" {
		return nil, false
	}
	start := entry
	out := make([]string, 0, n)
	for _, w := range walls {
		if !w.HasVertex(entry) {
			return nil, false
		}
		out = append(out, entry)
		entry = w.OtherVertex(entry)
	}
	if entry != start {
		return nil, false
	}
	return out, true
}

// LoopPoints returns the polygon traced by a wall loop.
func (f *Floorplan) LoopPoints(wallIDs []string) ([]Point, bool) {
	ids, ok := f.LoopVertices(wallIDs)
	if !ok {
		return nil, false
	}
	pts := make([]Point, len(ids))
	for i, id := range ids {
		v := f.Vertex(id)
		if v == nil {
			return nil, false
		}
		pts[i] = v.Pos()
	}
	return pts, true
}

// LoopArea returns the absolute polygon area enclosed by a wall loop,
// in square feet. Returns 0 for malformed loops.
func (f *Floorplan) LoopArea(wallIDs []string) float64 {
	pts, ok := f.LoopPoints(wallIDs)
	if !ok {
		return 0
	}
	return math.Abs(loopArea(pts))
}

// loopArea is the shoelace formula: positive for counter-clockwise
// polygons in a y-up coordinate system.
func loopArea(pts []Point) float64 {
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return area / 2
}

// Centroid returns the arithmetic mean of the loop's vertices; good
// enough for label placement.
func (f *Floorplan) Centroid(wallIDs []string) (Point, bool) {
	pts, ok := f.LoopPoints(wallIDs)
	if !ok || len(pts) == 0 {
		return Point{}, false
	}
	var c Point
	for _, p := range pts {
		c.X += p.X
		c.Y += p.Y
	}
	c.X /= float64(len(pts))
	c.Y /= float64(len(pts))
	return c, true
}

// dropRetracedWalls removes walls the face walk visited twice, keeping
// the remaining boundary in traversal order.
func dropRetracedWalls(face []string) []string {
	count := make(map[string]int, len(face))
	for _, id := range face {
		count[id]++
	}
	out := face[:0]
	for _, id := range face {
		if count[id] == 1 {
			out = append(out, id)
		}
	}
	return out
}

// simpleLoop reports whether no wall id repeats.
func simpleLoop(wallIDs []string) bool {
	seen := make(map[string]bool, len(wallIDs))
	for _, id := range wallIDs {
		if seen[id] {
			return false
		}
		seen[id] = true
	}
	return true
}

// sortedWallKey builds an order-independent identity for a wall set.
// Room identity is compared with this key, never by object identity.
func sortedWallKey(wallIDs []string) string {
	ids := make([]string, len(wallIDs))
	copy(ids, wallIDs)
	sort.Strings(ids)
	return strings.Join(ids, "|")
}
