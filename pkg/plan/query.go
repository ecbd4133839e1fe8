package plan

import "math"

// Geometric queries used to interpret clicks. All queries are pure
// functions of the current snapshot; none mutate state.

// WallHit describes the closest point on a wall to a query point.
type WallHit struct {
	Wall   *Wall
	Point  Point   // clamped projection onto the segment
	T      float64 // clamped projection parameter in [0,1]
	Offset float64 // feet along the wall from the start vertex
	Dist   float64 // perpendicular distance from the query point
}

// DoorHit describes a hit on a door span.
type DoorHit struct {
	Wall *Wall
	Door *Door
	WallHit
}

// ProjectPointOnSegment projects p onto the segment ab and clamps the
// parameter to [0,1]. Returns the clamped parameter and the closest
// point. A zero-length segment projects to a with t=0.
func ProjectPointOnSegment(p, a, b Point) (t float64, closest Point) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return 0, a
	}
	t = ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / lenSq
	t = math.Max(0, math.Min(1, t))
	return t, Point{a.X + t*dx, a.Y + t*dy}
}

// FindNearbyVertex returns the nearest vertex within tolerance of p, or
// nil. Strictly smaller distance wins; equal distances resolve to input
// order.
func (f *Floorplan) FindNearbyVertex(p Point, tolerance float64) *Vertex {
	var best *Vertex
	bestDist := tolerance
	for i := range f.Vertices {
		d := f.Vertices[i].Pos().Dist(p)
		if d < bestDist || (best == nil && d <= tolerance) {
			best = &f.Vertices[i]
			bestDist = d
		}
	}
	return best
}

// FindNearbyWall returns the wall whose segment passes within tolerance
// of p, with the clamped projection point. Walls with dangling endpoint
// references are skipped.
func (f *Floorplan) FindNearbyWall(p Point, tolerance float64) (WallHit, bool) {
	var best WallHit
	found := false
	for i := range f.Walls {
		w := &f.Walls[i]
		start, end, ok := f.WallEndpoints(w)
		if !ok {
			continue
		}
		t, closest := ProjectPointOnSegment(p, start, end)
		d := closest.Dist(p)
		if d > tolerance {
			continue
		}
		if !found || d < best.Dist {
			best = WallHit{
				Wall:   w,
				Point:  closest,
				T:      t,
				Offset: t * start.Dist(end),
				Dist:   d,
			}
			found = true
		}
	}
	return best, found
}

// FindNearbyDoor returns the nearest door whose span contains the
// wall-local projection of p, within tolerance of the wall segment.
func (f *Floorplan) FindNearbyDoor(p Point, tolerance float64) (DoorHit, bool) {
	var best DoorHit
	found := false
	for i := range f.Walls {
		w := &f.Walls[i]
		if len(w.Doors) == 0 {
			continue
		}
		start, end, ok := f.WallEndpoints(w)
		if !ok {
			continue
		}
		t, closest := ProjectPointOnSegment(p, start, end)
		d := closest.Dist(p)
		if d > tolerance {
			continue
		}
		offset := t * start.Dist(end)
		for j := range w.Doors {
			door := &w.Doors[j]
			if offset < door.Position || offset > door.Position+door.Width {
				continue
			}
			if !found || d < best.Dist {
				best = DoorHit{
					Wall: w,
					Door: door,
					WallHit: WallHit{
						Wall:   w,
						Point:  closest,
						T:      t,
						Offset: offset,
						Dist:   d,
					},
				}
				found = true
			}
		}
	}
	return best, found
}

// WallExists reports whether any wall connects the unordered vertex
// pair {a, b}.
func (f *Floorplan) WallExists(a, b string) bool {
	return f.WallBetween(a, b) != nil
}
