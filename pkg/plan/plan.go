// Package plan implements the planar wall-graph engine behind the
// floorplan editor: vertices, walls, doors, derived rooms, the geometric
// queries that interpret clicks, face detection, and the mutation
// operators that keep the graph consistent under edits.
package plan

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// All world coordinates and lengths are in feet.
const (
	// PixelsPerFoot is the base world-to-screen scale at zoom 1.0.
	PixelsPerFoot = 20.0

	// GridSnap is the vertex placement resolution.
	GridSnap = 0.5

	// DoorMargin is the clearance a door must keep from each wall end.
	DoorMargin = 1.0

	DefaultDoorWidth  = 3.0
	DefaultDoorHeight = 7.0

	MinScale = 0.1
	MaxScale = 10.0

	// Hit-test tolerances for interpreting clicks.
	VertexSnapTolerance = 0.75
	WallSnapTolerance   = 0.5
)

// Point is a 2D world coordinate in feet.
type Point struct {
	X, Y float64
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Vertex is a point in the wall graph.
type Vertex struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Pos returns the vertex position as a Point.
func (v Vertex) Pos() Point { return Point{v.X, v.Y} }

// Door is an opening on a wall. Position and Width are measured in feet
// along the wall from the start vertex.
type Door struct {
	ID       string  `json:"id"`
	Position float64 `json:"position"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
}

// Wall is an undirected edge between two vertices, optionally carrying
// door cut-outs. A wall between A and B is the same wall as B to A.
type Wall struct {
	ID            string `json:"id"`
	StartVertexID string `json:"startVertexId"`
	EndVertexID   string `json:"endVertexId"`
	Doors         []Door `json:"doors,omitempty"`
}

// Room is a minimal closed loop of walls, detected from the graph.
// Rooms are derived data: they are created and removed by reconciliation,
// never drawn directly.
type Room struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	WallIDs []string `json:"wallIds"`
	Color   string   `json:"color"`
}

// Floorplan is the canonical snapshot of the wall graph. It is the only
// structure exchanged with callers: renderers, persistence layers and 3D
// builders all consume it read-only.
type Floorplan struct {
	Vertices []Vertex `json:"vertices"`
	Walls    []Wall   `json:"walls"`
	Rooms    []Room   `json:"rooms"`
}

// NewFloorplan returns an empty floorplan.
func NewFloorplan() *Floorplan {
	return &Floorplan{
		Vertices: make([]Vertex, 0),
		Walls:    make([]Wall, 0),
		Rooms:    make([]Room, 0),
	}
}

// NewID returns a fresh entity id.
func NewID() string { return uuid.NewString() }

// Vertex returns the vertex with the given id, or nil.
func (f *Floorplan) Vertex(id string) *Vertex {
	for i := range f.Vertices {
		if f.Vertices[i].ID == id {
			return &f.Vertices[i]
		}
	}
	return nil
}

// Wall returns the wall with the given id, or nil.
func (f *Floorplan) Wall(id string) *Wall {
	for i := range f.Walls {
		if f.Walls[i].ID == id {
			return &f.Walls[i]
		}
	}
	return nil
}

// Room returns the room with the given id, or nil.
func (f *Floorplan) Room(id string) *Room {
	for i := range f.Rooms {
		if f.Rooms[i].ID == id {
			return &f.Rooms[i]
		}
	}
	return nil
}

// WallBetween returns the wall connecting the unordered vertex pair
// {a, b}, or nil.
func (f *Floorplan) WallBetween(a, b string) *Wall {
	for i := range f.Walls {
		w := &f.Walls[i]
		if (w.StartVertexID == a && w.EndVertexID == b) ||
			(w.StartVertexID == b && w.EndVertexID == a) {
			return w
		}
	}
	return nil
}

// WallEndpoints returns the world positions of a wall's endpoints.
// ok is false if either endpoint id is dangling.
func (f *Floorplan) WallEndpoints(w *Wall) (start, end Point, ok bool) {
	sv := f.Vertex(w.StartVertexID)
	ev := f.Vertex(w.EndVertexID)
	if sv == nil || ev == nil {
		return Point{}, Point{}, false
	}
	return sv.Pos(), ev.Pos(), true
}

// WallLength returns the length of a wall in feet, or 0 if an endpoint
// reference is dangling.
func (f *Floorplan) WallLength(w *Wall) float64 {
	start, end, ok := f.WallEndpoints(w)
	if !ok {
		return 0
	}
	return start.Dist(end)
}

// OtherVertex returns the wall endpoint that is not id, or "" if id is
// not an endpoint of w.
func (w *Wall) OtherVertex(id string) string {
	switch id {
	case w.StartVertexID:
		return w.EndVertexID
	case w.EndVertexID:
		return w.StartVertexID
	}
	return ""
}

// HasVertex reports whether id is one of the wall's endpoints.
func (w *Wall) HasVertex(id string) bool {
	return w.StartVertexID == id || w.EndVertexID == id
}

// WallsAt returns the walls incident to a vertex.
func (f *Floorplan) WallsAt(vertexID string) []*Wall {
	var out []*Wall
	for i := range f.Walls {
		if f.Walls[i].HasVertex(vertexID) {
			out = append(out, &f.Walls[i])
		}
	}
	return out
}

// Clone returns a deep copy of the snapshot.
func (f *Floorplan) Clone() *Floorplan {
	c := &Floorplan{
		Vertices: make([]Vertex, len(f.Vertices)),
		Walls:    make([]Wall, len(f.Walls)),
		Rooms:    make([]Room, len(f.Rooms)),
	}
	copy(c.Vertices, f.Vertices)
	for i, w := range f.Walls {
		c.Walls[i] = w
		if w.Doors != nil {
			c.Walls[i].Doors = make([]Door, len(w.Doors))
			copy(c.Walls[i].Doors, w.Doors)
		}
	}
	for i, r := range f.Rooms {
		c.Rooms[i] = r
		c.Rooms[i].WallIDs = make([]string, len(r.WallIDs))
		copy(c.Rooms[i].WallIDs, r.WallIDs)
	}
	return c
}

// String returns a one-line summary of the floorplan.
func (f *Floorplan) String() string {
	doors := 0
	for i := range f.Walls {
		doors += len(f.Walls[i].Doors)
	}
	return fmt.Sprintf("Floorplan: %d vertices, %d walls, %d doors, %d rooms",
		len(f.Vertices), len(f.Walls), doors, len(f.Rooms))
}
