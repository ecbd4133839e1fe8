package planfile

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/tomsq/plan-toolkit/pkg/plan"
)

const squareDoc = `{
  "vertices": [
    {"id": "a", "x": 0, "y": 0},
    {"id": "b", "x": 10, "y": 0},
    {"id": "c", "x": 10, "y": 10},
    {"id": "d", "x": 0, "y": 10}
  ],
  "walls": [
    {"id": "ab", "startVertexId": "a", "endVertexId": "b",
     "doors": [{"id": "d1", "position": 3, "width": 3, "height": 7}]},
    {"id": "bc", "startVertexId": "b", "endVertexId": "c", "doors": []},
    {"id": "cd", "startVertexId": "c", "endVertexId": "d", "doors": []},
    {"id": "da", "startVertexId": "d", "endVertexId": "a", "doors": []}
  ],
  "rooms": [
    {"id": "r1", "name": "Studio", "wallIds": ["ab", "bc", "cd", "da"], "color": "#e8f5e9"}
  ]
}`

func TestParseJSON(t *testing.T) {
	f, err := ParseJSON([]byte(squareDoc))
	if err != nil {
		t.Fatal(err)
	}
	if len(f.Vertices) != 4 || len(f.Walls) != 4 || len(f.Rooms) != 1 {
		t.Fatalf("parsed %d vertices, %d walls, %d rooms", len(f.Vertices), len(f.Walls), len(f.Rooms))
	}
	w := f.Wall("ab")
	if w == nil || len(w.Doors) != 1 || w.Doors[0].Position != 3 {
		t.Errorf("wall ab doors = %+v", w)
	}
	if f.Rooms[0].Name != "Studio" {
		t.Errorf("room name = %q", f.Rooms[0].Name)
	}
}

func TestParseJSONEmptyDocument(t *testing.T) {
	f, err := ParseJSON([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	if f.Vertices == nil || f.Walls == nil || f.Rooms == nil {
		t.Error("absent collections must decode to empty slices")
	}
}

func TestParseJSONRejectsIntegrityViolation(t *testing.T) {
	doc := `{
	  "vertices": [{"id": "a", "x": 0, "y": 0}],
	  "walls": [{"id": "w", "startVertexId": "a", "endVertexId": "ghost", "doors": []}],
	  "rooms": []
	}`
	if _, err := ParseJSON([]byte(doc)); err == nil {
		t.Fatal("dangling wall endpoint must be rejected")
	}
}

func TestParseJSONRejectsStarRoom(t *testing.T) {
	// Walls meeting at one vertex share pairwise but enclose nothing;
	// such a room must not survive loading.
	doc := `{
	  "vertices": [
	    {"id": "a", "x": 0, "y": 0},
	    {"id": "b", "x": 10, "y": 0},
	    {"id": "c", "x": 10, "y": 10},
	    {"id": "u", "x": 15, "y": 5}
	  ],
	  "walls": [
	    {"id": "ab", "startVertexId": "a", "endVertexId": "b"},
	    {"id": "bc", "startVertexId": "b", "endVertexId": "c"},
	    {"id": "bu", "startVertexId": "b", "endVertexId": "u"}
	  ],
	  "rooms": [
	    {"id": "r", "name": "Room 1", "wallIds": ["ab", "bc", "bu"], "color": "#fff"}
	  ]
	}`
	if _, err := ParseJSON([]byte(doc)); err == nil {
		t.Fatal("room whose walls all meet at one vertex must be rejected")
	}
}

func TestParseJSONRejectsMalformed(t *testing.T) {
	if _, err := ParseJSON([]byte(`{"vertices": 12}`)); err == nil {
		t.Fatal("malformed document must be rejected")
	}
}

func TestToJSONRoundTrip(t *testing.T) {
	f, err := ParseJSON([]byte(squareDoc))
	if err != nil {
		t.Fatal(err)
	}

	data, err := ToJSON(f, false)
	if err != nil {
		t.Fatal(err)
	}
	g, err := ParseJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Vertices) != 4 || len(g.Walls) != 4 || len(g.Rooms) != 1 {
		t.Errorf("round trip lost entities: %d/%d/%d", len(g.Vertices), len(g.Walls), len(g.Rooms))
	}
	if g.Rooms[0].Color != "#e8f5e9" {
		t.Errorf("room color = %q", g.Rooms[0].Color)
	}
}

func TestToJSONFieldNames(t *testing.T) {
	f := plan.NewFloorplan()
	f.Vertices = []plan.Vertex{{ID: "a", X: 1, Y: 2}}

	data, err := ToJSON(f, false)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"vertices", "walls", "rooms"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("document missing %q", key)
		}
	}
	s := string(data)
	for _, want := range []string{`"id":"a"`, `"x":1`, `"y":2`} {
		if !strings.Contains(s, want) {
			t.Errorf("document %s missing %s", s, want)
		}
	}
}

func TestToJSONPretty(t *testing.T) {
	f, err := ParseJSON([]byte(squareDoc))
	if err != nil {
		t.Fatal(err)
	}
	data, err := ToJSON(f, true)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("pretty output is not indented")
	}
}
