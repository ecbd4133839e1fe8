// Package planfile provides codecs and read-only renderers for
// floorplan documents: the JSON wire format, schema validation, and
// SVG/PNG/DOT output. Everything here consumes the plan snapshot
// without mutating it.
package planfile

import (
	"encoding/json"

	"github.com/tomsq/plan-toolkit/pkg/plan"
)

// ParseJSON decodes a floorplan document and verifies its structural
// integrity. Absent collections decode to empty slices so the result is
// always safe to hand to the engine.
func ParseJSON(data []byte) (*plan.Floorplan, error) {
	f := plan.NewFloorplan()
	if err := json.Unmarshal(data, f); err != nil {
		return nil, err
	}
	if f.Vertices == nil {
		f.Vertices = make([]plan.Vertex, 0)
	}
	if f.Walls == nil {
		f.Walls = make([]plan.Wall, 0)
	}
	if f.Rooms == nil {
		f.Rooms = make([]plan.Room, 0)
	}
	if err := f.CheckIntegrity(); err != nil {
		return nil, err
	}
	return f, nil
}

// ToJSON encodes a floorplan document.
func ToJSON(f *plan.Floorplan, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(f, "", "  ")
	}
	return json.Marshal(f)
}
