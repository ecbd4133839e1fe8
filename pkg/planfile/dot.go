package planfile

import (
	"fmt"
	"strings"

	"github.com/tomsq/plan-toolkit/pkg/plan"
)

// GenerateDOT converts the wall graph to Graphviz DOT format, a quick
// way to eyeball connectivity without a renderer.
func GenerateDOT(f *plan.Floorplan, title string) string {
	var sb strings.Builder

	sb.WriteString("graph floorplan {\n")
	sb.WriteString("    layout=neato;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=10, shape=point, width=0.1];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=9];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	for i := range f.Vertices {
		v := &f.Vertices[i]
		// neato honors pos pins, so the drawing matches the plan
		sb.WriteString(fmt.Sprintf("    \"%s\" [pos=\"%.2f,%.2f!\", xlabel=\"(%.1f,%.1f)\"];\n",
			escapeDOT(v.ID), v.X, -v.Y, v.X, v.Y))
	}
	sb.WriteString("\n")

	for i := range f.Walls {
		w := &f.Walls[i]
		label := fmt.Sprintf("%.1f ft", f.WallLength(w))
		if n := len(w.Doors); n == 1 {
			label += ", 1 door"
		} else if n > 1 {
			label += fmt.Sprintf(", %d doors", n)
		}
		sb.WriteString(fmt.Sprintf("    \"%s\" -- \"%s\" [label=\"%s\"];\n",
			escapeDOT(w.StartVertexID), escapeDOT(w.EndVertexID), escapeDOT(label)))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return s
}
