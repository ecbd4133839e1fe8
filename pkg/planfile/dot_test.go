package planfile

import (
	"strings"
	"testing"

	"github.com/tomsq/plan-toolkit/pkg/plan"
)

func TestGenerateDOT(t *testing.T) {
	f, err := ParseJSON([]byte(squareDoc))
	if err != nil {
		t.Fatal(err)
	}

	dot := GenerateDOT(f, "studio")

	if !strings.HasPrefix(dot, "graph floorplan {\n") || !strings.HasSuffix(dot, "}\n") {
		t.Error("malformed document framing")
	}
	if !strings.Contains(dot, "layout=neato;") {
		t.Error("missing neato layout")
	}
	if !strings.Contains(dot, `label="studio";`) {
		t.Error("missing title label")
	}
	// Pinned positions flip Y so the drawing matches screen orientation.
	if !strings.Contains(dot, `"c" [pos="10.00,-10.00!"`) {
		t.Error("missing pinned vertex position")
	}
	if !strings.Contains(dot, `"a" -- "b" [label="10.0 ft, 1 door"];`) {
		t.Errorf("missing edge with door count:\n%s", dot)
	}
	if !strings.Contains(dot, `"b" -- "c" [label="10.0 ft"];`) {
		t.Error("missing doorless edge")
	}
	if got := strings.Count(dot, " -- "); got != 4 {
		t.Errorf("%d edges, want 4", got)
	}
}

func TestGenerateDOTNoTitle(t *testing.T) {
	dot := GenerateDOT(plan.NewFloorplan(), "")
	if strings.Contains(dot, "label=") && !strings.Contains(dot, "xlabel=") {
		t.Error("title label rendered without a title")
	}
	if strings.Contains(dot, "labelloc") {
		t.Error("labelloc rendered without a title")
	}
}

func TestEscapeDOT(t *testing.T) {
	if got := escapeDOT(`say "hi" \ bye`); got != `say \"hi\" \\ bye` {
		t.Errorf("escaped = %q", got)
	}
}
