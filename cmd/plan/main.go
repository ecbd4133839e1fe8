// Command plan is a CLI tool for working with floorplan documents.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tomsq/plan-toolkit/pkg/plan"
	"github.com/tomsq/plan-toolkit/pkg/planfile"
)

const usage = `plan - Floorplan toolkit

Usage:
  plan <command> [options]

Commands:
  validate   Validate a floorplan document (schema + graph invariants)
  info       Show floorplan information
  rooms      List detected rooms with areas
  render     Render to SVG or PNG
  dot        Generate Graphviz DOT output

Examples:
  plan validate house.json
  plan rooms house.json
  plan render house.json -o house.svg
  plan render house.json -o house.png
  plan dot house.json | neato -n -Tpng -o house.png
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "validate":
		cmdValidate(args)
	case "info":
		cmdInfo(args)
	case "rooms":
		cmdRooms(args)
	case "render":
		cmdRender(args)
	case "dot":
		cmdDot(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: plan validate <input>")
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", args[0], err)
		os.Exit(1)
	}
	if err := planfile.ValidateDocument(data); err != nil {
		fmt.Fprintf(os.Stderr, "Schema validation failed: %v\n", err)
		os.Exit(1)
	}
	f, err := planfile.ParseJSON(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Integrity check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: valid, %s\n", args[0], f)
}

func cmdInfo(args []string) {
	f := loadPlan(args, "plan info <input>")

	doors := 0
	totalLength := 0.0
	for i := range f.Walls {
		doors += len(f.Walls[i].Doors)
		totalLength += f.WallLength(&f.Walls[i])
	}

	fmt.Printf("Vertices:    %d\n", len(f.Vertices))
	fmt.Printf("Walls:       %d (%.1f ft total)\n", len(f.Walls), totalLength)
	fmt.Printf("Doors:       %d\n", doors)
	fmt.Printf("Rooms:       %d\n", len(f.Rooms))
	for i := range f.Rooms {
		r := &f.Rooms[i]
		fmt.Printf("  %-20s %d walls, %.1f sq ft\n", r.Name, len(r.WallIDs), f.LoopArea(r.WallIDs))
	}
}

func cmdRooms(args []string) {
	f := loadPlan(args, "plan rooms <input>")

	faces := f.DetectAllRooms()
	if len(faces) == 0 {
		fmt.Println("No enclosed rooms detected")
		return
	}
	for i, face := range faces {
		fmt.Printf("Room %d: %d walls, %.1f sq ft\n", i+1, len(face), f.LoopArea(face))
	}
}

func cmdRender(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: plan render <input> [-o output.svg|output.png] [-t title]")
		os.Exit(1)
	}

	input := args[0]
	var output, title string
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "-t", "--title":
			if i+1 < len(args) {
				title = args[i+1]
				i++
			}
		}
	}
	if output == "" {
		ext := filepath.Ext(input)
		output = input[:len(input)-len(ext)] + ".svg"
	}

	f := loadPlan([]string{input}, "")

	var err error
	switch filepath.Ext(output) {
	case ".svg":
		opts := planfile.DefaultSVGOptions()
		opts.Title = title
		err = os.WriteFile(output, []byte(planfile.GenerateSVG(f, opts)), 0644)
	case ".png":
		opts := planfile.DefaultPNGOptions()
		opts.Title = title
		var out *os.File
		out, err = os.Create(output)
		if err == nil {
			err = planfile.RenderPNG(f, out, opts)
			out.Close()
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format: %s\n", filepath.Ext(output))
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}
	fmt.Printf("Written: %s\n", output)
}

func cmdDot(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: plan dot <input> [-o output]")
		os.Exit(1)
	}

	input := args[0]
	var output string
	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		}
	}

	f := loadPlan([]string{input}, "")
	dot := planfile.GenerateDOT(f, filepath.Base(input))

	if output != "" {
		if err := os.WriteFile(output, []byte(dot), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
			os.Exit(1)
		}
	} else {
		fmt.Print(dot)
	}
}

func loadPlan(args []string, usageLine string) *plan.Floorplan {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s\n", usageLine)
		os.Exit(1)
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", args[0], err)
		os.Exit(1)
	}
	f, err := planfile.ParseJSON(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", args[0], err)
		os.Exit(1)
	}
	return f
}
