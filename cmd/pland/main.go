// Command pland serves floorplan documents over HTTP: schema-validated
// JSON in, rendered SVG/PNG/DOT out.
package main

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/tomsq/plan-toolkit/internal/store"
	"github.com/tomsq/plan-toolkit/pkg/plan"
	"github.com/tomsq/plan-toolkit/pkg/planfile"
)

const maxDocumentBytes = 8 << 20

func main() {
	_ = godotenv.Load()
	port := getenv("PORT", "8082")
	dataRoot := getenv("DATA_ROOT", "./plans")

	st, err := store.New(dataRoot)
	if err != nil {
		log.Fatal(err)
	}

	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"service":"pland"}`))
	})

	r.Get("/plans", func(w http.ResponseWriter, _ *http.Request) {
		ids, err := st.List()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"plans": ids})
	})

	r.Post("/plans", func(w http.ResponseWriter, r *http.Request) {
		data, ok := readDocument(w, r)
		if !ok {
			return
		}
		id := uuid.NewString()
		if err := st.Save(id, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "id": id})
	})

	r.Put("/plans/{id}", func(w http.ResponseWriter, r *http.Request) {
		data, ok := readDocument(w, r)
		if !ok {
			return
		}
		id := chi.URLParam(r, "id")
		if err := st.Save(id, data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true, "id": id})
	})

	r.Get("/plans/{id}", func(w http.ResponseWriter, r *http.Request) {
		data, ok := loadDocument(w, r, st)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	})

	r.Delete("/plans/{id}", func(w http.ResponseWriter, r *http.Request) {
		if err := st.Delete(chi.URLParam(r, "id")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})

	// Detector view: the room loops the engine derives from the walls,
	// with measured areas. Useful for callers that edit walls remotely
	// and want the derived rooms without re-implementing detection.
	r.Get("/plans/{id}/rooms", func(w http.ResponseWriter, r *http.Request) {
		f, ok := loadPlan(w, r, st)
		if !ok {
			return
		}
		f.ReconcileRooms()
		type roomView struct {
			ID      string   `json:"id"`
			Name    string   `json:"name"`
			WallIDs []string `json:"wallIds"`
			Color   string   `json:"color"`
			Area    float64  `json:"area"`
		}
		out := make([]roomView, 0, len(f.Rooms))
		for i := range f.Rooms {
			rm := &f.Rooms[i]
			out = append(out, roomView{
				ID:      rm.ID,
				Name:    rm.Name,
				WallIDs: rm.WallIDs,
				Color:   rm.Color,
				Area:    f.LoopArea(rm.WallIDs),
			})
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"rooms": out})
	})

	r.Get("/plans/{id}/render.svg", func(w http.ResponseWriter, r *http.Request) {
		f, ok := loadPlan(w, r, st)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		io.WriteString(w, planfile.GenerateSVG(f, planfile.DefaultSVGOptions()))
	})

	r.Get("/plans/{id}/render.png", func(w http.ResponseWriter, r *http.Request) {
		f, ok := loadPlan(w, r, st)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if err := planfile.RenderPNG(f, w, planfile.DefaultPNGOptions()); err != nil {
			log.Printf("render png: %v", err)
		}
	})

	r.Get("/plans/{id}/graph.dot", func(w http.ResponseWriter, r *http.Request) {
		f, ok := loadPlan(w, r, st)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		io.WriteString(w, planfile.GenerateDOT(f, chi.URLParam(r, "id")))
	})

	log.Printf("pland listening on :%s (data root %s)", port, dataRoot)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

// readDocument reads and validates a floorplan document body. On
// failure it writes the error response and returns ok=false.
func readDocument(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxDocumentBytes))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	if err := planfile.ValidateDocument(data); err != nil {
		http.Error(w, "schema: "+err.Error(), http.StatusUnprocessableEntity)
		return nil, false
	}
	if _, err := planfile.ParseJSON(data); err != nil {
		http.Error(w, "integrity: "+err.Error(), http.StatusUnprocessableEntity)
		return nil, false
	}
	return data, true
}

func loadDocument(w http.ResponseWriter, r *http.Request, st *store.FS) ([]byte, bool) {
	data, err := st.Load(chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "plan not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return data, true
}

func loadPlan(w http.ResponseWriter, r *http.Request, st *store.FS) (*plan.Floorplan, bool) {
	data, ok := loadDocument(w, r, st)
	if !ok {
		return nil, false
	}
	f, err := planfile.ParseJSON(data)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return f, true
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
