// Package api exposes the session over HTTP for renderers and input
// relays. GET endpoints are the read-only query surface; POST /intent
// is the one write path, and it only carries discrete player intents.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/talgya/acreage/internal/engine"
	"github.com/talgya/acreage/internal/session"
)

// Server serves the session state over HTTP. All reads and intent
// writes go through the loop, which serializes them with the tick.
type Server struct {
	Loop *engine.Loop
	Port int
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/plots", s.handlePlots)
	mux.HandleFunc("/api/v1/workers", s.handleWorkers)
	mux.HandleFunc("/api/v1/prices", s.handlePrices)
	mux.HandleFunc("/api/v1/events", s.handleEvents)
	mux.HandleFunc("/api/v1/intent", s.handleIntent)

	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("HTTP API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, corsMiddleware(mux)); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()
}

// corsMiddleware allows local dev frontends to poll the API. Extra
// origins come from ACREAGE_CORS_ORIGINS (comma-separated).
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("ACREAGE_CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	var status map[string]any
	s.Loop.View(func(sess *session.Session) {
		selectedSilo := any(nil)
		if sess.SelectedSilo >= 0 {
			p := sess.Field.Plot(sess.SelectedSilo)
			selectedSilo = map[string]int{"x": p.X, "y": p.Y}
		}
		// Copy the inventory; encoding happens after the lock is
		// released and the tick keeps mutating the live map.
		inventory := make(map[string]int, len(sess.Field.Inventory))
		for name, count := range sess.Field.Inventory {
			inventory[name] = count
		}
		status = map[string]any{
			"money":          sess.Money,
			"game_time":      sess.GameTime,
			"time_left":      sess.TimeLeft(),
			"paused":         sess.Paused,
			"game_over":      sess.GameOver,
			"workers":        len(sess.Workers),
			"worker_upkeep":  sess.Config.WorkerUpkeep,
			"silos":          sess.Field.NumSilos,
			"stored":         sess.Field.InventoryTotal(),
			"capacity":       sess.Field.StorageCapacity(),
			"inventory":      inventory,
			"selected_crop":  sess.Selected.Name,
			"silo_mode":      sess.SiloMode,
			"selected_silo":  selectedSilo,
		}
	})
	writeJSON(w, status)
}

func (s *Server) handlePlots(w http.ResponseWriter, r *http.Request) {
	type plantEntry struct {
		Type     string  `json:"type"`
		Progress float64 `json:"progress"`
		Ready    bool    `json:"ready"`
	}
	type plotEntry struct {
		X         int         `json:"x"`
		Y         int         `json:"y"`
		Purchased bool        `json:"purchased"`
		HasSilo   bool        `json:"has_silo"`
		Selected  bool        `json:"selected,omitempty"`
		Soil      float64     `json:"soil"`
		Plant     *plantEntry `json:"plant,omitempty"`
		Pending   string      `json:"pending,omitempty"`
		Action    string      `json:"action,omitempty"`
	}

	var plots []plotEntry
	s.Loop.View(func(sess *session.Session) {
		plots = make([]plotEntry, 0, sess.Field.Len())
		for i := 0; i < sess.Field.Len(); i++ {
			p := sess.Field.Plot(i)
			entry := plotEntry{
				X:         p.X,
				Y:         p.Y,
				Purchased: p.Purchased,
				HasSilo:   p.HasSilo,
				Selected:  i == sess.SelectedSilo,
				Soil:      p.Soil,
				Pending:   p.Pending,
				Action:    sess.ActionAt(p.X, p.Y),
			}
			if p.Plant != nil {
				entry.Plant = &plantEntry{
					Type:     p.Plant.Type.Name,
					Progress: p.Plant.Progress(sess.GameTime),
					Ready:    p.Plant.Ready(sess.GameTime),
				}
			}
			plots = append(plots, entry)
		}
	})
	writeJSON(w, map[string]any{"plots": plots})
}

func (s *Server) handleWorkers(w http.ResponseWriter, r *http.Request) {
	type workerEntry struct {
		ID       string  `json:"id"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		Carrying string  `json:"carrying,omitempty"`
		Target   int     `json:"target"`
	}

	var workers []workerEntry
	s.Loop.View(func(sess *session.Session) {
		workers = make([]workerEntry, 0, len(sess.Workers))
		for _, wk := range sess.Workers {
			workers = append(workers, workerEntry{
				ID:       wk.ID.String(),
				X:        wk.X,
				Y:        wk.Y,
				Carrying: wk.Carrying,
				Target:   wk.Target,
			})
		}
	})
	writeJSON(w, map[string]any{"workers": workers})
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	type priceEntry struct {
		Crop       string    `json:"crop"`
		Color      [3]uint8  `json:"color"`
		SellPrice  float64   `json:"sell_price"`
		SeedPrice  float64   `json:"seed_price"`
		BasePrice  float64   `json:"base_price"`
		Multiplier float64   `json:"multiplier"`
		History    []float64 `json:"history"`
		Stored     int       `json:"stored"`
	}

	var prices []priceEntry
	s.Loop.View(func(sess *session.Session) {
		prices = make([]priceEntry, 0, len(sess.Catalog))
		for _, pt := range sess.Catalog {
			sell, seed := sess.Prices.Prices(pt)
			entry := priceEntry{
				Crop:      pt.Name,
				Color:     pt.Color,
				SellPrice: sell,
				SeedPrice: seed,
				Stored:    sess.Field.Inventory[pt.Name],
			}
			if ps, ok := sess.Prices.State(pt.Name); ok {
				entry.BasePrice = ps.BasePrice
				entry.Multiplier = ps.Multiplier
				entry.History = append([]float64(nil), ps.History...)
			}
			prices = append(prices, entry)
		}
	})
	writeJSON(w, map[string]any{"prices": prices})
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	var events []session.Event
	s.Loop.View(func(sess *session.Session) {
		events = append([]session.Event(nil), sess.Events...)
	})
	writeJSON(w, map[string]any{"events": events})
}

// handleIntent relays one player intent into the session.
func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	var in session.Intent
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad intent: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.Loop.Apply(in)
	writeJSON(w, map[string]any{"ok": true})
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(data)
}
