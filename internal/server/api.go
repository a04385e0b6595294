package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/encounter"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/game"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/inventory"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
	"github.com/ronmurphy/soundrel-webgame-sub000/internal/save"
)

// App holds what the handlers depend on.
type App struct {
	Engine *game.Engine
	Hub    *Hub

	BootNow time.Time
}

type API struct {
	App *App
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrNoRun), errors.Is(err, save.ErrNoSave):
		status = http.StatusNotFound
	case errors.Is(err, encounter.ErrBusy):
		status = http.StatusConflict
	case errors.Is(err, inventory.ErrBackpackFull), errors.Is(err, inventory.ErrHotbarFull):
		status = http.StatusConflict
	case errors.Is(err, encounter.ErrNotAdjacent),
		errors.Is(err, encounter.ErrAvoidIllegal),
		errors.Is(err, encounter.ErrBossGate),
		errors.Is(err, encounter.ErrNoEncounter),
		errors.Is(err, encounter.ErrNoRest),
		errors.Is(err, encounter.ErrNoGift),
		errors.Is(err, inventory.ErrBadSlot),
		errors.Is(err, inventory.ErrBadLocation),
		errors.Is(err, game.ErrRunOver),
		errors.Is(err, game.ErrNoBossYet):
		status = http.StatusBadRequest
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "invalid json body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func RegisterAPIRoutes(mux *http.ServeMux, rr *RouteRegistry, app *App) {
	engine := app.Engine

	Handle(mux, rr, "GET /api/state", "Current view snapshot", "", func(w http.ResponseWriter, r *http.Request) {
		snap, err := engine.Snapshot()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, snap)
	})

	Handle(mux, rr, "GET /api/classes", "List playable classes", "", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, run.Classes)
	})

	Handle(mux, rr, "POST /api/runs", "Start a new run", `{"class":"knight","mode":"checkpoint"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Class string `json:"class"`
			Mode  string `json:"mode"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		mode := run.Mode(body.Mode)
		if mode != run.ModeHardcore {
			mode = run.ModeCheckpoint
		}
		snap, err := engine.NewRun(r.Context(), run.Class(body.Class), mode)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, snap)
	})

	Handle(mux, rr, "POST /api/rooms/{id}/enter", "Enter an adjacent room", "", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			http.Error(w, "bad room id", http.StatusBadRequest)
			return
		}
		res, snap, err := engine.EnterRoom(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"entered": res, "state": snap})
	})

	Handle(mux, rr, "POST /api/pick", "Resolve a room card", `{"index":0}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Index int `json:"index"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		out, snap, err := engine.PickCard(r.Context(), body.Index)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"outcome": out, "state": snap})
	})

	Handle(mux, rr, "POST /api/ack", "Acknowledge a resolved reveal", "", func(w http.ResponseWriter, r *http.Request) {
		engine.AckReveal()
		w.WriteHeader(http.StatusNoContent)
	})

	Handle(mux, rr, "POST /api/avoid", "Avoid the current room", "", func(w http.ResponseWriter, r *http.Request) {
		snap, err := engine.Avoid(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, snap)
	})

	Handle(mux, rr, "POST /api/gift", "Accept a merchant gift", `{"index":1}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Index int `json:"index"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		out, snap, err := engine.ChooseGift(r.Context(), body.Index)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"outcome": out, "state": snap})
	})

	Handle(mux, rr, "POST /api/rest", "Rest at a bonfire", `{"cost":2}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Cost int `json:"cost"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		snap, err := engine.Rest(r.Context(), body.Cost)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, snap)
	})

	Handle(mux, rr, "POST /api/swap", "Swap two inventory locations",
		`{"src":{"area":"backpack","index":0},"dst":{"area":"equipment","slot":"weapon"}}`,
		func(w http.ResponseWriter, r *http.Request) {
			var body struct {
				Src inventory.Location `json:"src"`
				Dst inventory.Location `json:"dst"`
			}
			if !decodeBody(w, r, &body) {
				return
			}
			snap, err := engine.Swap(r.Context(), body.Src, body.Dst)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, snap)
		})

	Handle(mux, rr, "POST /api/items/use", "Use an active hotbar item", `{"loc":{"area":"hotbar","index":0}}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Loc inventory.Location `json:"loc"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		out, snap, err := engine.UseItem(r.Context(), body.Loc)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]any{"outcome": out, "state": snap})
	})

	Handle(mux, rr, "POST /api/items/drink", "Drink a hotbar potion", `{"loc":{"area":"hotbar","index":0}}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Loc inventory.Location `json:"loc"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		snap, err := engine.DrinkPotion(r.Context(), body.Loc)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, snap)
	})

	Handle(mux, rr, "POST /api/descend", "Descend to the next floor", "", func(w http.ResponseWriter, r *http.Request) {
		snap, err := engine.Descend(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, snap)
	})

	Handle(mux, rr, "POST /api/save", "Force-save the active run", "", func(w http.ResponseWriter, r *http.Request) {
		if err := engine.Save(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	Handle(mux, rr, "GET /api/saves/{mode}", "Check a save slot", "", func(w http.ResponseWriter, r *http.Request) {
		mode := run.Mode(r.PathValue("mode"))
		has, err := engine.HasSave(r.Context(), mode)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, map[string]bool{"has_save": has})
	})

	Handle(mux, rr, "POST /api/resume", "Resume a saved run", `{"mode":"checkpoint"}`, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Mode string `json:"mode"`
		}
		if !decodeBody(w, r, &body) {
			return
		}
		snap, err := engine.Resume(r.Context(), run.Mode(body.Mode))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, snap)
	})

	Handle(mux, rr, "GET /api/events", "Telemetry events since a timestamp", "", func(w http.ResponseWriter, r *http.Request) {
		since := time.Time{}
		if q := r.URL.Query().Get("since"); q != "" {
			t, err := time.Parse(time.RFC3339, q)
			if err != nil {
				http.Error(w, "bad since timestamp", http.StatusBadRequest)
				return
			}
			since = t
		}
		events, err := engine.Events(since)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, events)
	})

	Handle(mux, rr, "GET /api/stats", "Aggregated balance statistics", "", func(w http.ResponseWriter, r *http.Request) {
		stats, err := engine.Stats(app.BootNow)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, stats)
	})

	Handle(mux, rr, "GET /api/ws", "Snapshot/event push channel", "", app.Hub.ServeWS)
}
