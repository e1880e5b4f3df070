// Package httpapi exposes the campaign rule sets as a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/nstehr/dominion/dominion-core/campaign"
	"github.com/nstehr/dominion/dominion-core/ipc"
	"github.com/nstehr/dominion/dominion-core/metrics"
	"github.com/nstehr/dominion/dominion-core/model"
	"github.com/nstehr/dominion/dominion-core/rules"
)

const (
	transport = "http"
	maxBody   = 1 << 20
)

// Server routes HTTP requests to a Companion.
type Server struct {
	companion *campaign.Companion
	metrics   *metrics.Metrics
	router    *mux.Router
}

func New(c *campaign.Companion, m *metrics.Metrics) *Server {
	s := &Server{companion: c, metrics: m, router: mux.NewRouter()}

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/tables/{set}/{table}/roll", s.rollTable).Methods(http.MethodPost)
	api.HandleFunc("/territories", s.listTerritories).Methods(http.MethodGet)
	api.HandleFunc("/territories/prompts", s.territoryPrompts).Methods(http.MethodGet)
	api.HandleFunc("/territories/resolve", s.resolveTerritories).Methods(http.MethodPost)
	api.HandleFunc("/gangs", s.listGangs).Methods(http.MethodGet)
	api.HandleFunc("/injuries/{mode}", s.lastingInjury).Methods(http.MethodPost)
	api.HandleFunc("/rogue-doc/{mode}/cost", s.rogueDocCost).Methods(http.MethodGet)
	api.HandleFunc("/rogue-doc/{mode}", s.rogueDoc).Methods(http.MethodPost)
	api.HandleFunc("/loot-box", s.lootBox).Methods(http.MethodPost)
	api.HandleFunc("/xp/advancement", s.advancement).Methods(http.MethodPost)
	api.HandleFunc("/xp/skills", s.listSkills).Methods(http.MethodGet)
	api.HandleFunc("/xp/skills/{table}/roll", s.skillRoll).Methods(http.MethodPost)

	s.router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	if m != nil {
		s.router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) rollTable(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var req ipc.RollRequest
	if !s.decode(w, r, "resolve_table", &req) {
		return
	}
	res, err := s.companion.RollTable(vars["set"], vars["table"], req.Roll)
	if err != nil {
		writeError(w, err)
		return
	}
	s.result(w, vars["set"], res)
}

func (s *Server) listTerritories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.companion.Territories.All())
}

func (s *Server) listGangs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.companion.Territories.Gangs())
}

// territoryPrompts takes ?territories=a,b&gang=g.
func (s *Server) territoryPrompts(w http.ResponseWriter, r *http.Request) {
	s.metrics.Request(transport, "territory_prompts")
	q := r.URL.Query()
	ids := splitList(q.Get("territories"))
	if len(ids) == 0 {
		http.Error(w, "missing territories", http.StatusBadRequest)
		return
	}
	prompts, err := s.companion.Territories.Prompts(ids, q.Get("gang"))
	if err != nil {
		writeError(w, err)
		return
	}
	if prompts == nil {
		prompts = []campaign.Prompt{}
	}
	writeJSON(w, http.StatusOK, prompts)
}

func (s *Server) resolveTerritories(w http.ResponseWriter, r *http.Request) {
	var req ipc.TerritoriesRequest
	if !s.decode(w, r, "resolve_territories", &req) {
		return
	}
	in, err := req.BatchInput("")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	batch, err := s.companion.Territories.Resolve(req.Territories, req.Categories, in)
	if err != nil {
		writeError(w, err)
		return
	}
	s.metrics.ObserveBatch(batch)
	writeJSON(w, http.StatusOK, batch)
}

func (s *Server) lastingInjury(w http.ResponseWriter, r *http.Request) {
	mode := mux.Vars(r)["mode"]
	var req ipc.RollRequest
	if !s.decode(w, r, "lasting_injury", &req) {
		return
	}
	var res model.Result
	var err error
	if req.Roll != nil {
		res, err = s.companion.Injuries.RollWithValue(mode, *req.Roll)
	} else {
		res, err = s.companion.Injuries.Roll(mode)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	s.result(w, "injury", res)
}

func (s *Server) rogueDocCost(w http.ResponseWriter, r *http.Request) {
	cost, err := s.companion.Injuries.RogueDocCost(mux.Vars(r)["mode"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"cost": cost})
}

func (s *Server) rogueDoc(w http.ResponseWriter, r *http.Request) {
	var req ipc.RogueDocRequest
	if !s.decode(w, r, "rogue_doc", &req) {
		return
	}
	res, err := s.companion.Injuries.RogueDoc(mux.Vars(r)["mode"], req.Cost)
	if err != nil {
		writeError(w, err)
		return
	}
	s.result(w, "rogue_doc", res)
}

func (s *Server) lootBox(w http.ResponseWriter, r *http.Request) {
	var req ipc.RollRequest
	if !s.decode(w, r, "loot_box", &req) {
		return
	}
	res := s.companion.Loot.Open()
	if req.Roll != nil {
		res = s.companion.Loot.OpenWithRoll(*req.Roll)
	}
	s.result(w, "loot", res)
}

func (s *Server) advancement(w http.ResponseWriter, r *http.Request) {
	var req ipc.RollRequest
	if !s.decode(w, r, "xp_advancement", &req) {
		return
	}
	res := s.companion.XP.Advancement()
	if req.Roll != nil {
		res = s.companion.XP.AdvancementWithRoll(*req.Roll)
	}
	s.result(w, "advancement", res)
}

func (s *Server) listSkills(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.companion.XP.Skills())
}

func (s *Server) skillRoll(w http.ResponseWriter, r *http.Request) {
	table := mux.Vars(r)["table"]
	var req ipc.RollRequest
	if !s.decode(w, r, "skill_roll", &req) {
		return
	}
	var res model.Result
	var err error
	if req.Roll != nil {
		res, err = s.companion.XP.RollSkillWithValue(table, *req.Roll)
	} else {
		res, err = s.companion.XP.RollSkill(table)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	s.result(w, "skill", res)
}

// decode counts the request and reads an optional JSON body into v. It writes
// a 400 and returns false on malformed input.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, kind string, v any) bool {
	s.metrics.Request(transport, kind)
	err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) result(w http.ResponseWriter, kind string, res model.Result) {
	s.metrics.Observe(kind, res)
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// writeError maps lookup failures to 404 and everything else to 400.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, campaign.ErrUnknownTerritory),
		errors.Is(err, campaign.ErrUnknownMode),
		errors.Is(err, campaign.ErrUnknownSet),
		errors.Is(err, rules.ErrTableNotFound):
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
