// Package web serves a small read-only JSON API over the bot's state:
// the command catalog, per-guild configuration, and recent audit records.
package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/starshine-sys/warden/audit"
	"github.com/starshine-sys/warden/command"
	"github.com/starshine-sys/warden/common"
	"github.com/starshine-sys/warden/common/log"
	"github.com/starshine-sys/warden/perm"
	"github.com/starshine-sys/warden/store"
)

type Server struct {
	Commands *command.Holder
	Store    store.Store
	Audit    *audit.PGSink

	r chi.Router
}

func New(commands *command.Holder, st store.Store, auditSink *audit.PGSink) *Server {
	s := &Server{
		Commands: commands,
		Store:    st,
		Audit:    auditSink,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/meta", s.meta)
		r.Get("/commands", s.commandList)
		r.Route("/guilds/{id}", func(r chi.Router) {
			r.Get("/config", s.guildConfig)
			r.Get("/audit", s.guildAudit)
		})
	})

	s.r = r
	return s
}

// Serve blocks serving the API on addr.
func (s *Server) Serve(addr string) error {
	log.Infof("Serving API on %v", addr)
	return http.ListenAndServe(addr, s.r)
}

func (s *Server) meta(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]any{
		"version":      common.Version(),
		"capabilities": perm.All.Strings(),
		"toggles":      store.Toggles(),
	})
}

type commandInfo struct {
	Name        string   `json:"name"`
	Summary     string   `json:"summary"`
	Require     []string `json:"require"`
	Mode        string   `json:"mode"`
	GuildScoped bool     `json:"guild_scoped"`
	Public      bool     `json:"public"`
}

func (s *Server) commandList(w http.ResponseWriter, r *http.Request) {
	defs := s.Commands.Load().List()

	out := make([]commandInfo, 0, len(defs))
	for _, def := range defs {
		out = append(out, commandInfo{
			Name:        def.Name,
			Summary:     def.Summary,
			Require:     def.Require.Strings(),
			Mode:        def.Mode.String(),
			GuildScoped: def.GuildScoped,
			Public:      def.Public,
		})
	}

	render.JSON(w, r, out)
}

func (s *Server) guildConfig(w http.ResponseWriter, r *http.Request) {
	guildID, ok := guildParam(w, r)
	if !ok {
		return
	}

	cfg, err := s.Store.Get(r.Context(), guildID)
	if err != nil {
		log.Errorf("getting config for guild %v: %v", guildID, err)
		http.Error(w, "Error getting guild configuration.", http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, cfg)
}

func (s *Server) guildAudit(w http.ResponseWriter, r *http.Request) {
	guildID, ok := guildParam(w, r)
	if !ok {
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 200 {
			http.Error(w, "Limit must be between 1 and 200.", http.StatusBadRequest)
			return
		}
		limit = n
	}

	recs, err := s.Audit.Recent(r.Context(), guildID, limit)
	if err != nil {
		log.Errorf("getting audit records for guild %v: %v", guildID, err)
		http.Error(w, "Error getting audit records.", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []audit.Record{}
	}

	render.JSON(w, r, recs)
}

func guildParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := discord.ParseSnowflake(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Not a server ID.", http.StatusNotFound)
		return "", false
	}
	return id.String(), true
}
