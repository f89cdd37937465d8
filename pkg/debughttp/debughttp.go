// Package debughttp serves a read-only JSON introspection surface over
// a running editor.Context's buffer and frame arenas, for the
// cmd/sced --debug-http flag. It never mutates editor state.
package debughttp

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shawnamir/sced/pkg/arena"
	"github.com/shawnamir/sced/pkg/buffer"
	"github.com/shawnamir/sced/pkg/editor"
	"github.com/shawnamir/sced/pkg/frame"
)

// Server wraps an editor.Context behind a gorilla/mux router.
type Server struct {
	ctx    *editor.Context
	router *mux.Router
}

// New builds a debug server over ctx. It is a plain http.Handler — the
// caller decides whether/how to listen.
func New(ctx *editor.Context) *Server {
	s := &Server{ctx: ctx, router: mux.NewRouter()}
	s.router.HandleFunc("/buffers", s.listBuffers).Methods(http.MethodGet)
	s.router.HandleFunc("/frames", s.listFrames).Methods(http.MethodGet)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

type bufferView struct {
	Index     int    `json:"index"`
	Gen       uint32 `json:"gen"`
	Tag       string `json:"tag"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	Modified  bool   `json:"modified"`
	ReadOnly  bool   `json:"read_only"`
	Collision bool   `json:"collision"`
	RefCount  int    `json:"ref_count"`
}

func (s *Server) listBuffers(w http.ResponseWriter, r *http.Request) {
	views := []bufferView{}
	s.ctx.Buffers.Each(func(h arena.Handle, b *buffer.Buffer) {
		views = append(views, bufferView{
			Index:     h.Index,
			Gen:       h.Gen,
			Tag:       h.DebugTag,
			Name:      b.Name,
			Path:      b.Path,
			Modified:  b.Modified,
			ReadOnly:  b.ReadOnly,
			Collision: b.Collision,
			RefCount:  b.RefCount,
		})
	})
	writeJSON(w, views)
}

type frameView struct {
	Index     int    `json:"index"`
	Gen       uint32 `json:"gen"`
	Tag       string `json:"tag"`
	PaneCount int    `json:"pane_count"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

func (s *Server) listFrames(w http.ResponseWriter, r *http.Request) {
	views := []frameView{}
	s.ctx.Frames.Each(func(h arena.Handle, f *frame.Frame) {
		views = append(views, frameView{
			Index:     h.Index,
			Gen:       h.Gen,
			Tag:       h.DebugTag,
			PaneCount: len(f.Panes),
			Width:     f.Width,
			Height:    f.Height,
		})
	})
	writeJSON(w, views)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}
