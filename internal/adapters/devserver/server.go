// Package devserver implements the live-reloading development HTTP server
// (spec §4.11): a WebSocket endpoint broadcasting a literal "RELOAD" on
// every filesystem change, and a content route that serves static files,
// falls back to render-on-demand, and injects a tiny live-reload script
// into HTML responses.
package devserver

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"

	"github.com/madstone-tech/pylon/internal/core/entities"
	"github.com/madstone-tech/pylon/internal/core/usecases"
)

// liveReloadScript is appended to every HTML response. It opens a WebSocket
// to /ws and reloads the page when it receives the "RELOAD" message.
const liveReloadScript = `<script>
(function() {
	var proto = location.protocol === "https:" ? "wss:" : "ws:";
	var sock = new WebSocket(proto + "//" + location.host + "/ws");
	sock.onmessage = function(ev) {
		if (ev.data === "RELOAD") { location.reload(); }
	};
})();
</script>`

// Server serves the output tree plus render-on-demand fallback, and
// broadcasts reloads over WebSocket.
type Server struct {
	engine     *usecases.Engine
	broker     usecases.Broker
	outputRoot string
	log        usecases.Logger

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// New builds a Server. broker is the dev-server-facing handle the engine's
// rebuild loop posts DevServerMsgReloadPage to.
func New(engine *usecases.Engine, broker usecases.Broker, outputRoot string, log usecases.Logger) *Server {
	return &Server{
		engine:     engine,
		broker:     broker,
		outputRoot: outputRoot,
		log:        log,
		clients:    make(map[*websocket.Conn]struct{}),
	}
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/", s.handleContent)
	return mux
}

// Run serves on addr until ctx is cancelled, and in parallel pumps
// DevServerMsgReloadPage notifications out to every connected client.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	go s.pumpReloads(ctx)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) pumpReloads(ctx context.Context) {
	for {
		msg, err := s.broker.RecvDevServerMsg(ctx)
		if err != nil {
			return
		}
		if msg.Kind == entities.DevServerMsgReloadPage {
			s.broadcastReload(ctx)
		}
	}
}

func (s *Server) broadcastReload(ctx context.Context) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		_ = c.Write(ctx, websocket.MessageText, []byte("RELOAD"))
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.clients, conn)
		s.mu.Unlock()
		_ = conn.CloseNow()
	}()

	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	reqPath := strings.TrimPrefix(r.URL.Path, "/")

	if reqPath != "" {
		if err := entities.ValidatePath(reqPath); err != nil {
			http.Error(w, "invalid path", http.StatusBadRequest)
			return
		}
	}

	if reqPath != "" && !strings.HasSuffix(reqPath, "/") && filepath.Ext(reqPath) == "" {
		http.Redirect(w, r, "/"+reqPath+"/", http.StatusSeeOther)
		return
	}

	servePath := reqPath
	if servePath == "" || strings.HasSuffix(servePath, "/") {
		servePath += "index.html"
	}

	staticPath := filepath.Join(s.outputRoot, filepath.FromSlash(servePath))
	if info, err := os.Stat(staticPath); err == nil && !info.IsDir() {
		s.serveFile(w, r, staticPath)
		return
	}

	uri := "/" + servePath
	html, found, err := s.engine.RenderOnDemand(r.Context(), uri)
	if err != nil {
		s.log.Error("render-on-demand failed", "uri", uri, "error", err.Error())
		writeErrorPage(w, http.StatusInternalServerError, "render failed", err.Error())
		return
	}
	if !found {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(injectLiveReload([]byte(html)))
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, path string) {
	if !strings.HasSuffix(path, ".html") {
		http.ServeFile(w, r, path)
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(injectLiveReload(content))
}

func injectLiveReload(html []byte) []byte {
	const marker = "</body>"
	idx := strings.LastIndex(string(html), marker)
	if idx < 0 {
		return append(html, []byte(liveReloadScript)...)
	}
	out := make([]byte, 0, len(html)+len(liveReloadScript))
	out = append(out, html[:idx]...)
	out = append(out, []byte(liveReloadScript)...)
	out = append(out, html[idx:]...)
	return out
}
