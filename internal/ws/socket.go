package ws

import (
	"errors"
	"net/http"

	"github.com/chiel/spotify-guess-the-intro/internal/config"
	"github.com/chiel/spotify-guess-the-intro/internal/game"
	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"
)

type ConnCtx struct {
	Code string
}

// conn is the part of socketio.Conn the handlers use.
type conn interface {
	ID() string
	Context() interface{}
	SetContext(v interface{})
	Emit(event string, v ...interface{})
}

type Server struct {
	RM     *game.RoomManager
	config config.Config
}

type startPayload struct {
	Config game.SessionConfig `json:"config"`
}

type choosePayload struct {
	Index int `json:"index"`
}

func New(rm *game.RoomManager, cfg config.Config) *Server {
	return &Server{RM: rm, config: cfg}
}

// Mount attaches Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext(&ConnCtx{})
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "game:start", func(s socketio.Conn, payload startPayload) map[string]any {
		return srv.start(s, payload)
	})
	io.OnEvent("/", "round:playing", func(s socketio.Conn) map[string]any {
		return srv.playing(s)
	})
	io.OnEvent("/", "round:choose", func(s socketio.Conn, payload choosePayload) map[string]any {
		return srv.choose(s, payload)
	})
	io.OnEvent("/", "game:unload", func(s socketio.Conn) map[string]any {
		return srv.unload(s, false)
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.unload(s, true)
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go io.Serve()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	// Basic CORS preflight for Socket.IO POST
	r.OPTIONS("/socket.io/*any", func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		c.Status(http.StatusNoContent)
	})

	return io
}

// start creates a session bound to this connection and opens its first
// round. A connection replaces its previous session.
func (srv *Server) start(s conn, payload startPayload) map[string]any {
	if ctx, ok := s.Context().(*ConnCtx); ok && ctx.Code != "" {
		srv.unload(s, true)
	}
	p := NewPresenter(s)
	p.onGameOver = srv.export
	code, sess, err := srv.RM.CreateSession(payload.Config, p)
	if err != nil {
		return srv.err(s, "bad_request", err.Error())
	}
	s.SetContext(&ConnCtx{Code: code})
	if err := sess.Start(); err != nil {
		log.Warn().Str("sid", s.ID()).Str("code", code).Err(err).Msg("game:start failed")
		srv.RM.Remove(code)
		s.SetContext(&ConnCtx{})
		return srv.err(s, "pool_exhausted", err.Error())
	}
	log.Info().Str("sid", s.ID()).Str("code", code).Msg("game:start")
	return map[string]any{"sessionCode": code, "config": sess.Config}
}

func (srv *Server) playing(s conn) map[string]any {
	sess, code, err := srv.session(s)
	if err != nil {
		return srv.err(s, "session_not_found", "Session not found")
	}
	sess.PlaybackStarted()
	log.Debug().Str("code", code).Msg("round:playing")
	return map[string]any{"ok": true}
}

func (srv *Server) choose(s conn, payload choosePayload) map[string]any {
	sess, code, err := srv.session(s)
	if err != nil {
		return srv.err(s, "session_not_found", "Session not found")
	}
	if err := sess.Choose(payload.Index); err != nil {
		if errors.Is(err, game.ErrInvalidGuessIndex) {
			log.Warn().Str("code", code).Int("index", payload.Index).Msg("round:choose out of range")
		}
		return srv.err(s, "bad_request", err.Error())
	}
	log.Debug().Str("code", code).Int("index", payload.Index).Msg("round:choose")
	return map[string]any{"ok": true}
}

// unload forfeits the running round and ends the game. On disconnect the
// session is dropped as well.
func (srv *Server) unload(s conn, drop bool) map[string]any {
	sess, code, err := srv.session(s)
	if err != nil {
		return srv.err(s, "session_not_found", "Session not found")
	}
	sess.Unload()
	if drop {
		srv.RM.Remove(code)
		s.SetContext(&ConnCtx{})
	}
	log.Info().Str("sid", s.ID()).Str("code", code).Bool("dropped", drop).Msg("game:unload")
	return map[string]any{"ok": true}
}

func (srv *Server) session(s conn) (*game.Session, string, error) {
	ctx, ok := s.Context().(*ConnCtx)
	if !ok || ctx.Code == "" {
		return nil, "", game.ErrSessionNotFound
	}
	sess, err := srv.RM.Get(ctx.Code)
	if err != nil {
		return nil, "", err
	}
	return sess, ctx.Code, nil
}

func (srv *Server) export(sum game.Summary) {
	if !srv.config.ExportEnabled {
		return
	}
	if err := game.ExportSummary(sum, srv.config.ExportFile); err != nil {
		log.Error().Err(err).Str("code", sum.Code).Msg("failed to export game results")
		return
	}
	log.Info().Str("code", sum.Code).Str("file", srv.config.ExportFile).Msg("exported game results")
}

func (srv *Server) err(s conn, code, message string) map[string]any {
	s.Emit("error", map[string]any{"code": code, "message": message})
	return map[string]any{"error": message}
}
