package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/chiel/spotify-guess-the-intro/internal/config"
	"github.com/chiel/spotify-guess-the-intro/internal/game"
	"github.com/chiel/spotify-guess-the-intro/internal/library"
	"github.com/chiel/spotify-guess-the-intro/internal/ws"
	staticserver "github.com/chiel/spotify-guess-the-intro/static"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
		importFlag  = flag.String("import", "", "Import a JSON track list into LIBRARY_DB and exit")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Guess The Intro - single-player music quiz

Usage: %s [options]

Options:
  -h, --help       Show this help message
  -v, --version    Show version information
  --port PORT      Port to listen on (default: 8080 or PORT env var)
  --import FILE    Import a JSON track list into LIBRARY_DB and exit

Environment Variables:
  PORT                Port to listen on (default: 8080)
  LIBRARY_DB          SQLite track library (takes precedence over LIBRARY_FILE)
  LIBRARY_FILE        JSON track library (default: built-in sample)
  BONUS_TRACK_ID      Bonus track id, empty to disable
  BONUS_INCLUSION     "always" or "never" (default: always)
  GAME_TIME           Session time budget (default: 5m)
  ROUND_TIME          Round time budget (default: 20s)
  MAX_ROUND_SCORE     Points for an instant guess at x1 (default: 300)
  MAX_MULTIPLIER      Multiplier cap (default: 8)
  TICK_INTERVAL       Countdown resolution (default: 100ms)
  INTER_ROUND_DELAY   Pause between rounds (default: 2s)
  GM_USER             GM interface username for basic auth
  GM_PASS             GM interface password for basic auth
  EXPORT_ENABLED      Export game results to file (default: false)
  EXPORT_FILE         Path to export game results (default: ./gti-results.txt)
  LOG_LEVEL           debug, info, warn or error (default: info)
  LOG_FILE            Also write logs to this file, rotated

Examples:
  %s                          Start server with default settings
  %s --port 3000              Start server on port 3000
  %s --import tracks.json     Fill LIBRARY_DB from tracks.json

Visit http://localhost:8080 after starting the server.
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Guess The Intro %s\n", version)
		return
	}

	cfg := config.FromEnv()
	setupLogging(cfg)

	if *importFlag != "" {
		if err := importLibrary(cfg, *importFlag); err != nil {
			log.Fatal().Err(err).Msg("import failed")
		}
		return
	}

	port := *portFlag
	if port == "" {
		port = cfg.Port
	}

	tracks, source, err := library.Load(context.Background(), cfg.LibraryFile, cfg.LibraryDB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load track library")
	}
	bonus := library.Bonus(tracks, cfg.BonusTrackID, cfg.BonusTitle, cfg.BonusArtist)
	log.Info().Str("source", source).Int("tracks", len(tracks)).Bool("bonus", bonus != nil).Msg("library loaded")

	rm := game.NewRoomManager(tracks, bonus, cfg.Session())
	rm.SetLogger(log.Logger)

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		log.Info().Str("path", path).Int("status", c.Writer.Status()).Dur("dur", time.Since(start)).Msg("http")
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	r.GET("/api/library", func(c *gin.Context) {
		lib := rm.Library()
		playable := 0
		for _, t := range lib {
			if game.Playable(t) {
				playable++
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"source":   source,
			"tracks":   len(lib),
			"playable": playable,
			"bonus":    rm.Bonus(),
			"defaults": rm.Defaults(),
		})
	})
	r.GET("/api/session/active", func(c *gin.Context) {
		if code, sess := rm.Active(); sess != nil {
			c.JSON(http.StatusOK, gin.H{"sessionCode": code})
			return
		}
		c.Status(http.StatusNotFound)
	})
	r.GET("/api/session/:code", func(c *gin.Context) {
		sess, err := rm.Get(strings.ToUpper(c.Param("code")))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session_not_found"})
			return
		}
		c.JSON(http.StatusOK, sess.Snapshot())
	})

	if cfg.GMUser != "" && cfg.GMPass != "" {
		auth := gin.BasicAuth(gin.Accounts{cfg.GMUser: cfg.GMPass})
		r.GET("/api/gm/sessions", auth, func(c *gin.Context) {
			c.JSON(http.StatusOK, rm.List())
		})
		r.POST("/api/gm/sessions/:code/end", auth, func(c *gin.Context) {
			sess, err := rm.Get(strings.ToUpper(c.Param("code")))
			if err != nil {
				c.JSON(http.StatusNotFound, gin.H{"error": "session_not_found"})
				return
			}
			sess.End()
			c.JSON(http.StatusOK, sess.Summary())
		})
	}

	sock := ws.New(rm, cfg)
	sio := sock.Mount(r)
	defer sio.Close()

	// Serve frontend for all other routes
	r.NoRoute(func(c *gin.Context) {
		staticserver.Handler().ServeHTTP(c.Writer, c.Request)
	})

	log.Info().Str("port", port).Msg("listening")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

// setupLogging writes human-friendly logs to stdout and, if LOG_FILE is set,
// JSON lines to a rotated file.
func setupLogging(cfg config.Config) {
	zerolog.TimeFieldFormat = time.RFC3339
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	if cfg.LogFile != "" {
		out = zerolog.MultiLevelWriter(out, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAge:     cfg.LogMaxAgeDays,
			Compress:   true,
		})
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}

func importLibrary(cfg config.Config, file string) error {
	if cfg.LibraryDB == "" {
		return fmt.Errorf("LIBRARY_DB must be set to import '%s'", file)
	}
	tracks, err := library.LoadFile(file)
	if err != nil {
		return err
	}
	db, err := library.Open(cfg.LibraryDB)
	if err != nil {
		return err
	}
	defer db.Close()
	added, err := db.Import(tracks)
	if err != nil {
		return err
	}
	log.Info().Str("file", file).Str("db", cfg.LibraryDB).Int("read", len(tracks)).Int64("added", added).Msg("library imported")
	return nil
}
