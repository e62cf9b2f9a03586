package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the structured logger used by handlers. Silent until SetLogger.
var zlog = zerolog.Nop()

// SetLogger installs the structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// LogLevel controls per-request generation logging.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug", "1":
		return LevelDebug
	default:
		return LevelInfo
	}
}

var defaultLogLevel = LevelInfo

// SetRequestLogLevel sets the generation log level used when a request does
// not override it.
func SetRequestLogLevel(s string) { defaultLogLevel = parseLevel(s) }

// requestLogLevel honors ?log= first, then X-Log-Level.
func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// genLog carries the per-request logging decision for one generation.
type genLog struct {
	op    string
	lvl   LogLevel
	reqID string
	start time.Time
}

func startGenLog(r *http.Request, op string) genLog {
	g := genLog{op: op, lvl: requestLogLevel(r), reqID: middleware.GetReqID(r.Context()), start: time.Now()}
	if g.lvl >= LevelInfo {
		zlog.Info().Str("op", g.op).Str("request_id", g.reqID).Msg("generation start")
	}
	return g
}

// debug logs at info level so a per-request override is not filtered out by
// the process log level.
func (g genLog) debug(msg string, fields map[string]any) {
	if g.lvl >= LevelDebug {
		zlog.WithLevel(zerolog.InfoLevel).Str("detail", "debug").Str("op", g.op).Str("request_id", g.reqID).Fields(fields).Msg(msg)
	}
}

func (g genLog) end(status int, err error) {
	dur := time.Since(g.start)
	switch {
	case err != nil && g.lvl >= LevelError:
		zlog.Error().Err(err).Str("op", g.op).Int("status", status).Dur("dur", dur).Str("request_id", g.reqID).Msg("generation end")
	case err == nil && g.lvl >= LevelInfo:
		zlog.Info().Str("op", g.op).Int("status", status).Dur("dur", dur).Str("request_id", g.reqID).Msg("generation end")
	}
}
