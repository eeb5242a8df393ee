// Package health exposes the service's liveness, readiness and metrics
// endpoints. Readiness hinges on a single dependency: the database.
package health

import (
	"context"
	"crypto/subtle"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"investory/internal/httputil"
)

const dbPingTimeout = time.Second

type Handler struct {
	pool          *pgxpool.Pool
	startedAt     time.Time
	httpAddr      string
	env           string
	quoteInterval time.Duration
	internalTok   string
}

func NewHandler(pool *pgxpool.Pool, startedAt time.Time, httpAddr, env string, quoteInterval time.Duration, internalToken string) *Handler {
	if startedAt.IsZero() {
		startedAt = time.Now()
	}
	return &Handler{
		pool:          pool,
		startedAt:     startedAt.UTC(),
		httpAddr:      httpAddr,
		env:           env,
		quoteInterval: quoteInterval,
		internalTok:   internalToken,
	}
}

type statusResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	UptimeSec int64   `json:"uptime_sec"`
	Database  *dbStat `json:"database,omitempty"`
}

type dbStat struct {
	Reachable bool   `json:"reachable"`
	PingMs    int64  `json:"ping_ms"`
	Error     string `json:"error,omitempty"`
}

func (h *Handler) uptimeSec(now time.Time) int64 {
	d := now.Sub(h.startedAt)
	if d < 0 {
		d = 0
	}
	return int64(d.Seconds())
}

func (h *Handler) pingDB(ctx context.Context) dbStat {
	if h.pool == nil {
		return dbStat{Error: "pool is not configured"}
	}
	pingCtx, cancel := context.WithTimeout(ctx, dbPingTimeout)
	defer cancel()
	start := time.Now()
	err := h.pool.Ping(pingCtx)
	st := dbStat{Reachable: err == nil, PingMs: time.Since(start).Milliseconds()}
	if err != nil {
		st.Error = err.Error()
	}
	return st
}

func (h *Handler) requireInternalToken(w http.ResponseWriter, r *http.Request) bool {
	provided := r.Header.Get("X-Internal-Token")
	if h.internalTok == "" ||
		subtle.ConstantTimeCompare([]byte(provided), []byte(h.internalTok)) != 1 {
		httputil.WriteJSON(w, http.StatusUnauthorized, httputil.ErrorResponse{Error: "invalid internal token"})
		return false
	}
	return true
}

// Get keeps compatibility: /health is the readiness summary.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	h.Ready(w, r)
}

// Live reports only that the process is serving. It never touches the
// database, so a degraded instance still answers 200 here.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	httputil.WriteJSON(w, http.StatusOK, statusResponse{
		Status:    "ok",
		Timestamp: now.Format(time.RFC3339),
		UptimeSec: h.uptimeSec(now),
	})
}

// Ready answers 503 while the database is unreachable.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	db := h.pingDB(r.Context())
	status, code := "ok", http.StatusOK
	if !db.Reachable {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	httputil.WriteJSON(w, code, statusResponse{
		Status:    status,
		Timestamp: now.Format(time.RFC3339),
		UptimeSec: h.uptimeSec(now),
		Database:  &db,
	})
}

type fullResponse struct {
	statusResponse
	App  appInfo  `json:"app"`
	Go   goInfo   `json:"go"`
	Pool poolInfo `json:"pool"`
}

type appInfo struct {
	HTTPAddr      string `json:"http_addr"`
	Env           string `json:"env"`
	QuoteInterval string `json:"quote_interval"`
}

type goInfo struct {
	Version    string `json:"version"`
	Goroutines int    `json:"goroutines"`
	AllocBytes uint64 `json:"alloc_bytes"`
	SysBytes   uint64 `json:"sys_bytes"`
	GCCount    uint32 `json:"gc_count"`
}

type poolInfo struct {
	TotalConns    int32 `json:"total_conns"`
	IdleConns     int32 `json:"idle_conns"`
	AcquiredConns int32 `json:"acquired_conns"`
	MaxConns      int32 `json:"max_conns"`
}

// Full adds process and pool diagnostics on top of the readiness check. It is
// protected by X-Internal-Token.
func (h *Handler) Full(w http.ResponseWriter, r *http.Request) {
	if !h.requireInternalToken(w, r) {
		return
	}
	now := time.Now().UTC()
	db := h.pingDB(r.Context())
	status, code := "ok", http.StatusOK
	if !db.Reachable {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	resp := fullResponse{
		statusResponse: statusResponse{
			Status:    status,
			Timestamp: now.Format(time.RFC3339),
			UptimeSec: h.uptimeSec(now),
			Database:  &db,
		},
		App: appInfo{
			HTTPAddr:      h.httpAddr,
			Env:           h.env,
			QuoteInterval: h.quoteInterval.String(),
		},
		Go: goInfo{
			Version:    runtime.Version(),
			Goroutines: runtime.NumGoroutine(),
			AllocBytes: mem.Alloc,
			SysBytes:   mem.Sys,
			GCCount:    mem.NumGC,
		},
	}
	if h.pool != nil {
		stat := h.pool.Stat()
		resp.Pool = poolInfo{
			TotalConns:    stat.TotalConns(),
			IdleConns:     stat.IdleConns(),
			AcquiredConns: stat.AcquiredConns(),
			MaxConns:      stat.MaxConns(),
		}
	}
	httputil.WriteJSON(w, code, resp)
}

// Metrics serves a small Prometheus-compatible snapshot, protected by
// X-Internal-Token.
func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request) {
	if !h.requireInternalToken(w, r) {
		return
	}
	now := time.Now().UTC()
	db := h.pingDB(r.Context())
	dbUp := 0
	if db.Reachable {
		dbUp = 1
	}
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
	fmt.Fprintf(w, "investory_up 1\n")
	fmt.Fprintf(w, "investory_uptime_seconds %d\n", h.uptimeSec(now))
	fmt.Fprintf(w, "investory_db_up %d\n", dbUp)
	fmt.Fprintf(w, "investory_db_ping_milliseconds %d\n", db.PingMs)
	fmt.Fprintf(w, "investory_go_goroutines %d\n", runtime.NumGoroutine())
	fmt.Fprintf(w, "investory_go_mem_alloc_bytes %d\n", mem.Alloc)
	fmt.Fprintf(w, "investory_go_mem_sys_bytes %d\n", mem.Sys)
	fmt.Fprintf(w, "investory_go_gc_count %d\n", mem.NumGC)
	if h.pool != nil {
		stat := h.pool.Stat()
		fmt.Fprintf(w, "investory_db_pool_total_conns %d\n", stat.TotalConns())
		fmt.Fprintf(w, "investory_db_pool_idle_conns %d\n", stat.IdleConns())
		fmt.Fprintf(w, "investory_db_pool_acquired_conns %d\n", stat.AcquiredConns())
	}
}
