package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/example/event-staffing/internal/logging"
)

// RouterConfig carries the handlers mounted by NewRouter.
type RouterConfig struct {
	Runs      *RunHandler
	Proposals *ProposalHandler
}

// NewRouter mounts the engine's operation contracts.
func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Runs != nil {
		mux.HandleFunc("POST /runs", cfg.Runs.Create)
		mux.HandleFunc("GET /runs/{id}/proposals", cfg.Runs.ListProposals)
	}
	if cfg.Proposals != nil {
		mux.HandleFunc("PATCH /proposals/{id}", cfg.Proposals.Edit)
		mux.HandleFunc("POST /proposals/approve", cfg.Proposals.Approve)
		mux.HandleFunc("POST /proposals/{id}/retry", cfg.Proposals.Retry)
	}

	return mux
}

// RequestLogger attaches the logger to each request context and records
// request outcomes.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			started := time.Now()
			ctx := logging.ContextWithLogger(r.Context(), logger)
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(recorder, r.WithContext(ctx))

			logger.Info("request handled",
				"method", r.Method, "path", r.URL.Path,
				"status", recorder.status, "duration_ms", time.Since(started).Milliseconds())
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
