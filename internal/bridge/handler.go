// internal/bridge/handler.go
package bridge

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"shopbridge/pkg/faults"
	"shopbridge/pkg/middleware"
)

// RegisterRoutes mounts the sync API. The session middleware has already
// authenticated the shop; handlers only read it from context.
func RegisterRoutes(r chi.Router, svc *Service, log *zap.SugaredLogger) {
	r.Get("/api/sync/status", func(w http.ResponseWriter, req *http.Request) {
		shop := middleware.ShopFrom(req.Context())
		if shop == "" {
			writeError(w, &faults.Fault{Type: faults.InvalidShape, Status: http.StatusUnauthorized, Message: "no authenticated shop in session"})
			return
		}
		writeJSON(w, svc.Report(req.Context(), shop), http.StatusOK)
	})

	r.Post("/api/sync", func(w http.ResponseWriter, req *http.Request) {
		shop := middleware.ShopFrom(req.Context())
		if shop == "" {
			writeError(w, &faults.Fault{Type: faults.InvalidShape, Status: http.StatusUnauthorized, Message: "no authenticated shop in session"})
			return
		}
		var body ActionBody
		if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, 1<<20)).Decode(&body); err != nil {
			writeError(w, faults.Invalid("request body must be a JSON object"))
			return
		}
		outcome, err := svc.Dispatch(req.Context(), shop, body)
		if err != nil {
			writeError(w, faults.As(err))
			return
		}
		if outcome.Toggle != nil {
			writeJSON(w, outcome.Toggle, http.StatusOK)
			return
		}
		// Verbatim relay of the job function's response.
		w.Header().Set("Content-Type", outcome.Relay.ContentType)
		w.WriteHeader(outcome.Relay.Status)
		_, _ = w.Write(outcome.Relay.Body)
	})
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, f *faults.Fault) {
	writeJSON(w, map[string]any{
		"ok":        false,
		"error":     f.Message,
		"errorType": f.Type,
	}, f.HTTPStatus())
}
