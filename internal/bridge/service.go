// internal/bridge/service.go
package bridge

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"shopbridge/internal/jobs"
	"shopbridge/pkg/faults"
	"shopbridge/pkg/tenants"
	"shopbridge/pkg/validate"
)

// TokenMinter issues a scoped credential for a validated tenant id.
type TokenMinter interface {
	Mint(tenantID string) (string, error)
}

// Service is the tenant-resolution and dispatch core. It is stateless; all
// durable state lives in the store, all concurrency in the host server.
type Service struct {
	store  tenants.Store
	minter TokenMinter
	jobs   jobs.Invoker
	log    *zap.SugaredLogger
}

func NewService(store tenants.Store, minter TokenMinter, invoker jobs.Invoker, log *zap.SugaredLogger) *Service {
	return &Service{store: store, minter: minter, jobs: invoker, log: log}
}

// resolveTenant validates the shop identity, looks up its binding and
// re-validates whatever the store returned. "" with nil error means the shop
// is legitimately not linked yet.
func (s *Service) resolveTenant(ctx context.Context, shop any) (string, error) {
	norm, err := validate.ShopDomain(shop)
	if err != nil {
		// A shape failure is a resolver error, never silently "not found".
		return "", err
	}
	tid, err := s.store.ResolveTenant(ctx, norm)
	if err != nil {
		return "", err
	}
	if tid == "" {
		return "", nil
	}
	if _, err := validate.TenantID(tid); err != nil {
		return "", &faults.Fault{
			Type:    faults.Unknown,
			Status:  http.StatusInternalServerError,
			Message: "the backing store returned a malformed tenant id",
		}
	}
	return tid, nil
}

// ConnectionStatus is the read-path snapshot. Exactly one of the three
// shapes appears: resolver failure, not linked, or connected (settings may be
// null for a freshly linked tenant).
type ConnectionStatus struct {
	Connected       bool                  `json:"connected"`
	ShopDomain      string                `json:"shopDomain"`
	TenantID        string                `json:"tenantId,omitempty"`
	Settings        *tenants.SyncSettings `json:"settings"`
	Reason          string                `json:"reason,omitempty"`
	Error           string                `json:"error,omitempty"`
	ErrorType       faults.Type           `json:"errorType,omitempty"`
	Troubleshooting string                `json:"troubleshooting,omitempty"`
}

// Report assembles the connection/settings snapshot for a shop.
func (s *Service) Report(ctx context.Context, shop string) ConnectionStatus {
	st := ConnectionStatus{ShopDomain: shop}
	tid, err := s.resolveTenant(ctx, shop)
	if err != nil {
		f := faults.As(err)
		st.Error = f.Message
		st.ErrorType = f.Type
		st.Troubleshooting = f.Troubleshooting
		return st
	}
	if tid == "" {
		st.Reason = "not_linked"
		return st
	}
	st.Connected = true
	st.TenantID = tid
	settings, err := s.store.GetSettings(ctx, tid)
	if err != nil {
		// Partial availability beats total failure on the read path: the
		// binding held, give the caller what we know.
		f := faults.As(err)
		s.log.Warnw("settings read failed", "tenant", tid, "errType", f.Type)
		st.Error = f.Message
		return st
	}
	st.Settings = settings
	return st
}

// ToggleResult is the response body for the toggle_auto intent.
type ToggleResult struct {
	OK                      bool `json:"ok"`
	AutoSyncEnabled         bool `json:"autoSyncEnabled"`
	AutoSyncIntervalMinutes int  `json:"autoSyncIntervalMinutes"`
}

// ActionBody is the decoded POST payload. Fields stay untyped so validation
// owns every type decision.
type ActionBody struct {
	Intent          any `json:"intent"`
	Enabled         any `json:"enabled"`
	IntervalMinutes any `json:"intervalMinutes"`
}

// DispatchOutcome carries either the verbatim job relay or the toggle result.
type DispatchOutcome struct {
	Relay  *jobs.Result
	Toggle *ToggleResult
}

// Dispatch validates the intent, resolves the tenant, mints a scoped
// credential and routes the action. Validation failures return before any
// credential is minted.
func (s *Service) Dispatch(ctx context.Context, shop string, body ActionBody) (*DispatchOutcome, error) {
	intent, err := validate.ParseIntent(body.Intent)
	if err != nil {
		dispatchTotal.WithLabelValues("invalid", "rejected").Inc()
		return nil, err
	}
	tid, err := s.resolveTenant(ctx, shop)
	if err != nil {
		dispatchTotal.WithLabelValues(string(intent), "resolve_error").Inc()
		return nil, err
	}
	if tid == "" {
		dispatchTotal.WithLabelValues(string(intent), "not_linked").Inc()
		return nil, &faults.Fault{
			Type:            faults.NotLinked,
			Status:          http.StatusConflict,
			Message:         "this shop is not linked to a platform tenant yet",
			Troubleshooting: "complete onboarding to link the shop before syncing",
		}
	}

	token, err := s.minter.Mint(tid)
	if err != nil {
		dispatchTotal.WithLabelValues(string(intent), "mint_error").Inc()
		return nil, err
	}

	if intent == validate.IntentToggleAuto {
		out, err := s.toggleAutoSync(ctx, tid, body)
		if err != nil {
			dispatchTotal.WithLabelValues(string(intent), "error").Inc()
			return nil, err
		}
		dispatchTotal.WithLabelValues(string(intent), "ok").Inc()
		return &DispatchOutcome{Toggle: out}, nil
	}

	route, ok := jobRoutes[intent]
	if !ok {
		// Unreachable when ParseIntent holds its closed set; kept as a
		// contract check between validator and dispatcher.
		dispatchTotal.WithLabelValues(string(intent), "unknown_intent").Inc()
		return nil, &faults.Fault{
			Type:    faults.UnknownIntent,
			Status:  http.StatusInternalServerError,
			Message: "intent passed validation but has no dispatch route",
		}
	}
	start := time.Now()
	res, err := s.jobs.Invoke(ctx, route.function, token, route.payload)
	jobDuration.WithLabelValues(route.function).Observe(time.Since(start).Seconds())
	if err != nil {
		dispatchTotal.WithLabelValues(string(intent), "error").Inc()
		return nil, err
	}
	if res.Status < 300 {
		// Bookkeeping only; a failed stamp must not fail the dispatch.
		if err := s.store.StampSync(ctx, tid, route.mark); err != nil {
			s.log.Warnw("sync stamp failed", "tenant", tid, "err", err)
		}
	}
	dispatchTotal.WithLabelValues(string(intent), "ok").Inc()
	return &DispatchOutcome{Relay: &res}, nil
}

func (s *Service) toggleAutoSync(ctx context.Context, tenantID string, body ActionBody) (*ToggleResult, error) {
	enabled, ok := coerceBool(body.Enabled)
	if !ok {
		return nil, faults.Invalid("enabled must be a boolean")
	}
	interval, err := validate.IntervalMinutes(body.IntervalMinutes)
	if err != nil {
		return nil, err
	}
	st, err := s.store.UpsertAutoSync(ctx, tenantID, enabled, interval)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{
		OK:                      true,
		AutoSyncEnabled:         st.AutoSyncEnabled,
		AutoSyncIntervalMinutes: st.AutoSyncIntervalMinutes,
	}, nil
}

// coerceBool accepts a JSON boolean, treating an omitted value as false.
func coerceBool(v any) (bool, bool) {
	switch t := v.(type) {
	case nil:
		return false, true
	case bool:
		return t, true
	}
	return false, false
}
