package tenants

import (
	"context"
)

// Store is the backing-store boundary for tenant bindings and sync settings.
// Implementations classify their own failures into faults; callers never see
// raw driver errors.
type Store interface {
	// ResolveTenant returns the tenant id bound to the shop, or "" with a nil
	// error when the shop is not linked. "Not linked" is not a failure.
	ResolveTenant(ctx context.Context, shopDomain string) (string, error)

	// GetSettings returns the settings row for the tenant, or nil with a nil
	// error when none exists yet (valid for a freshly linked tenant).
	GetSettings(ctx context.Context, tenantID string) (*SyncSettings, error)

	// UpsertAutoSync atomically writes the two auto-sync fields keyed on the
	// tenant id and returns the stored row. Concurrent toggles for the same
	// tenant converge last-write-wins without duplicate rows.
	UpsertAutoSync(ctx context.Context, tenantID string, enabled bool, intervalMinutes int) (*SyncSettings, error)

	// StampSync records the completion time of a pull or push dispatch.
	StampSync(ctx context.Context, tenantID string, mark SyncMark) error

	// DeleteBinding removes a shop's binding. Used only by the uninstall
	// webhook; the request path treats bindings as read-only.
	DeleteBinding(ctx context.Context, shopDomain string) error
}
