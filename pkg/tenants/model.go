package tenants

import "time"

// TenantBinding links an authenticated shop to the platform tenant that owns
// its inventory data. At most one binding exists per shop; absence means the
// shop has not been linked yet, which is an expected state.
type TenantBinding struct {
	ShopDomain string
	TenantID   string
	CreatedAt  time.Time
}

// SyncSettings is the per-tenant sync configuration row. The bridge only ever
// reads it or upserts the two auto-sync fields; the scheduler consuming the
// interval lives outside this service.
type SyncSettings struct {
	TenantID                string     `json:"tenantId"`
	AutoSyncEnabled         bool       `json:"autoSyncEnabled"`
	AutoSyncIntervalMinutes int        `json:"autoSyncIntervalMinutes"`
	LastPullAt              *time.Time `json:"lastPullAt"`
	LastPushAt              *time.Time `json:"lastPushAt"`
	CreatedAt               time.Time  `json:"createdAt"`
	UpdatedAt               time.Time  `json:"updatedAt"`
}

// SyncMark identifies which last-sync timestamp a completed dispatch stamps.
type SyncMark string

const (
	MarkPull SyncMark = "pull"
	MarkPush SyncMark = "push"
)
