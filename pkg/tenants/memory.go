// pkg/tenants/memory.go
package tenants

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MemoryStore is a map-backed Store used by tests and dev bring-up.
type MemoryStore struct {
	log      *zap.SugaredLogger
	mu       sync.RWMutex
	links    map[string]string // shop domain -> tenant id
	settings map[string]*SyncSettings
}

// NewMemoryStore returns an empty in-memory store, used by tests and as the
// dev fallback when no database is configured.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{links: map[string]string{}, settings: map[string]*SyncSettings{}}
}

// NewMemoryStoreFromEnv seeds links from SHOP_LINK_SEED_JSON
// ([{"shop_domain":"demo.myshopify.com","tenant_id":"t_demo"}]).
func NewMemoryStoreFromEnv(log *zap.SugaredLogger) Store {
	s := NewMemoryStore()
	s.log = log
	if seed := os.Getenv("SHOP_LINK_SEED_JSON"); seed != "" {
		var entries []struct {
			ShopDomain string `json:"shop_domain"`
			TenantID   string `json:"tenant_id"`
		}
		if err := json.Unmarshal([]byte(seed), &entries); err != nil {
			log.Warnw("seed parse", "err", err)
		}
		for _, e := range entries {
			s.links[e.ShopDomain] = e.TenantID
		}
	}
	return s
}

// Link installs a binding directly. Test helper.
func (m *MemoryStore) Link(shopDomain, tenantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.links[shopDomain] = tenantID
}

func (m *MemoryStore) ResolveTenant(_ context.Context, shopDomain string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.links[shopDomain], nil
}

func (m *MemoryStore) GetSettings(_ context.Context, tenantID string) (*SyncSettings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if st, ok := m.settings[tenantID]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, nil
}

func (m *MemoryStore) UpsertAutoSync(_ context.Context, tenantID string, enabled bool, intervalMinutes int) (*SyncSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	st, ok := m.settings[tenantID]
	if !ok {
		st = &SyncSettings{TenantID: tenantID, CreatedAt: now}
		m.settings[tenantID] = st
	}
	st.AutoSyncEnabled = enabled
	st.AutoSyncIntervalMinutes = intervalMinutes
	st.UpdatedAt = now
	cp := *st
	return &cp, nil
}

func (m *MemoryStore) StampSync(_ context.Context, tenantID string, mark SyncMark) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	st, ok := m.settings[tenantID]
	if !ok {
		st = &SyncSettings{TenantID: tenantID, AutoSyncIntervalMinutes: 15, CreatedAt: now}
		m.settings[tenantID] = st
	}
	if mark == MarkPush {
		st.LastPushAt = &now
	} else {
		st.LastPullAt = &now
	}
	st.UpdatedAt = now
	return nil
}

func (m *MemoryStore) DeleteBinding(_ context.Context, shopDomain string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.links, shopDomain)
	return nil
}
