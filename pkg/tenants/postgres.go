// pkg/tenants/postgres.go
package tenants

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"shopbridge/pkg/faults"
	"shopbridge/pkg/validate"
)

// pgStore implements Store backed by PostgreSQL.
type pgStore struct {
	dbPool *pgxpool.Pool
	log    *zap.SugaredLogger
}

// NewPostgresStore constructs a PostgreSQL-backed store.
func NewPostgresStore(dbPool *pgxpool.Pool, log *zap.SugaredLogger) Store {
	return &pgStore{dbPool: dbPool, log: log}
}

// EnsureSchema creates required tables if they do not already exist.
// Safe to call repeatedly (idempotent).
func EnsureSchema(ctx context.Context, dbPool *pgxpool.Pool) error {
	_, err := dbPool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS shop_tenant_links (
  shop_domain text PRIMARY KEY,
  tenant_id text NOT NULL,
  created_at timestamptz NOT NULL DEFAULT NOW()
);
CREATE TABLE IF NOT EXISTS sync_settings (
  tenant_id text PRIMARY KEY,
  auto_sync_enabled boolean NOT NULL DEFAULT false,
  auto_sync_interval_minutes int NOT NULL DEFAULT 15,
  last_pull_at timestamptz,
  last_push_at timestamptz,
  created_at timestamptz NOT NULL DEFAULT NOW(),
  updated_at timestamptz NOT NULL DEFAULT NOW()
);
`)
	return err
}

// SeedFromEnv ingests initial shop→tenant links.
// jsonSeed format (SHOP_LINK_SEED_JSON):
// [{"shop_domain":"demo.myshopify.com","tenant_id":"t_demo"}]
func SeedFromEnv(ctx context.Context, dbPool *pgxpool.Pool, jsonSeed string) error {
	if jsonSeed == "" {
		return nil
	}
	var entries []struct {
		ShopDomain string `json:"shop_domain"`
		TenantID   string `json:"tenant_id"`
	}
	if err := json.Unmarshal([]byte(jsonSeed), &entries); err != nil {
		return err
	}
	for _, e := range entries {
		_, err := dbPool.Exec(ctx, `INSERT INTO shop_tenant_links(shop_domain, tenant_id)
		  VALUES ($1,$2)
		  ON CONFLICT (shop_domain) DO UPDATE SET tenant_id=EXCLUDED.tenant_id`,
			e.ShopDomain, e.TenantID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *pgStore) ResolveTenant(ctx context.Context, shopDomain string) (string, error) {
	row := s.dbPool.QueryRow(ctx, `SELECT tenant_id FROM shop_tenant_links WHERE shop_domain=$1`, shopDomain)
	var tid string
	if err := row.Scan(&tid); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", Classify(err)
	}
	// A store that hands back a malformed tenant id must not propagate trust
	// into the credential layer.
	if _, err := validate.TenantID(tid); err != nil {
		s.log.Errorw("malformed tenant id in store", "shop", shopDomain)
		return "", &faults.Fault{
			Type:            faults.Unknown,
			Status:          http.StatusInternalServerError,
			Message:         "the backing store returned a malformed tenant id",
			Troubleshooting: "inspect the shop_tenant_links row for this shop",
		}
	}
	return tid, nil
}

func (s *pgStore) GetSettings(ctx context.Context, tenantID string) (*SyncSettings, error) {
	row := s.dbPool.QueryRow(ctx, `SELECT tenant_id, auto_sync_enabled, auto_sync_interval_minutes, last_pull_at, last_push_at, created_at, updated_at
	  FROM sync_settings WHERE tenant_id=$1`, tenantID)
	var st SyncSettings
	if err := row.Scan(&st.TenantID, &st.AutoSyncEnabled, &st.AutoSyncIntervalMinutes, &st.LastPullAt, &st.LastPushAt, &st.CreatedAt, &st.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, Classify(err)
	}
	return &st, nil
}

func (s *pgStore) UpsertAutoSync(ctx context.Context, tenantID string, enabled bool, intervalMinutes int) (*SyncSettings, error) {
	row := s.dbPool.QueryRow(ctx, `INSERT INTO sync_settings(tenant_id, auto_sync_enabled, auto_sync_interval_minutes)
	  VALUES ($1,$2,$3)
	  ON CONFLICT (tenant_id) DO UPDATE SET
	    auto_sync_enabled=EXCLUDED.auto_sync_enabled,
	    auto_sync_interval_minutes=EXCLUDED.auto_sync_interval_minutes,
	    updated_at=NOW()
	  RETURNING tenant_id, auto_sync_enabled, auto_sync_interval_minutes, last_pull_at, last_push_at, created_at, updated_at`,
		tenantID, enabled, intervalMinutes)
	var st SyncSettings
	if err := row.Scan(&st.TenantID, &st.AutoSyncEnabled, &st.AutoSyncIntervalMinutes, &st.LastPullAt, &st.LastPushAt, &st.CreatedAt, &st.UpdatedAt); err != nil {
		return nil, Classify(err)
	}
	return &st, nil
}

func (s *pgStore) StampSync(ctx context.Context, tenantID string, mark SyncMark) error {
	col := "last_pull_at"
	if mark == MarkPush {
		col = "last_push_at"
	}
	q := fmt.Sprintf(`INSERT INTO sync_settings(tenant_id, %[1]s) VALUES ($1, NOW())
	  ON CONFLICT (tenant_id) DO UPDATE SET %[1]s=NOW(), updated_at=NOW()`, col)
	if _, err := s.dbPool.Exec(ctx, q, tenantID); err != nil {
		return Classify(err)
	}
	return nil
}

func (s *pgStore) DeleteBinding(ctx context.Context, shopDomain string) error {
	if _, err := s.dbPool.Exec(ctx, `DELETE FROM shop_tenant_links WHERE shop_domain=$1`, shopDomain); err != nil {
		return Classify(err)
	}
	return nil
}
