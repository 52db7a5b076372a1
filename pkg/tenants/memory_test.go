package tenants

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreResolve(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	tid, err := s.ResolveTenant(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.Empty(t, tid, "unlinked shop resolves to empty, not error")

	s.Link("demo.myshopify.com", "t_demo")
	tid, err = s.ResolveTenant(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.Equal(t, "t_demo", tid)

	require.NoError(t, s.DeleteBinding(ctx, "demo.myshopify.com"))
	tid, err = s.ResolveTenant(ctx, "demo.myshopify.com")
	require.NoError(t, err)
	assert.Empty(t, tid)
}

func TestUpsertAutoSyncRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	got, err := s.GetSettings(ctx, "t1")
	require.NoError(t, err)
	assert.Nil(t, got, "fresh tenant has no settings row")

	st, err := s.UpsertAutoSync(ctx, "t1", true, 30)
	require.NoError(t, err)
	assert.True(t, st.AutoSyncEnabled)
	assert.Equal(t, 30, st.AutoSyncIntervalMinutes)

	// Idempotent: the same payload converges to the same stored row.
	again, err := s.UpsertAutoSync(ctx, "t1", true, 30)
	require.NoError(t, err)
	assert.Equal(t, st.AutoSyncEnabled, again.AutoSyncEnabled)
	assert.Equal(t, st.AutoSyncIntervalMinutes, again.AutoSyncIntervalMinutes)
	assert.Equal(t, st.CreatedAt, again.CreatedAt, "upsert must not create a second row")

	read, err := s.GetSettings(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, read)
	assert.True(t, read.AutoSyncEnabled)
	assert.Equal(t, 30, read.AutoSyncIntervalMinutes)
}

func TestStampSync(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.StampSync(ctx, "t1", MarkPull))
	st, err := s.GetSettings(ctx, "t1")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.NotNil(t, st.LastPullAt)
	assert.Nil(t, st.LastPushAt)

	require.NoError(t, s.StampSync(ctx, "t1", MarkPush))
	st, err = s.GetSettings(ctx, "t1")
	require.NoError(t, err)
	assert.NotNil(t, st.LastPushAt)
}
