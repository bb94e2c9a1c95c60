package lifecycle

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/figcaption/internal/apperr"
	"github.com/starford/figcaption/internal/caption"
	"github.com/starford/figcaption/internal/metastore"
	"github.com/starford/figcaption/internal/models"
	"github.com/starford/figcaption/internal/sanitize"
	"github.com/starford/figcaption/internal/testutil"
)

func newManager(t *testing.T, version string) (*Manager, *metastore.Store) {
	t.Helper()
	store := testutil.TestStore(t)
	return NewManager(store, version, "", slog.New(slog.NewTextHandler(io.Discard, nil))), store
}

func TestInstall_WritesRecord(t *testing.T) {
	m, _ := newManager(t, "0.2.0")
	ctx := context.Background()

	require.NoError(t, m.Install(ctx, "6.4"))
	rec, ok, err := m.Record(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "0.2.0", rec.SchemaVersion)
}

func TestInstall_KeepsExistingRecord(t *testing.T) {
	m, store := newManager(t, "0.2.0")
	ctx := context.Background()
	require.NoError(t, store.UpdateOption(ctx, OptionName, `{"schema_version":"0.1.0"}`))

	require.NoError(t, m.Install(ctx, "6.4"))
	rec, _, err := m.Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", rec.SchemaVersion)
}

func TestInstall_HostTooOld(t *testing.T) {
	m, _ := newManager(t, "")
	ctx := context.Background()

	err := m.Install(ctx, "2.6.1")
	assert.ErrorIs(t, err, apperr.ErrHostTooOld)
	_, ok, err := m.Record(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.ErrorIs(t, m.Install(ctx, "garbage"), apperr.ErrHostTooOld)
	assert.NoError(t, m.Install(ctx, "2.7"))
}

func TestUninstall_LeavesCaptions(t *testing.T) {
	m, store := newManager(t, "")
	ctx := context.Background()
	post := testutil.SeedPost(t, store, models.OwnerPost, 1)
	repo := caption.NewRepository(store, sanitize.PostContent(), "")
	require.NoError(t, repo.Set(ctx, post.ID, "Kept"))
	require.NoError(t, m.Install(ctx, "6.0"))

	require.NoError(t, m.Uninstall(ctx))

	_, ok, err := m.Record(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	c, err := repo.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kept", c.Text)
}

func TestUpgrade(t *testing.T) {
	m, store := newManager(t, "0.2.0")
	ctx := context.Background()

	upgraded, err := m.Upgrade(ctx)
	require.NoError(t, err)
	assert.False(t, upgraded, "no record, nothing to upgrade")

	require.NoError(t, store.UpdateOption(ctx, OptionName, `{"schema_version":"0.1.0"}`))
	upgraded, err = m.Upgrade(ctx)
	require.NoError(t, err)
	assert.True(t, upgraded)
	rec, _, err := m.Record(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0.2.0", rec.SchemaVersion)

	upgraded, err = m.Upgrade(ctx)
	require.NoError(t, err)
	assert.False(t, upgraded, "already current")
}

func TestRecord_Corrupt(t *testing.T) {
	m, store := newManager(t, "")
	ctx := context.Background()
	require.NoError(t, store.UpdateOption(ctx, OptionName, `not json`))

	_, _, err := m.Record(ctx)
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 0, Compare("2.7", "v2.7.0"))
	assert.Equal(t, -1, Compare("2.6.9", "2.7"))
	assert.Equal(t, 1, Compare("6.4.2", "2.7"))
	assert.Equal(t, -1, Compare("junk", "0.0.1"))
}
