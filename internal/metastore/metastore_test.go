package metastore

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/figcaption/internal/apperr"
	"github.com/starford/figcaption/internal/models"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	f, err := os.CreateTemp("", "figcaption-metastore-*.db")
	require.NoError(t, err)
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	s, err := Open(f.Name())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedPost(t *testing.T, s *Store, typ models.OwnerType) *models.Post {
	t.Helper()
	p := &models.Post{Type: typ, Title: "hello", AuthorID: 7}
	require.NoError(t, s.CreatePost(context.Background(), p))
	require.NotZero(t, p.ID)
	return p
}

func TestSchemaCreation(t *testing.T) {
	s := testStore(t)
	for _, table := range []string{"users", "posts", "postmeta", "options"} {
		var count int
		require.NoError(t, s.db.Get(&count, `SELECT count(*) FROM `+table), "table %s", table)
	}
}

func TestMeta_MissingIsAbsent(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	v, ok, err := s.Meta(ctx, 999, "_key")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, v)
}

func TestSetMeta_ReplacesValue(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	p := seedPost(t, s, models.OwnerPost)

	require.NoError(t, s.SetMeta(ctx, p.ID, "_key", "first"))
	require.NoError(t, s.SetMeta(ctx, p.ID, "_key", "second"))

	v, ok, err := s.Meta(ctx, p.ID, "_key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", v)

	var rows int
	require.NoError(t, s.db.Get(&rows, `SELECT count(*) FROM postmeta WHERE post_id = ?`, p.ID))
	assert.Equal(t, 1, rows)
}

func TestSetMeta_EmptyValueStored(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	p := seedPost(t, s, models.OwnerPost)

	require.NoError(t, s.SetMeta(ctx, p.ID, "_key", ""))
	v, ok, err := s.Meta(ctx, p.ID, "_key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "", v)
}

func TestSetMeta_UnknownPostFails(t *testing.T) {
	s := testStore(t)
	err := s.SetMeta(context.Background(), 12345, "_key", "orphan")
	assert.Error(t, err)
}

func TestDeletePost_CascadesMeta(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	p := seedPost(t, s, models.OwnerPage)
	require.NoError(t, s.SetMeta(ctx, p.ID, "_key", "caption"))

	require.NoError(t, s.DeletePost(ctx, p.ID))

	_, ok, err := s.Meta(ctx, p.ID, "_key")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, s.DeletePost(ctx, p.ID), apperr.ErrNotFound)
}

func TestPost(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	p := seedPost(t, s, models.OwnerPage)

	got, err := s.Post(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, *p, *got)
	assert.True(t, got.IsPage())

	_, err = s.Post(ctx, p.ID+100)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreatePost_DefaultsToPost(t *testing.T) {
	s := testStore(t)
	p := &models.Post{Title: "untyped"}
	require.NoError(t, s.CreatePost(context.Background(), p))
	assert.Equal(t, models.OwnerPost, p.Type)
}

func TestOptions_Lifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, ok, err := s.Option(ctx, "opts")
	require.NoError(t, err)
	assert.False(t, ok)

	added, err := s.AddOption(ctx, "opts", `{"v":1}`)
	require.NoError(t, err)
	assert.True(t, added)

	added, err = s.AddOption(ctx, "opts", `{"v":2}`)
	require.NoError(t, err)
	assert.False(t, added, "add must not overwrite")

	v, ok, err := s.Option(ctx, "opts")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"v":1}`, v)

	require.NoError(t, s.UpdateOption(ctx, "opts", `{"v":3}`))
	v, _, err = s.Option(ctx, "opts")
	require.NoError(t, err)
	assert.Equal(t, `{"v":3}`, v)

	require.NoError(t, s.DeleteOption(ctx, "opts"))
	_, ok, err = s.Option(ctx, "opts")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.DeleteOption(ctx, "opts"))
}

func TestUsers(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	u := &models.User{Login: "alice", Role: models.RoleEditor}
	require.NoError(t, s.CreateUser(ctx, u, "hash-a"))
	require.NotZero(t, u.ID)

	got, err := s.UserByTokenHash(ctx, "hash-a")
	require.NoError(t, err)
	assert.Equal(t, *u, *got)

	_, err = s.UserByTokenHash(ctx, "nope")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = s.UserByTokenHash(ctx, "")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	err = s.CreateUser(ctx, &models.User{Login: "alice", Role: models.RoleAuthor}, "hash-b")
	assert.ErrorIs(t, err, apperr.ErrAlreadyExists)
}
