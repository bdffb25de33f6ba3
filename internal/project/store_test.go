package project

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/nexus/internal/errors"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "projects.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_SaveGet(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	p := &Project{
		Name:        "demo",
		Directory:   "/work/demo",
		Skills:      []string{"a", "b"},
		LocalSkills: []string{"mine"},
		MCPServers:  []string{"github"},
		Agents:      []string{"zed", "claude"},
		FileRules:   map[string][]string{"CLAUDE.md": {"style"}},
	}
	require.NoError(t, s.Save(ctx, p))

	got, err := s.Get(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, "/work/demo", got.Directory)
	assert.Equal(t, []string{"claude", "zed"}, got.Agents)
	assert.Equal(t, []string{"mine"}, got.LocalSkills)
	assert.Equal(t, map[string][]string{"CLAUDE.md": {"style"}}, got.FileRules)
	assert.Equal(t, ModePerAgent, got.InstructionMode)

	got.Skills = []string{"b"}
	require.NoError(t, s.Save(ctx, got))
	again, err := s.Get(ctx, "demo")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, again.Skills)

	found, err := s.FindByDirectory(ctx, "/work/demo")
	require.NoError(t, err)
	assert.Equal(t, "demo", found.Name)
}

func TestStore_Errors(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	_, err := s.Get(ctx, "missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	err = s.Save(ctx, &Project{Name: "bad", Skills: []string{"../etc"}})
	assert.True(t, errors.Is(err, errors.ErrInvalidName))

	assert.True(t, errors.Is(s.Delete(ctx, "missing"), errors.ErrNotFound))

	_, err = s.FindByDirectory(ctx, "/nowhere")
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestStore_ListDelete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	for _, name := range []string{"beta", "alpha"} {
		require.NoError(t, s.Save(ctx, &Project{Name: name}))
	}

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "alpha", list[0].Name)

	require.NoError(t, s.Delete(ctx, "alpha"))
	list, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "beta", list[0].Name)
}

func TestOpen_DriverError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string, string) (*sql.DB, error) {
		return nil, errors.New("driver unavailable")
	}

	_, err := Open(filepath.Join(t.TempDir(), "projects.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "driver unavailable")
}
