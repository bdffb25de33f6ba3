package rules

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/nexus/internal/errors"
	"github.com/thoreinstein/nexus/internal/logging"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	return logging.NewContext(context.Background(), logging.ForTest(t))
}

func TestStore_PutGet(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "rules"))

	require.NoError(t, s.Put("style", []byte("---\ntitle: Code Style\n---\nUse gofmt.\n")))
	r, err := s.Get("style")
	require.NoError(t, err)
	assert.Equal(t, "style", r.ID)
	assert.Equal(t, "Code Style", r.Title)
	assert.Equal(t, "Use gofmt.", r.Body)

	require.NoError(t, s.Put("plain", []byte("No frontmatter here.")))
	r, err = s.Get("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", r.Heading())
	assert.Equal(t, "No frontmatter here.", r.Body)
}

func TestStore_Errors(t *testing.T) {
	s := NewStore(t.TempDir())

	_, err := s.Get("missing")
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	assert.True(t, errors.Is(s.Put("../x", []byte("x")), errors.ErrInvalidName))
	assert.True(t, errors.Is(s.Put("bad", []byte("---\n: [\n---\n")), errors.ErrMalformedData))

	assert.NoError(t, s.Delete("missing"))
}

func TestStore_List(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)
	require.NoError(t, s.Put("b", []byte("B")))
	require.NoError(t, s.Put("a", []byte("A")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	got, err := s.List(testContext(t))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)

	empty, err := NewStore(filepath.Join(dir, "absent")).List(testContext(t))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestStore_Render(t *testing.T) {
	s := NewStore(t.TempDir())
	require.NoError(t, s.Put("one", []byte("---\ntitle: First\n---\nalpha")))
	require.NoError(t, s.Put("two", []byte("beta")))

	got := s.Render(testContext(t), []string{"two", "missing", "one", "two"})
	assert.Equal(t, "## two\n\nbeta\n\n## First\n\nalpha", got)
	assert.Empty(t, s.Render(testContext(t), nil))
}
