package editor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/blobstore"
	"github.com/five82/shelf/internal/bulk"
	"github.com/five82/shelf/internal/catalog"
)

type fakeSharer struct {
	got []string
	res bulk.ShareResult
}

func (f *fakeSharer) ShareImages(_ context.Context, refs []string) bulk.ShareResult {
	f.got = refs
	return f.res
}

func newSession(t *testing.T, images ...string) (*Session, *catalog.State, *blobstore.Memory) {
	t.Helper()
	mem := blobstore.NewMemory()
	state, err := catalog.New(mem)
	require.NoError(t, err)
	p, _, err := state.Create(context.Background(), "Chair", "20", images)
	require.NoError(t, err)
	s, err := Open(state, p.ID)
	require.NoError(t, err)
	return s, state, mem
}

func TestOpenUnknownProduct(t *testing.T) {
	state, err := catalog.New(blobstore.NewMemory())
	require.NoError(t, err)
	_, err = Open(state, "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSessionModeTransitions(t *testing.T) {
	s, _, _ := newSession(t, "a", "b")
	assert.Equal(t, Viewing, s.Mode())

	assert.True(t, s.Toggle("a"))
	assert.Equal(t, Reviewing, s.Mode())

	assert.False(t, s.Toggle("a"))
	assert.Equal(t, Viewing, s.Mode())

	s.Toggle("b")
	s.Unselect()
	assert.Equal(t, Viewing, s.Mode())
	assert.Empty(t, s.Selected())
}

func TestSessionToggleIgnoresUnknownRef(t *testing.T) {
	s, _, _ := newSession(t, "a")
	assert.False(t, s.Toggle("zzz"))
	assert.Equal(t, Viewing, s.Mode())
}

func TestSessionRemoveSelected(t *testing.T) {
	ctx := context.Background()
	s, state, _ := newSession(t, "a", "b", "a", "c")

	s.Toggle("a")
	s.Toggle("c")
	require.NoError(t, s.RemoveSelected(ctx))

	assert.Equal(t, Done, s.Mode())
	assert.Empty(t, s.Selected())
	p, ok := state.Catalog().Find(s.ProductID())
	require.True(t, ok)
	assert.Equal(t, []string{"b"}, p.Images)
}

func TestSessionRemoveAllKeepsProduct(t *testing.T) {
	ctx := context.Background()
	s, state, _ := newSession(t, "a")
	s.Toggle("a")
	require.NoError(t, s.RemoveSelected(ctx))

	p, ok := state.Catalog().Find(s.ProductID())
	require.True(t, ok)
	assert.NotNil(t, p.Images)
	assert.Empty(t, p.Images)
}

func TestSessionRemoveSelectedNothingSelected(t *testing.T) {
	s, _, mem := newSession(t, "a")
	mem.FailSet = errors.New("no writes expected")
	require.NoError(t, s.RemoveSelected(context.Background()))
	assert.Equal(t, Viewing, s.Mode())
}

func TestSessionRemoveSelectedFailure(t *testing.T) {
	s, _, mem := newSession(t, "a", "b")
	s.Toggle("b")
	mem.FailSet = errors.New("disk full")

	require.Error(t, s.RemoveSelected(context.Background()))
	assert.Equal(t, Reviewing, s.Mode())
	assert.Equal(t, []string{"b"}, s.Selected())
	assert.Equal(t, []string{"a", "b"}, s.Images())
}

func TestSessionShareKeepsSelection(t *testing.T) {
	s, _, _ := newSession(t, "a", "b", "c")
	s.Toggle("c")
	s.Toggle("a")

	sharer := &fakeSharer{res: bulk.ShareResult{Outcome: bulk.Shared, Count: 2}}
	res := s.Share(context.Background(), sharer)

	assert.Equal(t, bulk.Shared, res.Outcome)
	assert.Equal(t, []string{"c", "a"}, sharer.got)
	assert.Equal(t, []string{"c", "a"}, s.Selected())
	assert.Equal(t, Viewing, s.Mode())
}

func TestSessionAddAndRemoveImage(t *testing.T) {
	ctx := context.Background()
	s, _, _ := newSession(t, "a")

	require.NoError(t, s.AddImages(ctx, "b", "a"))
	assert.Equal(t, []string{"a", "b", "a"}, s.Images())

	s.Toggle("b")
	require.NoError(t, s.RemoveImage(ctx, "b"))
	assert.Equal(t, []string{"a", "a"}, s.Images())
	assert.Empty(t, s.Selected())
	assert.Equal(t, Viewing, s.Mode())

	require.NoError(t, s.RemoveImage(ctx, "a"))
	assert.Equal(t, []string{"a"}, s.Images())
	require.NoError(t, s.RemoveImage(ctx, "missing"))
}

func TestSessionSync(t *testing.T) {
	ctx := context.Background()
	s, state, _ := newSession(t, "a", "b")
	s.Toggle("a")
	s.Toggle("b")

	c, err := state.Replace(ctx, s.ProductID(), []string{"b"})
	require.NoError(t, err)
	s.Sync(c)
	assert.Equal(t, []string{"b"}, s.Selected())
	assert.Equal(t, Reviewing, s.Mode())

	c, err = state.RemoveMany(ctx, []string{s.ProductID()})
	require.NoError(t, err)
	s.Sync(c)
	assert.Equal(t, Done, s.Mode())
	assert.Empty(t, s.Images())
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "reviewing", Reviewing.String())
	assert.Equal(t, "unknown", Mode(9).String())
}
