package bulk

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/blobstore"
	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/selection"
	"github.com/five82/shelf/internal/share"
)

type recordingSharer struct {
	calls [][]string
	err   error
}

func (r *recordingSharer) Share(_ context.Context, refs []string) error {
	r.calls = append(r.calls, append([]string(nil), refs...))
	return r.err
}

func seededState(t *testing.T, mem *blobstore.Memory) *catalog.State {
	t.Helper()
	n := 0
	state, err := catalog.New(mem, catalog.WithIDFunc(func() string {
		n++
		return fmt.Sprintf("%d", n)
	}))
	require.NoError(t, err)

	ctx := context.Background()
	_, _, err = state.Create(ctx, "Chair", "20", []string{"a.jpg", "b.jpg"})
	require.NoError(t, err)
	_, _, err = state.Create(ctx, "Lamp", "15", nil)
	require.NoError(t, err)
	_, _, err = state.Create(ctx, "Rug", "", []string{"c.jpg"})
	require.NoError(t, err)
	return state
}

func TestDeleteProductsClearsSelection(t *testing.T) {
	ctx := context.Background()
	state := seededState(t, blobstore.NewMemory())
	engine := New(state, &recordingSharer{}, nil)

	sel := selection.New("1", "3")
	next, err := engine.DeleteProducts(ctx, sel)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, next.IDs())
	assert.True(t, sel.Empty())
	assert.Equal(t, next, state.Catalog())
}

func TestDeleteProductsEmptySelectionIsNoop(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemory()
	state := seededState(t, mem)
	engine := New(state, nil, nil)

	mem.FailSet = errors.New("no writes expected")
	next, err := engine.DeleteProducts(ctx, selection.New())
	require.NoError(t, err)
	assert.Len(t, next, 3)
}

func TestDeleteProductsFailureKeepsSelection(t *testing.T) {
	ctx := context.Background()
	mem := blobstore.NewMemory()
	state := seededState(t, mem)
	engine := New(state, nil, nil)

	mem.FailSet = errors.New("disk full")
	sel := selection.New("2")
	_, err := engine.DeleteProducts(ctx, sel)
	require.Error(t, err)
	assert.Equal(t, []string{"2"}, sel.IDs())
	assert.Len(t, state.Catalog(), 3)
}

func TestShareProductsUsesCatalogOrder(t *testing.T) {
	ctx := context.Background()
	state := seededState(t, blobstore.NewMemory())
	sharer := &recordingSharer{}
	engine := New(state, sharer, nil)

	sel := selection.New("3", "1")
	res := engine.ShareProducts(ctx, sel)
	assert.Equal(t, Shared, res.Outcome)
	assert.Equal(t, 3, res.Count)
	require.Len(t, sharer.calls, 1)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg"}, sharer.calls[0])
	assert.Equal(t, []string{"3", "1"}, sel.IDs(), "share keeps the selection")
}

func TestShareProductsWithoutImagesIsEmpty(t *testing.T) {
	state := seededState(t, blobstore.NewMemory())
	sharer := &recordingSharer{}
	engine := New(state, sharer, nil)

	res := engine.ShareProducts(context.Background(), selection.New("2"))
	assert.Equal(t, Empty, res.Outcome)
	assert.Empty(t, sharer.calls)

	res = engine.ShareProducts(context.Background(), selection.New())
	assert.Equal(t, Empty, res.Outcome)
}

func TestShareImagesOutcomes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Outcome
	}{
		{name: "ok", want: Shared},
		{name: "cancelled", err: share.ErrCancelled, want: Cancelled},
		{name: "wrapped cancel", err: fmt.Errorf("picker: %w", share.ErrCancelled), want: Cancelled},
		{name: "context", err: context.Canceled, want: Cancelled},
		{name: "failure", err: errors.New("boom"), want: Failed},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			state := seededState(t, blobstore.NewMemory())
			before := state.Catalog()
			engine := New(state, &recordingSharer{err: tc.err}, nil)

			res := engine.ShareImages(context.Background(), []string{"b.jpg", "a.jpg"})
			assert.Equal(t, tc.want, res.Outcome)
			if tc.err != nil {
				assert.ErrorIs(t, res.Err, tc.err)
			} else {
				assert.NoError(t, res.Err)
			}
			assert.Equal(t, before, state.Catalog())
		})
	}
}

func TestShareImagesKeepsGivenOrder(t *testing.T) {
	sharer := &recordingSharer{}
	engine := New(seededState(t, blobstore.NewMemory()), sharer, nil)

	engine.ShareImages(context.Background(), []string{"c.jpg", "a.jpg"})
	require.Len(t, sharer.calls, 1)
	assert.Equal(t, []string{"c.jpg", "a.jpg"}, sharer.calls[0])
}

func TestShareWithoutTargetFails(t *testing.T) {
	engine := New(seededState(t, blobstore.NewMemory()), nil, nil)
	res := engine.ShareImages(context.Background(), []string{"a.jpg"})
	assert.Equal(t, Failed, res.Outcome)
	assert.Error(t, res.Err)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "shared", Shared.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
