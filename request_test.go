package traverse_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fwojciec/traverse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReply(t *testing.T) {
	t.Parallel()

	t.Run("delivers value", func(t *testing.T) {
		t.Parallel()

		r := traverse.NewReply[*traverse.CallGraphDiagram]()
		assert.True(t, r.Deliver(&traverse.CallGraphDiagram{DOT: "digraph"}, nil))

		got, err := r.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "digraph", got.DOT)
	})

	t.Run("only the first delivery counts", func(t *testing.T) {
		t.Parallel()

		r := traverse.NewReply[string]()
		assert.True(t, r.Deliver("first", nil))
		assert.False(t, r.Deliver("second", errors.New("late")))

		got, err := r.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "first", got)
	})

	t.Run("concurrent deliveries never block", func(t *testing.T) {
		t.Parallel()

		r := traverse.NewReply[int]()
		var wg sync.WaitGroup
		var mu sync.Mutex
		wins := 0
		for i := range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if r.Deliver(i, nil) {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
	})

	t.Run("await stops on cancel", func(t *testing.T) {
		t.Parallel()

		r := traverse.NewReply[string]()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()

		_, err := r.Await(ctx)

		require.ErrorIs(t, err, context.DeadlineExceeded)
		assert.True(t, r.Deliver("after", nil), "abandoned reply still accepts delivery")
	})

	t.Run("nil reply", func(t *testing.T) {
		t.Parallel()

		var r *traverse.Reply[string]
		assert.False(t, r.Deliver("x", nil))
	})
}

func TestRequest_Fail(t *testing.T) {
	t.Parallel()

	t.Run("delivers error on the reply", func(t *testing.T) {
		t.Parallel()

		req := &traverse.FlowchartRequest{Reply: traverse.NewReply[*traverse.Flowchart]()}
		req.Fail(traverse.ErrWorkerUnavailable)

		got, err := req.Reply.Await(context.Background())
		require.ErrorIs(t, err, traverse.ErrWorkerUnavailable)
		assert.Nil(t, got)
	})

	t.Run("does not override a delivered result", func(t *testing.T) {
		t.Parallel()

		req := &traverse.StorageLayoutRequest{Reply: traverse.NewReply[*traverse.StorageLayout]()}
		req.Reply.Deliver(&traverse.StorageLayout{FileCount: 2}, nil)
		req.Fail(traverse.ErrWorkerUnavailable)

		got, err := req.Reply.Await(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, got.FileCount)
	})

	t.Run("shutdown has no reply", func(t *testing.T) {
		t.Parallel()

		req := &traverse.Shutdown{}
		assert.NotPanics(t, func() { req.Fail(traverse.ErrWorkerUnavailable) })
		assert.Equal(t, traverse.KindShutdown, req.Kind())
	})

	t.Run("request without reply", func(t *testing.T) {
		t.Parallel()

		req := &traverse.CallGraphRequest{}
		assert.NotPanics(t, func() { req.Fail(traverse.ErrWorkerUnavailable) })
	})
}

func TestRequest_Kind(t *testing.T) {
	t.Parallel()

	reqs := map[traverse.RequestKind]traverse.Request{
		traverse.KindShutdown:      &traverse.Shutdown{},
		traverse.KindCallGraph:     &traverse.CallGraphRequest{},
		traverse.KindFlowchart:     &traverse.FlowchartRequest{},
		traverse.KindAllDiagrams:   &traverse.AllDiagramsRequest{},
		traverse.KindStorageLayout: &traverse.StorageLayoutRequest{},
	}
	for want, req := range reqs {
		assert.Equal(t, want, req.Kind())
	}
}
