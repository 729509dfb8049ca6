// Package worker runs diagram generation on a single background goroutine.
//
// Front ends submit requests through a Dispatcher, which pushes them onto a
// Queue and waits for the reply. The Worker pops requests one at a time, so
// the analysis engine is only ever used from one goroutine, and delivers
// exactly one result or error per request.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/traverse"
	"github.com/fwojciec/traverse/fs"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Worker consumes requests from a Queue until it receives a Shutdown.
type Worker struct {
	queue   *Queue
	engine  traverse.Engine
	sources traverse.SourceReader
	chunker traverse.Chunker
	logger  *zap.Logger

	chunkDir string
	noChunk  bool
}

// Option configures a Worker.
type Option func(*Worker)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Worker) {
		w.logger = l
	}
}

// WithChunkDir sets the directory chunked diagrams are written to when a
// request does not name one.
func WithChunkDir(dir string) Option {
	return func(w *Worker) {
		w.chunkDir = dir
	}
}

// WithNoChunk disables chunking for combined requests.
func WithNoChunk(noChunk bool) Option {
	return func(w *Worker) {
		w.noChunk = noChunk
	}
}

// New creates a Worker that consumes from queue.
func New(queue *Queue, engine traverse.Engine, sources traverse.SourceReader, chunker traverse.Chunker, opts ...Option) *Worker {
	w := &Worker{
		queue:    queue,
		engine:   engine,
		sources:  sources,
		chunker:  chunker,
		logger:   zap.NewNop(),
		chunkDir: fs.DefaultChunkDir,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run processes requests in order until a Shutdown is received, returning
// nil, or ctx ends while waiting for work, returning ctx.Err(). A request in
// progress is always finished. On return the queue is closed and any request
// still in it fails with traverse.ErrWorkerUnavailable.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info("generation worker started")
	defer w.drain()

	for {
		req, err := w.queue.Pop(ctx)
		if err != nil {
			if errors.Is(err, traverse.ErrWorkerUnavailable) {
				return nil
			}
			w.logger.Info("generation worker stopping", zap.Error(err))
			return err
		}
		if _, ok := req.(*traverse.Shutdown); ok {
			w.logger.Info("generation worker received shutdown")
			return nil
		}
		w.process(ctx, req)
	}
}

func (w *Worker) drain() {
	left := w.queue.Close()
	for _, req := range left {
		req.Fail(traverse.ErrWorkerUnavailable)
	}
	if len(left) > 0 {
		w.logger.Warn("failed requests left in queue", zap.Int("count", len(left)))
	}
	w.logger.Info("generation worker stopped")
}

// process handles one request and delivers its result.
func (w *Worker) process(ctx context.Context, req traverse.Request) {
	id := uuid.NewString()[:8]
	kind := string(req.Kind())
	sources := sourcesOf(req)
	logger := w.logger.With(
		zap.String("request_id", id),
		zap.String("kind", kind),
		zap.Int("sources", len(sources)),
	)

	ctx, span := startRequestSpan(ctx, kind, id, len(sources))
	defer span.End()
	start := time.Now()

	var err error
	switch r := req.(type) {
	case *traverse.CallGraphRequest:
		logger.Debug("generating call graph", zap.String("contract_filter", r.ContractFilter))
		var v *traverse.CallGraphDiagram
		v, err = guard(func() (*traverse.CallGraphDiagram, error) { return w.callGraph(r) })
		r.Reply.Deliver(v, err)
	case *traverse.FlowchartRequest:
		logger.Debug("generating sequence diagram",
			zap.String("contract_filter", r.ContractFilter),
			zap.Bool("no_chunk", r.NoChunk),
			zap.String("chunk_dir", r.ChunkDir),
		)
		var v *traverse.Flowchart
		v, err = guard(func() (*traverse.Flowchart, error) { return w.flowchart(ctx, logger, r) })
		r.Reply.Deliver(v, err)
	case *traverse.AllDiagramsRequest:
		logger.Debug("generating all diagrams", zap.String("contract_filter", r.ContractFilter))
		var v *traverse.AllDiagrams
		v, err = guard(func() (*traverse.AllDiagrams, error) { return w.allDiagrams(ctx, logger, r) })
		r.Reply.Deliver(v, err)
	case *traverse.StorageLayoutRequest:
		logger.Debug("analyzing storage", zap.String("contract_name", r.ContractName))
		var v *traverse.StorageLayout
		v, err = guard(func() (*traverse.StorageLayout, error) { return w.storageLayout(r) })
		r.Reply.Deliver(v, err)
	default:
		err = fmt.Errorf("%w: %s", traverse.ErrUnknownOperation, kind)
		req.Fail(err)
	}

	duration := time.Since(start)
	setRequestSpanResult(span, err)
	recordRequestMetrics(ctx, kind, duration, err == nil)
	if err != nil {
		logger.Warn("request failed", zap.Duration("duration", duration), zap.Error(err))
		return
	}
	logger.Info("request completed", zap.Duration("duration", duration))
}

// guard runs fn and converts a panic into an error.
func guard[T any](fn func() (T, error)) (v T, err error) {
	defer func() {
		if p := recover(); p != nil {
			var zero T
			v, err = zero, fmt.Errorf("generation panicked: %v", p)
		}
	}()
	return fn()
}

func sourcesOf(req traverse.Request) []string {
	switch r := req.(type) {
	case *traverse.CallGraphRequest:
		return r.Sources
	case *traverse.FlowchartRequest:
		return r.Sources
	case *traverse.AllDiagramsRequest:
		return r.Sources
	case *traverse.StorageLayoutRequest:
		return r.Sources
	}
	return nil
}
