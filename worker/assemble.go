package worker

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/traverse"
	"go.uber.org/zap"
)

// build reads sources and builds one call graph from their concatenation.
// Nothing is built if any source cannot be read.
func (w *Worker) build(sources []string) (*traverse.CallGraph, error) {
	text, err := w.sources.ReadSources(sources)
	if err != nil {
		return nil, err
	}
	return w.engine.BuildCallGraph(text)
}

func (w *Worker) callGraph(r *traverse.CallGraphRequest) (*traverse.CallGraphDiagram, error) {
	g, err := w.build(r.Sources)
	if err != nil {
		return nil, err
	}
	dot, err := w.engine.RenderDOT(g)
	if err != nil {
		return nil, err
	}
	return &traverse.CallGraphDiagram{DOT: dot}, nil
}

func (w *Worker) flowchart(ctx context.Context, logger *zap.Logger, r *traverse.FlowchartRequest) (*traverse.Flowchart, error) {
	g, err := w.build(r.Sources)
	if err != nil {
		return nil, err
	}
	diagram, err := w.engine.RenderSequence(g)
	if err != nil {
		return nil, err
	}
	if r.NoChunk {
		return &traverse.Flowchart{Mermaid: diagram}, nil
	}
	dir := r.ChunkDir
	if dir == "" {
		dir = w.chunkDir
	}
	return w.chunk(ctx, logger, diagram, dir), nil
}

func (w *Worker) allDiagrams(ctx context.Context, logger *zap.Logger, r *traverse.AllDiagramsRequest) (*traverse.AllDiagrams, error) {
	g, err := w.build(r.Sources)
	if err != nil {
		return nil, err
	}
	dot, err := w.engine.RenderDOT(g)
	if err != nil {
		return nil, err
	}
	diagram, err := w.engine.RenderSequence(g)
	if err != nil {
		return nil, err
	}

	out := &traverse.AllDiagrams{DOT: dot, Mermaid: diagram}
	if w.noChunk {
		return out, nil
	}
	fc := w.chunk(ctx, logger, diagram, w.chunkDir)
	out.Mermaid = fc.Mermaid
	out.IsChunked = fc.IsChunked
	if fc.IsChunked {
		dir := fc.ChunkDir
		out.ChunkDir = &dir
	}
	return out, nil
}

func (w *Worker) storageLayout(r *traverse.StorageLayoutRequest) (*traverse.StorageLayout, error) {
	g, err := w.build(r.Sources)
	if err != nil {
		return nil, err
	}
	summary, err := w.engine.AnalyzeStorage(g)
	if err != nil {
		return nil, err
	}
	return &traverse.StorageLayout{
		Markdown:  traverse.RenderStorageReport(g, summary, len(r.Sources)),
		FileCount: len(r.Sources),
	}, nil
}

// chunk splits diagram into files under dir. The preview is the first chunk
// as read back from disk. If chunking fails the diagram is returned whole.
func (w *Worker) chunk(ctx context.Context, logger *zap.Logger, diagram, dir string) *traverse.Flowchart {
	set, err := w.chunker.Chunk(diagram, dir)
	if err != nil || set == nil || len(set.Chunks) == 0 {
		logger.Warn("chunking failed, returning unchunked diagram", zap.String("chunk_dir", dir), zap.Error(err))
		recordChunkFallback(ctx)
		return &traverse.Flowchart{Mermaid: diagram}
	}

	first := set.Chunks[0]
	preview := first.Content
	data, err := os.ReadFile(filepath.Join(set.Dir, first.Filename))
	if err != nil {
		logger.Warn("failed to read first chunk, using in-memory copy", zap.String("file", first.Filename), zap.Error(err))
	} else {
		preview = string(data)
	}

	logger.Debug("diagram chunked", zap.String("chunk_dir", set.Dir), zap.Int("chunks", len(set.Chunks)))
	return &traverse.Flowchart{
		Mermaid:   preview,
		IsChunked: true,
		Chunks:    set.Chunks,
		ChunkDir:  set.Dir,
	}
}
