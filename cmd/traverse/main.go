// Command traverse is a language server that generates call graphs,
// sequence diagrams and storage reports for Solidity workspaces. It can also
// run a single generation from the command line.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/fwojciec/traverse"
	"github.com/fwojciec/traverse/chroma"
	"github.com/fwojciec/traverse/config"
	"github.com/fwojciec/traverse/dot"
	"github.com/fwojciec/traverse/fs"
	"github.com/fwojciec/traverse/lsp"
	"github.com/fwojciec/traverse/mermaid"
	"github.com/fwojciec/traverse/solidity"
	"github.com/fwojciec/traverse/worker"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"
)

// version is set at build time.
var version = "dev"

// ErrNoSources is returned when a workspace contains no Solidity files.
var ErrNoSources = errors.New("no Solidity files found in workspace")

// One-shot generation commands.
const (
	CommandCallGraph = "callgraph"
	CommandSequence  = "sequence"
	CommandAll       = "all"
	CommandStorage   = "storage"
)

// App encapsulates the application logic for testing.
type App struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Config  *config.Config
	Logger  *zap.Logger
	Engine  traverse.Engine
	Sources traverse.SourceReader
	Chunker traverse.Chunker
	Version string

	// RenderMarkdown renders storage reports for the terminal.
	RenderMarkdown bool
}

// NewEngine wires the analysis engine from configuration.
func NewEngine(cfg *config.Config) (*traverse.Analyzer, error) {
	lexer, err := chroma.NewLexer(chroma.DefaultLanguage)
	if err != nil {
		return nil, err
	}
	return &traverse.Analyzer{
		Builder: solidity.NewBuilder(lexer),
		DOT:     dot.NewRenderer(dot.WithStorage(cfg.Generation.IncludeStorage)),
		Sequence: mermaid.NewRenderer(
			mermaid.WithMaxDepth(cfg.Analysis.MaxDepth),
			mermaid.WithModifiers(cfg.Generation.IncludeModifiers),
		),
		Storage: solidity.NewStorageAnalyzer(),
	}, nil
}

// NewLogger builds a production logger writing to stderr, since stdout
// carries the protocol.
func NewLogger(cfg config.LoggingConfig, verbose bool) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	if cfg.Format != "" {
		zcfg.Encoding = cfg.Format
	}
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

func (a *App) newWorker(chunkDir string, noChunk bool) (*worker.Worker, *worker.Dispatcher) {
	queue := worker.NewQueue()
	w := worker.New(queue, a.Engine, a.Sources, a.Chunker,
		worker.WithLogger(a.Logger.Named("worker")),
		worker.WithChunkDir(chunkDir),
		worker.WithNoChunk(noChunk),
	)
	return w, worker.NewDispatcher(queue)
}

// Serve runs the language server on Stdin/Stdout alongside the generation
// worker. It returns when the client sends exit or closes the stream, or
// when ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	w, d := a.newWorker(a.Config.Mermaid.ChunkDir, a.Config.Mermaid.NoChunk)
	srv := lsp.NewServer(a.Stdin, a.Stdout, d,
		lsp.WithLogger(a.Logger.Named("lsp")),
		lsp.WithVersion(a.Version),
		lsp.WithNoChunk(a.Config.Mermaid.NoChunk),
		lsp.WithChunkDir(a.Config.Mermaid.ChunkDir),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(gctx)
	})
	g.Go(func() error {
		// Stop the worker even if the client never sent shutdown.
		defer func() { _ = d.Shutdown() }()
		return srv.Serve(gctx)
	})

	errc := make(chan error, 1)
	go func() { errc <- g.Wait() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		// A blocked stdin read cannot be interrupted; process exit ends it.
		a.Logger.Info("interrupted")
		return nil
	}
}

// Generate runs one command against the workspace at folder and writes the
// result to Stdout: JSON for diagrams, Markdown for storage reports.
func (a *App) Generate(ctx context.Context, command, folder string) error {
	files, err := fs.FindSolidityFiles(folder)
	if err != nil {
		return fmt.Errorf("failed to scan workspace: %w", err)
	}
	if len(files) == 0 {
		return ErrNoSources
	}
	a.Logger.Info("found Solidity files", zap.String("workspace", folder), zap.Int("files", len(files)))

	chunkDir := fs.ResolveChunkDir(folder, a.Config.Mermaid.ChunkDir)
	w, d := a.newWorker(chunkDir, a.Config.Mermaid.NoChunk)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return w.Run(gctx)
	})

	var result any
	var genErr error
	switch command {
	case CommandCallGraph:
		result, genErr = d.CallGraphDiagram(ctx, files, "")
	case CommandSequence:
		result, genErr = d.Flowchart(ctx, files, "", a.Config.Mermaid.NoChunk, chunkDir)
	case CommandAll:
		result, genErr = d.AllDiagrams(ctx, files, "")
	case CommandStorage:
		var layout *traverse.StorageLayout
		layout, genErr = d.StorageLayout(ctx, files, "")
		if layout != nil {
			result = layout
		}
	default:
		genErr = fmt.Errorf("%w: %s", traverse.ErrUnknownOperation, command)
	}

	_ = d.Shutdown()
	if err := g.Wait(); err != nil && genErr == nil {
		genErr = err
	}
	if genErr != nil {
		return genErr
	}

	if layout, ok := result.(*traverse.StorageLayout); ok {
		return a.writeMarkdown(layout.Markdown)
	}
	enc := json.NewEncoder(a.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func (a *App) writeMarkdown(md string) error {
	if a.RenderMarkdown {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("failed to create markdown renderer: %w", err)
		}
		if md, err = renderer.Render(md); err != nil {
			return fmt.Errorf("failed to render markdown: %w", err)
		}
	}
	_, err := io.WriteString(a.Stdout, md)
	return err
}

func main() {
	// Set up context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := NewRootCmd(os.Stdin, os.Stdout).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
