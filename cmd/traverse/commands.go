package main

import (
	"fmt"
	"io"

	"github.com/fwojciec/traverse/config"
	"github.com/fwojciec/traverse/fs"
	"github.com/fwojciec/traverse/mermaid"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the command tree. Stdin and stdout carry the language
// server protocol; logs go to stderr.
func NewRootCmd(stdin io.Reader, stdout io.Writer) *cobra.Command {
	var (
		configPath string
		verbose    bool
		app        *App
	)

	root := &cobra.Command{
		Use:   "traverse",
		Short: "Solidity call graph and diagram language server",
		Long: `traverse analyses Solidity workspaces and generates Graphviz call graphs,
Mermaid sequence diagrams and storage access reports.

Run without arguments to start the language server on stdio.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := NewLogger(cfg.Logging, verbose)
			if err != nil {
				return err
			}
			engine, err := NewEngine(cfg)
			if err != nil {
				return err
			}
			app = &App{
				Stdin:   stdin,
				Stdout:  stdout,
				Config:  cfg,
				Logger:  logger,
				Engine:  engine,
				Sources: fs.NewSourceReader(),
				Chunker: mermaid.NewChunker(cfg.Mermaid.MaxLinesPerChunk),
				Version: version,
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				_ = app.Logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Serve(cmd.Context())
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to the YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	var stdio bool
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the language server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Serve(cmd.Context())
		},
	}
	// stdio is the only transport; the flag is accepted for editor configs that pass it.
	serveCmd.Flags().BoolVar(&stdio, "stdio", true, "Communicate over stdin/stdout")

	generate := func(use, short, command string) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <folder>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return app.Generate(cmd.Context(), command, args[0])
			},
		}
	}

	var noChunk bool
	var chunkDir string
	sequenceCmd := generate(CommandSequence, "Generate a Mermaid sequence diagram", CommandSequence)
	sequenceCmd.Flags().BoolVar(&noChunk, "no-chunk", false, "Return the diagram without writing chunk files")
	sequenceCmd.Flags().StringVar(&chunkDir, "chunk-dir", "", "Directory for chunk files, relative to the workspace")
	sequenceCmd.PreRun = func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("no-chunk") {
			app.Config.Mermaid.NoChunk = noChunk
		}
		if chunkDir != "" {
			app.Config.Mermaid.ChunkDir = chunkDir
		}
	}

	var render bool
	storageCmd := generate(CommandStorage, "Generate a storage access report", CommandStorage)
	storageCmd.Flags().BoolVar(&render, "render", false, "Render the Markdown report for the terminal")
	storageCmd.PreRun = func(cmd *cobra.Command, args []string) {
		app.RenderMarkdown = render
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "traverse %s\n", version)
		},
	}

	root.AddCommand(
		serveCmd,
		generate(CommandCallGraph, "Generate a Graphviz call graph", CommandCallGraph),
		sequenceCmd,
		generate(CommandAll, "Generate the call graph and the sequence diagram", CommandAll),
		storageCmd,
		versionCmd,
	)
	return root
}
