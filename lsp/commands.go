package lsp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/traverse"
	"github.com/fwojciec/traverse/fs"
	"go.uber.org/zap"
)

// Workspace commands.
const (
	CommandCallGraph       = "traverse.generateCallGraph.workspace"
	CommandSequenceDiagram = "traverse.generateSequenceDiagram.workspace"
	CommandAll             = "traverse.generateAll.workspace"
	CommandStorage         = "traverse.analyzeStorage.workspace"
)

// Commands returns the commands advertised in the initialize response.
func Commands() []string {
	return []string{CommandCallGraph, CommandSequenceDiagram, CommandAll, CommandStorage}
}

// showMessage types.
const (
	MessageError   = 1
	MessageWarning = 2
	MessageInfo    = 3
)

// ShowMessageParams are the params of window/showMessage.
type ShowMessageParams struct {
	Type    int    `json:"type"`
	Message string `json:"message"`
}

// ExecuteCommandParams are the params of workspace/executeCommand.
type ExecuteCommandParams struct {
	Command   string            `json:"command"`
	Arguments []json.RawMessage `json:"arguments,omitempty"`
}

// WorkspaceArgs is the first argument of every workspace command.
type WorkspaceArgs struct {
	WorkspaceFolder string `json:"workspace_folder"`
	NoChunk         *bool  `json:"no_chunk,omitempty"`
	ChunkDir        string `json:"chunk_dir,omitempty"`
	ContractName    string `json:"contract_name,omitempty"`
}

// Result is the success envelope. Data carries JSON payloads; Diagram
// carries the Markdown storage report.
type Result struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Diagram string `json:"diagram,omitempty"`
}

// parseWorkspaceArgs decodes the first command argument. The folder may be
// a path or a file:// URI.
func parseWorkspaceArgs(params ExecuteCommandParams) (WorkspaceArgs, error) {
	if len(params.Arguments) == 0 {
		return WorkspaceArgs{}, traverse.ErrMissingArguments
	}
	var args WorkspaceArgs
	if err := json.Unmarshal(params.Arguments[0], &args); err != nil {
		return WorkspaceArgs{}, fmt.Errorf("%w: %v", traverse.ErrInvalidArguments, err)
	}
	if args.WorkspaceFolder == "" {
		return WorkspaceArgs{}, fmt.Errorf("%w: workspace_folder is required", traverse.ErrInvalidArguments)
	}
	if strings.HasPrefix(args.WorkspaceFolder, "file:") {
		path, err := fs.ResolveLocation(args.WorkspaceFolder)
		if err != nil {
			return WorkspaceArgs{}, fmt.Errorf("%w: %v", traverse.ErrInvalidArguments, err)
		}
		args.WorkspaceFolder = path
	}
	return args, nil
}

// executeCommand runs one workspace command and returns the response result.
func (s *Server) executeCommand(ctx context.Context, raw json.RawMessage) (any, error) {
	var params ExecuteCommandParams
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("%w: %v", traverse.ErrInvalidArguments, err)
	}
	logger := s.logger.With(zap.String("command", params.Command))

	var progress string
	switch params.Command {
	case CommandCallGraph:
		progress = "Analyzing %d files..."
	case CommandSequenceDiagram:
		progress = "Generating diagram for %d files..."
	case CommandAll:
		progress = "Generating all for %d files..."
	case CommandStorage:
		progress = "Analyzing storage for %d files..."
	default:
		logger.Warn("unknown command")
		return nil, &unknownCommandError{command: params.Command}
	}

	args, err := parseWorkspaceArgs(params)
	if err != nil {
		return nil, err
	}

	files, err := fs.FindSolidityFiles(args.WorkspaceFolder)
	if err != nil {
		s.showMessage(MessageError, fmt.Sprintf("Failed to scan workspace: %v", err))
		return nil, fmt.Errorf("failed to scan workspace: %w", err)
	}
	if len(files) == 0 {
		s.showMessage(MessageWarning, "No Solidity files found in workspace")
		return nil, nil
	}
	logger.Info("found Solidity files", zap.String("workspace", args.WorkspaceFolder), zap.Int("files", len(files)))
	s.showMessage(MessageInfo, fmt.Sprintf(progress, len(files)))

	result, err := s.generate(ctx, params.Command, args, files)
	if err != nil {
		logger.Error("generation failed", zap.Error(err))
		s.showMessage(MessageError, fmt.Sprintf("Failed to generate: %v", err))
		return nil, err
	}
	return result, nil
}

func (s *Server) generate(ctx context.Context, command string, args WorkspaceArgs, files []string) (*Result, error) {
	switch command {
	case CommandCallGraph:
		v, err := s.dispatcher.CallGraphDiagram(ctx, files, args.ContractName)
		if err != nil {
			return nil, err
		}
		return &Result{Success: true, Data: v}, nil
	case CommandSequenceDiagram:
		noChunk := s.noChunk
		if args.NoChunk != nil {
			noChunk = *args.NoChunk
		}
		dir := args.ChunkDir
		if dir == "" {
			dir = s.chunkDir
		}
		v, err := s.dispatcher.Flowchart(ctx, files, args.ContractName, noChunk, fs.ResolveChunkDir(args.WorkspaceFolder, dir))
		if err != nil {
			return nil, err
		}
		return &Result{Success: true, Data: v}, nil
	case CommandAll:
		v, err := s.dispatcher.AllDiagrams(ctx, files, args.ContractName)
		if err != nil {
			return nil, err
		}
		return &Result{Success: true, Data: v}, nil
	case CommandStorage:
		v, err := s.dispatcher.StorageLayout(ctx, files, args.ContractName)
		if err != nil {
			return nil, err
		}
		return &Result{Success: true, Diagram: v.Markdown}, nil
	}
	return nil, &unknownCommandError{command: command}
}

func (s *Server) showMessage(typ int, message string) {
	s.write(s.conn.Notify(MethodShowMessage, ShowMessageParams{Type: typ, Message: message}))
}
