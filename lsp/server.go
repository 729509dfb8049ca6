package lsp

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/fwojciec/traverse"
	"go.uber.org/zap"
)

// LSP methods handled by the server.
const (
	MethodInitialize     = "initialize"
	MethodInitialized    = "initialized"
	MethodShutdown       = "shutdown"
	MethodExit           = "exit"
	MethodExecuteCommand = "workspace/executeCommand"
	MethodShowMessage    = "window/showMessage"
)

// TextDocumentSyncFull asks the client to send whole documents on change.
const TextDocumentSyncFull = 1

// ServerName is reported to clients during initialize.
const ServerName = "traverse"

// Server is a language server that turns executeCommand requests into
// generation requests on a traverse.Dispatcher.
type Server struct {
	conn       *Conn
	dispatcher traverse.Dispatcher
	logger     *zap.Logger
	version    string

	noChunk  bool
	chunkDir string

	wg sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithVersion sets the version reported in serverInfo.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithNoChunk sets the default for requests that do not pass no_chunk.
func WithNoChunk(noChunk bool) Option {
	return func(s *Server) {
		s.noChunk = noChunk
	}
}

// WithChunkDir sets the chunk directory used when a request does not pass
// chunk_dir. Relative directories are resolved against the workspace folder.
func WithChunkDir(dir string) Option {
	return func(s *Server) {
		s.chunkDir = dir
	}
}

// NewServer creates a Server that reads requests from r and writes to w.
func NewServer(r io.Reader, w io.Writer, dispatcher traverse.Dispatcher, opts ...Option) *Server {
	s := &Server{
		conn:       NewConn(r, w),
		dispatcher: dispatcher,
		logger:     zap.NewNop(),
		version:    "dev",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve reads messages until exit is received, the stream ends or ctx is
// done. Each executeCommand runs on its own goroutine so a slow generation
// never blocks the read loop; Serve waits for them before returning.
func (s *Server) Serve(ctx context.Context) error {
	defer s.wg.Wait()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := s.conn.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("client closed the connection")
				return nil
			}
			return err
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			s.logger.Warn("failed to decode message", zap.Error(err))
			s.write(s.conn.ReplyError(nil, &ResponseError{Code: CodeParseError, Message: err.Error()}))
			continue
		}
		if msg.Method == "" {
			// Responses to server requests; the server sends none.
			continue
		}

		if msg.Method == MethodExit {
			s.logger.Info("exit received")
			return nil
		}
		s.handle(ctx, &msg)
	}
}

func (s *Server) handle(ctx context.Context, msg *Message) {
	logger := s.logger.With(zap.String("method", msg.Method))

	switch msg.Method {
	case MethodInitialize:
		logger.Info("initializing")
		s.write(s.conn.Reply(msg.ID, s.initializeResult()))
	case MethodInitialized:
		logger.Debug("client initialized")
	case MethodShutdown:
		logger.Info("shutdown requested")
		if err := s.dispatcher.Shutdown(); err != nil {
			logger.Warn("failed to stop generation worker", zap.Error(err))
		}
		s.write(s.conn.Reply(msg.ID, nil))
	case MethodExecuteCommand:
		if msg.IsNotification() {
			return
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			result, err := s.executeCommand(ctx, msg.Params)
			if err != nil {
				s.write(s.conn.ReplyError(msg.ID, toResponseError(err)))
				return
			}
			s.write(s.conn.Reply(msg.ID, result))
		}()
	default:
		if msg.IsNotification() {
			logger.Debug("ignoring notification")
			return
		}
		s.write(s.conn.ReplyError(msg.ID, &ResponseError{
			Code:    CodeMethodNotFound,
			Message: "Method not found: " + msg.Method,
		}))
	}
}

func (s *Server) write(err error) {
	if err != nil {
		s.logger.Error("failed to write message", zap.Error(err))
	}
}

// ServerCapabilities advertises what the server supports.
type ServerCapabilities struct {
	TextDocumentSync       int                    `json:"textDocumentSync"`
	ExecuteCommandProvider ExecuteCommandProvider `json:"executeCommandProvider"`
}

// ExecuteCommandProvider lists the commands the server accepts.
type ExecuteCommandProvider struct {
	Commands []string `json:"commands"`
}

// ServerInfo identifies the server to the client.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

// InitializeResult is the response to initialize.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

func (s *Server) initializeResult() InitializeResult {
	return InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync:       TextDocumentSyncFull,
			ExecuteCommandProvider: ExecuteCommandProvider{Commands: Commands()},
		},
		ServerInfo: ServerInfo{Name: ServerName, Version: s.version},
	}
}
