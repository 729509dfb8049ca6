// Package lsp implements the language server front end: Content-Length
// framed JSON-RPC over a byte stream, the initialize/shutdown/exit lifecycle
// and the workspace/executeCommand commands that drive diagram generation.
package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

// JSONRPCVersion is the JSON-RPC version used by LSP.
const JSONRPCVersion = "2.0"

// Message is an incoming request or notification. Notifications have no ID.
type Message struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether m expects no response.
func (m *Message) IsNotification() bool {
	return len(m.ID) == 0 || string(m.ID) == "null"
}

// Response is a reply to a request. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *ResponseError  `json:"error,omitempty"`
}

// Notification is a server-to-client message that expects no response.
type Notification struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

// ErrMissingContentLength is returned for a message without a usable
// Content-Length header.
var ErrMissingContentLength = errors.New("missing or zero Content-Length header")

// Conn reads and writes framed JSON-RPC messages. Writes are serialized so
// responses from concurrent handlers never interleave.
type Conn struct {
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex
}

// NewConn creates a Conn over r and w.
func NewConn(r io.Reader, w io.Writer) *Conn {
	return &Conn{reader: bufio.NewReader(r), writer: w}
}

// Read returns the body of the next message. It returns io.EOF when the
// stream ends cleanly between messages.
func (c *Conn) Read() (json.RawMessage, error) {
	contentLength := 0
	first := true
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			if first && err == io.EOF && line == "" {
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read header: %w", err)
		}
		first = false
		line = strings.TrimSpace(line)

		// Empty line marks end of headers
		if line == "" {
			break
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			continue
		}
		value = strings.TrimSpace(value)
		contentLength, err = strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid Content-Length value %q: %w", value, err)
		}
		if contentLength < 0 {
			return nil, fmt.Errorf("negative Content-Length: %d", contentLength)
		}
	}

	if contentLength == 0 {
		return nil, ErrMissingContentLength
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(c.reader, body); err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

// Write marshals v and writes it as one framed message.
func (c *Conn) Write(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(data))
	if _, err := io.WriteString(c.writer, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if _, err := c.writer.Write(data); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	return nil
}

// Reply writes a successful response carrying result. A nil result is sent
// as JSON null.
func (c *Conn) Reply(id json.RawMessage, result any) error {
	data, err := json.Marshal(result)
	if err != nil {
		return c.ReplyError(id, &ResponseError{Code: CodeInternalError, Message: err.Error()})
	}
	return c.Write(Response{JSONRPC: JSONRPCVersion, ID: id, Result: data})
}

// ReplyError writes an error response.
func (c *Conn) ReplyError(id json.RawMessage, rerr *ResponseError) error {
	return c.Write(Response{JSONRPC: JSONRPCVersion, ID: id, Error: rerr})
}

// Notify writes a notification.
func (c *Conn) Notify(method string, params any) error {
	return c.Write(Notification{JSONRPC: JSONRPCVersion, Method: method, Params: params})
}
