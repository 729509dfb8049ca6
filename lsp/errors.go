package lsp

import (
	"errors"
	"fmt"

	"github.com/fwojciec/traverse"
)

// JSON-RPC error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// ResponseError is the error object of a JSON-RPC response.
type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	return fmt.Sprintf("LSP error %d: %s", e.Code, e.Message)
}

// ErrorCode maps an error to its JSON-RPC code. Unknown operations are
// -32601, argument problems -32602 and everything else, including an
// unavailable worker, -32603.
func ErrorCode(err error) int {
	var rerr *ResponseError
	switch {
	case errors.As(err, &rerr):
		return rerr.Code
	case errors.Is(err, traverse.ErrUnknownOperation):
		return CodeMethodNotFound
	case errors.Is(err, traverse.ErrMissingArguments), errors.Is(err, traverse.ErrInvalidArguments):
		return CodeInvalidParams
	default:
		return CodeInternalError
	}
}

// toResponseError converts err into the error object sent to the client.
func toResponseError(err error) *ResponseError {
	var rerr *ResponseError
	if errors.As(err, &rerr) {
		return rerr
	}
	msg := err.Error()
	switch {
	case errors.Is(err, traverse.ErrMissingArguments):
		msg = "Missing arguments"
	case errors.Is(err, traverse.ErrInvalidArguments):
		msg = "Invalid parameters"
	}
	return &ResponseError{Code: ErrorCode(err), Message: msg}
}

// unknownCommandError is returned for commands the server does not provide.
type unknownCommandError struct {
	command string
}

func (e *unknownCommandError) Error() string {
	return "Unknown command: " + e.command
}

func (e *unknownCommandError) Is(target error) bool {
	return target == traverse.ErrUnknownOperation
}
