package lsp_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/traverse"
	"github.com/fwojciec/traverse/lsp"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "unknown operation", err: fmt.Errorf("%w: foo", traverse.ErrUnknownOperation), want: lsp.CodeMethodNotFound},
		{name: "missing arguments", err: traverse.ErrMissingArguments, want: lsp.CodeInvalidParams},
		{name: "invalid arguments", err: fmt.Errorf("%w: bad", traverse.ErrInvalidArguments), want: lsp.CodeInvalidParams},
		{name: "worker unavailable", err: traverse.ErrWorkerUnavailable, want: lsp.CodeInternalError},
		{name: "invalid location", err: traverse.ErrInvalidLocation, want: lsp.CodeInternalError},
		{name: "read error", err: &traverse.ReadError{Path: "/a.sol", Err: errors.New("denied")}, want: lsp.CodeInternalError},
		{name: "engine error", err: &traverse.EngineError{Op: "build", Reason: "x"}, want: lsp.CodeInternalError},
		{name: "response error", err: &lsp.ResponseError{Code: lsp.CodeParseError}, want: lsp.CodeParseError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, lsp.ErrorCode(tt.err))
		})
	}
}
