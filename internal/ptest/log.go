// Package ptest contains small helpers for tests in this repository.
package ptest

import (
	"log/slog"
	"testing"

	"github.com/neilotoole/slogt"
)

// NewLogger returns a logger that routes through t.Log,
// so that log output is associated with the correct subtest.
func NewLogger(t testing.TB) *slog.Logger {
	return slogt.New(t)
}
