package engine

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogErrorReporter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogErrorReporter{Logger: logger}.CaptureException(context.Background(), errors.New("boom"), map[string]string{
		"operation": "update_account",
	})

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "exception captured")
	assert.Contains(t, out, "error=boom")
	assert.Contains(t, out, "operation=update_account")
}
