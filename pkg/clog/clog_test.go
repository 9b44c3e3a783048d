package clog

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
)

func TestContextAttributes(t *testing.T) {
	ctx := ContextWithSlog(context.Background())
	AddAttribute(ctx, "room", "P1NK")
	AddAttributes(ctx, map[string]any{"task": map[string]any{"id": "a"}})
	AddAttributes(ctx, map[string]any{"task": map[string]any{"status": "Done"}})

	attrs := GetAttributes(ctx)
	assert.Equal(t, "P1NK", attrs["room"])
	assert.Equal(t, map[string]any{"id": "a", "status": "Done"}, attrs["task"])
	assert.Equal(t, "P1NK", GetAttribute[string](ctx, "room"))
	assert.Equal(t, 0, GetAttribute[int](ctx, "room"))

	err := errors.New("write failed")
	AddError(ctx, err)
	assert.Equal(t, err, GetError(ctx))
}

func TestAttributesWithoutSlogContext(t *testing.T) {
	ctx := context.Background()
	AddAttribute(ctx, "room", "P1NK")
	assert.Nil(t, GetAttributes(ctx))
	assert.Empty(t, GetStack(ctx))
}

func TestTextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewAttributesHandler(NewTextHandler(&buf, WithColor(false), WithLevel(slog.LevelDebug))))

	ctx := ContextWithSlog(context.Background())
	AddAttributes(ctx, map[string]any{"procedure": "/roomez.v1.TaskService/AdvanceTask", "code": "ok"})
	logger.InfoContext(ctx, "Finished", "task_id", "abc")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "INFO /roomez.v1.TaskService/AdvanceTask [ok] \"Finished\"")
	assert.Equal(t, "    task_id=abc", lines[1])
}

func TestTextHandlerLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTextHandler(&buf, WithColor(false)))
	logger.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestLevels(t *testing.T) {
	assert.Equal(t, LevelInfo, HTTPStatusToLevel(200))
	assert.Equal(t, LevelWarn, HTTPStatusToLevel(404))
	assert.Equal(t, LevelError, HTTPStatusToLevel(503))
	assert.Equal(t, LevelInfo, ConnectCodeToLevel(connect.CodeNotFound))
	assert.Equal(t, LevelError, ConnectCodeToLevel(connect.CodeInternal))
}
