package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromContext_FallsBackToDefault(t *testing.T) {
	require.Same(t, slog.Default(), FromContext(context.Background()))
}

func TestWith_AddsAttributes(t *testing.T) {
	buf := &bytes.Buffer{}
	base := slog.New(slog.NewTextHandler(buf, nil))
	ctx := WithLogger(context.Background(), base)

	ctx, logger := With(ctx, "stage", "execute")
	require.Same(t, logger, FromContext(ctx))

	FromContext(ctx).Info("hello")
	require.Contains(t, buf.String(), "stage=execute")
	require.Contains(t, buf.String(), "msg=hello")
}
