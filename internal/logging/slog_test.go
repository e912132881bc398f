package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")
	ctx := context.Background()

	log.Info(ctx, "hidden")
	log.Warn(ctx, "shown", "email", "a@x.com")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"email":"a@x.com"`)
}

func TestSlogLogger_With_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug").With("request_id", "123")
	log.Debug(context.Background(), "hello", "k", "v")

	out := buf.String()
	for _, s := range []string{`"level":"DEBUG"`, `"request_id":"123"`, `"k":"v"`} {
		assert.True(t, strings.Contains(out, s), "expected %q in %s", s, out)
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error(context.TODO(), "dropped")
}

func TestSlogLogger_AddsRequestIDFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")

	ctx := ContextWithRequestID(context.Background(), "req-42")
	log.Info(ctx, "with id")
	assert.Contains(t, buf.String(), `"request_id":"req-42"`)

	buf.Reset()
	log.Info(context.Background(), "without id")
	assert.NotContains(t, buf.String(), "request_id")
}

func TestRequestIDFromContext_Empty(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
}
