package vault

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMultiVault(t *testing.T) {
	ctx := context.Background()
	first := NewMemoryVault("first")
	second := NewMemoryVault("second")
	m := NewMultiVault(first, second)

	if err := m.PutContent(ctx, "abc", strings.NewReader("xyz"), 3); err != nil {
		t.Fatalf("PutContent() error = %v", err)
	}
	if first.Len() != 1 || second.Len() != 1 {
		t.Fatalf("blob counts = %d, %d, want 1, 1", first.Len(), second.Len())
	}

	// Reads fall through to the next vault.
	if err := second.PutContent(ctx, "only-second", strings.NewReader("2"), 1); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := m.GetContent(ctx, "only-second", &buf); err != nil {
		t.Fatalf("GetContent() error = %v", err)
	}
	if buf.String() != "2" {
		t.Errorf("GetContent() = %q, want 2", buf.String())
	}

	err := m.GetContent(ctx, "nowhere", &buf)
	if !errors.Is(err, ErrContentNotFound) {
		t.Errorf("GetContent(missing) error = %v, want ErrContentNotFound", err)
	}
}

func TestMetricsVault(t *testing.T) {
	ctx := context.Background()
	v := NewMetricsVault("metrics-test", NewMemoryVault("inner"))

	if err := v.PutContent(ctx, "abc", strings.NewReader("x"), 1); err != nil {
		t.Fatalf("PutContent() error = %v", err)
	}
	var buf bytes.Buffer
	_ = v.GetContent(ctx, "missing", &buf)

	if got := promtest.ToFloat64(operationCounter.WithLabelValues("metrics-test", "put", "ok")); got != 1 {
		t.Errorf("put ok counter = %v, want 1", got)
	}
	if got := promtest.ToFloat64(operationCounter.WithLabelValues("metrics-test", "get", "not_found")); got != 1 {
		t.Errorf("get not_found counter = %v, want 1", got)
	}
}
