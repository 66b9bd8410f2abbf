package worker

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/polkiloo/shopmart/internal/domain/model"
	testhelpers "github.com/polkiloo/shopmart/internal/test"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitForLog(t *testing.T, buf *syncBuffer, substr string) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		if strings.Contains(buf.String(), substr) {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for log entry %q", substr)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestNewStockMonitorDefaults(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	mon := NewStockMonitor(&testhelpers.StockMonitorFacadeStub{}, time.Second, -1, 0, logger)
	if mon.workers != 1 {
		t.Fatalf("expected workers default to 1, got %d", mon.workers)
	}
	if mon.threshold != 0 {
		t.Fatalf("expected threshold clamp to 0, got %d", mon.threshold)
	}
}

func TestStockMonitorReportsLowStock(t *testing.T) {
	buf := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	facade := &testhelpers.StockMonitorFacadeStub{Batches: [][]model.Product{{
		{ID: 1, Name: "scarce", StockQuantity: 2},
	}}}
	mon := NewStockMonitor(facade, 10*time.Millisecond, 5, 1, logger)

	mon.Start()
	waitForLog(t, buf, "product stock low")
	mon.Stop()

	out := buf.String()
	if !strings.Contains(out, "scarce") {
		t.Fatalf("expected product name in log, got %s", out)
	}

	facade.Lock()
	defer facade.Unlock()
	if len(facade.Thresholds) == 0 || facade.Thresholds[0] != 5 {
		t.Fatalf("expected configured threshold passed to facade, got %v", facade.Thresholds)
	}
}

func TestStockMonitorReportsOutOfStock(t *testing.T) {
	buf := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	facade := &testhelpers.StockMonitorFacadeStub{Batches: [][]model.Product{{
		{ID: 2, Name: "gone", StockQuantity: 0},
	}}}
	mon := NewStockMonitor(facade, 10*time.Millisecond, 5, 2, logger)

	mon.Start()
	waitForLog(t, buf, "product out of stock")
	mon.Stop()
}

func TestStockMonitorLogsScanFailure(t *testing.T) {
	buf := &syncBuffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	facade := &testhelpers.StockMonitorFacadeStub{LowStockFn: func(context.Context, int) ([]model.Product, error) {
		return nil, errors.New("db down")
	}}
	mon := NewStockMonitor(facade, 10*time.Millisecond, 5, 1, logger)

	mon.Start()
	waitForLog(t, buf, "low stock scan failed")
	mon.Stop()
}
