package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/polkiloo/shopmart/internal/domain/model"
)

// CatalogFacade exposes the subset of application functionality required by the worker.
type CatalogFacade interface {
	LowStockProducts(ctx context.Context, threshold int) ([]model.Product, error)
}

// StockMonitor periodically scans the catalog for products running low on
// stock and reports them, fanning the work out over a small pool.
type StockMonitor struct {
	facade       CatalogFacade
	pollInterval time.Duration
	threshold    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Product
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewStockMonitor constructs the stock monitor worker pool.
func NewStockMonitor(facade CatalogFacade, pollInterval time.Duration, threshold, workers int, logger *slog.Logger) *StockMonitor {
	if workers <= 0 {
		workers = 1
	}
	if threshold < 0 {
		threshold = 0
	}
	return &StockMonitor{
		facade:       facade,
		pollInterval: pollInterval,
		threshold:    threshold,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Product, workers*4),
	}
}

// Start launches background monitoring. The monitor owns its run context and
// keeps polling until Stop is called; callers must not tie its lifetime to a
// startup deadline.
func (m *StockMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	runCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	for i := 0; i < m.workers; i++ {
		m.wg.Add(1)
		go m.worker(runCtx)
	}

	m.wg.Add(1)
	go m.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (m *StockMonitor) Stop() {
	m.mu.Lock()
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.mu.Unlock()

	m.wg.Wait()
}

func (m *StockMonitor) dispatch(ctx context.Context) {
	defer m.wg.Done()
	defer close(m.jobs)
	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.fetchAndDispatch(ctx)
		}
	}
}

func (m *StockMonitor) fetchAndDispatch(ctx context.Context) {
	products, err := m.facade.LowStockProducts(ctx, m.threshold)
	if err != nil {
		m.logger.Error("low stock scan failed", slog.String("error", err.Error()))
		return
	}
	for _, product := range products {
		select {
		case <-ctx.Done():
			return
		case m.jobs <- product:
		}
	}
}

func (m *StockMonitor) worker(ctx context.Context) {
	defer m.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case product, ok := <-m.jobs:
			if !ok {
				return
			}
			m.report(product)
		}
	}
}

func (m *StockMonitor) report(product model.Product) {
	message := "product stock low"
	if product.StockQuantity == 0 {
		message = "product out of stock"
	}
	m.logger.Warn(message,
		slog.Int64("product_id", product.ID),
		slog.String("name", product.Name),
		slog.Int("stock", product.StockQuantity),
		slog.Int("threshold", m.threshold),
	)
}
