package services

import (
	"context"
	"fmt"
	"sync"

	"admindash/internal/core"
	"admindash/internal/log"
	"admindash/internal/records"
	"admindash/internal/store"

	"github.com/shopspring/decimal"
)

// ProjectMonitor keeps the financials of one selected project current. Its
// expenses are read once on selection; its revenue earnings are watched. At
// most one subscription is open at a time.
type ProjectMonitor struct {
	records  *records.Fetcher
	sub      store.Subscriber
	onUpdate func(core.ProjectFinancials)
	logger   *log.Logger

	mu       sync.Mutex
	active   store.Subscription
	selected string
}

func NewProjectMonitor(r *records.Fetcher, sub store.Subscriber, logger *log.Logger, onUpdate func(core.ProjectFinancials)) *ProjectMonitor {
	return &ProjectMonitor{
		records:  r,
		sub:      sub,
		onUpdate: onUpdate,
		logger:   logger.WithComponent(log.ComponentMonitor),
	}
}

// Select releases the subscription of the previously selected project, if
// any, and starts watching p. onUpdate is called with the initial financials
// and again whenever the project's revenue earnings change. The
// subscription also ends when ctx is done.
func (m *ProjectMonitor) Select(ctx context.Context, p core.Project) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.releaseLocked()

	key := p.Key()
	txs, err := m.records.Transactions(ctx, core.Expense, store.Eq("projectId", key))
	if err != nil {
		return err
	}
	expenses := core.ProjectExpenses(txs, key)

	sub, err := m.sub.Subscribe(ctx, store.Earnings, RevenueFilters(key), func(docs []store.Document) {
		earnings := make([]core.Transaction, len(docs))
		for i, d := range docs {
			earnings[i] = records.DecodeTransaction(core.Earning, d)
		}
		m.publish(p, expenses, core.ProjectRevenue(earnings, key))
	})
	if err != nil {
		return &core.RetrievalError{Collection: store.Earnings, Err: fmt.Errorf("subscribe: %w", err)}
	}
	m.active = sub
	m.selected = p.ID
	m.logger.DebugContext(ctx, "Project selected",
		log.FieldDocumentID, p.ID,
		log.FieldProjectKey, key,
		log.FieldOperation, log.OpSubscribe)
	return nil
}

func (m *ProjectMonitor) publish(p core.Project, expenses, revenue decimal.Decimal) {
	if m.onUpdate != nil {
		m.onUpdate(core.NewProjectFinancials(p, expenses, revenue))
	}
}

// Active returns the document id of the watched project, or "".
func (m *ProjectMonitor) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.selected
}

// Close releases the current subscription.
func (m *ProjectMonitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseLocked()
}

func (m *ProjectMonitor) releaseLocked() {
	if m.active != nil {
		m.active.Unsubscribe()
		m.active = nil
	}
	m.selected = ""
}
