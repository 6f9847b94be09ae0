// Package provider is the data provider the canvas loads apps and graphs
// from. The Mock implementation serves a fixture catalog with simulated
// network latency.
package provider

import (
	"context"
	_ "embed"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/terrascope/canvas/internal/metrics"
	"github.com/terrascope/canvas/internal/models"
	"github.com/terrascope/canvas/internal/parser"
)

const (
	DefaultAppsDelay  = 300 * time.Millisecond
	DefaultGraphDelay = 400 * time.Millisecond
)

var ErrUnavailable = errors.New("provider: simulated failure")

//go:embed fixtures/catalog.yaml
var embeddedCatalog []byte

type Provider interface {
	ListApps(ctx context.Context) ([]models.App, error)
	// GetGraph never reports "not found": unknown ids resolve to a default
	// graph.
	GetGraph(ctx context.Context, appID string) (*models.Graph, error)
}

type Options struct {
	AppsDelay   time.Duration
	GraphDelay  time.Duration
	FailureRate float64
	CatalogPath string
}

// Mock serves the fixture catalog. It is safe for concurrent use.
type Mock struct {
	catalog    *models.Catalog
	appsDelay  time.Duration
	graphDelay time.Duration

	mu          sync.Mutex
	failureRate float64
	rng         *rand.Rand
	fail        func(op, appID string) error
}

func NewMock(opts Options) (*Mock, error) {
	data := embeddedCatalog
	if opts.CatalogPath != "" {
		b, err := os.ReadFile(opts.CatalogPath)
		if err != nil {
			return nil, errors.Wrapf(err, "reading catalog %s", opts.CatalogPath)
		}
		data = b
	}

	catalog, err := parser.ParseCatalog(data)
	if err != nil {
		return nil, errors.Wrap(err, "loading catalog")
	}

	return &Mock{
		catalog:     catalog,
		appsDelay:   opts.AppsDelay,
		graphDelay:  opts.GraphDelay,
		failureRate: opts.FailureRate,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// SetFailure installs fn as a failure hook consulted before every call; a
// non-nil result is returned as the call's error. Passing nil removes it.
func (m *Mock) SetFailure(fn func(op, appID string) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = fn
}

func (m *Mock) ListApps(ctx context.Context) ([]models.App, error) {
	defer observe("list_apps", time.Now())

	if err := m.wait(ctx, m.appsDelay); err != nil {
		return nil, err
	}
	if err := m.failure("list_apps", ""); err != nil {
		return nil, err
	}

	apps := make([]models.App, len(m.catalog.Apps))
	copy(apps, m.catalog.Apps)
	return apps, nil
}

func (m *Mock) GetGraph(ctx context.Context, appID string) (*models.Graph, error) {
	defer observe("get_graph", time.Now())

	if err := m.wait(ctx, m.graphDelay); err != nil {
		return nil, err
	}
	if err := m.failure("get_graph", appID); err != nil {
		return nil, err
	}

	return parser.BuildGraph(m.catalog, appID), nil
}

func (m *Mock) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "provider: request abandoned")
	case <-timer.C:
		return nil
	}
}

func (m *Mock) failure(op, appID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.fail != nil {
		if err := m.fail(op, appID); err != nil {
			return err
		}
	}
	if m.failureRate > 0 && m.rng.Float64() < m.failureRate {
		return errors.Wrapf(ErrUnavailable, "%s %s", op, appID)
	}
	return nil
}

func observe(op string, start time.Time) {
	metrics.FetchDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
