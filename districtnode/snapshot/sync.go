// Package snapshot is the background synchronizer: it discovers new
// content-addressed snapshot bundles, downloads and validates them,
// and atomically swaps the serving core onto the newest valid one
// while older snapshots drain and retire.
package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "snapshot")

// Config controls the synchronizer's polling cadence and retention
// policy.
type Config struct {
	GenerationsDir string
	PollInterval   time.Duration
	MaxRetained    int
	// OnActivate is invoked after every successful swap with the newly
	// active store, so dependent components (spatial index, PIP
	// resolver) can rebuild their in-memory structures against it.
	OnActivate func(store *boundary.Store) error
}

// Synchronizer runs the discover -> download -> validate -> activate
// loop against a Catalog and Downloader, and exposes the currently
// active store to readers.
type Synchronizer struct {
	mu       sync.RWMutex
	active   *generation
	retained []*generation

	maxRetained    int
	generationsDir string
	onActivate     func(store *boundary.Store) error

	catalog  Catalog
	dl       Downloader
	interval time.Duration

	seen map[string]bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// New constructs a Synchronizer. It does not start polling; call
// Start for that.
func New(catalog Catalog, dl Downloader, cfg Config) *Synchronizer {
	maxRetained := cfg.MaxRetained
	if maxRetained <= 0 {
		maxRetained = 3
	}
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Synchronizer{
		maxRetained:    maxRetained,
		generationsDir: cfg.GenerationsDir,
		onActivate:     cfg.OnActivate,
		catalog:        catalog,
		dl:             dl,
		interval:       interval,
		seen:           make(map[string]bool),
		stopCh:         make(chan struct{}),
		doneCh:         make(chan struct{}),
	}
}

// Start launches the poll loop in its own goroutine. Stop blocks until
// the loop has exited.
func (s *Synchronizer) Start() {
	go s.run()
}

// Stop signals the poll loop to exit and waits for it to do so. Any
// download in flight is given its context a chance to unwind; Stop
// does not forcibly kill a download.
func (s *Synchronizer) Stop() {
	close(s.stopCh)
	<-s.doneCh
}

func (s *Synchronizer) run() {
	defer close(s.doneCh)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-s.stopCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	for {
		if err := s.PollOnce(ctx); err != nil {
			log.WithError(err).Warn("catalog poll failed")
		}
		select {
		case <-s.stopCh:
			cancel()
			return
		case <-ticker.C:
		}
	}
}

// PollOnce runs a single discover/download/validate/activate cycle
// against the catalog. Start's loop calls this on a timer; callers
// that want a manual, synchronous refresh (or deterministic control in
// tests) can call it directly instead of waiting on the ticker.
func (s *Synchronizer) PollOnce(ctx context.Context) error {
	start := time.Now()
	defer func() { pollLatency.Observe(time.Since(start).Seconds()) }()

	metas, err := s.catalog.Poll(ctx)
	if err != nil {
		return err
	}

	for _, m := range metas {
		s.mu.RLock()
		already := s.seen[m.SnapshotID]
		s.mu.RUnlock()
		if already {
			continue
		}
		s.mu.Lock()
		s.seen[m.SnapshotID] = true
		s.mu.Unlock()
		discoveredTotal.Inc()

		handle, store, dir, err := acquire(ctx, s.dl, s.generationsDir, m)
		if err != nil {
			log.WithError(err).WithField("snapshot", m.SnapshotID).Warn("snapshot acquisition failed")
			continue
		}
		if handle.State == Rejected {
			log.WithField("snapshot", m.SnapshotID).Warn("snapshot rejected during validation")
			continue
		}

		if err := s.Activate(handle, store, dir); err != nil {
			log.WithError(err).WithField("snapshot", m.SnapshotID).Error("activation failed")
			if handle.State != Active {
				_ = store.Close()
			}
			continue
		}
		log.WithField("snapshot", m.SnapshotID).Info("activated snapshot")
	}
	return nil
}
