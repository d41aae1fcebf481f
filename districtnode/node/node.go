// Package node wires components A-F into a single running service: a
// boundary store, spatial index, PIP resolver, snapshot synchronizer,
// provenance merge worker, HTTP boundary, and monitoring endpoint,
// started and stopped together.
package node

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/districtproof/districtnode/districtnode/api"
	"github.com/districtproof/districtnode/districtnode/boundary"
	"github.com/districtproof/districtnode/districtnode/pip"
	"github.com/districtproof/districtnode/districtnode/provenance"
	"github.com/districtproof/districtnode/districtnode/snapshot"
	"github.com/districtproof/districtnode/districtnode/spatialindex"
	sharedprometheus "github.com/districtproof/districtnode/shared/prometheus"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "node")

// Config collects every flag-derived setting the node needs. Zero
// values are not filled in here — districtnode/flags' defaults cover
// that; Config is the landing point for already-resolved CLI values.
type Config struct {
	DataDir string

	CatalogURL  string
	IPFSGateway string

	SnapshotPollInterval time.Duration
	RetainedSnapshots    int
	NodeCapacity         int
	MaxCountriesInMemory int
	PipCacheSize         int64
	PipCacheTTL          int64

	MergeInterval        time.Duration
	ProvenanceQuiescence time.Duration

	HTTPHost string
	HTTPPort int

	DisableMonitoring bool
	MonitoringPort    int
}

// Node owns the lifecycle of every component. It carries no district-
// matching logic of its own.
type Node struct {
	cfg Config

	lock sync.RWMutex
	stop chan struct{}

	index     *spatialindex.Index
	resolver  *pip.Resolver
	synchron  *snapshot.Synchronizer
	merger    *provenance.Merger
	apiServer *http.Server
	monitor   *sharedprometheus.Service

	mergeStopCh chan struct{}
	mergeDoneCh chan struct{}
}

// New builds a Node and every component it wires, but starts nothing —
// call Start for that. A bootstrap (empty) boundary store backs the
// index and resolver until the first snapshot validates and activates;
// until then, currentSnapshot and districtById answer
// SnapshotUnavailable, and a point lookup finds no candidates and
// answers DistrictNotFound.
func New(cfg Config) (*Node, error) {
	bootstrapDir := filepath.Join(cfg.DataDir, "bootstrap")
	bootstrapStore, err := boundary.Open(bootstrapDir)
	if err != nil {
		return nil, errors.Wrap(err, "node: opening bootstrap boundary store")
	}

	if cfg.NodeCapacity > 0 {
		spatialindex.K = cfg.NodeCapacity
	}
	index, err := spatialindex.New(bootstrapStore, cfg.MaxCountriesInMemory)
	if err != nil {
		return nil, errors.Wrap(err, "node: constructing spatial index")
	}
	resolver, err := pip.New(bootstrapStore, cfg.PipCacheSize, cfg.PipCacheTTL)
	if err != nil {
		return nil, errors.Wrap(err, "node: constructing pip resolver")
	}

	n := &Node{
		cfg:      cfg,
		stop:     make(chan struct{}),
		index:    index,
		resolver: resolver,
	}

	catalog := snapshot.NewHTTPCatalog(cfg.CatalogURL)
	downloader := snapshot.NewHTTPDownloader(cfg.IPFSGateway)
	n.synchron = snapshot.New(catalog, downloader, snapshot.Config{
		GenerationsDir: filepath.Join(cfg.DataDir, "generations"),
		PollInterval:   cfg.SnapshotPollInterval,
		MaxRetained:    cfg.RetainedSnapshots,
		OnActivate:     n.onActivate,
	})

	n.merger = &provenance.Merger{
		StagingDir: filepath.Join(cfg.DataDir, "provenance-staging"),
		ShardRoot:  filepath.Join(cfg.DataDir, "provenance-root"),
		Quiescence: cfg.ProvenanceQuiescence,
	}

	apiSrv := api.NewServer(n.index, n.resolver, n.synchron)
	n.apiServer = &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTPHost, cfg.HTTPPort),
		Handler: api.NewRouter(apiSrv),
	}

	if !cfg.DisableMonitoring {
		n.monitor = sharedprometheus.NewPrometheusService(
			fmt.Sprintf(":%d", cfg.MonitoringPort), n)
	}

	return n, nil
}

// onActivate is the snapshot synchronizer's post-swap hook: it
// repoints the spatial index and PIP resolver at the freshly activated
// store and discards whatever they had cached against the superseded
// one.
func (n *Node) onActivate(store *boundary.Store) error {
	n.index.SetStore(store)
	if err := n.index.Refresh(context.Background()); err != nil {
		return errors.Wrap(err, "node: refreshing spatial index after snapshot swap")
	}
	n.resolver.SetStore(store)
	n.resolver.InvalidateAll()
	return nil
}

// Healthy implements shared/prometheus.HealthChecker: the node is
// unhealthy exactly when it has never activated a snapshot.
func (n *Node) Healthy() error {
	if _, ok := n.synchron.ActiveMeta(); !ok {
		return errors.New("node: no active snapshot")
	}
	return nil
}

// Start launches every component and blocks until Close is called or
// the process receives an interrupt.
func (n *Node) Start() {
	n.lock.Lock()
	log.Info("Starting districtnode")

	n.synchron.Start()

	n.mergeStopCh = make(chan struct{})
	n.mergeDoneCh = make(chan struct{})
	go n.runMergeLoop()

	if n.monitor != nil {
		n.monitor.Start()
	}

	go func() {
		log.WithField("addr", n.apiServer.Addr).Info("Serving HTTP boundary")
		if err := n.apiServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP boundary exited unexpectedly")
		}
	}()

	stop := n.stop
	n.lock.Unlock()

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		<-sigc
		log.Info("Got interrupt, shutting down...")
		go n.Close()
		for i := 10; i > 0; i-- {
			<-sigc
			if i > 1 {
				log.WithField("times", i-1).Info("Already shutting down, interrupt more to panic")
			}
		}
		panic("panic closing districtnode")
	}()

	<-stop
}

func (n *Node) runMergeLoop() {
	defer close(n.mergeDoneCh)
	ticker := time.NewTicker(n.cfg.MergeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-n.mergeStopCh:
			return
		case <-ticker.C:
			if err := n.merger.Run(); err != nil {
				log.WithError(err).Warn("provenance merge cycle failed")
			}
		}
	}
}

// Close shuts every component down in the reverse order Start brought
// them up.
func (n *Node) Close() {
	n.lock.Lock()
	defer n.lock.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := n.apiServer.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Failed to shut down HTTP boundary")
	}

	if n.monitor != nil {
		if err := n.monitor.Stop(); err != nil {
			log.WithError(err).Error("Failed to stop monitoring service")
		}
	}

	close(n.mergeStopCh)
	<-n.mergeDoneCh

	n.synchron.Stop()

	log.Info("Stopping districtnode")
	close(n.stop)
}
