// Package cmd defines the command line flags shared by the districtnode
// entrypoint and its ambient subsystems (logging, monitoring, config
// file loading) — the flags that are not specific to any single
// component (A-F) of the service.
package cmd

import (
	"github.com/urfave/cli/v2"
)

var (
	// VerbosityFlag defines the logrus configuration.
	VerbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity (debug, info=default, warn, error, fatal, panic)",
		Value: "info",
	}
	// DataDirFlag defines the root directory for the boundary store and
	// provenance ledger's on-disk state.
	DataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the boundary store and provenance ledger",
		Value: DefaultDataDir(),
	}
	// LogFormat defines the log output format.
	LogFormat = &cli.StringFlag{
		Name:  "log-format",
		Usage: "Log format to use (text, json)",
		Value: "text",
	}
	// LogFileName specifies a file to mirror stdout logging into.
	LogFileName = &cli.StringFlag{
		Name:  "log-file",
		Usage: "Path to a log file. If given, logs are written to this file in addition to stdout",
	}
	// ConfigFileFlag specifies a YAML file the remaining flags can be loaded from.
	ConfigFileFlag = &cli.StringFlag{
		Name:  "config-file",
		Usage: "Path to a YAML config file from which to load flag values",
	}
	// DisableMonitoringFlag disables the Prometheus metrics endpoint.
	DisableMonitoringFlag = &cli.BoolFlag{
		Name:  "disable-monitoring",
		Usage: "Disable the /metrics and /healthz monitoring endpoint",
	}
	// MonitoringPortFlag is the port the monitoring endpoint listens on.
	MonitoringPortFlag = &cli.IntFlag{
		Name:  "monitoring-port",
		Usage: "Port to serve /metrics and /healthz on",
		Value: 8080,
	}
)
