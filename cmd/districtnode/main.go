// Package main defines the entrypoint for the districtnode service.
package main

import (
	"fmt"
	"os"
	"runtime"
	runtimeDebug "runtime/debug"

	"github.com/districtproof/districtnode/districtnode/flags"
	"github.com/districtproof/districtnode/districtnode/node"
	"github.com/districtproof/districtnode/shared/cmd"
	"github.com/districtproof/districtnode/shared/logutil"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"github.com/urfave/cli/v2/altsrc"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	_ "go.uber.org/automaxprocs"
)

var appFlags = []cli.Flag{
	flags.CatalogURLFlag,
	flags.IPFSGatewayFlag,
	flags.SnapshotPollIntervalFlag,
	flags.RetainedSnapshotsFlag,
	flags.NodeCapacityFlag,
	flags.MaxCountriesInMemoryFlag,
	flags.PipCacheSizeFlag,
	flags.PipCacheTTLFlag,
	flags.MergeIntervalFlag,
	flags.ProvenanceQuiescenceFlag,
	flags.HTTPHostFlag,
	flags.HTTPPortFlag,
	cmd.DataDirFlag,
	cmd.VerbosityFlag,
	cmd.LogFormat,
	cmd.LogFileName,
	cmd.DisableMonitoringFlag,
	cmd.MonitoringPortFlag,
	cmd.ConfigFileFlag,
}

func init() {
	appFlags = cmd.WrapFlags(appFlags)
}

func main() {
	log := logrus.WithField("prefix", "main")
	app := cli.App{}
	app.Name = "districtnode"
	app.Usage = "a content-addressed electoral district lookup service"
	app.Action = startNode
	app.Flags = appFlags

	app.Before = func(ctx *cli.Context) error {
		if ctx.IsSet(cmd.ConfigFileFlag.Name) {
			if err := altsrc.InitInputSourceWithContext(appFlags, altsrc.NewYamlSourceFromFlagFunc(cmd.ConfigFileFlag.Name))(ctx); err != nil {
				return err
			}
		}

		format := ctx.String(cmd.LogFormat.Name)
		switch format {
		case "text":
			formatter := new(prefixed.TextFormatter)
			formatter.TimestampFormat = "2006-01-02 15:04:05"
			formatter.FullTimestamp = true
			// Colors are ANSI codes and read as gibberish once mirrored to a file.
			formatter.DisableColors = ctx.String(cmd.LogFileName.Name) != ""
			logrus.SetFormatter(formatter)
		case "json":
			logrus.SetFormatter(&logrus.JSONFormatter{})
		default:
			return fmt.Errorf("unknown log format %s", format)
		}

		logFileName := ctx.String(cmd.LogFileName.Name)
		if logFileName != "" {
			if err := logutil.ConfigurePersistentLogging(logFileName); err != nil {
				log.WithError(err).Error("Failed to configure logging to disk")
			}
		}

		runtime.GOMAXPROCS(runtime.NumCPU())
		return nil
	}

	defer func() {
		if x := recover(); x != nil {
			log.Errorf("Runtime panic: %v\n%v", x, string(runtimeDebug.Stack()))
			panic(x)
		}
	}()

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func startNode(ctx *cli.Context) error {
	verbosity := ctx.String(cmd.VerbosityFlag.Name)
	level, err := logrus.ParseLevel(verbosity)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)

	cfg := node.Config{
		DataDir:              ctx.String(cmd.DataDirFlag.Name),
		CatalogURL:           ctx.String(flags.CatalogURLFlag.Name),
		IPFSGateway:          ctx.String(flags.IPFSGatewayFlag.Name),
		SnapshotPollInterval: ctx.Duration(flags.SnapshotPollIntervalFlag.Name),
		RetainedSnapshots:    ctx.Int(flags.RetainedSnapshotsFlag.Name),
		NodeCapacity:         ctx.Int(flags.NodeCapacityFlag.Name),
		MaxCountriesInMemory: ctx.Int(flags.MaxCountriesInMemoryFlag.Name),
		PipCacheSize:         ctx.Int64(flags.PipCacheSizeFlag.Name),
		PipCacheTTL:          ctx.Int64(flags.PipCacheTTLFlag.Name),
		MergeInterval:        ctx.Duration(flags.MergeIntervalFlag.Name),
		ProvenanceQuiescence: ctx.Duration(flags.ProvenanceQuiescenceFlag.Name),
		HTTPHost:             ctx.String(flags.HTTPHostFlag.Name),
		HTTPPort:             ctx.Int(flags.HTTPPortFlag.Name),
		DisableMonitoring:    ctx.Bool(cmd.DisableMonitoringFlag.Name),
		MonitoringPort:       ctx.Int(cmd.MonitoringPortFlag.Name),
	}

	n, err := node.New(cfg)
	if err != nil {
		return err
	}
	n.Start()
	return nil
}
