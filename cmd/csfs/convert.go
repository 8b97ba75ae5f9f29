package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ajitpratap0/csfs/pkg/config"
	"github.com/ajitpratap0/csfs/pkg/conversion"
	"github.com/ajitpratap0/csfs/pkg/logger"
	"github.com/ajitpratap0/csfs/pkg/metrics"
	"github.com/ajitpratap0/csfs/pkg/observability"
)

func newConvertCmd(v *viper.Viper) *cobra.Command {
	var (
		metricsAddr  string
		profileDir   string
		profileTypes string
		asJSON       bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a CSF list to a columnar file",
		Long: `Convert a GRASP CSF list to Parquet, Arrow or Avro. The output format follows
the output extension unless --format is given. The list header and the
conversion counters are written to <output stem>_header.toml.

Settings come from flags, CSFS_* environment variables (CSFS_PERFORMANCE_WORKERS,
CSFS_DESCRIPTORS_MODE, ...) and the optional --config file, in that order.

Example:
  csfs convert rcsf.inp out/rcsf.parquet --parallel --workers 8 --normalize --max-j 12`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, v)
			if err != nil {
				return err
			}
			if err := initLogger(cfg); err != nil {
				return err
			}
			defer logger.Sync()

			prof, err := startProfiling(profileDir, profileTypes, logger.Get())
			if err != nil {
				return err
			}
			defer prof.Stop()

			stats, err := runConvert(cmd.Context(), cfg, args[0], args[1], metricsAddr)
			if err != nil {
				return err
			}
			return printStats(cmd, stats, asJSON)
		},
	}

	f := cmd.Flags()
	f.Int("max-line-len", 256, "Cut body lines longer than this many bytes")
	f.Int("chunk-size", 30000, "CSF records per output batch and per worker chunk")
	f.Int("workers", 0, "Parallel workers (0 = number of CPUs)")
	f.Bool("parallel", false, "Parse chunks with a worker pool")
	f.String("format", "", "Output format (parquet, arrow, avro); inferred from the output extension by default")
	f.String("compression", "snappy", "Output codec (snappy, zstd, gzip, lz4, none; avro: deflate, snappy, null)")
	f.String("metadata-format", "toml", "Sidecar format (toml, json, yaml)")
	f.String("descriptors", "auto", "Descriptor mode (off, auto, on)")
	f.StringSlice("peel", nil, "Peel subshells, overriding the header (e.g. 5s,4d-,4d)")
	f.Bool("normalize", false, "Add the normalized descriptor column")
	f.Int("max-j", 0, "Largest doubled cumulative J; 0 normalizes electron counts only")
	f.Bool("lenient", false, "Skip malformed records instead of failing")
	f.Bool("trace", false, "Print OpenTelemetry spans to stderr")
	f.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while converting")
	f.StringVar(&profileDir, "profile-dir", "", "Write pprof profiles to this directory")
	f.StringVar(&profileTypes, "profile-types", "cpu,memory", "Profile types (cpu,memory,block,mutex,goroutine,all)")
	f.BoolVar(&asJSON, "json", false, "Print the conversion stats as JSON")
	return cmd
}

func runConvert(parent context.Context, cfg *config.ConversionConfig, input, output, metricsAddr string) (conversion.Stats, error) {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobID := fmt.Sprintf("csfs-%d", time.Now().UnixNano())
	ctx = logger.ContextWithJob(ctx, jobID, input)
	log := logger.WithContext(ctx).With(zap.String("component", "csfs-cli"))

	if cfg.Observability.Tracing {
		tc := observability.DefaultTracingConfig()
		tc.ServiceVersion = version
		tc.SamplingRate = cfg.Observability.SamplingRate
		shutdown, err := observability.InitTracing(tc)
		if err != nil {
			return conversion.Stats{}, err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(flushCtx); err != nil {
				log.Warn("failed to flush traces", zap.Error(err))
			}
		}()
	}

	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: metrics.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn("metrics server stopped", zap.Error(err))
			}
		}()
		defer srv.Close()
		log.Info("serving metrics", zap.String("addr", metricsAddr))
	}

	opts, err := conversion.OptionsFromConfig(cfg)
	if err != nil {
		return conversion.Stats{}, err
	}
	opts.Logger = log

	if cfg.Performance.Parallel {
		return conversion.ConvertParallel(ctx, input, output, opts)
	}
	return conversion.Convert(ctx, input, output, opts)
}

func printStats(cmd *cobra.Command, stats conversion.Stats, asJSON bool) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]int64{
			"csf_count":       stats.CSFCount,
			"total_lines":     stats.TotalLines,
			"truncated_count": stats.TruncatedCount,
			"skipped_count":   stats.SkippedCount,
		})
	}
	fmt.Fprintf(out, "CSFs:       %d\n", stats.CSFCount)
	fmt.Fprintf(out, "Lines:      %d\n", stats.TotalLines)
	fmt.Fprintf(out, "Truncated:  %d\n", stats.TruncatedCount)
	if stats.SkippedCount > 0 {
		fmt.Fprintf(out, "Skipped:    %d\n", stats.SkippedCount)
	}
	return nil
}
