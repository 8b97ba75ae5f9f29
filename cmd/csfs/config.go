package main

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ajitpratap0/csfs/pkg/config"
	"github.com/ajitpratap0/csfs/pkg/logger"
)

// CSFS_PERFORMANCE_WORKERS sets performance.workers, and so on.
var envKeyReplacer = strings.NewReplacer(".", "_")

// flagBindings maps configuration keys to command flags.
var flagBindings = map[string]string{
	"performance.max_line_len":             "max-line-len",
	"performance.chunk_size":               "chunk-size",
	"performance.workers":                  "workers",
	"performance.parallel":                 "parallel",
	"output.format":                        "format",
	"output.compression":                   "compression",
	"output.metadata_format":               "metadata-format",
	"descriptors.mode":                     "descriptors",
	"descriptors.peel_subshells":           "peel",
	"descriptors.normalize":                "normalize",
	"descriptors.max_cumulative_doubled_j": "max-j",
	"descriptors.lenient":                  "lenient",
	"observability.log_level":              "log-level",
	"observability.log_format":             "log-format",
	"observability.tracing":                "trace",
}

// loadConfig resolves the configuration with flag > env > file > default
// precedence.
func loadConfig(cmd *cobra.Command, v *viper.Viper) (*config.ConversionConfig, error) {
	cfg := config.NewConversionConfig()
	if path := v.GetString("config"); path != "" {
		loaded, err := config.LoadConversion(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		// follow the output extension
		cfg.Output.Format = ""
	}
	setDefaults(v, cfg)

	for key, name := range flagBindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, err
			}
		}
	}

	cfg.Performance.MaxLineLen = v.GetInt("performance.max_line_len")
	cfg.Performance.ChunkSize = v.GetInt("performance.chunk_size")
	cfg.Performance.Workers = v.GetInt("performance.workers")
	cfg.Performance.Parallel = v.GetBool("performance.parallel")
	cfg.Output.Format = v.GetString("output.format")
	cfg.Output.Compression = v.GetString("output.compression")
	cfg.Output.MetadataFormat = v.GetString("output.metadata_format")
	cfg.Descriptors.Mode = v.GetString("descriptors.mode")
	cfg.Descriptors.PeelSubshells = v.GetStringSlice("descriptors.peel_subshells")
	cfg.Descriptors.Normalize = v.GetBool("descriptors.normalize")
	cfg.Descriptors.MaxCumulativeDoubledJ = v.GetInt("descriptors.max_cumulative_doubled_j")
	cfg.Descriptors.Lenient = v.GetBool("descriptors.lenient")
	cfg.Observability.LogLevel = v.GetString("observability.log_level")
	cfg.Observability.LogFormat = v.GetString("observability.log_format")
	cfg.Observability.Tracing = v.GetBool("observability.tracing")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *config.ConversionConfig) {
	v.SetDefault("performance.max_line_len", cfg.Performance.MaxLineLen)
	v.SetDefault("performance.chunk_size", cfg.Performance.ChunkSize)
	v.SetDefault("performance.workers", cfg.Performance.Workers)
	v.SetDefault("performance.parallel", cfg.Performance.Parallel)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.compression", cfg.Output.Compression)
	v.SetDefault("output.metadata_format", cfg.Output.MetadataFormat)
	v.SetDefault("descriptors.mode", cfg.Descriptors.Mode)
	v.SetDefault("descriptors.peel_subshells", cfg.Descriptors.PeelSubshells)
	v.SetDefault("descriptors.normalize", cfg.Descriptors.Normalize)
	v.SetDefault("descriptors.max_cumulative_doubled_j", cfg.Descriptors.MaxCumulativeDoubledJ)
	v.SetDefault("descriptors.lenient", cfg.Descriptors.Lenient)
	v.SetDefault("observability.log_level", cfg.Observability.LogLevel)
	v.SetDefault("observability.log_format", cfg.Observability.LogFormat)
	v.SetDefault("observability.tracing", cfg.Observability.Tracing)
}

// initLogger sends logs to stderr so stdout stays parseable.
func initLogger(cfg *config.ConversionConfig) error {
	return logger.Init(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Encoding:    cfg.Observability.LogFormat,
		OutputPaths: []string{"stderr"},
	})
}
