// Package csfs converts GRASP configuration state function (CSF) lists into
// columnar files for data analysis and machine learning.
//
// A CSF list starts with five header lines, the fourth of which names the
// peel subshells, followed by three-line records:
//
//	  5s ( 2)  4d-( 4)  4d ( 6)
//	                   3/2
//	                        4-
//
// Every record becomes one row holding the raw lines, an xxhash64 of them
// and, when the peel subshells are known, a descriptor of
// (electrons, 2·J_middle, 2·J_coupling) per subshell. Descriptors can be
// normalized against the capacity bounds of each subshell.
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/ajitpratap0/csfs/pkg/conversion"
//	)
//
//	opts := conversion.DefaultOptions()
//	opts.Workers = 8
//	opts.Normalize = true
//	opts.MaxCumulativeDoubledJ = 12
//
//	stats, err := conversion.ConvertParallel(context.Background(), "rcsf.inp", "out/rcsf.parquet", opts)
//
// The header and counters are written next to the output as
// out/rcsf_header.toml.
//
// # Key Packages
//
//	pkg/conversion         - Sequential and parallel conversion pipelines
//	pkg/descriptor         - CSF record parser
//	pkg/normalize          - Descriptor normalization
//	pkg/subshell           - Subshell constants and notation
//	pkg/formats/columnar   - Parquet, Arrow IPC and Avro row files
//	pkg/metadata           - Sidecar header document
//	pkg/compression        - Compressed input lists
//	pkg/config             - Configuration with YAML files and ${VAR} substitution
//	pkg/errors             - Structured error handling
//	pkg/logger             - Structured logging
//	pkg/metrics            - Prometheus metrics
//	pkg/observability      - OpenTelemetry tracing
//
// # Command Line
//
//	csfs convert rcsf.inp out/rcsf.parquet --parallel --normalize --max-j 12
//	csfs info out/rcsf.parquet
//	csfs read out/rcsf.parquet -n 5
//	csfs normalize --peel 5s,4d-,4d --max-j 10 2,0,0,4,0,0,6,3,8
//	csfs bench --records 500000
package csfs
