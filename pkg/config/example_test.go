package config_test

import (
	"fmt"

	"github.com/ajitpratap0/csfs/pkg/config"
)

// ExampleNewConversionConfig shows the defaults.
func ExampleNewConversionConfig() {
	cfg := config.NewConversionConfig()

	fmt.Printf("Max line length: %d\n", cfg.Performance.MaxLineLen)
	fmt.Printf("Chunk size: %d\n", cfg.Performance.ChunkSize)
	fmt.Printf("Format: %s/%s\n", cfg.Output.Format, cfg.Output.Compression)
	fmt.Printf("Descriptors: %s\n", cfg.Descriptors.Mode)

	// Output:
	// Max line length: 256
	// Chunk size: 30000
	// Format: parquet/snappy
	// Descriptors: auto
}

// ExampleConversionConfig_Validate shows how a bad value is reported.
func ExampleConversionConfig_Validate() {
	cfg := config.NewConversionConfig()
	cfg.Descriptors.Mode = config.DescriptorsOff
	cfg.Descriptors.Normalize = true

	if err := cfg.Validate(); err != nil {
		fmt.Println(err)
	}

	// Output:
	// config: normalize requires descriptors
}
