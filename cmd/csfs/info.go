package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/csfs/pkg/formats/columnar"
	"github.com/ajitpratap0/csfs/pkg/metadata"
)

func newInfoCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Describe a converted file and its sidecar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := columnar.Info(args[0])
			if err != nil {
				return err
			}
			doc := findSidecar(args[0])

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(struct {
					*columnar.FileInfo
					Metadata *metadata.Document `json:"metadata,omitempty"`
				}{info, doc})
			}

			fmt.Fprintf(out, "Path:        %s\n", info.Path)
			fmt.Fprintf(out, "Format:      %s\n", info.Format)
			fmt.Fprintf(out, "Rows:        %d\n", info.Rows)
			fmt.Fprintf(out, "Batches:     %d\n", info.Batches)
			fmt.Fprintf(out, "Columns:     %s\n", strings.Join(info.Columns, ", "))
			fmt.Fprintf(out, "Size:        %d bytes\n", info.SizeBytes)
			if info.Compression != "" {
				fmt.Fprintf(out, "Compression: %s\n", info.Compression)
			}
			if doc != nil {
				fmt.Fprintf(out, "Source:      %s\n", doc.Source)
				if len(doc.PeelSubshells) > 0 {
					fmt.Fprintf(out, "Peel:        %s\n", strings.Join(doc.PeelSubshells, " "))
				}
				s := doc.ConversionStats
				fmt.Fprintf(out, "CSFs:        %d (lines %d, truncated %d, skipped %d)\n",
					s.CSFCount, s.TotalLines, s.TruncatedCount, s.SkippedCount)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

// findSidecar returns the first readable sidecar next to path.
func findSidecar(path string) *metadata.Document {
	for _, format := range []metadata.Format{metadata.TOML, metadata.JSON, metadata.YAML} {
		p := metadata.PathFor(path, format)
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if doc, err := metadata.Read(p); err == nil {
			return doc
		}
	}
	return nil
}
