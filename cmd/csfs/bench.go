package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/csfs/pkg/conversion"
	"github.com/ajitpratap0/csfs/pkg/formats/columnar"
)

var benchPeel = []string{"5s", "4d-", "4d", "5p-", "5p", "6s"}

func newBenchCmd() *cobra.Command {
	var (
		records   int
		chunkSize int
		workers   []int
		format    string
		keep      bool
	)
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time sequential and parallel conversion of a synthetic CSF list",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.MkdirTemp("", "csfs-bench-*")
			if err != nil {
				return err
			}
			if !keep {
				defer os.RemoveAll(dir)
			}

			input := filepath.Join(dir, "rcsf.inp")
			if err := writeSyntheticList(input, records); err != nil {
				return err
			}
			f, err := columnar.ParseFormat(format)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Records: %d  Chunk: %d  Format: %s\n\n", records, chunkSize, f)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "MODE\tWORKERS\tDURATION\tRECORDS/S")

			runs := append([]int{0}, workers...)
			for _, w := range runs {
				opts := conversion.DefaultOptions()
				opts.Logger = zap.NewNop()
				opts.ChunkSize = chunkSize
				opts.Workers = w
				opts.Format = f
				opts.Normalize = true

				convert, mode := conversion.Convert, "sequential"
				if w > 0 {
					convert, mode = conversion.ConvertParallel, "parallel"
				}
				start := time.Now()
				stats, err := convert(cmd.Context(), input, filepath.Join(dir, fmt.Sprintf("%s-%d.%s", mode, w, f)), opts)
				if err != nil {
					return err
				}
				elapsed := time.Since(start)
				fmt.Fprintf(tw, "%s\t%d\t%v\t%.0f\n", mode, w, elapsed.Round(time.Millisecond),
					float64(stats.CSFCount)/elapsed.Seconds())
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if keep {
				fmt.Fprintf(out, "\nFiles kept in %s\n", dir)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&records, "records", 200000, "Synthetic CSF records")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 30000, "Records per chunk")
	cmd.Flags().IntSliceVar(&workers, "workers", []int{1, 2, 4, 8}, "Parallel worker counts to time")
	cmd.Flags().StringVar(&format, "format", "parquet", "Output format")
	cmd.Flags().BoolVar(&keep, "keep", false, "Keep the generated files")
	return cmd
}

// writeSyntheticList writes a CSF list of n records over benchPeel.
func writeSyntheticList(path string, n int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "Core subshells:")
	fmt.Fprintln(w, "  1s   2s   2p-  2p   3s   3p-  3p   3d-  3d   4s   4p-  4p")
	fmt.Fprintln(w, "Peel subshells:")
	fmt.Fprintln(w, "  "+strings.Join(benchPeel, "  "))
	fmt.Fprintln(w, "CSF(s):")

	blank := strings.Repeat(" ", len(benchPeel)*9)
	for i := 0; i < n; i++ {
		counts := []int{2, 4, 6, 2, 4, 2}
		counts[i%6]--
		for k, name := range benchPeel {
			fmt.Fprintf(w, "  %-3s(%2d)", name, counts[k])
		}
		fmt.Fprintln(w)

		middle := []byte(blank)
		copy(middle[19:], "3/2")
		if i%2 == 1 {
			copy(middle[37:], "2")
		}
		fmt.Fprintln(w, string(middle))

		final := []byte(blank)
		copy(final[43:], fmt.Sprintf("%d%c", i%4, "+-"[i%2]))
		fmt.Fprintln(w, string(final))
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
