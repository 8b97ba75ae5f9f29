package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/ajitpratap0/csfs/pkg/normalize"
	"github.com/ajitpratap0/csfs/pkg/subshell"
)

func newNormalizeCmd() *cobra.Command {
	var (
		peel   []string
		maxJ   int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "normalize [descriptor...]",
		Short: "Normalize descriptors given as comma-separated integers",
		Long: `Normalize descriptors against the capacity bounds of the peel subshells.
Descriptors are read from the arguments, or one per line from stdin.

Example:
  csfs normalize --peel 5s,4d-,4d --max-j 10 2,0,0,4,0,0,6,3,8`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(peel) == 0 {
				return fmt.Errorf("--peel is required")
			}
			inputs := args
			if len(inputs) == 0 {
				sc := bufio.NewScanner(cmd.InOrStdin())
				for sc.Scan() {
					if line := strings.TrimSpace(sc.Text()); line != "" {
						inputs = append(inputs, line)
					}
				}
				if err := sc.Err(); err != nil {
					return err
				}
			}

			descs := make([][]int32, len(inputs))
			for i, in := range inputs {
				d, err := parseDescriptor(in)
				if err != nil {
					return fmt.Errorf("descriptor %d: %w", i, err)
				}
				descs[i] = d
			}

			codes := subshell.ToAngularList(peel)
			var (
				out [][]float32
				err error
			)
			if maxJ == 0 {
				out, err = normalize.BatchNormalizeElectrons(descs, codes)
			} else {
				out, err = normalize.BatchNormalize(descs, codes, maxJ)
			}
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if asJSON {
				return json.NewEncoder(w).Encode(out)
			}
			for _, v := range out {
				parts := make([]string, len(v))
				for i, x := range v {
					parts[i] = strconv.FormatFloat(float64(x), 'g', 6, 32)
				}
				fmt.Fprintln(w, strings.Join(parts, ","))
			}
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&peel, "peel", nil, "Peel subshells (e.g. 5s,4d-,4d)")
	cmd.Flags().IntVar(&maxJ, "max-j", 0, "Largest doubled cumulative J; 0 normalizes electron counts only")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as a JSON array")
	return cmd
}

func parseDescriptor(s string) ([]int32, error) {
	fields := strings.Split(s, ",")
	out := make([]int32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseInt(strings.TrimSpace(f), 10, 32)
		if err != nil {
			return nil, err
		}
		out[i] = int32(v)
	}
	return out, nil
}
