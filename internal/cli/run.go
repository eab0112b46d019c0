package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/bounded/internal/script"
	"github.com/pavanmanishd/bounded/snapshot"
)

type arrayReport struct {
	Name  string   `json:"name"`
	Len   int      `json:"len"`
	Cap   int      `json:"cap"`
	Items []uint32 `json:"items"`
}

type runReport struct {
	Steps  []script.Step `json:"steps"`
	Arrays []arrayReport `json:"arrays"`
}

func newRunCmd(newLogger func(*cobra.Command) (*slog.Logger, error)) *cobra.Command {
	var (
		snapshotDir string
		asJSON      bool
	)

	cmd := &cobra.Command{
		Use:   "run <script.yaml>",
		Short: "Run a script of bounded array operations.",
		Long: `Run every step of a script and print what each one did, followed by ` +
			`the final contents of every array. Recognized ops: ` +
			strings.Join(script.Ops, ", ") + `.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			s, err := script.LoadFile(args[0])
			if err != nil {
				return err
			}
			r, err := script.NewRunner(s, logger)
			if err != nil {
				return err
			}

			// Report the steps that ran even when one failed.
			steps, runErr := r.Run()
			report := runReport{Steps: steps}
			for _, name := range r.Names() {
				a := r.Array(name)
				report.Arrays = append(report.Arrays, arrayReport{
					Name:  name,
					Len:   a.Len(),
					Cap:   a.Cap(),
					Items: a.Items(),
				})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else if err := printReport(out, report); err != nil {
				return err
			}
			if runErr != nil {
				return runErr
			}

			if snapshotDir != "" {
				return writeSnapshots(r, snapshotDir, logger)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "",
		"write a CBOR snapshot of every array to DIR/<name>.cbor")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printReport(out io.Writer, report runReport) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tOP\tARRAY\tOK\tCOUNT\tVALUE\tLEN")
	for _, st := range report.Steps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%d\t%d\t%d\n",
			st.Index, st.Op, st.Array, st.OK, st.Count, st.Value, st.Len)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)
	for _, a := range report.Arrays {
		fmt.Fprintf(out, "%s (%d/%d): %v\n", a.Name, a.Len, a.Cap, a.Items)
	}
	return nil
}

func writeSnapshots(r *script.Runner, dir string, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, name := range r.Names() {
		data, err := snapshot.Encode(r.Array(name))
		if err != nil {
			return fmt.Errorf("snapshot %q: %w", name, err)
		}
		path := filepath.Join(dir, name+".cbor")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		logger.Info("snapshot written", "array", name, "path", path, "bytes", len(data))
	}
	return nil
}
