package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pavanmanishd/bounded"
	"github.com/pavanmanishd/bounded/snapshot"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <snapshot.cbor>",
		Short: "Verify a snapshot and print its header and contents.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			h, err := snapshot.Inspect(data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "kind:      %s\n", h.Kind)
			fmt.Fprintf(out, "version:   %d\n", h.Version)
			fmt.Fprintf(out, "capacity:  %d\n", h.Capacity)
			fmt.Fprintf(out, "elem size: %d\n", h.ElemSize)
			fmt.Fprintf(out, "length:    %d\n", h.Len)
			fmt.Fprintf(out, "blake3:    %x\n", h.Sum)

			switch h.Kind {
			case snapshot.KindArray:
				items, err := snapshot.Items[any](data)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "items:     %v\n", items)
			case snapshot.KindBlock:
				// Sized to the verified length; the capacity is only reported.
				mem := make([]byte, bounded.BlockSize(h.Len, h.ElemSize))
				b := bounded.InitBlock(mem, h.ElemSize, nil)
				if _, err := snapshot.DecodeBlock(data, b); err != nil {
					return err
				}
				fmt.Fprintf(out, "bytes:     % x\n", b.Bytes())
			}
			return nil
		},
	}
}
