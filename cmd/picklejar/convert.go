package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/discochess/picklejar"
	"github.com/discochess/picklejar/internal/pickler"
)

var convertCmd = &cobra.Command{
	Use:   "convert SRC DST",
	Short: "Re-compress a file without decoding its payload",
	Long: `Decompress SRC and compress the same bytes into DST. The pickled
payload is copied as is, so any pickler format works.

SRC and DST are local paths or gs://bucket/key and s3://bucket/key URLs.
The compression of each side is inferred from its extension unless --from
or --to names one.

Examples:
  picklejar convert games.gz games.zst
  picklejar convert --from bz2 evals.dat gs://bucket/evals.xz`,
	Args: cobra.ExactArgs(2),
	RunE: runConvert,
}

var (
	convertFrom string
	convertTo   string
)

func init() {
	convertCmd.Flags().StringVar(&convertFrom, "from", picklejar.CompressionInfer, "compression of SRC")
	convertCmd.Flags().StringVar(&convertTo, "to", picklejar.CompressionInfer, "compression of DST")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	src, err := openSource(ctx, args[0], convertFrom)
	if err != nil {
		return err
	}

	var payload bytes.Buffer
	if err := jar.Load(src.target, &payload, append(src.opts, picklejar.WithPickler(pickler.Raw))...); err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	n := int64(payload.Len())

	dst, err := writeDest(ctx, args[1], convertTo, &payload)
	if err != nil {
		return fmt.Errorf("writing %s: %w", args[1], err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s payload)\n", args[0], dst, formatBytes(n))
	return nil
}
