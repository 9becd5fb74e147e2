package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/discochess/picklejar"
)

var inferCmd = &cobra.Command{
	Use:   "infer PATH...",
	Short: "Show the compression inferred for each path",
	Long: `Resolve the compression backend each path maps to from its extension.
Nothing is opened. The command fails if any path cannot be inferred.

Examples:
  picklejar infer games.pkl.gz evals.zst notes.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInfer,
}

func init() {
	rootCmd.AddCommand(inferCmd)
}

func runInfer(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tCOMPRESSION\tEXTENSION")

	var errs []error
	for _, p := range args {
		f, err := jar.Resolve(picklejar.Path(p), picklejar.WithCompression(picklejar.CompressionInfer))
		if err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\n", p)
			logger.Debug("inference failed", zap.String("path", p), zap.Error(err))
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", p, f.Compression, orDash(f.Extension))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return errors.Join(errs...)
}
