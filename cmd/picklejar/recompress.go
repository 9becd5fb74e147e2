package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/picklejar"
	"github.com/discochess/picklejar/internal/extension"
	"github.com/discochess/picklejar/internal/pickler"
)

var recompressCmd = &cobra.Command{
	Use:   "recompress FILE...",
	Short: "Convert local files to another compression in parallel",
	Long: `Re-compress each FILE with the --to backend. The output is written
next to the input as <name without compression extension>.<canonical extension>,
so games.pkl.gz becomes games.pkl.zst with --to zstd.

Examples:
  picklejar recompress --to zstd data/*.gz
  picklejar recompress --to lzma --workers 8 --remove-source archive/*.bz2`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRecompress,
}

var (
	recompressTo     string
	removeSource     bool
	errAlreadyTarget = errors.New("already in the target compression")
)

func init() {
	recompressCmd.Flags().StringVar(&recompressTo, "to", "", "target compression backend (required)")
	recompressCmd.Flags().Int("workers", 4, "number of files converted in parallel")
	recompressCmd.Flags().BoolVar(&removeSource, "remove-source", false, "delete each input after it is converted")
	_ = recompressCmd.MarkFlagRequired("to")
	rootCmd.AddCommand(recompressCmd)
}

func runRecompress(cmd *cobra.Command, args []string) error {
	if recompressTo == picklejar.CompressionInfer {
		return fmt.Errorf("--to must name a compression, not %q", recompressTo)
	}

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(cfg.Workers)

	var (
		mu      sync.Mutex
		skipped int
	)
	out := cmd.OutOrStdout()

	for _, file := range args {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dst, n, err := recompressFile(file)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case errors.Is(err, errAlreadyTarget):
				skipped++
				fmt.Fprintf(out, "%s: skipped, %v\n", file, err)
				return nil
			case err != nil:
				return fmt.Errorf("%s: %w", file, err)
			}
			fmt.Fprintf(out, "%s -> %s (%s payload)\n", file, dst, formatBytes(n))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("recompress finished",
		zap.Int("files", len(args)),
		zap.Int("skipped", skipped),
		zap.String("to", recompressTo),
	)
	return nil
}

func recompressFile(src string) (string, int64, error) {
	base := extension.Strip(jar.CompressionRegistry(), src)
	opts := callOpts(
		picklejar.WithPickler(pickler.Raw),
		picklejar.WithCompression(recompressTo),
		picklejar.WithDefaultExtension(true),
	)
	f, err := jar.Resolve(picklejar.Path(base), opts...)
	if err != nil {
		return "", 0, err
	}
	if f.Path == src {
		return "", 0, errAlreadyTarget
	}

	payload, err := os.CreateTemp("", "picklejar-recompress-*")
	if err != nil {
		return "", 0, err
	}
	defer os.Remove(payload.Name())
	defer payload.Close()

	if err := jar.Load(picklejar.Path(src), payload,
		picklejar.WithPickler(pickler.Raw),
		picklejar.WithCompression(picklejar.CompressionInfer),
	); err != nil {
		return "", 0, fmt.Errorf("reading: %w", err)
	}
	n, err := payload.Seek(0, io.SeekCurrent)
	if err != nil {
		return "", 0, err
	}
	if _, err := payload.Seek(0, io.SeekStart); err != nil {
		return "", 0, err
	}
	if err := jar.Dump(payload, picklejar.Path(base), opts...); err != nil {
		return "", 0, fmt.Errorf("writing: %w", err)
	}

	if removeSource {
		if err := os.Remove(src); err != nil {
			return "", 0, err
		}
	}
	return f.Path, n, nil
}
