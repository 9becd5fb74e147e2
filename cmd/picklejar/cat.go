package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var catCmd = &cobra.Command{
	Use:   "cat PATH",
	Short: "Print a pickled file as YAML",
	Long: `Load PATH with the configured pickler into a generic value and print
it as YAML. PATH is a local path or a gs:// or s3:// URL.

Self-describing formats (msgpack, cbor, json, yaml, pickle) decode into
maps and lists. Gob needs the concrete Go type and only works for values
that were encoded as interfaces.

Examples:
  picklejar cat --pickler msgpack record.msgpack.gz
  picklejar cat --pickler pickle --compression bz2 s3://bucket/model.dat`,
	Args: cobra.ExactArgs(1),
	RunE: runCat,
}

func init() {
	rootCmd.AddCommand(catCmd)
}

func runCat(cmd *cobra.Command, args []string) error {
	src, err := openSource(cmd.Context(), args[0], cfg.Compression)
	if err != nil {
		return err
	}

	var v any
	if err := jar.Load(src.target, &v, src.opts...); err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("printing %s: %w", args[0], err)
	}
	return enc.Close()
}
