package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/discochess/picklejar"
)

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "List compression and pickler backends",
	Long: `List every registered compression and pickler backend with its
aliases, claimed extensions (canonical first) and availability.`,
	Args: cobra.NoArgs,
	RunE: runBackends,
}

func init() {
	rootCmd.AddCommand(backendsCmd)
}

func runBackends(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Compressions:")
	if err := writeCompressionTable(out, jar.Compressions()); err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Picklers:")
	return writePicklerTable(out, jar.Picklers())
}

func writeCompressionTable(w io.Writer, entries []picklejar.BackendInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tALIASES\tEXTENSIONS\tAVAILABLE")
	for _, e := range entries {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
			e.Name, orDash(strings.Join(e.Aliases, ",")), orDash(strings.Join(e.Extensions, ",")), yesNo(e.Available))
	}
	return tw.Flush()
}

func writePicklerTable(w io.Writer, entries []picklejar.BackendInfo) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tALIASES\tOUTPUT\tAVAILABLE")
	for _, e := range entries {
		output := "binary"
		if b, err := jar.PicklerRegistry().Lookup(e.Name); err == nil && b.Text {
			output = "text"
		}
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", e.Name, orDash(strings.Join(e.Aliases, ",")), output, yesNo(e.Available))
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
