package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sil/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sil",
	Short: "sil hardware description language compiler",
	Long:  `sil links, typechecks and instantiates hardware designs from externally parsed sources`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to show (0 takes the manifest value)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
