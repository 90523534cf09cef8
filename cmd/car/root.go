// Command car provides a small CLI over the car package's access modes:
// listing an archive's roots and blocks, extracting one block's payload,
// packing a set of files into a fresh archive, and verifying that the
// buffer-complete and file-indexed readers agree on an archive. Grounded on the teacher's registry command
// (github.com/distribution/distribution/v3/registry), whose RootCmd/
// subcommand-as-package-var shape and stderr-plus-os.Exit(1) error
// handling this mirrors.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	RootCmd.AddCommand(LsCmd)
	RootCmd.AddCommand(CatCmd)
	RootCmd.AddCommand(PackCmd)
	RootCmd.AddCommand(VerifyCmd)
}

// RootCmd is the main command for the 'car' binary.
var RootCmd = &cobra.Command{
	Use:   "car",
	Short: "`car` reads and writes Content ARchive (CAR) files",
	Long:  "`car` reads and writes Content ARchive (CAR) files",
	Run: func(cmd *cobra.Command, args []string) {
		// nolint:errcheck
		cmd.Usage()
	},
}

func newLogger() *logrus.Entry {
	l := logrus.New()
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return logrus.NewEntry(l)
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func main() {
	if err := RootCmd.Execute(); err != nil {
		fail("%v", err)
	}
}
