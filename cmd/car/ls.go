package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/distribution/car"
)

// LsCmd lists an archive's roots and blocks.
var LsCmd = &cobra.Command{
	Use:   "ls <file.car>",
	Short: "`ls` lists an archive's roots and blocks",
	Long:  "`ls` lists an archive's roots and blocks",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			fail("open %s: %v", args[0], err)
		}

		ds, err := car.ReadFileComplete(f, car.WithLogger(newLogger()))
		if err != nil {
			fail("open car: %v", err)
		}
		defer ds.Close()

		roots, err := ds.GetRoots()
		if err != nil {
			fail("get roots: %v", err)
		}
		for _, r := range roots {
			fmt.Printf("root %s\n", r)
		}

		it, err := ds.Query("")
		if err != nil {
			fail("query: %v", err)
		}
		for it.Next() {
			fmt.Printf("%s\t%d bytes\n", it.CID(), len(it.Payload()))
		}
		if it.Err() != nil {
			fail("query: %v", it.Err())
		}
	},
}
