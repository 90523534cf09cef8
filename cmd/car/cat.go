package main

import (
	"os"

	"github.com/ipfs/go-cid"
	"github.com/spf13/cobra"

	"github.com/distribution/car"
)

// CatCmd writes one block's payload to stdout.
var CatCmd = &cobra.Command{
	Use:   "cat <file.car> <cid>",
	Short: "`cat` writes one block's payload to stdout",
	Long:  "`cat` writes one block's payload to stdout",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		c, err := cid.Decode(args[1])
		if err != nil {
			fail("parse cid %s: %v", args[1], err)
		}

		f, err := os.Open(args[0])
		if err != nil {
			fail("open %s: %v", args[0], err)
		}

		ds, err := car.ReadFileComplete(f, car.WithLogger(newLogger()))
		if err != nil {
			fail("open car: %v", err)
		}
		defer ds.Close()

		payload, err := ds.Get(c)
		if err != nil {
			fail("get %s: %v", c, err)
		}
		os.Stdout.Write(payload)
	},
}
