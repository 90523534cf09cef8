package main

import (
	"os"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"github.com/spf13/cobra"

	"github.com/distribution/car"
)

// PackCmd packs a set of files into a fresh archive as raw blocks,
// content-addressed by sha2-256, with every block also listed as a root.
var PackCmd = &cobra.Command{
	Use:   "pack <out.car> <file>...",
	Short: "`pack` writes a set of files into a fresh archive as raw blocks",
	Long:  "`pack` writes a set of files into a fresh archive as raw blocks",
	Args:  cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		out, err := os.Create(args[0])
		if err != nil {
			fail("create %s: %v", args[0], err)
		}

		type block struct {
			c       cid.Cid
			payload []byte
		}
		blocks := make([]block, 0, len(args)-1)
		for _, path := range args[1:] {
			data, err := os.ReadFile(path)
			if err != nil {
				fail("read %s: %v", path, err)
			}
			mh, err := multihash.Sum(data, multihash.SHA2_256, -1)
			if err != nil {
				fail("hash %s: %v", path, err)
			}
			blocks = append(blocks, block{c: cid.NewCidV1(cid.Raw, mh), payload: data})
		}

		roots := make([]cid.Cid, len(blocks))
		for i, b := range blocks {
			roots[i] = b.c
		}

		ds := car.WriteStream(out, car.WithLogger(newLogger()))
		if err := ds.SetRoots(roots); err != nil {
			fail("set roots: %v", err)
		}
		for _, b := range blocks {
			if err := ds.Put(b.c, b.payload); err != nil {
				fail("put %s: %v", b.c, err)
			}
		}
		if err := ds.Close(); err != nil {
			fail("close: %v", err)
		}
	},
}
