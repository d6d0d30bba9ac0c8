// prefixsum computes distributed inclusive prefix sums over a group of ranks.
package main

import (
	"fmt"
	"os"

	"github.com/spacemeshos/go-prefixsum/cmd"
	"github.com/spacemeshos/go-prefixsum/cmd/prefixsum"
)

var (
	version string
	commit  string
	branch  string
)

func main() { // run the app
	cmd.Version = version
	cmd.Commit = commit
	cmd.Branch = branch
	if err := prefixsum.GetCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
