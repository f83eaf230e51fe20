package main

import (
	"context"
	"log"
	"os"

	"github.com/urfave/cli/v3"
)

func main() {
	cmd := &cli.Command{
		Name:  "logrelay",
		Usage: "A filter-and-forward relay between a log dispatcher and a process mailbox",
		Commands: []*cli.Command{
			runCmd,
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
