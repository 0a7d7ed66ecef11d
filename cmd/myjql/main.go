// Command myjql opens a database file and runs the interactive REPL.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"myjql"
	"myjql/btree"
	"myjql/pager"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Must supply a database filename.")
		os.Exit(1)
	}

	tree, err := btree.Open(os.Args[1], pager.DefaultPageSize)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT)
	go func() {
		<-sigCh
		tree.Close()
		os.Exit(0)
	}()

	repl := myjql.New(tree, os.Stdin, os.Stdout)
	if err := repl.Run(); err != nil {
		tree.Close()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := tree.Close(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
