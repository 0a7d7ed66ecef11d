package myjql

import (
	"bufio"
	"fmt"
	"io"

	"myjql/btree"
)

// REPL drives the line-oriented loop of spec §6 over an open tree.
type REPL struct {
	Tree *btree.Tree
	In   *bufio.Reader
	Out  io.Writer
}

// New wraps tree with a REPL reading from in and writing to out.
func New(tree *btree.Tree, in io.Reader, out io.Writer) *REPL {
	return &REPL{Tree: tree, In: bufio.NewReader(in), Out: out}
}

// Run reads commands until .exit or EOF. It returns a non-nil error
// only for I/O failures distinct from a clean EOF (spec §7's IOError).
func (r *REPL) Run() error {
	for {
		printPrompt(r.Out)

		line, eof, tooLong, err := readLine(r.In)
		if err != nil {
			return err
		}
		if eof {
			return nil
		}
		if tooLong {
			fmt.Fprintln(r.Out, "Input is too long.")
			continue
		}

		if len(line) > 0 && line[0] == '.' {
			if doMetaCommand(line, r.Tree, r.Out) == metaExit {
				fmt.Fprintln(r.Out, "bye~")
				return nil
			}
			continue
		}

		stmt, err := parseStatement(line)
		if err != nil {
			fmt.Fprintln(r.Out, err.Error())
			continue
		}
		if err := execute(r.Tree, stmt, r.Out); err != nil {
			fmt.Fprintln(r.Out, err.Error())
			continue
		}
		fmt.Fprint(r.Out, "\nExecuted.\n\n")
	}
}
