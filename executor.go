package myjql

import (
	"fmt"
	"io"

	"myjql/btree"
	"myjql/node"
	"myjql/row"
)

// execute dispatches a parsed statement against tree, writing any row
// output to out. It implements spec §4.7.
func execute(tree *btree.Tree, stmt statement, out io.Writer) error {
	switch stmt.kind {
	case stmtInsert:
		r, err := row.New(stmt.a, stmt.b)
		if err != nil {
			return err
		}
		return tree.Insert(r)
	case stmtSelect:
		return executeSelect(tree, stmt, out)
	case stmtDelete:
		return tree.Delete(node.KeyFromString(stmt.b))
	}
	return nil
}

func executeSelect(tree *btree.Tree, stmt statement, out io.Writer) error {
	var cur *btree.Cursor
	var err error
	if stmt.hasFilter {
		cur, err = tree.Find(node.KeyFromString(stmt.b))
	} else {
		cur, err = tree.TableStart()
	}
	if err != nil {
		return err
	}

	printed := 0
	for !cur.EndOfTable {
		r, err := cur.Row()
		if err != nil {
			return err
		}
		if stmt.hasFilter && r.B != stmt.b {
			break
		}
		fmt.Fprintf(out, "(%d, %s)\n", r.A, r.B)
		printed++
		if err := cur.Advance(); err != nil {
			return err
		}
	}
	if printed == 0 {
		fmt.Fprintln(out, "(Empty)")
	}
	return nil
}
