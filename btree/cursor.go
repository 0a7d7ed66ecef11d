package btree

import (
	"myjql/node"
	"myjql/row"
)

// Cursor binds a (page, cell) position over leaf records (spec §4.3).
type Cursor struct {
	Tree       *Tree
	Page       uint32
	Cell       uint32
	EndOfTable bool
}

// Advance moves the cursor to the next cell, following the leaf chain
// and setting EndOfTable once the chain is exhausted (spec §4.3).
func (c *Cursor) Advance() error {
	page, err := c.Tree.Pager.GetPage(c.Page)
	if err != nil {
		return err
	}
	c.Cell++
	if c.Cell >= node.NumCells(page.Data) {
		next := node.NextLeaf(page.Data)
		if next == 0 {
			c.EndOfTable = true
			return nil
		}
		c.Page = next
		c.Cell = 0
	}
	return nil
}

// Row returns the record under the cursor.
func (c *Cursor) Row() (row.Row, error) {
	page, err := c.Tree.Pager.GetPage(c.Page)
	if err != nil {
		return row.Row{}, err
	}
	key := node.LeafKey(page.Data, c.Cell)
	a := node.LeafValueA(page.Data, c.Cell)
	return row.Row{A: a, B: node.KeyString(key)}, nil
}
