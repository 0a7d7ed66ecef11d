// Package btree implements the paged B+-tree storage engine: page
// allocation is delegated to pager, on-disk layout to node, and this
// package supplies search, insert, delete, and cursor iteration over
// them (spec §4.3-§4.7).
package btree

import (
	"myjql/node"
	"myjql/pager"
	"myjql/row"
)

// Tree is a B+-tree rooted permanently at page 0 of the pager's file.
type Tree struct {
	Pager *pager.Pager
	Cap   node.Capacities
}

// Open opens (creating if absent) the database file at path and
// initialises page 0 as an empty leaf root when the file was empty
// (spec §3's lifecycle note, §4.1's open operation).
func Open(path string, pageSize uint32) (*Tree, error) {
	p, err := pager.Open(path, pageSize)
	if err != nil {
		return nil, err
	}
	t := &Tree{Pager: p, Cap: node.Derive(pageSize)}
	if p.NumPages == 0 {
		root, err := p.GetPage(0)
		if err != nil {
			return nil, err
		}
		node.SetType(root.Data, node.TypeLeaf)
		node.SetIsRoot(root.Data, true)
		node.SetNumCells(root.Data, 0)
		node.SetNextLeaf(root.Data, 0)
		root.Dirty = true
	}
	return t, nil
}

// Close flushes every dirty page and closes the file (spec §4.1, §5).
func (t *Tree) Close() error {
	return t.Pager.Close()
}

// Constants holds the structural constants the .constants REPL
// command reports (spec §6, enumerated per original_source/myjql.c's
// print_constants — see SPEC_FULL.md §7).
type Constants struct {
	RowSize               uint32
	CommonNodeHeaderSize  uint32
	LeafNodeHeaderSize    uint32
	LeafNodeCellSize      uint32
	LeafNodeSpaceForCells uint32
	LeafNodeMaxCells      uint32
}

// Constants reports the structural constants for this tree's page size.
func (t *Tree) Constants() Constants {
	spaceForCells := t.Pager.PageSize - node.LeafHeaderSize
	return Constants{
		RowSize:               node.KeySize + 4,
		CommonNodeHeaderSize:  6,
		LeafNodeHeaderSize:    node.LeafHeaderSize,
		LeafNodeCellSize:      node.CellSize,
		LeafNodeSpaceForCells: spaceForCells,
		LeafNodeMaxCells:      t.Cap.LeafMax,
	}
}

// maxKeyOf dispatches max_key(node) on whichever of the two node kinds
// buf holds (spec §4.2).
func maxKeyOf(buf []byte) [node.KeySize]byte {
	if node.Type(buf) == node.TypeLeaf {
		return node.LeafMaxKey(buf)
	}
	return node.InteriorMaxKey(buf)
}

// childIndexInParent finds childID among pbuf's keyed cells, reporting
// its index, or (numKeys, true) when childID is instead the rightmost
// pointer.
func (t *Tree) childIndexInParent(pbuf []byte, childID uint32) (idx uint32, isRightmost bool) {
	numKeys := node.NumKeys(pbuf)
	for i := uint32(0); i < numKeys; i++ {
		if node.InteriorChild(pbuf, i) == childID {
			return i, false
		}
	}
	return numKeys, true
}

// reparentOne sets a single child page's parent_page_id field.
func (t *Tree) reparentOne(childID, parentID uint32) error {
	p, err := t.Pager.GetPage(childID)
	if err != nil {
		return err
	}
	node.SetParent(p.Data, parentID)
	p.Dirty = true
	return nil
}

// reparentChildren updates the parent_page_id of every child listed in
// an interior node's cells and its rightmost pointer (spec §9: "many
// subtle bugs in this corpus arise from forgetting to reparent all
// moved children during interior split/merge").
func (t *Tree) reparentChildren(buf []byte, parentID uint32) error {
	numKeys := node.NumKeys(buf)
	for i := uint32(0); i < numKeys; i++ {
		if err := t.reparentOne(node.InteriorChild(buf, i), parentID); err != nil {
			return err
		}
	}
	return t.reparentOne(node.Rightmost(buf), parentID)
}

// Row is re-exported for callers that only need the storage engine
// without importing the row package directly.
type Row = row.Row
