package btree

import (
	"sort"

	"myjql/node"
)

// Find performs the root-to-leaf descent of spec §4.4, returning a
// cursor at the leftmost occurrence of key, or at its insertion point
// if absent. EndOfTable is set only when the leaf reached is empty.
func (t *Tree) Find(key [node.KeySize]byte) (*Cursor, error) {
	pageID := uint32(0)
	for {
		page, err := t.Pager.GetPage(pageID)
		if err != nil {
			return nil, err
		}
		if node.Type(page.Data) == node.TypeLeaf {
			idx := leafFindIndex(page.Data, key)
			return &Cursor{
				Tree:       t,
				Page:       pageID,
				Cell:       idx,
				EndOfTable: node.NumCells(page.Data) == 0,
			}, nil
		}
		pageID = interiorFindChild(page.Data, key)
	}
}

// TableStart seeks the leftmost leaf by descending via child index 0
// at every interior level, per spec §4.3's recommended, sentinel-free
// implementation of table_start.
func (t *Tree) TableStart() (*Cursor, error) {
	pageID := uint32(0)
	for {
		page, err := t.Pager.GetPage(pageID)
		if err != nil {
			return nil, err
		}
		if node.Type(page.Data) == node.TypeLeaf {
			return &Cursor{
				Tree:       t,
				Page:       pageID,
				Cell:       0,
				EndOfTable: node.NumCells(page.Data) == 0,
			}, nil
		}
		if node.NumKeys(page.Data) > 0 {
			pageID = node.InteriorChild(page.Data, 0)
		} else {
			pageID = node.Rightmost(page.Data)
		}
	}
}

// leafFindIndex returns the smallest cell index whose key is >= key —
// the leftmost occurrence of key, or the insertion slot if absent
// (spec §4.4).
func leafFindIndex(buf []byte, key [node.KeySize]byte) uint32 {
	n := node.NumCells(buf)
	return uint32(sort.Search(int(n), func(i int) bool {
		return node.CompareKeys(node.LeafKey(buf, uint32(i)), key) >= 0
	}))
}

// interiorFindChild returns the child page id to descend into for key.
// Binary search already finds the leftmost separator >= key, so
// duplicate separators spanning multiple children resolve left without
// any extra backtracking step (spec §4.4, §9).
func interiorFindChild(buf []byte, key [node.KeySize]byte) uint32 {
	n := node.NumKeys(buf)
	idx := uint32(sort.Search(int(n), func(i int) bool {
		return node.CompareKeys(node.InteriorKey(buf, uint32(i)), key) >= 0
	}))
	if idx < n {
		return node.InteriorChild(buf, idx)
	}
	return node.Rightmost(buf)
}
