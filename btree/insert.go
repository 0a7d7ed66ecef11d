package btree

import "myjql/node"

// Insert implements the insert engine of spec §4.5. Equal keys sort to
// the leftmost position of the existing equal run (duplicate policy,
// spec §4.5, §9).
func (t *Tree) Insert(r Row) error {
	key := node.KeyFromString(r.B)
	cur, err := t.Find(key)
	if err != nil {
		return err
	}
	return t.leafInsert(cur.Page, cur.Cell, key, r.A)
}

// leafInsert writes (key, a) at cellIndex of the leaf at pageID,
// splitting the leaf first if it is already at capacity (spec §4.5.2).
func (t *Tree) leafInsert(pageID, cellIndex uint32, key [node.KeySize]byte, a uint32) error {
	page, err := t.Pager.GetPage(pageID)
	if err != nil {
		return err
	}
	buf := page.Data
	numCells := node.NumCells(buf)
	if numCells < t.Cap.LeafMax {
		for i := numCells; i > cellIndex; i-- {
			node.CopyLeafCell(buf, i, buf, i-1)
		}
		node.SetLeafCell(buf, cellIndex, key, a)
		node.SetNumCells(buf, numCells+1)
		page.Dirty = true
		return nil
	}
	return t.leafSplitInsert(pageID, cellIndex, key, a)
}

// leafSplitInsert implements spec §4.5.3: partition the LEAF_MAX+1
// conceptual cells between the old leaf and a newly allocated sibling,
// then promote the split upward.
func (t *Tree) leafSplitInsert(pageID, cellIndex uint32, key [node.KeySize]byte, a uint32) error {
	page, err := t.Pager.GetPage(pageID)
	if err != nil {
		return err
	}
	buf := page.Data
	numCells := node.NumCells(buf)

	type cell struct {
		key [node.KeySize]byte
		a   uint32
	}
	cells := make([]cell, 0, numCells+1)
	for i := uint32(0); i < cellIndex; i++ {
		cells = append(cells, cell{node.LeafKey(buf, i), node.LeafValueA(buf, i)})
	}
	cells = append(cells, cell{key, a})
	for i := cellIndex; i < numCells; i++ {
		cells = append(cells, cell{node.LeafKey(buf, i), node.LeafValueA(buf, i)})
	}

	newPageID := t.Pager.GetUnusedPageNum()
	newPage, err := t.Pager.GetPage(newPageID)
	if err != nil {
		return err
	}

	left, right := t.Cap.LeafLeftSplit, t.Cap.LeafRightSplit
	node.SetType(buf, node.TypeLeaf)
	for i := uint32(0); i < left; i++ {
		node.SetLeafCell(buf, i, cells[i].key, cells[i].a)
	}
	node.SetNumCells(buf, left)

	node.SetType(newPage.Data, node.TypeLeaf)
	for i := uint32(0); i < right; i++ {
		node.SetLeafCell(newPage.Data, i, cells[left+i].key, cells[left+i].a)
	}
	node.SetNumCells(newPage.Data, right)
	node.SetNextLeaf(newPage.Data, node.NextLeaf(buf))
	node.SetNextLeaf(buf, newPageID)
	node.SetParent(newPage.Data, node.Parent(buf))
	node.SetIsRoot(newPage.Data, false)
	page.Dirty, newPage.Dirty = true, true

	if node.IsRoot(buf) {
		return t.createNewRoot(newPageID)
	}
	parentID := node.Parent(buf)
	splitKey := node.LeafMaxKey(buf)
	return t.interiorInsert(parentID, newPageID, splitKey)
}

// createNewRoot implements spec §4.5.4: copy page 0's current contents
// (already the final "left" half of whichever split triggered this)
// into a fresh page, and re-initialise page 0 as the one-separator
// interior root over it and rightChildID.
func (t *Tree) createNewRoot(rightChildID uint32) error {
	rootPage, err := t.Pager.GetPage(0)
	if err != nil {
		return err
	}

	leftPageID := t.Pager.GetUnusedPageNum()
	leftPage, err := t.Pager.GetPage(leftPageID)
	if err != nil {
		return err
	}
	copy(leftPage.Data, rootPage.Data)
	node.SetIsRoot(leftPage.Data, false)
	leftPage.Dirty = true
	if node.Type(leftPage.Data) == node.TypeInterior {
		if err := t.reparentChildren(leftPage.Data, leftPageID); err != nil {
			return err
		}
	}
	maxKey := maxKeyOf(leftPage.Data)
	if node.Type(leftPage.Data) == node.TypeInterior {
		// An interior node's last separator is below its subtree's
		// largest key, which sits in the leaf reached via rightmost pointers.
		id := node.Rightmost(leftPage.Data)
		for {
			p, err := t.Pager.GetPage(id)
			if err != nil {
				return err
			}
			if node.Type(p.Data) == node.TypeLeaf {
				maxKey = node.LeafMaxKey(p.Data)
				break
			}
			id = node.Rightmost(p.Data)
		}
	}

	buf := rootPage.Data
	for i := range buf {
		buf[i] = 0
	}
	node.SetType(buf, node.TypeInterior)
	node.SetIsRoot(buf, true)
	node.SetNumKeys(buf, 1)
	node.SetInteriorCell(buf, 0, leftPageID, maxKey)
	node.SetRightmost(buf, rightChildID)
	node.SetParent(leftPage.Data, 0)
	rootPage.Dirty = true

	rightPage, err := t.Pager.GetPage(rightChildID)
	if err != nil {
		return err
	}
	node.SetParent(rightPage.Data, 0)
	rightPage.Dirty = true
	return nil
}

// interiorInsert implements spec §4.5.5. The existing pointer to the
// shrunk left child stays at its slot with an updated separator; the
// new right child takes over the slot that the shift vacates (spec
// §9's resolution of the interior-insert placement ambiguity).
func (t *Tree) interiorInsert(parentID, newChildID uint32, sepKey [node.KeySize]byte) error {
	parentPage, err := t.Pager.GetPage(parentID)
	if err != nil {
		return err
	}
	buf := parentPage.Data
	numKeys := node.NumKeys(buf)

	idx := uint32(0)
	for idx < numKeys && node.CompareKeys(node.InteriorKey(buf, idx), sepKey) < 0 {
		idx++
	}

	if idx == numKeys {
		oldRightmost := node.Rightmost(buf)
		node.SetInteriorCell(buf, numKeys, oldRightmost, sepKey)
		node.SetRightmost(buf, newChildID)
	} else {
		for i := numKeys; i > idx; i-- {
			node.CopyInteriorCell(buf, i, buf, i-1)
		}
		oldChild := node.InteriorChild(buf, idx+1)
		node.SetInteriorCell(buf, idx, oldChild, sepKey)
		shiftedKey := node.InteriorKey(buf, idx+1)
		node.SetInteriorCell(buf, idx+1, newChildID, shiftedKey)
	}
	node.SetNumKeys(buf, numKeys+1)
	parentPage.Dirty = true
	if err := t.reparentOne(newChildID, parentID); err != nil {
		return err
	}

	if node.NumKeys(buf) <= t.Cap.InteriorMax {
		return nil
	}
	return t.splitInterior(parentID)
}

// splitInterior implements the interior-split half of spec §4.5.5.
func (t *Tree) splitInterior(pageID uint32) error {
	page, err := t.Pager.GetPage(pageID)
	if err != nil {
		return err
	}
	buf := page.Data
	n := node.NumKeys(buf)
	mid := (n + 1) / 2

	rightPageID := t.Pager.GetUnusedPageNum()
	rightPage, err := t.Pager.GetPage(rightPageID)
	if err != nil {
		return err
	}
	node.SetType(rightPage.Data, node.TypeInterior)

	j := uint32(0)
	for i := mid + 1; i < n; i++ {
		node.CopyInteriorCell(rightPage.Data, j, buf, i)
		j++
	}
	node.SetRightmost(rightPage.Data, node.Rightmost(buf))
	newRightmostForLeft := node.InteriorChild(buf, mid)
	promotedKey := node.InteriorKey(buf, mid)

	node.SetRightmost(buf, newRightmostForLeft)
	node.SetNumKeys(buf, mid)
	node.SetNumKeys(rightPage.Data, n-mid-1)
	node.SetParent(rightPage.Data, node.Parent(buf))
	node.SetIsRoot(rightPage.Data, false)
	page.Dirty, rightPage.Dirty = true, true

	if err := t.reparentChildren(rightPage.Data, rightPageID); err != nil {
		return err
	}

	if node.IsRoot(buf) {
		return t.createNewRoot(rightPageID)
	}
	return t.interiorInsert(node.Parent(buf), rightPageID, promotedKey)
}
