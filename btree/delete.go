package btree

import (
	"github.com/pkg/errors"

	"myjql/dberr"
	"myjql/node"
)

// Delete implements spec §4.6: repeatedly find and delete one
// occurrence of key until none remain. Per spec §7, ErrNotFound is
// returned locally by the delete path and reported to the caller as a
// no-op rather than a failure, so it is swallowed here.
func (t *Tree) Delete(key [node.KeySize]byte) error {
	err := t.deleteAll(key)
	if errors.Is(err, dberr.ErrNotFound) {
		return nil
	}
	return err
}

// deleteAll does the actual work, surfacing dberr.ErrNotFound when key
// was absent on the first lookup.
func (t *Tree) deleteAll(key [node.KeySize]byte) error {
	found := false
	for {
		cur, err := t.Find(key)
		if err != nil {
			return err
		}
		if cur.EndOfTable {
			break
		}
		leafPage, err := t.Pager.GetPage(cur.Page)
		if err != nil {
			return err
		}
		if node.NumCells(leafPage.Data) == 0 || node.CompareKeys(node.LeafKey(leafPage.Data, cur.Cell), key) != 0 {
			break
		}
		found = true
		if err := t.leafDelete(cur.Page, cur.Cell); err != nil {
			return err
		}
	}
	if !found {
		return dberr.Wrap(dberr.ErrNotFound, "delete %s", node.KeyString(key))
	}
	return nil
}

// leafDelete implements spec §4.6's leaf_delete.
func (t *Tree) leafDelete(pageID, cellIndex uint32) error {
	page, err := t.Pager.GetPage(pageID)
	if err != nil {
		return err
	}
	buf := page.Data
	numCells := node.NumCells(buf)
	for i := cellIndex; i+1 < numCells; i++ {
		node.CopyLeafCell(buf, i, buf, i+1)
	}
	node.ZeroLeafCell(buf, numCells-1)
	node.SetNumCells(buf, numCells-1)
	page.Dirty = true
	return t.mergeOrRedistributeLeaf(pageID)
}

// mergeOrRedistributeLeaf implements spec §4.6's merge_or_redistribute
// for leaves.
func (t *Tree) mergeOrRedistributeLeaf(pageID uint32) error {
	page, err := t.Pager.GetPage(pageID)
	if err != nil {
		return err
	}
	buf := page.Data
	if node.IsRoot(buf) {
		return t.adjustRoot()
	}
	if node.NumCells(buf) >= t.Cap.LeafMin {
		return nil
	}

	parentID := node.Parent(buf)
	parentPage, err := t.Pager.GetPage(parentID)
	if err != nil {
		return err
	}
	pbuf := parentPage.Data
	_, isRightmost := t.childIndexInParent(pbuf, pageID)

	var sibID uint32
	sibIsLeft := isRightmost
	if isRightmost {
		sibID = node.InteriorChild(pbuf, node.NumKeys(pbuf)-1)
	} else {
		sibID = node.NextLeaf(buf)
	}
	sibPage, err := t.Pager.GetPage(sibID)
	if err != nil {
		return err
	}
	if node.NumCells(sibPage.Data) >= t.Cap.LeafMin+1 {
		return t.leafRedistribute(pageID, sibID, parentID, sibIsLeft)
	}
	return t.leafMerge(pageID, sibID, parentID, sibIsLeft)
}

// leafRedistribute implements spec §4.6's leaf_redistribute.
func (t *Tree) leafRedistribute(nodeID, sibID, parentID uint32, sibIsLeft bool) error {
	nodePage, err := t.Pager.GetPage(nodeID)
	if err != nil {
		return err
	}
	sibPage, err := t.Pager.GetPage(sibID)
	if err != nil {
		return err
	}
	parentPage, err := t.Pager.GetPage(parentID)
	if err != nil {
		return err
	}
	nbuf, sbuf, pbuf := nodePage.Data, sibPage.Data, parentPage.Data

	if sibIsLeft {
		lastIdx := node.NumCells(sbuf) - 1
		movedKey := node.LeafKey(sbuf, lastIdx)
		movedA := node.LeafValueA(sbuf, lastIdx)

		n := node.NumCells(nbuf)
		for i := n; i > 0; i-- {
			node.CopyLeafCell(nbuf, i, nbuf, i-1)
		}
		node.SetLeafCell(nbuf, 0, movedKey, movedA)
		node.SetNumCells(nbuf, n+1)

		node.ZeroLeafCell(sbuf, lastIdx)
		node.SetNumCells(sbuf, lastIdx)

		sepIdx := node.NumKeys(pbuf) - 1
		newMaxS := node.LeafMaxKey(sbuf)
		node.SetInteriorCell(pbuf, sepIdx, node.InteriorChild(pbuf, sepIdx), newMaxS)
	} else {
		movedKey := node.LeafKey(sbuf, 0)
		movedA := node.LeafValueA(sbuf, 0)

		n := node.NumCells(nbuf)
		node.SetLeafCell(nbuf, n, movedKey, movedA)
		node.SetNumCells(nbuf, n+1)

		sc := node.NumCells(sbuf)
		for i := uint32(0); i+1 < sc; i++ {
			node.CopyLeafCell(sbuf, i, sbuf, i+1)
		}
		node.ZeroLeafCell(sbuf, sc-1)
		node.SetNumCells(sbuf, sc-1)

		idx, _ := t.childIndexInParent(pbuf, nodeID)
		node.SetInteriorCell(pbuf, idx, node.InteriorChild(pbuf, idx), movedKey)
	}
	nodePage.Dirty, sibPage.Dirty, parentPage.Dirty = true, true, true
	return nil
}

// leafMerge implements spec §4.6's leaf_merge, then propagates any
// resulting interior underflow via mergeOrRedistributeInterior.
func (t *Tree) leafMerge(nodeID, sibID, parentID uint32, sibIsLeft bool) error {
	leftID, rightID := nodeID, sibID
	if sibIsLeft {
		leftID, rightID = sibID, nodeID
	}
	leftPage, err := t.Pager.GetPage(leftID)
	if err != nil {
		return err
	}
	rightPage, err := t.Pager.GetPage(rightID)
	if err != nil {
		return err
	}
	parentPage, err := t.Pager.GetPage(parentID)
	if err != nil {
		return err
	}
	lbuf, rbuf, pbuf := leftPage.Data, rightPage.Data, parentPage.Data

	ln, rn := node.NumCells(lbuf), node.NumCells(rbuf)
	for i := uint32(0); i < rn; i++ {
		node.CopyLeafCell(lbuf, ln+i, rbuf, i)
	}
	node.SetNumCells(lbuf, ln+rn)
	node.SetNextLeaf(lbuf, node.NextLeaf(rbuf))
	for i := range rbuf {
		rbuf[i] = 0
	}
	leftPage.Dirty, rightPage.Dirty = true, true

	t.removeChildFromParent(pbuf, rightID, leftID)
	t.fixSurvivorSeparator(pbuf, leftID, lbuf)
	parentPage.Dirty = true

	return t.mergeOrRedistributeInterior(parentID)
}

// removeChildFromParent drops the cell that referenced emptiedID,
// making survivorID the new rightmost pointer if emptiedID was it
// (spec §4.6's leaf_merge/interior_merge parent cleanup, shared by
// both since the parent is always an interior node).
func (t *Tree) removeChildFromParent(pbuf []byte, emptiedID, survivorID uint32) {
	idx, isRightmost := t.childIndexInParent(pbuf, emptiedID)
	numKeys := node.NumKeys(pbuf)
	if isRightmost {
		node.SetRightmost(pbuf, survivorID)
		node.SetNumKeys(pbuf, numKeys-1)
		node.SetInteriorCell(pbuf, numKeys-1, 0, [node.KeySize]byte{})
		return
	}
	for i := idx; i+1 < numKeys; i++ {
		node.CopyInteriorCell(pbuf, i, pbuf, i+1)
	}
	node.SetNumKeys(pbuf, numKeys-1)
	node.SetInteriorCell(pbuf, numKeys-1, 0, [node.KeySize]byte{})
}

// fixSurvivorSeparator updates the parent's separator for survivorID
// to its new (grown) max key, unless it is now the rightmost pointer.
func (t *Tree) fixSurvivorSeparator(pbuf []byte, survivorID uint32, survivorBuf []byte) {
	idx, isRightmost := t.childIndexInParent(pbuf, survivorID)
	if isRightmost {
		return
	}
	node.SetInteriorCell(pbuf, idx, survivorID, maxKeyOf(survivorBuf))
}

// mergeOrRedistributeInterior implements spec §4.6's
// merge_or_redistribute for interior nodes.
func (t *Tree) mergeOrRedistributeInterior(nodeID uint32) error {
	page, err := t.Pager.GetPage(nodeID)
	if err != nil {
		return err
	}
	buf := page.Data
	if node.IsRoot(buf) {
		return t.adjustRoot()
	}
	if node.NumKeys(buf) >= t.Cap.InteriorMin {
		return nil
	}

	parentID := node.Parent(buf)
	parentPage, err := t.Pager.GetPage(parentID)
	if err != nil {
		return err
	}
	pbuf := parentPage.Data
	idx, isRightmost := t.childIndexInParent(pbuf, nodeID)

	var sibID uint32
	sibIsLeft := isRightmost
	if isRightmost {
		sibID = node.InteriorChild(pbuf, node.NumKeys(pbuf)-1)
	} else if idx+1 < node.NumKeys(pbuf) {
		sibID = node.InteriorChild(pbuf, idx+1)
	} else {
		sibID = node.Rightmost(pbuf)
	}
	sibPage, err := t.Pager.GetPage(sibID)
	if err != nil {
		return err
	}
	if node.NumKeys(sibPage.Data) >= t.Cap.InteriorMin+1 {
		return t.interiorRedistribute(nodeID, sibID, parentID, sibIsLeft)
	}
	return t.interiorMerge(nodeID, sibID, parentID, sibIsLeft)
}

// interiorRedistribute implements spec §4.6's interior_redistribute
// ("rotate through parent").
func (t *Tree) interiorRedistribute(nodeID, sibID, parentID uint32, sibIsLeft bool) error {
	nodePage, err := t.Pager.GetPage(nodeID)
	if err != nil {
		return err
	}
	sibPage, err := t.Pager.GetPage(sibID)
	if err != nil {
		return err
	}
	parentPage, err := t.Pager.GetPage(parentID)
	if err != nil {
		return err
	}
	nbuf, sbuf, pbuf := nodePage.Data, sibPage.Data, parentPage.Data

	if sibIsLeft {
		sepIdx := node.NumKeys(pbuf) - 1
		parentSepKey := node.InteriorKey(pbuf, sepIdx)
		transferred := node.Rightmost(sbuf)

		n := node.NumKeys(nbuf)
		for i := n; i > 0; i-- {
			node.CopyInteriorCell(nbuf, i, nbuf, i-1)
		}
		node.SetInteriorCell(nbuf, 0, transferred, parentSepKey)
		node.SetNumKeys(nbuf, n+1)
		if err := t.reparentOne(transferred, nodeID); err != nil {
			return err
		}

		sLast := node.NumKeys(sbuf) - 1
		newParentSep := node.InteriorKey(sbuf, sLast)
		newSRightmost := node.InteriorChild(sbuf, sLast)
		node.SetRightmost(sbuf, newSRightmost)
		node.SetNumKeys(sbuf, sLast)
		node.SetInteriorCell(pbuf, sepIdx, node.InteriorChild(pbuf, sepIdx), newParentSep)
	} else {
		idx, _ := t.childIndexInParent(pbuf, nodeID)
		parentSepKey := node.InteriorKey(pbuf, idx)

		n := node.NumKeys(nbuf)
		node.SetInteriorCell(nbuf, n, node.Rightmost(nbuf), parentSepKey)
		transferred := node.InteriorChild(sbuf, 0)
		node.SetRightmost(nbuf, transferred)
		node.SetNumKeys(nbuf, n+1)
		if err := t.reparentOne(transferred, nodeID); err != nil {
			return err
		}

		sn := node.NumKeys(sbuf)
		newParentSep := node.InteriorKey(sbuf, 0)
		for i := uint32(0); i+1 < sn; i++ {
			node.CopyInteriorCell(sbuf, i, sbuf, i+1)
		}
		node.SetNumKeys(sbuf, sn-1)
		node.SetInteriorCell(pbuf, idx, node.InteriorChild(pbuf, idx), newParentSep)
	}
	nodePage.Dirty, sibPage.Dirty, parentPage.Dirty = true, true, true
	return nil
}

// interiorMerge implements spec §4.6's interior_merge, then propagates
// any resulting grandparent underflow.
func (t *Tree) interiorMerge(nodeID, sibID, parentID uint32, sibIsLeft bool) error {
	leftID, rightID := nodeID, sibID
	if sibIsLeft {
		leftID, rightID = sibID, nodeID
	}
	leftPage, err := t.Pager.GetPage(leftID)
	if err != nil {
		return err
	}
	rightPage, err := t.Pager.GetPage(rightID)
	if err != nil {
		return err
	}
	parentPage, err := t.Pager.GetPage(parentID)
	if err != nil {
		return err
	}
	lbuf, rbuf, pbuf := leftPage.Data, rightPage.Data, parentPage.Data

	idxLeft, _ := t.childIndexInParent(pbuf, leftID)
	parentSepKey := node.InteriorKey(pbuf, idxLeft)

	ln := node.NumKeys(lbuf)
	node.SetInteriorCell(lbuf, ln, node.Rightmost(lbuf), parentSepKey)
	ln++
	rn := node.NumKeys(rbuf)
	for i := uint32(0); i < rn; i++ {
		node.CopyInteriorCell(lbuf, ln+i, rbuf, i)
		if err := t.reparentOne(node.InteriorChild(lbuf, ln+i), leftID); err != nil {
			return err
		}
	}
	node.SetNumKeys(lbuf, ln+rn)
	node.SetRightmost(lbuf, node.Rightmost(rbuf))
	if err := t.reparentOne(node.Rightmost(rbuf), leftID); err != nil {
		return err
	}
	for i := range rbuf {
		rbuf[i] = 0
	}
	leftPage.Dirty, rightPage.Dirty = true, true

	// The merged node's max key is the separator the parent held for the
	// right half; lbuf's last separator is below it.
	idxRight, rightWasRightmost := t.childIndexInParent(pbuf, rightID)
	var rightSepKey [node.KeySize]byte
	if !rightWasRightmost {
		rightSepKey = node.InteriorKey(pbuf, idxRight)
	}
	t.removeChildFromParent(pbuf, rightID, leftID)
	if !rightWasRightmost {
		node.SetInteriorCell(pbuf, idxLeft, leftID, rightSepKey)
	}
	parentPage.Dirty = true

	return t.mergeOrRedistributeInterior(parentID)
}

// adjustRoot implements spec §4.6's adjust_root.
func (t *Tree) adjustRoot() error {
	rootPage, err := t.Pager.GetPage(0)
	if err != nil {
		return err
	}
	buf := rootPage.Data
	if node.Type(buf) == node.TypeLeaf {
		return nil
	}
	if node.NumKeys(buf) != 0 {
		return nil
	}
	onlyChild := node.Rightmost(buf)
	childPage, err := t.Pager.GetPage(onlyChild)
	if err != nil {
		return err
	}
	copy(buf, childPage.Data)
	node.SetIsRoot(buf, true)
	rootPage.Dirty = true
	if node.Type(buf) == node.TypeInterior {
		return t.reparentChildren(buf, 0)
	}
	return nil
}
