// Package node implements the pure, offset-based codec for leaf and
// interior page layouts (spec §3, §4.2). Every accessor copies bytes
// rather than aliasing them, since a page buffer may be reused by the
// pager after the node that referenced it is gone.
package node

import "encoding/binary"

// KeySize is the width of the b column's in-page key representation
// (12 bytes, null-padded, C-string comparison semantics — spec §3).
const KeySize = 12

// CellSize is the width of both a leaf cell ([key(12)|a(4)]) and an
// interior cell ([child(4)|key(12)]) — spec §3.
const CellSize = 16

// Common header layout (spec §3).
const (
	typeOffset   = 0
	isRootOffset = 1
	parentOffset = 2

	commonHeaderSize = 6
)

// Leaf header layout (+8 bytes over the common header — spec §3).
const (
	leafNumCellsOffset = commonHeaderSize
	leafNextLeafOffset = commonHeaderSize + 4

	LeafHeaderSize = commonHeaderSize + 8
)

// Interior header layout (+8 bytes over the common header — spec §3).
const (
	interiorNumKeysOffset  = commonHeaderSize
	interiorRightmostOffset = commonHeaderSize + 4

	InteriorHeaderSize = commonHeaderSize + 8
)

// Node type tags (offset 0 of every page — spec §3).
const (
	TypeInterior byte = 0
	TypeLeaf     byte = 1
)

// Capacities holds the derived capacities for a given page size (spec
// §3's "Derived capacities" table). All constants scale with P, so a
// database opened with a non-default page size (used by small-page
// tests per spec §8) still gets correct split/merge thresholds.
type Capacities struct {
	LeafMax        uint32
	LeafLeftSplit  uint32
	LeafRightSplit uint32
	LeafMin        uint32
	InteriorMax    uint32
	InteriorMin    uint32
}

// Derive computes the capacities for page size p.
func Derive(p uint32) Capacities {
	leafMax := (p-LeafHeaderSize)/CellSize - 1
	leftSplit := (leafMax + 1) / 2
	interiorMax := (p-InteriorHeaderSize)/CellSize - 1
	return Capacities{
		LeafMax:        leafMax,
		LeafLeftSplit:  leftSplit,
		LeafRightSplit: (leafMax + 1) - leftSplit,
		LeafMin:        leafMax / 2,
		InteriorMax:    interiorMax,
		InteriorMin:    1,
	}
}

// Type returns the node type tag stored in buf.
func Type(buf []byte) byte { return buf[typeOffset] }

// SetType writes the node type tag.
func SetType(buf []byte, t byte) { buf[typeOffset] = t }

// IsRoot reports whether buf is marked as the tree root.
func IsRoot(buf []byte) bool { return buf[isRootOffset] == 1 }

// SetIsRoot sets or clears the root flag.
func SetIsRoot(buf []byte, v bool) {
	if v {
		buf[isRootOffset] = 1
	} else {
		buf[isRootOffset] = 0
	}
}

// Parent returns the parent page id.
func Parent(buf []byte) uint32 { return binary.LittleEndian.Uint32(buf[parentOffset : parentOffset+4]) }

// SetParent writes the parent page id.
func SetParent(buf []byte, id uint32) {
	binary.LittleEndian.PutUint32(buf[parentOffset:parentOffset+4], id)
}

// --- Leaf accessors ---

// NumCells returns the leaf's cell count.
func NumCells(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[leafNumCellsOffset : leafNumCellsOffset+4])
}

// SetNumCells writes the leaf's cell count.
func SetNumCells(buf []byte, n uint32) {
	binary.LittleEndian.PutUint32(buf[leafNumCellsOffset:leafNumCellsOffset+4], n)
}

// NextLeaf returns the next_leaf_page_id field (0 means end-of-chain).
func NextLeaf(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[leafNextLeafOffset : leafNextLeafOffset+4])
}

// SetNextLeaf writes the next_leaf_page_id field.
func SetNextLeaf(buf []byte, id uint32) {
	binary.LittleEndian.PutUint32(buf[leafNextLeafOffset:leafNextLeafOffset+4], id)
}

// LeafCellOffset returns the byte offset of cell i within the page.
func LeafCellOffset(i uint32) uint32 {
	return LeafHeaderSize + i*CellSize
}

// LeafKey returns a copy of cell i's 12-byte key.
func LeafKey(buf []byte, i uint32) [KeySize]byte {
	var k [KeySize]byte
	off := LeafCellOffset(i)
	copy(k[:], buf[off:off+KeySize])
	return k
}

// LeafValueA returns cell i's `a` column.
func LeafValueA(buf []byte, i uint32) uint32 {
	off := LeafCellOffset(i) + KeySize
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

// SetLeafCell writes cell i's full [key(12)|a(4)] payload.
func SetLeafCell(buf []byte, i uint32, key [KeySize]byte, a uint32) {
	off := LeafCellOffset(i)
	copy(buf[off:off+KeySize], key[:])
	binary.LittleEndian.PutUint32(buf[off+KeySize:off+KeySize+4], a)
}

// CopyLeafCell copies cell src from srcBuf into cell dst of dstBuf.
func CopyLeafCell(dstBuf []byte, dst uint32, srcBuf []byte, src uint32) {
	dstOff, srcOff := LeafCellOffset(dst), LeafCellOffset(src)
	copy(dstBuf[dstOff:dstOff+CellSize], srcBuf[srcOff:srcOff+CellSize])
}

// ZeroLeafCell clears cell i.
func ZeroLeafCell(buf []byte, i uint32) {
	off := LeafCellOffset(i)
	for j := off; j < off+CellSize; j++ {
		buf[j] = 0
	}
}

// LeafMaxKey returns the key of the last cell. Only defined when
// NumCells(buf) > 0 (spec §4.2).
func LeafMaxKey(buf []byte) [KeySize]byte {
	return LeafKey(buf, NumCells(buf)-1)
}

// --- Interior accessors ---

// NumKeys returns the interior node's separator count.
func NumKeys(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[interiorNumKeysOffset : interiorNumKeysOffset+4])
}

// SetNumKeys writes the interior node's separator count.
func SetNumKeys(buf []byte, n uint32) {
	binary.LittleEndian.PutUint32(buf[interiorNumKeysOffset:interiorNumKeysOffset+4], n)
}

// Rightmost returns the rightmost_child_page_id field.
func Rightmost(buf []byte) uint32 {
	return binary.LittleEndian.Uint32(buf[interiorRightmostOffset : interiorRightmostOffset+4])
}

// SetRightmost writes the rightmost_child_page_id field.
func SetRightmost(buf []byte, id uint32) {
	binary.LittleEndian.PutUint32(buf[interiorRightmostOffset:interiorRightmostOffset+4], id)
}

// InteriorCellOffset returns the byte offset of cell i within the page.
func InteriorCellOffset(i uint32) uint32 {
	return InteriorHeaderSize + i*CellSize
}

// InteriorChild returns cell i's left-child page id.
func InteriorChild(buf []byte, i uint32) uint32 {
	off := InteriorCellOffset(i)
	return binary.LittleEndian.Uint32(buf[off : off+4])
}

// InteriorKey returns a copy of cell i's 12-byte separator key.
func InteriorKey(buf []byte, i uint32) [KeySize]byte {
	var k [KeySize]byte
	off := InteriorCellOffset(i) + 4
	copy(k[:], buf[off:off+KeySize])
	return k
}

// SetInteriorCell writes cell i's full [child(4)|key(12)] payload.
func SetInteriorCell(buf []byte, i uint32, child uint32, key [KeySize]byte) {
	off := InteriorCellOffset(i)
	binary.LittleEndian.PutUint32(buf[off:off+4], child)
	copy(buf[off+4:off+4+KeySize], key[:])
}

// CopyInteriorCell copies cell src from srcBuf into cell dst of dstBuf.
func CopyInteriorCell(dstBuf []byte, dst uint32, srcBuf []byte, src uint32) {
	dstOff, srcOff := InteriorCellOffset(dst), InteriorCellOffset(src)
	copy(dstBuf[dstOff:dstOff+CellSize], srcBuf[srcOff:srcOff+CellSize])
}

// InteriorMaxKey returns the separator of the last cell. Only defined
// when NumKeys(buf) > 0 (spec §4.2).
func InteriorMaxKey(buf []byte) [KeySize]byte {
	return InteriorKey(buf, NumKeys(buf)-1)
}

// KeyFromString packs s (already validated to be <=11 bytes) into the
// 12-byte null-padded key representation.
func KeyFromString(s string) [KeySize]byte {
	var k [KeySize]byte
	copy(k[:], s)
	return k
}

// KeyString trims the key back down to its Go string, up to the first
// NUL, matching the C-string comparison semantics used to order keys.
func KeyString(k [KeySize]byte) string {
	for i, b := range k {
		if b == 0 {
			return string(k[:i])
		}
	}
	return string(k[:])
}

// CompareKeys orders two keys by C-string semantics: bytes up to the
// first NUL (spec §3).
func CompareKeys(a, b [KeySize]byte) int {
	as, bs := KeyString(a), KeyString(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}
