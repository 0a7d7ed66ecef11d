package node

import "testing"

func TestDerive(t *testing.T) {
	c := Derive(128)
	if c.LeafMax != (128-LeafHeaderSize)/CellSize-1 {
		t.Errorf("LeafMax = %d", c.LeafMax)
	}
	if c.LeafLeftSplit+c.LeafRightSplit != c.LeafMax+1 {
		t.Errorf("split halves %d+%d != %d", c.LeafLeftSplit, c.LeafRightSplit, c.LeafMax+1)
	}
	if c.LeafMin != c.LeafMax/2 {
		t.Errorf("LeafMin = %d; want %d", c.LeafMin, c.LeafMax/2)
	}
}

func TestLeafCellRoundTrip(t *testing.T) {
	buf := make([]byte, 128)
	SetType(buf, TypeLeaf)
	SetNumCells(buf, 2)
	SetLeafCell(buf, 0, KeyFromString("apple"), 1)
	SetLeafCell(buf, 1, KeyFromString("banana"), 2)

	if got := KeyString(LeafKey(buf, 0)); got != "apple" {
		t.Errorf("key 0 = %q; want apple", got)
	}
	if got := LeafValueA(buf, 1); got != 2 {
		t.Errorf("a 1 = %d; want 2", got)
	}
	if got := KeyString(LeafMaxKey(buf)); got != "banana" {
		t.Errorf("max key = %q; want banana", got)
	}
}

func TestInteriorCellRoundTrip(t *testing.T) {
	buf := make([]byte, 128)
	SetType(buf, TypeInterior)
	SetNumKeys(buf, 1)
	SetRightmost(buf, 9)
	SetInteriorCell(buf, 0, 3, KeyFromString("m"))

	if InteriorChild(buf, 0) != 3 {
		t.Errorf("child = %d; want 3", InteriorChild(buf, 0))
	}
	if KeyString(InteriorKey(buf, 0)) != "m" {
		t.Errorf("key = %q; want m", KeyString(InteriorKey(buf, 0)))
	}
	if Rightmost(buf) != 9 {
		t.Errorf("rightmost = %d; want 9", Rightmost(buf))
	}
}

func TestCompareKeys(t *testing.T) {
	if CompareKeys(KeyFromString("a"), KeyFromString("b")) >= 0 {
		t.Error("a should sort before b")
	}
	if CompareKeys(KeyFromString("same"), KeyFromString("same")) != 0 {
		t.Error("equal keys should compare equal")
	}
}

func TestZeroLeafCell(t *testing.T) {
	buf := make([]byte, 128)
	SetLeafCell(buf, 0, KeyFromString("x"), 7)
	ZeroLeafCell(buf, 0)
	if LeafValueA(buf, 0) != 0 {
		t.Error("expected zeroed cell")
	}
	if KeyString(LeafKey(buf, 0)) != "" {
		t.Error("expected zeroed key")
	}
}
