// Package row holds the fixed (a, b) record type that spec.md §1 treats
// as an external collaborator of the core: it has no tree-structural
// knowledge, only the schema's validation rules. The byte encoding of a
// row into a leaf cell lives in package node.
package row

import "myjql/dberr"

// MaxBLen is the longest string column b may hold (spec §1, §3).
const MaxBLen = 11

// Row is the fixed schema record: a 32-bit unsigned integer and a
// string key of at most MaxBLen bytes.
type Row struct {
	A uint32
	B string
}

// Validate enforces the two BadInput cases named in spec §6: a must be
// non-negative (callers parse it as a decimal integer before this, so
// the only thing left to check here is the range a uint32 already
// guarantees) and b must fit in MaxBLen bytes.
func Validate(b string) error {
	if len(b) > MaxBLen {
		return dberr.Wrap(dberr.ErrBadInput, "String for column `b` is too long.")
	}
	return nil
}

// New builds a Row, validating b.
func New(a uint32, b string) (Row, error) {
	if err := Validate(b); err != nil {
		return Row{}, err
	}
	return Row{A: a, B: b}, nil
}
