package myjql

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"myjql/row"
)

type statementKind int

const (
	stmtInsert statementKind = iota
	stmtSelect
	stmtDelete
)

// statement is the parsed form of one non-meta REPL line (spec §6).
type statement struct {
	kind      statementKind
	a         uint32
	b         string
	hasFilter bool
}

// parseStatement implements the token-count dispatch of
// original_source/myjql.c's prepare_condition, generalised to
// insert/select/delete (spec §6, SPEC_FULL.md §7). The returned error's
// Error() text is printed verbatim by the REPL, so every message here
// must match spec §6 exactly — hence errors.New rather than errors.Wrap,
// which would append a wrapped cause suffix.
func parseStatement(line string) (statement, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return statement{}, errors.Errorf("Unrecognized keyword at start of '%s'.", line)
	}

	switch fields[0] {
	case "insert":
		if len(fields) != 3 {
			return statement{}, errors.New("Syntax error. Could not parse statement.")
		}
		a, err := strconv.Atoi(fields[1])
		if err != nil {
			return statement{}, errors.New("Syntax error. Could not parse statement.")
		}
		if a < 0 {
			return statement{}, errors.New("Column `a` must be positive.")
		}
		b := fields[2]
		if err := row.Validate(b); err != nil {
			return statement{}, errors.New("String for column `b` is too long.")
		}
		return statement{kind: stmtInsert, a: uint32(a), b: b}, nil

	case "select":
		switch len(fields) {
		case 1:
			return statement{kind: stmtSelect}, nil
		case 2:
			return statement{kind: stmtSelect, b: fields[1], hasFilter: true}, nil
		default:
			return statement{}, errors.New("Syntax error. Could not parse statement.")
		}

	case "delete":
		switch len(fields) {
		case 2:
			return statement{kind: stmtDelete, b: fields[1]}, nil
		default:
			// A delete with no key is a syntax error (spec §6).
			return statement{}, errors.New("Syntax error. Could not parse statement.")
		}

	default:
		return statement{}, errors.Errorf("Unrecognized keyword at start of '%s'.", line)
	}
}
