package myjql

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"myjql/btree"
)

func newTestREPL(t *testing.T, in string) (*REPL, *bytes.Buffer, func()) {
	f, err := os.CreateTemp("", "myjql-repl-*.db")
	if err != nil {
		t.Fatal(err)
	}
	name := f.Name()
	f.Close()

	tree, err := btree.Open(name, 128)
	if err != nil {
		t.Fatalf("btree.Open: %v", err)
	}

	var out bytes.Buffer
	repl := New(tree, strings.NewReader(in), &out)
	cleanup := func() {
		tree.Close()
		os.Remove(name)
	}
	return repl, &out, cleanup
}

func TestREPLInsertSelect(t *testing.T) {
	repl, out, cleanup := newTestREPL(t, "insert 1 apple\ninsert 2 banana\ninsert 3 cherry\nselect\n.exit\n")
	defer cleanup()

	if err := repl.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	got := out.String()
	want := "(1, apple)\n(2, banana)\n(3, cherry)\n"
	if !strings.Contains(got, want) {
		t.Errorf("output %q does not contain %q", got, want)
	}
	if !strings.HasSuffix(strings.TrimRight(got, "\n"), "bye~") {
		t.Errorf("output %q should end with bye~", got)
	}
}

func TestREPLSelectEmpty(t *testing.T) {
	repl, out, cleanup := newTestREPL(t, "select\n.exit\n")
	defer cleanup()

	if err := repl.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "(Empty)\n") {
		t.Errorf("output %q should contain (Empty)", out.String())
	}
}

func TestREPLDeleteRoundTrip(t *testing.T) {
	repl, out, cleanup := newTestREPL(t, "insert 1 k\ninsert 2 k\ndelete k\nselect k\n.exit\n")
	defer cleanup()

	if err := repl.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "(Empty)\n") {
		t.Errorf("output %q should contain (Empty) after deleting all copies of the key", out.String())
	}
}

func TestREPLErrorMessages(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"insert -1 apple", "Column `a` must be positive."},
		{"insert 1 abcdefghijkl", "String for column `b` is too long."},
		{"insert 1", "Syntax error. Could not parse statement."},
		{"delete", "Syntax error. Could not parse statement."},
		{"frobnicate", "Unrecognized keyword at start of 'frobnicate'."},
	}
	for _, c := range cases {
		repl, out, cleanup := newTestREPL(t, c.line+"\n.exit\n")
		if err := repl.Run(); err != nil {
			t.Fatalf("Run(%q): %v", c.line, err)
		}
		if !strings.Contains(out.String(), c.want) {
			t.Errorf("line %q: output %q does not contain %q", c.line, out.String(), c.want)
		}
		cleanup()
	}
}

func TestREPLUnrecognizedMetaCommand(t *testing.T) {
	repl, out, cleanup := newTestREPL(t, ".foo\n.exit\n")
	defer cleanup()

	if err := repl.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Unrecognized command '.foo'.") {
		t.Errorf("output %q should report the unrecognized command", out.String())
	}
}

func TestREPLConstants(t *testing.T) {
	repl, out, cleanup := newTestREPL(t, ".constants\n.exit\n")
	defer cleanup()

	if err := repl.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, want := range []string{"ROW_SIZE:", "LEAF_NODE_MAX_CELLS:"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output %q should contain %q", out.String(), want)
		}
	}
}

func TestREPLInputTooLong(t *testing.T) {
	longLine := strings.Repeat("x", 40)
	repl, out, cleanup := newTestREPL(t, longLine+"\n.exit\n")
	defer cleanup()

	if err := repl.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "Input is too long.") {
		t.Errorf("output %q should report the too-long input", out.String())
	}
}

func TestREPLEOFTerminatesCleanly(t *testing.T) {
	repl, _, cleanup := newTestREPL(t, "insert 1 apple")
	defer cleanup()

	if err := repl.Run(); err != nil {
		t.Fatalf("Run on EOF mid-line: %v", err)
	}
}
