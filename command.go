package myjql

import (
	"fmt"
	"io"

	"myjql/btree"
)

// metaResult tells the REPL loop whether to keep reading.
type metaResult int

const (
	metaContinue metaResult = iota
	metaExit
)

// doMetaCommand implements original_source/myjql.c's do_meta_command,
// generalised to this engine's own structural constants (spec §6).
func doMetaCommand(line string, tree *btree.Tree, out io.Writer) metaResult {
	switch line {
	case ".exit":
		return metaExit
	case ".constants":
		fmt.Fprintln(out, "Constants:")
		printConstants(tree.Constants(), out)
		return metaContinue
	default:
		fmt.Fprintf(out, "Unrecognized command '%s'.\n", line)
		return metaContinue
	}
}

func printConstants(c btree.Constants, out io.Writer) {
	fmt.Fprintf(out, "ROW_SIZE: %d\n", c.RowSize)
	fmt.Fprintf(out, "COMMON_NODE_HEADER_SIZE: %d\n", c.CommonNodeHeaderSize)
	fmt.Fprintf(out, "LEAF_NODE_HEADER_SIZE: %d\n", c.LeafNodeHeaderSize)
	fmt.Fprintf(out, "LEAF_NODE_CELL_SIZE: %d\n", c.LeafNodeCellSize)
	fmt.Fprintf(out, "LEAF_NODE_SPACE_FOR_CELLS: %d\n", c.LeafNodeSpaceForCells)
	fmt.Fprintf(out, "LEAF_NODE_MAX_CELLS: %d\n", c.LeafNodeMaxCells)
}
