package myjql

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxInputLen is the REPL's per-line input cap (spec §6).
const maxInputLen = 31

func printPrompt(out io.Writer) {
	fmt.Fprint(out, "myjql> ")
}

// readLine reads one line from reader. eof reports a clean end of
// input (spec §6: "An EOF terminates the session with success.");
// tooLong reports a line whose content exceeded maxInputLen, already
// discarded to end-of-line by the ReadString below.
func readLine(reader *bufio.Reader) (line string, eof bool, tooLong bool, err error) {
	raw, rerr := reader.ReadString('\n')
	if rerr != nil {
		if rerr == io.EOF {
			return "", true, false, nil
		}
		return "", false, false, rerr
	}
	line = strings.TrimSuffix(raw, "\n")
	line = strings.TrimSuffix(line, "\r")
	if len(line) > maxInputLen {
		return "", false, true, nil
	}
	return line, false, false, nil
}
