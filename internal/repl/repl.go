package repl

import (
	"bufio"
	"fmt"
	"io"

	"forthic/internal/errors"
	"forthic/internal/interp"
)

const PROMPT = ">> "

// Start runs a read-eval-print loop over the interpreter. Each line is fed
// to the streaming lexer, so strings and comments may span lines; the top of
// stack prints after each complete line.
func Start(in io.Reader, out io.Writer, i *interp.Interpreter) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Fprint(out, PROMPT)
		if !scanner.Scan() {
			return
		}

		// Re-append the newline the scanner stripped; comments need it
		// to terminate.
		if err := i.Run(scanner.Text() + "\n"); err != nil {
			io.WriteString(out, errors.FormatWithContext(err))
			io.WriteString(out, "\n")
			continue
		}

		if top := i.StackPeek(); top != nil {
			io.WriteString(out, top.Inspect())
			io.WriteString(out, "\n")
		}
	}
}
