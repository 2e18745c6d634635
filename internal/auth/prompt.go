package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// TerminalCodeProvider returns a CodeProvider that writes the prompt to
// w and reads one line from r. The read runs in its own goroutine so a
// canceled context does not leave the caller blocked on input.
func TerminalCodeProvider(r io.Reader, w io.Writer) CodeProvider {
	br := bufio.NewReader(r)
	return func(ctx context.Context, prompt string) (string, error) {
		fmt.Fprint(w, prompt)

		type lineResult struct {
			line string
			err  error
		}
		ch := make(chan lineResult, 1)
		go func() {
			line, err := br.ReadString('\n')
			ch <- lineResult{line: line, err: err}
		}()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res := <-ch:
			if res.err != nil && res.line == "" {
				return "", res.err
			}
			return strings.TrimSpace(res.line), nil
		}
	}
}
