package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dmitrijs2005/codeauth/internal/common"
)

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
//
// Example prompt format:
//
//	Prompt text
//	> _
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetPassword prints prompt to w and reads a password from the user's
// terminal without echo. A newline is printed after the read to keep the
// UI tidy. When ctx is cancelled first, ctx.Err() is returned and the
// terminal read is left to finish on its own; its result is wiped.
//
// The returned byte slice should be wiped by the caller when no longer needed.
func GetPassword(ctx context.Context, w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}

	type result struct {
		pw  []byte
		err error
	}
	read := readPassword
	ch := make(chan result)
	abandoned := make(chan struct{})
	go func() {
		pw, err := read(int(os.Stdin.Fd()))
		select {
		case ch <- result{pw, err}:
		case <-abandoned:
			common.WipeByteArray(pw)
		}
	}()

	select {
	case <-ctx.Done():
		close(abandoned)
		fmt.Fprintln(w)
		return nil, ctx.Err()
	case r := <-ch:
		fmt.Fprintln(w)
		if r.err != nil {
			return nil, r.err
		}
		return r.pw, nil
	}
}

// contextReader makes reads from src return ctx.Err() once ctx is done.
// Reads are issued one at a time and only on demand, so nothing is read
// ahead of what the caller asked for. A read still blocked in src when ctx
// is cancelled is abandoned together with its data.
type contextReader struct {
	ctx     context.Context
	src     io.Reader
	pending chan readResult
}

type readResult struct {
	b   []byte
	err error
}

func newContextReader(ctx context.Context, src io.Reader) *contextReader {
	return &contextReader{ctx: ctx, src: src}
}

func (r *contextReader) Read(p []byte) (int, error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	if r.pending == nil {
		ch := make(chan readResult, 1)
		buf := make([]byte, len(p))
		src := r.src
		go func() {
			n, err := src.Read(buf)
			ch <- readResult{buf[:n], err}
		}()
		r.pending = ch
	}

	select {
	case <-r.ctx.Done():
		return 0, r.ctx.Err()
	case res := <-r.pending:
		r.pending = nil
		return copy(p, res.b), res.err
	}
}
