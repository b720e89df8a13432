package control

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

const prompt = "> "

// RunTerminal reads commands from in and writes replies to out until ctx
// is done, in reaches EOF, or the user types quit. When in is a terminal
// it is switched to raw mode and driven through a line editor.
func RunTerminal(ctx context.Context, s *Surface, in io.Reader, out io.Writer) error {
	var readLine func() (string, error)
	w := out
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("failed to set raw mode: %w", err)
		}
		defer func() {
			_ = term.Restore(fd, oldState)
		}()
		t := term.NewTerminal(struct {
			io.Reader
			io.Writer
		}{in, out}, prompt)
		readLine = t.ReadLine
		w = t
	} else {
		scanner := bufio.NewScanner(in)
		readLine = func() (string, error) {
			if scanner.Scan() {
				return scanner.Text(), nil
			}
			if err := scanner.Err(); err != nil {
				return "", err
			}
			return "", io.EOF
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	lines := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		for {
			line, err := readLine()
			if err != nil {
				errCh <- err
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if err == io.EOF {
				return nil
			}
			return err
		case line := <-lines:
			switch line {
			case "quit", "exit":
				return ErrQuit
			}
			if reply := execLine(s, line); reply != "" {
				fmt.Fprintln(w, reply)
			}
		}
	}
}
