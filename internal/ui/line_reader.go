package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/peterh/liner"
	"github.com/pkg/errors"
)

// ErrInterrupted is returned by ReadLine when the user presses Ctrl-C at the
// prompt.
var ErrInterrupted = errors.New("prompt interrupted")

// LineReader reads single lines of user input. ReadLine returns io.EOF when
// the input is exhausted.
type LineReader interface {
	ReadLine(prompt string) (string, error)
	Close() error
}

// NewLineReader returns a line editor with history when both in and out are
// terminals, and a plain scanner otherwise so piped input and tests work.
// historyFile may be empty to keep history in memory only.
func NewLineReader(in io.Reader, out io.Writer, historyFile string) LineReader {
	if fi, ok := in.(*os.File); ok {
		if fo, ok := out.(*os.File); ok {
			if isatty.IsTerminal(fi.Fd()) && isatty.IsTerminal(fo.Fd()) {
				l := liner.NewLiner()
				l.SetCtrlCAborts(true)
				l.SetMultiLineMode(false)
				lr := &linerReader{l: l, historyFile: historyFile}
				lr.loadHistory()
				return lr
			}
		}
	}
	return &scannerReader{scanner: bufio.NewScanner(in), out: out}
}

type scannerReader struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (s *scannerReader) ReadLine(prompt string) (string, error) {
	if _, err := fmt.Fprint(s.out, prompt); err != nil {
		return "", err
	}
	if s.scanner.Scan() {
		return s.scanner.Text(), nil
	}
	if err := s.scanner.Err(); err != nil {
		return "", errors.Wrap(err, "error reading input")
	}
	return "", io.EOF
}

func (s *scannerReader) Close() error { return nil }

type linerReader struct {
	l           *liner.State
	historyFile string
}

func (lr *linerReader) ReadLine(prompt string) (string, error) {
	line, err := lr.l.Prompt(strings.TrimRight(prompt, "\n"))
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", ErrInterrupted
		}
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		return "", errors.Wrap(err, "error reading input")
	}
	if strings.TrimSpace(line) != "" {
		lr.l.AppendHistory(line)
	}
	return line, nil
}

func (lr *linerReader) loadHistory() {
	if lr.historyFile == "" {
		return
	}
	if f, err := os.Open(lr.historyFile); err == nil {
		lr.l.ReadHistory(f)
		f.Close()
	}
}

func (lr *linerReader) saveHistory() {
	if lr.historyFile == "" {
		return
	}
	if err := os.MkdirAll(filepath.Dir(lr.historyFile), 0o700); err != nil {
		return
	}
	f, err := os.OpenFile(lr.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	lr.l.WriteHistory(f)
}

// Close persists the history, if a file was given, and restores the terminal.
func (lr *linerReader) Close() error {
	lr.saveHistory()
	return lr.l.Close()
}
