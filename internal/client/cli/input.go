package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal seams, replaced in tests.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// promptLine prints label and reads one trimmed line. A final line without
// a newline is accepted.
func (a *App) promptLine(w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label+": ")
	line, err := a.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads without echo on a terminal and falls back to a
// plain line when input is piped.
func (a *App) promptPassword(w io.Writer, label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		return a.promptLine(w, label)
	}
	fmt.Fprint(w, label+": ")
	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// valueOr returns flag when set, otherwise prompts.
func (a *App) valueOr(w io.Writer, flag, label string, secret bool) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if secret {
		return a.promptPassword(w, label)
	}
	return a.promptLine(w, label)
}
