package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var errPasswordMismatch = errors.New("passwords do not match")

// passwordPrompt reads secrets line by line. Echo is suppressed when in is
// a terminal; piped input is read as is.
type passwordPrompt struct {
	in     *os.File
	reader *bufio.Reader
	out    io.Writer
}

func newPasswordPrompt(in *os.File, reader io.Reader, out io.Writer) *passwordPrompt {
	return &passwordPrompt{in: in, reader: bufio.NewReader(reader), out: out}
}

func (prompt *passwordPrompt) readSecret(label string) (string, error) {
	fmt.Fprint(prompt.out, label)
	if restore, err := disableEcho(prompt.in); err == nil {
		defer func() {
			restore()
			fmt.Fprintln(prompt.out)
		}()
	}

	line, err := prompt.reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readNewPassword asks twice and requires both entries to match.
func (prompt *passwordPrompt) readNewPassword() (string, error) {
	first, err := prompt.readSecret("New password: ")
	if err != nil {
		return "", err
	}
	second, err := prompt.readSecret("Repeat password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", errPasswordMismatch
	}
	return first, nil
}

// PromptNewPassword asks on out for a new password read from in.
func PromptNewPassword(in *os.File, out io.Writer) (string, error) {
	return newPasswordPrompt(in, in, out).readNewPassword()
}
