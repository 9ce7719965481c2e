package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const titlePrompt = "Enter a movie name: "

var errNoTitle = errors.New("no title given; pass one as an argument or on stdin")

func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// readTitle reads one line from in. The prompt is written only when the
// session is interactive. Only the line ending is stripped so lookups stay
// exact.
func readTitle(in io.Reader, out io.Writer, interactive bool) (string, error) {
	if interactive {
		fmt.Fprint(out, titlePrompt)
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read title: %w", err)
		}
		if line == "" {
			return "", errNoTitle
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}
