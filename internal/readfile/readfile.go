package readfile

import (
	"fmt"
	"os"
	"strings"
)

// ReadNormalized returns the file contents with CRLF line endings folded to
// LF and invalid UTF-8 replaced, so that byte offsets line up with what the
// parser sees.
func ReadNormalized(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}

	normalized := strings.ReplaceAll(string(data), "\r\n", "\n")
	return strings.ToValidUTF8(normalized, "�"), nil
}

// FirstLine returns text up to the first newline.
func FirstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
