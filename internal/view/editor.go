package view

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// defaultEditorTemplate is used when no editor command is configured and
// $EDITOR is unset.
const defaultEditorTemplate = "vi +{line} {file}"

// editorCommand expands template for file at line. Supported placeholders
// are {file}, {line} and {target} (file:line). An empty template falls back
// to $EDITOR.
func editorCommand(template string, file string, line int) (*exec.Cmd, error) {
	template = strings.TrimSpace(template)
	if template == "" {
		if ed := strings.TrimSpace(os.Getenv("EDITOR")); ed != "" {
			template = ed + " +{line} {file}"
		} else {
			template = defaultEditorTemplate
		}
	}

	parts, err := splitCommandLine(template)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("editor command is empty")
	}

	repl := strings.NewReplacer(
		"{file}", file,
		"{line}", strconv.Itoa(line),
		"{target}", fmt.Sprintf("%s:%d", file, line),
	)
	for i := range parts {
		parts[i] = repl.Replace(parts[i])
	}

	name, err := exec.LookPath(parts[0])
	if err != nil {
		return nil, fmt.Errorf("editor command not found: %s", parts[0])
	}
	return exec.Command(name, parts[1:]...), nil //nolint:gosec // user-configured editor
}

// splitCommandLine splits on unquoted whitespace. Single and double quotes
// group words and are removed.
func splitCommandLine(input string) ([]string, error) {
	var (
		parts   []string
		current strings.Builder
		active  bool
		quote   rune
	)

	flush := func() {
		if !active {
			return
		}
		parts = append(parts, current.String())
		current.Reset()
		active = false
	}

	for _, r := range input {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			current.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			active = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			current.WriteRune(r)
			active = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("editor command has unclosed quote")
	}

	flush()
	return parts, nil
}
