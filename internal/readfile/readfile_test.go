package readfile

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestReadNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   string
		out  string
	}{
		{
			name: "empty file",
			in:   "",
			out:  "",
		},
		{
			name: "unix newlines",
			in:   "one\ntwo\n",
			out:  "one\ntwo\n",
		},
		{
			name: "windows newlines",
			in:   "one\r\ntwo\r\n",
			out:  "one\ntwo\n",
		},
		{
			name: "standalone carriage returns preserved",
			in:   "a\rb\n\r\n",
			out:  "a\rb\n\n",
		},
		{
			name: "invalid utf8 replaced",
			in:   "a\xffb",
			out:  "a�b",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			path := filepath.Join(tmpDir, "input.txt")
			if err := os.WriteFile(path, []byte(tc.in), 0o644); err != nil {
				t.Fatalf("write temp file: %v", err)
			}

			got, err := ReadNormalized(path)
			if err != nil {
				t.Fatalf("ReadNormalized: %v", err)
			}
			if got != tc.out {
				t.Fatalf("got %q want %q", got, tc.out)
			}
		})
	}
}

func TestReadNormalizedMissingFile(t *testing.T) {
	_, err := ReadNormalized(filepath.Join(t.TempDir(), "missing.go"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("got %v want fs.ErrNotExist", err)
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"#!/bin/sh", "#!/bin/sh"},
		{"#!/usr/bin/env python\nprint()\n", "#!/usr/bin/env python"},
	}
	for _, tc := range tests {
		if got := FirstLine(tc.in); got != tc.want {
			t.Fatalf("FirstLine(%q): got %q want %q", tc.in, got, tc.want)
		}
	}
}
