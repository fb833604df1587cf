package lang

import "testing"

func TestDetect(t *testing.T) {
	tests := map[string]ID{
		"main.go":           Go,
		"index.HTML":        HTML,
		"site.css":          CSS,
		"README.md":         Markdown,
		"Cargo.toml":        TOML,
		"package-lock.json": JSON,
		"notes.txt":         Plain,
	}
	for path, want := range tests {
		if got := Detect(path); got != want {
			t.Fatalf("Detect(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestDetectWithShebang(t *testing.T) {
	if got := DetectWithShebang("script", "#!/usr/bin/env python"); got != Python {
		t.Fatalf("lang = %q, want %q", got, Python)
	}
	if got := DetectWithShebang("script", "echo hi"); got != Plain {
		t.Fatalf("lang = %q, want %q", got, Plain)
	}
}

func TestFromName(t *testing.T) {
	tests := map[string]ID{
		"js":            JavaScript,
		"Golang":        Go,
		"python title=": Python,
		"":              Plain,
		"brainfuck":     Plain,
	}
	for name, want := range tests {
		if got := FromName(name); got != want {
			t.Fatalf("FromName(%q) = %q, want %q", name, got, want)
		}
	}
}
