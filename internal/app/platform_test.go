package app

import (
	"errors"
	"reflect"
	"testing"
)

func TestDetectEditorCommandWindowsFallbacks(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		switch cmd {
		case "notepad++.exe":
			return `C:\Program Files\Notepad++\notepad++.exe`, nil
		default:
			return "", errors.New("not found")
		}
	}
	getenv := func(string) string { return "" }
	args, ok := detectEditorCommandInternal("windows", "", getenv, lookPath)
	if !ok {
		t.Fatalf("expected editor fallback")
	}
	expected := []string{`C:\Program Files\Notepad++\notepad++.exe`}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectEditorCommandUnixFallbacks(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		if cmd == "nano" {
			return "/usr/bin/nano", nil
		}
		return "", errors.New("not found")
	}
	getenv := func(string) string { return "" }
	args, ok := detectEditorCommandInternal("linux", "", getenv, lookPath)
	if !ok {
		t.Fatalf("expected editor fallback")
	}
	expected := []string{"/usr/bin/nano"}
	if !reflect.DeepEqual(args, expected) {
		t.Fatalf("expected %v, got %v", expected, args)
	}
}

func TestDetectEditorCommandPrefersConfigured(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		return "/usr/bin/" + cmd, nil
	}
	getenv := func(name string) string {
		if name == "EDITOR" {
			return "vim"
		}
		return ""
	}

	args, ok := detectEditorCommandInternal("linux", "code --wait", getenv, lookPath)
	if !ok || !reflect.DeepEqual(args, []string{"/usr/bin/code", "--wait"}) {
		t.Fatalf("configured editor not used: %v", args)
	}

	args, ok = detectEditorCommandInternal("linux", "", getenv, lookPath)
	if !ok || !reflect.DeepEqual(args, []string{"/usr/bin/vim"}) {
		t.Fatalf("$EDITOR not used: %v", args)
	}
}

func TestDetectEditorCommandSkipsMissingPrograms(t *testing.T) {
	lookPath := func(cmd string) (string, error) {
		if cmd == "vim" {
			return "/usr/bin/vim", nil
		}
		return "", errors.New("not found")
	}
	getenv := func(name string) string {
		if name == "VISUAL" {
			return "missing-editor -w"
		}
		return ""
	}

	args, ok := detectEditorCommandInternal("linux", "", getenv, lookPath)
	if !ok || !reflect.DeepEqual(args, []string{"/usr/bin/vim"}) {
		t.Fatalf("expected fallback to vim, got %v", args)
	}
}

func TestParseEditorCommand(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"  vim  ", []string{"vim"}},
		{"code --wait", []string{"code", "--wait"}},
		{`"/opt/My Editor/bin/ed" -n`, []string{"/opt/My Editor/bin/ed", "-n"}},
		{`emacs -eval '(message "hi")'`, []string{"emacs", "-eval", `(message "hi")`}},
	}

	for _, tt := range tests {
		if got := parseEditorCommand(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("parseEditorCommand(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}
