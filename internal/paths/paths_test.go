package paths

import (
	"errors"
	"testing"
)

func TestNormalizeDirRoot(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/", ""},
		{"templates", "templates/"},
		{"templates/", "templates/"},
		{"/templates/", "templates/"},
		{"templates//", "templates/"},
		{"a//b", "a/b/"},
	}
	for _, tc := range tests {
		if got := NormalizeDirRoot(tc.in); got != tc.want {
			t.Fatalf("NormalizeDirRoot(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeNotePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Foo", "Foo.md"},
		{"Foo.md", "Foo.md"},
		{"Foo.MD", "Foo.MD"},
		{"/people/Freya.md", "people/Freya.md"},
		{"./people//Freya", "people/Freya.md"},
		{`people\Freya`, "people/Freya.md"},
		{"  notes / idea  ", "notes/idea.md"},
		{"What? A *note*: yes", "What A note yes.md"},
		{"projects/[[Bifrost]]", "projects/Bifrost.md"},
		{"a/./b", "a/b.md"},
		{"Release 1.2", "Release 1.2.md"},
	}
	for _, tc := range tests {
		got, err := SanitizeNotePath(tc.in)
		if err != nil {
			t.Fatalf("SanitizeNotePath(%q) unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("SanitizeNotePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSanitizeNotePathErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrEmptyPath},
		{"   ", ErrEmptyPath},
		{"///", ErrEmptyPath},
		{"???", ErrEmptyPath},
		{"../secret", ErrPathOutsideVault},
		{"a/../../b", ErrPathOutsideVault},
	}
	for _, tc := range tests {
		_, err := SanitizeNotePath(tc.in)
		if !errors.Is(err, tc.want) {
			t.Errorf("SanitizeNotePath(%q) error = %v, want %v", tc.in, err, tc.want)
		}
	}
}

func TestSanitizeDirPath(t *testing.T) {
	got, err := SanitizeDirPath("/templates/daily/")
	if err != nil {
		t.Fatal(err)
	}
	if got != "templates/daily" {
		t.Errorf("got %q", got)
	}
	got, err = SanitizeDirPath("")
	if err != nil || got != "" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestNoteName(t *testing.T) {
	tests := map[string]string{
		"people/Freya.md":    "Freya",
		"Foo.md":             "Foo",
		"a/b/Release 1.2.md": "Release 1.2",
		"plain":              "plain",
	}
	for in, want := range tests {
		if got := NoteName(in); got != want {
			t.Errorf("NoteName(%q) = %q, want %q", in, got, want)
		}
	}
}
