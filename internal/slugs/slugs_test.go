package slugs

import "testing"

func TestHeadingSlug(t *testing.T) {
	tests := map[string]string{
		"Weekly Standup":           "weekly-standup",
		"Step 1: Install!":         "step-1-install",
		"A__B":                     "a-b",
		"A - B":                    "a-b",
		"  Leading and trailing  ": "leading-and-trailing",
		"What's next?":             "whats-next",
		"!!!":                      "",
		"Привет мир":               "привет-мир",
	}
	for in, want := range tests {
		if got := HeadingSlug(in); got != want {
			t.Errorf("HeadingSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNameSlug(t *testing.T) {
	tests := map[string]string{
		"Freya":                "freya",
		"Meeting Notes.md":     "meeting-notes",
		"Café Plans":           "cafe-plans",
		"Special: Characters!": "special-characters",
		" padded ":             "padded",
	}
	for in, want := range tests {
		if got := NameSlug(in); got != want {
			t.Errorf("NameSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPathSlug(t *testing.T) {
	tests := map[string]string{
		"projects/My Project/Docs.md": "projects/my-project/docs",
		"/inbox/Idea.md":              "inbox/idea",
		`game-notes\Competitions`:     "game-notes/competitions",
		"Daily/2025-05-14":            "daily/2025-05-14",
	}
	for in, want := range tests {
		if got := PathSlug(in); got != want {
			t.Errorf("PathSlug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNameAndPathSlugsAgree(t *testing.T) {
	if NameSlug("Café Plans") != PathSlug("Café Plans.md") {
		t.Fatalf("a single-component path should slug like its name")
	}
}
