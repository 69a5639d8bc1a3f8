package ui

import "testing"

func TestGetTheme_FallsBackToDracula(t *testing.T) {
	if got := GetTheme("NoSuchTheme"); got.Name != "Dracula" {
		t.Fatalf("GetTheme(NoSuchTheme).Name = %q, want Dracula", got.Name)
	}
	if got := GetTheme("Slate"); got.Name != "Slate" {
		t.Fatalf("GetTheme(Slate).Name = %q, want Slate", got.Name)
	}
}

func TestThemeNames(t *testing.T) {
	names := ThemeNames()
	if len(names) != 2 {
		t.Fatalf("ThemeNames() returned %d names, want 2", len(names))
	}
	if names[0] != "Dracula" || names[1] != "Slate" {
		t.Fatalf("ThemeNames() = %v, want [Dracula Slate]", names)
	}
}

func TestNextTheme(t *testing.T) {
	if got := NextTheme("Dracula"); got != "Slate" {
		t.Fatalf("NextTheme(Dracula) = %q, want Slate", got)
	}
	if got := NextTheme("Slate"); got != "Dracula" {
		t.Fatalf("NextTheme(Slate) = %q, want Dracula", got)
	}
	if got := NextTheme("bogus"); got != "Dracula" {
		t.Fatalf("NextTheme(bogus) = %q, want Dracula", got)
	}
}

func TestThemesCoverLoanAndBookStatuses(t *testing.T) {
	statuses := []string{
		"active", "inactive", "damaged", "lost",
		"borrowed", "returned", "overdue", "renewed",
	}
	for name, theme := range themes {
		for _, status := range statuses {
			if theme.StatusColors[status] == "" {
				t.Fatalf("theme %s missing status color for %q", name, status)
			}
		}
	}
}
