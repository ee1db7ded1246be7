package static

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func TestRenderTable(t *testing.T) {
	t.Parallel()

	if got := RenderTable([]string{"A"}, nil); got != "" {
		t.Errorf("RenderTable() without rows = %q, want empty", got)
	}

	out := ansi.Strip(RenderTable(
		[]string{"TIME", "ACTION", "BRANCH"},
		[][]string{
			{"2026-01-02 10:00", "create", "release-1.4.0"},
			{"2026-01-03 09:30", "merge", "release-1.4.0"},
		},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), out)
	}
	if strings.Index(lines[0], "ACTION") != strings.Index(lines[1], "create") {
		t.Errorf("columns are not aligned:\n%s", out)
	}
}

func TestRenderFields(t *testing.T) {
	t.Parallel()

	out := ansi.Strip(RenderFields([]Field{
		{Label: "CWD", Value: "/src/widgets"},
		{Label: "BRANCHES", Value: "main\nrelease-1.4.0"},
	}))

	want := "CWD       /src/widgets\n" +
		"BRANCHES  main\n" +
		"          release-1.4.0\n"
	if out != want {
		t.Errorf("RenderFields() =\n%q\nwant\n%q", out, want)
	}
}
