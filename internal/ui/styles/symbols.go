package styles

// Symbols holds the icons used in the dashboard and command output.
type Symbols struct {
	Branch  string
	Active  string
	Tag     string
	Success string
	Failure string
}

var asciiSymbols = Symbols{
	Branch:  " ",
	Active:  "*",
	Tag:     "◆",
	Success: "✓",
	Failure: "✗",
}

var nerdfontSymbols = Symbols{
	Branch:  "\ue725", // nf-dev-git_branch
	Active:  "\uf00c", // nf-fa-check
	Tag:     "\uf412", // nf-oct-tag
	Success: "\uf05d", // nf-fa-check_circle_o
	Failure: "\uf05c", // nf-fa-times_circle_o
}

var currentSymbols = asciiSymbols

// SetNerdfont switches between nerd font icons and plain symbols.
func SetNerdfont(enabled bool) {
	if enabled {
		currentSymbols = nerdfontSymbols
	} else {
		currentSymbols = asciiSymbols
	}
}

// CurrentSymbols returns the active symbol set.
func CurrentSymbols() Symbols {
	return currentSymbols
}

// BranchMarker returns the prefix for a branch line; the active branch
// is marked and highlighted.
func BranchMarker(active bool) string {
	if active {
		return AccentStyle.Render(currentSymbols.Active)
	}
	return currentSymbols.Branch
}
