package output

import "github.com/charmbracelet/lipgloss"

// Colors degrade to plain text when stdout is not a terminal.
var (
	commitStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	prStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	missing     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	heading     = lipgloss.NewStyle().Bold(true)
	command     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)

// ColorCommit colors a commit id yellow
func ColorCommit(text string) string {
	return commitStyle.Render(text)
}

// ColorPR colors a PR number blue
func ColorPR(text string) string {
	return prStyle.Render(text)
}

// ColorBranch colors a branch name cyan
func ColorBranch(text string) string {
	return branchStyle.Render(text)
}

// ColorMissing colors placeholder text for absent values red
func ColorMissing(text string) string {
	return missing.Render(text)
}

// ColorHeading renders text bold
func ColorHeading(text string) string {
	return heading.Render(text)
}

// ColorCommand colors a suggested command green
func ColorCommand(text string) string {
	return command.Render(text)
}
