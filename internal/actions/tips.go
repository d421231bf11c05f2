package actions

import (
	"fmt"

	"stackpr.dev/stackpr/internal/output"
)

const (
	updateStackTip = "\nIf you'd like to push your local changes first, you can use the following command to update the stack:\n  %s"

	exportStackTip = "\nYou can use the following command to do that:\n  %s\n"

	landStackTip = "\nTo land it, you could run:\n  %s\n\n" +
		"If you'd like to land stack except the top N commits, you could use the following command:\n  %s\n\n" +
		"If you prefer to merge via the github web UI, please don't forget to edit commit message on the merge page!\n" +
		"If you use the default commit message filled by the web UI, links to other PRs from the stack will be included in the commit message.\n"
)

// topCommit names the stack top the way the user would type it
func (s *session) topCommit() string {
	if s.opts.Head != "HEAD" {
		return s.opts.Head
	}
	return s.original
}

func (s *session) command(verb, head string) string {
	cmd := fmt.Sprintf("$ stack-pr %s -B %s~%d -H %s", verb, s.topCommit(), len(s.st), head)
	return output.ColorCommand(cmd)
}

func (s *session) printUpdateTip() {
	s.log.Info(updateStackTip, s.command("export", s.topCommit()))
}

func (s *session) printExportTip() {
	s.log.Info(exportStackTip, s.command("export", s.topCommit()))
}

func (s *session) printLandTip() {
	s.log.Info(landStackTip, s.command("land", s.topCommit()), s.command("land", s.topCommit()+"~N"))
}

func (s *session) printTipsAfterExport() {
	s.log.Info("\nOnce the stack is reviewed, it is ready to land!")
	s.printLandTip()
}

func (s *session) printTipsAfterView(ready bool) {
	if ready {
		s.log.Info("\nThis stack is ready to land!")
		s.printUpdateTip()
		s.printLandTip()
		return
	}
	s.log.Info("\nThis stack can't be landed yet, you need to export it first.")
	s.printExportTip()
}
