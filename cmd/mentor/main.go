package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	archivecmder "github.com/papercomputeco/mentor/cmd/mentor/archive"
	chatcmder "github.com/papercomputeco/mentor/cmd/mentor/chat"
	servecmder "github.com/papercomputeco/mentor/cmd/mentor/serve"
	"github.com/papercomputeco/mentor/cmd/mentor/setup"
	templatecmder "github.com/papercomputeco/mentor/cmd/mentor/template"
	thinkcmder "github.com/papercomputeco/mentor/cmd/mentor/think"
)

const mentorLongDesc string = `An AI mentor for community problems.

It asks Socratic questions that sharpen your thinking, drafts solution
templates (budget, stakeholder, timeline, SWOT, action plan) and holds
mentoring conversations. Replies come from Gemini or a local Ollama model.

Examples:
  mentor think "Litter keeps piling up in the park"
  mentor template --type timeline "Organize a neighbourhood cleanup"
  mentor chat --mode solution
  mentor serve --db ~/.mentor/archive.db`

func newMentorCmd() *cobra.Command {
	flags := &setup.Flags{}

	cmd := &cobra.Command{
		Use:           "mentor",
		Short:         "AI mentor for community problems",
		Long:          mentorLongDesc,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.Register(cmd)

	cmd.AddCommand(
		thinkcmder.NewThinkCmd(flags),
		templatecmder.NewTemplateCmd(flags),
		chatcmder.NewChatCmd(flags),
		servecmder.NewServeCmd(flags),
		archivecmder.NewArchiveCmd(flags),
	)
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newMentorCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
