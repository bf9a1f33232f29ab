package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/mentor/cmd/mentor/setup"
	"github.com/papercomputeco/mentor/pkg/mentor"
	"github.com/papercomputeco/mentor/pkg/render"
)

const chatLongDesc string = `Hold a mentoring conversation.

Each line read from standard input is sent to the mentor together
with the most recent turns of the conversation. Failed replies are
shown and the conversation continues.

Commands:
  /mode <name>   switch between critical_thinking and solution
  /reset         forget the conversation so far
  /quit          leave

Examples:
  mentor chat
  mentor chat --mode solution`

const chatShortDesc string = "Chat with the mentor"

type chatCommander struct {
	flags *setup.Flags
	mode  string
}

func NewChatCmd(flags *setup.Flags) *cobra.Command {
	cmder := &chatCommander{flags: flags}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd)
		},
	}

	cmd.Flags().StringVarP(&cmder.mode, "mode", "m", mentor.CriticalThinking.String(), "Mentor mode: critical_thinking or solution")

	return cmd
}

func (c *chatCommander) run(ctx context.Context, cmd *cobra.Command) error {
	mode, err := mentor.ParseMode(c.mode)
	if err != nil {
		return err
	}

	env, err := c.flags.Load(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	out, err := render.New(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	session := mentor.NewSession(uuid.NewString())
	env.Logger.Debug("chat session started", zap.String("session", session.ID), zap.Stringer("mode", mode))

	if out.Styled() {
		_ = out.Notice(fmt.Sprintf("Mentoring in %s mode. Type /quit to leave.", mode))
	}

	r := &repl{
		ctx:     ctx,
		mentor:  env.Mentor,
		session: session,
		mode:    mode,
		out:     out,
		prompt:  cmd.OutOrStdout(),
	}
	return r.loop(cmd.InOrStdin())
}

type repl struct {
	ctx     context.Context
	mentor  *mentor.Mentor
	session *mentor.Session
	mode    mentor.Mode
	out     *render.Renderer
	prompt  io.Writer
}

func (r *repl) loop(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		if r.out.Styled() {
			fmt.Fprint(r.prompt, "> ")
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := r.ctx.Err(); err != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		quit, err := r.handle(line)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// handle processes one input line and reports whether the loop should end.
func (r *repl) handle(line string) (bool, error) {
	switch {
	case line == "":
		return false, nil

	case line == "/quit" || line == "/exit":
		return true, nil

	case line == "/reset":
		r.session.Reset()
		return false, r.out.Notice("Conversation cleared.")

	case strings.HasPrefix(line, "/mode"):
		mode, err := mentor.ParseMode(strings.TrimSpace(strings.TrimPrefix(line, "/mode")))
		if err != nil {
			return false, r.out.Notice(err.Error())
		}
		r.mode = mode
		return false, r.out.Notice("Mode: " + mode.String())
	}

	res := r.mentor.Chat(r.ctx, r.session, line, r.mode)
	return false, r.out.Result(res)
}
