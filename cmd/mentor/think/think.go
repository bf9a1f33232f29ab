package thinkcmder

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/mentor/cmd/mentor/setup"
	"github.com/papercomputeco/mentor/pkg/render"
)

const thinkLongDesc string = `Ask Socratic questions about a community problem.

The mentor replies with guiding questions, reflection prompts,
challenge points and next steps. With no arguments the problem is
read from standard input.

Examples:
  mentor think "Our food bank runs out of volunteers every winter"
  mentor think --context "rural town, 3000 people" "The bus stopped running"
  echo "Vacant lots attract dumping" | mentor think`

const thinkShortDesc string = "Get Socratic guidance for a problem"

type thinkCommander struct {
	flags      *setup.Flags
	background string
}

func NewThinkCmd(flags *setup.Flags) *cobra.Command {
	cmder := &thinkCommander{flags: flags}

	cmd := &cobra.Command{
		Use:   "think [problem]",
		Short: thinkShortDesc,
		Long:  thinkLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args)
		},
	}

	cmd.Flags().StringVar(&cmder.background, "context", "", "Additional background for the problem")

	return cmd
}

func (c *thinkCommander) run(ctx context.Context, cmd *cobra.Command, args []string) error {
	problem, err := ProblemText(cmd.InOrStdin(), args)
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

	res := env.Mentor.CriticalThinking(ctx, problem, c.background)
	if err := out.Result(res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("mentor request failed")
	}
	return nil
}

// ProblemText joins args, or reads in when there are none.
func ProblemText(in io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("could not read problem from stdin: %w", err)
	}
	problem := strings.TrimSpace(string(data))
	if problem == "" {
		return "", fmt.Errorf("no problem given: pass it as an argument or on stdin")
	}
	return problem, nil
}
