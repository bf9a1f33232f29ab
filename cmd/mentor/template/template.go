package templatecmder

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/mentor/cmd/mentor/setup"
	thinkcmder "github.com/papercomputeco/mentor/cmd/mentor/think"
	"github.com/papercomputeco/mentor/pkg/render"
	"github.com/papercomputeco/mentor/pkg/structure"
)

const templateLongDesc string = `Draft a solution template for a community problem.

The template type is detected from the problem text unless --type is
given: budget, stakeholder, timeline, swot or action_plan.

Examples:
  mentor template "We need funding for a tool library"
  mentor template --type swot "Start a community garden"`

const templateShortDesc string = "Draft a solution template for a problem"

type templateCommander struct {
	flags        *setup.Flags
	templateType string
}

func NewTemplateCmd(flags *setup.Flags) *cobra.Command {
	cmder := &templateCommander{flags: flags}

	cmd := &cobra.Command{
		Use:   "template [problem]",
		Short: templateShortDesc,
		Long:  templateLongDesc,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args)
		},
	}

	types := make([]string, 0, len(structure.TemplateTypes()))
	for _, t := range structure.TemplateTypes() {
		types = append(types, string(t))
	}
	cmd.Flags().StringVarP(&cmder.templateType, "type", "t", string(structure.TemplateAuto),
		"Template type: auto, "+strings.Join(types, ", "))

	return cmd
}

func (c *templateCommander) run(ctx context.Context, cmd *cobra.Command, args []string) error {
	kind, ok := structure.ParseTemplateType(c.templateType)
	if !ok {
		return fmt.Errorf("unknown template type %q", c.templateType)
	}

	problem, err := thinkcmder.ProblemText(cmd.InOrStdin(), args)
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

	res := env.Mentor.Solution(ctx, problem, kind)
	if err := out.Result(res); err != nil {
		return err
	}
	if !res.Success {
		return fmt.Errorf("mentor request failed")
	}
	return nil
}
