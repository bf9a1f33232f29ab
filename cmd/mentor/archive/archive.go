package archivecmder

import (
	"github.com/spf13/cobra"

	mergecmder "github.com/papercomputeco/mentor/cmd/mentor/archive/merge"
	pushcmder "github.com/papercomputeco/mentor/cmd/mentor/archive/push"
	"github.com/papercomputeco/mentor/cmd/mentor/setup"
)

func NewArchiveCmd(flags *setup.Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Manage the exchange archive",
		Long: `Manage the SQLite archive of mentoring exchanges written by "mentor serve".

Archives are content-addressed, so they can be merged and pushed
between machines without duplicating exchanges.`,
	}

	cmd.AddCommand(
		pushcmder.NewPushCmd(flags),
		mergecmder.NewMergeCmd(flags),
	)
	return cmd
}
