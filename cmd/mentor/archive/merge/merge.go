package mergecmder

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/mentor/cmd/mentor/setup"
	"github.com/papercomputeco/mentor/pkg/merkle"
)

const mergeLongDesc string = `Merge one or more source archives into a target archive.

Content-addressing makes this a simple union: nodes that already
exist in the target are skipped (deduped by hash). Source nodes whose
hash does not match their content are reported and not copied.

Examples:
  mentor archive merge alice.db bob.db
  mentor archive merge --db /tmp/merged.db ~/alice/archive.db ~/bob/archive.db`

const mergeShortDesc string = "Merge SQLite archives"

type mergeCommander struct {
	flags  *setup.Flags
	dbPath string
}

func NewMergeCmd(flags *setup.Flags) *cobra.Command {
	cmder := &mergeCommander{flags: flags}

	cmd := &cobra.Command{
		Use:   "merge [sources...]",
		Short: mergeShortDesc,
		Long:  mergeLongDesc,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context(), cmd, args)
		},
	}

	cmd.Flags().StringVar(&cmder.dbPath, "db", "", "Path to the target SQLite archive (default from config)")

	return cmd
}

func (c *mergeCommander) run(ctx context.Context, cmd *cobra.Command, sources []string) error {
	targetPath, err := c.flags.ArchivePath(c.dbPath)
	if err != nil {
		return fmt.Errorf("could not resolve target archive: %w", err)
	}

	target, err := merkle.NewSQLiteStorer(targetPath)
	if err != nil {
		return fmt.Errorf("could not open target archive %s: %w", targetPath, err)
	}
	defer target.Close()

	var totalNew, totalDuped, totalInvalid int

	for _, srcPath := range sources {
		res, err := mergeInto(ctx, target, srcPath)
		if err != nil {
			return err
		}

		totalNew += res.isNew
		totalDuped += res.duped
		totalInvalid += res.invalid

		fmt.Fprintf(cmd.OutOrStdout(), "  %s: %d new, %d already existed\n", srcPath, res.isNew, res.duped)
		if res.invalid > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s: skipped %d nodes failing hash verification\n", srcPath, res.invalid)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Merged %d new nodes from %d sources (%d already existed) into %s\n",
		totalNew, len(sources), totalDuped, targetPath)
	if totalInvalid > 0 {
		return fmt.Errorf("%d source nodes failed hash verification", totalInvalid)
	}

	return nil
}

type mergeResult struct {
	isNew   int
	duped   int
	invalid int
}

// mergeInto copies every verified node of the archive at srcPath into target.
func mergeInto(ctx context.Context, target merkle.Storer, srcPath string) (mergeResult, error) {
	var res mergeResult

	source, err := merkle.NewSQLiteStorer(srcPath)
	if err != nil {
		return res, fmt.Errorf("could not open source archive %s: %w", srcPath, err)
	}
	defer source.Close()

	nodes, err := source.List(ctx)
	if err != nil {
		return res, fmt.Errorf("could not list nodes from %s: %w", srcPath, err)
	}

	for _, n := range nodes {
		if !n.Verify() {
			res.invalid++
			continue
		}

		isNew, err := target.Put(ctx, n)
		if err != nil {
			return res, fmt.Errorf("could not put node %s: %w", n.Hash, err)
		}
		if isNew {
			res.isNew++
		} else {
			res.duped++
		}
	}
	return res, nil
}
