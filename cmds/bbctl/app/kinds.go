package app

import (
	"fmt"

	"github.com/spf13/cobra"
)

type Kinds struct {
	cmd *cobra.Command

	mainopts *Options
	output   Format
}

func NewKinds(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kinds <options>",
		Short: "list the block kinds of a catalog",
	}

	c := &Kinds{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	flags := cmd.Flags()
	flags.VarP(&c.output, "output", "o", "output format (json, yaml)")
	return cmd
}

func (c *Kinds) Run(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("no arguments expected")
	}
	cat, err := c.mainopts.GetCatalog()
	if err != nil {
		return err
	}
	if ok, err := Output(c.cmd.OutOrStdout(), c.output, cat.Blocks); ok {
		return err
	}

	var rows [][]string
	for _, e := range cat.Blocks {
		rows = append(rows, []string{
			string(e.Kind), e.Category.String(), e.Multiplicity.String(), e.Layer, kindList(e.Dependents),
		})
	}
	PrintTable(c.cmd.OutOrStdout(), []string{"KIND", "CATEGORY", "MULTIPLICITY", "LAYER", "DEPENDENTS"}, rows)
	return nil
}

