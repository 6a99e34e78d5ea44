package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
)

type Dependents struct {
	cmd *cobra.Command

	mainopts *Options
	direct   bool
	output   Format
}

func NewDependents(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dependents <kind> {<kind>} <options>",
		Short: "show the kinds invalidated by changing a block kind",
		Long: `
Shows the block kinds, which are deleted whenever a block of the given
kind is set or deleted. The kinds are listed in cascade order.
`,
	}

	c := &Dependents{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	flags := cmd.Flags()
	flags.BoolVarP(&c.direct, "direct", "d", false, "show direct dependents only")
	flags.VarP(&c.output, "output", "o", "output format (json, yaml)")
	return cmd
}

func (c *Dependents) Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("at least one block kind required")
	}
	cat, err := c.mainopts.GetCatalog()
	if err != nil {
		return err
	}
	_, graph, err := cat.Build()
	if err != nil {
		return err
	}

	result := map[blocks.Kind][]blocks.Kind{}
	var rows [][]string
	for _, a := range args {
		kind := blocks.Kind(a)
		var deps []blocks.Kind
		if c.direct {
			deps, err = graph.GetDirectDependents(kind)
		} else {
			deps, err = graph.GetTransitiveDependents(kind)
		}
		if err != nil {
			return err
		}
		result[kind] = deps
		rows = append(rows, []string{string(kind), kindList(deps)})
	}
	if ok, err := Output(c.cmd.OutOrStdout(), c.output, result); ok {
		return err
	}
	PrintTable(c.cmd.OutOrStdout(), []string{"KIND", "DEPENDENTS"}, rows)
	return nil
}
