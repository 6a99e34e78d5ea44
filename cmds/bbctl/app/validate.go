package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mandelsoft/buildingblocks/pkg/catalog"
)

type Validate struct {
	cmd *cobra.Command

	mainopts *Options
}

func NewValidate(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate {<catalog>}",
		Short: "validate catalogs",
		Long: `
Validates the given catalogs (built-in names or files). Without
arguments the selected catalog is validated. For valid catalogs
the fingerprint of the normalized content is shown.
`,
	}

	c := &Validate{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	return cmd
}

func (c *Validate) Run(args []string) error {
	var cmderr error

	if len(args) == 0 {
		args = []string{c.mainopts.catalog}
	}
	for _, a := range args {
		err := c.validate(a)
		if err != nil {
			fmt.Fprintf(c.cmd.ErrOrStderr(), "%s: %s\n", a, err.Error())
			cmderr = fmt.Errorf("validation failed for some catalogs")
		}
	}
	return cmderr
}

func (c *Validate) validate(name string) error {
	cat, err := catalog.Get(c.mainopts.fs, name)
	if err != nil {
		return err
	}
	reg, _, err := cat.Build()
	if err != nil {
		return err
	}
	fp, err := cat.Fingerprint()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.cmd.OutOrStdout(), "%s: catalog %q is valid (%d kinds, %d edges, fingerprint %s)\n",
		name, cat.Name, reg.Len(), len(cat.Edges()), fp)
	return nil
}
