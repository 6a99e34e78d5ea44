package app

import (
	"fmt"

	"github.com/mandelsoft/logging"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/buildingblocks/pkg/catalog"
	"github.com/mandelsoft/buildingblocks/pkg/utils"
)

type Options struct {
	fs       vfs.FileSystem
	config   *Config
	catalog  string
	logLevel string
}

// GetCatalog provides the selected catalog, either
// a built-in one or a catalog file.
func (o *Options) GetCatalog() (*catalog.Catalog, error) {
	return catalog.Get(o.fs, o.catalog)
}

func (o *Options) configureLogging() error {
	if o.logLevel == "" {
		return nil
	}
	l, err := logging.ParseLevel(o.logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q", o.logLevel)
	}
	lctx := logging.DefaultContext()
	lctx.AddRule(logging.NewConditionRule(l, logging.NewRealmPrefix("blocks")))
	lctx.AddRule(logging.NewConditionRule(l, logging.NewRealmPrefix("bbctl")))
	return nil
}

func New(fss ...vfs.FileSystem) *cobra.Command {
	opts := &Options{
		fs: utils.OptionalDefaulted(vfs.FileSystem(osfs.OsFs), fss...),
	}
	opts.config = GetConfig(opts.fs)
	opts.catalog = *opts.config.Catalog

	maincmd := &cobra.Command{
		Use:   "bbctl <options> <cmd> <args>",
		Short: "inspect and exercise building block catalogs",
		Long: `
This command can be used to inspect the building block catalogs
of the implant design product lines, to check the dependency graph
of a catalog and to simulate cascading block invalidations.

The catalog is selected by name of a built-in catalog (` + fmt.Sprintf("%v", catalog.BuiltinNames()) + `)
or by the path of a YAML catalog file.
`,
		SilenceUsage:     true,
		TraverseChildren: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.configureLogging()
		},
	}

	flags := maincmd.PersistentFlags()
	flags.StringVarP(&opts.catalog, "catalog", "c", opts.catalog, "catalog name or file (env BBCTL_CATALOG)")
	flags.StringVarP(&opts.logLevel, "log-level", "L", "", "log level")

	maincmd.AddCommand(NewKinds(opts))
	maincmd.AddCommand(NewDependents(opts))
	maincmd.AddCommand(NewValidate(opts))
	maincmd.AddCommand(NewSimulate(opts))
	maincmd.AddCommand(NewServe(opts))
	return maincmd
}
