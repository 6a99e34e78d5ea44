package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/mandelsoft/vfs/pkg/projectionfs"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/buildingblocks/pkg/impl/filesystem"
	"github.com/mandelsoft/buildingblocks/pkg/inspect"
	"github.com/mandelsoft/buildingblocks/pkg/server"
)

type Serve struct {
	cmd *cobra.Command

	mainopts *Options
	port     int
	prefix   string
	snapshot string
	timeout  time.Duration
}

func NewServe(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve <options>",
		Short: "serve read-only inspection endpoints for a design session",
		Long: `
Serves the blocks and dependents of a design session for the selected
catalog. If a snapshot directory is given, the session is restored from
it and the snapshot files are served below <prefix>/snapshot/.
`,
	}

	c := &Serve{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	snapshot := ""
	if opts.config.Snapshot != nil {
		snapshot = *opts.config.Snapshot
	}
	flags := cmd.Flags()
	flags.IntVarP(&c.port, "port", "p", *opts.config.Port, "server port")
	flags.StringVarP(&c.prefix, "prefix", "P", "/api", "path prefix")
	flags.StringVarP(&c.snapshot, "snapshot", "s", snapshot, "snapshot directory")
	flags.DurationVar(&c.timeout, "shutdown-timeout", 10*time.Second, "graceful shutdown timeout")
	return cmd
}

func (c *Serve) Run(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("no arguments expected")
	}
	srv, err := c.Server()
	if err != nil {
		return err
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return srv.ListenAndServeContext(ctx, c.timeout)
}

// Server prepares the server for the selected catalog.
func (c *Serve) Server() (*server.Server, error) {
	cat, err := c.mainopts.GetCatalog()
	if err != nil {
		return nil, err
	}
	s, err := cat.NewSession()
	if err != nil {
		return nil, err
	}
	fp, err := cat.Fingerprint()
	if err != nil {
		return nil, err
	}

	srv := server.NewServer(c.port)
	inspect.New(s, c.prefix).WithCatalog(cat.Name, fp).RegisterHandler(srv)

	if c.snapshot != "" {
		db, err := filesystem.New(c.snapshot, c.mainopts.fs)
		if err != nil {
			return nil, err
		}
		if _, err := db.Load(s.Store()); err != nil {
			return nil, err
		}
		fs, err := projectionfs.New(c.mainopts.fs, c.snapshot)
		if err != nil {
			return nil, err
		}
		server.NewDirectoryHandler(fs, path.Join(c.prefix, "snapshot")).RegisterHandler(srv)
	}
	return srv, nil
}
