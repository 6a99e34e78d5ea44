package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/goombaio/namegenerator"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/geometry"
	"github.com/mandelsoft/buildingblocks/pkg/impl/filesystem"
	"github.com/mandelsoft/buildingblocks/pkg/invalidation"
	"github.com/mandelsoft/buildingblocks/pkg/session"
)

type Simulate struct {
	cmd *cobra.Command

	mainopts  *Options
	snapshot  string
	save      bool
	instances int
	seed      int64
}

func NewSimulate(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <kind> {<kind>} <options>",
		Short: "simulate block mutations and show the resulting cascades",
		Long: `
Creates a design session for the selected catalog, populates all
block kinds with generated geometry handles (or loads a snapshot)
and mutates the given block kinds in order. For every mutation the
fired invalidation callbacks and the deleted blocks are shown.
`,
	}

	c := &Simulate{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	flags := cmd.Flags()
	flags.StringVarP(&c.snapshot, "snapshot", "s", "", "snapshot directory used as initial state")
	flags.BoolVarP(&c.save, "save", "w", false, "save the final state to the snapshot directory")
	flags.IntVarP(&c.instances, "instances", "n", 2, "number of generated instances for multi-valued kinds")
	flags.Int64Var(&c.seed, "seed", time.Now().UnixNano(), "seed for generated handles")
	return cmd
}

func (c *Simulate) Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("at least one block kind required")
	}
	if c.save && c.snapshot == "" {
		return fmt.Errorf("snapshot directory required for saving")
	}
	cat, err := c.mainopts.GetCatalog()
	if err != nil {
		return err
	}
	s, err := cat.NewSession()
	if err != nil {
		return err
	}
	generator := namegenerator.NewNameGenerator(c.seed)
	out := c.cmd.OutOrStdout()

	var db *filesystem.Database
	loaded := 0
	if c.snapshot != "" {
		db, err = filesystem.New(c.snapshot, c.mainopts.fs)
		if err != nil {
			return err
		}
		loaded, err = db.Load(s.Store())
		if err != nil {
			return err
		}
	}
	if loaded == 0 {
		err = c.populate(s, generator)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "catalog %s: %d block(s) in %d kind(s)\n", cat.Name, s.Store().Len(), len(s.Store().Kinds()))

	for _, t := range []invalidation.Trigger{invalidation.OnMutate, invalidation.OnDelete} {
		_, err := s.Dispatcher().Register(invalidation.AnyKind, t, func(kind blocks.Kind, trigger invalidation.Trigger) error {
			fmt.Fprintf(out, "  %s %s\n", trigger, kind)
			return nil
		}, "trace")
		if err != nil {
			return err
		}
	}

	for _, a := range args {
		kind := blocks.Kind(a)
		m, err := s.Registry().GetMetadata(kind)
		if err != nil {
			return err
		}
		existing := uuid.Nil
		if i, err := s.Store().GetInstance(kind); err == nil {
			existing = i.ID
		}
		fmt.Fprintf(out, "mutating %s\n", kind)
		r, err := s.Mutate(kind, geometry.NewRef(m.Category, generator.Generate()), existing)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s\n", r)
	}
	fmt.Fprintf(out, "remaining: %s\n", kindList(s.Store().Kinds()))

	if c.save {
		return db.Save(s.Store())
	}
	return nil
}

func (c *Simulate) populate(s *session.Session, generator namegenerator.Generator) error {
	for _, k := range s.Registry().AllKinds() {
		m, err := s.Registry().GetMetadata(k)
		if err != nil {
			return err
		}
		n := 1
		if m.IsMultiple() {
			n = c.instances
		}
		for i := 0; i < n; i++ {
			_, err := s.Store().SetBlock(k, geometry.NewRef(m.Category, generator.Generate()), uuid.Nil)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

