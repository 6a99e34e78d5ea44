// Package filesystem persists snapshots of an object store as one
// YAML document per block instance below a root directory
// (<root>/<kind>/<id>.yaml). Payloads are stored by their
// geometry kernel handle.
package filesystem

import (
	"cmp"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/buildingblocks/pkg/blocks"
	"github.com/mandelsoft/buildingblocks/pkg/objectstore"
	"github.com/mandelsoft/buildingblocks/pkg/utils"
)

type Database struct {
	lock     sync.Mutex
	path     string
	fs       vfs.FileSystem
	sequence int64
	scanned  bool
}

var _ objectstore.EventHandler = (*Database)(nil)

func New(path string, fss ...vfs.FileSystem) (*Database, error) {
	fs := utils.OptionalDefaulted(vfs.FileSystem(osfs.OsFs), fss...)

	err := fs.MkdirAll(path, 0o0700)
	if err != nil && !errors.Is(err, vfs.ErrExist) {
		return nil, err
	}

	return &Database{path: path, fs: fs}, nil
}

func (d *Database) Path(path string) string {
	return filepath.Join(d.path, path)
}

func (d *Database) IPath(kind blocks.Kind, id uuid.UUID) string {
	return filepath.Join(d.path, Path(kind, id))
}

// Kinds lists the kinds with persisted instances.
func (d *Database) Kinds() ([]blocks.Kind, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	list, err := vfs.ReadDir(d.fs, d.path)
	if err != nil {
		return nil, err
	}
	var kinds []blocks.Kind
	for _, e := range list {
		if e.IsDir() {
			kinds = append(kinds, blocks.Kind(e.Name()))
		}
	}
	return kinds, nil
}

// ListInstances provides the persisted instances of a kind
// in creation order.
func (d *Database) ListInstances(kind blocks.Kind) ([]objectstore.Instance, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	docs, err := d.list(kind)
	if err != nil {
		return nil, err
	}
	return utils.TransformSlice(docs, (*Document).Instance), nil
}

func (d *Database) list(kind blocks.Kind) ([]*Document, error) {
	var result []*Document

	list, err := vfs.ReadDir(d.fs, d.Path(string(kind)))
	if err != nil {
		if errors.Is(err, vfs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	for _, e := range list {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		id, err := uuid.Parse(strings.TrimSuffix(e.Name(), ".yaml"))
		if err != nil {
			return nil, fmt.Errorf("corrupted database: invalid instance file %s: %w", d.Path(filepath.Join(string(kind), e.Name())), err)
		}
		doc, err := d.get(kind, id)
		if err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	slices.SortStableFunc(result, func(a, b *Document) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})
	return result, nil
}

func (d *Database) get(kind blocks.Kind, id uuid.UUID) (*Document, error) {
	path := d.IPath(kind, id)
	data, err := vfs.ReadFile(d.fs, path)
	if err != nil {
		return nil, err
	}
	var doc Document
	err = yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("corrupted database: %s: %w", path, err)
	}
	if doc.Kind != kind || doc.ID != id {
		return nil, fmt.Errorf("corrupted database: %s does not contain instance %s/%s", path, kind, id)
	}
	if doc.Sequence >= d.sequence {
		d.sequence = doc.Sequence + 1
	}
	return &doc, nil
}

// SetInstance persists an instance. The creation order
// of an already persisted instance is kept.
func (d *Database) SetInstance(i objectstore.Instance) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	seq := int64(-1)
	if old, err := d.get(i.Kind, i.ID); err == nil {
		seq = old.Sequence
	}
	return d.set(i, seq)
}

func (d *Database) set(i objectstore.Instance, seq int64) error {
	if seq < 0 {
		if err := d.scan(); err != nil {
			return err
		}
		seq = d.sequence
	}
	doc, err := NewDocument(i, seq)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	path := d.IPath(i.Kind, i.ID)
	err = d.fs.MkdirAll(filepath.Dir(path), 0o700)
	if err != nil {
		return err
	}
	err = vfs.WriteFile(d.fs, path, data, 0o600)
	if err != nil {
		return err
	}
	if seq >= d.sequence {
		d.sequence = seq + 1
	}
	return nil
}

// scan raises the sequence above the sequences of all
// persisted instances before the first new instance is written.
func (d *Database) scan() error {
	if d.scanned {
		return nil
	}
	list, err := vfs.ReadDir(d.fs, d.path)
	if err != nil {
		return err
	}
	for _, e := range list {
		if !e.IsDir() {
			continue
		}
		if _, err := d.list(blocks.Kind(e.Name())); err != nil {
			return err
		}
	}
	d.scanned = true
	return nil
}

// DeleteInstance removes a persisted instance. Deleting
// an unknown instance is a no-op.
func (d *Database) DeleteInstance(kind blocks.Kind, id uuid.UUID) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	err := d.fs.Remove(d.IPath(kind, id))
	if err != nil && !errors.Is(err, vfs.ErrNotExist) {
		return err
	}
	return nil
}

// Save replaces the persisted state by the current content
// of the store.
func (d *Database) Save(s *objectstore.Store) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	for _, k := range s.Registry().AllKinds() {
		err := d.fs.RemoveAll(d.Path(string(k)))
		if err != nil {
			return err
		}
	}
	d.sequence = 0
	d.scanned = true
	list := s.Instances()
	for _, i := range list {
		if err := d.set(i, -1); err != nil {
			return err
		}
	}
	log.Info("saved {{count}} instance(s) to {{path}}", "count", len(list), "path", d.path)
	return nil
}

// Load imports the persisted instances into the store.
// Instances of kinds unknown to the store's registry
// are rejected.
func (d *Database) Load(s *objectstore.Store) (int, error) {
	docs, err := d.documents(s.Registry())
	if err != nil {
		return 0, err
	}

	// the store may notify this database, if attached.
	for _, doc := range docs {
		if err := s.Import(doc.Instance()); err != nil {
			return 0, err
		}
	}
	log.Info("loaded {{count}} instance(s) from {{path}}", "count", len(docs), "path", d.path)
	return len(docs), nil
}

func (d *Database) documents(reg blocks.Registry) ([]*Document, error) {
	d.lock.Lock()
	defer d.lock.Unlock()

	list, err := vfs.ReadDir(d.fs, d.path)
	if err != nil {
		return nil, err
	}

	var docs []*Document
	for _, e := range list {
		if !e.IsDir() {
			continue
		}
		kind := blocks.Kind(e.Name())
		if !reg.Has(kind) {
			return nil, blocks.UnknownKind(kind)
		}
		r, err := d.list(kind)
		if err != nil {
			return nil, err
		}
		docs = append(docs, r...)
	}
	return docs, nil
}

// Attach keeps the persisted state in sync with the
// changes of the given store.
func (d *Database) Attach(s *objectstore.Store) {
	s.RegisterHandler(d)
}

func (d *Database) Detach(s *objectstore.Store) {
	s.UnregisterHandler(d)
}

func (d *Database) HandleEvent(e objectstore.Event) {
	var err error
	switch e.Type {
	case objectstore.Created, objectstore.Updated:
		err = d.SetInstance(e.Instance)
	case objectstore.Deleted:
		err = d.DeleteInstance(e.Instance.Kind, e.Instance.ID)
	}
	if err != nil {
		log.LogError(err, "cannot persist {{event}}", "event", e)
	}
}
