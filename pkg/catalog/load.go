package catalog

import (
	"fmt"

	"github.com/drone/envsubst"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"sigs.k8s.io/yaml"
)

// Load reads a YAML catalog from a filesystem.
// Environment variables of the form ${VAR} are substituted
// before the content is parsed.
func Load(fs vfs.FileSystem, path string) (*Catalog, error) {
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil, err
	}
	s, err := envsubst.EvalEnv(string(data))
	if err != nil {
		return nil, fmt.Errorf("catalog file %q: %w", path, err)
	}
	c, err := Parse([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("catalog file %q: %w", path, err)
	}
	log.Debug("loaded catalog {{name}} from {{path}}", "name", c.Name, "path", path)
	return c, nil
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save writes a catalog as YAML.
func Save(fs vfs.FileSystem, path string, c *Catalog) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return vfs.WriteFile(fs, path, data, 0o644)
}

// Get provides a built-in catalog or loads the catalog from the
// given file, if no built-in catalog with this name exists.
func Get(fs vfs.FileSystem, name string) (*Catalog, error) {
	if c := Builtin(name); c != nil {
		return c, nil
	}
	ok, err := vfs.FileExists(fs, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("unknown catalog %q", name)
	}
	return Load(fs, name)
}
