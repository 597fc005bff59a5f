package catalog

import (
	"bytes"
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"

	"github.com/vibelang/vibe/errors"
	"github.com/vibelang/vibe/internal/httpclient"
)

// Extension is a set of entries loaded from a TOML or YAML file that is
// layered over a base catalog.
//
//	requires = "^1.0"
//
//	[[entry]]
//	name = "vibeCheck"
//	category = "builtin-function"
//	documentation = "Assert a condition"
//	insert = "vibeCheck($0)"
//
//	  [entry.signature]
//	  label = "vibeCheck(condition)"
//	  documentation = "Fails the pack when the condition is cap"
//
//	  [[entry.signature.parameters]]
//	  name = "condition"
//	  documentation = "Condition that must hold"
type Extension struct {
	// Source is the file the extension came from, used in error hints.
	Source   string           `toml:"-" yaml:"-"`
	Requires string           `toml:"requires" yaml:"requires"`
	Entries  []ExtensionEntry `toml:"entry" yaml:"entries"`
}

// ExtensionEntry is the on-disk shape of a catalog entry.
type ExtensionEntry struct {
	Name          string              `toml:"name" yaml:"name"`
	Category      string              `toml:"category" yaml:"category"`
	Documentation string              `toml:"documentation" yaml:"documentation"`
	Insert        string              `toml:"insert" yaml:"insert"`
	Signature     *ExtensionSignature `toml:"signature" yaml:"signature"`
}

type ExtensionSignature struct {
	Label         string      `toml:"label" yaml:"label"`
	Documentation string      `toml:"documentation" yaml:"documentation"`
	Parameters    []Parameter `toml:"parameters" yaml:"parameters"`
}

// remote fetches extensions configured as http(s) URLs.
var remote = httpclient.New(httpclient.Options{})

// LoadExtension reads an extension from a file path or an http(s) URL. The
// format is chosen by extension: .toml, .yaml or .yml.
func LoadExtension(location string) (Extension, error) {
	data, ext, err := readExtension(location)
	if err != nil {
		return Extension{}, err
	}

	var out Extension
	switch strings.ToLower(ext) {
	case ".toml":
		out, err = ParseExtensionTOML(data)
	case ".yaml", ".yml":
		out, err = ParseExtensionYAML(data)
	default:
		return Extension{}, errors.WithHint(
			errors.NewInvalidRequestError("unsupported catalog extension format %q", ext),
			"use a .toml, .yaml or .yml file",
		)
	}
	if err != nil {
		return Extension{}, errors.WithHintf(err, "in catalog extension %s", location)
	}
	out.Source = location
	return out, nil
}

func readExtension(location string) ([]byte, string, error) {
	if httpclient.IsRemote(location) {
		u, err := remote.Validate(location)
		if err != nil {
			return nil, "", errors.Wrapf(err, "catalog extension %s", location)
		}
		data, err := remote.Fetch(context.Background(), location)
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to fetch catalog extension")
		}
		return data, path.Ext(u.Path), nil
	}

	data, err := os.ReadFile(location)
	if err != nil {
		return nil, "", errors.Wrapf(err, "failed to read catalog extension %s", location)
	}
	return data, filepath.Ext(location), nil
}

// ParseExtensionTOML decodes a TOML extension. Unknown keys are rejected so
// typos do not silently drop entries.
func ParseExtensionTOML(data []byte) (Extension, error) {
	var ext Extension
	md, err := toml.Decode(string(data), &ext)
	if err != nil {
		return Extension{}, errors.Wrap(errors.Join(errors.ErrInvalidRequest, err), "invalid TOML")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Extension{}, errors.NewInvalidRequestError("unknown keys: %s", strings.Join(keys, ", "))
	}
	return ext, nil
}

// ParseExtensionYAML decodes a YAML extension. Unknown keys are rejected.
func ParseExtensionYAML(data []byte) (Extension, error) {
	var ext Extension
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ext); err != nil {
		return Extension{}, errors.Wrap(errors.Join(errors.ErrInvalidRequest, err), "invalid YAML")
	}
	return ext, nil
}

// Check verifies the extension's version constraint against the catalog
// language version.
func (ext Extension) Check(version *semver.Version) error {
	if ext.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(ext.Requires)
	if err != nil {
		return errors.WithHint(
			errors.NewInvalidRequestError("invalid requires constraint %q: %v", ext.Requires, err),
			"use a semver constraint such as \"^1.0\"",
		)
	}
	if ok, reasons := constraint.Validate(version); !ok {
		msgs := make([]string, len(reasons))
		for i, r := range reasons {
			msgs[i] = r.Error()
		}
		return errors.WithDetail(
			errors.NewConflictError("extension requires Vibe %s, catalog is %s", ext.Requires, version),
			strings.Join(msgs, "; "),
		)
	}
	return nil
}

func (e ExtensionEntry) toEntry() (Entry, error) {
	category, err := ParseCategory(e.Category)
	if err != nil {
		return Entry{}, errors.WithHintf(err, "entry %q", e.Name)
	}
	entry := Entry{
		Name:           e.Name,
		Category:       category,
		Documentation:  e.Documentation,
		InsertTemplate: e.Insert,
	}
	if entry.InsertTemplate == "" {
		entry.InsertTemplate = e.Name
	}
	if e.Signature != nil {
		sig := Signature{
			Label:         e.Signature.Label,
			Documentation: e.Signature.Documentation,
			Parameters:    e.Signature.Parameters,
		}
		if sig.Label == "" {
			names := make([]string, len(sig.Parameters))
			for i, p := range sig.Parameters {
				names[i] = p.Name
			}
			sig.Label = e.Name + "(" + strings.Join(names, ", ") + ")"
		}
		if sig.Documentation == "" {
			sig.Documentation = e.Documentation
		}
		entry.Signature = &sig
	}
	return entry, nil
}

// Extend returns a new catalog holding c's entries followed by every
// extension's entries in order. c itself is left untouched. An extension
// may not redefine an existing name.
func (c *Catalog) Extend(exts ...Extension) (*Catalog, error) {
	symbols := c.Symbols()
	snippets := c.Snippets()

	for _, ext := range exts {
		if err := ext.Check(c.version); err != nil {
			return nil, withSource(err, ext.Source)
		}
		for _, raw := range ext.Entries {
			entry, err := raw.toEntry()
			if err != nil {
				return nil, withSource(err, ext.Source)
			}
			if entry.IsSnippet() {
				snippets = append(snippets, entry)
			} else {
				symbols = append(symbols, entry)
			}
		}
	}

	next, err := New(symbols, snippets)
	if err != nil {
		return nil, errors.Wrap(err, "failed to extend catalog")
	}
	next.version = c.version
	return next, nil
}

func withSource(err error, source string) error {
	if source == "" {
		return err
	}
	return errors.WithHintf(err, "in catalog extension %s", source)
}

// LoadWithExtensions builds the default catalog and layers the given
// extension files over it in order.
func LoadWithExtensions(paths []string) (*Catalog, error) {
	base := Default()
	if len(paths) == 0 {
		return base, nil
	}
	exts := make([]Extension, 0, len(paths))
	for _, p := range paths {
		ext, err := LoadExtension(p)
		if err != nil {
			return nil, err
		}
		exts = append(exts, ext)
	}
	return base.Extend(exts...)
}
