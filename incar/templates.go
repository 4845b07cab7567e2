/*
 * templates.go, part of govasp.
 *
 * Copyright 2026 Raul Mera <rmeraatusachdotcl>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package incar

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	vasp "github.com/rmera/govasp"
)

// TemplateExt is the extension of INCAR template files.
const TemplateExt = ".incar"

// LocalTemplateDir is where templates are looked for, relative to the input
// directory of a calculation.
const LocalTemplateDir = "templates/incar"

//go:embed templates/*.incar
var builtinFS embed.FS

// Catalog is a read-only set of named INCAR templates.
type Catalog struct {
	names     []string
	templates map[string]*Incar
}

var (
	builtinOnce sync.Once
	builtin     *Catalog
)

// Builtin returns the catalog of templates shipped with the library. It is
// loaded the first time it is needed and never changes afterwards.
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		c, err := NewCatalog(builtinFS, "templates")
		if err != nil {
			panic(fmt.Sprintf("incar: malformed built-in template: %v", err)) //can only be a bug
		}
		builtin = c
		vasp.Logger().Debugf("INCAR template catalog loaded: %s", strings.Join(c.names, ", "))
	})
	return builtin
}

// NewCatalog reads all the *.incar files in the directory dir of fsys.
func NewCatalog(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	c := &Catalog{templates: make(map[string]*Incar)}
	for _, e := range entries {
		if e.IsDir() || strings.ToLower(path.Ext(e.Name())) != TemplateExt {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		t, err := Parse(string(data))
		if err != nil {
			if perr, ok := err.(*vasp.ParseError); ok {
				perr.InFile(e.Name())
			}
			return nil, err
		}
		name := templateStem(e.Name())
		c.templates[name] = t
		c.names = append(c.names, name)
	}
	sort.Strings(c.names)
	return c, nil
}

// Names returns the sorted template names.
func (C *Catalog) Names() []string {
	ret := make([]string, len(C.names))
	copy(ret, C.names)
	return ret
}

// Template returns a copy of the template name. The name can be given with
// or without the .incar extension.
func (C *Catalog) Template(name string) (*Incar, error) {
	t, ok := C.templates[templateStem(name)]
	if !ok {
		return nil, &vasp.TemplateNotFoundError{Name: name, Available: C.Names()}
	}
	return t.Clone(), nil
}

func templateStem(name string) string {
	base := path.Base(filepath.ToSlash(name))
	if strings.ToLower(path.Ext(base)) == TemplateExt {
		base = base[:len(base)-len(TemplateExt)]
	}
	return base
}

// LoadTemplate returns the template name. Each directory in dirs is searched
// for a file name.incar before falling back to the built-in catalog.
func LoadTemplate(name string, dirs ...string) (*Incar, error) {
	stem := templateStem(name)
	for _, d := range dirs {
		p := filepath.Join(d, stem+TemplateExt)
		if !vasp.Exists(p) {
			continue
		}
		t := New()
		if err := t.Load(p); err != nil {
			return nil, vasp.Decorate(err, "LoadTemplate")
		}
		vasp.Logger().Infof("Loaded INCAR template %q (%d params) from %s", stem, t.Len(), p)
		return t, nil
	}
	t, err := Builtin().Template(stem)
	if err != nil {
		terr := err.(*vasp.TemplateNotFoundError)
		terr.Name = name
		terr.Available = ListTemplates(dirs...)
		vasp.Logger().Errorf("Requested INCAR template %q not found. Available: %s", name, strings.Join(terr.Available, ", "))
		return nil, vasp.Decorate(terr, "LoadTemplate")
	}
	return t, nil
}

// ListTemplates returns the sorted names of the built-in templates together
// with those found in dirs.
func ListTemplates(dirs ...string) []string {
	seen := make(map[string]bool)
	names := Builtin().Names()
	for _, n := range names {
		seen[n] = true
	}
	for _, d := range dirs {
		matches, _ := filepath.Glob(filepath.Join(d, "*"+TemplateExt))
		for _, m := range matches {
			n := templateStem(m)
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}

// ApplyTemplate merges the template name into I (see Merge and LoadTemplate).
func (I *Incar) ApplyTemplate(name string, overwrite bool, dirs ...string) error {
	t, err := LoadTemplate(name, dirs...)
	if err != nil {
		return vasp.Decorate(err, "ApplyTemplate")
	}
	n := I.Merge(t, overwrite)
	vasp.Logger().Infof("Applied INCAR template %q (overwrite=%t, +%d keys, total=%d)", name, overwrite, n, I.Len())
	return nil
}
