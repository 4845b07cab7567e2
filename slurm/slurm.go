/*
 * slurm.go, part of govasp.
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

package slurm

import (
	"embed"
	"io/fs"
	"path/filepath"
	"strings"

	vasp "github.com/rmera/govasp"
)

const (
	DefaultMarker   = "#SBATCH"
	DefaultTemplate = "default.job"
	Shebang         = "#!/bin/bash"
	FileName        = "job.slurm"
)

//go:embed templates/*.job
var templatesFS embed.FS

// Templates returns the job script templates shipped with the library.
func Templates() fs.FS {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		panic(err.Error()) //can't happen with a valid embed pattern
	}
	return sub
}

// Directive is a named scheduler option. Flag directives have no value.
type Directive struct {
	Name  string
	Value string
	Flag  bool
}

func (d Directive) render(marker string) string {
	if d.Flag {
		return marker + " --" + d.Name
	}
	return marker + " --" + d.Name + "=" + d.Value
}

// line is a preamble line. For directive lines, name is set and text
// holds the original line until the directive is modified.
type line struct {
	text string
	name string
}

// Script is a batch job script: a preamble of comments and directives,
// followed by a body of shell commands. Lines that are not directives
// are kept as they were.
type Script struct {
	marker     string
	preamble   []line
	directives map[string]*Directive
	body       []string
}

// New returns a script with only a shebang line. An empty marker means DefaultMarker.
func New(marker string) *Script {
	S := newScript(marker)
	S.preamble = []line{{text: Shebang}}
	return S
}

func newScript(marker string) *Script {
	if marker == "" {
		marker = DefaultMarker
	}
	return &Script{marker: marker, directives: make(map[string]*Directive)}
}

// Marker returns the prefix that identifies directive lines.
func (S *Script) Marker() string {
	return S.marker
}

// parseDirective recognizes "--key=value", "--key value" and "--key" after the marker.
func parseDirective(rest string) (Directive, bool) {
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "--") || len(rest) == 2 {
		return Directive{}, false
	}
	rest = rest[2:]
	i := strings.IndexAny(rest, "= \t")
	if i < 0 {
		return Directive{Name: rest, Flag: true}, true
	}
	if i == 0 {
		return Directive{}, false
	}
	return Directive{Name: rest[:i], Value: strings.TrimSpace(rest[i+1:])}, true
}

// Parse reads a job script. Lines in the preamble starting with marker
// (DefaultMarker if empty) are directives. The body starts at the first
// line that is neither blank nor a '#' line.
func Parse(text, marker string) *Script {
	S := newScript(marker)
	text = strings.TrimSuffix(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if text == "" {
		return S
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		t := strings.TrimSpace(l)
		if t != "" && !strings.HasPrefix(t, "#") {
			S.body = lines[i:]
			break
		}
		if strings.HasPrefix(t, S.marker) {
			if d, ok := parseDirective(t[len(S.marker):]); ok {
				S.addParsed(l, d)
				continue
			}
		}
		S.preamble = append(S.preamble, line{text: l})
	}
	return S
}

// addParsed records a directive read from text. A repeated directive keeps
// its first position and takes the last value.
func (S *Script) addParsed(text string, d Directive) {
	if prev, ok := S.directives[d.Name]; ok {
		*prev = d
		for i := range S.preamble {
			if S.preamble[i].name == d.Name {
				S.preamble[i].text = ""
			}
		}
		return
	}
	S.directives[d.Name] = &d
	S.preamble = append(S.preamble, line{text: text, name: d.Name})
}

// Directive returns the value of the directive name and whether it is set.
func (S *Script) Directive(name string) (string, bool) {
	d, ok := S.directives[name]
	if !ok {
		return "", false
	}
	return d.Value, true
}

// Directives returns the directives in the order they appear.
func (S *Script) Directives() []Directive {
	ret := make([]Directive, 0, len(S.directives))
	for _, l := range S.preamble {
		if l.name != "" {
			ret = append(ret, *S.directives[l.name])
		}
	}
	return ret
}

// SetDirective sets the directive name to value. New directives are placed
// after the last directive or, if there is none, after the shebang.
func (S *Script) SetDirective(name, value string) {
	S.set(Directive{Name: name, Value: value})
}

// SetFlag sets a directive without value, such as --exclusive.
func (S *Script) SetFlag(name string) {
	S.set(Directive{Name: name, Flag: true})
}

func (S *Script) set(d Directive) {
	vasp.Logger().Debugf("Setting directive %s", d.render(S.marker))
	if prev, ok := S.directives[d.Name]; ok {
		*prev = d
		for i := range S.preamble {
			if S.preamble[i].name == d.Name {
				S.preamble[i].text = ""
			}
		}
		return
	}
	S.directives[d.Name] = &d
	at := -1
	for i, l := range S.preamble {
		if l.name != "" {
			at = i
		}
	}
	if at < 0 && len(S.preamble) > 0 && strings.HasPrefix(S.preamble[0].text, "#!") {
		at = 0
	}
	S.preamble = append(S.preamble, line{})
	copy(S.preamble[at+2:], S.preamble[at+1:])
	S.preamble[at+1] = line{name: d.Name}
}

// RemoveDirective deletes the directive name. It returns false if it was not set.
func (S *Script) RemoveDirective(name string) bool {
	if _, ok := S.directives[name]; !ok {
		return false
	}
	vasp.Logger().Debugf("Removing directive %s", name)
	delete(S.directives, name)
	kept := S.preamble[:0]
	for _, l := range S.preamble {
		if l.name != name {
			kept = append(kept, l)
		}
	}
	S.preamble = kept
	return true
}

// SyncPathDirectives points the standard output, the standard error and the
// working directory of the job to dir.
func (S *Script) SyncPathDirectives(dir string) {
	S.SetDirective("output", filepath.Join(dir, "std.out"))
	S.SetDirective("error", filepath.Join(dir, "std.err"))
	S.SetDirective("chdir", dir)
}

// SyncPaths is like SyncPathDirectives, but the job runs in runDir while
// the standard output and error go to outDir. If both are the same, the
// output files are given relative to it.
func (S *Script) SyncPaths(runDir, outDir string) {
	if filepath.Clean(runDir) == filepath.Clean(outDir) {
		S.SetDirective("output", "std.out")
		S.SetDirective("error", "std.err")
	} else {
		S.SetDirective("output", filepath.Join(outDir, "std.out"))
		S.SetDirective("error", filepath.Join(outDir, "std.err"))
	}
	S.SetDirective("chdir", runDir)
}

// preambleText returns the preamble line l as it is written.
func (S *Script) preambleText(l line) string {
	if l.name != "" && l.text == "" {
		return S.directives[l.name].render(S.marker)
	}
	return l.text
}

// Lines returns the script, one element per line.
func (S *Script) Lines() []string {
	ret := make([]string, 0, len(S.preamble)+len(S.body))
	for _, l := range S.preamble {
		ret = append(ret, S.preambleText(l))
	}
	return append(ret, S.body...)
}

// String returns the script text.
func (S *Script) String() string {
	lines := S.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Load replaces S with the script at path, keeping the marker.
func (S *Script) Load(path string) error {
	data, err := vasp.ReadFile(path)
	if err != nil {
		return err
	}
	*S = *Parse(string(data), S.marker)
	vasp.Logger().Debugf("Loaded job script from %s", path)
	return nil
}

// Save writes the script to path, creating the directories as needed.
func (S *Script) Save(path string) error {
	created, err := vasp.WriteFile(path, []byte(S.String()))
	if err != nil {
		return err
	}
	vasp.LogSaved("job script", path, created)
	return nil
}

// Seed returns the script at path if it exists. Otherwise, it returns the
// template name from templates or, if that is not available, a script with
// only a shebang line. templates can be nil.
func Seed(path string, templates fs.FS, name, marker string) (*Script, error) {
	if vasp.Exists(path) {
		S := newScript(marker)
		if err := S.Load(path); err != nil {
			return nil, vasp.Decorate(err, "Seed")
		}
		return S, nil
	}
	if templates != nil && name != "" {
		data, err := fs.ReadFile(templates, name)
		if err == nil {
			vasp.Logger().Debugf("Loaded job script from template '%s'.", name)
			return Parse(string(data), marker), nil
		}
	}
	vasp.Logger().Warnf("Job script template '%s' not found; using minimal script.", name)
	return New(marker), nil
}
