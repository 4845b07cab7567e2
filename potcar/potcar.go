/*
 * potcar.go, part of govasp.
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

package potcar

import (
	"bufio"
	"bytes"
	"errors"
	"path/filepath"
	"strings"

	vasp "github.com/rmera/govasp"
)

// FileName is the conventional name of the potential file, both for the
// calculation input and for each species in a potential set.
const FileName = "POTCAR"

// ErrNoSpecies is returned when asked to build a potential file for a structure
// without species.
var ErrNoSpecies = errors.New("potcar: no species to build a potential file for")

// Assembler builds potential files from a potential set laid out as
// Root/Type/<symbol>/File.
type Assembler struct {
	Root string //directory with all the potential sets
	Type string //potential set, for instance, potpaw_PBE
	File string //FileName if empty
}

// Path returns the path of the potential for the species symbol. Compressed
// variants (.zst, .gz) are also accepted by Assemble.
func (A Assembler) Path(symbol string) string {
	file := A.File
	if file == "" {
		file = FileName
	}
	return filepath.Join(A.Root, A.Type, symbol, file)
}

// Assemble returns the concatenation of the potentials for symbols, in the
// given order, with nothing added between them. Repeated symbols are included
// only once, at their first position.
func (A Assembler) Assemble(symbols ...string) ([]byte, error) {
	if len(symbols) == 0 {
		vasp.Logger().Warn("Cannot generate POTCAR: species list is empty.")
		return nil, ErrNoSpecies
	}
	var buf bytes.Buffer
	seen := make(map[string]bool, len(symbols))
	used := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if seen[s] {
			continue
		}
		seen[s] = true
		p, err := vasp.Find(A.Path(s))
		if err != nil {
			vasp.Logger().Errorf("POTCAR file for species '%s' not found at %s. Aborting.", s, A.Path(s))
			return nil, vasp.Decorate(&vasp.PotentialNotFoundError{Symbol: s, Path: A.Path(s)}, "Assemble")
		}
		data, err := vasp.ReadFile(p)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
		used = append(used, s)
	}
	vasp.Logger().Infof("Generated new POTCAR for species (%s) using potential '%s'.", strings.Join(used, ", "), A.Type)
	return buf.Bytes(), nil
}

// Generate returns the potential file for structure, with the species in the
// structure's canonical order, using the set potentialType under root.
func Generate(structure vasp.SpeciesOrderer, potentialType, root string) ([]byte, error) {
	return GenerateFor(structure.SpeciesOrder(), potentialType, root)
}

// GenerateFor is like Generate, with the species given explicitly.
func GenerateFor(symbols []string, potentialType, root string) ([]byte, error) {
	return Assembler{Root: root, Type: potentialType}.Assemble(symbols...)
}

// Potcar is a potential file. Its content is opaque except for the
// TITEL lines, which name each potential.
type Potcar struct {
	content []byte
}

// New returns a Potcar with the given content.
func New(content []byte) *Potcar {
	P := new(Potcar)
	P.SetBytes(content)
	return P
}

// Bytes returns a copy of the content.
func (P *Potcar) Bytes() []byte {
	return append([]byte(nil), P.content...)
}

// SetBytes replaces the content with a copy of b.
func (P *Potcar) SetBytes(b []byte) {
	P.content = append([]byte(nil), b...)
}

func (P *Potcar) Empty() bool {
	return len(P.content) == 0
}

func (P *Potcar) String() string {
	return string(P.content)
}

// Titles returns the value of each TITEL line, i.e., the name of
// each potential in the file, in order.
func (P *Potcar) Titles() []string {
	var ret []string
	s := bufio.NewScanner(bytes.NewReader(P.content))
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for s.Scan() {
		l := strings.TrimSpace(s.Text())
		if !strings.HasPrefix(l, "TITEL") {
			continue
		}
		if _, v, ok := strings.Cut(l, "="); ok {
			ret = append(ret, strings.TrimSpace(v))
		}
	}
	return ret
}

// Load reads the potential file at path.
func (P *Potcar) Load(path string) error {
	data, err := vasp.ReadFile(path)
	if err != nil {
		return err
	}
	P.content = data
	vasp.Logger().Infof("Loaded POTCAR from %s.", path)
	return nil
}

// Save writes the content to path, creating the directories as needed.
// Nothing is written if P is empty.
func (P *Potcar) Save(path string) error {
	if P.Empty() {
		return nil
	}
	created, err := vasp.WriteFile(path, P.content)
	if err != nil {
		return err
	}
	vasp.LogSaved("POTCAR", path, created)
	return nil
}
