/*
 * parse.go, part of govasp.
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

package poscar

import (
	"strconv"
	"strings"

	vasp "github.com/rmera/govasp"
	"github.com/rmera/govasp/v3"
)

// lines is a cursor over the lines of a POSCAR text that keeps track
// of the (1-based) line number for error reporting.
type lines struct {
	l   []string
	cur int
}

func (L *lines) next(what string) (string, error) {
	if L.cur >= len(L.l) {
		return "", vasp.NewParseError(L.cur+1, "", "unexpected end of file, expected %s", what)
	}
	L.cur++
	return L.l[L.cur-1], nil
}

func (L *lines) num() int { return L.cur }

// parseFloat also accepts the Fortran double precision exponent (1.0D-3).
func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.NewReplacer("d", "e", "D", "e").Replace(s), 64)
}

func (L *lines) floats(n int, what string) ([]float64, error) {
	line, err := L.next(what)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) < n {
		return nil, vasp.NewParseError(L.num(), line, "expected %d numbers for %s, got %d fields", n, what, len(fields))
	}
	ret := make([]float64, n)
	for i := range ret {
		if ret[i], err = parseFloat(fields[i]); err != nil {
			return nil, vasp.NewParseError(L.num(), fields[i], "malformed number in %s", what)
		}
	}
	return ret, nil
}

func parseFlag(s string) (bool, bool) {
	switch strings.ToUpper(s) {
	case "T", ".TRUE.", ".T.":
		return true, true
	case "F", ".FALSE.", ".F.":
		return false, true
	}
	return false, false
}

// Parse reads a POSCAR text: comment, scale factor, three lattice vectors,
// species symbols, species counts, an optional "Selective dynamics" line,
// the coordinate mode and one line per atom. Anything after the positions
// is kept verbatim.
func Parse(text string) (*Poscar, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimRight(text, "\n")
	if strings.TrimSpace(text) == "" {
		return nil, vasp.NewParseError(1, "", "empty structure")
	}
	L := &lines{l: strings.Split(text, "\n")}
	P := new(Poscar)
	P.Comment, _ = L.next("comment")

	scale, err := L.floats(1, "scale factor")
	if err != nil {
		return nil, err
	}
	if scale[0] == 0 {
		return nil, vasp.NewParseError(L.num(), L.l[L.num()-1], "scale factor can't be zero")
	}
	P.Scale = scale[0]

	lat := make([]float64, 0, 9)
	for i := 0; i < 3; i++ {
		v, err := L.floats(3, "lattice vector")
		if err != nil {
			return nil, err
		}
		lat = append(lat, v...)
	}
	P.Lattice, _ = v3.NewMatrix(lat)

	line, err := L.next("species symbols")
	if err != nil {
		return nil, err
	}
	syms := strings.Fields(line)
	if len(syms) == 0 {
		return nil, vasp.NewParseError(L.num(), line, "no species symbols")
	}
	if _, err := strconv.Atoi(syms[0]); err == nil {
		return nil, vasp.NewParseError(L.num(), line, "species symbols line missing (counts found instead)")
	}
	line, err = L.next("species counts")
	if err != nil {
		return nil, err
	}
	counts := strings.Fields(line)
	if len(counts) != len(syms) {
		return nil, vasp.NewParseError(L.num(), line, "%d species counts for %d symbols", len(counts), len(syms))
	}
	P.Species = make([]Species, len(syms))
	for i, c := range counts {
		n, err := strconv.Atoi(c)
		if err != nil || n <= 0 {
			return nil, vasp.NewParseError(L.num(), c, "species count must be a positive integer")
		}
		P.Species[i] = Species{Symbol: syms[i], Count: n}
	}

	line, err = L.next("coordinate mode")
	if err != nil {
		return nil, err
	}
	selective := false
	if t := strings.TrimSpace(line); t != "" && (t[0] == 's' || t[0] == 'S') {
		selective = true
		if line, err = L.next("coordinate mode"); err != nil {
			return nil, err
		}
	}
	t := strings.TrimSpace(line)
	switch {
	case t == "":
		return nil, vasp.NewParseError(L.num(), line, "empty coordinate mode line")
	case strings.ContainsRune("dD", rune(t[0])):
		P.Mode = Direct
	case strings.ContainsRune("cCkK", rune(t[0])):
		P.Mode = Cartesian
	default:
		return nil, vasp.NewParseError(L.num(), line, "unknown coordinate mode")
	}

	natoms := P.NAtoms()
	pos := make([]float64, 0, 3*natoms)
	if selective {
		P.Selective = make([][3]bool, natoms)
	}
	labels := make([]string, natoms)
	haslabels := false
	for i := 0; i < natoms; i++ {
		line, err := L.next("atomic position")
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, vasp.NewParseError(L.num(), line, "expected 3 coordinates for atom %d", i+1)
		}
		for _, f := range fields[:3] {
			x, err := parseFloat(f)
			if err != nil {
				return nil, vasp.NewParseError(L.num(), f, "malformed coordinate for atom %d", i+1)
			}
			pos = append(pos, x)
		}
		rest := fields[3:]
		if selective {
			if len(rest) < 3 {
				return nil, vasp.NewParseError(L.num(), line, "expected 3 selective dynamics flags for atom %d", i+1)
			}
			for j, f := range rest[:3] {
				b, ok := parseFlag(f)
				if !ok {
					return nil, vasp.NewParseError(L.num(), f, "selective dynamics flag must be T or F")
				}
				P.Selective[i][j] = b
			}
			rest = rest[3:]
		}
		if len(rest) > 0 {
			labels[i] = strings.Join(rest, " ")
			haslabels = true
		}
	}
	P.Positions, _ = v3.NewMatrix(pos)
	if haslabels {
		P.Labels = labels
	}
	if L.cur < len(L.l) {
		P.Extra = append([]string(nil), L.l[L.cur:]...)
	}
	return P, nil
}
