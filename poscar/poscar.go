/*
 * poscar.go, part of govasp.
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
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	vasp "github.com/rmera/govasp"
	"github.com/rmera/govasp/v3"
)

// FileName is the conventional name of the structure file.
const FileName = "POSCAR"

// Mode is the coordinate mode of the positions.
type Mode int

const (
	Direct    Mode = iota //fractional coordinates
	Cartesian             //Angstrom, multiplied by the scale factor
)

func (m Mode) String() string {
	if m == Cartesian {
		return "Cartesian"
	}
	return "Direct"
}

// Species is a block of consecutive atoms of the same element.
type Species struct {
	Symbol string
	Count  int
}

// Poscar is an atomic structure. Positions has one row per atom, in the order
// given by expanding Species. Selective and Labels are either nil or have
// one element per atom.
type Poscar struct {
	Comment   string
	Scale     float64 //a negative number is the target volume of the cell
	Lattice   *v3.Matrix
	Species   []Species
	Mode      Mode
	Positions *v3.Matrix
	Selective [][3]bool
	Labels    []string //whatever followed the coordinates (and flags) of each atom
	Extra     []string //lines after the positions (velocities, predictor data, etc.), verbatim

	offset offset //translations applied so far
}

// Empty returns true if P holds no structure.
func (P *Poscar) Empty() bool {
	return P.Lattice == nil || P.Positions == nil
}

// NAtoms returns the total number of atoms.
func (P *Poscar) NAtoms() int {
	n := 0
	for _, s := range P.Species {
		n += s.Count
	}
	return n
}

// Symbols returns the element symbol of each atom.
func (P *Poscar) Symbols() []string {
	ret := make([]string, 0, P.NAtoms())
	for _, s := range P.Species {
		for i := 0; i < s.Count; i++ {
			ret = append(ret, s.Symbol)
		}
	}
	return ret
}

// SpeciesOrder returns the symbols of the structure without repetitions,
// in order of first appearance. This is the order in which the potentials are
// concatenated.
func (P *Poscar) SpeciesOrder() []string {
	seen := make(map[string]bool, len(P.Species))
	ret := make([]string, 0, len(P.Species))
	for _, s := range P.Species {
		if seen[s.Symbol] {
			continue
		}
		seen[s.Symbol] = true
		ret = append(ret, s.Symbol)
	}
	return ret
}

// scaleFactor returns the factor that multiplies the lattice vectors (and the
// Cartesian positions). For a negative Scale, it is the factor that gives
// the cell a volume of -Scale.
func (P *Poscar) scaleFactor() float64 {
	if P.Scale < 0 {
		return math.Cbrt(-P.Scale / math.Abs(P.Lattice.Det()))
	}
	return P.Scale
}

// Volume returns the volume of the cell, in cubic Angstrom.
func (P *Poscar) Volume() float64 {
	s := P.scaleFactor()
	return s * s * s * math.Abs(P.Lattice.Det())
}

// ToCartesian converts the positions to Cartesian coordinates. As in the file,
// Cartesian positions are kept divided by the scale factor, so the conversion
// doesn't depend on it. It does nothing if the positions are already Cartesian.
func (P *Poscar) ToCartesian() {
	if P.Mode == Cartesian {
		return
	}
	P.Positions.Mul(P.Positions, P.Lattice)
	P.Mode = Cartesian
}

// ToDirect converts the positions to fractional coordinates. It fails if the
// lattice vectors are linearly dependent. It does nothing if the positions are
// already Direct.
func (P *Poscar) ToDirect() error {
	if P.Mode == Direct {
		return nil
	}
	inv := mat.NewDense(3, 3, nil)
	if err := inv.Inverse(P.Lattice.Dense); err != nil {
		return vasp.Decorate(&SingularLatticeError{Det: P.Lattice.Det()}, "ToDirect")
	}
	P.Positions.Mul(P.Positions, inv)
	P.Mode = Direct
	return nil
}

// Wrap brings all atoms into the unit cell, i.e., into the [0,1) fractional range.
// Cartesian structures are converted to Direct and back.
func (P *Poscar) Wrap() error {
	if P.Empty() {
		return nil
	}
	cart := P.Mode == Cartesian
	if err := P.ToDirect(); err != nil {
		return vasp.Decorate(err, "Wrap")
	}
	P.Positions.Floor(P.Positions)
	if cart {
		P.ToCartesian()
	}
	return nil
}

// Copy returns a deep copy of P.
func (P *Poscar) Copy() *Poscar {
	r := *P
	if P.Lattice != nil {
		r.Lattice = P.Lattice.Clone()
	}
	if P.Positions != nil {
		r.Positions = P.Positions.Clone()
	}
	r.Species = append([]Species(nil), P.Species...)
	if P.Selective != nil {
		r.Selective = append([][3]bool(nil), P.Selective...)
	}
	if P.Labels != nil {
		r.Labels = append([]string(nil), P.Labels...)
	}
	if P.Extra != nil {
		r.Extra = append([]string(nil), P.Extra...)
	}
	return &r
}

// String returns the POSCAR text, or an empty string if P is empty.
func (P *Poscar) String() string {
	if P.Empty() {
		return ""
	}
	var b strings.Builder
	b.WriteString(P.Comment)
	b.WriteByte('\n')
	fmt.Fprintf(&b, "  %.16f\n", P.Scale)
	for i := 0; i < 3; i++ {
		v := P.Lattice.Vec(i)
		fmt.Fprintf(&b, " %s\n", coords(v))
	}
	syms := make([]string, len(P.Species))
	counts := make([]string, len(P.Species))
	for i, s := range P.Species {
		w := len(s.Symbol)
		if c := len(strconv.Itoa(s.Count)); c > w {
			w = c
		}
		syms[i] = fmt.Sprintf("%*s", w, s.Symbol)
		counts[i] = fmt.Sprintf("%*d", w, s.Count)
	}
	fmt.Fprintf(&b, "  %s\n", strings.Join(syms, "  "))
	fmt.Fprintf(&b, "  %s\n", strings.Join(counts, "  "))
	if P.Selective != nil {
		b.WriteString("Selective dynamics\n")
	}
	b.WriteString(P.Mode.String())
	b.WriteByte('\n')
	for i := 0; i < P.NAtoms(); i++ {
		v := P.Positions.Vec(i)
		b.WriteString(" ")
		b.WriteString(coords(v))
		if P.Selective != nil {
			for _, f := range P.Selective[i] {
				b.WriteString("   ")
				b.WriteString(tf(f))
			}
		}
		if P.Labels != nil && P.Labels[i] != "" {
			b.WriteByte(' ')
			b.WriteString(P.Labels[i])
		}
		b.WriteByte('\n')
	}
	for _, l := range P.Extra {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

// coords formats a vector with a fixed number of decimals. Every number
// is preceded by at least one space, whatever its magnitude.
func coords(v [3]float64) string {
	return fmt.Sprintf(" %21.16f %21.16f %21.16f", v[0], v[1], v[2])
}

func tf(b bool) string {
	if b {
		return "T"
	}
	return "F"
}

// Load reads the structure in the file path.
func (P *Poscar) Load(path string) error {
	data, err := vasp.ReadFile(path)
	if err != nil {
		return err
	}
	n, err := Parse(string(data))
	if err != nil {
		if perr, ok := err.(*vasp.ParseError); ok {
			perr.InFile(path)
		}
		return vasp.Decorate(err, "Load")
	}
	*P = *n
	vasp.Logger().Infof("Loaded POSCAR from %s.", path)
	return nil
}

// Save writes the structure to path, creating the directories as needed.
// An empty structure is not written.
func (P *Poscar) Save(path string) error {
	if P.Empty() {
		vasp.Logger().Warnf("POSCAR is empty, not writing %s.", path)
		return nil
	}
	created, err := vasp.WriteFile(path, []byte(P.String()))
	if err != nil {
		return err
	}
	vasp.LogSaved("POSCAR", path, created)
	return nil
}

// SingularLatticeError is returned when the lattice vectors can't be inverted.
type SingularLatticeError struct {
	Det  float64
	deco []string
}

func (err *SingularLatticeError) Error() string {
	return fmt.Sprintf("lattice vectors are linearly dependent (determinant %g)", err.Det)
}

func (err *SingularLatticeError) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append(err.deco, dec)
	}
	return err.deco
}

func (err *SingularLatticeError) FileName() string { return "" }

func (err *SingularLatticeError) Critical() bool { return true }
