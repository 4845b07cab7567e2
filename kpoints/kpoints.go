/*
 * kpoints.go, part of govasp.
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

package kpoints

import (
	"fmt"
	"strconv"
	"strings"

	vasp "github.com/rmera/govasp"
)

// FileName is the conventional name of the k-point file.
const FileName = "KPOINTS"

// Scheme is the way the k-points are given.
type Scheme int

const (
	Unset     Scheme = iota //empty document
	Automatic               //a grid generated by the program
	Explicit                //a list of points with weights
	LineMode                //band structure paths
)

func (s Scheme) String() string {
	switch s {
	case Automatic:
		return "Automatic"
	case Explicit:
		return "Explicit"
	case LineMode:
		return "Line-mode"
	}
	return "Unset"
}

// Style is the kind of automatic grid.
type Style int

const (
	MonkhorstPack Style = iota
	Gamma                //Gamma-centered grid
	Auto                 //only a length is given
)

func (s Style) String() string {
	switch s {
	case Gamma:
		return "Gamma"
	case Auto:
		return "Auto"
	}
	return "Monkhorst-Pack"
}

// Coord is the coordinate system for explicit points and line-mode paths.
type Coord int

const (
	Reciprocal Coord = iota
	Cartesian
)

func (c Coord) String() string {
	if c == Cartesian {
		return "Cartesian"
	}
	return "Reciprocal"
}

// Point is an explicit k-point with its weight.
type Point struct {
	K      [3]float64
	Weight float64
}

// Segment is a straight path between two high-symmetry points.
type Segment struct {
	Start, End           [3]float64
	StartLabel, EndLabel string
}

// Kpoints is a k-point file. Only the fields relevant to
// Scheme (and Style, for automatic grids) are meaningful.
type Kpoints struct {
	Comment string
	Scheme  Scheme

	//Automatic
	Style  Style
	Grid   [3]int
	Shift  [3]float64
	Length float64 //Auto style only

	//Explicit and LineMode
	Coord     Coord
	Points    []Point
	Divisions int //points per segment
	Segments  []Segment

	Extra []string //lines after the k-point data, verbatim
}

// reset leaves only the comment.
func (K *Kpoints) reset(comment string) {
	*K = Kpoints{Comment: comment}
}

// SetMonkhorstPack switches to an automatic Monkhorst-Pack grid. The shift is
// zero unless given. Explicit points and paths are discarded.
func (K *Kpoints) SetMonkhorstPack(grid [3]int, shift ...[3]float64) {
	K.setGrid(MonkhorstPack, grid, shift)
}

// SetGamma switches to an automatic Gamma-centered grid. The shift is zero
// unless given. Explicit points and paths are discarded.
func (K *Kpoints) SetGamma(grid [3]int, shift ...[3]float64) {
	K.setGrid(Gamma, grid, shift)
}

func (K *Kpoints) setGrid(style Style, grid [3]int, shift [][3]float64) {
	K.reset("Automatic mesh")
	K.Scheme = Automatic
	K.Style = style
	K.Grid = grid
	if len(shift) > 0 {
		K.Shift = shift[0]
	}
	vasp.Logger().Infof("Generated new KPOINTS from automatic mesh: %v (%s)", grid, style)
}

// SetAutoLength switches to a fully automatic grid determined by length.
func (K *Kpoints) SetAutoLength(length float64) {
	K.reset("Automatic length mesh")
	K.Scheme = Automatic
	K.Style = Auto
	K.Length = length
	vasp.Logger().Infof("Generated new KPOINTS from length density: %g", length)
}

// SetExplicit switches to an explicit list of points.
func (K *Kpoints) SetExplicit(points []Point, coord Coord) {
	K.reset("Explicit k-points")
	K.Scheme = Explicit
	K.Coord = coord
	K.Points = append([]Point(nil), points...)
	vasp.Logger().Infof("Generated new KPOINTS from explicit list of %d k-points", len(points))
}

// SetLineMode switches to band-structure paths with divisions points per segment.
func (K *Kpoints) SetLineMode(segments []Segment, divisions int, coord Coord) {
	K.reset("Line mode")
	K.Scheme = LineMode
	K.Coord = coord
	K.Divisions = divisions
	K.Segments = append([]Segment(nil), segments...)
	vasp.Logger().Infof("Generated new KPOINTS in line mode with %d divisions", divisions)
}

// Empty returns true if K holds no k-point specification.
func (K *Kpoints) Empty() bool {
	return K.Scheme == Unset
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func vec(v [3]float64) string {
	return ftoa(v[0]) + " " + ftoa(v[1]) + " " + ftoa(v[2])
}

// String returns the KPOINTS text, or an empty string if K is empty.
func (K *Kpoints) String() string {
	var b strings.Builder
	switch K.Scheme {
	case Unset:
		return ""
	case Automatic:
		fmt.Fprintf(&b, "%s\n0\n%s\n", K.Comment, K.Style)
		if K.Style == Auto {
			fmt.Fprintf(&b, "%s\n", ftoa(K.Length))
			break
		}
		fmt.Fprintf(&b, "%d %d %d\n%s\n", K.Grid[0], K.Grid[1], K.Grid[2], vec(K.Shift))
	case Explicit:
		fmt.Fprintf(&b, "%s\n%d\n%s\n", K.Comment, len(K.Points), K.Coord)
		for _, p := range K.Points {
			fmt.Fprintf(&b, "%s %s\n", vec(p.K), ftoa(p.Weight))
		}
	case LineMode:
		fmt.Fprintf(&b, "%s\n%d\nLine-mode\n%s\n", K.Comment, K.Divisions, K.Coord)
		for i, s := range K.Segments {
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(point(s.Start, s.StartLabel))
			b.WriteString(point(s.End, s.EndLabel))
		}
	}
	for _, l := range K.Extra {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

func point(v [3]float64, label string) string {
	if label == "" {
		return vec(v) + "\n"
	}
	return vec(v) + " ! " + label + "\n"
}

// Load reads the KPOINTS file at path.
func (K *Kpoints) Load(path string) error {
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
	*K = *n
	vasp.Logger().Infof("Loaded KPOINTS from %s.", path)
	return nil
}

// Save writes K to path, creating the directories as needed.
// Nothing is written for an empty document.
func (K *Kpoints) Save(path string) error {
	if K.Empty() {
		vasp.Logger().Warnf("KPOINTS is empty, not writing %s.", path)
		return nil
	}
	created, err := vasp.WriteFile(path, []byte(K.String()))
	if err != nil {
		return err
	}
	vasp.LogSaved("KPOINTS", path, created)
	return nil
}
