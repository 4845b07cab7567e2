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

package kpoints

import (
	"strconv"
	"strings"

	vasp "github.com/rmera/govasp"
)

type reader struct {
	l   []string
	cur int
}

func (R *reader) next(what string) (string, error) {
	if R.cur >= len(R.l) {
		return "", vasp.NewParseError(R.cur+1, "", "unexpected end of file, expected %s", what)
	}
	R.cur++
	return R.l[R.cur-1], nil
}

// nextData is like next, but skips blank lines.
func (R *reader) nextData(what string) (string, error) {
	for {
		l, err := R.next(what)
		if err != nil || strings.TrimSpace(l) != "" {
			return l, err
		}
	}
}

func (R *reader) errorf(field, format string, args ...interface{}) error {
	return vasp.NewParseError(R.cur, field, format, args...)
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.NewReplacer("d", "e", "D", "e").Replace(s), 64)
}

func parseVec(fields []string) ([3]float64, bool) {
	var v [3]float64
	if len(fields) < 3 {
		return v, false
	}
	for i := range v {
		var err error
		if v[i], err = parseFloat(fields[i]); err != nil {
			return v, false
		}
	}
	return v, true
}

func firstChar(line string) byte {
	t := strings.TrimSpace(line)
	if t == "" {
		return 0
	}
	return t[0] | 0x20 //lower case
}

func coord(line string) Coord {
	if c := firstChar(line); c == 'c' || c == 'k' {
		return Cartesian
	}
	return Reciprocal
}

// Parse reads a KPOINTS text. The second line gives the number of points:
// 0 for an automatic grid, otherwise the number of explicit points, or the
// divisions per segment if the third line starts with 'L' (line mode).
func Parse(text string) (*Kpoints, error) {
	text = strings.TrimRight(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	if strings.TrimSpace(text) == "" {
		return nil, vasp.NewParseError(1, "", "empty k-point file")
	}
	R := &reader{l: strings.Split(text, "\n")}
	K := new(Kpoints)
	K.Comment, _ = R.next("comment")
	line, err := R.next("number of k-points")
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, R.errorf(line, "missing number of k-points")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || n < 0 {
		return nil, R.errorf(fields[0], "number of k-points must be a non-negative integer")
	}
	scheme, err := R.next("k-point scheme")
	if err != nil {
		return nil, err
	}
	switch {
	case n == 0:
		err = parseAutomatic(R, K, scheme)
	case firstChar(scheme) == 'l':
		K.Divisions = n
		err = parseLineMode(R, K)
	default:
		K.Scheme = Explicit
		K.Coord = coord(scheme)
		err = parseExplicit(R, K, n)
	}
	if err != nil {
		return nil, err
	}
	if R.cur < len(R.l) {
		K.Extra = append([]string(nil), R.l[R.cur:]...)
	}
	return K, nil
}

func parseAutomatic(R *reader, K *Kpoints, scheme string) error {
	K.Scheme = Automatic
	switch firstChar(scheme) {
	case 'm':
		K.Style = MonkhorstPack
	case 'g':
		K.Style = Gamma
	case 'a':
		K.Style = Auto
		line, err := R.next("length")
		if err != nil {
			return err
		}
		f := strings.Fields(line)
		if len(f) == 0 {
			return R.errorf(line, "missing length")
		}
		if K.Length, err = parseFloat(f[0]); err != nil {
			return R.errorf(f[0], "malformed length")
		}
		return nil
	default:
		return R.errorf(scheme, "unsupported automatic scheme")
	}
	line, err := R.next("grid")
	if err != nil {
		return err
	}
	f := strings.Fields(line)
	if len(f) < 3 {
		return R.errorf(line, "expected 3 grid subdivisions")
	}
	for i := range K.Grid {
		if K.Grid[i], err = strconv.Atoi(f[i]); err != nil || K.Grid[i] <= 0 {
			return R.errorf(f[i], "grid subdivisions must be positive integers")
		}
	}
	if R.cur >= len(R.l) {
		return nil //the shift is optional
	}
	line, _ = R.next("shift")
	v, ok := parseVec(strings.Fields(line))
	if !ok {
		return R.errorf(line, "malformed grid shift")
	}
	K.Shift = v
	return nil
}

func parseExplicit(R *reader, K *Kpoints, n int) error {
	K.Points = make([]Point, n)
	for i := range K.Points {
		line, err := R.next("k-point")
		if err != nil {
			return err
		}
		f := strings.Fields(line)
		v, ok := parseVec(f)
		if !ok || len(f) < 4 {
			return R.errorf(line, "expected 3 coordinates and a weight for k-point %d", i+1)
		}
		w, err := parseFloat(f[3])
		if err != nil {
			return R.errorf(f[3], "malformed weight for k-point %d", i+1)
		}
		K.Points[i] = Point{K: v, Weight: w}
	}
	return nil
}

// pathPoint reads "x y z [! label]". A label without '!' is also accepted.
func pathPoint(line string) ([3]float64, string, bool) {
	code, label, _ := strings.Cut(line, "!")
	f := strings.Fields(code)
	v, ok := parseVec(f)
	if !ok {
		return v, "", false
	}
	label = strings.TrimSpace(label)
	if label == "" && len(f) > 3 {
		label = strings.Join(f[3:], " ")
	}
	return v, label, true
}

func parseLineMode(R *reader, K *Kpoints) error {
	K.Scheme = LineMode
	line, err := R.next("coordinate system")
	if err != nil {
		return err
	}
	K.Coord = coord(line)
	for {
		for R.cur < len(R.l) && strings.TrimSpace(R.l[R.cur]) == "" {
			R.cur++
		}
		if R.cur >= len(R.l) {
			break
		}
		line, _ := R.next("segment start")
		start, slabel, ok := pathPoint(line)
		if !ok {
			if len(K.Segments) > 0 {
				R.cur-- //not part of the path
				break
			}
			return R.errorf(line, "malformed path point")
		}
		line, err := R.nextData("segment end")
		if err != nil {
			return err
		}
		end, elabel, ok := pathPoint(line)
		if !ok {
			return R.errorf(line, "malformed path point")
		}
		K.Segments = append(K.Segments, Segment{Start: start, End: end, StartLabel: slabel, EndLabel: elabel})
	}
	if len(K.Segments) == 0 {
		return R.errorf("", "no path segments")
	}
	return nil
}
