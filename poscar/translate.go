/*
 * translate.go, part of govasp.
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
	"math"
	"math/big"

	"gonum.org/v1/gonum/mat"

	"github.com/rmera/govasp/v3"
)

// offset is the exact sum of the translations applied to a set of positions.
// The positions are always base+total rounded once, so translating by v and
// then by -v gives back base bit by bit, no matter how many translations
// were applied in between.
type offset struct {
	base  *v3.Matrix //positions before the first translation
	last  *v3.Matrix //positions after the last one
	mode  Mode
	total [3]*big.Rat
}

// follows returns true if the positions of P are still the ones o produced.
// Any other change to the positions (or the mode) starts a new offset.
func (o *offset) follows(P *Poscar) bool {
	if o.base == nil || o.mode != P.Mode {
		return false
	}
	r, _ := o.last.Dims()
	if r != P.Positions.NVecs() {
		return false
	}
	return mat.Equal(o.last, P.Positions)
}

func newOffset(P *Poscar) offset {
	o := offset{base: P.Positions.Clone(), mode: P.Mode}
	for i := range o.total {
		o.total[i] = new(big.Rat)
	}
	return o
}

// add returns the offset moved by v. o is not modified, as copies of a
// structure may share it.
func (o offset) add(v [3]float64) offset {
	var total [3]*big.Rat
	for i, x := range v {
		total[i] = new(big.Rat).Add(o.total[i], new(big.Rat).SetFloat64(x))
	}
	o.total = total
	return o
}

// apply puts base+total, rounded to the nearest float64, in pos.
func (o offset) apply(pos *v3.Matrix) {
	r := new(big.Rat)
	for i := 0; i < o.base.NVecs(); i++ {
		b := o.base.Vec(i)
		var v [3]float64
		for j := range v {
			r.SetFloat64(b[j])
			v[j], _ = r.Add(r, o.total[j]).Float64()
		}
		pos.SetVec(i, v)
	}
}

func finite(v ...float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// Translate adds v to the position of every atom, in the current coordinate
// mode. Positions are not wrapped into the cell (see Wrap). Consecutive
// translations are accumulated exactly, so translating back by -v restores
// the previous positions exactly.
func (P *Poscar) Translate(v [3]float64) {
	if P.Empty() {
		return
	}
	if !finite(v[:]...) || !finite(P.Positions.RawMatrix().Data...) {
		vec, _ := v3.NewMatrix(v[:])
		P.Positions.AddVec(P.Positions, vec)
		P.offset = offset{}
		return
	}
	if !P.offset.follows(P) {
		P.offset = newOffset(P)
	}
	P.offset = P.offset.add(v)
	P.offset.apply(P.Positions)
	P.offset.last = P.Positions.Clone()
}
