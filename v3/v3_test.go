/*
 * v3_test.go, part of govasp.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
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

package v3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewMatrix(Te *testing.T) {
	A, err := NewMatrix([]float64{1, 2, 3, 4, 5, 6})
	require.NoError(Te, err)
	assert.Equal(Te, 2, A.NVecs())
	assert.Equal(Te, [3]float64{4, 5, 6}, A.Vec(1))

	_, err = NewMatrix([]float64{1, 2})
	require.Error(Te, err)
	_, ok := err.(Error)
	assert.True(Te, ok)
}

func TestAddVec(Te *testing.T) {
	A, err := NewMatrix([]float64{1.0, 2.0, 3, 4, 5, 6, 7, 8, 9})
	require.NoError(Te, err)
	orig := A.Clone()
	Row, err := NewMatrix([]float64{10, 20, 30})
	require.NoError(Te, err)
	A.AddVec(A, Row)
	assert.Equal(Te, [3]float64{11, 22, 33}, A.Vec(0))
	assert.Equal(Te, [3]float64{17, 28, 39}, A.Vec(2))
	//orig must not have been touched.
	assert.Equal(Te, [3]float64{1, 2, 3}, orig.Vec(0))
	A.SetVec(1, [3]float64{-1, -2, -3})
	assert.Equal(Te, [3]float64{-1, -2, -3}, A.Vec(1))
	assert.False(Te, mat.Equal(A, orig))
}

func TestAddVecShape(Te *testing.T) {
	A, _ := NewMatrix(make([]float64, 9))
	B, _ := NewMatrix(make([]float64, 6))
	Row, _ := NewMatrix([]float64{1, 1, 1})
	assert.PanicsWithValue(Te, ErrShape, func() { B.AddVec(A, Row) })
}

func TestFloor(Te *testing.T) {
	A, err := NewMatrix([]float64{1.25, -0.25, 0.5, 2, 0.9999999999999999, -1})
	require.NoError(Te, err)
	A.Floor(A)
	assert.InDeltaSlice(Te, []float64{0.25, 0.75, 0.5}, A.RawRowView(0), 1e-15)
	assert.InDeltaSlice(Te, []float64{0, 0, 0}, A.RawRowView(1), 1e-15)
}

func TestMulAndDet(Te *testing.T) {
	A, _ := NewMatrix([]float64{2, 0, 0, 0, 3, 0, 0, 0, 4})
	assert.InDelta(Te, 24.0, A.Det(), 1e-12)
	P, _ := NewMatrix([]float64{0.5, 0.5, 0.5})
	P.Mul(P, A)
	assert.Equal(Te, [3]float64{1, 1.5, 2}, P.Vec(0))
}
