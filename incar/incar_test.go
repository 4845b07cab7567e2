/*
 * incar_test.go, part of govasp.
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
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vasp "github.com/rmera/govasp"
)

func TestInfer(Te *testing.T) {
	cases := []struct {
		raw  string
		want Value
	}{
		{".TRUE.", Bool(true)},
		{".false.", Bool(false)},
		{"T", Bool(true)},
		{"F", Bool(false)},
		{".T.", Bool(true)},
		{"500", Int(500)},
		{"-5", Int(-5)},
		{"0.05", Float(0.05)},
		{"1E-06", Float(1e-6)},
		{"1.0D-5", Float(1e-5)},
		{"1e40", Float(1e40)},
		{"99999999999999999999", Float(1e20)},
		{"1 1 -1", List(1, 1, -1)},
		{"5.0, 5.0, -5.0", List(5, 5, -5)},
		{"Accurate", Str("Accurate")},
		{"3*1.0", Str("3*1.0")},
		{`"500"`, Str("500")},
		{"inf", Str("inf")},
		{"", Str("")},
	}
	for _, c := range cases {
		got := Infer(c.raw)
		assert.Truef(Te, got.Equal(c.want), "Infer(%q) = %v (%s), want %v (%s)", c.raw, got, got.Kind(), c.want, c.want.Kind())
	}
}

func TestScenario(Te *testing.T) {
	I, err := Parse("ENCUT = 500\nISMEAR = 0\n")
	require.NoError(Te, err)
	v, ok := I.Get("ENCUT")
	require.True(Te, ok)
	i, ok := v.AsInt()
	require.True(Te, ok)
	assert.Equal(Te, 500, i)
	v, _ = I.Get("ISMEAR")
	assert.Equal(Te, KindInt, v.Kind())

	I.Set("ENCUT", Int(520))
	assert.Equal(Te, "ENCUT = 520\nISMEAR = 0\n", I.String())
}

func TestParseComments(Te *testing.T) {
	text := `# a comment
! another one
SYSTEM = "my run"   # inline comment
PREC = Accurate ! inline too
ISPIN = 2; MAGMOM = 1 1 -1
NELM = \
  60

LWAVE = .FALSE.
`
	I, err := Parse(text)
	require.NoError(Te, err)
	assert.Equal(Te, []string{"SYSTEM", "PREC", "ISPIN", "MAGMOM", "NELM", "LWAVE"}, I.Keys())
	s, _ := I.Get("SYSTEM")
	str, _ := s.AsString()
	assert.Equal(Te, "my run", str)
	n, _ := I.Get("NELM")
	nelm, ok := n.AsInt()
	assert.True(Te, ok)
	assert.Equal(Te, 60, nelm)
	m, _ := I.Get("MAGMOM")
	l, ok := m.AsList()
	assert.True(Te, ok)
	assert.Equal(Te, []float64{1, 1, -1}, l)
}

func TestParseMultiline(Te *testing.T) {
	text := "WANNIER90_WIN = \"num_wann = 8\nbands_plot = true\"\nENCUT = 400\n"
	I, err := Parse(text)
	require.NoError(Te, err)
	v, _ := I.Get("WANNIER90_WIN")
	s, _ := v.AsString()
	assert.Equal(Te, "num_wann = 8\nbands_plot = true", s)
	I2, err := Parse(I.String())
	require.NoError(Te, err)
	assert.Empty(Te, cmp.Diff(I.Entries(), I2.Entries()))
}

func TestParseError(Te *testing.T) {
	_, err := Parse("ENCUT = 500\nthis has no equal sign\n")
	require.Error(Te, err)
	var perr *vasp.ParseError
	require.True(Te, errors.As(err, &perr))
	assert.Equal(Te, 2, perr.Line)
	assert.Equal(Te, "this has no equal sign", perr.Field)

	_, err = Parse("SYSTEM = \"never closed\nENCUT = 4\n")
	require.True(Te, errors.As(err, &perr))
	assert.Equal(Te, 1, perr.Line)
}

func TestRoundTrip(Te *testing.T) {
	I := New()
	I.Set("PREC", Str("Accurate"))
	I.Set("ENCUT", Float(500))
	I.Set("EDIFF", Float(1e-6))
	I.Set("NSW", Int(0))
	I.Set("LWAVE", Bool(false))
	I.Set("MAGMOM", List(5, -5, 0.5))
	I.Set("SYSTEM", Str("Si bulk; test"))
	I.Set("NUMBERISH", Str("42"))
	I.Set("BOOLISH", Str("T"))
	I.Set("EMPTY", Str(""))
	I.Set("TRAILING", Str(`C:\dir\`))
	I.Set("NOTES", Str("first line\n\nlast # not a comment"))
	require.NoError(Te, I.SetComment("ENCUT", "cutoff, eV"))
	require.NoError(Te, I.SetComment("NOTES", "multi-line"))
	I2, err := Parse(I.String())
	require.NoError(Te, err)
	if diff := cmp.Diff(I.Entries(), I2.Entries()); diff != "" {
		Te.Errorf("round trip mismatch (-want +got):\n%s\ntext:\n%s", diff, I.String())
	}
	//and once more, from the text.
	assert.Equal(Te, I.String(), I2.String())
	assert.Equal(Te, "cutoff, eV", I2.Comment("ENCUT"))
	assert.Equal(Te, "multi-line", I2.Comment("NOTES"))
}

func TestUnwritableValues(Te *testing.T) {
	I := New()
	require.NoError(Te, I.Set("SYSTEM", Str("ok")))
	bad := []struct {
		key string
		val Value
	}{
		{"SYSTEM", Str(`"quoted start`)},
		{"SYSTEM", Str(`a # b "c"`)},
		{"SYSTEM", Str(" first\nsecond")},
		{"SYSTEM", Str("\nsecond")},
		{"ENCUT", Float(math.NaN())},
		{"ENCUT", Float(math.Inf(1))},
		{"ENCUT", Float(math.Inf(-1))},
		{"MAGMOM", List(1, math.NaN())},
		{"BAD KEY=", Int(1)},
		{"", Int(1)},
	}
	for _, b := range bad {
		err := I.Set(b.key, b.val)
		var verr *vasp.InvalidValueError
		assert.Truef(Te, errors.As(err, &verr), "Set(%q, %v) should fail", b.key, b.val)
	}
	//nothing changed
	assert.Equal(Te, "SYSTEM = ok\n", I.String())

	assert.Error(Te, I.SetComment("NOPE", "x"))
	assert.Error(Te, I.SetComment("SYSTEM", "two\nlines"))
	require.NoError(Te, I.SetComment("SYSTEM", "  name  "))
	assert.Equal(Te, "SYSTEM = ok  # name\n", I.String())
	require.NoError(Te, I.SetComment("SYSTEM", ""))
	assert.Equal(Te, "SYSTEM = ok\n", I.String())
}

func TestInlineComments(Te *testing.T) {
	text := `ENCUT = 500  # cutoff
ISPIN = 2; MAGMOM = 1 1 -1 ! moments
SYSTEM = "a # b" ! named
WIN = "x
y"  # block
`
	I, err := Parse(text)
	require.NoError(Te, err)
	assert.Equal(Te, "cutoff", I.Comment("ENCUT"))
	assert.Equal(Te, "", I.Comment("ISPIN"))
	assert.Equal(Te, "moments", I.Comment("MAGMOM"))
	assert.Equal(Te, "named", I.Comment("SYSTEM"))
	assert.Equal(Te, "block", I.Comment("WIN"))
	s, _ := I.Get("SYSTEM")
	str, _ := s.AsString()
	assert.Equal(Te, "a # b", str)

	want := "ENCUT = 500  # cutoff\nISPIN = 2\nMAGMOM = 1 1 -1  # moments\n" +
		"SYSTEM = \"a # b\"  # named\nWIN = \"x\ny\"  # block\n"
	assert.Equal(Te, want, I.String())

	//comments follow the values through Merge, Clone and Delete
	other, err := Parse("ENCUT = 600 # from template\nNSW = 5\n")
	require.NoError(Te, err)
	c := I.Clone()
	c.Merge(other, true)
	assert.Equal(Te, "from template", c.Comment("ENCUT"))
	assert.Equal(Te, "cutoff", I.Comment("ENCUT"))
	assert.True(Te, c.Delete("ENCUT"))
	assert.Equal(Te, "", c.Comment("ENCUT"))
	_, err = Parse(`SYSTEM = "a" "b"` + "\n")
	var perr *vasp.ParseError
	assert.True(Te, errors.As(err, &perr))
}

func TestSetKeepsPosition(Te *testing.T) {
	I, err := Parse("A = 1\nB = 2\nC = 3\n")
	require.NoError(Te, err)
	I.Set("B", Str("two"))
	I.Set("D", Bool(true))
	assert.Equal(Te, []string{"A", "B", "C", "D"}, I.Keys())
	assert.True(Te, I.Delete("A"))
	assert.False(Te, I.Delete("A"))
	assert.Equal(Te, "B = two\nC = 3\nD = .TRUE.\n", I.String())
}

func TestMerge(Te *testing.T) {
	base, _ := Parse("ENCUT = 400\nISMEAR = 0\n")
	tmpl, _ := Parse("ISMEAR = -5\nNSW = 10\nENCUT = 520\n")

	keep := base.Clone()
	n := keep.Merge(tmpl, false)
	assert.Equal(Te, 1, n)
	assert.Equal(Te, "ENCUT = 400\nISMEAR = 0\nNSW = 10\n", keep.String())

	over := base.Clone()
	n = over.Merge(tmpl, true)
	assert.Equal(Te, 3, n)
	assert.Equal(Te, "ENCUT = 520\nISMEAR = -5\nNSW = 10\n", over.String())
}

func TestBuiltinCatalog(Te *testing.T) {
	names := Builtin().Names()
	assert.Contains(Te, names, "relax")
	assert.Contains(Te, names, "static")
	assert.True(Te, Builtin() == Builtin())

	t1, err := Builtin().Template("relax.incar")
	require.NoError(Te, err)
	t1.Set("ENCUT", Int(1))
	t2, err := Builtin().Template("relax")
	require.NoError(Te, err)
	v, _ := t2.Get("ENCUT")
	i, _ := v.AsInt()
	assert.Equal(Te, 520, i, "catalog templates must not be modified through copies")
}

func TestApplyTemplate(Te *testing.T) {
	I, _ := Parse("ENCUT = 400\nSYSTEM = mine\n")
	require.NoError(Te, I.ApplyTemplate("relax", false))
	v, _ := I.Get("ENCUT")
	i, _ := v.AsInt()
	assert.Equal(Te, 400, i)
	assert.Equal(Te, "ENCUT", I.Keys()[0])
	assert.True(Te, I.Contains("IBRION"))

	require.NoError(Te, I.ApplyTemplate("relax", true))
	v, _ = I.Get("ENCUT")
	i, _ = v.AsInt()
	assert.Equal(Te, 520, i)
	assert.Equal(Te, "ENCUT", I.Keys()[0])
	v, _ = I.Get("SYSTEM")
	s, _ := v.AsString()
	assert.Equal(Te, "relaxation", s)

	err := I.ApplyTemplate("nonexistent", true)
	var terr *vasp.TemplateNotFoundError
	require.True(Te, errors.As(err, &terr))
	assert.Equal(Te, "nonexistent", terr.Name)
	assert.Contains(Te, terr.Available, "relax")
}

func TestLocalTemplates(Te *testing.T) {
	dir := Te.TempDir()
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "mine.incar"), []byte("ENCUT = 700\n"), 0644))
	require.NoError(Te, os.WriteFile(filepath.Join(dir, "relax.incar"), []byte("ENCUT = 1\n"), 0644))

	names := ListTemplates(dir)
	assert.Contains(Te, names, "mine")
	assert.Contains(Te, names, "static")

	I := New()
	require.NoError(Te, I.ApplyTemplate("mine", true, dir))
	assert.Equal(Te, "ENCUT = 700\n", I.String())
	//local templates take precedence
	t, err := LoadTemplate("relax", dir)
	require.NoError(Te, err)
	assert.Equal(Te, "ENCUT = 1\n", t.String())
}

func TestNewCatalog(Te *testing.T) {
	fsys := fstest.MapFS{
		"t/a.incar":  {Data: []byte("A = 1\n")},
		"t/b.INCAR":  {Data: []byte("B = 2\n")},
		"t/notes.md": {Data: []byte("nothing")},
	}
	c, err := NewCatalog(fsys, "t")
	require.NoError(Te, err)
	assert.Equal(Te, []string{"a", "b"}, c.Names())

	fsys["t/bad.incar"] = &fstest.MapFile{Data: []byte("oops\n")}
	_, err = NewCatalog(fsys, "t")
	var perr *vasp.ParseError
	require.True(Te, errors.As(err, &perr))
	assert.Equal(Te, "bad.incar", perr.File)
}

func TestLoadSave(Te *testing.T) {
	dir := Te.TempDir()
	I, _ := Parse("ENCUT = 500\nLREAL = Auto\n")
	p := filepath.Join(dir, "sub", FileName)
	require.NoError(Te, I.Save(p))
	I2 := New()
	require.NoError(Te, I2.Load(p))
	assert.Empty(Te, cmp.Diff(I.Entries(), I2.Entries()))

	//compressed files are handled transparently
	pz := filepath.Join(dir, FileName+".gz")
	require.NoError(Te, I.Save(pz))
	I3 := New()
	require.NoError(Te, I3.Load(pz))
	assert.Equal(Te, I.String(), I3.String())

	err := I3.Load(filepath.Join(dir, "nope"))
	assert.True(Te, vasp.IsNotExist(err))
	assert.Equal(Te, 0, I3.Len())
}
