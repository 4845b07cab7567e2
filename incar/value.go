/*
 * value.go, part of govasp.
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
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Kind is the type of an INCAR value.
type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindFloat
	KindList //list of numbers
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindList:
		return "list"
	default:
		return "string"
	}
}

// Value is a typed INCAR value. The zero Value is the empty string.
type Value struct {
	kind Kind
	b    bool
	i    int
	f    float64
	list []float64
	s    string
	sep  string //list delimiter, as found in the source.
}

func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

func Int(i int) Value { return Value{kind: KindInt, i: i} }

func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

func Str(s string) Value { return Value{kind: KindString, s: s} }

// List returns a list-of-numbers value. The slice is copied.
func List(nums ...float64) Value {
	l := make([]float64, len(nums))
	copy(l, nums)
	return Value{kind: KindList, list: l, sep: " "}
}

func (v Value) Kind() Kind { return v.kind }

// AsBool returns the value and true if v is a boolean.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the value and true if v is an integer.
func (v Value) AsInt() (int, bool) { return v.i, v.kind == KindInt }

// AsFloat returns the value as a float64, and true if v is a float or an integer.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindFloat:
		return v.f, true
	case KindInt:
		return float64(v.i), true
	}
	return 0, false
}

// AsList returns a copy of the list and true if v is a list of numbers.
func (v Value) AsList() ([]float64, bool) {
	if v.kind != KindList {
		return nil, false
	}
	l := make([]float64, len(v.list))
	copy(l, v.list)
	return l, true
}

// AsString returns the value and true if v is a string.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// Equal returns true if v and o have the same kind and the same value.
// The list delimiter is not compared.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInt:
		return v.i == o.i
	case KindFloat:
		return v.f == o.f
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if v.list[i] != o.list[i] {
				return false
			}
		}
		return true
	default:
		return v.s == o.s
	}
}

// String returns the text of the value as written in an INCAR file.
// For values accepted by Incar.Set, parsing this text gives back a
// Value equal to v.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return ".TRUE."
		}
		return ".FALSE."
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return formatFloat(v.f)
	case KindList:
		sep := v.sep
		if sep == "" {
			sep = " "
		}
		s := make([]string, len(v.list))
		for i, f := range v.list {
			s[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return strings.Join(s, sep)
	default:
		if needsQuotes(v.s) {
			return `"` + v.s + `"`
		}
		return v.s
	}
}

// A float is always written with a decimal point or an exponent, so
// it is not read back as an integer.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}
	return s
}

// A string needs quotes if it would otherwise be read back as something else,
// or if it contains comment or statement separators. A trailing backslash
// would join the next line.
func needsQuotes(s string) bool {
	if s == "" {
		return false
	}
	if strings.ContainsAny(s, "#!;\n") || strings.TrimSpace(s) != s || strings.HasSuffix(s, `\`) {
		return true
	}
	return infer(s).kind != KindString
}

// problem returns the reason why v can't be written as INCAR text,
// or an empty string if it can.
func (v Value) problem() string {
	switch v.kind {
	case KindFloat:
		if math.IsNaN(v.f) || math.IsInf(v.f, 0) {
			return "not a finite number"
		}
	case KindList:
		for _, f := range v.list {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return "list with a non-finite number"
			}
		}
	case KindString:
		return stringProblem(v.s)
	}
	return ""
}

// INCAR has no escapes, so a double quote can't be part of a string.
// Multi-line strings are read line by line, trimming each line.
func stringProblem(s string) string {
	switch {
	case strings.Contains(s, `"`):
		return "double quotes can't be written"
	case strings.Contains(s, "\r"):
		return "carriage returns can't be written"
	case !strings.Contains(s, "\n"):
		return ""
	}
	lines := strings.Split(s, "\n")
	if lines[0] == "" {
		return "a multi-line string can't start with an empty line"
	}
	for _, l := range lines {
		if strings.TrimSpace(l) != l {
			return "lines of a multi-line string can't start or end with blanks"
		}
		if strings.HasSuffix(l, `\`) {
			return "lines of a multi-line string can't end with a backslash"
		}
	}
	return ""
}

//The matchers used to infer the type of a value, in order of precedence.

var (
	intRe   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatRe = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eEdD][+-]?[0-9]+)?$`)
	boolMap = map[string]bool{
		".TRUE.":  true,
		".FALSE.": false,
		".T.":     true,
		".F.":     false,
		"T":       true,
		"F":       false,
		"TRUE":    true,
		"FALSE":   false,
	}
)

type matcher func(string) (Value, bool)

var matchers = []matcher{matchBool, matchInt, matchFloat, matchList}

func matchBool(s string) (Value, bool) {
	b, ok := boolMap[strings.ToUpper(s)]
	if !ok {
		return Value{}, false
	}
	return Bool(b), true
}

func matchInt(s string) (Value, bool) {
	if !intRe.MatchString(s) {
		return Value{}, false
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return Value{}, false //out of range, will be read as a float.
	}
	return Int(i), true
}

func parseNumber(s string) (float64, bool) {
	if !floatRe.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.NewReplacer("d", "e", "D", "e").Replace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func matchFloat(s string) (Value, bool) {
	f, ok := parseNumber(s)
	if !ok {
		return Value{}, false
	}
	return Float(f), true
}

func isListSep(r rune) bool {
	return r == ',' || unicode.IsSpace(r)
}

func matchList(s string) (Value, bool) {
	fields := strings.FieldsFunc(s, isListSep)
	if len(fields) < 2 {
		return Value{}, false
	}
	list := make([]float64, len(fields))
	for i, f := range fields {
		var ok bool
		if list[i], ok = parseNumber(f); !ok {
			return Value{}, false
		}
	}
	v := Value{kind: KindList, list: list, sep: " "}
	if strings.Contains(s, ",") {
		v.sep = ", "
	}
	return v, true
}

// infer classifies raw, which must already be trimmed and unquoted.
func infer(raw string) Value {
	for _, m := range matchers {
		if v, ok := m(raw); ok {
			return v
		}
	}
	return Str(raw)
}

// Infer returns the typed value for the literal text raw. The type is chosen
// in this order: boolean, integer, float, list of numbers, string.
// Double-quoted text is always a string (without the quotes).
func Infer(raw string) Value {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 && raw[0] == '"' && raw[len(raw)-1] == '"' {
		return Str(raw[1 : len(raw)-1])
	}
	return infer(raw)
}
