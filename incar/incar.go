/*
 * incar.go, part of govasp.
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
	"strings"

	vasp "github.com/rmera/govasp"
)

// FileName is the name VASP expects for the settings file.
const FileName = "INCAR"

// Entry is a key with its value.
type Entry struct {
	Key   string
	Value Value
}

// Incar holds the parameters of an INCAR file. Keys are case-sensitive and
// keep the order in which they were first set. Each key can carry an
// inline comment.
type Incar struct {
	keys     []string
	vals     map[string]Value
	comments map[string]string
}

// New returns an empty Incar.
func New() *Incar {
	return &Incar{vals: make(map[string]Value), comments: make(map[string]string)}
}

// Len returns the number of parameters.
func (I *Incar) Len() int {
	return len(I.keys)
}

// Get returns the value for key, and whether key was present.
func (I *Incar) Get(key string) (Value, bool) {
	v, ok := I.vals[key]
	return v, ok
}

// Contains returns true if key is present.
func (I *Incar) Contains(key string) bool {
	_, ok := I.vals[key]
	return ok
}

// keyProblem returns why key can't be written as an INCAR key, or "".
func keyProblem(key string) string {
	switch {
	case key == "":
		return "empty key"
	case strings.TrimSpace(key) != key:
		return "keys can't start or end with blanks"
	case strings.ContainsAny(key, "=#!;\"\n\r\\"):
		return "keys can't contain '=', comment markers, ';', quotes, backslashes or line breaks"
	}
	return ""
}

// Set sets key to v. An existing key keeps its position and its comment,
// a new one is appended. Values that would not read back the same from
// the file (strings with double quotes, non-finite numbers...) are
// rejected with a *vasp.InvalidValueError, and I is not changed.
func (I *Incar) Set(key string, v Value) error {
	if msg := keyProblem(key); msg != "" {
		return &vasp.InvalidValueError{Key: key, Value: v.String(), Msg: msg}
	}
	if msg := v.problem(); msg != "" {
		return &vasp.InvalidValueError{Key: key, Value: v.String(), Msg: msg}
	}
	if _, ok := I.vals[key]; !ok {
		I.keys = append(I.keys, key)
	}
	I.vals[key] = v
	return nil
}

// SetText sets key to the value inferred from raw, as if it had been read from a file.
func (I *Incar) SetText(key, raw string) error {
	return I.Set(key, Infer(raw))
}

// Comment returns the inline comment of key, without the marker.
func (I *Incar) Comment(key string) string {
	return I.comments[key]
}

// SetComment sets the inline comment written after the value of key.
// An empty comment removes it. The key must be present.
func (I *Incar) SetComment(key, comment string) error {
	if !I.Contains(key) {
		return &vasp.InvalidValueError{Key: key, Value: comment, Msg: "no such key"}
	}
	comment = strings.TrimSpace(comment)
	if strings.ContainsAny(comment, "\n\r") || strings.HasSuffix(comment, `\`) {
		return &vasp.InvalidValueError{Key: key, Value: comment, Msg: "comments can't contain line breaks or end with a backslash"}
	}
	if comment == "" {
		delete(I.comments, key)
		return nil
	}
	I.comments[key] = comment
	return nil
}

// Delete removes key. It returns false if key was not present.
func (I *Incar) Delete(key string) bool {
	if _, ok := I.vals[key]; !ok {
		return false
	}
	delete(I.vals, key)
	delete(I.comments, key)
	for i, k := range I.keys {
		if k == key {
			I.keys = append(I.keys[:i], I.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in order.
func (I *Incar) Keys() []string {
	ret := make([]string, len(I.keys))
	copy(ret, I.keys)
	return ret
}

// Entries returns the parameters in order.
func (I *Incar) Entries() []Entry {
	ret := make([]Entry, len(I.keys))
	for i, k := range I.keys {
		ret[i] = Entry{k, I.vals[k]}
	}
	return ret
}

// Clone returns a deep copy of I.
func (I *Incar) Clone() *Incar {
	c := New()
	for _, k := range I.keys {
		v := I.vals[k]
		if v.kind == KindList {
			l, _ := v.AsList()
			v.list = l
		}
		c.keys = append(c.keys, k)
		c.vals[k] = v
		if cm, ok := I.comments[k]; ok {
			c.comments[k] = cm
		}
	}
	return c
}

// Merge puts the parameters of other in I. Keys not present in I are appended.
// Keys present in both take the value from other only if overwrite is true,
// and keep their position in I. A value taken from other brings its comment,
// if it has one. It returns the number of keys added or changed.
func (I *Incar) Merge(other *Incar, overwrite bool) int {
	n := 0
	for _, k := range other.keys {
		if I.Contains(k) && !overwrite {
			continue
		}
		if _, ok := I.vals[k]; !ok {
			I.keys = append(I.keys, k)
		}
		I.vals[k] = other.vals[k]
		if cm, ok := other.comments[k]; ok {
			I.comments[k] = cm
		}
		n++
	}
	return n
}

// String returns the INCAR text, one "KEY = VALUE" line per parameter,
// followed by "  # comment" for keys with a comment.
func (I *Incar) String() string {
	var b strings.Builder
	for _, k := range I.keys {
		b.WriteString(k)
		b.WriteString(" = ")
		b.WriteString(I.vals[k].String())
		if c := I.comments[k]; c != "" {
			b.WriteString("  # ")
			b.WriteString(c)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Load replaces the content of I with the INCAR file at path.
// A missing file leaves I empty and returns an error satisfying vasp.IsNotExist.
func (I *Incar) Load(path string) error {
	data, err := vasp.ReadFile(path)
	if err != nil {
		*I = *New()
		return err
	}
	n, err := Parse(string(data))
	if err != nil {
		if perr, ok := err.(*vasp.ParseError); ok {
			perr.InFile(path)
		}
		return vasp.Decorate(err, "Load")
	}
	*I = *n
	vasp.Logger().Infof("Loaded INCAR from %s.", path)
	return nil
}

// Save writes I to path, creating the directories as needed.
func (I *Incar) Save(path string) error {
	created, err := vasp.WriteFile(path, []byte(I.String()))
	if err != nil {
		return err
	}
	vasp.LogSaved("INCAR", path, created)
	return nil
}

//Parsing

// isComment is the comment marker test for full lines and inline comments.
func isComment(c byte) bool {
	return c == '#' || c == '!'
}

// logicalLine is a line after joining backslash continuations.
type logicalLine struct {
	text string
	num  int //number of the first physical line
}

func joinContinuations(text string) []logicalLine {
	raw := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	ret := make([]logicalLine, 0, len(raw))
	var cont *logicalLine
	for i, l := range raw {
		trimmed := strings.TrimRight(l, " \t")
		if cont != nil {
			if strings.HasSuffix(trimmed, `\`) {
				cont.text += " " + strings.TrimSpace(trimmed[:len(trimmed)-1])
				continue
			}
			cont.text += " " + strings.TrimSpace(l)
			ret = append(ret, *cont)
			cont = nil
			continue
		}
		if strings.HasSuffix(trimmed, `\`) {
			cont = &logicalLine{trimmed[:len(trimmed)-1], i + 1}
			continue
		}
		ret = append(ret, logicalLine{l, i + 1})
	}
	if cont != nil {
		ret = append(ret, *cont)
	}
	return ret
}

// splitComment separates the code of a line from an inline comment,
// returned trimmed and without the marker. Markers within double quotes
// don't count.
func splitComment(line string) (code, comment string) {
	inQuotes := false
	for i := 0; i < len(line); i++ {
		switch {
		case line[i] == '"':
			inQuotes = !inQuotes
		case isComment(line[i]) && !inQuotes:
			return line[:i], strings.TrimSpace(line[i+1:])
		}
	}
	return line, ""
}

// set is Set for parsed values, failing with a ParseError for line num.
func (I *Incar) set(num int, key string, v Value, comment string) error {
	if err := I.Set(key, v); err != nil {
		verr := err.(*vasp.InvalidValueError)
		return vasp.NewParseError(num, key, "%s", verr.Msg)
	}
	if comment != "" {
		I.comments[key] = comment
	}
	return nil
}

// splitStatements splits code on ';' outside double quotes.
func splitStatements(code string) []string {
	var ret []string
	inQuotes := false
	start := 0
	for i := 0; i < len(code); i++ {
		switch {
		case code[i] == '"':
			inQuotes = !inQuotes
		case code[i] == ';' && !inQuotes:
			ret = append(ret, code[start:i])
			start = i + 1
		}
	}
	return append(ret, code[start:])
}

// Parse reads INCAR text. Lines starting with '#' or '!' are comments and are
// dropped. Text after a comment marker outside quotes is kept as the comment
// of the last statement in the line. Several
// statements can share a line, separated by ';'. A value opening a double quote
// not closed in the same line continues until the line with the closing quote.
func Parse(text string) (*Incar, error) {
	I := New()
	var (
		multiKey   string
		multiValue []string
		inMulti    bool
		multiStart int
	)
	for _, l := range joinContinuations(text) {
		if inMulti {
			if idx := strings.IndexByte(l.text, '"'); idx >= 0 {
				multiValue = append(multiValue, strings.TrimSpace(l.text[:idx]))
				inMulti = false
				rest, comment := splitComment(l.text[idx+1:])
				if rest = strings.TrimSpace(rest); rest != "" {
					return nil, vasp.NewParseError(l.num, rest, "unexpected text after quoted value")
				}
				if err := I.set(multiStart, multiKey, Str(strings.Join(multiValue, "\n")), comment); err != nil {
					return nil, err
				}
				continue
			}
			if v := strings.TrimSpace(l.text); v != "" || len(multiValue) > 0 {
				multiValue = append(multiValue, v)
			}
			continue
		}
		stripped := strings.TrimSpace(l.text)
		if stripped == "" || isComment(stripped[0]) {
			continue
		}
		code, comment := splitComment(stripped)
		stmts := splitStatements(code)
		for n, stmt := range stmts {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			key, raw, found := strings.Cut(stmt, "=")
			if !found {
				return nil, vasp.NewParseError(l.num, stmt, "no '=' in statement")
			}
			key = strings.TrimSpace(key)
			raw = strings.TrimSpace(raw)
			if key == "" {
				return nil, vasp.NewParseError(l.num, stmt, "empty key")
			}
			if strings.HasPrefix(raw, `"`) && strings.Count(raw, `"`) == 1 {
				inMulti = true
				multiKey = key
				multiStart = l.num
				multiValue = multiValue[:0]
				if first := strings.TrimSpace(raw[1:]); first != "" {
					multiValue = append(multiValue, first)
				}
				continue
			}
			c := comment
			if n != len(stmts)-1 {
				c = ""
			}
			if err := I.set(l.num, key, Infer(raw), c); err != nil {
				return nil, err
			}
		}
	}
	if inMulti {
		return nil, vasp.NewParseError(multiStart, multiKey, "unterminated quoted value")
	}
	vasp.Logger().Debugf("Parsed INCAR text with %d parameters", I.Len())
	return I, nil
}
