/*
 * errors.go, part of govasp.
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

package vasp

import (
	"fmt"
	"strings"
)

// decoration is embedded in all the error types of the package.
type decoration struct {
	deco []string
}

// Decorate adds deco to the decoration slice of the error and returns the slice.
func (d *decoration) Decorate(deco string) []string {
	if deco != "" {
		d.deco = append(d.deco, deco)
	}
	return d.deco
}

// Decorate adds caller to the decorations of err, if err implements Error,
// and returns err. Other errors are returned untouched.
func Decorate(err error, caller string) error {
	if e, ok := err.(Error); ok {
		e.Decorate(caller)
	}
	return err
}

// ParseError is returned when a file doesn't follow its format.
type ParseError struct {
	decoration
	File  string //may be empty if the text didn't come from a file
	Line  int    //1-based, 0 if unknown
	Field string //the offending text
	Msg   string
}

// NewParseError returns a ParseError for the given line (1-based) and offending field.
func NewParseError(line int, field, format string, args ...interface{}) *ParseError {
	return &ParseError{Line: line, Field: field, Msg: fmt.Sprintf(format, args...)}
}

func (err *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error")
	if err.File != "" {
		b.WriteString(" in ")
		b.WriteString(err.File)
	}
	if err.Line > 0 {
		fmt.Fprintf(&b, " at line %d", err.Line)
	}
	b.WriteString(": ")
	b.WriteString(err.Msg)
	if err.Field != "" {
		fmt.Fprintf(&b, " (%q)", err.Field)
	}
	return b.String()
}

func (err *ParseError) FileName() string { return err.File }

func (err *ParseError) Critical() bool { return true }

// InFile sets the file name of the error and returns it. It does nothing on a nil receiver.
func (err *ParseError) InFile(name string) *ParseError {
	if err != nil {
		err.File = name
	}
	return err
}

// MissingInputError is returned when a required input file is not present.
type MissingInputError struct {
	decoration
	Name string //INCAR, POSCAR, etc.
	Dir  string
}

func (err *MissingInputError) Error() string {
	return fmt.Sprintf("missing input file %s in %s", err.Name, err.Dir)
}

func (err *MissingInputError) FileName() string { return err.Name }

func (err *MissingInputError) Critical() bool { return true }

// PotentialNotFoundError is returned when there is no potential file for a species.
type PotentialNotFoundError struct {
	decoration
	Symbol string
	Path   string //where the potential was looked for
}

func (err *PotentialNotFoundError) Error() string {
	return fmt.Sprintf("no potential for species %s (looked in %s)", err.Symbol, err.Path)
}

func (err *PotentialNotFoundError) FileName() string { return err.Path }

func (err *PotentialNotFoundError) Critical() bool { return true }

// TemplateNotFoundError is returned when a template name is not in the catalog.
type TemplateNotFoundError struct {
	decoration
	Name      string
	Available []string
}

func (err *TemplateNotFoundError) Error() string {
	available := "<none>"
	if len(err.Available) > 0 {
		available = strings.Join(err.Available, ", ")
	}
	return fmt.Sprintf("unknown template %q (available: %s)", err.Name, available)
}

func (err *TemplateNotFoundError) FileName() string { return "" }

func (err *TemplateNotFoundError) Critical() bool { return true }

// InvalidValueError is returned when a value can't be written in a way
// that reads back as the same value.
type InvalidValueError struct {
	decoration
	Key   string
	Value string
	Msg   string
}

func (err *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid value %q for %s: %s", err.Value, err.Key, err.Msg)
}

func (err *InvalidValueError) FileName() string { return "" }

func (err *InvalidValueError) Critical() bool { return true }
