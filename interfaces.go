/*
 * interfaces.go, part of govasp.
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

// Document is implemented by every in-memory representation of a VASP input file.
type Document interface {
	//String returns the file content, in the format VASP reads.
	String() string

	//Load replaces the content of the document with the file at path.
	Load(path string) error

	//Save writes the document to path, creating directories as needed.
	Save(path string) error
}

// SpeciesOrderer returns the species of a structure, each species once, in
// the order in which they first appear. POTCAR files must follow this order.
type SpeciesOrderer interface {
	SpeciesOrder() []string
}

//Errors

// Error is the interface for errors that all packages in this library implement. The Decorate method allows to add and retrieve info from the
// error, without changing it's type or wrapping it around something else.
type Error interface {
	Error() string
	Decorate(string) []string //Each call adds the given string (normally the caller's name) and returns the decoration slice. An empty string adds nothing.
	FileName() string         //The file associated with the error, or the empty string.
	Critical() bool
}
