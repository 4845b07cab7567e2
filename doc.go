/*
 * doc.go, part of govasp.
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
/***Dedicated to the long life of the Ven. Khenpo Phuntzok Tenzin Rinpoche***/

/*Package vasp is the base package of the govasp library. It provides typed
access to the input files of a VASP calculation and to the Slurm script used to
run it.


	**govasp Capabilities**


    Reads/writes INCAR files, inferring the type of each parameter (boolean,
	integer, float, list of numbers or string) and keeping the parameter order.

    Merges INCAR templates, either from a built-in catalog or from the
	input directory of the calculation.

    Reads/writes POSCAR files, with optional selective dynamics. Translates
	structures, wraps them into the unit cell and converts between Direct
	and Cartesian coordinates.

    Reads/writes KPOINTS files in automatic, explicit and line mode.

    Builds POTCAR files from the species in a POSCAR and a potential set.
	Potential files can be stored compressed (zstd or gzip).

    Reads/edits Slurm batch scripts, keeping all non-directive lines untouched.

    Coordinates all of the above for a calculation directory (package session),
	with optional automatic saving when a scoped session completes normally.


The base package holds what the sub-packages share: the error types, the
logger and the file helpers. Each file format lives in its own package
(incar, poscar, kpoints, potcar, slurm), and package session ties them
together.

Coordinates are handled with the v3 package, a 3-column matrix based on
gonum.org/v1/gonum/mat, where each row is a point (or vector) in space.*/
package vasp
