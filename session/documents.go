/*
 * documents.go, part of govasp.
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

package session

import (
	"path/filepath"
	"strings"

	vasp "github.com/rmera/govasp"
	"github.com/rmera/govasp/incar"
	"github.com/rmera/govasp/kpoints"
	"github.com/rmera/govasp/poscar"
	"github.com/rmera/govasp/potcar"
	"github.com/rmera/govasp/slurm"
)

type namedDoc struct {
	name string
	doc  vasp.Document
}

// ReadInputs reads INCAR, POSCAR, KPOINTS and POTCAR from the input
// directory, replacing whatever the session held. A missing file gives a
// *vasp.MissingInputError, except for POTCAR, which is generated from the
// POSCAR species when a potential root is configured. If there is an error,
// the documents held by the session are not changed.
func (S *Session) ReadInputs() error {
	I, P, K, Pot := incar.New(), new(poscar.Poscar), new(kpoints.Kpoints), new(potcar.Potcar)
	docs := []namedDoc{{poscar.FileName, P}, {incar.FileName, I}, {kpoints.FileName, K}, {potcar.FileName, Pot}}
	var missing []string
	for _, d := range docs {
		p, err := vasp.Find(S.inputFile(d.name))
		if err != nil {
			missing = append(missing, d.name)
			continue
		}
		if err := d.doc.Load(p); err != nil {
			return vasp.Decorate(err, "ReadInputs")
		}
	}
	generate := false
	if len(missing) > 0 {
		vasp.Logger().Warnf("Missing main files in %s: %s", S.input, strings.Join(missing, ", "))
	}
	for _, m := range missing {
		if m == potcar.FileName && S.opts.PotentialRoot != "" {
			generate = true
			continue
		}
		return vasp.Decorate(&vasp.MissingInputError{Name: m, Dir: S.input}, "ReadInputs")
	}
	if generate {
		vasp.Logger().Info("POTCAR not found. Attempting to generate from POSCAR species.")
		data, err := S.assembler(S.opts.PotentialType).Assemble(P.SpeciesOrder()...)
		if err != nil {
			return vasp.Decorate(err, "ReadInputs")
		}
		Pot.SetBytes(data)
	}
	S.incar, S.poscar, S.kpoints, S.potcar = I, P, K, Pot
	return nil
}

// loadOptional reads the file name from the input directory into doc.
// A missing file is not an error, doc is left as it was.
func (S *Session) loadOptional(name string, doc vasp.Document) error {
	p, err := vasp.Find(S.inputFile(name))
	if err != nil {
		vasp.Logger().Warnf("%s not found at %s. Starting with empty %s.", name, S.inputFile(name), name)
		return nil
	}
	return doc.Load(p)
}

// Incar returns the INCAR of the session, reading it from the input
// directory the first time if needed.
func (S *Session) Incar() (*incar.Incar, error) {
	if S.incar == nil {
		I := incar.New()
		if err := S.loadOptional(incar.FileName, I); err != nil {
			return nil, vasp.Decorate(err, "Incar")
		}
		S.incar = I
	}
	return S.incar, nil
}

// Poscar returns the structure of the session, reading it from the input
// directory the first time if needed.
func (S *Session) Poscar() (*poscar.Poscar, error) {
	if S.poscar == nil {
		P := new(poscar.Poscar)
		if err := S.loadOptional(poscar.FileName, P); err != nil {
			return nil, vasp.Decorate(err, "Poscar")
		}
		S.poscar = P
	}
	return S.poscar, nil
}

// Kpoints returns the k-points of the session, reading them from the input
// directory the first time if needed.
func (S *Session) Kpoints() (*kpoints.Kpoints, error) {
	if S.kpoints == nil {
		K := new(kpoints.Kpoints)
		if err := S.loadOptional(kpoints.FileName, K); err != nil {
			return nil, vasp.Decorate(err, "Kpoints")
		}
		S.kpoints = K
	}
	return S.kpoints, nil
}

// Potcar returns the potentials of the session, reading them from the input
// directory the first time if needed.
func (S *Session) Potcar() (*potcar.Potcar, error) {
	if S.potcar == nil {
		P := new(potcar.Potcar)
		if err := S.loadOptional(potcar.FileName, P); err != nil {
			return nil, vasp.Decorate(err, "Potcar")
		}
		S.potcar = P
	}
	return S.potcar, nil
}

// Slurm returns the job script of the session. The first time, it is read from
// the input directory or, if not there, created from the job template or as a
// minimal script. Its output, error and working directory directives are set
// to the session directories.
func (S *Session) Slurm() (*slurm.Script, error) {
	if S.slurm == nil {
		sc, err := slurm.Seed(S.inputFile(S.opts.JobScript), S.opts.JobTemplates, S.opts.JobTemplate, S.opts.DirectiveMarker)
		if err != nil {
			return nil, vasp.Decorate(err, "Slurm")
		}
		sc.SyncPaths(S.root, S.output)
		S.slurm = sc
	}
	return S.slurm, nil
}

func (S *Session) SetIncar(I *incar.Incar) { S.incar = I }

func (S *Session) SetPoscar(P *poscar.Poscar) { S.poscar = P }

func (S *Session) SetKpoints(K *kpoints.Kpoints) { S.kpoints = K }

func (S *Session) SetPotcar(P *potcar.Potcar) { S.potcar = P }

// SetSlurm replaces the job script. Its path directives are not changed.
func (S *Session) SetSlurm(sc *slurm.Script) { S.slurm = sc }

func (S *Session) assembler(potentialType string) potcar.Assembler {
	if potentialType == "" {
		potentialType = S.opts.PotentialType
	}
	return potcar.Assembler{Root: S.opts.PotentialRoot, Type: potentialType, File: S.opts.PotentialFile}
}

// GeneratePotcar builds the POTCAR for the species of the session's structure,
// from the potential set potentialType (the configured one if empty), and
// replaces the session's POTCAR with it.
func (S *Session) GeneratePotcar(potentialType string) error {
	P, err := S.Poscar()
	if err != nil {
		return vasp.Decorate(err, "GeneratePotcar")
	}
	data, err := S.assembler(potentialType).Assemble(P.SpeciesOrder()...)
	if err != nil {
		return vasp.Decorate(err, "GeneratePotcar")
	}
	S.potcar = potcar.New(data)
	return nil
}

// IncarTemplateDir is the directory where local INCAR templates are looked for.
func (S *Session) IncarTemplateDir() string {
	return filepath.Join(S.input, incar.LocalTemplateDir)
}

// ApplyIncarTemplate merges the template name into the session's INCAR. Local
// templates take precedence over the built-in ones.
func (S *Session) ApplyIncarTemplate(name string, overwrite bool) error {
	I, err := S.Incar()
	if err != nil {
		return vasp.Decorate(err, "ApplyIncarTemplate")
	}
	return vasp.Decorate(I.ApplyTemplate(name, overwrite, S.IncarTemplateDir()), "ApplyIncarTemplate")
}

// ListIncarTemplates returns the names of the built-in and local INCAR templates.
func (S *Session) ListIncarTemplates() []string {
	return incar.ListTemplates(S.IncarTemplateDir())
}

// SaveAll writes INCAR, POSCAR, KPOINTS and POTCAR to the output directory.
// Documents the session never read or received are skipped.
func (S *Session) SaveAll() error {
	var docs []namedDoc
	if S.incar != nil {
		docs = append(docs, namedDoc{incar.FileName, S.incar})
	}
	if S.poscar != nil {
		docs = append(docs, namedDoc{poscar.FileName, S.poscar})
	}
	if S.potcar != nil {
		docs = append(docs, namedDoc{potcar.FileName, S.potcar})
	}
	if S.kpoints != nil {
		docs = append(docs, namedDoc{kpoints.FileName, S.kpoints})
	}
	for _, d := range docs {
		if err := d.doc.Save(S.outputFile(d.name)); err != nil {
			return err
		}
	}
	vasp.Logger().Infof("Saved all files to %s.", S.output)
	return nil
}

// SaveSlurm writes the job script to the output directory.
func (S *Session) SaveSlurm() error {
	sc, err := S.Slurm()
	if err != nil {
		return err
	}
	return sc.Save(S.outputFile(S.opts.JobScript))
}
