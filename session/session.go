/*
 * session.go, part of govasp.
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

// Package session manages the input files of one calculation: it reads them
// from an input directory, keeps them in memory while they are modified and
// writes them to an output directory.
package session

import (
	"fmt"
	"io/fs"
	"path/filepath"

	vasp "github.com/rmera/govasp"
	"github.com/rmera/govasp/config"
	"github.com/rmera/govasp/incar"
	"github.com/rmera/govasp/kpoints"
	"github.com/rmera/govasp/poscar"
	"github.com/rmera/govasp/potcar"
	"github.com/rmera/govasp/slurm"
)

// Which selects one of the directories of a session.
type Which int

const (
	Root Which = iota
	Input
	Output
)

func (w Which) String() string {
	switch w {
	case Input:
		return "input"
	case Output:
		return "output"
	}
	return "root"
}

// Options configures a Session. Input and Output are relative to the root
// unless they are absolute, empty means the root itself.
type Options struct {
	Input, Output string
	AutoSave      bool

	PotentialRoot string
	PotentialType string
	PotentialFile string

	JobScript       string
	JobTemplate     string
	DirectiveMarker string
	JobTemplates    fs.FS //where JobTemplate is looked for. The packaged templates if nil.
}

// FromConfig returns the options given by cfg.
func FromConfig(cfg *config.Config) Options {
	return Options{
		Input:           cfg.Input,
		Output:          cfg.Output,
		AutoSave:        cfg.AutoSave,
		PotentialRoot:   cfg.PotentialRoot,
		PotentialType:   cfg.PotentialType,
		PotentialFile:   cfg.PotentialFile,
		JobScript:       cfg.JobScript,
		JobTemplate:     cfg.JobTemplate,
		DirectiveMarker: cfg.DirectiveMarker,
	}
}

// DefaultOptions returns the options for the built-in configuration.
func DefaultOptions() Options {
	return FromConfig(config.Default())
}

// Session owns the documents of a calculation. Documents are read when
// first needed, or all at once with ReadInputs, and written with SaveAll.
// A Session is not safe for concurrent use.
type Session struct {
	root, input, output string
	opts                Options

	incar   *incar.Incar
	poscar  *poscar.Poscar
	kpoints *kpoints.Kpoints
	potcar  *potcar.Potcar
	slurm   *slurm.Script
}

// New returns a session for the calculation in root. The paths are made
// absolute here and never change afterwards. Nothing is read.
func New(root string, opts Options) (*Session, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	def := DefaultOptions()
	if opts.PotentialType == "" {
		opts.PotentialType = def.PotentialType
	}
	if opts.PotentialFile == "" {
		opts.PotentialFile = def.PotentialFile
	}
	if opts.JobScript == "" {
		opts.JobScript = def.JobScript
	}
	if opts.DirectiveMarker == "" {
		opts.DirectiveMarker = def.DirectiveMarker
	}
	if opts.JobTemplates == nil {
		opts.JobTemplates = slurm.Templates()
	}
	S := &Session{root: abs, opts: opts}
	S.input = S.resolve(opts.Input)
	S.output = S.resolve(opts.Output)
	vasp.Logger().Debugf("Session paths: root=%s input=%s output=%s", S.root, S.input, S.output)
	return S, nil
}

// NewFromConfig is New with the options given by cfg.
func NewFromConfig(root string, cfg *config.Config) (*Session, error) {
	return New(root, FromConfig(cfg))
}

// Open loads the configuration for root (see config.Load), applies its
// logging settings and returns a session for it.
func Open(root string, configFile ...string) (*Session, error) {
	cfg, err := config.Load(root, configFile...)
	if err != nil {
		return nil, err
	}
	if err := cfg.Apply(); err != nil {
		return nil, err
	}
	return NewFromConfig(root, cfg)
}

func (S *Session) resolve(sub string) string {
	switch {
	case sub == "":
		return S.root
	case filepath.IsAbs(sub):
		return filepath.Clean(sub)
	}
	return filepath.Join(S.root, sub)
}

// Path returns the absolute path of the given directory.
func (S *Session) Path(w Which) string {
	switch w {
	case Input:
		return S.input
	case Output:
		return S.output
	case Root:
		return S.root
	}
	panic(fmt.Sprintf("session: unknown directory %d", int(w)))
}

// AutoSave tells whether Release saves the documents.
func (S *Session) AutoSave() bool {
	return S.opts.AutoSave
}

func (S *Session) inputFile(name string) string {
	return filepath.Join(S.input, name)
}

func (S *Session) outputFile(name string) string {
	return filepath.Join(S.output, name)
}
