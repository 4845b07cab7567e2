/*
 * scope.go, part of govasp.
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
	vasp "github.com/rmera/govasp"
)

// Acquire starts a scoped use of the session by reading all the inputs.
func (S *Session) Acquire() error {
	return S.ReadInputs()
}

// Release ends a scoped use of the session. The documents are saved only if
// the session auto-saves and the work done completed normally.
func (S *Session) Release(completedNormally bool) error {
	if !completedNormally {
		vasp.Logger().Errorf("Session in %s ended abnormally, nothing saved.", S.root)
		return nil
	}
	if !S.opts.AutoSave {
		return nil
	}
	return S.SaveAll()
}

// Do acquires the session, runs fn and releases the session. If fn returns
// an error or panics, nothing is saved and the error (or panic) reaches
// the caller unchanged.
func (S *Session) Do(fn func(*Session) error) (err error) {
	if err = S.Acquire(); err != nil {
		return err
	}
	normal := false
	defer func() {
		if !normal {
			S.Release(false) //a panic goes on after this
		}
	}()
	if err = fn(S); err != nil {
		return err
	}
	normal = true
	return S.Release(true)
}
