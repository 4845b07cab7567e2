/*
 * body.go, part of govasp.
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

package slurm

import (
	"regexp"
	"strings"

	vasp "github.com/rmera/govasp"
)

var exportRe = regexp.MustCompile(`^export\s+([A-Za-z_][A-Za-z0-9_]*)=(.*)$`)

// Body returns a copy of the body lines.
func (S *Script) Body() []string {
	return append([]string(nil), S.body...)
}

// lastIndex returns the index of the last body line for which match is
// true, or -1.
func (S *Script) lastIndex(match func(string) bool) int {
	at := -1
	for i, l := range S.body {
		if match(strings.TrimSpace(l)) {
			at = i
		}
	}
	return at
}

func (S *Script) insertBody(at int, l string) {
	S.body = append(S.body, "")
	copy(S.body[at+1:], S.body[at:])
	S.body[at] = l
}

func isModule(l string) bool { return strings.HasPrefix(l, "module ") }

func isExport(l string) bool { return strings.HasPrefix(l, "export ") }

// Modules returns the "module ..." lines of the body.
func (S *Script) Modules() []string {
	var ret []string
	for _, l := range S.body {
		if t := strings.TrimSpace(l); isModule(t) {
			ret = append(ret, t)
		}
	}
	return ret
}

// AddModule adds the line "module action name" after the last module line,
// or at the beginning of the body if there is none.
func (S *Script) AddModule(action, name string) {
	l := "module " + action + " " + name
	vasp.Logger().Debugf("Adding module line: %s", l)
	S.insertBody(S.lastIndex(isModule)+1, l)
}

// RemoveModules deletes the module lines containing substr. It returns
// the number of lines removed.
func (S *Script) RemoveModules(substr string) int {
	kept := S.body[:0]
	n := 0
	for _, l := range S.body {
		if t := strings.TrimSpace(l); isModule(t) && strings.Contains(t, substr) {
			n++
			continue
		}
		kept = append(kept, l)
	}
	S.body = kept
	return n
}

// Env returns the variables exported in the body.
func (S *Script) Env() map[string]string {
	env := make(map[string]string)
	for _, l := range S.body {
		if m := exportRe.FindStringSubmatch(strings.TrimSpace(l)); m != nil {
			env[m[1]] = m[2]
		}
	}
	return env
}

// SetEnv exports key=value in the body. An existing export of key is
// replaced. Otherwise the line goes after the last export, or after the
// module lines if there are no exports.
func (S *Script) SetEnv(key, value string) {
	l := "export " + key + "=" + value
	vasp.Logger().Debugf("Setting env var %s=%s", key, value)
	for i, b := range S.body {
		if m := exportRe.FindStringSubmatch(strings.TrimSpace(b)); m != nil && m[1] == key {
			S.body[i] = l
			return
		}
	}
	at := S.lastIndex(isExport)
	if at < 0 {
		at = S.lastIndex(isModule)
	}
	S.insertBody(at+1, l)
}

// UnsetEnv removes the exports of key. It returns false if there were none.
func (S *Script) UnsetEnv(key string) bool {
	kept := S.body[:0]
	found := false
	for _, l := range S.body {
		if m := exportRe.FindStringSubmatch(strings.TrimSpace(l)); m != nil && m[1] == key {
			found = true
			continue
		}
		kept = append(kept, l)
	}
	S.body = kept
	return found
}

// AddCommand appends cmd at the end of the body.
func (S *Script) AddCommand(cmd string) {
	vasp.Logger().Debugf("Adding body command: %s", cmd)
	S.body = append(S.body, cmd)
}

// Commands returns the body lines that run the program prefix.
func (S *Script) Commands(prefix string) []string {
	var ret []string
	for _, l := range S.body {
		t := strings.TrimSpace(l)
		if t == prefix || strings.HasPrefix(t, prefix+" ") {
			ret = append(ret, t)
		}
	}
	return ret
}
