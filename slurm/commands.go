/*
 * commands.go, part of govasp.
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
	"strings"

	shellwords "github.com/mattn/go-shellwords"

	vasp "github.com/rmera/govasp"
)

// isCommand tells whether the trimmed line l runs cmd with arguments.
func isCommand(l, cmd string) bool {
	return strings.HasPrefix(l, cmd+" ")
}

// commandLine is a body line split into words. Whatever follows the first
// unquoted control operator or redirection (";", "|", ">"...) is kept as
// tail, verbatim.
type commandLine struct {
	indent string
	words  []string
	tail   string
}

func splitCommand(l string) (*commandLine, error) {
	t := strings.TrimSpace(l)
	p := shellwords.NewParser()
	words, err := p.Parse(t)
	if err != nil {
		return nil, err
	}
	c := &commandLine{indent: l[:len(l)-len(strings.TrimLeft(l, " \t"))], words: words}
	if p.Position >= 0 && p.Position < len(t) {
		c.tail = strings.TrimSpace(t[p.Position:])
	}
	return c, nil
}

// quote returns w as a single shell word.
func quote(w string) string {
	if w != "" && !strings.ContainsAny(w, " \t\"'\\`;&|<>()*?[]{}#~") {
		return w
	}
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "`", "\\`")
	return `"` + r.Replace(w) + `"`
}

func (c *commandLine) String() string {
	q := make([]string, len(c.words))
	for i, w := range c.words {
		q[i] = quote(w)
	}
	s := c.indent + strings.Join(q, " ")
	if c.tail != "" {
		s += " " + c.tail
	}
	return s
}

// setOption sets flag to value. An option given as "flag value" keeps that
// form, otherwise it is written as "flag=value". A missing option is added
// before the first argument that is not an option.
func (c *commandLine) setOption(flag, value string) {
	w := c.words
	for i, tok := range w {
		if tok != flag && !strings.HasPrefix(tok, flag+"=") {
			continue
		}
		if tok == flag && i+1 < len(w) && !strings.HasPrefix(w[i+1], "-") {
			w[i+1] = value
		} else {
			w[i] = flag + "=" + value
		}
		return
	}
	at := len(w)
	for i := 1; i < len(w); i++ {
		if !strings.HasPrefix(w[i], "-") {
			at = i
			break
		}
	}
	w = append(w, "")
	copy(w[at+1:], w[at:])
	w[at] = flag + "=" + value
	c.words = w
}

// normalize puts the "--name=value" options named in order first, in that
// order, followed by the other options as they were.
func (c *commandLine) normalize(order []string) {
	if len(c.words) < 2 {
		return
	}
	end := len(c.words)
	for i := 1; i < len(c.words); i++ {
		if !strings.HasPrefix(c.words[i], "-") {
			end = i
			break
		}
	}
	opts := c.words[1:end]
	named := make(map[string]string)
	for _, o := range opts {
		if name, _, ok := strings.Cut(o, "="); ok && strings.HasPrefix(o, "--") {
			named[name] = o
		}
	}
	sorted := make([]string, 0, len(c.words))
	sorted = append(sorted, c.words[0])
	used := make(map[string]bool)
	for _, name := range order {
		if o, ok := named[name]; ok && !used[name] {
			sorted = append(sorted, o)
			used[name] = true
		}
	}
	for _, o := range opts {
		if name, _, ok := strings.Cut(o, "="); ok && strings.HasPrefix(o, "--") && used[name] {
			continue
		}
		sorted = append(sorted, o)
	}
	c.words = append(sorted, c.words[end:]...)
}

// editCommands applies edit to the occurrence-th body line running cmd
// (0-based), or to all of them if occurrence is negative. It returns the
// number of lines changed.
func (S *Script) editCommands(cmd string, occurrence int, edit func(*commandLine)) (int, error) {
	n, seen := 0, -1
	for i, l := range S.body {
		if !isCommand(strings.TrimSpace(l), cmd) {
			continue
		}
		seen++
		if occurrence >= 0 && seen != occurrence {
			continue
		}
		c, err := splitCommand(l)
		if err != nil {
			return n, vasp.Decorate(vasp.NewParseError(len(S.preamble)+i+1, l, "%s", err.Error()), "editCommands")
		}
		edit(c)
		S.body[i] = c.String()
		n++
		if occurrence >= 0 {
			break
		}
	}
	return n, nil
}

// SetCommandOption sets the option flag (for instance, "--ntasks") to value on
// the first body line running cmd, or on all of them if all is true. It
// returns the number of lines changed.
func (S *Script) SetCommandOption(cmd, flag, value string, all bool) (int, error) {
	vasp.Logger().Debugf("Setting option %s=%s on command '%s' (all=%t)", flag, value, cmd, all)
	occurrence := 0
	if all {
		occurrence = -1
	}
	return S.editCommands(cmd, occurrence, func(c *commandLine) { c.setOption(flag, value) })
}

// SetCommandOptionAt is like SetCommandOption, for the occurrence-th
// line running cmd (0-based). It returns false if there is no such line.
func (S *Script) SetCommandOptionAt(cmd string, occurrence int, flag, value string) (bool, error) {
	vasp.Logger().Debugf("Setting option %s=%s on command '%s', occurrence=%d", flag, value, cmd, occurrence)
	if occurrence < 0 {
		return false, nil
	}
	n, err := S.editCommands(cmd, occurrence, func(c *commandLine) { c.setOption(flag, value) })
	return n > 0, err
}

// NormalizeCommandOptions reorders the leading options of the lines running cmd
// so the "--name=value" options listed in order come first. Only the
// occurrence-th line (0-based) is changed, or all of them if occurrence is
// negative. It returns the number of lines changed.
func (S *Script) NormalizeCommandOptions(cmd string, order []string, occurrence int) (int, error) {
	vasp.Logger().Debugf("Normalizing options for command '%s', order=%v, occurrence=%d", cmd, order, occurrence)
	return S.editCommands(cmd, occurrence, func(c *commandLine) { c.normalize(order) })
}

// AddComment adds the line "# text" at the end of the script or, if top is
// true, right after the shebang (at the very top if there is none).
func (S *Script) AddComment(text string, top bool) {
	l := "# " + text
	vasp.Logger().Debugf("Adding comment: %s (top=%t)", l, top)
	if !top {
		S.body = append(S.body, l)
		return
	}
	at := 0
	if len(S.preamble) > 0 && strings.HasPrefix(S.preamble[0].text, "#!") {
		at = 1
	}
	S.preamble = append(S.preamble, line{})
	copy(S.preamble[at+1:], S.preamble[at:])
	S.preamble[at] = line{text: l}
}

// AddCommentAboveCommand inserts "# text" right above the first body line
// running cmd, or above all of them if all is true. It returns the number
// of comments added.
func (S *Script) AddCommentAboveCommand(cmd, text string, all bool) int {
	vasp.Logger().Debugf("Adding comment above command '%s': # %s (all=%t)", cmd, text, all)
	return S.commentBody("# "+text, all, func(l string) bool { return isCommand(strings.TrimSpace(l), cmd) })
}

// AddCommentAbove inserts "# text" right above the first line of the script
// containing substr, or above all of them if all is true. Directive lines
// are matched as they are written. It returns the number of comments added.
func (S *Script) AddCommentAbove(substr, text string, all bool) int {
	l := "# " + text
	vasp.Logger().Debugf("Adding comment above lines containing '%s': %s (all=%t)", substr, l, all)
	match := func(s string) bool { return strings.Contains(s, substr) }
	n := 0
	pre := make([]line, 0, len(S.preamble)+1)
	for _, p := range S.preamble {
		if (all || n == 0) && match(S.preambleText(p)) {
			pre = append(pre, line{text: l})
			n++
		}
		pre = append(pre, p)
	}
	S.preamble = pre
	if n > 0 && !all {
		return n
	}
	return n + S.commentBody(l, all, match)
}

// commentBody inserts the comment c above the body lines for which match is
// true (only the first one, unless all).
func (S *Script) commentBody(c string, all bool, match func(string) bool) int {
	n := 0
	body := make([]string, 0, len(S.body)+1)
	for _, l := range S.body {
		if (all || n == 0) && match(l) {
			body = append(body, c)
			n++
		}
		body = append(body, l)
	}
	S.body = body
	return n
}
