/*
 * files.go, part of govasp.
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
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// CompressedSuffixes are the file suffixes for which ReadFile and WriteFile
// (de)compress transparently, in the order in which Find tries them.
var CompressedSuffixes = []string{".zst", ".gz"}

// The codecs are picked by file suffix, anything else is plain text.
func readerFor(name string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst":
		d, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return d.IOReadCloser(), nil
	case ".gz":
		return gzip.NewReader(r)
	default:
		return io.NopCloser(r), nil
	}
}

func writerFor(name string, w io.Writer) (io.WriteCloser, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zst":
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	case ".gz":
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	default:
		return nopWriteCloser{w}, nil
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// ReadFile returns the content of the file name, decompressing it
// if the name ends in .zst or .gz.
func ReadFile(name string) ([]byte, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r, err := readerFor(name, f)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

// WriteFile writes data to the file name, creating the parent directories if needed.
// The data is compressed if name ends in .zst or .gz. It returns true if the file
// didn't exist before the call.
func WriteFile(name string, data []byte) (created bool, err error) {
	if err = os.MkdirAll(filepath.Dir(name), 0755); err != nil {
		return false, err
	}
	created = !Exists(name)
	var buf bytes.Buffer
	w, err := writerFor(name, &buf)
	if err != nil {
		return false, err
	}
	if _, err = w.Write(data); err != nil {
		return false, err
	}
	if err = w.Close(); err != nil {
		return false, err
	}
	return created, os.WriteFile(name, buf.Bytes(), 0644)
}

// Exists returns true if name exists and is a regular file.
func Exists(name string) bool {
	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

// Find returns the first existing file among name and its compressed
// variants (name.zst, name.gz). The error is fs.ErrNotExist if none exists.
func Find(name string) (string, error) {
	candidates := append([]string{name}, compressedVariants(name)...)
	for _, c := range candidates {
		if Exists(c) {
			return c, nil
		}
	}
	return "", &fs.PathError{Op: "find", Path: name, Err: fs.ErrNotExist}
}

func compressedVariants(name string) []string {
	ret := make([]string, 0, len(CompressedSuffixes))
	for _, s := range CompressedSuffixes {
		ret = append(ret, name+s)
	}
	return ret
}

// IsNotExist reports whether err means that a file was not found.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// LogSaved logs the creation or update of a file.
func LogSaved(kind, path string, created bool) {
	if created {
		Logger().Infof("Created new %s at %s.", kind, path)
		return
	}
	Logger().Infof("Updated %s at %s.", kind, path)
}
