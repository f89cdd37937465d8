// Package fileops implements whole-file read/write and the post-load
// filter (CR/LF and tab normalization) described in spec §6.
package fileops

import (
	"os"
	"unicode/utf8"

	"github.com/shawnamir/sced/pkg/editorerr"
	"github.com/shawnamir/sced/pkg/elog"
)

const tabStop = 8

// ReadResult is the outcome of loading a file.
type ReadResult struct {
	Text          []byte
	NeedsFilter   bool // CR or TAB bytes are present; caller should prompt
}

// Read loads path as a plain byte stream.
func Read(path string) (*ReadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		elog.Errorf("fileops: read %s: %v", path, err)
		return nil, editorerr.Wrap(editorerr.IO, "Cannot read file", err)
	}
	return &ReadResult{Text: data, NeedsFilter: needsFilter(data)}, nil
}

// Write saves text to path as a plain byte stream.
func Write(path string, text []byte) error {
	if err := os.WriteFile(path, text, 0644); err != nil {
		elog.Errorf("fileops: write %s: %v", path, err)
		return editorerr.Wrap(editorerr.IO, "Cannot write file", err)
	}
	return nil
}

func needsFilter(data []byte) bool {
	for _, b := range data {
		if b == '\r' || b == '\t' {
			return true
		}
	}
	return false
}

// Filter normalizes CRLF and bare CR to LF, and expands tabs to spaces
// aligned to the next multiple of tabStop. It is idempotent: filtering
// already-filtered text (no CR or TAB bytes) is a no-op.
func Filter(text []byte) []byte {
	if !needsFilter(text) {
		return text
	}
	out := make([]byte, 0, len(text)+len(text)/4)
	col := 0
	i := 0
	for i < len(text) {
		c := text[i]
		switch c {
		case '\r':
			out = append(out, '\n')
			col = 0
			i++
			if i < len(text) && text[i] == '\n' {
				i++
			}
		case '\n':
			out = append(out, '\n')
			col = 0
			i++
		case '\t':
			n := tabStop - (col % tabStop)
			for k := 0; k < n; k++ {
				out = append(out, ' ')
			}
			col += n
			i++
		default:
			_, size := utf8.DecodeRune(text[i:])
			out = append(out, text[i:i+size]...)
			col++
			i += size
		}
	}
	return out
}
