// Package assemble serializes chunked units into the output file format:
// each unit is the document title, a period, and the unit text, followed by
// a blank line.
package assemble

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/legalchunk/internal/doctree"
)

// Format renders one unit. A trailing period on the title is not doubled.
func Format(u doctree.Unit) string {
	return strings.TrimRight(u.Title, ".") + ". " + strings.TrimSpace(u.Text)
}

// Write streams units to w in order, each followed by a blank line. Empty
// units are skipped.
func Write(w io.Writer, units []doctree.Unit) (int64, error) {
	var total int64
	for _, u := range units {
		if strings.TrimSpace(u.Text) == "" {
			continue
		}
		n, err := io.WriteString(w, Format(u)+"\n\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Render returns the whole output file for units.
func Render(units []doctree.Unit) []byte {
	var buf bytes.Buffer
	_, _ = Write(&buf, units)
	return buf.Bytes()
}
