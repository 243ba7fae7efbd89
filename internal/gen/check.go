package gen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines shown around each change.
const contextLines = 3

// Drift describes a header whose on-disk content differs from what the
// registry generates.
type Drift struct {
	Filename string
	// Missing is true when the file does not exist at all.
	Missing bool
	// Diff is a line diff from the on-disk content to the generated content.
	Diff string
}

// Check compares generated files against the output directory and reports
// every file that is missing or stale. It never writes.
func Check(files []GeneratedFile, outputDir string) ([]Drift, error) {
	var drifts []Drift

	for _, file := range files {
		existing, err := os.ReadFile(filepath.Join(outputDir, file.Filename))
		if errors.Is(err, fs.ErrNotExist) {
			drifts = append(drifts, Drift{Filename: file.Filename, Missing: true})
			continue
		}

		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", file.Filename, err)
		}

		if string(existing) == string(file.Content) {
			continue
		}

		drifts = append(drifts, Drift{
			Filename: file.Filename,
			Diff:     LineDiff(string(existing), string(file.Content)),
		})
	}

	return drifts, nil
}

// LineDiff renders a line-oriented diff from oldText to newText. Removed lines are
// prefixed with "-", added lines with "+", and unchanged lines with a space;
// long unchanged runs are collapsed to their first and last few lines.
func LineDiff(oldText, newText string) string {
	dmp := diffmatchpatch.New()

	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder

	for i, d := range diffs {
		chunk := splitLines(d.Text)

		switch d.Type {
		case diffmatchpatch.DiffDelete:
			writePrefixed(&out, "-", chunk)
		case diffmatchpatch.DiffInsert:
			writePrefixed(&out, "+", chunk)
		case diffmatchpatch.DiffEqual:
			head, tail := contextLines, contextLines
			if i == 0 {
				head = 0
			}

			if i == len(diffs)-1 {
				tail = 0
			}

			if len(chunk) <= head+tail {
				writePrefixed(&out, " ", chunk)
				continue
			}

			writePrefixed(&out, " ", chunk[:head])
			fmt.Fprintf(&out, "@@ %d unchanged lines @@\n", len(chunk)-head-tail)
			writePrefixed(&out, " ", chunk[len(chunk)-tail:])
		}
	}

	return out.String()
}

func splitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	return lines
}

func writePrefixed(out *strings.Builder, prefix string, lines []string) {
	for _, line := range lines {
		out.WriteString(prefix)
		out.WriteString(line)

		if !strings.HasSuffix(line, "\n") {
			out.WriteString("\n\\ No newline at end of file\n")
		}
	}
}
