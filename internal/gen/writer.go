package gen

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// staged is a changed header written to a temporary sibling, waiting to be
// renamed into place.
type staged struct {
	filename string
	tmp      string
	path     string
}

// WriteFiles writes all generated files to the output directory, creating it
// if needed, and returns the names of the files whose content changed.
// Unchanged files are left untouched so their modification times stay put.
//
// Every changed file is first written to a temporary sibling; only when all of
// them are staged are they renamed into place. A failure while reading or
// staging leaves every existing header untouched, and a reader never sees a
// partially written header.
func WriteFiles(files []GeneratedFile, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var changed []GeneratedFile

	for _, file := range files {
		existing, err := os.ReadFile(filepath.Join(outputDir, file.Filename))
		if err == nil && bytes.Equal(existing, file.Content) {
			continue
		}

		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading existing %s: %w", file.Filename, err)
		}

		changed = append(changed, file)
	}

	var pending []staged

	defer func() {
		// Removal fails harmlessly for files already renamed.
		for _, st := range pending {
			_ = os.Remove(st.tmp)
		}
	}()

	for _, file := range changed {
		path := filepath.Join(outputDir, file.Filename)

		tmp, err := stage(path, file.Content)
		if err != nil {
			return nil, fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		pending = append(pending, staged{filename: file.Filename, tmp: tmp, path: path})
	}

	written := make([]string, 0, len(pending))

	for _, st := range pending {
		if err := os.Rename(st.tmp, st.path); err != nil {
			return written, fmt.Errorf("writing file %s: %w", st.filename, err)
		}

		written = append(written, st.filename)
	}

	return written, nil
}

// stage writes content to a temporary file next to path and returns its name.
func stage(path string, content []byte) (string, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp*")
	if err != nil {
		return "", err
	}

	name := tmp.Name()

	err = write(tmp, content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(name)
		return "", err
	}

	return name, nil
}

func write(f *os.File, content []byte) error {
	if _, err := f.Write(content); err != nil {
		return err
	}

	return f.Chmod(filePerm)
}
