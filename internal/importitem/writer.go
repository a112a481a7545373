// Package importitem writes Simple-Archive-Format item directories
// under the import root: one directory per entity, named by its table
// key or external id.
package importitem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Copy names one content file to carry into the item directory.
type Copy struct {
	Source string
	Name   string
}

// Files is the set of documents for one item. Empty documents are not
// written.
type Files struct {
	Metadata      []byte
	Relationships []string
	Collections   []string
	Contents      []string
	Copies        []Copy
}

// Writer materializes item directories. Its errors are the fatal class:
// the caller aborts the run on any of them.
type Writer struct {
	root string
	log  zerolog.Logger
}

func NewWriter(root string, log zerolog.Logger) *Writer {
	return &Writer{root: root, log: log.With().Str("component", "writer").Logger()}
}

// Root returns the import root path.
func (w *Writer) Root() string { return w.root }

// EnsureRoot creates the import root if needed.
func (w *Writer) EnsureRoot() error {
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return fmt.Errorf("create import root %s: %w", w.root, err)
	}
	return nil
}

// ClearRoot recursively removes any stale output and recreates the
// root. The force path runs this before a fresh build.
func (w *Writer) ClearRoot() error {
	if _, err := os.Stat(w.root); err == nil {
		w.log.Warn().Str("root", w.root).Msg("clearing existing import root")
		if err := os.RemoveAll(w.root); err != nil {
			return fmt.Errorf("clear import root %s: %w", w.root, err)
		}
	}
	return w.EnsureRoot()
}

// Write creates one item directory and its non-empty files, replacing
// a pre-existing directory of the same name with a warning.
func (w *Writer) Write(dir string, files Files) error {
	path := filepath.Join(w.root, dir)
	if _, err := os.Stat(path); err == nil {
		w.log.Warn().Str("item", dir).Msg("item directory exists, replacing")
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("clear item dir %s: %w", path, err)
		}
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create item dir %s: %w", path, err)
	}

	if len(files.Metadata) > 0 {
		if err := writeFile(path, "dublin_core.xml", files.Metadata); err != nil {
			return err
		}
	}
	if err := writeLines(path, "relationships", files.Relationships); err != nil {
		return err
	}
	if err := writeLines(path, "collections", files.Collections); err != nil {
		return err
	}
	if err := writeLines(path, "contents", files.Contents); err != nil {
		return err
	}
	for _, c := range files.Copies {
		if err := copyFile(c.Source, filepath.Join(path, c.Name)); err != nil {
			return err
		}
	}

	w.log.Debug().Str("item", dir).Int("files", len(files.Copies)).Msg("item written")
	return nil
}

func writeFile(dir, name string, data []byte) error {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeLines(dir, name string, lines []string) error {
	if len(lines) == 0 {
		return nil
	}
	return writeFile(dir, name, []byte(strings.Join(lines, "\n")+"\n"))
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open content file %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", dst, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return nil
}
