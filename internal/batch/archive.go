package batch

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// Result describes one produced archive.
type Result struct {
	Archive      string
	Items        int
	Verified     bool
	VerifyOutput string
}

// Archiver zips partitioned item directories. Creation failures are
// fatal; verification failures are reported and the archive is kept.
type Archiver struct {
	root     string
	outDir   string
	base     string
	verifier string
	log      zerolog.Logger
}

// NewArchiver writes archives named <base>-<NN>.zip into outDir from
// item directories under root, verifying each with the named external
// tool ("" skips verification).
func NewArchiver(root, outDir, base, verifier string, log zerolog.Logger) *Archiver {
	return &Archiver{
		root:     root,
		outDir:   outDir,
		base:     base,
		verifier: verifier,
		log:      log.With().Str("component", "archiver").Logger(),
	}
}

// Run creates one archive per part and verifies it.
func (a *Archiver) Run(ctx context.Context, plan [][]string) ([]Result, error) {
	if err := os.MkdirAll(a.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create archive dir %s: %w", a.outDir, err)
	}

	width := len(strconv.Itoa(len(plan)))
	results := make([]Result, 0, len(plan))
	for i, members := range plan {
		name := fmt.Sprintf("%s-%0*d.zip", a.base, width, i+1)
		path := filepath.Join(a.outDir, name)

		if err := a.create(path, members); err != nil {
			return results, err
		}
		res := Result{Archive: path, Items: len(members)}
		res.Verified, res.VerifyOutput = a.verify(ctx, path)
		a.log.Info().
			Str("archive", name).
			Int("items", res.Items).
			Bool("verified", res.Verified).
			Msg("archive written")
		results = append(results, res)
	}
	return results, nil
}

// create zips each member directory under its directory name.
func (a *Archiver) create(path string, members []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create archive %s: %w", path, err)
	}
	zw := zip.NewWriter(f)

	for _, member := range members {
		dir := filepath.Join(a.root, member)
		err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(a.root, p)
			if err != nil {
				return err
			}
			w, err := zw.Create(filepath.ToSlash(rel))
			if err != nil {
				return err
			}
			in, err := os.Open(p)
			if err != nil {
				return err
			}
			_, err = io.Copy(w, in)
			in.Close()
			return err
		})
		if err != nil {
			zw.Close()
			f.Close()
			return fmt.Errorf("archive %s: add %s: %w", path, member, err)
		}
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize archive %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close archive %s: %w", path, err)
	}
	return nil
}

// verify runs the external integrity check and surfaces its output.
func (a *Archiver) verify(ctx context.Context, path string) (bool, string) {
	if a.verifier == "" {
		return true, "verification skipped"
	}
	cmd := exec.CommandContext(ctx, a.verifier, "-t", path)
	out, err := cmd.CombinedOutput()
	output := strings.TrimSpace(string(out))
	if err != nil {
		a.log.Error().Str("archive", path).Err(err).Str("output", output).Msg("archive verification failed")
		return false, output
	}
	a.log.Debug().Str("archive", path).Msg("archive verified")
	return true, output
}
