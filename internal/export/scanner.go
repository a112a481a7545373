package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// recordPrefix marks export subdirectories that hold a work.
const recordPrefix = "work."

var (
	authorRe      = regexp.MustCompile(`^author-(\d+)\.json$`)
	contributorRe = regexp.MustCompile(`^contributor-(\d+)\.json$`)
	filesetRe     = regexp.MustCompile(`^fileset-(\d+)\.json$`)
)

// ScanOptions narrows a scan. A nil Include admits every id; Exclude
// always wins over Include; Max of zero means unlimited.
type ScanOptions struct {
	Include *Filter
	Exclude *Filter
	Max     int
}

// Scanner walks a source export tree and produces one Record per
// work directory.
type Scanner struct {
	source string
	log    zerolog.Logger
}

// NewScanner returns a scanner rooted at the given export directory.
func NewScanner(source string, log zerolog.Logger) *Scanner {
	return &Scanner{source: source, log: log}
}

// Scan reads the source tree and returns the filtered records in
// directory iteration order, plus the data-quality problems found along
// the way. A malformed record directory is logged and skipped, never
// fatal; only an unreadable source directory errors.
func (s *Scanner) Scan(opts ScanOptions) ([]*Record, []string, error) {
	entries, err := os.ReadDir(s.source)
	if err != nil {
		return nil, nil, fmt.Errorf("read source dir %s: %w", s.source, err)
	}

	var records []*Record
	var problems []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if !e.IsDir() {
			s.log.Debug().Str("entry", name).Msg("skipping non-directory entry")
			continue
		}
		if !strings.HasPrefix(name, recordPrefix) {
			s.log.Debug().Str("entry", name).Msg("skipping unrecognized directory")
			continue
		}
		id := name[len(recordPrefix):]
		if id == "" {
			s.log.Warn().Str("entry", name).Msg("skipping directory with empty id")
			continue
		}
		if opts.Include != nil && !opts.Include.Has(id) {
			s.log.Debug().Str("id", id).Msg("not in include list, skipping")
			continue
		}
		if opts.Exclude != nil && opts.Exclude.Has(id) {
			s.log.Debug().Str("id", id).Msg("in exclude list, skipping")
			continue
		}

		rec, err := s.scanRecord(id, filepath.Join(s.source, name))
		if err != nil {
			s.log.Warn().Str("id", id).Err(err).Msg("skipping malformed record")
			problems = append(problems, err.Error())
			continue
		}
		records = append(records, rec)

		if opts.Max > 0 && len(records) >= opts.Max {
			s.log.Info().Int("max", opts.Max).Msg("record cap reached, stopping scan")
			break
		}
	}

	s.log.Info().Int("records", len(records)).Str("source", s.source).Msg("scan complete")
	return records, problems, nil
}

// scanRecord classifies the files inside one work directory.
func (s *Scanner) scanRecord(id, dir string) (*Record, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read record dir %s: %w", dir, err)
	}

	rec := &Record{ID: id, Dir: dir}
	var authors, contributors, filesets []indexedPath

	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		if e.IsDir() {
			s.log.Debug().Str("id", id).Str("entry", name).Msg("skipping nested directory")
			continue
		}
		path := filepath.Join(dir, name)

		switch {
		case name == "work.json":
			rec.WorkPath = path
		case name == "rights.json":
			rec.RightsPath = path
		case name == "embargo.json":
			rec.EmbargoPath = path
		case name == "visibility.json":
			rec.VisibilityPath = path
		case authorRe.MatchString(name):
			authors = append(authors, indexed(authorRe, name, path))
		case contributorRe.MatchString(name):
			contributors = append(contributors, indexed(contributorRe, name, path))
		case filesetRe.MatchString(name):
			filesets = append(filesets, indexed(filesetRe, name, path))
		default:
			rec.ContentPaths = append(rec.ContentPaths, path)
		}
	}

	if rec.WorkPath == "" {
		return nil, fmt.Errorf("record %s: missing work.json in %s", id, dir)
	}

	rec.AuthorPaths = sortIndexed(authors)
	rec.ContributorPaths = sortIndexed(contributors)
	rec.FilesetPaths = sortIndexed(filesets)
	return rec, nil
}

// indexedPath keeps the numeric descriptor index so that author-10
// sorts after author-2.
type indexedPath struct {
	n    int
	path string
}

func indexed(re *regexp.Regexp, name, path string) indexedPath {
	m := re.FindStringSubmatch(name)
	n, _ := strconv.Atoi(m[1])
	return indexedPath{n: n, path: path}
}

func sortIndexed(in []indexedPath) []string {
	sort.Slice(in, func(i, j int) bool { return in[i].n < in[j].n })
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = p.path
	}
	return out
}
