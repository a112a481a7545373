package export

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Filter is a set of external ids used to include or exclude records.
type Filter struct {
	ids map[string]bool
}

// ParseFilter builds a filter from a flag value. An empty value yields
// nil (no filter). A value prefixed with "@" names a file with one id
// per line; mapfiles work directly because everything after the first
// whitespace on a line is discarded. Otherwise the value is a
// comma-separated list of ids.
func ParseFilter(value string) (*Filter, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if strings.HasPrefix(value, "@") {
		return parseFilterFile(strings.TrimPrefix(value, "@"))
	}

	f := &Filter{ids: make(map[string]bool)}
	for _, id := range strings.Split(value, ",") {
		if id = strings.TrimSpace(id); id != "" {
			f.ids[id] = true
		}
	}
	return f, nil
}

func parseFilterFile(path string) (*Filter, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open id list %s: %w", path, err)
	}
	defer file.Close()

	f := &Filter{ids: make(map[string]bool)}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		f.ids[fields[0]] = true
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read id list %s: %w", path, err)
	}
	return f, nil
}

// Has reports whether the id is in the set. A nil filter matches
// nothing; callers treat nil as "no filtering".
func (f *Filter) Has(id string) bool {
	if f == nil {
		return false
	}
	return f.ids[id]
}

// Len returns the number of ids in the set.
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.ids)
}
