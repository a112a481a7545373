package orgunit

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"
)

//go:embed defaults/*.yaml
var defaultTables embed.FS

// Tables holds the lookup data department normalization consults. The
// struct is built once per run and passed read-only into the resolver.
type Tables struct {
	// Schools maps two-letter prefix codes to school names
	// ("EN" -> "School of Engineering").
	Schools map[string]string
	// Departments maps cleaned department strings to their canonical
	// replacements ("Comp Science Dept" -> "Computer Science").
	Departments map[string]string
	// Institutions expands institution abbreviations
	// ("UVA" -> "University of Virginia").
	Institutions map[string]string
}

// LoadTables reads schools.yaml, departments.yaml and institutions.yaml
// from dir, falling back to the embedded defaults for any file the
// directory does not provide. An empty dir loads only the defaults.
func LoadTables(dir string) (Tables, error) {
	schools, err := loadTable(dir, "schools.yaml")
	if err != nil {
		return Tables{}, err
	}
	departments, err := loadTable(dir, "departments.yaml")
	if err != nil {
		return Tables{}, err
	}
	institutions, err := loadTable(dir, "institutions.yaml")
	if err != nil {
		return Tables{}, err
	}
	return Tables{
		Schools:      schools,
		Departments:  departments,
		Institutions: institutions,
	}, nil
}

func loadTable(dir, name string) (map[string]string, error) {
	var raw []byte
	var err error

	if dir != "" {
		raw, err = os.ReadFile(filepath.Join(dir, name))
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read lookup table %s: %w", name, err)
		}
	}
	if raw == nil {
		raw, err = defaultTables.ReadFile("defaults/" + name)
		if err != nil {
			return nil, fmt.Errorf("embedded lookup table %s: %w", name, err)
		}
	}

	table := map[string]string{}
	if err := yaml.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse lookup table %s: %w", name, err)
	}
	return table, nil
}

// lookup finds key in table, trying exact then case-insensitive match.
func lookup(table map[string]string, key string) (string, bool) {
	if v, ok := table[key]; ok {
		return v, true
	}
	for k, v := range table {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}
