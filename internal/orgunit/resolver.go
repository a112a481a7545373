package orgunit

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog"
)

var (
	schoolCodeRe   = regexp.MustCompile(`^([A-Za-z]{2})-\s*(.*)$`)
	medUnitRe      = regexp.MustCompile(`^[A-Z]{4}\s+(.+)$`)
	degreePrefixRe = regexp.MustCompile(`(?i)^(phd|ms|ma|ba|bs)-\s*`)
	sectionRe      = regexp.MustCompile(`-\d{3}$`)
	trailingCodeRe = regexp.MustCompile(`[\s-]+([A-Za-z]{2})$`)
	spaceRe        = regexp.MustCompile(`\s+`)
)

// Resolver turns raw (department, institution) pairs into canonical
// org-unit imports. It holds the home institution and the lookup tables
// for the whole run; Resolve is safe for repeated use.
type Resolver struct {
	home   string
	tables Tables
	log    zerolog.Logger
}

func NewResolver(home string, tables Tables, log zerolog.Logger) *Resolver {
	return &Resolver{
		home:   home,
		tables: tables,
		log:    log.With().Str("component", "orgunit").Logger(),
	}
}

// Home returns the canonical home-institution name.
func (r *Resolver) Home() string { return r.home }

// Resolve normalizes one observed (department, institution) pair.
// A nil result means the pair carried nothing to derive a unit from.
//
// Rules, in order:
//  1. A blank institution, or one repeating the department verbatim,
//     carries no information; display falls back to the home name.
//  2. A blank department means the unit is the institution itself.
//  3. Departments of other institutions get only the light cleanup and
//     an "institution - department" title.
//  4. Home-institution departments lose their school prefix code,
//     medical-unit codes, redundant trailing codes, degree prefixes and
//     section suffixes, then go through the translation table.
func (r *Resolver) Resolve(department, institution string) *Import {
	rawDept := strings.TrimSpace(department)
	rawInst := strings.TrimSpace(institution)

	if rawDept == "" && rawInst == "" {
		return nil
	}

	inst := rawInst
	if expanded, ok := lookup(r.tables.Institutions, inst); ok {
		inst = expanded
	}
	if inst == "" || strings.EqualFold(inst, rawDept) {
		inst = r.home
	}

	if rawDept == "" {
		return &Import{Title: inst, Institution: inst}
	}

	if !strings.EqualFold(inst, r.home) {
		dept := lightClean(rawDept)
		return &Import{
			Title:         inst + " - " + dept,
			Institution:   inst,
			Department:    dept,
			RawDepartment: rawDept,
			Description: []string{
				"institution: " + rawInst,
				"department: " + rawDept,
			},
		}
	}

	dept, school := r.cleanHomeDepartment(rawDept)
	desc := []string{"institution: " + inst}
	if school != "" {
		desc = append(desc, "school: "+school)
	}
	desc = append(desc, "department: "+rawDept)

	return &Import{
		Title:         dept,
		Institution:   inst,
		Department:    dept,
		School:        school,
		RawDepartment: rawDept,
		Description:   desc,
	}
}

// cleanHomeDepartment applies the full home-institution cleanup and
// resolves the school a prefix code names.
func (r *Resolver) cleanHomeDepartment(raw string) (string, string) {
	d := strings.TrimSpace(raw)
	school := ""

	if m := schoolCodeRe.FindStringSubmatch(d); m != nil {
		code := strings.ToUpper(m[1])
		if name, ok := r.tables.Schools[code]; ok {
			school = name
			d = strings.TrimSpace(m[2])

			// Medical-school strings carry a second, four-letter unit
			// code: "MD-INMD Internal Medicine".
			if code == "MD" {
				if mm := medUnitRe.FindStringSubmatch(d); mm != nil {
					d = strings.TrimSpace(mm[1])
				}
			}
		}
	}

	// "EN-Dean's Office" names the school, not a department.
	if strings.EqualFold(d, "dean's office") && school != "" {
		d = school + " Dean's Office"
	}

	// A trailing code repeats what the prefix already said.
	if m := trailingCodeRe.FindStringSubmatch(d); m != nil {
		if _, ok := r.tables.Schools[strings.ToUpper(m[1])]; ok {
			d = strings.TrimSpace(strings.TrimSuffix(d, m[0]))
		}
	}

	d = degreePrefixRe.ReplaceAllString(d, "")
	d = sectionRe.ReplaceAllString(d, "")
	d = strings.TrimSpace(spaceRe.ReplaceAllString(d, " "))

	if repl, ok := lookup(r.tables.Departments, d); ok {
		d = repl
	}
	return d, school
}

// lightClean is the reduced cleanup used for departments of other
// institutions.
func lightClean(raw string) string {
	d := degreePrefixRe.ReplaceAllString(strings.TrimSpace(raw), "")
	d = sectionRe.ReplaceAllString(d, "")
	return strings.TrimSpace(spaceRe.ReplaceAllString(d, " "))
}
