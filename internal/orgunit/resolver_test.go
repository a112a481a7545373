package orgunit

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const home = "University of Virginia"

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	tables, err := LoadTables("")
	require.NoError(t, err)
	return NewResolver(home, tables, zerolog.Nop())
}

func TestResolveHomeDepartment(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name       string
		department string
		wantTitle  string
		wantSchool string
	}{
		{
			name:       "school code and translation",
			department: "CS-Comp Science Dept",
			wantTitle:  "Computer Science",
			wantSchool: "School of Engineering",
		},
		{
			name:       "medical unit code",
			department: "MD-INMD Internal Medicine",
			wantTitle:  "Internal Medicine",
			wantSchool: "School of Medicine",
		},
		{
			name:       "deans office named after the school",
			department: "EN-Dean's Office",
			wantTitle:  "School of Engineering Dean's Office",
			wantSchool: "School of Engineering",
		},
		{
			name:       "redundant trailing code",
			department: "Biomed Engr Dept EN",
			wantTitle:  "Biomedical Engineering",
		},
		{
			name:       "degree prefix stripped",
			department: "PHD-Econ Dept",
			wantTitle:  "Economics",
		},
		{
			name:       "section suffix stripped",
			department: "Hist Dept-101",
			wantTitle:  "History",
		},
		{
			name:       "whitespace collapsed before translation",
			department: "Comp   Science   Dept",
			wantTitle:  "Computer Science",
		},
		{
			name:       "untranslated department kept as cleaned",
			department: "EN-Rocket Surgery Dept",
			wantTitle:  "Rocket Surgery Dept",
			wantSchool: "School of Engineering",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			imp := r.Resolve(tt.department, home)
			require.NotNil(t, imp)
			assert.Equal(t, tt.wantTitle, imp.Title)
			assert.Equal(t, tt.wantSchool, imp.School)
			assert.Equal(t, home, imp.Institution)
			assert.Equal(t, tt.department, imp.RawDepartment)
		})
	}
}

func TestResolveBlankInstitutionFallsBackToHome(t *testing.T) {
	r := newTestResolver(t)

	imp := r.Resolve("CS-Comp Science Dept", "")
	require.NotNil(t, imp)
	assert.Equal(t, home, imp.Institution)
	assert.Equal(t, "Computer Science", imp.Title)
}

func TestResolveInstitutionRepeatingDepartment(t *testing.T) {
	r := newTestResolver(t)

	imp := r.Resolve("History", "History")
	require.NotNil(t, imp)
	assert.Equal(t, home, imp.Institution)
}

func TestResolveInstitutionAbbreviation(t *testing.T) {
	r := newTestResolver(t)

	for _, raw := range []string{"UVA", "uva", "U.Va."} {
		imp := r.Resolve("Hist Dept", raw)
		require.NotNil(t, imp, raw)
		assert.Equal(t, home, imp.Institution, raw)
		assert.Equal(t, "History", imp.Title, raw)
	}
}

func TestResolveForeignInstitution(t *testing.T) {
	r := newTestResolver(t)

	imp := r.Resolve("History", "Virginia Tech")
	require.NotNil(t, imp)
	assert.Equal(t, "Virginia Tech - History", imp.Title)
	assert.Equal(t, "Virginia Tech", imp.Institution)
	assert.Equal(t, "History", imp.Department)
	// Foreign departments keep their string: no school codes, no
	// translation table.
	assert.Empty(t, imp.School)
}

func TestResolveForeignAbbreviationExpanded(t *testing.T) {
	r := newTestResolver(t)

	imp := r.Resolve("Physics", "VT")
	require.NotNil(t, imp)
	assert.Equal(t, "Virginia Tech", imp.Institution)
	assert.Equal(t, "Virginia Tech - Physics", imp.Title)
}

func TestResolveInstitutionOnly(t *testing.T) {
	r := newTestResolver(t)

	imp := r.Resolve("", "Virginia Tech")
	require.NotNil(t, imp)
	assert.Equal(t, "Virginia Tech", imp.Title)
	assert.Equal(t, "Virginia Tech", imp.Institution)
	assert.Empty(t, imp.Department)
	assert.Equal(t, "virginia+tech", imp.Key())
}

func TestResolveNothingToDerive(t *testing.T) {
	r := newTestResolver(t)

	assert.Nil(t, r.Resolve("", ""))
	assert.Nil(t, r.Resolve("   ", "  "))
}

func TestResolveSameUnitConverges(t *testing.T) {
	r := newTestResolver(t)

	a := r.Resolve("CS-Comp Science Dept", "UVA")
	b := r.Resolve("Comp Science Dept", home)
	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.Equal(t, a.Key(), b.Key())
	assert.Equal(t, "university+of+virginia+computer+science", a.Key())
}

func TestImportKeyOverrideWins(t *testing.T) {
	imp := &Import{
		KeyOverride: "ou-42",
		Institution: home,
		Department:  "Computer Science",
	}
	assert.Equal(t, "ou-42", imp.Key())

	imp.KeyOverride = ""
	assert.Equal(t, "university+of+virginia+computer+science", imp.Key())
}

func TestMergePrefersRicherFields(t *testing.T) {
	a := &Import{Title: "Computer Science", Institution: home}
	b := &Import{
		Title:       "Computer Science",
		Institution: home,
		School:      "School of Engineering",
		Description: []string{"institution: University of Virginia", "school: School of Engineering"},
	}

	merged := Merge(a, b)
	assert.Equal(t, "School of Engineering", merged.School)
	assert.Len(t, merged.Description, 2)
}

func TestImportDisplay(t *testing.T) {
	imp := &Import{Title: "Computer Science", RawDepartment: "CS-Comp Science Dept"}
	assert.Equal(t, "Computer Science (raw: CS-Comp Science Dept)", imp.Display())

	imp = &Import{Title: "Virginia Tech"}
	assert.Equal(t, "Virginia Tech", imp.Display())
}
