package pipeline

import "fmt"

// Phase selects which entity kinds a run materializes. Transitions are
// operator re-invocations, never automatic: creating entities at the
// destination is an observable side effect that must be confirmed
// before the dependent phase runs.
type Phase int

const (
	PhaseAll Phase = iota
	PhaseOrgUnit
	PhasePerson
	PhasePublication
)

// ParsePhase validates the numeric phase selector.
func ParsePhase(n int) (Phase, error) {
	if n < int(PhaseAll) || n > int(PhasePublication) {
		return PhaseAll, fmt.Errorf("phase must be 0 (all), 1 (org-units), 2 (persons) or 3 (publications), got %d", n)
	}
	return Phase(n), nil
}

func (p Phase) String() string {
	switch p {
	case PhaseAll:
		return "all"
	case PhaseOrgUnit:
		return "org-units"
	case PhasePerson:
		return "persons"
	case PhasePublication:
		return "publications"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// buildsPersons reports whether the phase registers person candidates.
func (p Phase) buildsPersons() bool { return p != PhaseOrgUnit }

// buildsPublications reports whether the phase assembles publications.
func (p Phase) buildsPublications() bool {
	return p == PhaseAll || p == PhasePublication
}
