package publication

import (
	"strings"
	"time"

	"github.com/uvalib/dspace-util-sub000/pkg/models"
)

// Groups names the destination groups used for read restrictions.
type Groups struct {
	Campus     string
	Restricted string
}

// deriveAccess folds the record's visibility and optional embargo into
// one access posture. While an embargo is active the during-embargo
// visibility governs; afterwards the post-embargo visibility does. Both
// fall back to the record visibility when blank.
func deriveAccess(vis models.VisibilityDescriptor, emb *models.EmbargoDescriptor, groups Groups, now time.Time) Access {
	term := strings.ToLower(strings.TrimSpace(vis.Visibility))
	if term == "" {
		term = models.VisibilityOpen
	}

	acc := Access{Term: term}
	if emb != nil {
		release, ok := parseEmbargoDate(emb.ReleaseDate)
		active := ok && release.After(now) && strings.TrimSpace(emb.DeactivationDate) == ""
		if active {
			acc.EmbargoActive = true
			acc.ReleaseDate = release.Format("2006-01-02")
			if t := strings.ToLower(strings.TrimSpace(emb.DuringVisibility)); t != "" {
				acc.Term = t
			}
		} else if t := strings.ToLower(strings.TrimSpace(emb.AfterVisibility)); t != "" {
			acc.Term = t
		}
	}

	switch acc.Term {
	case models.VisibilityCampus:
		acc.ReadGroup = groups.Campus
	case models.VisibilityRestricted:
		acc.ReadGroup = groups.Restricted
	}
	return acc
}

// parseEmbargoDate accepts the two date shapes the export carries.
func parseEmbargoDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
