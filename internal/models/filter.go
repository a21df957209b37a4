// ABOUTME: FilterCriteria is the typed filter structure for similarity search
// ABOUTME: Replaces open-ended metadata maps with explicit predicates (AND semantics)
package models

import (
	"strings"
	"time"
)

// FilterCriteria narrows a similarity search to studies matching every set
// predicate. Zero values mean "no constraint". All predicates combine with
// AND semantics.
type FilterCriteria struct {
	Discipline   string
	Topic        string
	DateFrom     *time.Time
	DateTo       *time.Time
	MinCitations int
	Keyword      string
}

// IsZero reports whether no predicate is set.
func (f *FilterCriteria) IsZero() bool {
	if f == nil {
		return true
	}
	return f.Discipline == "" && f.Topic == "" && f.DateFrom == nil &&
		f.DateTo == nil && f.MinCitations == 0 && f.Keyword == ""
}

// Matches reports whether the study satisfies every set predicate.
func (f *FilterCriteria) Matches(s *Study) bool {
	if f == nil {
		return true
	}
	if f.Discipline != "" && !strings.EqualFold(s.Discipline, f.Discipline) {
		return false
	}
	if f.Topic != "" && !strings.EqualFold(s.Topic, f.Topic) {
		return false
	}
	if f.DateFrom != nil {
		if s.PublicationDate == nil || s.PublicationDate.Before(*f.DateFrom) {
			return false
		}
	}
	if f.DateTo != nil {
		if s.PublicationDate == nil || s.PublicationDate.After(*f.DateTo) {
			return false
		}
	}
	if f.MinCitations > 0 && s.CitationCount < f.MinCitations {
		return false
	}
	if f.Keyword != "" {
		found := false
		for _, kw := range s.Keywords {
			if strings.EqualFold(kw, f.Keyword) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
