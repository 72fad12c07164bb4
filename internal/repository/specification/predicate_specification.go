package specification

import (
	"fmt"

	"ai-sitebuilder-be/pkg/criteria"

	"gorm.io/gorm"
)

// FromPredicate converts one compiled search predicate into a query
// specification. Column names come from the fixed schema declaration and
// are validated by the repository before this is called; every value and
// JSON key is bound as a parameter.
func FromPredicate(p criteria.Predicate) Specification {
	return predicateSpec{p}
}

type predicateSpec struct {
	p criteria.Predicate
}

func (s predicateSpec) Apply(db *gorm.DB) *gorm.DB {
	if s.p.JSONKey != "" {
		if s.p.Comparator == criteria.Equals {
			return db.Where(s.p.Column+" ->> ? = ?", s.p.JSONKey, fmt.Sprint(s.p.Value))
		}
		return db.Where(s.p.Column+" ->> ? ILIKE ?", s.p.JSONKey, containsPattern(s.p.Value))
	}
	if s.p.Comparator == criteria.Equals {
		return db.Where(s.p.Column+" = ?", s.p.Value)
	}
	return db.Where(s.p.Column+"::text ILIKE ?", containsPattern(s.p.Value))
}

func containsPattern(value interface{}) string {
	return "%" + fmt.Sprint(value) + "%"
}
