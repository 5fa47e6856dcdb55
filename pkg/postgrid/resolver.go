package postgrid

// PropertyRef is the result of resolution: a reference into a RawRecord. It
// is not retained past one normalization pass.
type PropertyRef struct {
	Name  string
	Tag   PropertyTag
	Value Property
}

// Resolve picks the first candidate name that is present on the record and,
// when tag is non-empty, declared with that tag. First match wins: this is a
// name-priority policy, not best-match. When no candidate name matches, it
// falls back to a tag-only scan over the record's natural key order, which
// keeps resolution working on deployments that renamed a field but kept only
// one property of the tag. Absence is a normal outcome.
func Resolve(rec *RawRecord, candidates []string, tag PropertyTag) (PropertyRef, bool) {
	if rec == nil {
		return PropertyRef{}, false
	}
	for _, name := range candidates {
		p, ok := rec.Get(name)
		if !ok {
			continue
		}
		if tag != "" && p.Tag != tag {
			continue
		}
		return PropertyRef{Name: name, Tag: p.Tag, Value: p}, true
	}
	if tag == "" {
		return PropertyRef{}, false
	}
	for _, name := range rec.names {
		if p := rec.props[name]; p.Tag == tag {
			return PropertyRef{Name: name, Tag: p.Tag, Value: p}, true
		}
	}
	return PropertyRef{}, false
}
