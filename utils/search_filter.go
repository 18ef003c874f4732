package utils

import (
	"net/url"
	"strconv"
	"strings"

	"propmatch_server/models"
)

// MatchFilter is a typed, allow-listed predicate tree over match views,
// built from search[...] query parameters. Client-supplied keys never reach
// the store's query language: unknown fields and unknown operators are
// dropped during parsing, and the surviving predicates run in-process
// against the projected view.
type MatchFilter struct {
	predicates []predicate
}

type fieldKind int

const (
	kindString fieldKind = iota
	kindNumber
)

type fieldSpec struct {
	kind fieldKind
	str  func(models.MatchView) (string, bool)
	num  func(models.MatchView) (float64, bool)
}

type predicate struct {
	spec   fieldSpec
	op     string
	strVal string
	numVal float64
}

func propertyStr(get func(*models.Property) string) func(models.MatchView) (string, bool) {
	return func(v models.MatchView) (string, bool) {
		if v.Property == nil {
			return "", false
		}
		return get(v.Property), true
	}
}

func propertyNum(get func(*models.Property) float64) func(models.MatchView) (float64, bool) {
	return func(v models.MatchView) (float64, bool) {
		if v.Property == nil {
			return 0, false
		}
		return get(v.Property), true
	}
}

// allowedFields is the complete set of filterable keys.
var allowedFields = map[string]fieldSpec{
	"status": {kind: kindString, str: func(v models.MatchView) (string, bool) {
		return v.Status, true
	}},
	"propertyId": {kind: kindString, str: func(v models.MatchView) (string, bool) {
		return v.PropertyID, true
	}},
	"buyerId": {kind: kindString, str: func(v models.MatchView) (string, bool) {
		return v.BuyerID, true
	}},
	"property.title":        {kind: kindString, str: propertyStr(func(p *models.Property) string { return p.Title })},
	"property.type":         {kind: kindString, str: propertyStr(func(p *models.Property) string { return p.Type })},
	"property.location":     {kind: kindString, str: propertyStr(func(p *models.Property) string { return p.Location })},
	"property.furnished":    {kind: kindString, str: propertyStr(func(p *models.Property) string { return p.Furnished })},
	"property.availability": {kind: kindString, str: propertyStr(func(p *models.Property) string { return p.Availability })},
	"property.price":        {kind: kindNumber, num: propertyNum(func(p *models.Property) float64 { return p.Price })},
	"property.area":         {kind: kindNumber, num: propertyNum(func(p *models.Property) float64 { return p.Area })},
	"property.bedrooms":     {kind: kindNumber, num: propertyNum(func(p *models.Property) float64 { return float64(p.Bedrooms) })},
	"property.bathrooms":    {kind: kindNumber, num: propertyNum(func(p *models.Property) float64 { return float64(p.Bathrooms) })},
}

// ParseSearchFilter builds a MatchFilter from query parameters of the form
// search[field]=value or search[field][op]=value with op in {eq, gte, lte}.
// Numeric operators apply to numeric fields only; string values match as
// case-insensitive substrings.
func ParseSearchFilter(query url.Values) *MatchFilter {
	filter := &MatchFilter{}
	for key, values := range query {
		field, op, ok := parseSearchKey(key)
		if !ok || len(values) == 0 {
			continue
		}
		spec, ok := allowedFields[field]
		if !ok {
			continue
		}
		raw := strings.TrimSpace(values[0])
		if raw == "" {
			continue
		}

		switch spec.kind {
		case kindNumber:
			if op == "" {
				op = "eq"
			}
			if op != "eq" && op != "gte" && op != "lte" {
				continue
			}
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			filter.predicates = append(filter.predicates, predicate{spec: spec, op: op, numVal: n})
		case kindString:
			if op != "" && op != "eq" {
				continue
			}
			filter.predicates = append(filter.predicates, predicate{spec: spec, op: "eq", strVal: strings.ToLower(raw)})
		}
	}
	return filter
}

// parseSearchKey splits "search[field]" / "search[field][op]" into its parts.
func parseSearchKey(key string) (field, op string, ok bool) {
	if !strings.HasPrefix(key, "search[") || !strings.HasSuffix(key, "]") {
		return "", "", false
	}
	inner := key[len("search[") : len(key)-1]
	parts := strings.Split(inner, "][")
	switch len(parts) {
	case 1:
		return parts[0], "", parts[0] != ""
	case 2:
		return parts[0], parts[1], parts[0] != "" && parts[1] != ""
	default:
		return "", "", false
	}
}

// IsEmpty reports whether no predicates survived parsing.
func (f *MatchFilter) IsEmpty() bool {
	return f == nil || len(f.predicates) == 0
}

// Matches evaluates the predicate tree against one view. All predicates must
// hold; a predicate on a missing joined record never holds.
func (f *MatchFilter) Matches(view models.MatchView) bool {
	if f == nil {
		return true
	}
	for _, p := range f.predicates {
		if !p.matches(view) {
			return false
		}
	}
	return true
}

func (p predicate) matches(view models.MatchView) bool {
	switch p.spec.kind {
	case kindNumber:
		value, ok := p.spec.num(view)
		if !ok {
			return false
		}
		switch p.op {
		case "gte":
			return value >= p.numVal
		case "lte":
			return value <= p.numVal
		default:
			return value == p.numVal
		}
	default:
		value, ok := p.spec.str(view)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(value), p.strVal)
	}
}
