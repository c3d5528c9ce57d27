package filter

import (
	"strconv"
	"strings"
	"unicode"

	"nestio-backend/internal/domain"
)

// Clause is a single compiled predicate over the feature bag, ready for the
// query executor.
type Clause struct {
	Field string
	Op    Operator
	Value domain.FeatureValue
	// MatchAbsent widens a boolean equality so rows lacking the key also
	// match. Set for boolean=false requests: most listings never populate
	// negative amenity flags, so absence counts as false.
	MatchAbsent bool
}

// Compile turns a flat map of raw query parameters into typed predicate
// clauses. Range keys arrive either bare (bedrooms=3, an equality) or with a
// min/max prefix (minArea=50). Unrecognized keys are ignored so callers may
// pass pagination and sort parameters in the same map. Malformed boolean
// values are collected into one ValidationError covering every bad entry;
// unparseable range bounds drop just their own clause.
func Compile(params map[string]string) ([]Clause, error) {
	verr := domain.NewValidationError()
	var bools, ranges, enums []Clause

	for key, raw := range params {
		if spec, ok := Lookup(key); ok {
			switch spec.Kind {
			case KindBoolean:
				v, err := strconv.ParseBool(raw)
				if err != nil {
					verr.Add(key, "must be a boolean")
					continue
				}
				bools = append(bools, Clause{
					Field:       key,
					Op:          OpEq,
					Value:       domain.BoolFeature(v),
					MatchAbsent: !v,
				})
			case KindStringEnum:
				// Enum membership is not validated here; the store's own
				// data is authoritative and unknown values match nothing.
				enums = append(enums, Clause{Field: key, Op: OpEq, Value: domain.StringFeature(raw)})
			case KindIntegerRange, KindYearRange:
				if !spec.Allows(OpEq) {
					continue
				}
				if c, ok := rangeClause(key, OpEq, raw); ok {
					ranges = append(ranges, c)
				}
			}
			continue
		}

		base, op, ok := splitBound(key)
		if !ok {
			continue
		}
		spec, ok := Lookup(base)
		if !ok || (spec.Kind != KindIntegerRange && spec.Kind != KindYearRange) || !spec.Allows(op) {
			continue
		}
		if c, ok := rangeClause(base, op, raw); ok {
			ranges = append(ranges, c)
		}
	}

	if !verr.Empty() {
		return nil, verr
	}

	clauses := make([]Clause, 0, len(bools)+len(ranges)+len(enums))
	clauses = append(clauses, bools...)
	clauses = append(clauses, ranges...)
	clauses = append(clauses, enums...)
	return clauses, nil
}

func rangeClause(field string, op Operator, raw string) (Clause, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return Clause{}, false
	}
	return Clause{Field: field, Op: op, Value: domain.IntFeature(v)}, true
}

// splitBound maps minArea -> (area, gte) and maxYearBuilt -> (yearBuilt, lte).
func splitBound(key string) (string, Operator, bool) {
	var rest string
	var op Operator
	switch {
	case strings.HasPrefix(key, "min"):
		rest, op = key[3:], OpGte
	case strings.HasPrefix(key, "max"):
		rest, op = key[3:], OpLte
	default:
		return "", "", false
	}
	if rest == "" {
		return "", "", false
	}
	r := []rune(rest)
	r[0] = unicode.ToLower(r[0])
	return string(r), op, true
}
