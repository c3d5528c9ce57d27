package filter

// ValueKind classifies what a feature key's value looks like and therefore
// how a raw filter string for it must be parsed.
type ValueKind int

const (
	KindBoolean ValueKind = iota
	KindIntegerRange
	KindYearRange
	KindStringEnum
)

type Operator string

const (
	OpEq  Operator = "eq"
	OpGte Operator = "gte"
	OpLte Operator = "lte"
)

// KeySpec declares a recognized feature key: its value kind and the
// operators permitted on it.
type KeySpec struct {
	Kind      ValueKind
	Operators []Operator
}

func (s KeySpec) Allows(op Operator) bool {
	for _, o := range s.Operators {
		if o == op {
			return true
		}
	}
	return false
}

var (
	boolOps  = []Operator{OpEq}
	enumOps  = []Operator{OpEq}
	rangeOps = []Operator{OpEq, OpGte, OpLte}
	yearOps  = []Operator{OpGte, OpLte}
)

// schema is the single source of truth for which feature keys exist. The
// compiler fails closed: keys not listed here never become predicates.
var schema = map[string]KeySpec{
	"bedrooms":      {Kind: KindIntegerRange, Operators: rangeOps},
	"bathrooms":     {Kind: KindIntegerRange, Operators: rangeOps},
	"area":          {Kind: KindIntegerRange, Operators: rangeOps},
	"parkingSpaces": {Kind: KindIntegerRange, Operators: rangeOps},

	"yearBuilt": {Kind: KindYearRange, Operators: yearOps},

	"homeType":    {Kind: KindStringEnum, Operators: enumOps},
	"laundryType": {Kind: KindStringEnum, Operators: enumOps},
	"heatingType": {Kind: KindStringEnum, Operators: enumOps},

	"balcony":         {Kind: KindBoolean, Operators: boolOps},
	"garage":          {Kind: KindBoolean, Operators: boolOps},
	"garden":          {Kind: KindBoolean, Operators: boolOps},
	"elevator":        {Kind: KindBoolean, Operators: boolOps},
	"furnished":       {Kind: KindBoolean, Operators: boolOps},
	"petsAllowed":     {Kind: KindBoolean, Operators: boolOps},
	"airConditioning": {Kind: KindBoolean, Operators: boolOps},
	"dishwasher":      {Kind: KindBoolean, Operators: boolOps},
	"pool":            {Kind: KindBoolean, Operators: boolOps},
	"basement":        {Kind: KindBoolean, Operators: boolOps},
}

// Lookup returns the spec for a recognized feature key.
func Lookup(key string) (KeySpec, bool) {
	s, ok := schema[key]
	return s, ok
}

// Keys returns every recognized feature key. Mainly for tests and docs.
func Keys() []string {
	keys := make([]string, 0, len(schema))
	for k := range schema {
		keys = append(keys, k)
	}
	return keys
}
