package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type FeatureKind int

const (
	FeatureKindBool FeatureKind = iota
	FeatureKindInt
	FeatureKindString
)

// FeatureValue is one value in a property's feature bag. A key that is not
// present in the bag is "unset", which is not the same as an explicit false.
type FeatureValue struct {
	Kind FeatureKind
	Bool bool
	Int  int64
	Str  string
}

func BoolFeature(v bool) FeatureValue   { return FeatureValue{Kind: FeatureKindBool, Bool: v} }
func IntFeature(v int64) FeatureValue   { return FeatureValue{Kind: FeatureKindInt, Int: v} }
func StringFeature(v string) FeatureValue {
	return FeatureValue{Kind: FeatureKindString, Str: v}
}

func (v FeatureValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case FeatureKindBool:
		return json.Marshal(v.Bool)
	case FeatureKindInt:
		return json.Marshal(v.Int)
	case FeatureKindString:
		return json.Marshal(v.Str)
	}
	return nil, fmt.Errorf("unknown feature kind %d", v.Kind)
}

func (v *FeatureValue) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*v = BoolFeature(b)
		return nil
	}
	var i int64
	if err := json.Unmarshal(data, &i); err == nil {
		*v = IntFeature(i)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = StringFeature(s)
		return nil
	}
	return fmt.Errorf("unsupported feature value: %s", string(data))
}

// FeatureBag is the open set of amenity and structural facts attached to a
// property. Stored as a single jsonb column.
type FeatureBag map[string]FeatureValue

func (b FeatureBag) Value() (driver.Value, error) {
	if b == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(b)
}

func (b *FeatureBag) Scan(src interface{}) error {
	if src == nil {
		*b = FeatureBag{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into FeatureBag", src)
	}
	return json.Unmarshal(data, b)
}
