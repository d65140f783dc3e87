package fiscal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// MaxAmount is the upper bound for every money and quantity value.
const MaxAmount = 99999999

const (
	timestampLayout = "02.01.2006 15:04:05"
	dateLayout      = "02.01.2006"
)

var amountLimit = decimal.NewFromInt(MaxAmount)

// Field is one key/value pair of a serialized entity.
type Field struct {
	Key   string
	Value any
}

// Fields is the wire form of an entity. It marshals to a JSON object whose
// keys keep insertion order, so equal entities always produce equal bytes.
type Fields []Field

func (f *Fields) set(key string, value any) {
	*f = append(*f, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (f Fields) Get(key string) (any, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// Keys returns the field names in wire order.
func (f Fields) Keys() []string {
	keys := make([]string, len(f))
	for i, field := range f {
		keys[i] = field.Key
	}
	return keys
}

// MarshalJSON implements json.Marshaler.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, field := range f {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := json.Marshal(field.Key)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", field.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := json.Marshal(field.Value)
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", field.Key, err)
		}
		buf.Write(value)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func checkLength(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return invalid(field, "must be at most %d characters", max)
	}
	return nil
}

func checkInn(field, value string) error {
	if n := utf8.RuneCountInString(value); n != 10 && n != 12 {
		return invalid(field, "must be 10 or 12 characters, got %d", n)
	}
	return nil
}

func checkAmount(field string, value decimal.Decimal) error {
	if value.GreaterThan(amountLimit) {
		return invalid(field, "must not exceed %d", MaxAmount)
	}
	return nil
}

// money renders a monetary value with two decimals at most.
func money(v decimal.Decimal) json.Number {
	return json.Number(v.Round(2).String())
}

// quantity renders a quantity with three decimals at most.
func quantity(v decimal.Decimal) json.Number {
	return json.Number(v.Round(3).String())
}

func serializeAll[T serializer](r *requirements, path string, items []T) []Fields {
	out := make([]Fields, 0, len(items))
	for i, item := range items {
		out = append(out, r.nested(fmt.Sprintf("%s[%d]", path, i), item))
	}
	return out
}
