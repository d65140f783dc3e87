package fiscal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInvalidInput is returned by setters when a value violates a static constraint.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingRequiredField is returned by Serialize when required fields were never set.
	ErrMissingRequiredField = errors.New("missing required field")
)

// InvalidInputError describes a value rejected by a setter.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}

func invalid(field, format string, args ...any) error {
	return &InvalidInputError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// MissingFieldsError lists every required field that was unset when an entity
// was serialized. Nested entities report dotted paths, e.g. "items[0].vat".
type MissingFieldsError struct {
	Entity string
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: missing required fields: %s", e.Entity, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrMissingRequiredField
}

type serializer interface {
	Serialize() (Fields, error)
}

// requirements collects missing fields while an entity serializes itself.
type requirements struct {
	entity  string
	missing []string
	failure error
}

func (r *requirements) need(present bool, field string) {
	if !present {
		r.missing = append(r.missing, field)
	}
}

// nested serializes a child entity, recording its missing fields under path.
func (r *requirements) nested(path string, s serializer) Fields {
	fields, err := s.Serialize()
	if err == nil {
		return fields
	}

	var mf *MissingFieldsError
	if errors.As(err, &mf) {
		for _, f := range mf.Fields {
			r.missing = append(r.missing, path+"."+f)
		}
		return nil
	}

	if r.failure == nil {
		r.failure = fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func (r *requirements) err() error {
	if r.failure != nil {
		return r.failure
	}
	if len(r.missing) == 0 {
		return nil
	}
	return &MissingFieldsError{Entity: r.entity, Fields: r.missing}
}
