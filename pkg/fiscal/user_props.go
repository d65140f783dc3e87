package fiscal

// AdditionalUserProps is a free-form name/value pair printed on the receipt.
type AdditionalUserProps struct {
	name  string
	value string
}

// NewAdditionalUserProps validates both parts of the property.
func NewAdditionalUserProps(name, value string) (*AdditionalUserProps, error) {
	p := &AdditionalUserProps{}
	if err := p.SetName(name); err != nil {
		return nil, err
	}
	if err := p.SetValue(value); err != nil {
		return nil, err
	}
	return p, nil
}

// Name returns the property name.
func (p *AdditionalUserProps) Name() string {
	return p.name
}

// SetName sets the property name, at most 64 characters.
func (p *AdditionalUserProps) SetName(name string) error {
	if err := checkLength("additional user property name", name, 64); err != nil {
		return err
	}
	p.name = name
	return nil
}

// Value returns the property value.
func (p *AdditionalUserProps) Value() string {
	return p.value
}

// SetValue sets the property value, at most 256 characters.
func (p *AdditionalUserProps) SetValue(value string) error {
	if err := checkLength("additional user property value", value, 256); err != nil {
		return err
	}
	p.value = value
	return nil
}

// Serialize implements the wire form {name, value}.
func (p *AdditionalUserProps) Serialize() (Fields, error) {
	r := requirements{entity: "additional_user_props"}
	r.need(p.name != "", "name")
	r.need(p.value != "", "value")
	if err := r.err(); err != nil {
		return nil, err
	}

	var f Fields
	f.set("name", p.name)
	f.set("value", p.value)
	return f, nil
}
