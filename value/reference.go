package value

// Reference is the value of &x: a live view of another variable.
type Reference struct {
	target *Variable
}

// NewReference returns a reference to target.
func NewReference(target *Variable) *Reference {
	return &Reference{target: target}
}

// Target returns the referenced variable.
func (r *Reference) Target() *Variable { return r.target }

func (r *Reference) Type() string {
	if cur, err := Resolve(r.target.Value()); err == nil {
		return cur.Type()
	}
	return TypeObject
}

func (r *Reference) String() string {
	if cur, err := Resolve(r.target.Value()); err == nil {
		return cur.String()
	}
	return "&" + r.target.Name()
}

// Current implements Node.
func (r *Reference) Current() (Value, error) {
	return r.target.Value(), nil
}

// SetCurrent writes through to the referenced variable.
func (r *Reference) SetCurrent(v Value) error {
	return r.target.Set(v)
}

// Name implements Named.
func (r *Reference) Name() string { return r.target.Name() }

// SetName is a no-op: a reference is named after its target.
func (r *Reference) SetName(string) {}
