package interp

import (
	"fmt"
	"strings"

	"github.com/chazu/tilde/parser"
	"github.com/chazu/tilde/value"
)

// ---------------------------------------------------------------------------
// Classes and objects
// ---------------------------------------------------------------------------

// TypeClass is the type name of class values.
const TypeClass = "Class"

// Class is a user-defined record type with methods. Calling a class
// constructs an object; the arguments are matched to the fields the way
// call arguments are matched to formals.
type Class struct {
	name    string
	base    *Class
	fields  []*parser.Formal
	methods map[string]*parser.FuncLit
	env     *Environment
}

func (in *Interpreter) defineClass(n *parser.ClassDef, env *Environment) *Class {
	cls := &Class{
		name:    n.Name,
		fields:  n.Fields,
		methods: make(map[string]*parser.FuncLit, len(n.Methods)),
		env:     env,
	}
	// A base that is not a user class, such as Object, adds nothing.
	if n.Base != "" {
		if v, err := env.Lookup(n.Base); err == nil {
			cls.base, _ = v.Value().(*Class)
		}
		if cls.base == nil {
			log.Debugf("class %s: base %s is not a user class", n.Name, n.Base)
		}
	}
	for _, m := range n.Methods {
		cls.methods[m.Name] = m.Func
	}
	log.Debugf("defined class %s with %d fields", cls.name, len(cls.allFields()))
	return cls
}

// Name returns the class name.
func (c *Class) Name() string { return c.name }

func (c *Class) Type() string   { return TypeClass }
func (c *Class) String() string { return "<class " + c.name + ">" }

// allFields lists the fields of the base classes first.
func (c *Class) allFields() []*parser.Formal {
	if c.base == nil {
		return c.fields
	}
	return append(append([]*parser.Formal(nil), c.base.allFields()...), c.fields...)
}

// method finds a method on the class or its bases.
func (c *Class) method(name string) (*parser.FuncLit, bool) {
	for k := c; k != nil; k = k.base {
		if m, ok := k.methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}

func (in *Interpreter) construct(c *Class, args []argValue) (value.Value, error) {
	fields := c.allFields()
	slots := make([]slot, len(fields))
	for i, f := range fields {
		slots[i] = slot{name: f.Name, ellipsis: f.Ellipsis}
	}
	vals, filled, err := matchArgs(c.name, slots, args)
	if err != nil {
		return nil, err
	}

	obj := &Object{class: c, vars: make(map[string]*value.Variable, len(fields))}
	for i, f := range fields {
		variable := value.NewVariable(f.Name, value.Null)
		if f.Type != nil {
			variable = value.NewDeclaredVariable(f.Name, f.Type)
		}
		obj.vars[f.Name] = variable
		obj.order = append(obj.order, f.Name)
		if filled[i] {
			if err := variable.Set(vals[i]); err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
	}

	// Field defaults see the fields bound so far.
	scope := obj.scope(c.env)
	for i, f := range fields {
		if filled[i] || f.Default == nil {
			continue
		}
		v, err := in.eval(f.Default, scope)
		if err != nil {
			return nil, err
		}
		if err := obj.vars[f.Name].Set(byValue(v)); err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
	}
	return obj, nil
}

// Object is an instance of a Class. Objects are shared, not copied, when
// assigned or passed.
type Object struct {
	class *Class
	vars  map[string]*value.Variable
	order []string
}

// Class returns the object's class.
func (o *Object) Class() *Class { return o.class }

func (o *Object) Type() string { return o.class.name }

func (o *Object) String() string {
	parts := make([]string, len(o.order))
	for i, name := range o.order {
		v := o.vars[name].Value()
		if r, err := value.Resolve(v); err == nil {
			v = r
		}
		parts[i] = name + " = " + v.String()
	}
	return o.class.name + "(" + strings.Join(parts, ", ") + ")"
}

// Member implements value.MemberHolder. An object's fields are those of
// its class; naming any other member fails.
func (o *Object) Member(name string) (*value.Variable, error) {
	if v, ok := o.vars[name]; ok {
		return v, nil
	}
	return nil, errorf(ErrUndefinedVariable, "%s has no field %q", o.class.name, name)
}

// Method implements value.MethodHolder.
func (o *Object) Method(name string) (value.Value, bool) {
	fn, ok := o.class.method(name)
	if !ok {
		return nil, false
	}
	return &Closure{name: o.class.name + "." + name, fn: fn, env: o.class.env, self: o}, true
}

// scope returns a scope whose variables are the object's fields.
func (o *Object) scope(parent *Environment) *Environment {
	return newTableScope(parent, o.vars, o.order)
}
