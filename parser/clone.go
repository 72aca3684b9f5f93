package parser

import "reflect"

// ---------------------------------------------------------------------------
// Clone and Substitute
// ---------------------------------------------------------------------------

var constantType = reflect.TypeOf(Constant{})

// Clone returns a structural deep copy of the tree rooted at n. The copy
// shares nothing with the original except Constant payloads, which are
// immutable runtime values.
func Clone[T Node](n T) T {
	v := reflect.ValueOf(n)
	if !v.IsValid() {
		return n
	}
	return deepCopy(v).Interface().(T)
}

func deepCopy(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Pointer:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		cp := reflect.New(v.Type().Elem())
		cp.Elem().Set(deepCopy(v.Elem()))
		return cp

	case reflect.Interface:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		cp := reflect.New(v.Type()).Elem()
		cp.Set(deepCopy(v.Elem()))
		return cp

	case reflect.Slice:
		if v.IsNil() {
			return reflect.Zero(v.Type())
		}
		cp := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		for i := 0; i < v.Len(); i++ {
			cp.Index(i).Set(deepCopy(v.Index(i)))
		}
		return cp

	case reflect.Struct:
		cp := reflect.New(v.Type()).Elem()
		cp.Set(v)
		if v.Type() == constantType {
			return cp
		}
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue
			}
			cp.Field(i).Set(deepCopy(v.Field(i)))
		}
		return cp
	}
	return v
}

// Substitute returns a copy of the tree rooted at n in which every free
// reference to name is replaced by a Constant holding c. The input tree is
// not modified.
//
// A function literal or definition with a formal called name shadows it,
// so its body is left alone. The root identifier of an assignment target
// is a binding site, not a reference, and is kept; index expressions inside
// the target are still rewritten.
func Substitute[T Node](n T, name string, c any) T {
	cp := Clone(n)
	s := &substituter{name: name, value: c}
	if e, ok := any(cp).(Expr); ok {
		if r, ok := s.expr(e).(T); ok {
			return r
		}
		return cp
	}
	s.node(cp)
	return cp
}

type substituter struct {
	name  string
	value any
}

func (s *substituter) constant(id *Ident) Expr {
	return &Constant{SpanVal: id.SpanVal, Value: s.value}
}

// expr rewrites e in place and returns its replacement.
func (s *substituter) expr(e Expr) Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *Ident:
		if e.Name == s.name {
			return s.constant(e)
		}
	case *VectorLit:
		for i, el := range e.Elements {
			e.Elements[i] = s.expr(el)
		}
	case *IndexExpr:
		e.Base = s.expr(e.Base)
		e.Index = s.expr(e.Index)
	case *MemberExpr:
		e.Base = s.expr(e.Base)
	case *CallExpr:
		e.Fn = s.expr(e.Fn)
		for _, a := range e.Args {
			a.Value = s.expr(a.Value)
		}
	case *UnaryExpr:
		e.Operand = s.expr(e.Operand)
	case *BinaryExpr:
		e.Left = s.expr(e.Left)
		e.Right = s.expr(e.Right)
	case *AssignExpr:
		e.Target = s.target(e.Target)
		e.Value = s.expr(e.Value)
	case *FuncLit:
		s.function(e)
	}
	return e
}

// target rewrites the non-binding parts of an assignment target.
func (s *substituter) target(e Expr) Expr {
	switch e := e.(type) {
	case *Ident:
		return e
	case *IndexExpr:
		e.Base = s.target(e.Base)
		e.Index = s.expr(e.Index)
		return e
	case *MemberExpr:
		e.Base = s.expr(e.Base)
		return e
	}
	return s.expr(e)
}

func (s *substituter) function(f *FuncLit) {
	for _, formal := range f.Formals {
		if formal.Name == s.name {
			return
		}
	}
	for _, formal := range f.Formals {
		formal.Default = s.expr(formal.Default)
	}
	s.block(f.Body)
}

func (s *substituter) block(b *Block) {
	if b == nil {
		return
	}
	for _, st := range b.Statements {
		s.node(st)
	}
}

func (s *substituter) node(n Node) {
	switch n := n.(type) {
	case *Program:
		for _, st := range n.Statements {
			s.node(st)
		}
	case *Block:
		s.block(n)
	case *ExprStmt:
		n.Expr = s.expr(n.Expr)
	case *IfStmt:
		n.Cond = s.expr(n.Cond)
		s.block(n.Then)
		s.block(n.Else)
	case *ForStmt:
		n.Seq = s.expr(n.Seq)
		s.block(n.Body)
	case *WhileStmt:
		n.Cond = s.expr(n.Cond)
		s.block(n.Body)
	case *ReturnStmt:
		n.Value = s.expr(n.Value)
	case *FuncDef:
		s.function(n.Func)
	case *ClassDef:
		for _, m := range n.Methods {
			s.function(m.Func)
		}
	}
}
