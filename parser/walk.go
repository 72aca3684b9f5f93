package parser

// Walk traverses the tree rooted at n in depth-first pre-order, calling fn
// for every node. When fn returns false the children of that node are
// skipped.
func Walk(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range Children(n) {
		Walk(c, fn)
	}
}

// Children returns the direct child nodes of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(c Node) {
		if c != nil {
			out = append(out, c)
		}
	}
	addBlock := func(b *Block) {
		if b != nil {
			out = append(out, b)
		}
	}
	addFormals := func(fs []*Formal) {
		for _, f := range fs {
			if f.Default != nil {
				out = append(out, f.Default)
			}
		}
	}

	switch n := n.(type) {
	case *Program:
		for _, s := range n.Statements {
			add(s)
		}
	case *VectorLit:
		for _, e := range n.Elements {
			add(e)
		}
	case *IndexExpr:
		add(n.Base)
		add(n.Index)
	case *MemberExpr:
		add(n.Base)
	case *CallExpr:
		add(n.Fn)
		for _, a := range n.Args {
			add(a.Value)
		}
	case *UnaryExpr:
		add(n.Operand)
	case *BinaryExpr:
		add(n.Left)
		add(n.Right)
	case *AssignExpr:
		add(n.Target)
		add(n.Value)
	case *FuncLit:
		addFormals(n.Formals)
		addBlock(n.Body)
	case *ExprStmt:
		add(n.Expr)
	case *Block:
		for _, s := range n.Statements {
			add(s)
		}
	case *IfStmt:
		add(n.Cond)
		addBlock(n.Then)
		addBlock(n.Else)
	case *ForStmt:
		add(n.Seq)
		addBlock(n.Body)
	case *WhileStmt:
		add(n.Cond)
		addBlock(n.Body)
	case *ReturnStmt:
		if n.Value != nil {
			add(n.Value)
		}
	case *FuncDef:
		if n.Func != nil {
			out = append(out, n.Func)
		}
	case *ClassDef:
		addFormals(n.Fields)
		for _, m := range n.Methods {
			out = append(out, m)
		}
	}
	return out
}
