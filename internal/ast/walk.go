package ast

// Visitor is implemented by callers of Walk. Visit is invoked for a node
// before its children; if it returns a non-nil Visitor, Walk continues to
// the node's children with that (possibly different) Visitor. Returning nil
// stops descent into the current node's children.
type Visitor interface {
	Visit(node Node) Visitor
}

// Walk traverses a syntax tree in depth-first order, calling v.Visit for
// every node reached. A nil node is ignored.
func Walk(v Visitor, node Node) {
	if node == nil || isNilNode(node) {
		return
	}
	v = v.Visit(node)
	if v == nil {
		return
	}

	switch n := node.(type) {
	case *Chunk:
		walkStmts(v, n.Body)
	case *Identifier, *StringLiteral, *NumericLiteral, *BooleanLiteral,
		*NilLiteral, *VarargLiteral, *BreakStatement, *LabelStatement,
		*GotoStatement:
		// leaf nodes

	case *TableKey:
		Walk(v, n.Key)
		Walk(v, n.Value)
	case *TableKeyString:
		Walk(v, n.Key)
		Walk(v, n.Value)
	case *TableValue:
		Walk(v, n.Value)
	case *TableConstructorExpression:
		for _, f := range n.Fields {
			Walk(v, f)
		}
	case *MemberExpression:
		Walk(v, n.Object)
		Walk(v, n.Identifier)
	case *IndexExpression:
		Walk(v, n.Object)
		Walk(v, n.Index)
	case *CallExpression:
		Walk(v, n.Callee)
		for _, a := range n.Arguments {
			Walk(v, a)
		}
	case *BinaryExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *LogicalExpression:
		Walk(v, n.Left)
		Walk(v, n.Right)
	case *UnaryExpression:
		Walk(v, n.Argument)
	case *FunctionExpression:
		for _, p := range n.Parameters {
			Walk(v, p)
		}
		walkStmts(v, n.Body)

	case *LocalStatement:
		for _, e := range n.Init {
			Walk(v, e)
		}
		for _, name := range n.Names {
			Walk(v, name)
		}
	case *AssignmentStatement:
		for _, e := range n.Init {
			Walk(v, e)
		}
		for _, t := range n.Targets {
			Walk(v, t)
		}
	case *CallStatement:
		Walk(v, n.Call)
	case *ReturnStatement:
		for _, a := range n.Arguments {
			Walk(v, a)
		}
	case *IfClause:
		if n.Condition != nil {
			Walk(v, n.Condition)
		}
		walkStmts(v, n.Body)
	case *IfStatement:
		for _, c := range n.Clauses {
			Walk(v, c)
		}
	case *WhileStatement:
		Walk(v, n.Condition)
		walkStmts(v, n.Body)
	case *RepeatStatement:
		walkStmts(v, n.Body)
		Walk(v, n.Condition)
	case *DoStatement:
		walkStmts(v, n.Body)
	case *FunctionDeclaration:
		if n.Identifier != nil {
			Walk(v, n.Identifier)
		}
		for _, p := range n.Parameters {
			Walk(v, p)
		}
		walkStmts(v, n.Body)
	case *ForNumericStatement:
		Walk(v, n.Start)
		Walk(v, n.Stop)
		if n.Step != nil {
			Walk(v, n.Step)
		}
		Walk(v, n.Variable)
		walkStmts(v, n.Body)
	case *ForGenericStatement:
		for _, it := range n.Iterators {
			Walk(v, it)
		}
		for _, name := range n.Names {
			Walk(v, name)
		}
		walkStmts(v, n.Body)
	default:
		// unknown node kind: nothing further to walk
	}
}

func walkStmts(v Visitor, body []Statement) {
	for _, s := range body {
		Walk(v, s)
	}
}

// isNilNode guards against typed-nil interface values (e.g. a nil
// *Identifier stored in an Expression field), which are non-nil as
// interfaces but panic on method dispatch in some cases and should simply
// be skipped by Walk.
func isNilNode(node Node) bool {
	switch n := node.(type) {
	case *Identifier:
		return n == nil
	case *MemberExpression:
		return n == nil
	case *CallExpression:
		return n == nil
	}
	return false
}
