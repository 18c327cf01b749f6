package ast

import (
	"github.com/xlab/treeprint"
)

// Dump renders an AST subtree as an indented tree, generalizing the
// teacher's bespoke string-concatenation printer (internal/ast/print.go)
// into a real tree-drawing library (SPEC_FULL DOMAIN STACK).
func Dump(n Node) string {
	tree := treeprint.New()
	addNode(tree, n)
	return tree.String()
}

func addNode(tree treeprint.Tree, n Node) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *Body:
		branch := tree.AddBranch("Body")
		for _, e := range v.Expressions {
			addNode(branch, e)
		}
	case *Send:
		branch := tree.AddBranch("Send " + v.Name)
		if v.Receiver != nil {
			addNode(branch.AddBranch("receiver"), v.Receiver)
		}
		for _, a := range v.Arguments {
			addNode(branch.AddBranch("arg"), a)
		}
	case *Object:
		branch := tree.AddBranch("Object " + v.Name)
		for _, m := range v.Body {
			addNode(branch, m)
		}
	case *Trait:
		branch := tree.AddBranch("Trait " + v.Name)
		for _, m := range v.Body {
			addNode(branch, m)
		}
	case *Method:
		branch := tree.AddBranch("Method " + v.Name)
		if v.Body != nil {
			addNode(branch, v.Body)
		}
	case *Try:
		branch := tree.AddBranch("Try")
		addNode(branch.AddBranch("body"), v.Body)
		if v.Else != nil {
			addNode(branch.AddBranch("else"), v.Else.Body)
		}
	case *Match:
		branch := tree.AddBranch("Match")
		addNode(branch.AddBranch("scrutinee"), v.Scrutinee)
		for _, arm := range v.Arms {
			addNode(branch.AddBranch(arm.Pattern.String()), arm.Body)
		}
	default:
		tree.AddNode(n.String())
	}
}
