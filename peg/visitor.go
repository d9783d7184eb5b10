// Copyright 2020 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package peg

import "errors"

// VisitFunc transforms one node into a user value, given the already-
// visited values of its children in left-to-right order.
type VisitFunc func(n *Node, children []interface{}) (interface{}, error)

// ErrNoHandler is returned by the default generic handler when a node's
// rule has no registered VisitFunc and no generic override was set.
var ErrNoHandler = errors.New("peg: no visitor handler defined for this rule")

// Visitor walks a parse tree depth-first, left-to-right, post-order,
// dispatching each node to the VisitFunc registered for its rule name.
// The zero Visitor has no handlers and an empty unwrapped-errors set; use
// NewVisitor for a visitor with the default generic fallback.
type Visitor struct {
	handlers  map[string]VisitFunc
	generic   VisitFunc
	unwrapped map[error]bool
}

// NewVisitor returns a Visitor whose generic fallback returns ErrNoHandler
// for any node whose rule has no registered handler.
func NewVisitor() *Visitor {
	return &Visitor{
		handlers:  make(map[string]VisitFunc),
		generic:   func(n *Node, children []interface{}) (interface{}, error) { return nil, ErrNoHandler },
		unwrapped: make(map[error]bool),
	}
}

// On registers fn as the handler for rule. It replaces any handler
// previously registered for the same name.
func (v *Visitor) On(rule string, fn VisitFunc) *Visitor {
	v.handlers[rule] = fn
	return v
}

// Generic overrides the fallback invoked for nodes whose rule has no
// registered handler (including anonymous nodes, whose RuleName is empty).
func (v *Visitor) Generic(fn VisitFunc) *Visitor {
	v.generic = fn
	return v
}

// Unwrap marks err (compared with errors.Is) as passing through Visit
// verbatim instead of being wrapped in a *VisitationError, letting callers
// raise their own sentinel errors from a handler without obscuring them.
func (v *Visitor) Unwrap(err error) *Visitor {
	v.unwrapped[err] = true
	return v
}

// Visit walks the tree rooted at n and returns the root handler's result.
func (v *Visitor) Visit(n *Node) (interface{}, error) {
	value, err := v.visit(n, n)
	if err != nil {
		return nil, v.wrap(n, n, err)
	}
	return value, nil
}

func (v *Visitor) visit(root, n *Node) (value interface{}, err error) {
	children := make([]interface{}, len(n.Children))
	for i, c := range n.Children {
		value, err := v.visit(root, c)
		if err != nil {
			return nil, v.wrap(root, c, err)
		}
		children[i] = value
	}
	handler, ok := v.handlers[n.RuleName]
	if !ok || n.RuleName == "" {
		handler = v.generic
	}
	return handler(n, children)
}

// wrap leaves already-wrapped VisitationErrors and allow-listed errors
// untouched, and wraps everything else with positional context.
func (v *Visitor) wrap(root, n *Node, err error) error {
	var ve *VisitationError
	if errors.As(err, &ve) {
		return err
	}
	for allowed := range v.unwrapped {
		if errors.Is(err, allowed) {
			return err
		}
	}
	return &VisitationError{Err: err, Node: n, Root: root}
}

// LiftChild is a VisitFunc suitable for registration against any rule whose
// production always has exactly one child, returning that child's value
// unchanged. It panics if n has a number of children other than one, since
// that indicates the grammar and the registration have drifted apart.
func LiftChild(n *Node, children []interface{}) (interface{}, error) {
	if len(children) != 1 {
		panic("peg: LiftChild registered against a rule that did not produce exactly one child")
	}
	return children[0], nil
}
