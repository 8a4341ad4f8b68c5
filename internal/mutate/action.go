// Package mutate maps edit gestures onto tree operations.
package mutate

import (
	"strings"

	"treeedit-cli/internal/model"
)

type EditAction int

const (
	AddSibling EditAction = iota + 1
	AddChild
	Delete
)

var actionNames = map[EditAction]string{
	AddSibling: "add-sibling",
	AddChild:   "add-child",
	Delete:     "delete",
}

func (a EditAction) String() string {
	if s, ok := actionNames[a]; ok {
		return s
	}
	return "unknown"
}

// Actions lists every action in a stable order.
func Actions() []EditAction {
	return []EditAction{AddSibling, AddChild, Delete}
}

func ParseEditAction(s string) (EditAction, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.ReplaceAll(k, "_", "-")
	for a, name := range actionNames {
		if name == k {
			return a, nil
		}
	}
	return 0, UnknownActionError{Action: s}
}

func (a EditAction) MarshalText() ([]byte, error) {
	if _, ok := actionNames[a]; !ok {
		return nil, UnknownActionError{Action: a.String()}
	}
	return []byte(a.String()), nil
}

func (a *EditAction) UnmarshalText(b []byte) error {
	v, err := ParseEditAction(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

type Result struct {
	Action EditAction    `json:"action"`
	Ref    model.NodeRef `json:"ref"`
	// Created is the new node for add actions; empty for Delete.
	Created model.NodeRef `json:"created,omitempty"`
}

type handler func(t *model.Tree, ref model.NodeRef) (model.NodeRef, error)

// The empty ref is the tree container: adding a child to it appends a
// top-level node, while it has no siblings and cannot be deleted.
var handlers = map[EditAction]handler{
	AddSibling: func(t *model.Tree, ref model.NodeRef) (model.NodeRef, error) {
		if ref == "" {
			return "", model.InvalidRef(ref)
		}
		return t.AddSibling(ref)
	},
	AddChild: func(t *model.Tree, ref model.NodeRef) (model.NodeRef, error) {
		if ref == "" {
			return t.AppendNode(), nil
		}
		return t.AddChild(ref)
	},
	Delete: func(t *model.Tree, ref model.NodeRef) (model.NodeRef, error) {
		return "", t.Delete(ref)
	},
}

// Apply runs one edit action. Callers re-render afterwards; the tree does not
// notify anyone.
func Apply(t *model.Tree, action EditAction, ref model.NodeRef) (Result, error) {
	h, ok := handlers[action]
	if !ok {
		return Result{}, UnknownActionError{Action: action.String()}
	}
	created, err := h(t, ref)
	if err != nil {
		return Result{}, err
	}
	return Result{Action: action, Ref: ref, Created: created}, nil
}
