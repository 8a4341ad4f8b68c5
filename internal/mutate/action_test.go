package mutate

import (
	"encoding/json"
	"errors"
	"testing"

	"treeedit-cli/internal/model"
	"treeedit-cli/internal/render"
)

func TestApply_BuildsTreeFromContainer(t *testing.T) {
	t.Parallel()

	tr := model.NewTree("proj")
	res, err := Apply(tr, AddChild, "")
	if err != nil {
		t.Fatalf("add-child on container: %v", err)
	}
	if res.Created == "" || res.Action != AddChild {
		t.Fatalf("unexpected result: %+v", res)
	}
	_ = tr.SetLabel(res.Created, "src")

	kid, err := Apply(tr, AddChild, res.Created)
	if err != nil {
		t.Fatalf("add-child: %v", err)
	}
	_ = tr.SetLabel(kid.Created, "main.go")

	sib, err := Apply(tr, AddSibling, kid.Created)
	if err != nil {
		t.Fatalf("add-sibling: %v", err)
	}
	_ = tr.SetLabel(sib.Created, "util.go")

	top, err := Apply(tr, AddSibling, res.Created)
	if err != nil {
		t.Fatalf("add-sibling top: %v", err)
	}
	_ = tr.SetLabel(top.Created, "README.md")

	want := "proj\n|-- src\n|   |-- main.go\n|   `-- util.go\n`-- README.md\n"
	if got := render.Render(tr); got != want {
		t.Fatalf("render mismatch:\n got: %q\nwant: %q", got, want)
	}

	del, err := Apply(tr, Delete, res.Created)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if del.Created != "" {
		t.Fatalf("delete should not create: %+v", del)
	}
	if got := render.Render(tr); got != "proj\n`-- README.md\n" {
		t.Fatalf("after delete: %q", got)
	}
}

func TestApply_ContainerRejectsSiblingAndDelete(t *testing.T) {
	t.Parallel()

	tr := model.NewTree("r")
	for _, a := range []EditAction{AddSibling, Delete} {
		if _, err := Apply(tr, a, ""); !errors.Is(err, model.ErrInvalidReference) {
			t.Fatalf("%s on container: expected invalid reference, got %v", a, err)
		}
	}
}

func TestApply_InvalidReferenceLeavesTreeUntouched(t *testing.T) {
	t.Parallel()

	tr := model.NewTree("r")
	tr.AppendNode()
	before := render.Render(tr)
	for _, a := range Actions() {
		if _, err := Apply(tr, a, "node-404"); !errors.Is(err, model.ErrInvalidReference) {
			t.Fatalf("%s: expected invalid reference, got %v", a, err)
		}
	}
	if got := render.Render(tr); got != before {
		t.Fatalf("tree changed: %q -> %q", before, got)
	}
}

func TestApply_UnknownAction(t *testing.T) {
	t.Parallel()

	_, err := Apply(model.NewTree("r"), EditAction(42), "")
	var ua UnknownActionError
	if !errors.As(err, &ua) {
		t.Fatalf("expected UnknownActionError, got %v", err)
	}
}

func TestParseEditAction(t *testing.T) {
	t.Parallel()

	for _, a := range Actions() {
		got, err := ParseEditAction(a.String())
		if err != nil || got != a {
			t.Fatalf("round trip %s: got %v, %v", a, got, err)
		}
	}
	if got, err := ParseEditAction(" ADD_CHILD "); err != nil || got != AddChild {
		t.Fatalf("expected AddChild, got %v, %v", got, err)
	}
	if _, err := ParseEditAction("rename"); err == nil {
		t.Fatalf("expected error for unknown action")
	}
}

func TestResultJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Result{Action: AddSibling, Ref: "node-1", Created: "node-2"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"action":"add-sibling","ref":"node-1","created":"node-2"}`
	if string(b) != want {
		t.Fatalf("got %s want %s", b, want)
	}
}
