package format

import (
	"bytes"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type payload struct {
	RootLabel string   `json:"rootLabel"`
	Labels    []string `json:"labels,omitempty"`
}

func TestWrite_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": payload{RootLabel: "proj"}}, "", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got, want := buf.String(), `{"data":{"rootLabel":"proj"}}`+"\n"; got != want {
		t.Fatalf("got %q want %q", got, want)
	}

	buf.Reset()
	if err := Write(&buf, payload{RootLabel: "p"}, "json", true); err != nil {
		t.Fatalf("Write pretty: %v", err)
	}
	if !strings.Contains(buf.String(), "\n  \"rootLabel\": \"p\"") {
		t.Fatalf("expected indented JSON, got %q", buf.String())
	}
}

func TestWrite_YAMLUsesJSONNames(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if err := Write(&buf, payload{RootLabel: "proj", Labels: []string{"src", "README.md"}}, "yaml", false); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var back map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &back); err != nil {
		t.Fatalf("yaml.Unmarshal: %v\n%s", err, buf.String())
	}
	if back["rootLabel"] != "proj" {
		t.Fatalf("expected rootLabel key, got %v", back)
	}
	labels, _ := back["labels"].([]any)
	if len(labels) != 2 || labels[1] != "README.md" {
		t.Fatalf("labels: %v", back["labels"])
	}
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	if err := Write(&bytes.Buffer{}, 1, "edn", false); err == nil {
		t.Fatalf("expected error")
	}
}
