package docs

import (
	"strings"
	"testing"
)

func TestTopicsAreReadable(t *testing.T) {
	t.Parallel()

	topics := Topics()
	if len(topics) == 0 {
		t.Fatalf("expected embedded topics")
	}
	for _, topic := range topics {
		body, ok := Get(topic)
		if !ok || strings.TrimSpace(body) == "" {
			t.Fatalf("topic %q unreadable", topic)
		}
	}
	if _, ok := Get("Format"); !ok {
		t.Fatalf("topic lookup should be case-insensitive")
	}
	if _, ok := Get("nope"); ok {
		t.Fatalf("unexpected topic")
	}
}
