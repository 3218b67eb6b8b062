package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/neersetu/neersetu/internal/model"
)

// fakeBackend returns a canned response or error.
type fakeBackend struct {
	response string
	err      error
	calls    int
}

func (b *fakeBackend) Name() string { return "fake" }

func (b *fakeBackend) Generate(_ context.Context, _, _ string) (string, error) {
	b.calls++
	if b.err != nil {
		return "", b.err
	}
	return b.response, nil
}

func (b *fakeBackend) IsAvailable(_ context.Context) bool { return b.err == nil }

func sampleBundle() model.EvidenceBundle {
	return model.EvidenceBundle{
		Fragments: []string{
			"Stage for Block B in 2022: Safe (level 9.70 m).",
		},
		TableMarkdown: tableHeader + "\n2022 | 9.70",
		Citations: []string{
			"Source: SQLite gw_levels; Year: 2022",
			"Doc: glossary.txt",
			"Doc: glossary.txt", // duplicate, must collapse
		},
	}
}

func TestCompose_Deterministic(t *testing.T) {
	c := NewComposer(nil)

	out := c.Compose(context.Background(), sampleBundle(), "stage for Block B in 2022")

	if !strings.HasPrefix(out, "**Answer**") {
		t.Errorf("Expected **Answer** heading, got %q", out)
	}
	if !strings.Contains(out, "Stage for Block B in 2022") {
		t.Errorf("Expected fragment in output, got %q", out)
	}
	if !strings.Contains(out, "**Tiny table**") {
		t.Errorf("Expected tiny table block, got %q", out)
	}
	if !strings.Contains(out, "**Citations:** Doc: glossary.txt | Source: SQLite gw_levels; Year: 2022") {
		t.Errorf("Expected sorted deduplicated footer, got %q", out)
	}
	if strings.Count(out, "**Citations:**") != 1 {
		t.Errorf("Expected exactly one footer, got %q", out)
	}
}

func TestCompose_DeterministicSkipsTableWhenFragmentHasIt(t *testing.T) {
	c := NewComposer(nil)
	bundle := model.EvidenceBundle{
		Fragments:     []string{"Comparison:\n" + tableHeader + "\n2019 | 14.70\n2024 | 18.40"},
		TableMarkdown: tableHeader + "\n2019 | 14.70\n2024 | 18.40",
	}

	out := c.Compose(context.Background(), bundle, "compare")
	if strings.Contains(out, "**Tiny table**") {
		t.Errorf("Table already rendered in a fragment, must not repeat: %q", out)
	}
}

func TestCompose_BackendDriven(t *testing.T) {
	backend := &fakeBackend{response: "Block B is Safe as of 2022.\nSource: something the model made up\nLevels are stable."}
	c := NewComposer(backend)

	out := c.Compose(context.Background(), sampleBundle(), "stage for Block B in 2022")

	if strings.Contains(out, "something the model made up") {
		t.Errorf("Expected inline Source line removed, got %q", out)
	}
	if !strings.Contains(out, "**Tiny table**") {
		t.Errorf("Expected table appended, got %q", out)
	}
	if strings.Count(out, "**Citations:**") != 1 {
		t.Errorf("Expected exactly one footer, got %q", out)
	}
	if !strings.HasSuffix(out, "**Citations:** Doc: glossary.txt | Source: SQLite gw_levels; Year: 2022") {
		t.Errorf("Expected footer at end, got %q", out)
	}
}

func TestCompose_BackendFailureFallsBack(t *testing.T) {
	backend := &fakeBackend{err: context.DeadlineExceeded}
	c := NewComposer(backend)

	out := c.Compose(context.Background(), sampleBundle(), "stage for Block B in 2022")

	if backend.calls != 1 {
		t.Errorf("Expected a single backend attempt (no retry), got %d", backend.calls)
	}
	if !strings.HasPrefix(out, "**Answer**") {
		t.Errorf("Expected deterministic fallback, got %q", out)
	}
}

func TestCompose_BackendTableNotDuplicated(t *testing.T) {
	backend := &fakeBackend{response: "Comparison below.\n" + tableHeader + "\n2022 | 9.70"}
	c := NewComposer(backend)

	out := c.Compose(context.Background(), sampleBundle(), "q")
	if strings.Contains(out, "**Tiny table**") {
		t.Errorf("Model already rendered the table, must not append: %q", out)
	}
}

func TestCompose_NoCitationsNoFooter(t *testing.T) {
	c := NewComposer(nil)
	bundle := model.EvidenceBundle{Fragments: []string{"insufficient data for Block Z 2015-2024"}}

	out := c.Compose(context.Background(), bundle, "q")
	if strings.Contains(out, "**Citations:**") {
		t.Errorf("Expected no footer without citations, got %q", out)
	}
}

func TestUserPrompt_EmptyBundle(t *testing.T) {
	p := userPrompt(model.EvidenceBundle{}, "anything?")
	if !strings.Contains(p, "No tool output.") {
		t.Errorf("Expected empty-evidence marker, got %q", p)
	}
	if !strings.Contains(p, "User: anything?") {
		t.Errorf("Expected raw query embedded, got %q", p)
	}
}
