package prompt

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/san-kum/collisiongen/internal/dynamo"
)

func TestBuildTemplates(t *testing.T) {
	p := params{model: "elastic", massA: 3, massB: 2, velA: 5, velB: -4, dirA: "right", dirB: "left"}

	tests := []struct {
		idx  int
		want []string
	}{
		{0, []string{"collide elastically", "Ball A (mass 3.0kg) moves right at 5.0 m/s", "Ball B (mass 2.0kg) moves left at 4.0 m/s"}},
		{1, []string{"Ball A (3.0kg, 5.0 m/s right)", "Ball B (2.0kg, 4.0 m/s left)", "an elastic collision"}},
		{2, []string{"velocity=5.0 m/s", "velocity=-4.0 m/s", "Animate"}},
		{3, []string{"Ball A (3.0kg) traveling right at 5.0 m/s", "Ball B (2.0kg) traveling left at 4.0 m/s"}},
	}

	for _, tt := range tests {
		got := templates[tt.idx](p)
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("template %d: %q missing %q", tt.idx, got, w)
			}
		}
	}
}

func TestBuildInelastic(t *testing.T) {
	b := NewBuilder(rand.New(rand.NewSource(1)))
	for i := 0; i < 50; i++ {
		got := b.Build(1.25, 2.04, 4.96, -7.5, dynamo.Inelastic)
		if !strings.Contains(got, "inelastic") {
			t.Fatalf("prompt missing collision type: %q", got)
		}
		if !strings.Contains(got, "1.2kg") && !strings.Contains(got, "1.3kg") {
			t.Fatalf("mass not formatted to one decimal: %q", got)
		}
		if strings.Contains(got, "2.04") {
			t.Fatalf("velocity not formatted to one decimal: %q", got)
		}
	}
}

func TestBuildUsesAllTemplates(t *testing.T) {
	b := NewBuilder(rand.New(rand.NewSource(5)))
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[b.Build(3, 5, 2, -4, dynamo.Elastic)] = true
	}
	if len(seen) != len(templates) {
		t.Errorf("expected %d distinct prompts, got %d", len(templates), len(seen))
	}
}

func TestBuildDeterministic(t *testing.T) {
	sc := dynamo.Scenario{MassA: 3, MassB: 2, VelocityA: 5, VelocityB: -4}
	a := NewBuilder(rand.New(rand.NewSource(9))).Scenario(sc, dynamo.Elastic)
	b := NewBuilder(rand.New(rand.NewSource(9))).Scenario(sc, dynamo.Elastic)
	if a != b {
		t.Errorf("same seed produced different prompts:\n%s\n%s", a, b)
	}
}

func TestDirection(t *testing.T) {
	if direction(1) != "right" || direction(-1) != "left" || direction(0) != "left" {
		t.Error("unexpected direction words")
	}
}

func TestSimple(t *testing.T) {
	if !strings.Contains(Simple(), "collide elastically") {
		t.Errorf("unexpected simple prompt %q", Simple())
	}
}

func TestScenarioWithoutMassesUsesSimple(t *testing.T) {
	b := NewBuilder(rand.New(rand.NewSource(1)))
	if got := b.Scenario(dynamo.Scenario{}, dynamo.Elastic); got != Simple() {
		t.Errorf("expected the generic prompt, got %q", got)
	}
}
