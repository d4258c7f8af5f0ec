package vision

import (
	"context"
	"time"
)

// MockProvider returns a fixed RLC circuit description after Delay. It stands
// in when no real provider is configured.
type MockProvider struct {
	Delay time.Duration
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) Analyze(ctx context.Context, _ Image) (Description, error) {
	if m.Delay > 0 {
		t := time.NewTimer(m.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
			return Description{}, ctx.Err()
		case <-t.C:
		}
	}
	return MockDescription(), nil
}

func MockDescription() Description {
	return Description{
		DetectedText: "Figure 1: RLC Circuit. V = 10V, R = 5Ω, L = 2H, C = 1mF.",
		Objects:      []string{"Resistor", "Inductor", "Capacitor", "Voltage Source"},
		DiagramType:  "Circuit Schematic",
		Confidence:   0.98,
		Source:       "mock",
	}
}
