package dynamo

import "errors"

// Domain errors for scenario generation.
var (
	// ErrConfiguration indicates invalid bounds or settings detected before simulation.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrSimulationDegenerate indicates the bodies never came into contact.
	ErrSimulationDegenerate = errors.New("dynamo: simulation degenerate (no contact detected)")

	// ErrRenderingUnavailable indicates a font or asset could not be loaded.
	ErrRenderingUnavailable = errors.New("dynamo: rendering resource unavailable")

	// ErrVideoBackendUnavailable indicates the requested video encoder is missing.
	ErrVideoBackendUnavailable = errors.New("dynamo: video backend unavailable")

	// ErrContextCanceled indicates the run was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
