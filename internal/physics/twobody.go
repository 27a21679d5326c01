package physics

import "github.com/san-kum/collisiongen/internal/dynamo"

// TwoBody is two point masses moving freely along one axis.
type TwoBody struct {
	MassA float64
	MassB float64
}

func NewTwoBody(massA, massB float64) *TwoBody {
	return &TwoBody{MassA: massA, MassB: massB}
}

func (b *TwoBody) StateDim() int { return dynamo.StateDim }

func (b *TwoBody) Derive(x dynamo.State, u dynamo.Control, t float64) dynamo.State {
	dx := make(dynamo.State, dynamo.StateDim)
	dx[dynamo.IdxPosA] = x[dynamo.IdxVelA]
	dx[dynamo.IdxPosB] = x[dynamo.IdxVelB]
	return dx
}

func (b *TwoBody) Energy(x dynamo.State) float64 {
	va, vb := x[dynamo.IdxVelA], x[dynamo.IdxVelB]
	return 0.5*b.MassA*va*va + 0.5*b.MassB*vb*vb
}
