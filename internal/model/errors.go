package model

import "errors"

// ErrSingularMassMatrix is returned by ABA when a model's mass matrix
// is (numerically) singular at the current configuration.
var ErrSingularMassMatrix = errors.New("model: singular mass matrix")
