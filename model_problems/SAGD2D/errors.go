package SAGD2D

import "errors"

var (
	// ErrInvalidConfig is returned by NewSAGD before any cell is created.
	ErrInvalidConfig = errors.New("sagd: invalid configuration")
	// ErrGridInvariant reports a grid position left empty or assigned twice.
	ErrGridInvariant = errors.New("sagd: grid placement invariant violated")
)
