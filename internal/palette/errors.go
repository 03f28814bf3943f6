package palette

import "errors"

var (
	// ErrUnknownPalette indicates a palette of no supported shape.
	ErrUnknownPalette = errors.New("palette: unknown palette")

	// ErrInvalidEntry indicates a colour value that cannot be decoded.
	ErrInvalidEntry = errors.New("palette: invalid entry")

	// ErrUnknownFlavour indicates a flavour name that is not defined.
	ErrUnknownFlavour = errors.New("palette: unknown flavour")
)
