package quiz

import "errors"

// ErrDataInsufficient is returned when the catalog has too few usable rows
// to build even one question with a full set of options.
var ErrDataInsufficient = errors.New("data insufficient")
