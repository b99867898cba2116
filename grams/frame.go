// Package grams provides fixed size views of the frame headers handled by the
// poll-cycle responder. Views are arrays so they can be decoded out of the shared
// frame buffer without heap allocation; Set() returns a mutator for each view.
package grams

import "errors"

// ErrShortFrame is returned when a frame ends before the header being decoded.
var ErrShortFrame = errors.New("grams: frame too short")
