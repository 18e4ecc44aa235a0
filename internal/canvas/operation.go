package canvas

import (
	"errors"
	"fmt"
)

// Rejected operations are never appended or broadcast.
var ErrInvalidOperation = errors.New("invalid operation")

// A single point on the drawing surface
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Operation kinds
const (
	KindStroke = "stroke"
	KindShape  = "shape"
)

// Shape variants
const (
	ShapeRect   = "rect"
	ShapeCircle = "circle"
	ShapeLine   = "line"
)

// One committed drawing action. Immutable once it enters a room's log.
// Author fields are display-only and never drive ordering or undo
// targeting; log position is the ordering authority.
type Operation struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`

	// Stroke fields
	Points []Point `json:"points,omitempty"`

	// Shape fields. rect uses x/y/w/h, circle uses cx/cy/r,
	// line uses x1/y1/x2/y2.
	Shape string  `json:"shape,omitempty"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	W     float64 `json:"w,omitempty"`
	H     float64 `json:"h,omitempty"`
	CX    float64 `json:"cx,omitempty"`
	CY    float64 `json:"cy,omitempty"`
	R     float64 `json:"r,omitempty"`
	X1    float64 `json:"x1,omitempty"`
	Y1    float64 `json:"y1,omitempty"`
	X2    float64 `json:"x2,omitempty"`
	Y2    float64 `json:"y2,omitempty"`

	Color string  `json:"color"`
	Width float64 `json:"width"`

	AuthorID    string `json:"authorId,omitempty"`
	AuthorName  string `json:"authorName,omitempty"`
	CommittedAt int64  `json:"committedAt,omitempty"`
}

// Validate checks that an inbound operation is one of the recognized
// kinds and carries the geometry that kind requires.
func (op Operation) Validate() error {
	switch op.Kind {
	case KindStroke:
		if len(op.Points) == 0 {
			return fmt.Errorf("%w: stroke with no points", ErrInvalidOperation)
		}
		return nil
	case KindShape:
		switch op.Shape {
		case ShapeRect:
			if op.W <= 0 || op.H <= 0 {
				return fmt.Errorf("%w: rect needs positive w/h", ErrInvalidOperation)
			}
		case ShapeCircle:
			if op.R <= 0 {
				return fmt.Errorf("%w: circle needs positive r", ErrInvalidOperation)
			}
		case ShapeLine:
			// Any endpoints are fine, including degenerate ones.
		default:
			return fmt.Errorf("%w: unknown shape %q", ErrInvalidOperation, op.Shape)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidOperation, op.Kind)
	}
}
