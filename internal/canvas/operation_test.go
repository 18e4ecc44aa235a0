package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationValidate(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		wantErr bool
	}{
		{
			name: "stroke with points",
			op:   Operation{Kind: KindStroke, Points: []Point{{0, 0}, {10, 10}}},
		},
		{
			name:    "stroke without points",
			op:      Operation{Kind: KindStroke},
			wantErr: true,
		},
		{
			name: "rect at origin",
			op:   Operation{Kind: KindShape, Shape: ShapeRect, W: 5, H: 5},
		},
		{
			name:    "rect with zero size",
			op:      Operation{Kind: KindShape, Shape: ShapeRect},
			wantErr: true,
		},
		{
			name: "circle",
			op:   Operation{Kind: KindShape, Shape: ShapeCircle, CX: 1, CY: 1, R: 3},
		},
		{
			name:    "circle without radius",
			op:      Operation{Kind: KindShape, Shape: ShapeCircle},
			wantErr: true,
		},
		{
			name: "line",
			op:   Operation{Kind: KindShape, Shape: ShapeLine, X2: 4, Y2: 4},
		},
		{
			name:    "unknown shape",
			op:      Operation{Kind: KindShape, Shape: "triangle"},
			wantErr: true,
		},
		{
			name:    "unknown kind",
			op:      Operation{Kind: "erase"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.op.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOperation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
