package types_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/healthmon-lab/panacea/pkg/domain/types"
)

func TestIndicatorCategory_IsValid(t *testing.T) {
	for _, category := range types.AllIndicatorCategories() {
		gt.Bool(t, category.IsValid()).True()
	}

	gt.Bool(t, types.IndicatorCategory("clinical").IsValid()).False()
	gt.Bool(t, types.IndicatorCategory("").IsValid()).False()
}

func TestParseIndicatorCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    types.IndicatorCategory
		wantErr bool
	}{
		{
			name:  "valid symptom",
			input: "symptom",
			want:  types.CategorySymptom,
		},
		{
			name:  "valid urgency",
			input: "urgency",
			want:  types.CategoryUrgency,
		},
		{
			name:    "unknown category",
			input:   "emotional",
			wantErr: true,
		},
		{
			name:    "case sensitive",
			input:   "Symptom",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := types.ParseIndicatorCategory(tt.input)
			if tt.wantErr {
				gt.Error(t, err)
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tt.want)
		})
	}
}
