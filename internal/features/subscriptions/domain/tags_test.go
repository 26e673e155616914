package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestDeriveTags(t *testing.T) {
	tests := []struct {
		name  string
		input []Summary
		want  []string
	}{
		{
			name:  "Empty",
			input: nil,
			want:  []string{},
		},
		{
			name:  "SingleWithMinCycles",
			input: []Summary{{ID: "77", BillingMinCycles: intPtr(3)}},
			want:  []string{"seal_sub_id_77", "seal_min_cycles_3"},
		},
		{
			name:  "MissingMinCycles",
			input: []Summary{{ID: "77"}},
			want:  []string{"seal_sub_id_77"},
		},
		{
			name: "SharedMinCyclesCollapse",
			input: []Summary{
				{ID: "1", BillingMinCycles: intPtr(3)},
				{ID: "2", BillingMinCycles: intPtr(3)},
			},
			want: []string{"seal_sub_id_1", "seal_sub_id_2", "seal_min_cycles_3"},
		},
		{
			name: "DuplicateSubscription",
			input: []Summary{
				{ID: "5"},
				{ID: "5"},
			},
			want: []string{"seal_sub_id_5"},
		},
		{
			name:  "ZeroMinCyclesIsPresent",
			input: []Summary{{ID: "9", BillingMinCycles: intPtr(0)}},
			want:  []string{"seal_sub_id_9", "seal_min_cycles_0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveTags(tt.input))
		})
	}
}

func TestDeriveTags_OrderIndependent(t *testing.T) {
	a := Summary{ID: "10", BillingMinCycles: intPtr(6)}
	b := Summary{ID: "2", BillingMinCycles: intPtr(3)}
	c := Summary{ID: "33"}

	permutations := [][]Summary{
		{a, b, c},
		{a, c, b},
		{b, a, c},
		{b, c, a},
		{c, a, b},
		{c, b, a},
	}

	want := DeriveTags(permutations[0])
	for _, p := range permutations[1:] {
		assert.Equal(t, want, DeriveTags(p))
	}
	assert.ElementsMatch(t, []string{
		"seal_sub_id_10", "seal_sub_id_2", "seal_sub_id_33",
		"seal_min_cycles_6", "seal_min_cycles_3",
	}, want)
}
