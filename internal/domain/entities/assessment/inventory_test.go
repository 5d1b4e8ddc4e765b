package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalLitersFromBottles(t *testing.T) {
	in := InventoryInput{Persons: 2, Bottles500: 3, Bottles2L: 2}

	assert.InDelta(t, 5.5, in.TotalLiters(), 1e-9)
	assert.InDelta(t, 5.5, in.TotalLiters(), 1e-9, "recomputation must be pure")
}

func TestTotalLitersOverrideRoundTrip(t *testing.T) {
	in := InventoryInput{Persons: 1, Bottles500: 4, Bottles2L: 1, LitersOverride: 12}

	in.UseOverride = true
	assert.InDelta(t, 12, in.TotalLiters(), 1e-9)

	in.UseOverride = false
	assert.InDelta(t, 4, in.TotalLiters(), 1e-9, "override mode must not touch bottle counts")
	assert.Equal(t, 4, in.Bottles500)
	assert.Equal(t, 1, in.Bottles2L)
}

func TestInventoryValidate(t *testing.T) {
	tests := []struct {
		name    string
		input   InventoryInput
		wantErr bool
	}{
		{"valid", InventoryInput{Persons: 1}, false},
		{"zero persons", InventoryInput{Persons: 0}, true},
		{"negative bottles", InventoryInput{Persons: 1, Bottles500: -1}, true},
		{"negative liters", InventoryInput{Persons: 1, LitersOverride: -0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.input.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAnswerSetAnswered(t *testing.T) {
	set := AnswerSet{
		"q3": AnswerYes,
		"q1": AnswerNo,
		"q2": AnswerUnanswered,
		"q4": AnswerValue("maybe"),
	}

	answered := set.Answered()
	assert.Equal(t, []Answer{{ID: "q1", Value: AnswerNo}, {ID: "q3", Value: AnswerYes}}, answered,
		"unanswered and invalid entries are dropped, rest ordered by id")
}
