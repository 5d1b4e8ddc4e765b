package assessment

import "fmt"

// Bottle capacities in liters.
const (
	LitersPerBottle500 = 0.5
	LitersPerBottle2L  = 2.0
)

// InventoryInput is the manual water-stockpile form state.
type InventoryInput struct {
	Persons        int     `json:"persons"`
	Bottles500     int     `json:"bottles500"`
	Bottles2L      int     `json:"bottles2l"`
	LitersOverride float64 `json:"litersOverride"`
	UseOverride    bool    `json:"useOverride"`
}

// TotalLiters derives the stockpile volume. Switching override mode on
// and off never touches the bottle counts, so the derivation is pure.
func (in InventoryInput) TotalLiters() float64 {
	if in.UseOverride {
		return in.LitersOverride
	}
	return float64(in.Bottles500)*LitersPerBottle500 + float64(in.Bottles2L)*LitersPerBottle2L
}

// Validate rejects inputs the estimator would never be called with.
func (in InventoryInput) Validate() error {
	if in.Persons < 1 {
		return fmt.Errorf("%w: persons must be at least 1", ErrInvalidInput)
	}
	if in.Bottles500 < 0 || in.Bottles2L < 0 {
		return fmt.Errorf("%w: bottle counts must not be negative", ErrInvalidInput)
	}
	if in.LitersOverride < 0 {
		return fmt.Errorf("%w: liters must not be negative", ErrInvalidInput)
	}
	return nil
}

// DiagnosticResult is the estimator's days-of-supply figure.
type DiagnosticResult struct {
	EstimatedDays float64 `json:"estimated_days"`
}

// PhotoDetection is the photo analyzer's output applied to the session:
// detected bottle counts, an optional explicit total, an optional day
// estimate, and a reference to the result visualization.
type PhotoDetection struct {
	Bottles500       int
	Bottles2L        int
	TotalLiters      *float64
	EstimatedDays    *float64
	VisualizationRef string
}
