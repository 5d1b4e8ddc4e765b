package assessment

// Ranks reported by the scoring service. Anything else is displayed as-is.
const (
	RankBeginner     = "Beginner"
	RankIntermediate = "Intermediate"
	RankAdvanced     = "Advanced"
)

// ScoreResult is the scoring service's verdict, opaque beyond these fields.
type ScoreResult struct {
	ScoreTotal float64 `json:"score_total"`
	ScoreMax   float64 `json:"score_max"`
	ScoreRate  float64 `json:"score_rate"`
	Rank       string  `json:"rank"`
}

// AdviceSet is the ordered advice strings from the advice service.
type AdviceSet []string

// AdviceItem is one advice entry as shared with a group ledger.
type AdviceItem struct {
	Msg  string `json:"msg"`
	Done bool   `json:"done"`
}

// Items converts the advice strings into shareable ledger entries.
func (a AdviceSet) Items() []AdviceItem {
	items := make([]AdviceItem, 0, len(a))
	for _, msg := range a {
		items = append(items, AdviceItem{Msg: msg})
	}
	return items
}
