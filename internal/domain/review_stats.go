package domain

// ReviewStats is a read-only summary of review activity.
type ReviewStats struct {
	TodayReviews       int                 `json:"today_reviews"`
	TodayDistinctCards int                 `json:"today_distinct_cards"`
	WeekReviews        int                 `json:"week_reviews"`
	WeekDistinctCards  int                 `json:"week_distinct_cards"`
	AverageQuality     *float64            `json:"average_quality,omitempty"`
	DueCardsCount      int                 `json:"due_cards_count"`
	SessionTypeCounts  map[SessionType]int `json:"session_type_counts"`
}
