package models

// TourSummary is one row of a preview result.
type TourSummary struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	TourCode      string  `json:"tour_code"`
	Country       string  `json:"country"`
	Days          int     `json:"days"`
	Nights        int     `json:"nights"`
	Price         float64 `json:"price"`
	DepartureDate string  `json:"departure_date"`
	ImageURL      string  `json:"image_url"`
}

// TabPreview is the server-evaluated sample for one tab.
type TabPreview struct {
	TabID int64         `json:"tab_id"`
	Tours []TourSummary `json:"tours"`
}

// Empty reports the "no tours match" state, which is not an error.
func (p TabPreview) Empty() bool {
	return len(p.Tours) == 0
}

// FestivalPreview is a sample of tours departing inside a festival range.
// TotalCount is the true match count and may exceed len(PreviewTours).
type FestivalPreview struct {
	PreviewTours []TourSummary `json:"preview_tours"`
	TotalCount   int           `json:"total_count"`
}

func (p FestivalPreview) Empty() bool {
	return p.TotalCount == 0 && len(p.PreviewTours) == 0
}

// Truncated reports whether the sample is smaller than the match count.
func (p FestivalPreview) Truncated() bool {
	return p.TotalCount > len(p.PreviewTours)
}

// Overflow is the number of matching tours not present in the sample.
func (p FestivalPreview) Overflow() int {
	if !p.Truncated() {
		return 0
	}
	return p.TotalCount - len(p.PreviewTours)
}
