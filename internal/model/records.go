// Package model defines the tabular record and statistics types shared
// across the analysis pipeline.
package model

// PlanningCase is one An Bord Pleanála case as scraped from the case listing.
type PlanningCase struct {
	Type        string `csv:"type"`
	Title       string `csv:"title"`
	Reference   string `csv:"reference"`
	Status      string `csv:"status"`
	Description string `csv:"description"`
	DateLodged  string `csv:"date_lodged"`
	DateSigned  string `csv:"date_signed"`
	EIAR        string `csv:"eiar"`
	NIS         string `csv:"nis"`
	Parties     string `csv:"parties"`
}

// Point is one geocoded input row reduced to what the spatial pipeline needs.
// Raw keeps the original CSV fields so unmatched rows can be exported intact.
type Point struct {
	Row       int
	Latitude  float64
	Longitude float64
	Value     string // price text or case status, depending on dataset
	Raw       []string
}

// Matched pairs a cleaned point with the region it was assigned to.
// Region is empty for points no constituency claimed.
type Matched struct {
	Point
	Region string
}
