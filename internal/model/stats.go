package model

// PropertyStats is the per-constituency aggregate for property sales.
type PropertyStats struct {
	Region      string  `csv:"region" yaml:"region"`
	Sales       int     `csv:"sales" yaml:"sales"`
	MedianPrice float64 `csv:"median_price" yaml:"median_price"`
}

// PlanningStats is the per-constituency aggregate for planning applications.
// Refused, Withdrawn and Invalid are independent substring counts; only the
// combined rejected flag feeds RejectionRate.
type PlanningStats struct {
	Region            string  `csv:"region" yaml:"region"`
	TotalApplications int     `csv:"total_applications" yaml:"total_applications"`
	Rejected          int     `csv:"rejected" yaml:"rejected"`
	RejectionRate     float64 `csv:"rejection_rate" yaml:"rejection_rate"`
	Refused           int     `csv:"refused" yaml:"refused"`
	Withdrawn         int     `csv:"withdrawn" yaml:"withdrawn"`
	Invalid           int     `csv:"invalid" yaml:"invalid"`
}

// RunSummary is the YAML artifact written at the end of an analyze run.
type RunSummary struct {
	RunID      string `yaml:"run_id"`
	Dataset    string `yaml:"dataset"`
	StartedAt  string `yaml:"started_at"`
	FinishedAt string `yaml:"finished_at"`
	Shapefile  string `yaml:"shapefile"`
	Input      string `yaml:"input"`

	InputRows   int `yaml:"input_rows"`
	CleanedRows int `yaml:"cleaned_rows"`
	DroppedRows int `yaml:"dropped_rows"`
	Matched     int `yaml:"matched"`
	Unmatched   int `yaml:"unmatched"`
	Ambiguous   int `yaml:"ambiguous"`
	Regions     int `yaml:"regions"`
	StatsRows   int `yaml:"stats_rows"`
}
