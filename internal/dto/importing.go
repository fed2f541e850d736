package dto

// OfferingCSVRow is one line of an uploaded course-listing file.
type OfferingCSVRow struct {
	CourseCode  string `csv:"course_code"`
	Title       string `csv:"title"`
	Level       int    `csv:"level"`
	CreditUnits int    `csv:"credit_units"`
	Type        string `csv:"type"`
	Department  string `csv:"department"`
}

// CanonicalCSVRow is one line of an uploaded canonical catalog file.
type CanonicalCSVRow struct {
	Title      string `csv:"title"`
	Department string `csv:"department"`
}

// ImportSummary reports accepted and rejected row counts for an upload.
type ImportSummary struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}
