package domain

// LookupItem is a code/label pair used for form options (sources,
// destinations, trip types). Served by the catalog module.
type LookupItem struct {
	Code      string `json:"code"`
	Label     string `json:"label"`
	SortOrder int    `json:"sortOrder"`
}
