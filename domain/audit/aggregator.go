package audit

// Aggregator accumulates records across all sites in discovery order. It is
// append-only: records for a site precede its libraries' and items' records,
// which precede the next site's records.
type Aggregator struct {
	records []Record
}

// NewAggregator creates an empty aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Append adds records in the order they were discovered
func (a *Aggregator) Append(records ...Record) {
	a.records = append(a.records, records...)
}

// Records returns the accumulated records in discovery order
func (a *Aggregator) Records() []Record {
	return a.records
}

// Len returns the number of accumulated records
func (a *Aggregator) Len() int {
	return len(a.records)
}

// ExternalCount returns how many records are externally relevant
func (a *Aggregator) ExternalCount() int {
	n := 0
	for _, r := range a.records {
		if r.IsExternal || r.HasExternalLinks {
			n++
		}
	}
	return n
}

// FilterExternal restricts records to externally-relevant findings when
// externalOnly is set; otherwise it returns the input unchanged. Relative
// order of retained records is preserved and the input is never mutated.
func FilterExternal(records []Record, externalOnly bool) []Record {
	if !externalOnly {
		return records
	}
	filtered := make([]Record, 0, len(records))
	for _, r := range records {
		if r.IsExternal || r.HasExternalLinks {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
