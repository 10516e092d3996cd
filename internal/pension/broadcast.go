package pension

// groupByPSR returns the records of each scheme as pointers into records, and
// the scheme identifiers in first-seen order.
func groupByPSR(records []Record) (map[string][]*Record, []string) {
	groups := make(map[string][]*Record)
	var order []string
	for i := range records {
		psr := records[i].PSR
		if _, ok := groups[psr]; !ok {
			order = append(order, psr)
		}
		groups[psr] = append(groups[psr], &records[i])
	}
	return groups, order
}

// Aggregate computes one value per scheme from all of that scheme's records.
func Aggregate[V any](records []Record, fn func(group []*Record) V) map[string]V {
	groups, _ := groupByPSR(records)
	out := make(map[string]V, len(groups))
	for psr, group := range groups {
		out[psr] = fn(group)
	}
	return out
}

// Broadcast assigns each scheme's value to every record of that scheme.
// Records whose scheme has no value are left untouched, as in a left join.
func Broadcast[V any](records []Record, values map[string]V, assign func(r *Record, v V)) {
	for i := range records {
		if v, ok := values[records[i].PSR]; ok {
			assign(&records[i], v)
		}
	}
}

// AggregateAndBroadcast is the group → aggregate → merge-back step shared by
// the classifiers and the discontinuation detector.
func AggregateAndBroadcast[V any](records []Record, fn func(group []*Record) V, assign func(r *Record, v V)) map[string]V {
	values := Aggregate(records, fn)
	Broadcast(records, values, assign)
	return values
}
