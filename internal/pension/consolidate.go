package pension

import (
	"strconv"
	"strings"
)

// Consolidate unions the yearly tables in order and drops exact duplicate rows,
// keeping the first occurrence. It returns the records and the number of
// duplicates removed.
func Consolidate(tables []YearTable) ([]Record, int) {
	total := 0
	for _, t := range tables {
		total += len(t.Records)
	}

	records := make([]Record, 0, total)
	seen := make(map[string]struct{}, total)
	for _, t := range tables {
		for _, r := range t.Records {
			key := rowKey(r)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			records = append(records, r)
		}
	}
	return records, total - len(records)
}

// rowKey encodes every column a record carries after ingestion.
func rowKey(r Record) string {
	var b strings.Builder
	b.WriteString(r.PSR)
	b.WriteByte(0)
	b.WriteString(strconv.Itoa(r.Year))
	b.WriteByte(0)
	if r.Assets != nil {
		b.WriteString(strconv.FormatFloat(*r.Assets, 'g', -1, 64))
	} else {
		b.WriteString("\x01")
	}
	b.WriteByte(0)
	if r.Memberships != nil {
		b.WriteString(strconv.FormatInt(*r.Memberships, 10))
	} else {
		b.WriteString("\x01")
	}
	for _, f := range r.Extra {
		b.WriteByte(0)
		b.WriteString(f.Name)
		b.WriteByte('=')
		b.WriteString(f.Value)
	}
	return b.String()
}
