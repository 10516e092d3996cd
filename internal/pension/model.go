// Package pension consolidates yearly pension scheme sheets into one enriched table.
package pension

// Sheet is a named grid of raw cell text, one per reporting year.
type Sheet struct {
	Name string
	Rows [][]string
}

// Field is a source column carried through the pipeline untouched.
type Field struct {
	Name  string
	Value string
}

// Record is one scheme-year observation.
type Record struct {
	PSR         string
	Year        int
	Assets      *float64
	Memberships *int64

	// AssetPerMember is set only when both Assets and Memberships are positive.
	AssetPerMember *float64

	AvgMemberships *float64
	MembershipSize *MembershipSize
	AvgAssets      *float64
	AssetValue     *AssetValue

	LastActiveYear   int
	DiscontinuedYear *int

	Extra []Field
}

// YearTable holds the normalized records of a single yearly sheet.
type YearTable struct {
	Year    int
	Sheet   string
	Records []Record

	// RowsRead counts non-blank data rows, including those skipped for a
	// missing identifier.
	RowsRead            int
	BlankIdentifierRows int
}

// Scheme is the per-entity view of the enriched records.
type Scheme struct {
	PSR              string
	FirstYear        int
	LastActiveYear   int
	DiscontinuedYear *int
	Years            int
	AvgMemberships   *float64
	MembershipSize   *MembershipSize
	AvgAssets        *float64
	AssetValue       *AssetValue
}

// Discontinued reports whether the scheme stopped reporting before the final year.
func (s Scheme) Discontinued() bool {
	return s.DiscontinuedYear != nil
}
