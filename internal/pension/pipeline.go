package pension

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options configures a pipeline run.
type Options struct {
	IngestOptions
	// FinalYear is the dataset horizon. Zero uses the latest year observed.
	FinalYear int
}

// Stats summarizes one run.
type Stats struct {
	RunID               string    `yaml:"run_id"`
	StartedAt           time.Time `yaml:"started_at"`
	SheetsIngested      int       `yaml:"sheets_ingested"`
	SheetsExcluded      int       `yaml:"sheets_excluded"`
	RowsRead            int       `yaml:"rows_read"`
	BlankIdentifierRows int       `yaml:"blank_identifier_rows"`
	DuplicatesRemoved   int       `yaml:"duplicates_removed"`
	Records             int       `yaml:"records"`
	Schemes             int       `yaml:"schemes"`
	Discontinued        int       `yaml:"discontinued_schemes"`
	FirstYear           int       `yaml:"first_year"`
	LastYear            int       `yaml:"last_year"`
	FinalYear           int       `yaml:"final_year"`
}

// Result is the enriched table plus its per-scheme view.
type Result struct {
	Records []Record
	Schemes []Scheme
	Stats   Stats
}

// Run ingests the yearly sheets and produces the consolidated, classified table.
func Run(sheets []Sheet, opts Options) (*Result, error) {
	log := zap.L().With(zap.String("component", "pension"))
	stats := Stats{RunID: uuid.New().String(), StartedAt: time.Now().UTC()}

	tables, err := Ingest(sheets, opts.IngestOptions)
	if err != nil {
		return nil, err
	}
	stats.SheetsIngested = len(tables)
	stats.SheetsExcluded = len(sheets) - len(tables)
	for _, t := range tables {
		stats.RowsRead += t.RowsRead
		stats.BlankIdentifierRows += t.BlankIdentifierRows
	}
	log.Info("sheets ingested",
		zap.Int("sheets", stats.SheetsIngested),
		zap.Int("rows", stats.RowsRead),
	)

	records, dups := Consolidate(tables)
	stats.DuplicatesRemoved = dups
	stats.Records = len(records)
	log.Info("sheets consolidated",
		zap.Int("records", len(records)),
		zap.Int("duplicates_removed", dups),
	)

	DeriveAssetPerMember(records)
	ClassifyMembership(records)
	ClassifyAssets(records)

	stats.FirstYear, stats.LastYear = yearSpan(records)
	finalYear := opts.FinalYear
	if finalYear == 0 {
		finalYear = stats.LastYear
	}
	stats.FinalYear = finalYear
	stats.Discontinued = DetectDiscontinued(records, finalYear)

	schemes := Summarize(records)
	stats.Schemes = len(schemes)

	log.Info("schemes classified",
		zap.Int("schemes", stats.Schemes),
		zap.Int("discontinued", stats.Discontinued),
		zap.Int("final_year", finalYear),
	)

	return &Result{Records: records, Schemes: schemes, Stats: stats}, nil
}

// Summarize collapses enriched records into one Scheme per PSR, sorted by PSR.
func Summarize(records []Record) []Scheme {
	groups, order := groupByPSR(records)
	schemes := make([]Scheme, 0, len(order))
	for _, psr := range order {
		group := groups[psr]
		first := group[0]
		s := Scheme{
			PSR:              psr,
			FirstYear:        first.Year,
			LastActiveYear:   first.LastActiveYear,
			DiscontinuedYear: first.DiscontinuedYear,
			AvgMemberships:   first.AvgMemberships,
			MembershipSize:   first.MembershipSize,
			AvgAssets:        first.AvgAssets,
			AssetValue:       first.AssetValue,
		}
		years := make(map[int]struct{}, len(group))
		for _, r := range group {
			years[r.Year] = struct{}{}
			if r.Year < s.FirstYear {
				s.FirstYear = r.Year
			}
		}
		s.Years = len(years)
		schemes = append(schemes, s)
	}
	sort.Slice(schemes, func(i, j int) bool { return schemes[i].PSR < schemes[j].PSR })
	return schemes
}

func yearSpan(records []Record) (first, last int) {
	for i, r := range records {
		if i == 0 || r.Year < first {
			first = r.Year
		}
		if r.Year > last {
			last = r.Year
		}
	}
	return first, last
}
