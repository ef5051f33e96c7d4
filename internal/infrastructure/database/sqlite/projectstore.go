package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/KingdaKilla/ti-radar/internal/domain/kernel"
	"github.com/KingdaKilla/ti-radar/internal/infrastructure/monitoring/logging"
)

// defaultMinCountries is the distinct-country threshold a project must reach
// to count as cross-border in CrossBorderShare.
const defaultMinCountries = 3

// ─────────────────────────────────────────────────────────────────────────────
// ProjectStore
// ─────────────────────────────────────────────────────────────────────────────

// ProjectStore is the read-only repository over the CORDIS project database.
// Unlike the patent store, project year filters are never clamped to a
// fully-covered year: projects are forward-looking and an in-progress final
// year is still meaningful data.
type ProjectStore struct {
	db     *sql.DB
	logger logging.Logger
}

// NewProjectStore constructs a ProjectStore.
func NewProjectStore(db *sql.DB, logger logging.Logger) *ProjectStore {
	return &ProjectStore{db: db, logger: logger}
}

// YearHistogram counts matching projects per start year within
// [startYear, endYear].
func (s *ProjectStore) YearHistogram(ctx context.Context, keyword string, startYear, endYear int) ([]kernel.YearCount, error) {
	query := `
		SELECT substr(p.start_date, 1, 4) AS yr, COUNT(*) AS cnt
		FROM projects_fts f
		JOIN projects p ON p.id = f.rowid
		WHERE f.projects MATCH ?
		  AND length(p.start_date) >= 4
		  AND CAST(substr(p.start_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		GROUP BY yr
		ORDER BY yr ASC`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("project year histogram: %w", err)
	}
	defer rows.Close()
	return scanYearCounts(rows)
}

// CountryHistogram returns the top `limit` participating-organization
// countries by matching-project count, descending.
func (s *ProjectStore) CountryHistogram(ctx context.Context, keyword string, startYear, endYear, limit int) ([]kernel.CountryCount, error) {
	query := `
		SELECT o.country AS country, COUNT(DISTINCT p.id) AS cnt
		FROM projects_fts f
		JOIN projects p ON p.id = f.rowid
		JOIN organizations o ON o.project_id = p.id
		WHERE f.projects MATCH ?
		  AND length(p.start_date) >= 4
		  AND CAST(substr(p.start_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		  AND o.country IS NOT NULL AND o.country != ''
		GROUP BY country
		ORDER BY cnt DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear, limit)
	if err != nil {
		return nil, fmt.Errorf("project country histogram: %w", err)
	}
	defer rows.Close()
	return scanCountryCounts(rows)
}

// TopOrganizations returns the top `limit` organizations by distinct
// matching-project count.
func (s *ProjectStore) TopOrganizations(ctx context.Context, keyword string, startYear, endYear, limit int) ([]NamedCount, error) {
	query := `
		SELECT o.name AS name, COUNT(DISTINCT p.id) AS cnt
		FROM projects_fts f
		JOIN projects p ON p.id = f.rowid
		JOIN organizations o ON o.project_id = p.id
		WHERE f.projects MATCH ?
		  AND length(p.start_date) >= 4
		  AND CAST(substr(p.start_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		GROUP BY o.name
		ORDER BY cnt DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear, limit)
	if err != nil {
		return nil, fmt.Errorf("project top organizations: %w", err)
	}
	defer rows.Close()
	return scanNamedCounts(rows)
}

// TopOrganizationsByYear returns, for each year in range, the distinct
// matching-project count per organization name, capped at perYearLimit
// entries per year (0 means unlimited).
func (s *ProjectStore) TopOrganizationsByYear(ctx context.Context, keyword string, startYear, endYear, perYearLimit int) ([]NamedYearCount, error) {
	query := `
		SELECT substr(p.start_date, 1, 4) AS yr, o.name AS name, COUNT(DISTINCT p.id) AS cnt
		FROM projects_fts f
		JOIN projects p ON p.id = f.rowid
		JOIN organizations o ON o.project_id = p.id
		WHERE f.projects MATCH ?
		  AND length(p.start_date) >= 4
		  AND CAST(substr(p.start_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		GROUP BY yr, o.name
		ORDER BY yr ASC, cnt DESC`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("project top organizations by year: %w", err)
	}
	defer rows.Close()

	var out []NamedYearCount
	perYear := make(map[int]int)
	for rows.Next() {
		var yearStr, name string
		var count int
		if err := rows.Scan(&yearStr, &name, &count); err != nil {
			return nil, fmt.Errorf("scan organization year count: %w", err)
		}
		year, err := strconv.Atoi(strings.TrimSpace(yearStr))
		if err != nil {
			continue
		}
		if perYearLimit > 0 && perYear[year] >= perYearLimit {
			continue
		}
		perYear[year]++
		out = append(out, NamedYearCount{Year: year, Name: name, Count: count})
	}
	if out == nil {
		out = []NamedYearCount{}
	}
	return out, rows.Err()
}

// CityCount is a single (city, country, count) observation over
// participating organizations.
type CityCount struct {
	City    string
	Country string
	Count   int
}

// CityHistogram returns the top `limit` organization cities by matching
// distinct-project count.
func (s *ProjectStore) CityHistogram(ctx context.Context, keyword string, startYear, endYear, limit int) ([]CityCount, error) {
	query := `
		SELECT o.city AS city, o.country AS country, COUNT(DISTINCT p.id) AS cnt
		FROM projects_fts f
		JOIN projects p ON p.id = f.rowid
		JOIN organizations o ON o.project_id = p.id
		WHERE f.projects MATCH ?
		  AND length(p.start_date) >= 4
		  AND CAST(substr(p.start_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		  AND o.city IS NOT NULL AND o.city != ''
		GROUP BY city, country
		ORDER BY cnt DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear, limit)
	if err != nil {
		return nil, fmt.Errorf("project city histogram: %w", err)
	}
	defer rows.Close()

	var out []CityCount
	for rows.Next() {
		var c CityCount
		if err := rows.Scan(&c.City, &c.Country, &c.Count); err != nil {
			return nil, fmt.Errorf("scan city count: %w", err)
		}
		out = append(out, c)
	}
	if out == nil {
		out = []CityCount{}
	}
	return out, rows.Err()
}

// CoParticipationPairs self-joins organizations sharing a project to find
// co-participation edges, weighted by the number of shared matching
// projects.
func (s *ProjectStore) CoParticipationPairs(ctx context.Context, keyword string, startYear, endYear int) ([]CoActorPair, error) {
	query := `
		SELECT o1.name, o2.name, COUNT(DISTINCT p.id) AS cnt
		FROM projects_fts f
		JOIN projects p ON p.id = f.rowid
		JOIN organizations o1 ON o1.project_id = p.id
		JOIN organizations o2 ON o2.project_id = p.id AND o2.id > o1.id
		WHERE f.projects MATCH ?
		  AND length(p.start_date) >= 4
		  AND CAST(substr(p.start_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		GROUP BY o1.name, o2.name
		ORDER BY cnt DESC`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("project co-participation pairs: %w", err)
	}
	defer rows.Close()

	var out []CoActorPair
	for rows.Next() {
		var p CoActorPair
		if err := rows.Scan(&p.A, &p.B, &p.Weight); err != nil {
			return nil, fmt.Errorf("scan co-participation pair: %w", err)
		}
		out = append(out, p)
	}
	if out == nil {
		out = []CoActorPair{}
	}
	return out, rows.Err()
}

// CollaborationPairs self-joins organization countries within each matching
// project to find cross-border country pairs, kept in lexicographic order
// (country_b > country_a) and grouped by pair.
func (s *ProjectStore) CollaborationPairs(ctx context.Context, keyword string, startYear, endYear, limit int) ([]CountryPair, error) {
	query := `
		SELECT o1.country, o2.country, COUNT(DISTINCT p.id) AS cnt
		FROM projects_fts f
		JOIN projects p ON p.id = f.rowid
		JOIN organizations o1 ON o1.project_id = p.id
		JOIN organizations o2 ON o2.project_id = p.id AND o2.country > o1.country
		WHERE f.projects MATCH ?
		  AND length(p.start_date) >= 4
		  AND CAST(substr(p.start_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		  AND o1.country IS NOT NULL AND o1.country != ''
		  AND o2.country IS NOT NULL AND o2.country != ''
		GROUP BY o1.country, o2.country
		ORDER BY cnt DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear, limit)
	if err != nil {
		return nil, fmt.Errorf("project collaboration pairs: %w", err)
	}
	defer rows.Close()

	var out []CountryPair
	for rows.Next() {
		var p CountryPair
		if err := rows.Scan(&p.CountryA, &p.CountryB, &p.Count); err != nil {
			return nil, fmt.Errorf("scan collaboration pair: %w", err)
		}
		out = append(out, p)
	}
	if out == nil {
		out = []CountryPair{}
	}
	return out, rows.Err()
}

// CrossBorderShare computes the share of matching projects whose
// participating organizations span at least minCountries distinct
// countries. minCountries defaults to defaultMinCountries when zero.
func (s *ProjectStore) CrossBorderShare(ctx context.Context, keyword string, startYear, endYear, minCountries int) (float64, error) {
	if minCountries <= 0 {
		minCountries = defaultMinCountries
	}

	var total int
	totalQuery := `
		SELECT COUNT(DISTINCT p.id)
		FROM projects_fts f
		JOIN projects p ON p.id = f.rowid
		WHERE f.projects MATCH ?
		  AND length(p.start_date) >= 4
		  AND CAST(substr(p.start_date, 1, 4) AS INTEGER) BETWEEN ? AND ?`
	if err := s.db.QueryRowContext(ctx, totalQuery, sanitizeFTSQuery(keyword), startYear, endYear).Scan(&total); err != nil {
		return 0, fmt.Errorf("project cross-border total: %w", err)
	}
	if total == 0 {
		return 0, nil
	}

	var crossBorder int
	crossQuery := `
		SELECT COUNT(*) FROM (
			SELECT p.id
			FROM projects_fts f
			JOIN projects p ON p.id = f.rowid
			JOIN organizations o ON o.project_id = p.id
			WHERE f.projects MATCH ?
			  AND length(p.start_date) >= 4
			  AND CAST(substr(p.start_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
			  AND o.country IS NOT NULL AND o.country != ''
			GROUP BY p.id
			HAVING COUNT(DISTINCT o.country) >= ?
		)`
	if err := s.db.QueryRowContext(ctx, crossQuery, sanitizeFTSQuery(keyword), startYear, endYear, minCountries).Scan(&crossBorder); err != nil {
		return 0, fmt.Errorf("project cross-border count: %w", err)
	}

	return float64(crossBorder) / float64(total), nil
}

// FundingByProgramme returns total EUR funding and project count per CORDIS
// framework programme.
func (s *ProjectStore) FundingByProgramme(ctx context.Context, keyword string, startYear, endYear int) ([]ProgrammeFundingRow, error) {
	query := `
		SELECT p.programme AS programme, SUM(p.funding_eur) AS total, COUNT(DISTINCT p.id) AS cnt
		FROM projects_fts f
		JOIN projects p ON p.id = f.rowid
		WHERE f.projects MATCH ?
		  AND length(p.start_date) >= 4
		  AND CAST(substr(p.start_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		  AND p.programme IS NOT NULL AND p.programme != ''
		GROUP BY programme
		ORDER BY total DESC`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("project funding by programme: %w", err)
	}
	defer rows.Close()

	var out []ProgrammeFundingRow
	for rows.Next() {
		var r ProgrammeFundingRow
		if err := rows.Scan(&r.Programme, &r.FundingEur, &r.Projects); err != nil {
			return nil, fmt.Errorf("scan programme funding row: %w", err)
		}
		out = append(out, r)
	}
	if out == nil {
		out = []ProgrammeFundingRow{}
	}
	return out, rows.Err()
}

// FundingTimeSeries returns total EUR funding and project count per start
// year, and per (year, programme) for the stacked breakdown.
func (s *ProjectStore) FundingTimeSeries(ctx context.Context, keyword string, startYear, endYear int) ([]YearFunding, []YearProgrammeFunding, error) {
	yearQuery := `
		SELECT substr(p.start_date, 1, 4) AS yr, SUM(p.funding_eur) AS total, COUNT(DISTINCT p.id) AS cnt
		FROM projects_fts f
		JOIN projects p ON p.id = f.rowid
		WHERE f.projects MATCH ?
		  AND length(p.start_date) >= 4
		  AND CAST(substr(p.start_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		GROUP BY yr
		ORDER BY yr ASC`

	rows, err := s.db.QueryContext(ctx, yearQuery, sanitizeFTSQuery(keyword), startYear, endYear)
	if err != nil {
		return nil, nil, fmt.Errorf("project funding time series: %w", err)
	}
	var years []YearFunding
	for rows.Next() {
		var yr YearFunding
		var yearStr string
		if err := rows.Scan(&yearStr, &yr.FundingEur, &yr.Projects); err != nil {
			rows.Close()
			return nil, nil, fmt.Errorf("scan funding year: %w", err)
		}
		yr.Year = parseYear(yearStr)
		years = append(years, yr)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	byProgrammeQuery := `
		SELECT substr(p.start_date, 1, 4) AS yr, p.programme AS programme, SUM(p.funding_eur) AS total, COUNT(DISTINCT p.id) AS cnt
		FROM projects_fts f
		JOIN projects p ON p.id = f.rowid
		WHERE f.projects MATCH ?
		  AND length(p.start_date) >= 4
		  AND CAST(substr(p.start_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		  AND p.programme IS NOT NULL AND p.programme != ''
		GROUP BY yr, programme
		ORDER BY yr ASC`

	rows2, err := s.db.QueryContext(ctx, byProgrammeQuery, sanitizeFTSQuery(keyword), startYear, endYear)
	if err != nil {
		return nil, nil, fmt.Errorf("project funding by year and programme: %w", err)
	}
	defer rows2.Close()

	var byProgramme []YearProgrammeFunding
	for rows2.Next() {
		var r YearProgrammeFunding
		var yearStr string
		if err := rows2.Scan(&yearStr, &r.Programme, &r.FundingEur, &r.Projects); err != nil {
			return nil, nil, fmt.Errorf("scan funding by year and programme: %w", err)
		}
		r.Year = parseYear(yearStr)
		byProgramme = append(byProgramme, r)
	}
	if years == nil {
		years = []YearFunding{}
	}
	if byProgramme == nil {
		byProgramme = []YearProgrammeFunding{}
	}
	return years, byProgramme, rows2.Err()
}

// InstrumentBreakdown returns counts and funding per (instrument, year),
// e.g. RIA/IA/CSA.
func (s *ProjectStore) InstrumentBreakdown(ctx context.Context, keyword string, startYear, endYear int) ([]InstrumentYearRow, error) {
	query := `
		SELECT p.funding_scheme AS instrument, substr(p.start_date, 1, 4) AS yr, COUNT(DISTINCT p.id) AS cnt, SUM(p.funding_eur) AS total
		FROM projects_fts f
		JOIN projects p ON p.id = f.rowid
		WHERE f.projects MATCH ?
		  AND length(p.start_date) >= 4
		  AND CAST(substr(p.start_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		  AND p.funding_scheme IS NOT NULL AND p.funding_scheme != ''
		GROUP BY instrument, yr
		ORDER BY yr ASC, total DESC`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("project instrument breakdown: %w", err)
	}
	defer rows.Close()

	var out []InstrumentYearRow
	for rows.Next() {
		var r InstrumentYearRow
		var yearStr string
		if err := rows.Scan(&r.Instrument, &yearStr, &r.Count, &r.FundingEur); err != nil {
			return nil, fmt.Errorf("scan instrument breakdown row: %w", err)
		}
		r.Year = parseYear(yearStr)
		out = append(out, r)
	}
	if out == nil {
		out = []InstrumentYearRow{}
	}
	return out, rows.Err()
}

// Completeness returns the most recent project start date recorded, used as
// input to the last-fully-covered-year rule.
func (s *ProjectStore) Completeness(ctx context.Context) (string, error) {
	var latest sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT MAX(start_date) FROM projects`).Scan(&latest)
	if err != nil {
		return "", fmt.Errorf("project completeness probe: %w", err)
	}
	return latest.String, nil
}

// CountryPair is an undirected, lexicographically ordered cross-border
// collaboration count between two countries.
type CountryPair struct {
	CountryA string
	CountryB string
	Count    int
}

// ProgrammeFundingRow is one framework programme's aggregate funding and
// project count.
type ProgrammeFundingRow struct {
	Programme  string
	FundingEur float64
	Projects   int
}

// YearFunding is one year's total funding and project count.
type YearFunding struct {
	Year       int
	FundingEur float64
	Projects   int
}

// YearProgrammeFunding is one (year, programme) cell of funding and project
// count.
type YearProgrammeFunding struct {
	Year       int
	Programme  string
	FundingEur float64
	Projects   int
}

// InstrumentYearRow is one (instrument, year) cell of funding instrument
// activity.
type InstrumentYearRow struct {
	Instrument string
	Year       int
	Count      int
	FundingEur float64
}

func parseYear(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}
