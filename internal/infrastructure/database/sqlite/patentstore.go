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

// ─────────────────────────────────────────────────────────────────────────────
// PatentStore
// ─────────────────────────────────────────────────────────────────────────────

// PatentStore is the read-only repository over the full-text-indexed patent
// database. Every method opens no state of its own beyond the shared pool;
// callers supply a context for cancellation.
type PatentStore struct {
	db            *sql.DB
	logger        logging.Logger
	hasApplicants bool
	hasCPC        bool
}

// NewPatentStore constructs a PatentStore and probes the schema once for the
// optional normalized tables (patent_applicants, patent_cpc) so subsequent
// queries can pick the richer join path without re-probing per call.
func NewPatentStore(ctx context.Context, db *sql.DB, logger logging.Logger) *PatentStore {
	return &PatentStore{
		db:            db,
		logger:        logger,
		hasApplicants: TableExists(ctx, db, "patent_applicants"),
		hasCPC:        TableExists(ctx, db, "patent_cpc"),
	}
}

// YearHistogram counts matching patents per publication year within
// [startYear, endYear], filtered by the FTS-indexed keyword.
func (s *PatentStore) YearHistogram(ctx context.Context, keyword string, startYear, endYear int) ([]kernel.YearCount, error) {
	query := `
		SELECT substr(d.publication_date, 1, 4) AS yr, COUNT(*) AS cnt
		FROM patents_fts f
		JOIN docs d ON d.id = f.rowid
		WHERE f.docs MATCH ?
		  AND length(d.publication_date) >= 4
		  AND CAST(substr(d.publication_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		GROUP BY yr
		ORDER BY yr ASC`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("patent year histogram: %w", err)
	}
	defer rows.Close()

	return scanYearCounts(rows)
}

// CountryHistogram returns the top `limit` applicant countries by matching
// patent count, descending.
func (s *PatentStore) CountryHistogram(ctx context.Context, keyword string, startYear, endYear, limit int) ([]kernel.CountryCount, error) {
	query := `
		SELECT d.applicant_country AS country, COUNT(*) AS cnt
		FROM patents_fts f
		JOIN docs d ON d.id = f.rowid
		WHERE f.docs MATCH ?
		  AND length(d.publication_date) >= 4
		  AND CAST(substr(d.publication_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		  AND d.applicant_country IS NOT NULL AND d.applicant_country != ''
		GROUP BY country
		ORDER BY cnt DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear, limit)
	if err != nil {
		return nil, fmt.Errorf("patent country histogram: %w", err)
	}
	defer rows.Close()

	return scanCountryCounts(rows)
}

// TopApplicants returns the top `limit` applicant names by distinct matching
// patent count. When the normalized patent_applicants/applicants tables are
// present it joins through them; otherwise it falls back to grouping on the
// denormalized applicant_names string, an acknowledged fidelity loss for
// multi-applicant filings.
func (s *PatentStore) TopApplicants(ctx context.Context, keyword string, startYear, endYear, limit int) ([]NamedCount, error) {
	if s.hasApplicants {
		query := `
			SELECT a.normalized_name AS name, COUNT(DISTINCT pa.patent_id) AS cnt
			FROM patents_fts f
			JOIN docs d ON d.id = f.rowid
			JOIN patent_applicants pa ON pa.patent_id = d.id
			JOIN applicants a ON a.id = pa.applicant_id
			WHERE f.docs MATCH ?
			  AND length(d.publication_date) >= 4
			  AND CAST(substr(d.publication_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
			GROUP BY a.normalized_name
			ORDER BY cnt DESC
			LIMIT ?`

		rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear, limit)
		if err != nil {
			return nil, fmt.Errorf("patent top applicants (normalized): %w", err)
		}
		defer rows.Close()
		return scanNamedCounts(rows)
	}

	query := `
		SELECT d.applicant_names AS name, COUNT(*) AS cnt
		FROM patents_fts f
		JOIN docs d ON d.id = f.rowid
		WHERE f.docs MATCH ?
		  AND length(d.publication_date) >= 4
		  AND CAST(substr(d.publication_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		  AND d.applicant_names IS NOT NULL AND d.applicant_names != ''
		GROUP BY name
		ORDER BY cnt DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear, limit)
	if err != nil {
		return nil, fmt.Errorf("patent top applicants (denormalized fallback): %w", err)
	}
	defer rows.Close()
	return scanNamedCounts(rows)
}

// NamedYearCount is a single (year, name, count) observation, used by the
// temporal engine to track actor activity per calendar year.
type NamedYearCount struct {
	Year  int
	Name  string
	Count int
}

// TopApplicantsByYear returns, for each year in range, the distinct
// matching-patent count per applicant name, capped at perYearLimit entries
// per year (0 means unlimited). Falls back to the denormalized
// applicant_names string identically to TopApplicants when the normalized
// tables are absent.
func (s *PatentStore) TopApplicantsByYear(ctx context.Context, keyword string, startYear, endYear, perYearLimit int) ([]NamedYearCount, error) {
	var query string
	if s.hasApplicants {
		query = `
			SELECT substr(d.publication_date, 1, 4) AS yr, a.normalized_name AS name, COUNT(DISTINCT pa.patent_id) AS cnt
			FROM patents_fts f
			JOIN docs d ON d.id = f.rowid
			JOIN patent_applicants pa ON pa.patent_id = d.id
			JOIN applicants a ON a.id = pa.applicant_id
			WHERE f.docs MATCH ?
			  AND length(d.publication_date) >= 4
			  AND CAST(substr(d.publication_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
			GROUP BY yr, a.normalized_name
			ORDER BY yr ASC, cnt DESC`
	} else {
		query = `
			SELECT substr(d.publication_date, 1, 4) AS yr, d.applicant_names AS name, COUNT(*) AS cnt
			FROM patents_fts f
			JOIN docs d ON d.id = f.rowid
			WHERE f.docs MATCH ?
			  AND length(d.publication_date) >= 4
			  AND CAST(substr(d.publication_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
			  AND d.applicant_names IS NOT NULL AND d.applicant_names != ''
			GROUP BY yr, name
			ORDER BY yr ASC, cnt DESC`
	}

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("patent top applicants by year: %w", err)
	}
	defer rows.Close()

	var out []NamedYearCount
	perYear := make(map[int]int)
	for rows.Next() {
		var yearStr, name string
		var count int
		if err := rows.Scan(&yearStr, &name, &count); err != nil {
			return nil, fmt.Errorf("scan applicant year count: %w", err)
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

// CoApplicantPairs self-joins the applicant-link table to find pairs of
// applicants that co-appear on the same patent, grouped into an undirected
// weight (co-filing count). Returns an empty slice, not an error, when the
// normalized applicant tables are absent — co-applicant pairs cannot be
// reconstructed from the denormalized string fallback.
func (s *PatentStore) CoApplicantPairs(ctx context.Context, keyword string, startYear, endYear int) ([]CoActorPair, error) {
	if !s.hasApplicants {
		return []CoActorPair{}, nil
	}

	query := `
		SELECT a1.normalized_name, a2.normalized_name, COUNT(DISTINCT pa1.patent_id) AS cnt
		FROM patents_fts f
		JOIN docs d ON d.id = f.rowid
		JOIN patent_applicants pa1 ON pa1.patent_id = d.id
		JOIN patent_applicants pa2 ON pa2.patent_id = d.id AND pa2.applicant_id > pa1.applicant_id
		JOIN applicants a1 ON a1.id = pa1.applicant_id
		JOIN applicants a2 ON a2.id = pa2.applicant_id
		WHERE f.docs MATCH ?
		  AND length(d.publication_date) >= 4
		  AND CAST(substr(d.publication_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		GROUP BY a1.normalized_name, a2.normalized_name
		ORDER BY cnt DESC`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear)
	if err != nil {
		return nil, fmt.Errorf("patent co-applicant pairs: %w", err)
	}
	defer rows.Close()

	var out []CoActorPair
	for rows.Next() {
		var p CoActorPair
		if err := rows.Scan(&p.A, &p.B, &p.Weight); err != nil {
			return nil, fmt.Errorf("scan co-applicant pair: %w", err)
		}
		out = append(out, p)
	}
	if out == nil {
		out = []CoActorPair{}
	}
	return out, rows.Err()
}

// FamilyYearCounts returns COUNT(DISTINCT family_id) per year, used by the
// maturity engine in preference to raw patent counts. ok is false when the
// family_id column is absent or entirely null, signalling the caller should
// fall back to raw YearHistogram counts.
func (s *PatentStore) FamilyYearCounts(ctx context.Context, keyword string, startYear, endYear int) (counts []kernel.YearCount, ok bool, err error) {
	query := `
		SELECT substr(d.publication_date, 1, 4) AS yr, COUNT(DISTINCT d.family_id) AS cnt
		FROM patents_fts f
		JOIN docs d ON d.id = f.rowid
		WHERE f.docs MATCH ?
		  AND length(d.publication_date) >= 4
		  AND CAST(substr(d.publication_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		  AND d.family_id IS NOT NULL AND d.family_id != ''
		GROUP BY yr
		ORDER BY yr ASC`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear)
	if err != nil {
		return nil, false, fmt.Errorf("patent family year counts: %w", err)
	}
	defer rows.Close()

	counts, err = scanYearCounts(rows)
	if err != nil {
		return nil, false, err
	}
	return counts, len(counts) > 0, nil
}

// CPCJaccard computes the Jaccard co-occurrence matrix for the top-N CPC
// codes among matching patents via the SQL-native temp-table path described
// for patent_cpc. ok is false when patent_cpc is absent, signalling the
// caller should use the in-process sampling fallback instead.
func (s *PatentStore) CPCJaccard(ctx context.Context, keyword string, startYear, endYear, topN, cpcLevel int) (matrix kernel.CooccurrenceMatrix, perCodeCounts map[string]int, perYearCounts map[string]map[string]int, perYearPairs map[string]map[string]int, ok bool, err error) {
	if !s.hasCPC {
		return kernel.CooccurrenceMatrix{}, nil, nil, nil, false, nil
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return kernel.CooccurrenceMatrix{}, nil, nil, nil, false, fmt.Errorf("begin cpc jaccard tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `CREATE TEMP TABLE IF NOT EXISTS matching_patents AS
		SELECT d.id AS patent_id, substr(d.publication_date, 1, 4) AS yr
		FROM patents_fts f
		JOIN docs d ON d.id = f.rowid
		WHERE f.docs MATCH ?
		  AND length(d.publication_date) >= 4
		  AND CAST(substr(d.publication_date, 1, 4) AS INTEGER) BETWEEN ? AND ?`,
		sanitizeFTSQuery(keyword), startYear, endYear); err != nil {
		return kernel.CooccurrenceMatrix{}, nil, nil, nil, false, fmt.Errorf("materialize matching patents: %w", err)
	}
	defer tx.ExecContext(ctx, `DROP TABLE IF EXISTS matching_patents`)

	topQuery := `
		SELECT substr(c.code, 1, ?) AS code, COUNT(DISTINCT c.patent_id) AS cnt
		FROM patent_cpc c
		JOIN matching_patents m ON m.patent_id = c.patent_id
		GROUP BY code
		ORDER BY cnt DESC
		LIMIT ?`
	rows, err := tx.QueryContext(ctx, topQuery, cpcLevel, topN)
	if err != nil {
		return kernel.CooccurrenceMatrix{}, nil, nil, nil, false, fmt.Errorf("cpc top codes: %w", err)
	}
	perCodeCounts = make(map[string]int)
	var ranked []string
	for rows.Next() {
		var code string
		var cnt int
		if err := rows.Scan(&code, &cnt); err != nil {
			rows.Close()
			return kernel.CooccurrenceMatrix{}, nil, nil, nil, false, fmt.Errorf("scan cpc top code: %w", err)
		}
		perCodeCounts[code] = cnt
		ranked = append(ranked, code)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return kernel.CooccurrenceMatrix{}, nil, nil, nil, false, err
	}

	items := make([]kernel.CodedItem, 0)
	itemQuery := `
		SELECT m.patent_id, m.yr, substr(c.code, 1, ?) AS code
		FROM matching_patents m
		JOIN patent_cpc c ON c.patent_id = m.patent_id`
	itemRows, err := tx.QueryContext(ctx, itemQuery, cpcLevel)
	if err != nil {
		return kernel.CooccurrenceMatrix{}, nil, nil, nil, false, fmt.Errorf("cpc item codes: %w", err)
	}
	defer itemRows.Close()

	byPatent := make(map[string]*kernel.CodedItem)
	order := make([]string, 0)
	for itemRows.Next() {
		var patentID, yearStr, code string
		if err := itemRows.Scan(&patentID, &yearStr, &code); err != nil {
			return kernel.CooccurrenceMatrix{}, nil, nil, nil, false, fmt.Errorf("scan cpc item: %w", err)
		}
		it, exists := byPatent[patentID]
		if !exists {
			year, _ := strconv.Atoi(yearStr)
			it = &kernel.CodedItem{Codes: map[string]struct{}{}, Year: year}
			byPatent[patentID] = it
			order = append(order, patentID)
		}
		it.Codes[code] = struct{}{}
	}
	for _, id := range order {
		items = append(items, *byPatent[id])
	}

	matrix = kernel.BuildCooccurrence(items, topN)

	perYearCounts = make(map[string]map[string]int)
	perYearPairs = make(map[string]map[string]int)
	for _, it := range items {
		yr := strconv.Itoa(it.Year)
		if _, ok := perYearCounts[yr]; !ok {
			perYearCounts[yr] = make(map[string]int)
		}
		codes := make([]string, 0, len(it.Codes))
		for c := range it.Codes {
			codes = append(codes, c)
		}
		for _, c := range codes {
			perYearCounts[yr][c]++
		}
		if _, ok := perYearPairs[yr]; !ok {
			perYearPairs[yr] = make(map[string]int)
		}
		for i := 0; i < len(codes); i++ {
			for j := i + 1; j < len(codes); j++ {
				a, b := codes[i], codes[j]
				if a > b {
					a, b = b, a
				}
				perYearPairs[yr][a+"|"+b]++
			}
		}
	}

	return matrix, perCodeCounts, perYearCounts, perYearPairs, true, nil
}

// DenormalizedCPCCodes is one patent's raw comma-separated CPC code string
// paired with its publication year, used by the CPC-flow engine's sampling
// fallback when patent_cpc is absent.
type DenormalizedCPCCodes struct {
	RawCodes string
	Year     int
}

// DenormalizedCPCWithYears returns up to limit matching patents' raw
// cpc_codes string and publication year, for callers building co-occurrence
// sets in-process when the normalized patent_cpc table is unavailable.
func (s *PatentStore) DenormalizedCPCWithYears(ctx context.Context, keyword string, startYear, endYear, limit int) ([]DenormalizedCPCCodes, error) {
	query := `
		SELECT d.cpc_codes, substr(d.publication_date, 1, 4) AS yr
		FROM patents_fts f
		JOIN docs d ON d.id = f.rowid
		WHERE f.docs MATCH ?
		  AND d.cpc_codes IS NOT NULL AND d.cpc_codes != ''
		  AND length(d.publication_date) >= 4
		  AND CAST(substr(d.publication_date, 1, 4) AS INTEGER) BETWEEN ? AND ?
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSQuery(keyword), startYear, endYear, limit)
	if err != nil {
		return nil, fmt.Errorf("patent denormalized cpc codes: %w", err)
	}
	defer rows.Close()

	var out []DenormalizedCPCCodes
	for rows.Next() {
		var raw, yearStr string
		if err := rows.Scan(&raw, &yearStr); err != nil {
			return nil, fmt.Errorf("scan denormalized cpc row: %w", err)
		}
		year, err := strconv.Atoi(strings.TrimSpace(yearStr))
		if err != nil {
			continue
		}
		out = append(out, DenormalizedCPCCodes{RawCodes: raw, Year: year})
	}
	if out == nil {
		out = []DenormalizedCPCCodes{}
	}
	return out, rows.Err()
}

// Suggest returns up to limit distinct patent titles whose FTS-indexed text
// matches prefix as a leading-term query, most recent publication first. It
// backs the free-text autocomplete endpoint and never returns an error for
// an empty result set.
func (s *PatentStore) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	trimmed := strings.TrimSpace(prefix)
	if trimmed == "" {
		return []string{}, nil
	}

	query := `
		SELECT DISTINCT d.title
		FROM patents_fts f
		JOIN docs d ON d.id = f.rowid
		WHERE f.docs MATCH ?
		  AND d.title IS NOT NULL AND d.title != ''
		ORDER BY d.publication_date DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, sanitizeFTSPrefixQuery(trimmed), limit)
	if err != nil {
		return nil, fmt.Errorf("patent title suggest: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, limit)
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		out = append(out, title)
	}
	return out, rows.Err()
}

// Completeness returns the most recent publication date string recorded in
// the patent store, used as input to the last-fully-covered-year rule.
func (s *PatentStore) Completeness(ctx context.Context) (string, error) {
	var latest sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT MAX(publication_date) FROM docs`).Scan(&latest)
	if err != nil {
		return "", fmt.Errorf("patent completeness probe: %w", err)
	}
	return latest.String, nil
}

// CoActorPair is an undirected co-occurrence edge between two named actors.
type CoActorPair struct {
	A      string
	B      string
	Weight int
}

// NamedCount is a single (name, count) observation for entities keyed by a
// free-text name rather than a country code (applicant, organization).
type NamedCount struct {
	Name  string
	Count int
}

func scanNamedCounts(rows *sql.Rows) ([]NamedCount, error) {
	var out []NamedCount
	for rows.Next() {
		var nc NamedCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("scan named count: %w", err)
		}
		out = append(out, nc)
	}
	if out == nil {
		out = []NamedCount{}
	}
	return out, rows.Err()
}

func scanYearCounts(rows *sql.Rows) ([]kernel.YearCount, error) {
	var out []kernel.YearCount
	for rows.Next() {
		var yearStr string
		var count int
		if err := rows.Scan(&yearStr, &count); err != nil {
			return nil, fmt.Errorf("scan year count: %w", err)
		}
		year, err := strconv.Atoi(strings.TrimSpace(yearStr))
		if err != nil {
			continue
		}
		out = append(out, kernel.YearCount{Year: year, Count: count})
	}
	if out == nil {
		out = []kernel.YearCount{}
	}
	return out, rows.Err()
}

func scanCountryCounts(rows *sql.Rows) ([]kernel.CountryCount, error) {
	var out []kernel.CountryCount
	for rows.Next() {
		var cc kernel.CountryCount
		if err := rows.Scan(&cc.Country, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan country count: %w", err)
		}
		out = append(out, cc)
	}
	if out == nil {
		out = []kernel.CountryCount{}
	}
	return out, rows.Err()
}
