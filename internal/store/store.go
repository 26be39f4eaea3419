// Package store persists claims and publication summaries in SQLite. The
// database is a local cache of everything harvested so far: claims are
// deduplicated on claim_uid, and entity assembly replays them from here
// instead of refetching the sources.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/linkedscience/crosswalk/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS claims (
	claim_uid           TEXT PRIMARY KEY,
	claim_id            TEXT NOT NULL,
	claim_created       TEXT NOT NULL,
	claim_source        TEXT NOT NULL,
	reference           TEXT NOT NULL,
	subject_instance_of TEXT NOT NULL,
	subject_label       TEXT NOT NULL,
	subject_identifiers TEXT,
	property_label      TEXT NOT NULL,
	object_instance_of  TEXT NOT NULL,
	object_label        TEXT NOT NULL,
	object_identifiers  TEXT,
	flattened_identifiers TEXT,
	object_qualifier    TEXT,
	date_qualifier      TEXT NOT NULL,
	subject_email       TEXT,
	subject_orcid       TEXT,
	subject_doi         TEXT
);
CREATE INDEX IF NOT EXISTS idx_claims_subject_label ON claims(subject_label);
CREATE INDEX IF NOT EXISTS idx_claims_subject_email ON claims(subject_email);
CREATE INDEX IF NOT EXISTS idx_claims_subject_orcid ON claims(subject_orcid);
CREATE INDEX IF NOT EXISTS idx_claims_subject_doi   ON claims(subject_doi);

CREATE TABLE IF NOT EXISTS publication_summaries (
	uri                TEXT PRIMARY KEY,
	warehouse_id       TEXT,
	title              TEXT NOT NULL,
	doi                TEXT,
	abstract           TEXT,
	publisher          TEXT,
	publication_year   TEXT,
	publication_type   TEXT,
	series_title       TEXT,
	last_modified_date TEXT,
	summary_created    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sentences (
	uri      TEXT NOT NULL,
	source   TEXT NOT NULL,
	position INTEGER NOT NULL,
	text     TEXT NOT NULL,
	PRIMARY KEY (uri, position)
);

CREATE TABLE IF NOT EXISTS persons (
	uri               TEXT PRIMARY KEY,
	display_name      TEXT NOT NULL,
	aliases           TEXT,
	email             TEXT,
	orcid             TEXT,
	active            INTEGER NOT NULL,
	job_title         TEXT,
	organization_name TEXT,
	organization_uri  TEXT,
	identifiers       TEXT
);
CREATE INDEX IF NOT EXISTS idx_persons_email ON persons(email);
`

// Store wraps the SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// SaveClaims inserts the claims, skipping any claim_uid already present.
// Returns the number of newly inserted claims.
func (s *Store) SaveClaims(ctx context.Context, claims []model.Claim) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO claims (
		claim_uid, claim_id, claim_created, claim_source, reference,
		subject_instance_of, subject_label, subject_identifiers,
		property_label, object_instance_of, object_label, object_identifiers,
		flattened_identifiers, object_qualifier, date_qualifier,
		subject_email, subject_orcid, subject_doi
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, c := range claims {
		if c.ClaimUID == "" {
			return inserted, fmt.Errorf("claim %q has no uid, fingerprint it first", c.ClaimID)
		}
		subjectIDs, err := encodeIdentifiers(c.SubjectIdentifiers)
		if err != nil {
			return inserted, err
		}
		objectIDs, err := encodeIdentifiers(c.ObjectIdentifiers)
		if err != nil {
			return inserted, err
		}
		flattened, err := encodeIdentifiers(c.Flattened)
		if err != nil {
			return inserted, err
		}

		res, err := stmt.ExecContext(ctx,
			c.ClaimUID, c.ClaimID, c.ClaimCreated, c.ClaimSource, c.Reference,
			c.SubjectInstanceOf, c.SubjectLabel, subjectIDs,
			c.PropertyLabel, c.ObjectInstanceOf, c.ObjectLabel, objectIDs,
			flattened, c.ObjectQualifier, c.DateQualifier,
			c.Flattened["subject_identifier_email"],
			c.Flattened["subject_identifier_orcid"],
			c.Flattened["subject_identifier_doi"],
		)
		if err != nil {
			return inserted, fmt.Errorf("insert claim %s: %w", c.ClaimUID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			inserted += int(n)
		}
	}

	if err := tx.Commit(); err != nil {
		return inserted, fmt.Errorf("commit: %w", err)
	}
	return inserted, nil
}

// ClaimsBySubjectLabel replays every claim whose subject carries the label.
func (s *Store) ClaimsBySubjectLabel(ctx context.Context, label string) ([]model.Claim, error) {
	return s.queryClaims(ctx, "subject_label = ?", label)
}

// ClaimsBySubjectIdentifier replays every claim whose subject carries the
// identifier. Only the indexed schemes (email, orcid, doi) are supported.
func (s *Store) ClaimsBySubjectIdentifier(ctx context.Context, scheme model.Scheme, value string) ([]model.Claim, error) {
	switch scheme {
	case model.SchemeEmail:
		return s.queryClaims(ctx, "subject_email = ?", value)
	case model.SchemeORCID:
		return s.queryClaims(ctx, "subject_orcid = ?", value)
	case model.SchemeDOI:
		return s.queryClaims(ctx, "subject_doi = ?", value)
	default:
		return nil, fmt.Errorf("scheme %q is not indexed", scheme)
	}
}

func (s *Store) queryClaims(ctx context.Context, where string, args ...any) ([]model.Claim, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT
		claim_uid, claim_id, claim_created, claim_source, reference,
		subject_instance_of, subject_label, subject_identifiers,
		property_label, object_instance_of, object_label, object_identifiers,
		flattened_identifiers, object_qualifier, date_qualifier
	FROM claims WHERE `+where+` ORDER BY claim_source, claim_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}
	defer rows.Close()

	var claims []model.Claim
	for rows.Next() {
		var c model.Claim
		var subjectIDs, objectIDs, flattened sql.NullString
		if err := rows.Scan(
			&c.ClaimUID, &c.ClaimID, &c.ClaimCreated, &c.ClaimSource, &c.Reference,
			&c.SubjectInstanceOf, &c.SubjectLabel, &subjectIDs,
			&c.PropertyLabel, &c.ObjectInstanceOf, &c.ObjectLabel, &objectIDs,
			&flattened, &c.ObjectQualifier, &c.DateQualifier,
		); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		if c.SubjectIdentifiers, err = decodeIdentifiers(subjectIDs); err != nil {
			return nil, err
		}
		if c.ObjectIdentifiers, err = decodeIdentifiers(objectIDs); err != nil {
			return nil, err
		}
		if c.Flattened, err = decodeIdentifiers(flattened); err != nil {
			return nil, err
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

// SaveSummary upserts a publication summary and replaces its sentences.
func (s *Store) SaveSummary(ctx context.Context, sum *model.PublicationSummary, sentences []model.Sentence) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO publication_summaries (
		uri, warehouse_id, title, doi, abstract, publisher,
		publication_year, publication_type, series_title,
		last_modified_date, summary_created
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(uri) DO UPDATE SET
		warehouse_id = excluded.warehouse_id,
		title = excluded.title,
		doi = excluded.doi,
		abstract = excluded.abstract,
		publisher = excluded.publisher,
		publication_year = excluded.publication_year,
		publication_type = excluded.publication_type,
		series_title = excluded.series_title,
		last_modified_date = excluded.last_modified_date,
		summary_created = excluded.summary_created`,
		sum.URI, sum.WarehouseID, sum.Title, sum.DOI, sum.Abstract, sum.Publisher,
		sum.PublicationYear, sum.PublicationType, sum.SeriesTitle,
		sum.LastModifiedDate, sum.SummaryCreated,
	); err != nil {
		return fmt.Errorf("upsert summary %s: %w", sum.URI, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sentences WHERE uri = ?`, sum.URI); err != nil {
		return fmt.Errorf("clear sentences %s: %w", sum.URI, err)
	}
	for _, sent := range sentences {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sentences (uri, source, position, text) VALUES (?, ?, ?, ?)`,
			sent.URI, sent.Source, sent.Position, sent.Text,
		); err != nil {
			return fmt.Errorf("insert sentence %s/%d: %w", sent.URI, sent.Position, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Summary loads one publication summary with its sentences, or (nil, nil,
// nil) when the URI is unknown.
func (s *Store) Summary(ctx context.Context, uri string) (*model.PublicationSummary, []model.Sentence, error) {
	var sum model.PublicationSummary
	err := s.db.QueryRowContext(ctx, `SELECT
		uri, warehouse_id, title, doi, abstract, publisher,
		publication_year, publication_type, series_title,
		last_modified_date, summary_created
	FROM publication_summaries WHERE uri = ?`, uri).Scan(
		&sum.URI, &sum.WarehouseID, &sum.Title, &sum.DOI, &sum.Abstract, &sum.Publisher,
		&sum.PublicationYear, &sum.PublicationType, &sum.SeriesTitle,
		&sum.LastModifiedDate, &sum.SummaryCreated,
	)
	if err == sql.ErrNoRows {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load summary %s: %w", uri, err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT uri, source, position, text FROM sentences WHERE uri = ? ORDER BY position`, uri)
	if err != nil {
		return nil, nil, fmt.Errorf("load sentences %s: %w", uri, err)
	}
	defer rows.Close()

	var sentences []model.Sentence
	for rows.Next() {
		var sent model.Sentence
		if err := rows.Scan(&sent.URI, &sent.Source, &sent.Position, &sent.Text); err != nil {
			return nil, nil, fmt.Errorf("scan sentence: %w", err)
		}
		sentences = append(sentences, sent)
	}
	return &sum, sentences, rows.Err()
}

// SavePerson upserts a summarized directory person record keyed by URI.
func (s *Store) SavePerson(ctx context.Context, rec *model.PersonRecord) error {
	if rec.URI == "" {
		return fmt.Errorf("person record has no uri")
	}
	aliases, err := encodeJSON(rec.Aliases)
	if err != nil {
		return err
	}
	identifiers, err := encodeJSON(rec.Identifiers)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `INSERT INTO persons (
		uri, display_name, aliases, email, orcid, active,
		job_title, organization_name, organization_uri, identifiers
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(uri) DO UPDATE SET
		display_name = excluded.display_name,
		aliases = excluded.aliases,
		email = excluded.email,
		orcid = excluded.orcid,
		active = excluded.active,
		job_title = excluded.job_title,
		organization_name = excluded.organization_name,
		organization_uri = excluded.organization_uri,
		identifiers = excluded.identifiers`,
		rec.URI, rec.DisplayName, aliases, rec.Email, rec.ORCID, rec.Active,
		rec.JobTitle, rec.OrgName, rec.OrgURI, identifiers,
	); err != nil {
		return fmt.Errorf("upsert person %s: %w", rec.URI, err)
	}
	return nil
}

// Person loads one summarized person record, or (nil, nil) when the URI is
// unknown.
func (s *Store) Person(ctx context.Context, uri string) (*model.PersonRecord, error) {
	var rec model.PersonRecord
	var aliases, identifiers sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT
		uri, display_name, aliases, email, orcid, active,
		job_title, organization_name, organization_uri, identifiers
	FROM persons WHERE uri = ?`, uri).Scan(
		&rec.URI, &rec.DisplayName, &aliases, &rec.Email, &rec.ORCID, &rec.Active,
		&rec.JobTitle, &rec.OrgName, &rec.OrgURI, &identifiers,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load person %s: %w", uri, err)
	}

	if err := decodeJSON(aliases, &rec.Aliases); err != nil {
		return nil, err
	}
	if err := decodeJSON(identifiers, &rec.Identifiers); err != nil {
		return nil, err
	}
	return &rec, nil
}

// CountClaims reports the total number of stored claims.
func (s *Store) CountClaims(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM claims`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}
	return n, nil
}

func encodeIdentifiers(ids map[string]string) (sql.NullString, error) {
	if len(ids) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode identifiers: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeIdentifiers(raw sql.NullString) (map[string]string, error) {
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}
	ids := map[string]string{}
	if err := json.Unmarshal([]byte(raw.String), &ids); err != nil {
		return nil, fmt.Errorf("decode identifiers: %w", err)
	}
	return ids, nil
}

func encodeJSON(v any) (sql.NullString, error) {
	switch val := v.(type) {
	case []string:
		if len(val) == 0 {
			return sql.NullString{}, nil
		}
	case []model.PersonIdentifier:
		if len(val) == 0 {
			return sql.NullString{}, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("encode field: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeJSON(raw sql.NullString, v any) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.String), v); err != nil {
		return fmt.Errorf("decode field: %w", err)
	}
	return nil
}
