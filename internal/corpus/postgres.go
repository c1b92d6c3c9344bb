package corpus

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/ppiankov/claimtrackr/internal/model"
)

// PostgresStore keeps claims in a Postgres table ordered by a serial column
type PostgresStore struct {
	db      *sql.DB
	dialect goqu.DialectWrapper
	table   string
}

// OpenPostgres connects to dsn and returns a store on table
func OpenPostgres(ctx context.Context, dsn, table string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgresStore(db, table), nil
}

// NewPostgresStore wraps an existing connection
func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	if table == "" {
		table = "claims"
	}
	return &PostgresStore{
		db:      db,
		dialect: goqu.Dialect("postgres"),
		table:   table,
	}
}

// Migrate creates the claims table if it does not exist
func (s *PostgresStore) Migrate(ctx context.Context) error {
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	seq BIGSERIAL PRIMARY KEY,
	id TEXT NOT NULL UNIQUE,
	patient_name TEXT NOT NULL DEFAULT '',
	diagnosis TEXT NOT NULL DEFAULT '',
	amount TEXT NOT NULL DEFAULT '',
	claim_date TEXT NOT NULL DEFAULT '',
	medical_facility TEXT NOT NULL DEFAULT '',
	claim_type TEXT NOT NULL DEFAULT ''
)`, pq.QuoteIdentifier(s.table))

	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create claims table: %w", err)
	}
	return nil
}

// Append inserts a claim; seq assigns its position
func (s *PostgresStore) Append(ctx context.Context, claim model.Claim) error {
	record := goqu.Record{
		"id":               claim.ID,
		"patient_name":     claim.PatientName,
		"diagnosis":        claim.Diagnosis,
		"amount":           claim.Amount,
		"claim_date":       claim.Date,
		"medical_facility": claim.MedicalFacility,
		"claim_type":       string(claim.ClaimType),
	}

	query, args, err := s.dialect.Insert(s.table).Rows(record).ToSQL()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert claim: %w", err)
	}
	return nil
}

// List reads every claim ordered by seq
func (s *PostgresStore) List(ctx context.Context) ([]model.Claim, error) {
	query, args, err := s.dialect.From(s.table).
		Select("id", "patient_name", "diagnosis", "amount", "claim_date", "medical_facility", "claim_type").
		Order(goqu.C("seq").Asc()).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query claims: %w", err)
	}
	defer func() { _ = rows.Close() }()

	claims := []model.Claim{}
	for rows.Next() {
		var c model.Claim
		var claimType string
		if err := rows.Scan(&c.ID, &c.PatientName, &c.Diagnosis, &c.Amount, &c.Date, &c.MedicalFacility, &claimType); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		c.ClaimType = model.ClaimType(claimType)
		claims = append(claims, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claims: %w", err)
	}

	return claims, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
