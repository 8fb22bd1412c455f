package labserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"outlierlab/domain/core"
	"outlierlab/domain/table"
)

const storeSchema = `
CREATE TABLE IF NOT EXISTS saved_datasets (
	name              TEXT PRIMARY KEY,
	payload           TEXT NOT NULL,
	data_count        INTEGER NOT NULL,
	sample_name       TEXT NOT NULL DEFAULT '',
	production_date   TEXT NOT NULL DEFAULT '',
	pass_count        INTEGER NOT NULL DEFAULT 1,
	custom_field_name TEXT NOT NULL DEFAULT '',
	saved_at          TEXT NOT NULL
);`

// SavedDataset is one persisted session snapshot.
type SavedDataset struct {
	Name            string
	SampleName      string
	ProductionDate  string
	PassCount       int
	CustomFieldName string
	Table           *table.Dataset
}

// DatasetListing is one row of the saved-dataset index.
type DatasetListing struct {
	Name      string `db:"name"`
	DataCount int    `db:"data_count"`
}

// ErrDatasetNotFound reports a lookup by unknown name.
var ErrDatasetNotFound = errors.New("dataset not found")

// DatasetStore persists named session snapshots in sqlite. Saving under an
// existing name overwrites it.
type DatasetStore struct {
	db *sqlx.DB
}

// OpenStore opens (and migrates) the dataset store. Use ":memory:" for a
// process-local store.
func OpenStore(path string) (*DatasetStore, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open dataset store: %w", err)
	}
	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate dataset store: %w", err)
	}
	return &DatasetStore{db: db}, nil
}

// Close releases the underlying database.
func (s *DatasetStore) Close() error {
	return s.db.Close()
}

// Save upserts one snapshot. The listing's data_count is the number of rows
// valid in both measurement dimensions at save time.
func (s *DatasetStore) Save(d SavedDataset) error {
	payload, err := json.Marshal(d.Table)
	if err != nil {
		return fmt.Errorf("encode dataset %q: %w", d.Name, err)
	}
	sizes, _ := d.Table.ValidPairs()
	_, err = s.db.Exec(`
		INSERT INTO saved_datasets
			(name, payload, data_count, sample_name, production_date, pass_count, custom_field_name, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			payload = excluded.payload,
			data_count = excluded.data_count,
			sample_name = excluded.sample_name,
			production_date = excluded.production_date,
			pass_count = excluded.pass_count,
			custom_field_name = excluded.custom_field_name,
			saved_at = excluded.saved_at`,
		d.Name, string(payload), len(sizes),
		d.SampleName, d.ProductionDate, d.PassCount, d.CustomFieldName,
		core.Now().String())
	if err != nil {
		return fmt.Errorf("save dataset %q: %w", d.Name, err)
	}
	return nil
}

// Load restores one snapshot by name.
func (s *DatasetStore) Load(name string) (*SavedDataset, error) {
	var row struct {
		Payload         string `db:"payload"`
		SampleName      string `db:"sample_name"`
		ProductionDate  string `db:"production_date"`
		PassCount       int    `db:"pass_count"`
		CustomFieldName string `db:"custom_field_name"`
	}
	err := s.db.Get(&row, `
		SELECT payload, sample_name, production_date, pass_count, custom_field_name
		FROM saved_datasets WHERE name = ?`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDatasetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset %q: %w", name, err)
	}

	dataset := table.New()
	if err := json.Unmarshal([]byte(row.Payload), dataset); err != nil {
		return nil, fmt.Errorf("decode dataset %q: %w", name, err)
	}
	return &SavedDataset{
		Name:            name,
		SampleName:      row.SampleName,
		ProductionDate:  row.ProductionDate,
		PassCount:       row.PassCount,
		CustomFieldName: row.CustomFieldName,
		Table:           dataset,
	}, nil
}

// Delete removes one snapshot by name.
func (s *DatasetStore) Delete(name string) error {
	res, err := s.db.Exec(`DELETE FROM saved_datasets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete dataset %q: %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDatasetNotFound
	}
	return nil
}

// List returns the saved-dataset index, newest first.
func (s *DatasetStore) List() ([]DatasetListing, error) {
	var listings []DatasetListing
	err := s.db.Select(&listings, `
		SELECT name, data_count FROM saved_datasets ORDER BY saved_at DESC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	return listings, nil
}
