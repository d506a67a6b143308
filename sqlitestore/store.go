// Package sqlitestore keeps medrec snapshots in a SQLite database file, as an
// alternative to the plain text record file.
package sqlitestore

import (
	"database/sql"
	"iter"

	_ "modernc.org/sqlite"

	"github.com/yeqown/medrec"
)

var _ medrec.Persister = (*Store)(nil)

const (
	createTable = `
	CREATE TABLE IF NOT EXISTS patients (
		seq             INTEGER PRIMARY KEY,
		name            TEXT NOT NULL UNIQUE,
		age             INTEGER NOT NULL,
		gender          TEXT NOT NULL,
		medical_history TEXT NOT NULL,
		diagnosis       TEXT NOT NULL,
		prescription    TEXT NOT NULL
	);`

	insertPatient = `INSERT INTO patients
		(seq, name, age, gender, medical_history, diagnosis, prescription)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	selectPatients = `SELECT name, age, gender, medical_history, diagnosis, prescription
		FROM patients ORDER BY seq ASC`
)

// Store is a SQLite backed medrec.Persister. Save replaces the whole table in
// one transaction, so a failed save leaves the previous snapshot in place.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens, or creates, the database file at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, medrec.WrapIO(err, "sqlitestore.Open")
	}

	if _, err = db.Exec(createTable); err != nil {
		_ = db.Close()
		return nil, medrec.WrapIO(err, "sqlitestore.Open could not init table")
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Save(records iter.Seq[*medrec.Record]) (err error) {
	tx, err := s.db.Begin()
	if err != nil {
		return medrec.WrapIO(err, "sqlitestore.Save could not begin")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM patients"); err != nil {
		return medrec.WrapIO(err, "sqlitestore.Save could not truncate")
	}

	stmt, err := tx.Prepare(insertPatient)
	if err != nil {
		return medrec.WrapIO(err, "sqlitestore.Save could not prepare")
	}
	defer stmt.Close()

	seq := 0
	for rec := range records {
		seq++
		if _, err = stmt.Exec(seq, rec.Name, rec.Age, rec.Gender,
			rec.MedicalHistory, rec.Diagnosis, rec.Prescription); err != nil {
			return medrec.WrapIO(err, "sqlitestore.Save could not insert "+rec.Name)
		}
	}

	if err = tx.Commit(); err != nil {
		return medrec.WrapIO(err, "sqlitestore.Save could not commit")
	}

	return nil
}

// Load hands every stored row to insert, rows with an empty name or negative age
// are skipped.
func (s *Store) Load(insert func(*medrec.Record)) (skipped int, err error) {
	rows, err := s.db.Query(selectPatients)
	if err != nil {
		return 0, medrec.WrapIO(err, "sqlitestore.Load could not query")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rec          medrec.Record
			gender       sql.NullString
			history      sql.NullString
			diagnosis    sql.NullString
			prescription sql.NullString
		)
		if err = rows.Scan(&rec.Name, &rec.Age, &gender, &history, &diagnosis, &prescription); err != nil {
			skipped++
			continue
		}
		if rec.Name == "" || rec.Age < 0 {
			skipped++
			continue
		}

		rec.Gender = gender.String
		rec.MedicalHistory = history.String
		rec.Diagnosis = diagnosis.String
		rec.Prescription = prescription.String
		insert(&rec)
	}

	if err = rows.Err(); err != nil {
		return skipped, medrec.WrapIO(err, "sqlitestore.Load could not iterate")
	}

	return skipped, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
