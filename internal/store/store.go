// Package store implements a small document store on top of sqlite. Each
// logical collection is a table of JSON documents addressed by a
// store-assigned integer id, in the spirit of a file-backed document
// database: point lookups and searches are full scans filtered by a
// predicate value constructed fresh per call.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
)

// Collection names. Only these tables exist; validating against the list
// keeps table names out of reach of caller input.
const (
	TableUsers  = "users"
	TablePosts  = "posts"
	TableLikes  = "likes"
	TableEvents = "events"
)

var knownTables = map[string]bool{
	TableUsers:  true,
	TablePosts:  true,
	TableLikes:  true,
	TableEvents: true,
}

// Record is a stored document together with its assigned id.
type Record struct {
	ID   int64
	Data []byte
}

// Decode unmarshals the document into v.
func (r Record) Decode(v interface{}) error {
	return json.Unmarshal(r.Data, v)
}

// Predicate selects records during a scan. Predicates must be pure
// functions of the record; they are evaluated in id order.
type Predicate func(r Record) bool

// ByID matches the record with the given id.
func ByID(id int64) Predicate {
	return func(r Record) bool { return r.ID == id }
}

// Store provides insert, lookup, search, update and remove over the
// document tables. The store offers per-document atomicity only; callers
// that need a check-then-act sequence or a two-document write to be atomic
// within this process hold the store-wide lock via Lock for the duration.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a Store over an already-migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Lock acquires the store-wide write lock so a caller can make a
// check-then-act sequence of store calls atomic with respect to other
// writers. The returned function releases the lock.
func (s *Store) Lock() func() {
	s.mu.Lock()
	return s.mu.Unlock
}

// Insert stores doc in table and returns the assigned id.
func (s *Store) Insert(table string, doc interface{}) (int64, error) {
	if !knownTables[table] {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("encode document: %w", err)
	}
	res, err := s.db.Exec("INSERT INTO "+table+" (doc) VALUES (?)", string(data))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Get returns the first record in scan order matching the predicate, or
// nil when nothing matches.
func (s *Store) Get(table string, match Predicate) (*Record, error) {
	records, err := s.scan(table)
	if err != nil {
		return nil, err
	}
	for _, r := range records {
		if match(r) {
			rec := r
			return &rec, nil
		}
	}
	return nil, nil
}

// Search returns all records matching the predicate, in scan order.
func (s *Store) Search(table string, match Predicate) ([]Record, error) {
	records, err := s.scan(table)
	if err != nil {
		return nil, err
	}
	var out []Record
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

// All returns every record in the table, in scan order (id ascending).
func (s *Store) All(table string) ([]Record, error) {
	return s.scan(table)
}

// Update replaces the document of every record matching the predicate and
// returns how many were replaced. The replacement is whole-document; there
// is no partial patch primitive.
func (s *Store) Update(table string, doc interface{}, match Predicate) (int, error) {
	if !knownTables[table] {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return 0, fmt.Errorf("encode document: %w", err)
	}
	records, err := s.scan(table)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range records {
		if !match(r) {
			continue
		}
		if _, err := s.db.Exec("UPDATE "+table+" SET doc = ? WHERE id = ?", string(data), r.ID); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Remove deletes every record matching the predicate and returns how many
// were deleted.
func (s *Store) Remove(table string, match Predicate) (int, error) {
	if !knownTables[table] {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	records, err := s.scan(table)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range records {
		if !match(r) {
			continue
		}
		if _, err := s.db.Exec("DELETE FROM "+table+" WHERE id = ?", r.ID); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// scan reads a whole table in id order.
func (s *Store) scan(table string) ([]Record, error) {
	if !knownTables[table] {
		return nil, fmt.Errorf("unknown table %q", table)
	}
	rows, err := s.db.Query("SELECT id, doc FROM " + table + " ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		var doc string
		if err := rows.Scan(&r.ID, &doc); err != nil {
			return nil, err
		}
		r.Data = []byte(doc)
		records = append(records, r)
	}
	return records, rows.Err()
}
