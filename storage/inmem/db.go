// Package inmemdb provides in-memory repositories for tests and local hacking,
// mirroring the hosted store's behavior. Rows keep insertion order.
package inmemdb

import (
	"sync"

	"github.com/trezcool/alama/core/result"
	"github.com/trezcool/alama/core/student"
)

type (
	DB struct {
		students *studentTable
		results  *resultTable
	}

	studentTable struct {
		sync.RWMutex
		rows []student.Student
	}

	resultTable struct {
		sync.RWMutex
		rows []result.TestResult
	}
)

func Open() (*DB, error) {
	db := &DB{
		students: &studentTable{},
		results:  &resultTable{},
	}
	return db, nil
}

// Reset clears every table.
func (db *DB) Reset() {
	db.students.Lock()
	db.students.rows = nil
	db.students.Unlock()

	db.results.Lock()
	db.results.rows = nil
	db.results.Unlock()
}
