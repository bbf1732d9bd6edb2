package inmemdb

import (
	"sync"

	"github.com/shulepay/shulepay/core/activation"
	"github.com/shulepay/shulepay/core/parent"
	"github.com/shulepay/shulepay/core/school"
	"github.com/shulepay/shulepay/core/tenant"
)

// DB is a map-backed store for tests and local development. A single mutex
// guards all tables so multi-table writes stay atomic, matching the SQL
// variant's transactions.
type DB struct {
	mutex sync.RWMutex

	schools   map[string]*school.School     // keyed by name
	codes     map[string]*activation.Code   // keyed by code
	students  map[string]*tenant.Student    // keyed by id
	payments  map[string]*tenant.Payment    // keyed by id
	classFees map[string]*tenant.ClassFee   // keyed by school name + "/" + class name
	parents   map[string]*parent.Parent     // keyed by id

	studentSeq int64
	paymentSeq int64
}

func NewDB() *DB {
	return &DB{
		schools:   make(map[string]*school.School),
		codes:     make(map[string]*activation.Code),
		students:  make(map[string]*tenant.Student),
		payments:  make(map[string]*tenant.Payment),
		classFees: make(map[string]*tenant.ClassFee),
		parents:   make(map[string]*parent.Parent),
	}
}

func classKey(schoolName, name string) string { return schoolName + "/" + name }
