package database

import (
	"database/sql"

	"github.com/xavierca1/ligue-crm/internal/usecase"
)

// NewStore returns the Postgres repositories sharing one pool.
func NewStore(db *sql.DB) usecase.Store {
	return usecase.Store{
		Leads:       NewLeadRepository(db),
		Deals:       NewDealRepository(db),
		Connections: NewConnectionRepository(db),
		Tasks:       NewTaskRepository(db),
	}
}
