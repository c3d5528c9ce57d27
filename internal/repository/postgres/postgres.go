package postgres

import (
	"database/sql"

	"nestio-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.PropertyRepository
	repository.ApplicationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                    db,
		UserRepository:        NewUserRepository(db),
		PropertyRepository:    NewPropertyRepository(db),
		ApplicationRepository: NewApplicationRepository(db),
	}
}
