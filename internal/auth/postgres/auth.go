package postgres

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/worktrack/payroll/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetPasswordForLogin(login string) (string, int64, error) {
	var passwordHash string
	var userID int64
	query := `SELECT id, password_hash FROM users WHERE login = ?`

	row := r.db.Raw(query, login).Row()
	if err := row.Scan(&userID, &passwordHash); err != nil {
		if err == sql.ErrNoRows {
			return "", 0, fmt.Errorf("user not found")
		}
		return "", 0, err
	}
	return passwordHash, userID, nil
}

func (r *Repository) GetActorByID(userID int64) (auth.Actor, error) {
	var actor auth.Actor
	query := `SELECT id, role FROM users WHERE id = ?`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&actor.ID, &actor.Role); err != nil {
		if err == sql.ErrNoRows {
			return auth.Actor{}, fmt.Errorf("user not found")
		}
		return auth.Actor{}, err
	}
	return actor, nil
}
