package repos

import (
	"github.com/jmoiron/sqlx"

	"signcraft/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByUsername(username string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
		SELECT id, username, password_hash FROM users WHERE username = ?
	`, username)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
