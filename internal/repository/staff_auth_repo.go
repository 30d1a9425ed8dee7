package repository

import (
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

type StaffUser struct {
	ID           int
	Email        string
	PasswordHash string
	Role         string
}

type StaffAuthRepository interface {
	GetByEmail(email string) (*StaffUser, error)
	CreateStaffUser(email, password, role string) error
}

type staffAuthRepository struct {
	db *sql.DB
}

func NewStaffAuthRepository(db *sql.DB) StaffAuthRepository {
	return &staffAuthRepository{db: db}
}

func (r *staffAuthRepository) GetByEmail(email string) (*StaffUser, error) {
	var user StaffUser
	err := r.db.QueryRow("SELECT id, email, password_hash, role FROM staff_users WHERE email = $1", email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *staffAuthRepository) CreateStaffUser(email, password, role string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	query := "INSERT INTO staff_users (email, password_hash, role) VALUES ($1, $2, $3)"
	_, err = r.db.Exec(query, email, hashedPassword, role)
	return err
}
