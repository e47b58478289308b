package data

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// ErrNotFound is returned when no user has the requested ID.
var ErrNotFound = errors.New("user not found")

// User is a visitor's saved place.
type User struct {
	gorm.Model
	Name                string
	Latitude, Longitude *float64
	TimeZone            string
	LastSeen            time.Time
}

// HasPlace reports whether the user saved coordinates.
func (u *User) HasPlace() bool {
	return u != nil && u.Latitude != nil && u.Longitude != nil
}

// Open connects to postgres and migrates the schema.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&User{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}
	return db, nil
}

// Users stores User rows.
type Users struct {
	db *gorm.DB
}

func NewUsers(db *gorm.DB) *Users {
	return &Users{db: db}
}

// Find loads the user with id and marks it seen.
func (s *Users) Find(id uint) (*User, error) {
	var u User
	if err := findErr(id, s.db.First(&u, id).Error); err != nil {
		return nil, err
	}
	u.LastSeen = time.Now()
	if tx := s.db.Model(&u).Update("last_seen", u.LastSeen); tx.Error != nil {
		return &u, fmt.Errorf("failed to touch user %d: %w", id, tx.Error)
	}
	return &u, nil
}

// findErr maps a lookup error for id onto ErrNotFound or a wrapped error.
func findErr(id uint, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("failed to find user %d: %w", id, err)
	}
}

// Save creates or updates u. A new user is assigned an ID.
func (s *Users) Save(u *User) error {
	u.LastSeen = time.Now()
	if tx := s.db.Save(u); tx.Error != nil {
		return fmt.Errorf("failed to save user: %w", tx.Error)
	}
	return nil
}
