package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"userapi/internal/models"
	"userapi/internal/validators"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// searchScope matches email or name by case-insensitive substring. LOWER +
// LIKE behaves identically on PostgreSQL and SQLite, unlike ILIKE.
func searchScope(term string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		if term == "" {
			return tx
		}
		pattern := "%" + strings.ToLower(term) + "%"
		return tx.Where("LOWER(email) LIKE ? OR LOWER(name) LIKE ?", pattern, pattern)
	}
}

// List returns one page of users ordered by creation time descending, along
// with the total number of matches. The count and page queries run in
// parallel; *gorm.DB is safe for concurrent use.
func (r *GORMUserRepository) List(q validators.ListUsersQuery) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
		g     errgroup.Group
	)

	g.Go(func() error {
		return r.db.Model(&models.User{}).Scopes(searchScope(q.Search)).Count(&total).Error
	})
	g.Go(func() error {
		offset := (q.Page - 1) * q.Limit
		return r.db.Scopes(searchScope(q.Search)).
			Order("created_at DESC").
			Limit(q.Limit).
			Offset(offset).
			Find(&users).Error
	})

	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// GetByID retrieves a user by ID, or (nil, nil) if absent.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by email, or (nil, nil) if absent.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// GetByEmailExcept retrieves a user holding the given email whose ID differs
// from excludeID, or (nil, nil) if no other user owns the email.
func (r *GORMUserRepository) GetByEmailExcept(email, excludeID string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "email = ? AND id <> ?", email, excludeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

// Create inserts a new user, generating a UUID when none is set. The unique
// index on email is the atomic guard against concurrent duplicates.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// Save writes the full row, refreshing UpdatedAt even when no field changed.
func (r *GORMUserRepository) Save(user *models.User) error {
	res := r.db.Save(user)
	if res.Error != nil {
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for update", user.ID)
	}
	return nil
}

// Delete removes a user by ID.
func (r *GORMUserRepository) Delete(id string) error {
	res := r.db.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s not found for deletion", id)
	}
	return nil
}
