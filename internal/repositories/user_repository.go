package repositories

import (
	"userapi/internal/models"
	"userapi/internal/validators"
)

// UserRepository defines the interface for user data access. Lookup methods
// return (nil, nil) when no matching record exists; callers decide whether
// absence is an error.
type UserRepository interface {
	List(q validators.ListUsersQuery) ([]models.User, int64, error)
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByEmailExcept(email, excludeID string) (*models.User, error)
	Create(user *models.User) error
	Save(user *models.User) error
	Delete(id string) error
}
