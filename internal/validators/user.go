// Package validators turns raw request input (bodies, path parameters, query
// strings) into typed values or a 422 apperrors.Error listing every violated
// field. Validation is synchronous and performs no I/O.
package validators

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"userapi/internal/apperrors"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var validate = validator.New()

// CreateUserRequest is the POST /users payload. Unknown fields are ignored by
// the JSON decoder.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=8"`
}

// UpdateUserRequest is the PUT/PATCH /users/:id payload. Every field is
// optional; an empty object is a valid (no-op style) update.
type UpdateUserRequest struct {
	Email    *string `json:"email" validate:"omitempty,email"`
	Name     *string `json:"name" validate:"omitempty,min=2,max=100"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// ListUsersQuery is the normalized GET /users query string.
type ListUsersQuery struct {
	Page   int
	Limit  int
	Search string
}

// ValidateCreate checks a create payload, returning a 422 error with one
// message per violated field, or nil.
func ValidateCreate(req *CreateUserRequest) error {
	return structErrors(validate.Struct(req))
}

// ValidateUpdate checks an update payload. Present fields must satisfy the
// same rules as on create; absent fields are skipped.
func ValidateUpdate(req *UpdateUserRequest) error {
	return structErrors(validate.Struct(req))
}

// ValidateID checks that a path parameter is a syntactically valid UUID.
// A malformed id is a validation failure, never a not-found.
func ValidateID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperrors.Validation(map[string][]string{
			"id": {"id must be a valid UUID"},
		})
	}
	return nil
}

// ParseListQuery coerces the raw page/limit/search query values. Missing
// values take their defaults; present but invalid values are rejected.
func ParseListQuery(page, limit, search string) (ListUsersQuery, error) {
	q := ListUsersQuery{
		Page:   DefaultPage,
		Limit:  DefaultLimit,
		Search: strings.TrimSpace(search),
	}
	fields := map[string][]string{}

	if page != "" {
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			fields["page"] = []string{"page must be a positive integer"}
		} else {
			q.Page = n
		}
	}
	if limit != "" {
		n, err := strconv.Atoi(limit)
		switch {
		case err != nil || n < 1:
			fields["limit"] = []string{"limit must be a positive integer"}
		case n > MaxLimit:
			fields["limit"] = []string{fmt.Sprintf("limit must be at most %d", MaxLimit)}
		default:
			q.Limit = n
		}
	}

	if len(fields) > 0 {
		return ListUsersQuery{}, apperrors.Validation(fields)
	}
	return q, nil
}

// structErrors converts validator.ValidationErrors into the field-keyed
// message map the error envelope expects.
func structErrors(err error) error {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		name := strings.ToLower(fe.Field())
		fields[name] = append(fields[name], fieldMessage(name, fe))
	}
	return apperrors.Validation(fields)
}

func fieldMessage(name string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", name, fe.Tag())
	}
}
