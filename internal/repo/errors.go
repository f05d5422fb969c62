package repo

import "errors"

// Sentinel errors returned by repositories. Handlers translate these to
// HTTP status codes; repositories never log.
var (
	// ErrProductNotFound is returned when a product is not found in the repository.
	ErrProductNotFound = errors.New("product not found")

	// ErrUserNotFound is returned when a user is not found in the repository.
	ErrUserNotFound = errors.New("user not found")

	// ErrInsufficientStock is returned when a sale asks for more units
	// than the product currently has in stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrDuplicatedValueUnique is returned on unique constraint violations.
	ErrDuplicatedValueUnique = errors.New("duplicated value in unique column")

	// ErrConflict is returned when a transaction lost a serialization
	// race and can be retried by the caller.
	ErrConflict = errors.New("concurrent write conflict, retry")
)
