package data

import "github.com/smartsupplypro/inventory-api/internal/ports"

// ErrUserNotFound aliases the port sentinel so callers holding either symbol
// match with errors.Is.
var ErrUserNotFound = ports.ErrUserNotFound
