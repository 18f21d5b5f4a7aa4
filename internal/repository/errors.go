// Package repository implements the MongoDB persistence layer. Sentinel
// errors exported here let handlers map storage outcomes onto HTTP status
// codes without inspecting driver errors; errors owned by the token and
// cart domains live in their own packages and are returned from the
// repositories that implement those stores.
package repository

import "errors"

// ErrNotFound is returned when a point lookup matches no document.
var ErrNotFound = errors.New("not found")

// ErrEmailExists is returned when a signup reuses a registered email.
var ErrEmailExists = errors.New("email already registered")

// ErrDuplicateImage is returned when a product is created with an image
// URL already present in the catalog.
var ErrDuplicateImage = errors.New("product already exists")
