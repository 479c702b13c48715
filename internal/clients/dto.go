package clients

import "time"

// CreateClientInput carries the fields accepted when registering a client.
type CreateClientInput struct {
	Name      string
	Phone     *string
	Email     *string
	BirthDate *time.Time
	Notes     *string
}

// UpdateClientInput is a partial update; nil leaves the field unchanged.
type UpdateClientInput struct {
	Name      *string
	Phone     *string
	Email     *string
	BirthDate *time.Time
	Notes     *string
}
