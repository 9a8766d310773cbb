package models

import "time"

// Usuario represents a user account in the system.
type Usuario struct {
	ID              string    `json:"id"`
	Nombre          string    `json:"nombre"`
	Apellido        string    `json:"apellido"`
	Email           string    `json:"email"`
	Telefono        *string   `json:"telefono"`
	FechaNacimiento *string   `json:"fecha_nacimiento"`
	Direccion       *string   `json:"direccion"`
	Activo          bool      `json:"activo"`
	PasswordHash    string    `json:"-"` // Never expose this to the client
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
