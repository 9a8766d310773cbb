package services

import (
	"database/sql"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/google/uuid"

	"github.com/aromeroh/usuarios-api/internal/auth"
	"github.com/aromeroh/usuarios-api/internal/errs"
	"github.com/aromeroh/usuarios-api/internal/models"
)

const fechaLayout = "2006-01-02"

// CreateUserInput carries the fields accepted when creating a user.
// Password is optional; accounts without one cannot log in.
type CreateUserInput struct {
	Nombre          string  `json:"nombre"`
	Apellido        string  `json:"apellido"`
	Email           string  `json:"email"`
	Telefono        *string `json:"telefono"`
	FechaNacimiento *string `json:"fecha_nacimiento"`
	Direccion       *string `json:"direccion"`
	Activo          *bool   `json:"activo"`
	Password        string  `json:"password"`
}

// Validate checks required fields and formats.
func (in CreateUserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Nombre, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Apellido, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.Email, validation.Required, is.Email),
		validation.Field(&in.Telefono, validation.Length(0, 20)),
		validation.Field(&in.FechaNacimiento, validation.Date(fechaLayout)),
		validation.Field(&in.Direccion, validation.Length(0, 500)),
	)
}

// UpdateUserInput carries a partial update; every field is independently
// optional and only supplied fields are written.
type UpdateUserInput struct {
	Nombre          *string `json:"nombre"`
	Apellido        *string `json:"apellido"`
	Email           *string `json:"email"`
	Telefono        *string `json:"telefono"`
	FechaNacimiento *string `json:"fecha_nacimiento"`
	Direccion       *string `json:"direccion"`
	Activo          *bool   `json:"activo"`
	Password        *string `json:"password"`
}

// Validate checks formats of the fields that are present.
func (in UpdateUserInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Nombre, validation.Length(1, 255)),
		validation.Field(&in.Apellido, validation.Length(1, 255)),
		validation.Field(&in.Email, is.Email),
		validation.Field(&in.Telefono, validation.Length(0, 20)),
		validation.Field(&in.FechaNacimiento, validation.Date(fechaLayout)),
		validation.Field(&in.Direccion, validation.Length(0, 500)),
	)
}

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Create(in CreateUserInput) (models.Usuario, error)
	GetByID(id string) (models.Usuario, error)
	GetByEmail(email string) (models.Usuario, error)
	List() ([]models.Usuario, error)
	Update(id string, in UpdateUserInput) (models.Usuario, error)
	Delete(id string) error
}

// UserService provides business logic for user management.
type UserService struct {
	db  *sql.DB
	now func() time.Time
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db, now: time.Now}
}

const userColumns = "id, nombre, apellido, email, telefono, fecha_nacimiento, direccion, activo, password_hash, created_at, updated_at"

func scanUsuario(row interface{ Scan(...any) error }) (models.Usuario, error) {
	var u models.Usuario
	err := row.Scan(&u.ID, &u.Nombre, &u.Apellido, &u.Email, &u.Telefono,
		&u.FechaNacimiento, &u.Direccion, &u.Activo, &u.PasswordHash,
		&u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create validates the input, hashes the password if supplied, and persists
// a new user. Email uniqueness is enforced by the storage constraint so two
// concurrent registrations cannot both succeed.
func (s *UserService) Create(in CreateUserInput) (models.Usuario, error) {
	if err := in.Validate(); err != nil {
		return models.Usuario{}, errs.Validation(err.Error())
	}

	var passwordHash string
	if in.Password != "" {
		hash, err := auth.HashPassword(in.Password)
		if err != nil {
			return models.Usuario{}, errs.Internal(err)
		}
		passwordHash = hash
	}

	now := s.now().UTC()
	u := models.Usuario{
		ID:              uuid.New().String(),
		Nombre:          in.Nombre,
		Apellido:        in.Apellido,
		Email:           in.Email,
		Telefono:        in.Telefono,
		FechaNacimiento: in.FechaNacimiento,
		Direccion:       in.Direccion,
		Activo:          true,
		PasswordHash:    passwordHash,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if in.Activo != nil {
		u.Activo = *in.Activo
	}

	_, err := s.db.Exec(
		"INSERT INTO usuarios ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		u.ID, u.Nombre, u.Apellido, u.Email, u.Telefono, u.FechaNacimiento,
		u.Direccion, u.Activo, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Usuario{}, errs.Conflict("email already registered")
		}
		return models.Usuario{}, errs.Internal(err)
	}

	u.PasswordHash = ""
	return u, nil
}

// GetByID retrieves a single user by their ID. The password hash is never
// populated on the returned value.
func (s *UserService) GetByID(id string) (models.Usuario, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM usuarios WHERE id = ?", id)
	u, err := scanUsuario(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Usuario{}, errs.NotFound("usuario not found")
		}
		return models.Usuario{}, errs.Internal(err)
	}
	u.PasswordHash = ""
	return u, nil
}

// GetByEmail retrieves a single user by email, including the password hash.
// Only the session layer should call this.
func (s *UserService) GetByEmail(email string) (models.Usuario, error) {
	row := s.db.QueryRow("SELECT "+userColumns+" FROM usuarios WHERE email = ?", email)
	u, err := scanUsuario(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.Usuario{}, errs.NotFound("usuario not found")
		}
		return models.Usuario{}, errs.Internal(err)
	}
	return u, nil
}

// List retrieves all users.
func (s *UserService) List() ([]models.Usuario, error) {
	rows, err := s.db.Query("SELECT " + userColumns + " FROM usuarios ORDER BY created_at")
	if err != nil {
		return nil, errs.Internal(err)
	}
	defer rows.Close()

	usuarios := []models.Usuario{}
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, errs.Internal(err)
		}
		u.PasswordHash = ""
		usuarios = append(usuarios, u)
	}
	if err := rows.Err(); err != nil {
		return nil, errs.Internal(err)
	}
	return usuarios, nil
}

// Update applies a partial update: only supplied fields are written. A new
// email colliding with a different user maps to a conflict; setting the
// email to its current value is a no-op and succeeds.
func (s *UserService) Update(id string, in UpdateUserInput) (models.Usuario, error) {
	if err := in.Validate(); err != nil {
		return models.Usuario{}, errs.Validation(err.Error())
	}

	if _, err := s.GetByID(id); err != nil {
		return models.Usuario{}, err
	}

	set := []string{}
	args := []any{}
	addField := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if in.Nombre != nil {
		addField("nombre", *in.Nombre)
	}
	if in.Apellido != nil {
		addField("apellido", *in.Apellido)
	}
	if in.Email != nil {
		addField("email", *in.Email)
	}
	if in.Telefono != nil {
		addField("telefono", *in.Telefono)
	}
	if in.FechaNacimiento != nil {
		addField("fecha_nacimiento", *in.FechaNacimiento)
	}
	if in.Direccion != nil {
		addField("direccion", *in.Direccion)
	}
	if in.Activo != nil {
		addField("activo", *in.Activo)
	}
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return models.Usuario{}, errs.Internal(err)
		}
		addField("password_hash", hash)
	}

	if len(set) > 0 {
		addField("updated_at", s.now().UTC())
		args = append(args, id)
		_, err := s.db.Exec("UPDATE usuarios SET "+strings.Join(set, ", ")+" WHERE id = ?", args...)
		if err != nil {
			if isUniqueViolation(err) {
				return models.Usuario{}, errs.Conflict("email already registered")
			}
			return models.Usuario{}, errs.Internal(err)
		}
	}

	return s.GetByID(id)
}

// Delete removes a user. Their tokens go with them via the foreign-key
// cascade in the schema.
func (s *UserService) Delete(id string) error {
	res, err := s.db.Exec("DELETE FROM usuarios WHERE id = ?", id)
	if err != nil {
		return errs.Internal(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errs.Internal(err)
	}
	if n == 0 {
		return errs.NotFound("usuario not found")
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
