package identityinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/LuisIslasAcosta/apiVini/pkg/errx"
	"github.com/LuisIslasAcosta/apiVini/pkg/identity"
	"github.com/LuisIslasAcosta/apiVini/pkg/kernel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresRepository es la implementación en PostgreSQL de identity.Repository.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) identity.Repository {
	return &PostgresRepository{db: db}
}

// Create inserta una nueva identidad y devuelve el id asignado.
func (r *PostgresRepository) Create(ctx context.Context, rec identity.NewIdentity) (kernel.IdentityID, error) {
	query := `
		INSERT INTO usuarios (nombre, email, telefono, password, rol_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := r.db.GetContext(ctx, &id, query,
		rec.Nombre, rec.Email, rec.Telefono, rec.PasswordHash, rec.RoleID.Int64())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			return 0, identity.ErrEmailTaken()
		}
		return 0, errx.Wrap(err, "failed to create identity", errx.TypeInternal)
	}
	return kernel.NewIdentityID(id), nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id kernel.IdentityID) (*identity.Identity, error) {
	var ident identity.Identity
	query := `SELECT id, nombre, email, telefono, password, rol_id, fecha_registro
		FROM usuarios WHERE id = $1`
	err := r.db.GetContext(ctx, &ident, query, id.Int64())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find identity by id", errx.TypeInternal)
	}
	return &ident, nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*identity.Identity, error) {
	var ident identity.Identity
	query := `SELECT id, nombre, email, telefono, password, rol_id, fecha_registro
		FROM usuarios WHERE email = $1`
	err := r.db.GetContext(ctx, &ident, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find identity by email", errx.TypeInternal)
	}
	return &ident, nil
}

func (r *PostgresRepository) FindByName(ctx context.Context, nombre string) ([]identity.Identity, error) {
	var idents []identity.Identity
	query := `SELECT id, nombre, email, telefono, password, rol_id, fecha_registro
		FROM usuarios WHERE nombre = $1`
	if err := r.db.SelectContext(ctx, &idents, query, nombre); err != nil {
		return nil, errx.Wrap(err, "failed to find identities by name", errx.TypeInternal)
	}
	return idents, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]identity.Identity, error) {
	var idents []identity.Identity
	query := `SELECT id, nombre, email, telefono, password, rol_id, fecha_registro
		FROM usuarios ORDER BY id`
	if err := r.db.SelectContext(ctx, &idents, query); err != nil {
		return nil, errx.Wrap(err, "failed to list identities", errx.TypeInternal)
	}
	return idents, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id kernel.IdentityID, req identity.UpdateRequest) error {
	query := `UPDATE usuarios SET email = $1, telefono = $2, rol_id = $3 WHERE id = $4`

	result, err := r.db.ExecContext(ctx, query, req.Email, req.Telefono, req.RolID, id.Int64())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return identity.ErrEmailTaken()
		}
		return errx.Wrap(err, "failed to update identity", errx.TypeInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on update", errx.TypeInternal)
	}
	if rows == 0 {
		return identity.ErrNotFound()
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id kernel.IdentityID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM usuarios WHERE id = $1`, id.Int64())
	if err != nil {
		return errx.Wrap(err, "failed to delete identity", errx.TypeInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on delete", errx.TypeInternal)
	}
	if rows == 0 {
		return identity.ErrNotFound()
	}
	return nil
}

// FindProfile arma la vista agregada en una sola consulta. Los LEFT JOIN
// asumen cardinalidad 1:1 para bastón, ubicación y contacto; si existieran
// varias filas enlazadas gana la primera (LIMIT 1).
func (r *PostgresRepository) FindProfile(ctx context.Context, id kernel.IdentityID) (*identity.Profile, error) {
	query := `
		SELECT
			u.id, u.nombre, u.email, u.telefono, u.fecha_registro,
			r.nombre AS rol,
			b.modelo AS baston, b.fecha_asignacion,
			loc.latitud, loc.longitud, loc.direccion,
			ce.nombre AS contacto_nombre, ce.telefono AS contacto_telefono, ce.email AS contacto_email
		FROM usuarios u
		LEFT JOIN roles r ON u.rol_id = r.id
		LEFT JOIN bastones b ON u.id = b.usuario_id
		LEFT JOIN ubicaciones loc ON u.id = loc.usuario_id
		LEFT JOIN contactos_emergencia ce ON u.id = ce.usuario_id
		WHERE u.id = $1
		LIMIT 1`

	var p identity.Profile
	err := r.db.GetContext(ctx, &p, query, id.Int64())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, identity.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to load profile", errx.TypeInternal)
	}
	return &p, nil
}
