package deviceinfra

import (
	"context"
	"database/sql"
	"errors"

	"github.com/LuisIslasAcosta/apiVini/pkg/device"
	"github.com/LuisIslasAcosta/apiVini/pkg/errx"
	"github.com/jmoiron/sqlx"
)

// PostgresRepository es la implementación en PostgreSQL de device.Repository.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) device.Repository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec device.CreateRequest) (int64, error) {
	query := `INSERT INTO bastones (usuario_id, modelo) VALUES ($1, $2) RETURNING id`

	var id int64
	if err := r.db.GetContext(ctx, &id, query, rec.IdentityID, rec.Modelo); err != nil {
		return 0, errx.Wrap(err, "failed to create device", errx.TypeInternal)
	}
	return id, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*device.Device, error) {
	var d device.Device
	query := `SELECT id, usuario_id, modelo, fecha_asignacion FROM bastones WHERE id = $1`
	err := r.db.GetContext(ctx, &d, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, device.ErrNotFound()
		}
		return nil, errx.Wrap(err, "failed to find device", errx.TypeInternal)
	}
	return &d, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context) ([]device.Device, error) {
	var devices []device.Device
	query := `SELECT id, usuario_id, modelo, fecha_asignacion FROM bastones ORDER BY id`
	if err := r.db.SelectContext(ctx, &devices, query); err != nil {
		return nil, errx.Wrap(err, "failed to list devices", errx.TypeInternal)
	}
	return devices, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bastones WHERE id = $1`, id)
	if err != nil {
		return errx.Wrap(err, "failed to delete device", errx.TypeInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errx.Wrap(err, "failed to get rows affected on delete", errx.TypeInternal)
	}
	if rows == 0 {
		return device.ErrNotFound()
	}
	return nil
}
