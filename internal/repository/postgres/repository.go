// sentiric-softphone-service/internal/repository/postgres/repository.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/sentiric/sentiric-softphone-service/internal/service/softphone"
)

// E-posta, dahilinin sesli mesaj kutusundan gelir.
const extensionColumns = `
	e.extension_uuid::text,
	e.extension,
	COALESCE(e.effective_caller_id_name, ''),
	COALESCE(e.password, ''),
	COALESCE(v.voicemail_mail_to, '')
FROM v_extensions e
LEFT JOIN v_voicemails v ON v.domain_uuid = e.domain_uuid AND v.voicemail_id = e.extension`

// Repository reads the local PBX extension directory.
type Repository struct {
	db  *pgxpool.Pool
	log zerolog.Logger
}

var _ softphone.ExtensionRepository = (*Repository)(nil)

func NewRepository(db *pgxpool.Pool, log zerolog.Logger) *Repository {
	return &Repository{db: db, log: log}
}

func (r *Repository) handleError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return softphone.ErrNotFound
	}
	if pgconn.Timeout(err) {
		return fmt.Errorf("%w: query timed out: %v", softphone.ErrDatabase, err)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %s (%s)", softphone.ErrDatabase, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("%w: %v", softphone.ErrDatabase, err)
}

func validDomainUUID(domainUUID string) error {
	if _, err := uuid.Parse(domainUUID); err != nil {
		return fmt.Errorf("%w: domain_uuid %q is not a uuid", softphone.ErrInvalidArgument, domainUUID)
	}
	return nil
}

func (r *Repository) ListExtensions(ctx context.Context, domainUUID string) ([]softphone.LocalExtension, error) {
	if err := validDomainUUID(domainUUID); err != nil {
		return nil, err
	}
	query := `SELECT ` + extensionColumns + ` WHERE e.domain_uuid = $1 ORDER BY e.extension`
	rows, err := r.db.Query(ctx, query, domainUUID)
	if err != nil {
		return nil, r.handleError(err)
	}
	defer rows.Close()

	var exts []softphone.LocalExtension
	for rows.Next() {
		var ext softphone.LocalExtension
		if err := rows.Scan(&ext.ExtensionUUID, &ext.Extension, &ext.EffectiveCallerIDName, &ext.Password, &ext.Email); err != nil {
			return nil, r.handleError(err)
		}
		exts = append(exts, ext)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handleError(err)
	}
	r.log.Debug().Str("domain_uuid", domainUUID).Int("count", len(exts)).Msg("Dahili numaralar okundu")
	return exts, nil
}

func (r *Repository) FindExtension(ctx context.Context, domainUUID, extension string) (*softphone.LocalExtension, error) {
	if err := validDomainUUID(domainUUID); err != nil {
		return nil, err
	}
	if extension == "" {
		return nil, softphone.ErrNotFound
	}
	var ext softphone.LocalExtension
	query := `SELECT ` + extensionColumns + ` WHERE e.domain_uuid = $1 AND e.extension = $2 LIMIT 1`
	err := r.db.QueryRow(ctx, query, domainUUID, extension).Scan(
		&ext.ExtensionUUID, &ext.Extension, &ext.EffectiveCallerIDName, &ext.Password, &ext.Email,
	)
	if err != nil {
		return nil, r.handleError(err)
	}
	return &ext, nil
}
