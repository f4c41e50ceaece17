package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kstack-dev/content-service/internal/domain"
)

// ContentFilter captures list/search parameters. A nil pointer, or the
// StatusDefault sentinel for Status, means "no filter" for that field; the
// date range only applies when both bounds are set.
type ContentFilter struct {
	SearchTerm  *string
	Locale      string
	Status      *domain.ContentStatus
	Category    *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Page        int
	Limit       int
}

// ContentRepository persists one content kind: the entity row, its
// translations, and its media references. All multi-row mutations run inside
// a single transaction.
type ContentRepository interface {
	Kind() domain.Kind
	CreateWithTranslations(ctx context.Context, entity *domain.ContentEntity, translations []domain.Translation) error
	ReplaceWithTranslations(ctx context.Context, entity *domain.ContentEntity, translations []domain.Translation) error
	GetByID(ctx context.Context, id string) (*domain.ContentEntity, error)
	ListTranslations(ctx context.Context, entityID string) ([]domain.Translation, error)
	ListMedia(ctx context.Context, entityID string) ([]domain.MediaAttachment, error)
	InsertMedia(ctx context.Context, attachments []domain.MediaAttachment) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ContentFilter) ([]domain.ContentEntity, int64, error)
}

type contentRepository struct {
	pool *pgxpool.Pool
	kind domain.Kind
}

// NewContentRepository instantiates a repository for one content kind.
func NewContentRepository(pool *pgxpool.Pool, kind domain.Kind) ContentRepository {
	return &contentRepository{pool: pool, kind: kind}
}

func (r *contentRepository) Kind() domain.Kind {
	return r.kind
}

func (r *contentRepository) CreateWithTranslations(ctx context.Context, entity *domain.ContentEntity, translations []domain.Translation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	insert := fmt.Sprintf(`
        INSERT INTO %s (owner_staff_id, status, category)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`, r.kind.Table)
	if err := tx.QueryRow(ctx, insert,
		entity.OwnerStaffID,
		entity.Status,
		entity.Category,
	).Scan(&entity.ID, &entity.CreatedAt, &entity.UpdatedAt); err != nil {
		return err
	}

	if err := r.insertTranslations(ctx, tx, entity.ID, translations); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *contentRepository) ReplaceWithTranslations(ctx context.Context, entity *domain.ContentEntity, translations []domain.Translation) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	update := fmt.Sprintf(`
        UPDATE %s SET status=$1, category=$2, updater_staff_id=$3, updated_at=NOW()
        WHERE id=$4`, r.kind.Table)
	cmd, err := tx.Exec(ctx, update,
		entity.Status,
		entity.Category,
		entity.UpdaterStaffID,
		entity.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	purge := fmt.Sprintf(`DELETE FROM %s WHERE entity_id=$1`, r.kind.TranslationTable)
	if _, err := tx.Exec(ctx, purge, entity.ID); err != nil {
		return err
	}

	if err := r.insertTranslations(ctx, tx, entity.ID, translations); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *contentRepository) insertTranslations(ctx context.Context, tx pgx.Tx, entityID string, translations []domain.Translation) error {
	insert := fmt.Sprintf(`
        INSERT INTO %s (entity_id, locale, title, body)
        VALUES ($1,$2,$3,$4)`, r.kind.TranslationTable)
	for i := range translations {
		translations[i].EntityID = entityID
		if _, err := tx.Exec(ctx, insert,
			entityID,
			translations[i].Locale,
			translations[i].Title,
			translations[i].Body,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*domain.ContentEntity, error) {
	query := fmt.Sprintf(`
        SELECT id, owner_staff_id, updater_staff_id, status, category, created_at, updated_at
        FROM %s WHERE id=$1`, r.kind.Table)
	var entity domain.ContentEntity
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&entity.ID,
		&entity.OwnerStaffID,
		&entity.UpdaterStaffID,
		&entity.Status,
		&entity.Category,
		&entity.CreatedAt,
		&entity.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *contentRepository) ListTranslations(ctx context.Context, entityID string) ([]domain.Translation, error) {
	query := fmt.Sprintf(`
        SELECT id, entity_id, locale, title, body, created_at, updated_at
        FROM %s WHERE entity_id=$1 ORDER BY locale`, r.kind.TranslationTable)
	rows, err := r.pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Translation
	for rows.Next() {
		var tr domain.Translation
		if err := rows.Scan(
			&tr.ID,
			&tr.EntityID,
			&tr.Locale,
			&tr.Title,
			&tr.Body,
			&tr.CreatedAt,
			&tr.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tr)
	}
	return result, rows.Err()
}

func (r *contentRepository) ListMedia(ctx context.Context, entityID string) ([]domain.MediaAttachment, error) {
	query := fmt.Sprintf(`
        SELECT id, entity_id, url, external_id, content_type, size_bytes, width, height, created_at
        FROM %s WHERE entity_id=$1`, r.kind.MediaTable)
	rows, err := r.pool.Query(ctx, query, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MediaAttachment
	for rows.Next() {
		var m domain.MediaAttachment
		if err := rows.Scan(
			&m.ID,
			&m.EntityID,
			&m.URL,
			&m.ExternalID,
			&m.ContentType,
			&m.SizeBytes,
			&m.Width,
			&m.Height,
			&m.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// InsertMedia writes all reference rows in one transaction, after the caller
// has uploaded the objects to the external provider.
func (r *contentRepository) InsertMedia(ctx context.Context, attachments []domain.MediaAttachment) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	insert := fmt.Sprintf(`
        INSERT INTO %s (entity_id, url, external_id, content_type, size_bytes, width, height)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`, r.kind.MediaTable)
	for i := range attachments {
		if err := tx.QueryRow(ctx, insert,
			attachments[i].EntityID,
			attachments[i].URL,
			attachments[i].ExternalID,
			attachments[i].ContentType,
			attachments[i].SizeBytes,
			attachments[i].Width,
			attachments[i].Height,
		).Scan(&attachments[i].ID, &attachments[i].CreatedAt); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

// Delete removes the entity row; translations and media rows cascade at the
// store level. External objects must be released by the caller beforehand.
func (r *contentRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id=$1`, r.kind.Table)
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *contentRepository) List(ctx context.Context, filter ContentFilter) ([]domain.ContentEntity, int64, error) {
	where, args := buildSearchPredicate(r.kind, filter)

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s e %s`, r.kind.Table, where)
	var total int64
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	query := fmt.Sprintf(`
        SELECT e.id, e.owner_staff_id, e.updater_staff_id, e.status, e.category, e.created_at, e.updated_at
        FROM %s e %s
        ORDER BY e.updated_at DESC
        LIMIT %d OFFSET %d`, r.kind.Table, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []domain.ContentEntity
	for rows.Next() {
		var entity domain.ContentEntity
		if err := rows.Scan(
			&entity.ID,
			&entity.OwnerStaffID,
			&entity.UpdaterStaffID,
			&entity.Status,
			&entity.Category,
			&entity.CreatedAt,
			&entity.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		result = append(result, entity)
	}
	return result, total, rows.Err()
}

// buildSearchPredicate assembles the WHERE clause shared by the count and page
// queries. Absence of all predicates yields "match all rows".
func buildSearchPredicate(kind domain.Kind, filter ContentFilter) (string, []any) {
	clauses := []string{}
	args := []any{}

	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		sub := fmt.Sprintf(
			"EXISTS (SELECT 1 FROM %s t WHERE t.entity_id=e.id AND (LOWER(t.title) LIKE %s OR LOWER(t.body) LIKE %s)",
			kind.TranslationTable, placeholder, placeholder)
		if filter.Locale != "" {
			args = append(args, filter.Locale)
			sub += fmt.Sprintf(" AND t.locale=$%d", len(args))
		}
		sub += ")"
		clauses = append(clauses, sub)
	}
	if filter.Status != nil && *filter.Status != domain.StatusDefault {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("e.status=$%d", len(args)))
	}
	if filter.Category != nil && *filter.Category != "" {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("e.category=$%d", len(args)))
	}
	if filter.CreatedFrom != nil && filter.CreatedTo != nil {
		args = append(args, *filter.CreatedFrom)
		from := fmt.Sprintf("e.created_at >= $%d", len(args))
		args = append(args, *filter.CreatedTo)
		to := fmt.Sprintf("e.created_at <= $%d", len(args))
		clauses = append(clauses, from, to)
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}
