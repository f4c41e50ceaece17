package service

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/kstack-dev/content-service/internal/domain"
	"github.com/kstack-dev/content-service/internal/events"
	"github.com/kstack-dev/content-service/internal/repository"
	"github.com/kstack-dev/content-service/internal/storage"
	apperrors "github.com/kstack-dev/content-service/pkg/util"
)

// Gate is the authorization check every mutation must pass before any write
// begins.
type Gate interface {
	CanCreateOrEdit(ctx context.Context, staffID string) (Decision, error)
	CanDelete(ctx context.Context, staffID string) (Decision, error)
}

// TranslationInput is one locale's text supplied on create or replace.
type TranslationInput struct {
	Locale string
	Title  string
	Body   string
}

// ContentInput describes the mutable fields of a content entity together
// with the full translation set that will replace whatever is stored.
type ContentInput struct {
	Status       domain.ContentStatus
	Category     string
	Translations []TranslationInput
}

// ContentDetail joins an entity with its translations and media.
type ContentDetail struct {
	Entity       *domain.ContentEntity
	Translations []domain.Translation
	Media        []domain.MediaAttachment
}

// PageResult is the pagination contract shared by all list endpoints.
type PageResult struct {
	Items      []domain.ContentEntity
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// ContentService is the single write/read path for all four content kinds.
// Mutations pass the authorization gate, then run the atomic entity +
// translation + media routine of the kind's repository.
type ContentService struct {
	repos      map[string]repository.ContentRepository
	gate       Gate
	storage    storage.Provider
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// ContentDependencies bundles collaborators for the content service.
type ContentDependencies struct {
	Repos      []repository.ContentRepository
	Gate       Gate
	Storage    storage.Provider
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewContentService constructs the service.
func NewContentService(deps ContentDependencies) *ContentService {
	repos := make(map[string]repository.ContentRepository, len(deps.Repos))
	for _, repo := range deps.Repos {
		repos[repo.Kind().Name] = repo
	}
	return &ContentService{
		repos:      repos,
		gate:       deps.Gate,
		storage:    deps.Storage,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
	}
}

func (s *ContentService) repo(kind string) (repository.ContentRepository, error) {
	repo, ok := s.repos[kind]
	if !ok {
		return nil, apperrors.NewNotFound("content kind", map[string]any{"kind": kind})
	}
	return repo, nil
}

// Create inserts a new entity together with its full translation set.
func (s *ContentService) Create(ctx context.Context, kind, staffID string, input ContentInput) (*domain.ContentEntity, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	if err := s.requireCreateOrEdit(ctx, staffID); err != nil {
		return nil, err
	}
	translations, err := validateInput(&input, true)
	if err != nil {
		return nil, err
	}

	entity := &domain.ContentEntity{
		OwnerStaffID: staffID,
		Status:       input.Status,
		Category:     input.Category,
	}
	if err := repo.CreateWithTranslations(ctx, entity, translations); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventContentCreated,
		Kind:     kind,
		EntityID: entity.ID,
		Actor:    staffID,
		Payload: events.ContentChangedPayload{
			Status:      string(entity.Status),
			Category:    entity.Category,
			LocaleCount: len(translations),
		},
	})
	return entity, nil
}

// Replace updates the entity's mutable fields and swaps the full translation
// set. The owner is preserved; the caller is recorded as updater.
func (s *ContentService) Replace(ctx context.Context, kind, staffID, entityID string, input ContentInput) (*domain.ContentEntity, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	if err := s.requireCreateOrEdit(ctx, staffID); err != nil {
		return nil, err
	}
	translations, err := validateInput(&input, true)
	if err != nil {
		return nil, err
	}

	entity := &domain.ContentEntity{
		ID:             entityID,
		UpdaterStaffID: &staffID,
		Status:         input.Status,
		Category:       input.Category,
	}
	if err := repo.ReplaceWithTranslations(ctx, entity, translations); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound(kind, map[string]any{"id": entityID})
		}
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventContentUpdated,
		Kind:     kind,
		EntityID: entityID,
		Actor:    staffID,
		Payload: events.ContentChangedPayload{
			Status:      string(entity.Status),
			Category:    entity.Category,
			LocaleCount: len(translations),
		},
	})
	return entity, nil
}

// Delete releases each attached external object, then removes the entity row;
// translations and media rows cascade. A storage delete failure is logged and
// reported for reconciliation but never aborts the deletion.
func (s *ContentService) Delete(ctx context.Context, kind, staffID, entityID string) error {
	repo, err := s.repo(kind)
	if err != nil {
		return err
	}
	decision, err := s.gate.CanDelete(ctx, staffID)
	if err != nil {
		return err
	}
	if !decision.Permitted {
		return denialError(decision)
	}

	if _, err := repo.GetByID(ctx, entityID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound(kind, map[string]any{"id": entityID})
		}
		return err
	}

	media, err := repo.ListMedia(ctx, entityID)
	if err != nil {
		return err
	}
	removed := 0
	for _, m := range media {
		if err := s.storage.Delete(ctx, m.ExternalID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("storage delete failed; object left for reconciliation",
				zap.String("external_id", m.ExternalID),
				zap.String("entity_id", entityID),
				zap.Error(err))
			s.publish(ctx, events.Event{
				Type:     events.EventMediaOrphaned,
				Kind:     kind,
				EntityID: entityID,
				Actor:    staffID,
				Payload:  events.MediaOrphanedPayload{ExternalID: m.ExternalID, Reason: "delete failed"},
			})
			continue
		}
		removed++
	}

	if err := repo.Delete(ctx, entityID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound(kind, map[string]any{"id": entityID})
		}
		return err
	}

	s.publish(ctx, events.Event{
		Type:     events.EventContentDeleted,
		Kind:     kind,
		EntityID: entityID,
		Actor:    staffID,
		Payload:  events.ContentChangedPayload{MediaRemoved: removed},
	})
	return nil
}

// AttachMedia uploads each file to the external provider first, then inserts
// the reference rows in one transaction. Objects uploaded before a failed
// insert are reported as orphans for the out-of-band sweep.
func (s *ContentService) AttachMedia(ctx context.Context, kind, staffID, entityID string, files []storage.Object) ([]domain.MediaAttachment, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}
	if err := s.requireCreateOrEdit(ctx, staffID); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, apperrors.NewValidationError("no files supplied", nil)
	}

	if _, err := repo.GetByID(ctx, entityID); err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound(kind, map[string]any{"id": entityID})
		}
		return nil, err
	}

	attachments := make([]domain.MediaAttachment, 0, len(files))
	for _, file := range files {
		stored, err := s.storage.Upload(ctx, file)
		if err != nil {
			// Roll back the uploads that already landed.
			for _, a := range attachments {
				if delErr := s.storage.Delete(ctx, a.ExternalID); delErr != nil {
					s.reportOrphan(ctx, kind, entityID, a.ExternalID, "upload batch aborted")
				}
			}
			return nil, err
		}
		attachments = append(attachments, domain.MediaAttachment{
			EntityID:    entityID,
			URL:         stored.URL,
			ExternalID:  stored.ExternalID,
			ContentType: file.ContentType,
			SizeBytes:   stored.SizeBytes,
			Width:       stored.Width,
			Height:      stored.Height,
		})
	}

	if err := repo.InsertMedia(ctx, attachments); err != nil {
		for _, a := range attachments {
			s.reportOrphan(ctx, kind, entityID, a.ExternalID, "insert failed after upload")
		}
		return nil, err
	}
	return attachments, nil
}

// List returns a page of entities, most recently updated first.
func (s *ContentService) List(ctx context.Context, kind string, filter repository.ContentFilter) (*PageResult, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page < 1 {
		filter.Page = 1
	}

	items, total, err := repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.ContentEntity{}
	}
	return &PageResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages(total, filter.Limit),
	}, nil
}

// Get returns the entity joined with its translations and media.
func (s *ContentService) Get(ctx context.Context, kind, entityID string) (*ContentDetail, error) {
	repo, err := s.repo(kind)
	if err != nil {
		return nil, err
	}

	entity, err := repo.GetByID(ctx, entityID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound(kind, map[string]any{"id": entityID})
		}
		return nil, err
	}
	translations, err := repo.ListTranslations(ctx, entityID)
	if err != nil {
		return nil, err
	}
	media, err := repo.ListMedia(ctx, entityID)
	if err != nil {
		return nil, err
	}
	return &ContentDetail{Entity: entity, Translations: translations, Media: media}, nil
}

func (s *ContentService) requireCreateOrEdit(ctx context.Context, staffID string) error {
	decision, err := s.gate.CanCreateOrEdit(ctx, staffID)
	if err != nil {
		return err
	}
	if !decision.Permitted {
		return denialError(decision)
	}
	return nil
}

func (s *ContentService) reportOrphan(ctx context.Context, kind, entityID, externalID, reason string) {
	s.logger.Warn("orphaned external object",
		zap.String("external_id", externalID),
		zap.String("entity_id", entityID),
		zap.String("reason", reason))
	s.publish(ctx, events.Event{
		Type:     events.EventMediaOrphaned,
		Kind:     kind,
		EntityID: entityID,
		Payload:  events.MediaOrphanedPayload{ExternalID: externalID, Reason: reason},
	})
}

func (s *ContentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateInput(input *ContentInput, requireTranslations bool) ([]domain.Translation, error) {
	if input.Status == "" {
		input.Status = domain.StatusDraft
	}
	if input.Status == domain.StatusDefault {
		return nil, apperrors.NewValidationError("DEFAULT is not a storable status", nil)
	}
	if requireTranslations && len(input.Translations) == 0 {
		return nil, apperrors.NewValidationError("at least one translation required", nil)
	}

	seen := make(map[string]struct{}, len(input.Translations))
	translations := make([]domain.Translation, 0, len(input.Translations))
	for _, tr := range input.Translations {
		locale := strings.TrimSpace(tr.Locale)
		if locale == "" {
			return nil, apperrors.NewValidationError("translation locale required", nil)
		}
		if _, dup := seen[locale]; dup {
			return nil, apperrors.NewValidationError("duplicate translation locale", map[string]any{"locale": locale})
		}
		seen[locale] = struct{}{}
		translations = append(translations, domain.Translation{
			Locale: locale,
			Title:  strings.TrimSpace(tr.Title),
			Body:   tr.Body,
		})
	}
	return translations, nil
}

func denialError(decision Decision) error {
	code := "FORBIDDEN"
	switch decision.Status {
	case http.StatusNotFound:
		code = "NOT_FOUND"
	case http.StatusInternalServerError:
		code = "INTERNAL_ERROR"
	}
	return apperrors.NewDomainError(code, decision.Reason, decision.Status, nil)
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		limit = 20
	}
	pages := int((total + int64(limit) - 1) / int64(limit))
	if pages < 1 {
		pages = 1
	}
	return pages
}
