package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kstack-dev/content-service/internal/domain"
	"github.com/kstack-dev/content-service/internal/events"
	"github.com/kstack-dev/content-service/internal/repository"
	"github.com/kstack-dev/content-service/internal/storage"
	apperrors "github.com/kstack-dev/content-service/pkg/util"
)

type fakeStaffRepo struct {
	staff       map[string]*domain.Staff
	updatedHash map[string]string
}

func newFakeStaffRepo(members ...*domain.Staff) *fakeStaffRepo {
	repo := &fakeStaffRepo{
		staff:       make(map[string]*domain.Staff),
		updatedHash: make(map[string]string),
	}
	for _, m := range members {
		repo.staff[m.ID] = m
	}
	return repo
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.Staff, error) {
	if s, ok := f.staff[id]; ok {
		return s, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.Staff, error) {
	for _, s := range f.staff {
		if s.Email == email {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeStaffRepo) UpdatePasswordHash(_ context.Context, id, hash string) error {
	s, ok := f.staff[id]
	if !ok {
		return pgx.ErrNoRows
	}
	s.PasswordHash = hash
	f.updatedHash[id] = hash
	return nil
}

type fakeSessionRepo struct {
	created        []*domain.Session
	invalidated    []string
	invalidatedAll []string
	nextID         int
}

func (f *fakeSessionRepo) Create(_ context.Context, session *domain.Session) error {
	f.nextID++
	session.ID = fmt.Sprintf("sess-%d", f.nextID)
	session.CreatedAt = time.Now()
	f.created = append(f.created, session)
	return nil
}

func (f *fakeSessionRepo) GetByID(_ context.Context, id string) (*domain.Session, error) {
	for _, s := range f.created {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeSessionRepo) Invalidate(_ context.Context, id string) error {
	for _, s := range f.created {
		if s.ID == id {
			s.Valid = false
			f.invalidated = append(f.invalidated, id)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeSessionRepo) InvalidateAllForStaff(_ context.Context, staffID string) error {
	for _, s := range f.created {
		if s.StaffID == staffID {
			s.Valid = false
		}
	}
	f.invalidatedAll = append(f.invalidatedAll, staffID)
	return nil
}

type fakeVerificationRepo struct {
	latest map[string]*domain.VerificationRecord
	nextID int
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{latest: make(map[string]*domain.VerificationRecord)}
}

func (f *fakeVerificationRepo) Create(_ context.Context, record *domain.VerificationRecord) error {
	if prior, ok := f.latest[record.StaffID]; ok {
		prior.Superseded = true
	}
	f.nextID++
	record.ID = fmt.Sprintf("ver-%d", f.nextID)
	record.CreatedAt = time.Now()
	f.latest[record.StaffID] = record
	return nil
}

func (f *fakeVerificationRepo) GetLatestByStaff(_ context.Context, staffID string) (*domain.VerificationRecord, error) {
	if r, ok := f.latest[staffID]; ok {
		return r, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeVerificationRepo) MarkVerified(_ context.Context, id string, resetWindowExpiresAt time.Time) error {
	for _, r := range f.latest {
		if r.ID == id {
			r.Verified = true
			window := resetWindowExpiresAt
			r.ResetWindowExpiresAt = &window
			return nil
		}
	}
	return pgx.ErrNoRows
}

type fakeResetRepo struct {
	mu          sync.Mutex
	tokens      map[string]*repository.PasswordResetToken
	invalidated []string
	nextID      int
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[string]*repository.PasswordResetToken)}
}

func (f *fakeResetRepo) Create(_ context.Context, token *repository.PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	token.ID = fmt.Sprintf("reset-%d", f.nextID)
	token.CreatedAt = time.Now()
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeResetRepo) GetByToken(_ context.Context, tokenStr string) (*repository.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tokens[tokenStr]; ok {
		return t, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeResetRepo) Redeem(_ context.Context, tokenStr string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token, ok := f.tokens[tokenStr]
	if !ok {
		return "", apperrors.NewNotFound("reset token", nil)
	}
	if token.UsedAt != nil {
		return "", apperrors.NewAlreadyUsed("reset token")
	}
	if time.Now().After(token.ExpiresAt) {
		return "", apperrors.NewExpired("reset token")
	}
	now := time.Now()
	token.UsedAt = &now
	return token.StaffID, nil
}

func (f *fakeResetRepo) InvalidateAllForStaff(_ context.Context, staffID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	for _, t := range f.tokens {
		if t.StaffID == staffID && t.UsedAt == nil {
			t.UsedAt = &now
		}
	}
	f.invalidated = append(f.invalidated, staffID)
	return nil
}

type fakeLimiter struct {
	allow bool
	calls int
}

func (f *fakeLimiter) Allow(_ context.Context, _ string, _ int, _ time.Duration) (bool, error) {
	f.calls++
	return f.allow, nil
}

type fakeDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakeDispatcher) Publish(_ context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}

func (f *fakeDispatcher) Subscribe(_ events.EventType, _ events.EventHandler) {}

func (f *fakeDispatcher) byType(t events.EventType) []events.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []events.Event
	for _, e := range f.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

type fakeGate struct {
	createOrEdit Decision
	delete       Decision
}

func (f *fakeGate) CanCreateOrEdit(_ context.Context, _ string) (Decision, error) {
	return f.createOrEdit, nil
}

func (f *fakeGate) CanDelete(_ context.Context, _ string) (Decision, error) {
	return f.delete, nil
}

type fakeContentRepo struct {
	kind             domain.Kind
	entities         map[string]*domain.ContentEntity
	translations     map[string][]domain.Translation
	media            map[string][]domain.MediaAttachment
	failTranslations bool
	failInsertMedia  bool
	listTotal        int64
	nextID           int
}

func newFakeContentRepo(kind domain.Kind) *fakeContentRepo {
	return &fakeContentRepo{
		kind:         kind,
		entities:     make(map[string]*domain.ContentEntity),
		translations: make(map[string][]domain.Translation),
		media:        make(map[string][]domain.MediaAttachment),
	}
}

func (f *fakeContentRepo) Kind() domain.Kind { return f.kind }

func (f *fakeContentRepo) CreateWithTranslations(_ context.Context, entity *domain.ContentEntity, translations []domain.Translation) error {
	if f.failTranslations {
		return fmt.Errorf("translation insert failed")
	}
	f.nextID++
	entity.ID = fmt.Sprintf("%s-%d", f.kind.Name, f.nextID)
	entity.CreatedAt = time.Now()
	entity.UpdatedAt = entity.CreatedAt
	f.entities[entity.ID] = entity
	stored := make([]domain.Translation, len(translations))
	copy(stored, translations)
	for i := range stored {
		stored[i].EntityID = entity.ID
	}
	f.translations[entity.ID] = stored
	return nil
}

func (f *fakeContentRepo) ReplaceWithTranslations(_ context.Context, entity *domain.ContentEntity, translations []domain.Translation) error {
	existing, ok := f.entities[entity.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if f.failTranslations {
		return fmt.Errorf("translation insert failed")
	}
	existing.Status = entity.Status
	existing.Category = entity.Category
	existing.UpdaterStaffID = entity.UpdaterStaffID
	existing.UpdatedAt = time.Now()
	stored := make([]domain.Translation, len(translations))
	copy(stored, translations)
	for i := range stored {
		stored[i].EntityID = entity.ID
	}
	f.translations[entity.ID] = stored
	return nil
}

func (f *fakeContentRepo) GetByID(_ context.Context, id string) (*domain.ContentEntity, error) {
	if e, ok := f.entities[id]; ok {
		return e, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeContentRepo) ListTranslations(_ context.Context, entityID string) ([]domain.Translation, error) {
	return f.translations[entityID], nil
}

func (f *fakeContentRepo) ListMedia(_ context.Context, entityID string) ([]domain.MediaAttachment, error) {
	return f.media[entityID], nil
}

func (f *fakeContentRepo) InsertMedia(_ context.Context, attachments []domain.MediaAttachment) error {
	if f.failInsertMedia {
		return fmt.Errorf("media insert failed")
	}
	for i := range attachments {
		f.nextID++
		attachments[i].ID = fmt.Sprintf("media-%d", f.nextID)
		f.media[attachments[i].EntityID] = append(f.media[attachments[i].EntityID], attachments[i])
	}
	return nil
}

func (f *fakeContentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.entities[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.entities, id)
	delete(f.translations, id)
	delete(f.media, id)
	return nil
}

func (f *fakeContentRepo) List(_ context.Context, filter repository.ContentFilter) ([]domain.ContentEntity, int64, error) {
	var result []domain.ContentEntity
	for _, e := range f.entities {
		result = append(result, *e)
	}
	total := f.listTotal
	if total == 0 {
		total = int64(len(result))
	}
	return result, total, nil
}

type fakeStorage struct {
	mu         sync.Mutex
	uploads    []storage.Object
	deleted    []string
	failUpload map[int]error
	failDelete map[string]error
	nextID     int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		failUpload: make(map[int]error),
		failDelete: make(map[string]error),
	}
}

func (f *fakeStorage) Upload(_ context.Context, obj storage.Object) (*storage.Stored, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failUpload[len(f.uploads)]; ok {
		return nil, err
	}
	f.uploads = append(f.uploads, obj)
	f.nextID++
	id := fmt.Sprintf("obj-%d", f.nextID)
	return &storage.Stored{
		URL:        "https://storage.example.com/" + id,
		ExternalID: id,
		SizeBytes:  int64(len(obj.Data)),
	}, nil
}

func (f *fakeStorage) Delete(_ context.Context, externalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failDelete[externalID]; ok {
		return err
	}
	f.deleted = append(f.deleted, externalID)
	return nil
}
