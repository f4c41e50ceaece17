package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kstack-dev/content-service/internal/api/dto"
	"github.com/kstack-dev/content-service/internal/auth"
	"github.com/kstack-dev/content-service/internal/domain"
	"github.com/kstack-dev/content-service/internal/repository"
	"github.com/kstack-dev/content-service/internal/service"
	"github.com/kstack-dev/content-service/internal/storage"
)

// ContentHandler exposes the generic content endpoints for all four kinds.
type ContentHandler struct {
	content *service.ContentService
}

// NewContentHandler constructs the handler.
func NewContentHandler(content *service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// List handles GET /content/:kind.
func (h *ContentHandler) List(c *fiber.Ctx) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}

	var query dto.ContentListQuery
	if err := c.QueryParser(&query); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid query")
	}
	filter, err := buildFilter(query)
	if err != nil {
		return err
	}

	page, err := h.content.List(c.Context(), kind, filter)
	if err != nil {
		return err
	}

	items := make([]dto.ContentEntityResponse, len(page.Items))
	for i := range page.Items {
		items[i] = entityResponse(&page.Items[i])
	}
	return c.JSON(dto.OK("content list", dto.PageResponse{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages,
	}))
}

// Get handles GET /content/:kind/:id.
func (h *ContentHandler) Get(c *fiber.Ctx) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}

	detail, err := h.content.Get(c.Context(), kind, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("content detail", detailResponse(detail)))
}

// Create handles POST /content/:kind.
func (h *ContentHandler) Create(c *fiber.Ctx) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	input, err := parseWriteRequest(c)
	if err != nil {
		return err
	}

	entity, err := h.content.Create(c.Context(), kind, principal.Staff.ID, input)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("content created", entityResponse(entity)))
}

// Replace handles PUT /content/:kind/:id.
func (h *ContentHandler) Replace(c *fiber.Ctx) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	input, err := parseWriteRequest(c)
	if err != nil {
		return err
	}

	entity, err := h.content.Replace(c.Context(), kind, principal.Staff.ID, c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(dto.OK("content updated", entityResponse(entity)))
}

// Delete handles DELETE /content/:kind/:id.
func (h *ContentHandler) Delete(c *fiber.Ctx) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	if err := h.content.Delete(c.Context(), kind, principal.Staff.ID, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.OK("content deleted", nil))
}

// AttachMedia handles POST /content/:kind/:id/media.
func (h *ContentHandler) AttachMedia(c *fiber.Ctx) error {
	kind, err := kindParam(c)
	if err != nil {
		return err
	}
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, "authentication required")
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "multipart form required")
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return fiber.NewError(http.StatusBadRequest, "no files supplied")
	}

	files := make([]storage.Object, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "unreadable file")
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "unreadable file")
		}
		files = append(files, storage.Object{
			FileName:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	attachments, err := h.content.AttachMedia(c.Context(), kind, principal.Staff.ID, c.Params("id"), files)
	if err != nil {
		return err
	}

	result := make([]dto.MediaResponse, len(attachments))
	for i := range attachments {
		result[i] = mediaResponse(&attachments[i])
	}
	return c.Status(http.StatusCreated).JSON(dto.OK("media attached", result))
}

func kindParam(c *fiber.Ctx) (string, error) {
	name := c.Params("kind")
	if _, ok := domain.KindByName(name); !ok {
		return "", fiber.NewError(http.StatusNotFound, "unknown content kind")
	}
	return name, nil
}

func parseWriteRequest(c *fiber.Ctx) (service.ContentInput, error) {
	var req dto.ContentWriteRequest
	if err := c.BodyParser(&req); err != nil {
		return service.ContentInput{}, fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	translations := make([]service.TranslationInput, len(req.Translations))
	for i, tr := range req.Translations {
		translations[i] = service.TranslationInput{Locale: tr.Locale, Title: tr.Title, Body: tr.Body}
	}
	return service.ContentInput{
		Status:       domain.ContentStatus(req.Status),
		Category:     req.Category,
		Translations: translations,
	}, nil
}

func buildFilter(query dto.ContentListQuery) (repository.ContentFilter, error) {
	filter := repository.ContentFilter{
		Locale: query.Locale,
		Page:   query.Page,
		Limit:  query.Limit,
	}
	if query.Search != "" {
		filter.SearchTerm = &query.Search
	}
	if query.Status != "" {
		status := domain.ContentStatus(query.Status)
		filter.Status = &status
	}
	if query.Category != "" {
		filter.Category = &query.Category
	}
	if query.CreatedFrom != "" && query.CreatedTo != "" {
		from, err := time.Parse(time.RFC3339, query.CreatedFrom)
		if err != nil {
			return filter, fiber.NewError(http.StatusBadRequest, "invalid created_from")
		}
		to, err := time.Parse(time.RFC3339, query.CreatedTo)
		if err != nil {
			return filter, fiber.NewError(http.StatusBadRequest, "invalid created_to")
		}
		filter.CreatedFrom = &from
		filter.CreatedTo = &to
	}
	return filter, nil
}

func entityResponse(entity *domain.ContentEntity) dto.ContentEntityResponse {
	return dto.ContentEntityResponse{
		ID:             entity.ID,
		OwnerStaffID:   entity.OwnerStaffID,
		UpdaterStaffID: entity.UpdaterStaffID,
		Status:         string(entity.Status),
		Category:       entity.Category,
		CreatedAt:      entity.CreatedAt,
		UpdatedAt:      entity.UpdatedAt,
	}
}

func detailResponse(detail *service.ContentDetail) dto.ContentDetailResponse {
	translations := make([]dto.TranslationResponse, len(detail.Translations))
	for i, tr := range detail.Translations {
		translations[i] = dto.TranslationResponse{Locale: tr.Locale, Title: tr.Title, Body: tr.Body}
	}
	media := make([]dto.MediaResponse, len(detail.Media))
	for i := range detail.Media {
		media[i] = mediaResponse(&detail.Media[i])
	}
	return dto.ContentDetailResponse{
		Entity:       entityResponse(detail.Entity),
		Translations: translations,
		Media:        media,
	}
}

func mediaResponse(m *domain.MediaAttachment) dto.MediaResponse {
	return dto.MediaResponse{
		ID:          m.ID,
		URL:         m.URL,
		ExternalID:  m.ExternalID,
		ContentType: m.ContentType,
		SizeBytes:   m.SizeBytes,
		Width:       m.Width,
		Height:      m.Height,
	}
}
