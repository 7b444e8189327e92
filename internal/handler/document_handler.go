package handler

import (
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"docmanager/internal/blob"
	"docmanager/internal/errors"
	"docmanager/internal/model"
	"docmanager/internal/service"
)

// DocumentHandler handles document endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
	blobs           blob.Store
	log             logrus.FieldLogger
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(documentService service.DocumentService, blobs blob.Store, log logrus.FieldLogger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		blobs:           blobs,
		log:             log,
	}
}

// ListDocuments godoc
// @Summary List documents visible to the caller
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param includeExpired query bool false "Include documents outside their access window"
// @Success 200 {array} model.Document
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /documents [get]
func (h *DocumentHandler) ListDocuments(c echo.Context) error {
	var includeExpired bool
	if err := echo.QueryParamsBinder(c).Bool("includeExpired", &includeExpired).BindError(); err != nil {
		return badRequest("includeExpired must be a boolean")
	}

	docs, err := h.documentService.List(c.Request().Context(), actor(c), includeExpired)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, docs)
}

// SearchDocuments godoc
// @Summary Search documents
// @Description Case-insensitive substring match on title, filename, description, summary and keywords.
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search text"
// @Success 200 {array} model.Document
// @Failure 401 {object} errors.ErrorResponse
// @Router /documents/search [get]
func (h *DocumentHandler) SearchDocuments(c echo.Context) error {
	docs, err := h.documentService.Search(c.Request().Context(), actor(c), c.QueryParam("q"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, docs)
}

// GetDocument godoc
// @Summary Get document by id
// @Tags documents
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 200 {object} model.Document
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetDocument(c echo.Context) error {
	doc, err := h.documentService.GetByID(c.Request().Context(), actor(c), c.Param("id"))
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, doc)
}

// UploadDocument godoc
// @Summary Upload a document
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "File content"
// @Param isPublic formData bool false "Visible to every user"
// @Param accessStart formData string false "RFC 3339 start of the access window"
// @Param accessEnd formData string false "RFC 3339 end of the access window"
// @Param title formData string false "Title, defaults to the file name"
// @Param description formData string false "Description"
// @Success 201 {object} model.Document
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /documents [post]
func (h *DocumentHandler) UploadDocument(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest("multipart field \"file\" is required")
	}

	opts, err := uploadOptions(c)
	if err != nil {
		return respondError(err)
	}

	src, err := fh.Open()
	if err != nil {
		return respondError(err)
	}
	defer src.Close()

	ctx := c.Request().Context()
	key := uuid.NewString() + strings.ToLower(path.Ext(fh.Filename))
	location, err := h.blobs.Put(ctx, key, src, fh.Size, fh.Header.Get(echo.HeaderContentType))
	if err != nil {
		return respondError(err)
	}

	doc, err := h.documentService.Upload(ctx, actor(c), model.FileMeta{
		Filename:        path.Base(fh.Filename),
		SizeBytes:       fh.Size,
		ContentLocation: location,
	}, opts)
	if err != nil {
		if derr := h.blobs.Delete(ctx, key); derr != nil {
			h.log.WithError(derr).WithField("key", key).Warn("remove orphaned blob")
		}
		return respondError(err)
	}
	return c.JSON(http.StatusCreated, doc)
}

func uploadOptions(c echo.Context) (model.UploadOptions, error) {
	var opts model.UploadOptions

	if v := c.FormValue("isPublic"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.Invalid("isPublic must be a boolean")
		}
		opts.IsPublic = &b
	}
	for name, dst := range map[string]**time.Time{
		"accessStart": &opts.AccessStart,
		"accessEnd":   &opts.AccessEnd,
	} {
		v := c.FormValue(name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return opts, errors.Invalid("%s must be an RFC 3339 timestamp", name)
		}
		*dst = &t
	}
	if v := c.FormValue("title"); v != "" {
		opts.Title = &v
	}
	if v := c.FormValue("description"); v != "" {
		opts.Description = &v
	}
	return opts, nil
}

// UpdateDocument godoc
// @Summary Update document metadata
// @Description Only fields present in the body change; null clears a field.
// @Tags documents
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Param request body model.DocumentPatch true "Fields to change"
// @Success 200 {object} model.Document
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /documents/{id} [patch]
func (h *DocumentHandler) UpdateDocument(c echo.Context) error {
	var patch model.DocumentPatch
	if err := c.Bind(&patch); err != nil {
		return badRequest("invalid request body")
	}

	doc, err := h.documentService.Update(c.Request().Context(), actor(c), c.Param("id"), patch)
	if err != nil {
		return respondError(err)
	}
	return c.JSON(http.StatusOK, doc)
}

// DeleteDocument godoc
// @Summary Delete document
// @Tags documents
// @Security BearerAuth
// @Param id path string true "Document ID"
// @Success 204
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /documents/{id} [delete]
func (h *DocumentHandler) DeleteDocument(c echo.Context) error {
	if err := h.documentService.Delete(c.Request().Context(), actor(c), c.Param("id")); err != nil {
		return respondError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
