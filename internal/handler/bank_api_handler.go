package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/qbank-manager/internal/model"
	"github.com/stemsi/qbank-manager/internal/response"
	"github.com/stemsi/qbank-manager/internal/service"
	"github.com/stemsi/qbank-manager/internal/validator"
)

// BankAPIHandler exposes the bank as JSON.
type BankAPIHandler struct {
	bankService *service.BankService
}

// NewBankAPIHandler creates a new BankAPIHandler.
func NewBankAPIHandler(bankService *service.BankService) *BankAPIHandler {
	return &BankAPIHandler{bankService: bankService}
}

// ListEntries godoc
// GET /api/v1/entries
func (h *BankAPIHandler) ListEntries(c *gin.Context) {
	summaries, err := h.bankService.Summaries(c.Request.Context())
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to list entries")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"entries":  summaries,
		"complete": service.CountComplete(summaries),
	})
}

// GetEntry godoc
// GET /api/v1/entries/:index
func (h *BankAPIHandler) GetEntry(c *gin.Context) {
	index, ok := parseIndex(c.Param("index"))
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	entry, err := h.bankService.Get(c.Request.Context(), index)
	if err != nil {
		if errors.Is(err, service.ErrEntryNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Int("index", index).Msg("Failed to load entry")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"index":     index,
		"entry":     entry,
		"image_url": service.ImageURL(entry.Image),
	})
}

// ListImages godoc
// GET /api/v1/images
func (h *BankAPIHandler) ListImages(c *gin.Context) {
	images, err := h.bankService.Images(c.Request.Context())
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Failed to list images")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"images": images})
}

// Validate godoc
// POST /api/v1/validate
// Checks an entry body without saving it.
func (h *BankAPIHandler) Validate(c *gin.Context) {
	var entry model.Entry
	if fields := validator.Bind(c, &entry); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, fields)
		return
	}

	if problems := service.ValidateEntry(entry); len(problems) > 0 {
		response.FailWithProblems(c, http.StatusUnprocessableEntity, problems)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"valid": true})
}
