package handler

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/qbank-manager/internal/model"
	"github.com/stemsi/qbank-manager/internal/service"
	"github.com/stemsi/qbank-manager/internal/validator"
	"github.com/stemsi/qbank-manager/internal/view"
)

// MsgSaved is shown after a successful edit.
const MsgSaved = "saved and updated the question bank file"

// maxSlots mirrors the question_count binding limit.
const maxSlots = 500

// BankHandler serves the HTML editor pages.
type BankHandler struct {
	bankService *service.BankService
	log         zerolog.Logger
}

// NewBankHandler creates a new BankHandler.
func NewBankHandler(bankService *service.BankService, log zerolog.Logger) *BankHandler {
	return &BankHandler{
		bankService: bankService,
		log:         log.With().Str("component", "bank_handler").Logger(),
	}
}

// Index godoc
// GET /
// Reconciles the bank with the image directory and lists every entry.
func (h *BankHandler) Index(c *gin.Context) {
	summaries, err := h.bankService.Summaries(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to list entries")
		return
	}
	c.HTML(http.StatusOK, view.IndexPage, view.Index{
		Entries:  summaries,
		Complete: service.CountComplete(summaries),
	})
}

// Create godoc
// POST /new
// Appends a blank entry and redirects to its edit page.
func (h *BankHandler) Create(c *gin.Context) {
	index, err := h.bankService.CreateBlank(c.Request.Context())
	if err != nil {
		h.fail(c, err, "Failed to create entry")
		return
	}
	c.Redirect(http.StatusSeeOther, editPath(index))
}

// Edit godoc
// GET /edit/:index
func (h *BankHandler) Edit(c *gin.Context) {
	index, ok := parseIndex(c.Param("index"))
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	entry, err := h.bankService.Get(c.Request.Context(), index)
	if err != nil {
		if errors.Is(err, service.ErrEntryNotFound) {
			c.Redirect(http.StatusFound, "/")
			return
		}
		h.fail(c, err, "Failed to load entry")
		return
	}

	page, err := h.editPage(c, index, entry.Image, entry.Description, service.QuestionSlots(entry.Questions))
	if err != nil {
		h.fail(c, err, "Failed to list images")
		return
	}
	c.HTML(http.StatusOK, view.EditPage, page)
}

// Save godoc
// POST /edit/:index
// Parses the submitted entry, validates it and replaces the stored entry.
// A rejected submission is shown again with the values the operator typed.
func (h *BankHandler) Save(c *gin.Context) {
	index, ok := parseIndex(c.Param("index"))
	if !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	// Sync and range-check before looking at the submission.
	if _, err := h.bankService.Get(c.Request.Context(), index); err != nil {
		if errors.Is(err, service.ErrEntryNotFound) {
			c.Redirect(http.StatusFound, "/")
			return
		}
		h.fail(c, err, "Failed to load entry")
		return
	}

	var form model.EditForm
	if fields := validator.BindForm(c, &form); fields != nil {
		form.Image = strings.TrimSpace(c.PostForm("image"))
		form.Description = strings.TrimSpace(c.PostForm("description"))
		form.Questions = readSlots(c, min(max(form.QuestionCount, 0), maxSlots))
		h.reject(c, index, form, fieldMessages(fields))
		return
	}
	form.Image = strings.TrimSpace(form.Image)
	form.Description = strings.TrimSpace(form.Description)
	form.Questions = readSlots(c, form.QuestionCount)

	questions, parseErrs := service.ParseQuestionForm(form.Questions)
	entry := model.Entry{
		Image:       form.Image,
		Description: form.Description,
		Questions:   questions,
	}

	msgs, err := h.bankService.Update(c.Request.Context(), index, entry, parseErrs)
	switch {
	case errors.Is(err, service.ErrInvalidEntry):
		h.reject(c, index, form, msgs)
		return
	case errors.Is(err, service.ErrEntryNotFound):
		c.Redirect(http.StatusFound, "/")
		return
	case err != nil:
		h.fail(c, err, "Failed to save entry")
		return
	}

	page, err := h.editPage(c, index, entry.Image, entry.Description, service.QuestionSlots(entry.Questions))
	if err != nil {
		h.fail(c, err, "Failed to list images")
		return
	}
	page.Message = MsgSaved
	c.HTML(http.StatusOK, view.EditPage, page)
}

func (h *BankHandler) reject(c *gin.Context, index int, form model.EditForm, msgs []string) {
	page, err := h.editPage(c, index, form.Image, form.Description, form.Questions)
	if err != nil {
		h.fail(c, err, "Failed to list images")
		return
	}
	page.Errors = msgs
	c.HTML(http.StatusUnprocessableEntity, view.EditPage, page)
}

// editPage builds the edit view. The slots end with one empty slot so a new
// question can be added.
func (h *BankHandler) editPage(c *gin.Context, index int, image, description string, slots []model.QuestionForm) (view.Edit, error) {
	images, err := h.bankService.Images(c.Request.Context())
	if err != nil {
		return view.Edit{}, err
	}
	withBlank := append([]model.QuestionForm{}, slots...)
	if n := len(withBlank); n == 0 || !withBlank[n-1].IsBlank() {
		withBlank = append(withBlank, model.QuestionForm{})
	}
	return view.Edit{
		Index:       index,
		Image:       image,
		Description: description,
		ImageURL:    service.ImageURL(image),
		Images:      images,
		Slots:       withBlank,
	}, nil
}

func (h *BankHandler) fail(c *gin.Context, err error, msg string) {
	zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg(msg)
	c.HTML(http.StatusInternalServerError, view.ErrorPage, view.Error{
		Status:  http.StatusInternalServerError,
		Message: "Something went wrong. Check the server log.",
	})
}

// readSlots collects questions[i][field] for every slot below count.
func readSlots(c *gin.Context, count int) []model.QuestionForm {
	slots := make([]model.QuestionForm, 0, count)
	for i := 0; i < count; i++ {
		key := func(field string) string { return fmt.Sprintf("questions[%d][%s]", i, field) }
		slots = append(slots, model.QuestionForm{
			Text:       c.PostForm(key("text")),
			Options:    c.PostForm(key("options")),
			Answer:     c.PostForm(key("answer")),
			Difficulty: c.PostForm(key("difficulty")),
		})
	}
	return slots
}

func parseIndex(raw string) (int, bool) {
	index, err := strconv.Atoi(raw)
	if err != nil || index < 0 {
		return 0, false
	}
	return index, true
}

func editPath(index int) string {
	return "/edit/" + strconv.Itoa(index)
}

// fieldMessages flattens binding errors into a stable list.
func fieldMessages(fields map[string]string) []string {
	msgs := make([]string, 0, len(fields))
	for _, msg := range fields {
		msgs = append(msgs, msg)
	}
	sort.Strings(msgs)
	return msgs
}
