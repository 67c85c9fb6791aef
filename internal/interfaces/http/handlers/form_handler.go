package handlers

import (
	"bytes"
	stderrors "errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/turtacn/loanrisk/internal/application/dto"
	"github.com/turtacn/loanrisk/internal/application/service"
	"github.com/turtacn/loanrisk/internal/config"
	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/internal/infrastructure/session"
	"github.com/turtacn/loanrisk/internal/interfaces/http/view"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/errors"
	"github.com/turtacn/loanrisk/pkg/logger"
)

// Form actions posted by the page buttons.
const (
	ActionUpdate        = "update"
	ActionPredict       = "predict"
	ActionPredictInline = "predict_inline"
)

// formErrorKey holds a message not attributable to a single field.
const formErrorKey = ""

const predictionFailedMessage = "The model could not produce a prediction. Please try again later."

// FormHandler serves the interactive prediction form.
type FormHandler struct {
	predictions service.PredictionAppService
	sessions    *session.Store
	cfg         config.SessionConfig
	logger      logger.Logger
}

// NewFormHandler creates a new FormHandler.
func NewFormHandler(predictions service.PredictionAppService, sessions *session.Store, cfg config.SessionConfig, log logger.Logger) *FormHandler {
	return &FormHandler{
		predictions: predictions,
		sessions:    sessions,
		cfg:         cfg,
		logger:      log,
	}
}

// Show renders the form prefilled from the session snapshot, or the defaults
// when there is none. A session that already used the sidebar predict action
// is re-predicted on every render.
func (h *FormHandler) Show(c *gin.Context) {
	record := models.DefaultClientRecord()
	var snap session.Snapshot
	if id, ok := h.sessionID(c); ok {
		if s, found := h.sessions.Get(id); found {
			snap = s
			record = &snap.Record
			h.sessions.Touch(id)
		}
	}

	page := view.NewPage(record, h.predictions.ModelInfo())
	page.PredictRequested = snap.PredictRequested
	page.ActiveTab = tabOf(c.Query("tab"))

	status := http.StatusOK
	if snap.PredictRequested {
		status = h.predict(c, record, &page)
	}
	h.render(c, status, page)
}

// Submit handles the form buttons: update, predict and predict_inline.
func (h *FormHandler) Submit(c *gin.Context) {
	id := h.ensureSession(c)
	snap, _ := h.sessions.Get(id)

	action := c.PostForm("action")
	switch action {
	case ActionUpdate, ActionPredict, ActionPredictInline:
	default:
		action = ActionUpdate
	}

	record, fieldErrs := bindForm(c)
	if len(fieldErrs) > 0 {
		formErr := fieldErrs[formErrorKey]
		delete(fieldErrs, formErrorKey)
		page := view.Page{
			Values:           rawValues(c.Request.PostForm),
			Errors:           fieldErrs,
			FormError:        formErr,
			PredictRequested: snap.PredictRequested,
			ActiveTab:        tabOf(c.PostForm("tab")),
			Model:            h.predictions.ModelInfo(),
		}
		h.logger.Info(c.Request.Context(), "Client details rejected", logger.Int("invalid_fields", len(fieldErrs)))
		h.render(c, http.StatusUnprocessableEntity, page)
		return
	}

	if action == ActionPredict {
		snap.PredictRequested = true
	}
	snap.Record = *record
	h.sessions.Save(id, snap)

	page := view.NewPage(record, h.predictions.ModelInfo())
	page.PredictRequested = snap.PredictRequested
	page.ActiveTab = tabOf(c.PostForm("tab"))
	if action != ActionUpdate {
		page.ActiveTab = constants.TabPrediction
	}

	status := http.StatusOK
	if snap.PredictRequested || action == ActionPredictInline {
		status = h.predict(c, record, &page)
	}
	h.render(c, status, page)
}

// Reset drops the session snapshot and starts over.
func (h *FormHandler) Reset(c *gin.Context) {
	if id, ok := h.sessionID(c); ok {
		h.sessions.Delete(id)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, "", -1, "/", "", h.cfg.SecureCookie, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *FormHandler) predict(c *gin.Context, record *models.ClientRecord, page *view.Page) int {
	res, err := h.predictions.Predict(c.Request.Context(), record, constants.SourceForm)
	if err != nil {
		page.PredictionError = predictionFailedMessage
		return errors.HTTPStatusOf(err)
	}
	page.Result = res
	return http.StatusOK
}

func (h *FormHandler) render(c *gin.Context, status int, page view.Page) {
	var buf bytes.Buffer
	if err := view.Render(&buf, page); err != nil {
		h.logger.Error(c.Request.Context(), "Failed to render form", err)
		c.String(http.StatusInternalServerError, "internal server error")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func (h *FormHandler) sessionID(c *gin.Context) (string, bool) {
	id, err := c.Cookie(h.cfg.CookieName)
	if err != nil || !session.ValidID(id) {
		return "", false
	}
	return id, true
}

// ensureSession returns the caller's session id, issuing a new cookie when
// the request carries none. The cookie lifetime follows the store TTL.
func (h *FormHandler) ensureSession(c *gin.Context) string {
	id, ok := h.sessionID(c)
	if !ok {
		id = session.NewID()
	}
	c.Set(string(constants.ContextKeySessionID), id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cfg.CookieName, id, int(h.cfg.TTL.Seconds()), "/", "", h.cfg.SecureCookie, true)
	return id
}

// bindForm parses the posted record. Field errors are keyed by field name.
func bindForm(c *gin.Context) (*models.ClientRecord, map[string]string) {
	if err := c.Request.ParseForm(); err != nil {
		return nil, map[string]string{formErrorKey: "form could not be read"}
	}
	if errs := checkNumbers(c.Request.PostForm); len(errs) > 0 {
		return nil, errs
	}

	var req dto.ClientRecordRequest
	if err := c.ShouldBindWith(&req, binding.Form); err != nil {
		return nil, fieldErrors(dto.BindingError(err))
	}
	record, err := req.ToRecord()
	if err != nil {
		return nil, fieldErrors(err)
	}
	return record, nil
}

// checkNumbers rejects numeric inputs that are blank or do not parse, which
// form binding would otherwise turn into zero or an opaque error.
func checkNumbers(form url.Values) map[string]string {
	errs := map[string]string{}
	for _, def := range models.Fields() {
		if !def.IsNumeric() {
			continue
		}
		raw := strings.TrimSpace(form.Get(def.Name))
		if raw == "" {
			errs[def.Name] = "is required"
			continue
		}
		if def.Kind == models.FieldDecimal {
			if _, err := strconv.ParseFloat(raw, 64); err != nil {
				errs[def.Name] = "must be a number"
			}
			continue
		}
		if _, err := strconv.Atoi(raw); err != nil {
			errs[def.Name] = "must be a whole number"
		}
	}
	return errs
}

func fieldErrors(err error) map[string]string {
	var verrs models.ValidationErrors
	if stderrors.As(err, &verrs) {
		return verrs.ByField()
	}
	return map[string]string{formErrorKey: err.Error()}
}

func rawValues(form url.Values) map[string]string {
	out := make(map[string]string, len(models.Fields()))
	for _, name := range models.FieldNames() {
		out[name] = form.Get(name)
	}
	return out
}

func tabOf(s string) string {
	if s == constants.TabPrediction {
		return constants.TabPrediction
	}
	return constants.TabSummary
}

//Personal.AI order the ending
