package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/loanrisk/internal/application/dto"
	"github.com/turtacn/loanrisk/internal/application/service"
	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/constants"
)

// PredictionHandler serves the JSON prediction API.
type PredictionHandler struct {
	predictions service.PredictionAppService
}

// NewPredictionHandler creates a new PredictionHandler.
func NewPredictionHandler(predictions service.PredictionAppService) *PredictionHandler {
	return &PredictionHandler{predictions: predictions}
}

// Predict godoc
// @Summary      Predict loan default risk
// @Description  Scores one client record and returns the label and the probability of default.
// @Tags         predictions
// @Accept       json
// @Produce      json
// @Param        request  body      dto.ClientRecordRequest  true  "Client record"
// @Success      200      {object}  dto.PredictionResponse
// @Failure      400      {object}  dto.APIResponse
// @Failure      422      {object}  dto.APIResponse
// @Failure      500      {object}  dto.APIResponse
// @Failure      503      {object}  dto.APIResponse
// @Router       /api/v1/predictions [post]
func (h *PredictionHandler) Predict(c *gin.Context) {
	var req dto.ClientRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.SendError(c, dto.BindingError(err))
		return
	}

	record, err := req.ToRecord()
	if err != nil {
		dto.SendError(c, err)
		return
	}

	res, err := h.predictions.Predict(c.Request.Context(), record, constants.SourceAPI)
	if err != nil {
		dto.SendError(c, err)
		return
	}
	dto.SendSuccess(c, http.StatusOK, dto.NewPredictionResponse(record, res))
}

// ModelTag identifies the loaded model; responses of Fields and Model only
// change when it does.
func (h *PredictionHandler) ModelTag() string {
	info := h.predictions.ModelInfo()
	return info.Backend + "/" + info.Name + "/" + info.Version
}

// Fields godoc
// @Summary      Field catalogue
// @Description  Lists the client record fields with their labels, kinds, bounds and options.
// @Tags         predictions
// @Produce      json
// @Success      200  {object}  dto.FieldsResponse
// @Router       /api/v1/fields [get]
func (h *PredictionHandler) Fields(c *gin.Context) {
	dto.SendSuccess(c, http.StatusOK, &dto.FieldsResponse{Fields: models.Fields()})
}

// Model godoc
// @Summary      Model information
// @Tags         predictions
// @Produce      json
// @Success      200  {object}  models.ModelInfo
// @Router       /api/v1/model [get]
func (h *PredictionHandler) Model(c *gin.Context) {
	dto.SendSuccess(c, http.StatusOK, h.predictions.ModelInfo())
}
