package dto

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/turtacn/loanrisk/internal/domain/models"
	"github.com/turtacn/loanrisk/pkg/constants"
	"github.com/turtacn/loanrisk/pkg/errors"
)

// APIResponse 通用 API 响应结构
type APIResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *ErrorDTO   `json:"error,omitempty"`
	TraceID   string      `json:"trace_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// ErrorDTO 错误信息 DTO
type ErrorDTO struct {
	Code        string            `json:"code"`
	Message     string            `json:"message"`
	Description string            `json:"description,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}

// SuccessResponse 创建成功响应
func SuccessResponse(data interface{}, traceID string) *APIResponse {
	return &APIResponse{
		Success:   true,
		Data:      data,
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// ErrorResponse 创建错误响应. Unstructured errors are reported as server_error
// without leaking their text.
func ErrorResponse(err error, traceID string) *APIResponse {
	var errorDTO *ErrorDTO
	if se, ok := errors.AsServiceError(err); ok {
		errorDTO = &ErrorDTO{
			Code:        string(se.Code()),
			Message:     se.Error(),
			Description: se.Description(),
		}
	} else {
		errorDTO = &ErrorDTO{
			Code:    string(constants.ErrCodeServerError),
			Message: "Internal server error",
		}
	}

	return &APIResponse{
		Success:   false,
		Error:     errorDTO,
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// ValidationErrorResponse 创建验证错误响应
func ValidationErrorResponse(verrs models.ValidationErrors, traceID string) *APIResponse {
	return &APIResponse{
		Success: false,
		Error: &ErrorDTO{
			Code:        string(constants.ErrCodeValidationFailed),
			Message:     "Validation failed",
			Description: "One or more fields failed validation",
			Details:     verrs.ByField(),
		},
		TraceID:   traceID,
		Timestamp: time.Now().Unix(),
	}
}

// SendSuccess writes a success envelope.
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse(data, c.GetString(string(constants.ContextKeyTraceID))))
}

// SendError writes the envelope matching err: 422 with per-field details for
// validation failures, the ServiceError status otherwise.
func SendError(c *gin.Context, err error) {
	traceID := c.GetString(string(constants.ContextKeyTraceID))

	var verrs models.ValidationErrors
	if stderrors.As(err, &verrs) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ValidationErrorResponse(verrs, traceID))
		return
	}
	c.AbortWithStatusJSON(errors.HTTPStatusOf(err), ErrorResponse(err, traceID))
}

// BindingError converts a gin binding error. Rule violations become
// models.ValidationErrors; anything else (bad JSON, non-numeric input) is an
// invalid request.
func BindingError(err error) error {
	var ves validator.ValidationErrors
	if !stderrors.As(err, &ves) {
		return errors.ErrInvalidRequest("request body could not be decoded").WithCause(err)
	}
	out := make(models.ValidationErrors, 0, len(ves))
	for _, fe := range ves {
		name := requestFieldNames[fe.StructField()]
		out = append(out, models.FieldError{Field: name, Reason: constraintText(name, fe.Tag())})
	}
	return out
}

// constraintText phrases the declared constraint of a field the way
// NewClientRecord does.
func constraintText(name, tag string) string {
	def, ok := models.LookupField(name)
	if !ok {
		return "is invalid"
	}
	if tag == "required" {
		return "is required"
	}
	switch {
	case def.Kind == models.FieldEnum:
		return "must be one of " + strings.Join(def.Options, ", ")
	case def.Min != nil && def.Max != nil:
		return fmt.Sprintf("must be between %v and %v", *def.Min, *def.Max)
	case def.Min != nil:
		return fmt.Sprintf("must be at least %v", *def.Min)
	}
	return "is invalid"
}

//Personal.AI order the ending
