package response

import (
	"errors"

	"github.com/evandrarf/hangeul-quiz-be/internal/pkg/validate"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type Response struct {
	StatusCode int    `json:"-"`
	Success    bool   `json:"success"`
	Message    string `json:"message,omitempty"`
	Error      any    `json:"error,omitempty"`
	Data       any    `json:"data,omitempty"`
	Meta       any    `json:"meta,omitempty"`
}

func NewInternalServerError() *Response {
	res := &Response{
		Success:    false,
		Message:    "Internal Server Error",
		StatusCode: fiber.StatusInternalServerError,
	}
	return res
}

func NewFailed(msg string, err error, logger *logrus.Logger) *Response {
	res := &Response{
		Success:    false,
		Message:    msg,
		StatusCode: fiber.StatusInternalServerError,
	}

	var (
		fe     *fiber.Error
		fields *validate.FieldsError
	)
	switch {
	case errors.As(err, &fe):
		res.StatusCode = fe.Code
		if fe.Message != "" && fe.Code != fiber.StatusInternalServerError {
			res.Error = fe.Message
		}
	case errors.As(err, &fields):
		res.StatusCode = fiber.StatusBadRequest
		res.Error = fields.Fields
	}

	if logger != nil && res.StatusCode >= fiber.StatusInternalServerError {
		logger.WithFields(logrus.Fields{"status": res.StatusCode, "message": msg}).WithError(err).Error("request failed")
	}

	return res
}

func NewSuccess(msg string, data any, meta any) *Response {
	res := &Response{
		Success:    true,
		Message:    msg,
		StatusCode: fiber.StatusOK,
		Data:       data,
		Meta:       meta,
	}

	return res
}

// WithData attaches a payload to a failed response, e.g. state the client can retry from.
func (r *Response) WithData(data any) *Response {
	r.Data = data
	return r
}

func (r *Response) WithStatus(code int) *Response {
	r.StatusCode = code
	return r
}

func (r *Response) Send(ctx *fiber.Ctx) error {
	return ctx.Status(r.StatusCode).JSON(r)
}
