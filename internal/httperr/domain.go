package httperr

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/agendaplus/salon-scheduler/internal/access"
	domain "github.com/agendaplus/salon-scheduler/internal/domain/appointment"
)

// ConflictResponse extends the error envelope with the conflicting
// appointment so clients can show the taken slot.
type ConflictResponse struct {
	HTTPError
	ConflictingID uint   `json:"conflicting_appointment_id,omitempty"`
	Start         string `json:"conflicting_start,omitempty"`
	End           string `json:"conflicting_end,omitempty"`
}

// FromDomain maps scheduler errors to HTTP outcomes. Unknown errors become
// a 500 without leaking detail.
func FromDomain(c *gin.Context, err error) {
	var (
		validation *domain.ValidationError
		conflict   *domain.ConflictError
		notFound   *domain.NotFoundError
		state      *domain.InvalidStateError
		transition *domain.InvalidTransitionError
		forbidden  *access.ForbiddenError
	)

	switch {
	case errors.As(err, &validation):
		BadRequest(c, "validation_error", validation.Error())

	case errors.As(err, &conflict):
		resp := ConflictResponse{
			HTTPError: HTTPError{
				Code:    "time_conflict",
				Message: conflict.Error(),
			},
			ConflictingID: conflict.ConflictingID,
		}
		if !conflict.Start.IsZero() {
			resp.Start = conflict.Start.Format("2006-01-02T15:04:05Z07:00")
			resp.End = conflict.End.Format("2006-01-02T15:04:05Z07:00")
		}
		c.JSON(409, resp)

	case errors.As(err, &notFound):
		NotFound(c, notFound.Entity+"_not_found", notFound.Error())

	case errors.As(err, &state):
		Unprocessable(c, "invalid_state", state.Error())

	case errors.As(err, &transition):
		Unprocessable(c, "invalid_transition", transition.Error())

	case errors.As(err, &forbidden):
		Forbidden(c, "forbidden", forbidden.Error())

	default:
		Internal(c, "internal_error", "unexpected error")
	}
}
