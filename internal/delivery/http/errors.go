package http

import (
	"net/http"

	domainerrors "github.com/moldovancsaba/narimato-sub003/internal/errors"

	"github.com/gin-gonic/gin"
)

// errorResponse is the JSON body written for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// writeError maps the engine's typed error taxonomy onto HTTP status
// codes and a stable machine-readable code, and never leaks internal
// detail for errors classified Internal.
func writeError(c *gin.Context, err error) {
	status, code, message := classify(err)
	if status >= http.StatusInternalServerError {
		c.JSON(status, errorResponse{Error: "something went wrong", Code: code})
		return
	}
	c.JSON(status, errorResponse{Error: message, Code: code})
}

func classify(err error) (status int, code string, message string) {
	switch e := err.(type) {
	case *domainerrors.NotFoundError:
		return http.StatusNotFound, "not_found", e.Error()
	case *domainerrors.ExpiredError:
		return http.StatusGone, "expired", "session expired, please restart"
	case *domainerrors.WrongStateError:
		return http.StatusConflict, "wrong_state", e.Error()
	case *domainerrors.CardMismatchError:
		return http.StatusBadRequest, "card_mismatch", e.Error()
	case *domainerrors.PairMismatchError:
		return http.StatusBadRequest, "pair_mismatch", e.Error()
	case *domainerrors.InvalidWinnerError:
		return http.StatusBadRequest, "invalid_winner", e.Error()
	case *domainerrors.ConcurrentModificationError:
		return http.StatusConflict, "concurrent_modification", e.Error()
	case *domainerrors.DeckTooSmallError:
		return http.StatusBadRequest, "deck_too_small", e.Error()
	case *domainerrors.TenantUnknownError:
		return http.StatusNotFound, "tenant_unknown", e.Error()
	case *domainerrors.NotChildPlayError:
		return http.StatusBadRequest, "not_child_play", e.Error()
	case *domainerrors.DuplicateInputError:
		return http.StatusConflict, "duplicate_input", e.Error()
	case *domainerrors.AlreadyRunningError:
		return http.StatusConflict, "already_running", e.Error()
	case *domainerrors.InvariantViolationError:
		return http.StatusInternalServerError, "invariant_violation", e.Error()
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
