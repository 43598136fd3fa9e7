package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/worldpop/worldpop-api/services"
	"github.com/worldpop/worldpop-api/utils"
)

// authFailedMessage is the single externally visible message for every
// credential failure, so responses never reveal whether an account exists or
// is disabled.
const authFailedMessage = "Invalid username or password"

// RespondError maps a service error onto an HTTP response. Internal causes
// are logged but never echoed to the client.
func RespondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var validationErr *utils.ValidationError
	if errors.As(err, &validationErr) {
		_ = utils.WriteBadRequest(w, validationErr.Message, validationErr.Details())
		return
	}

	domainErr, ok := services.AsDomainError(err)
	if !ok {
		logger.Error("unhandled error", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
		return
	}

	switch domainErr.Type {
	case services.ErrorTypeNotFound:
		_ = utils.WriteNotFound(w, domainErr.Message)
	case services.ErrorTypeValidation:
		_ = utils.WriteBadRequest(w, domainErr.Message, domainErr.Details)
	case services.ErrorTypeUnauthorized:
		_ = utils.WriteUnauthorized(w, authFailedMessage)
	case services.ErrorTypeForbidden:
		_ = utils.WriteForbidden(w, domainErr.Message)
	case services.ErrorTypeConflict:
		_ = utils.WriteConflict(w, domainErr.Message, domainErr.Details)
	default:
		logger.Error("internal error", zap.Error(err))
		_ = utils.WriteInternalServerError(w, "")
	}
}
