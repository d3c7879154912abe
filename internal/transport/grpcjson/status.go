package grpcjson

import (
	"errors"

	"github.com/fekuna/omnipos-ledger/internal/apperror"
	"github.com/fekuna/omnipos-ledger/internal/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code maps a ledger error kind to a gRPC code.
func Code(err error) codes.Code {
	switch {
	case err == nil:
		return codes.OK
	case errors.Is(err, apperror.ErrNotFound):
		return codes.NotFound
	case errors.Is(err, apperror.ErrInsufficientStock),
		errors.Is(err, apperror.ErrAlreadyVoided),
		errors.Is(err, apperror.ErrAlreadySettled),
		errors.Is(err, apperror.ErrAlreadyCompleted):
		return codes.FailedPrecondition
	case errors.Is(err, apperror.ErrValidation):
		return codes.InvalidArgument
	case errors.Is(err, apperror.ErrConcurrentUpdate):
		return codes.Aborted
	}
	return codes.Internal
}

// Error converts err into a status error. Internal failures hide their detail.
func Error(err error) error {
	if err == nil {
		return nil
	}
	code := Code(err)
	if code == codes.Internal {
		return status.Error(code, "internal error")
	}
	return status.Error(code, err.Error())
}

// LogFailure logs a failed call once: rejected requests at Warn, internal
// failures at Error.
func LogFailure(log logger.ZapLogger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err), zap.String("code", Code(err).String()))
	if Code(err) == codes.Internal {
		log.Error(msg, fields...)
		return
	}
	log.Warn(msg, fields...)
}
