package server

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/joseph-ayodele/sales-tracker/internal/common"
	"github.com/joseph-ayodele/sales-tracker/internal/pipeline"
	"github.com/joseph-ayodele/sales-tracker/internal/query"
	"github.com/joseph-ayodele/sales-tracker/internal/schema"
	"github.com/joseph-ayodele/sales-tracker/internal/session"
)

// toStatus maps domain errors onto gRPC codes. Dataset errors carry BadRequest details
// naming the offending columns.
func toStatus(err error, logger *slog.Logger) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var (
		mf *schema.MissingFieldsError
		de *pipeline.DateParseError
		ce *pipeline.TypeCoercionError
		nf *query.NotFoundError
		ve common.ValidationErrors
	)
	switch {
	case errors.As(err, &mf):
		violations := make([]*errdetails.BadRequest_FieldViolation, 0, len(mf.Missing))
		for _, f := range mf.Missing {
			violations = append(violations, &errdetails.BadRequest_FieldViolation{Field: f, Description: "required column is missing"})
		}
		return withBadRequest(codes.InvalidArgument, err.Error(), violations)
	case errors.As(err, &de):
		return withBadRequest(codes.InvalidArgument, err.Error(), []*errdetails.BadRequest_FieldViolation{
			{Field: de.Field, Description: "unparseable date " + de.RawValue},
		})
	case errors.As(err, &ce):
		return withBadRequest(codes.InvalidArgument, err.Error(), []*errdetails.BadRequest_FieldViolation{
			{Field: ce.Field, Description: ce.Reason},
		})
	case errors.As(err, &ve):
		return ve.Status().Err()
	case errors.As(err, &nf):
		return common.NotFoundError(err.Error())
	case errors.Is(err, common.ErrNotFound):
		return common.NotFoundError(err.Error())
	case errors.Is(err, common.ErrInvalidInput):
		return common.InvalidArgumentError(err.Error())
	case errors.Is(err, common.ErrInvalidState):
		return common.FailedPreconditionError(err.Error())
	case errors.Is(err, session.ErrTooManySessions):
		return status.Error(codes.ResourceExhausted, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	}
	logger.Error("server.internal_error", "code", common.CodeOf(err), "err", err)
	return common.InternalError("internal error")
}

func withBadRequest(code codes.Code, msg string, violations []*errdetails.BadRequest_FieldViolation) error {
	st := status.New(code, msg)
	detailed, err := st.WithDetails(&errdetails.BadRequest{FieldViolations: violations})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}
