package telemetry

import (
	"context"
	"errors"

	"github.com/propertyhub/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const TracerName = "propertyhub-backend"

// Span attributes set by the application services
var (
	AttrTenantID  = attribute.Key("tenant.id")
	AttrPresetID  = attribute.Key("onboarding.preset_id")
	AttrSessionID = attribute.Key("onboarding.session_id")
	AttrBlockers  = attribute.Key("lifecycle.blockers")
	AttrDeleted   = attribute.Key("lifecycle.deleted_records")
	AttrErrorCode = attribute.Key("error.code")
)

// StartServiceSpan opens an internal span named "<service>.<method>"
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError attaches err to span. A *shared.DomainError is a business
// outcome such as DELETE_BLOCKED: it is recorded with its code but leaves the
// span status unset. Anything else marks the span failed.
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		span.RecordError(err, trace.WithAttributes(AttrErrorCode.String(domainErr.Code)))
		span.SetAttributes(AttrErrorCode.String(domainErr.Code))
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
