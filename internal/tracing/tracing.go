package tracing

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	"github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"

	"github.com/therealutkarshpriyadarshi/catalogadmin/internal/config"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Init installs the global tracer. Without a Jaeger endpoint the
// opentracing no-op tracer is used.
func Init(cfg config.TracingConfig) (opentracing.Tracer, io.Closer, error) {
	if cfg.JaegerEndpoint == "" {
		tracer := opentracing.NoopTracer{}
		opentracing.SetGlobalTracer(tracer)
		return tracer, nopCloser{}, nil
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "catalogctl"
	}

	// every command is a handful of requests, so sample all of them
	jc := &jaegercfg.Configuration{
		ServiceName: serviceName,
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			CollectorEndpoint: cfg.JaegerEndpoint,
		},
	}

	tracer, closer, err := jc.NewTracer()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize tracer: %w", err)
	}

	opentracing.SetGlobalTracer(tracer)
	return tracer, closer, nil
}

// StartClientSpan starts the span of one outgoing admin API call, named
// "api.<METHOD> <endpoint>".
func StartClientSpan(ctx context.Context, method, endpoint string) (opentracing.Span, context.Context) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "api."+method+" "+endpoint)
	ext.SpanKindRPCClient.Set(span)
	ext.HTTPMethod.Set(span, method)
	ext.HTTPUrl.Set(span, endpoint)
	return span, ctx
}

// Inject propagates span to the server through req's headers
func Inject(span opentracing.Span, header http.Header) {
	if span == nil {
		return
	}
	// a tracer that cannot inject simply leaves the headers alone
	_ = span.Tracer().Inject(span.Context(), opentracing.HTTPHeaders, opentracing.HTTPHeadersCarrier(header))
}

// Finish records the response status and error, if any, and ends span
func Finish(span opentracing.Span, status int, err error) {
	if span == nil {
		return
	}
	if status > 0 {
		ext.HTTPStatusCode.Set(span, uint16(status))
	}
	if err != nil {
		ext.Error.Set(span, true)
		span.LogKV("event", "error", "message", err.Error())
	}
	span.Finish()
}
