package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/nestmode/internal/nesting"
)

// TracingMode wraps a nesting.Mode with a span around every Token call, the
// span-per-line tracing this repo's tokenizer never needed an opinion about
// (spec.md never mentions tracing) but a production embedder driving it
// against real documents does, the same way perles/internal/orchestration
// wraps its agent client calls in spans rather than the client itself
// knowing about tracing.
type TracingMode struct {
	inner  nesting.Mode
	tracer trace.Tracer
}

// Wrap returns a Mode that traces every Token call to inner via tracer.
// tracer may come from a no-op Provider (see NewProvider), in which case
// Wrap adds negligible overhead and no exported spans.
func Wrap(inner nesting.Mode, tracer trace.Tracer) *TracingMode {
	return &TracingMode{inner: inner, tracer: tracer}
}

var _ nesting.Mode = (*TracingMode)(nil)

func (t *TracingMode) StartState(indent int, nestState *nesting.NestState) any {
	return t.inner.StartState(indent, nestState)
}

func (t *TracingMode) CopyState(state any) any {
	return t.inner.CopyState(state)
}

func (t *TracingMode) Token(stream nesting.Stream, state any) (string, error) {
	_, span := t.tracer.Start(context.Background(), "nesting.Mode.Token")
	defer span.End()

	before := stream.Pos()
	style, err := t.inner.Token(stream, state)
	after := stream.Pos()

	span.SetAttributes(
		attribute.Int("nesting.pos_before", before),
		attribute.Int("nesting.pos_after", after),
		attribute.String("nesting.style", style),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return style, err
}

// Indent forwards to inner's own Indent when inner implements Indenter,
// otherwise defers to the outer indent like any mode with nothing to add.
func (t *TracingMode) Indent(state any, textAfter, line string) int {
	if indenter, ok := t.inner.(nesting.Indenter); ok {
		return indenter.Indent(state, textAfter, line)
	}
	return nesting.PassIndent
}

// BlankLine forwards to inner's own BlankLine when present; a no-op
// otherwise, which is indistinguishable from inner not implementing
// BlankLiner at all from a caller's perspective.
func (t *TracingMode) BlankLine(state any) {
	if liner, ok := t.inner.(nesting.BlankLiner); ok {
		liner.BlankLine(state)
	}
}

func (t *TracingMode) InnerMode(state any) (nesting.Mode, any, bool) {
	if moder, ok := t.inner.(nesting.InnerModer); ok {
		return moder.InnerMode(state)
	}
	return t, state, false
}

func (t *TracingMode) Meta() (nesting.ModeMeta, bool) {
	if provider, ok := t.inner.(nesting.MetaProvider); ok {
		return provider.Meta()
	}
	return nesting.ModeMeta{}, false
}

func (t *TracingMode) ElectricChars() string {
	if provider, ok := t.inner.(nesting.ElectricCharProvider); ok {
		return provider.ElectricChars()
	}
	return ""
}
