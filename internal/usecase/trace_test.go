package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/degplus/brawl-collector/internal/domain/battle"
	"github.com/degplus/brawl-collector/internal/domain/roster"
	battlemock "github.com/degplus/brawl-collector/internal/mocks/domain/battle"
	rostermock "github.com/degplus/brawl-collector/internal/mocks/domain/roster"
	"github.com/degplus/brawl-collector/internal/platform/logging"
)

func TestCollectService_Run_EmitsRootAndStageSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))

	rosterRepo := rostermock.NewRepository(t)
	factRepo := battlemock.NewFactRepository(t)

	source := sourceAlpha()
	item := teamBattleFixture()
	item.BattleTime = time.Now().UTC().Add(-time.Hour).Format(battle.BattleTimeLayout)

	rosterRepo.
		On("ListActive", mock.Anything).
		Return([]roster.SourcePlayer{source}, nil).
		Once()
	rosterRepo.
		On("ListAll", mock.Anything).
		Return([]roster.SourcePlayer{source}, nil).
		Once()
	factRepo.
		On("ExistingGameIDs", mock.Anything, mock.Anything, mock.Anything).
		Return(map[string]struct{}{}, nil).
		Once()
	factRepo.
		On("InsertRows", mock.Anything, mock.Anything).
		Return(6, nil).
		Once()

	svc, err := NewCollectService(rosterRepo, fixedProvider{battles: []ExternalBattle{item}}, factRepo, mockCollectConfig(), logging.NewNop())
	if err != nil {
		t.Fatalf("build collect service: %v", err)
	}

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}

	spans := recorder.Ended()
	byName := make(map[string]sdktrace.ReadOnlySpan, len(spans))
	for _, s := range spans {
		byName[s.Name()] = s
	}

	run, ok := byName["usecase.CollectService.Run"]
	if !ok {
		t.Fatalf("expected a root span for the run, got spans %v", spanNames(spans))
	}
	if !run.SpanContext().IsValid() {
		t.Fatal("run span context is not valid")
	}
	if run.Parent().IsValid() {
		t.Fatal("run span should be a trace root")
	}

	fetch, ok := byName["usecase.CollectService.FetchAll"]
	if !ok {
		t.Fatalf("expected a fetch stage span, got spans %v", spanNames(spans))
	}
	if fetch.Parent().SpanID() != run.SpanContext().SpanID() {
		t.Fatal("fetch stage span is not a child of the run span")
	}
}

func TestStartUsecaseSpan_NoParentStaysNoop(t *testing.T) {
	ctx := context.Background()
	gotCtx, span := startUsecaseSpan(ctx, "usecase.CollectService.FetchAll")
	if span.SpanContext().IsValid() {
		t.Fatal("stage span without a run span should not record")
	}
	if gotCtx != ctx {
		t.Fatal("context should pass through unchanged without a run span")
	}
}

func spanNames(spans []sdktrace.ReadOnlySpan) []string {
	names := make([]string, 0, len(spans))
	for _, s := range spans {
		names = append(names, s.Name())
	}
	return names
}
