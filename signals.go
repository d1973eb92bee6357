package featenc

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for engine events.
var (
	SignalEngineCreated    = capitan.NewSignal("featenc.engine.created", "Engine instantiated")
	SignalEvaluateStart    = capitan.NewSignal("featenc.evaluate.start", "Evaluate call beginning")
	SignalEvaluateComplete = capitan.NewSignal("featenc.evaluate.complete", "Evaluate call finished")
	SignalSampleSkipped    = capitan.NewSignal("featenc.sample.skipped", "Batch abandoned on a validation failure")
	SignalMappingRestored  = capitan.NewSignal("featenc.mapping.restored", "Dynamic mapping recovered from file")
	SignalMappingCreated   = capitan.NewSignal("featenc.mapping.created", "Fresh dynamic mapping file established")
	SignalCategoryAssigned = capitan.NewSignal("featenc.category.assigned", "New category number assigned")
)

// Keys for typed event data.
var (
	KeyEngine   = capitan.NewStringKey("engine")
	KeyFeature  = capitan.NewStringKey("feature")
	KeyFormat   = capitan.NewStringKey("format")
	KeyValue    = capitan.NewStringKey("value")
	KeyReason   = capitan.NewStringKey("reason")
	KeyPath     = capitan.NewStringKey("path")
	KeyNumber   = capitan.NewIntKey("number")
	KeyCount    = capitan.NewIntKey("count")
	KeyDuration = capitan.NewDurationKey("duration")
	KeyError    = capitan.NewErrorKey("error")
)

// emitEngineCreated emits an event when an engine is constructed.
func emitEngineCreated(ctx context.Context, engine string, features int) {
	capitan.Emit(ctx, SignalEngineCreated,
		KeyEngine.Field(engine),
		KeyCount.Field(features),
	)
}

// emitEvaluateStart emits an event when an Evaluate call begins.
func emitEvaluateStart(ctx context.Context, engine string, format Format, features int) {
	capitan.Emit(ctx, SignalEvaluateStart,
		KeyEngine.Field(engine),
		KeyFormat.Field(string(format)),
		KeyCount.Field(features),
	)
}

// emitEvaluateComplete emits an event when an Evaluate call finishes.
func emitEvaluateComplete(ctx context.Context, engine string, format Format, values int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyEngine.Field(engine),
		KeyFormat.Field(string(format)),
		KeyCount.Field(values),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEvaluateComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEvaluateComplete, fields...)
	}
}

// emitSampleSkipped reports a soft failure: the batch was abandoned because one
// feature's value failed validation. This is the side channel callers observe
// instead of an error return.
func emitSampleSkipped(ctx context.Context, engine string, skip *skipError) {
	capitan.Error(ctx, SignalSampleSkipped,
		KeyEngine.Field(engine),
		KeyFeature.Field(skip.feature),
		KeyValue.Field(stringify(skip.value)),
		KeyReason.Field(skip.reason),
	)
}

// emitMappingRestored emits an event when a persisted mapping is recovered.
func emitMappingRestored(ctx context.Context, engine, feature, path string, entries int) {
	capitan.Emit(ctx, SignalMappingRestored,
		KeyEngine.Field(engine),
		KeyFeature.Field(feature),
		KeyPath.Field(path),
		KeyCount.Field(entries),
	)
}

// emitMappingCreated emits an event when a fresh mapping file is established.
func emitMappingCreated(ctx context.Context, engine, feature, path string) {
	capitan.Emit(ctx, SignalMappingCreated,
		KeyEngine.Field(engine),
		KeyFeature.Field(feature),
		KeyPath.Field(path),
	)
}

// emitCategoryAssigned emits an event when a dynamic mapping grows.
func emitCategoryAssigned(ctx context.Context, engine, feature, category string, number int) {
	capitan.Emit(ctx, SignalCategoryAssigned,
		KeyEngine.Field(engine),
		KeyFeature.Field(feature),
		KeyValue.Field(category),
		KeyNumber.Field(number),
	)
}
