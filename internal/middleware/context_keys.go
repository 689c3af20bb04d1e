package middleware

import "context"

// triggerKey records what started an ingestion run.
const triggerKey = contextKey("trigger")

const (
	TriggerHTTP      = "http"
	TriggerScheduler = "scheduler"
)

// WithTrigger returns a copy of ctx tagged with the run trigger.
func WithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, triggerKey, trigger)
}

// GetTriggerFromCtx returns the run trigger, or "unknown" when untagged.
func GetTriggerFromCtx(ctx context.Context) string {
	if trigger, ok := ctx.Value(triggerKey).(string); ok {
		return trigger
	}
	return "unknown"
}
