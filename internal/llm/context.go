package llm

import "context"

// PurposeUnknown labels requests whose context carries no purpose.
const PurposeUnknown = "unknown"

type purposeKey struct{}

// WithPurpose tags ctx with what the request is for ("quiz-gen",
// "mentor"). The tag ends up on the logged request event.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the tag set by WithPurpose.
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return PurposeUnknown
}
