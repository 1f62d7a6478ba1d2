package ai

import "context"

// Completer abstracts the external text-completion service. Implementations
// must respect the context deadline; callers bound every call with a timeout.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
