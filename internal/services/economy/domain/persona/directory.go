package persona

import "context"

// Directory resolves whether a persona exists in the world. The game-engine
// bridge keeps it current; the economy core only ever asks for existence.
type Directory interface {
	Exists(ctx context.Context, id ID) (bool, error)
}
