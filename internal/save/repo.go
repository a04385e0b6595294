package save

import (
	"context"
	"errors"

	"github.com/ronmurphy/soundrel-webgame-sub000/internal/run"
)

var ErrNoSave = errors.New("no save present")

// Repository persists one save blob per mode slot. Writes replace the
// whole slot atomically from the caller's perspective.
type Repository interface {
	Put(ctx context.Context, mode run.Mode, blob []byte) error
	Get(ctx context.Context, mode run.Mode) ([]byte, error)
	Has(ctx context.Context, mode run.Mode) (bool, error)
	Delete(ctx context.Context, mode run.Mode) error
}
