package session

import "context"

// Store keeps dialogue sessions keyed by owner id. Sessions have no expiry;
// they live until Clear. Get never fails on a missing session, it hands out
// a fresh Idle one instead.
//
// Store implementations serialize their own map access, but per-owner
// exclusion across a whole read-modify-write handler run is the caller's job.
type Store interface {
	Get(ctx context.Context, ownerID int64) (Session, error)
	SetState(ctx context.Context, ownerID int64, state State) error
	SetField(ctx context.Context, ownerID int64, key, value string) error
	Clear(ctx context.Context, ownerID int64) error
}
