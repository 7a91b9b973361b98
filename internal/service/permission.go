package service

import (
	"errors"
	"fmt"
	"slices"

	"github.com/l1jgo/reaper/internal/persist"
	"github.com/l1jgo/reaper/internal/world"
	"go.uber.org/zap"
)

// ErrUnknownPermission is returned for tags outside world.KnownPermissions.
var ErrUnknownPermission = errors.New("unknown permission")

// PermissionRecorder persists permission changes.
type PermissionRecorder interface {
	RecordPermission(c persist.PermissionChange) error
}

// Permissions manages player permission tiers.
type Permissions struct {
	rec PermissionRecorder // nil = memory only
	log *zap.Logger
}

func NewPermissions(rec PermissionRecorder, log *zap.Logger) *Permissions {
	return &Permissions{rec: rec, log: log}
}

// Is reports whether e holds perm. NPCs hold nothing.
func (s *Permissions) Is(e *world.Entity, perm world.Permission) bool {
	return e != nil && e.Player != nil && e.Player.Permissions[perm]
}

// Give grants perm to e.
func (s *Permissions) Give(e *world.Entity, perm world.Permission) error {
	return s.set(e, perm, true)
}

// Remove revokes perm from e. Removing a tag the player lacks is not an error.
func (s *Permissions) Remove(e *world.Entity, perm world.Permission) error {
	return s.set(e, perm, false)
}

func (s *Permissions) set(e *world.Entity, perm world.Permission, granted bool) error {
	if !slices.Contains(world.KnownPermissions, perm) {
		return fmt.Errorf("%w: %q", ErrUnknownPermission, perm)
	}
	if e == nil || e.Player == nil {
		return fmt.Errorf("permission %q: %w", perm, ErrNotPlayer)
	}
	if e.Player.Permissions[perm] == granted {
		return nil
	}
	if granted {
		e.Player.Permissions[perm] = true
	} else {
		delete(e.Player.Permissions, perm)
	}
	e.Player.Dirty = true

	if s.rec != nil {
		if err := s.rec.RecordPermission(persist.PermissionChange{
			CharID:     e.Player.CharID,
			Permission: string(perm),
			Granted:    granted,
		}); err != nil {
			s.log.Warn("權限變更未寫入日誌", zap.Int32("char", e.Player.CharID), zap.String("perm", string(perm)), zap.Error(err))
		}
	}
	return nil
}
