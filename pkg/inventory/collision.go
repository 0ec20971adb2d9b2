package inventory

import (
	"context"
	"fmt"

	"github.com/mwantia/modkeep/pkg/db/store"
	"github.com/mwantia/modkeep/pkg/log"
)

// Collision describes a fingerprint that is already recorded for a
// different mod.
type Collision struct {
	Hash string

	Mod  string
	File string

	ExistingModID uint
	ExistingMod   string
	ExistingFile  string
}

// CollisionDetector flags fingerprints that are about to be recorded while
// another mod already owns them. Detection never blocks the write.
type CollisionDetector struct {
	log     log.LoggerService
	console Console
}

func NewCollisionDetector(logger log.LoggerService, console Console) *CollisionDetector {
	return &CollisionDetector{
		log:     logger,
		console: console,
	}
}

// Check looks up hash in tx and reports every row that belongs to a mod
// other than modID.
func (d *CollisionDetector) Check(ctx context.Context, tx store.InventoryStore, modID uint, modName, file, hash string) ([]Collision, error) {
	existing, err := tx.FindHashesByFingerprint(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to look up fingerprint %s: %w", hash, err)
	}

	var collisions []Collision
	for _, row := range existing {
		if row.ModID == modID {
			continue
		}

		c := Collision{
			Hash:          hash,
			Mod:           modName,
			File:          file,
			ExistingModID: row.ModID,
			ExistingMod:   row.Mod.Name,
			ExistingFile:  row.File,
		}
		collisions = append(collisions, c)

		d.log.Warn("Hash collision on %s: '%s' (%s) matches '%s' (%s)",
			hash, file, modName, c.ExistingFile, c.ExistingMod)
		if d.console != nil {
			d.console.Collision(c)
		}
	}

	return collisions, nil
}
