package store

import (
	"context"
	"fmt"
	"sort"
)

// MigrateLegacy copies every entry of the legacy serialized mapping into dst
// and returns how many entries were copied. With purge set the legacy option
// is deleted once every entry has been written. Entries are copied in term
// order so a failed run can simply be repeated.
func MigrateLegacy(ctx context.Context, legacy *OptionStore, dst Store, purge bool) (int, error) {
	mapping, err := legacy.Load(ctx)
	if err != nil {
		return 0, err
	}

	termIDs := make([]uint, 0, len(mapping))
	for termID := range mapping {
		termIDs = append(termIDs, termID)
	}
	sort.Slice(termIDs, func(i, j int) bool { return termIDs[i] < termIDs[j] })

	for i, termID := range termIDs {
		if err := dst.Set(ctx, termID, mapping[termID]); err != nil {
			return i, fmt.Errorf("failed to migrate term %d: %w", termID, err)
		}
	}

	if purge {
		if err := legacy.Purge(ctx); err != nil {
			return len(termIDs), err
		}
	}
	return len(termIDs), nil
}
