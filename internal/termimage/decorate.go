package termimage

import (
	"context"
	"fmt"

	"termimage/backend/internal/hooks"
	"termimage/backend/internal/models"
)

// decorateTerms handles get_term and get_terms: every targeted term gets the
// Attribute set to its stored image id, or to nil when it has none.
func (t *TermImage) decorateTerms(ctx context.Context, e *hooks.Event) error {
	var targeted []*models.Term
	var ids []uint
	for _, term := range e.Terms {
		if term != nil && t.targets(term.Taxonomy) {
			targeted = append(targeted, term)
			ids = append(ids, term.ID)
		}
	}
	if len(targeted) == 0 {
		return nil
	}

	var images map[uint]uint
	if len(targeted) == 1 {
		imageID, ok, err := t.store.Get(ctx, ids[0])
		if err != nil {
			return fmt.Errorf("failed to read image for term %d: %w", ids[0], err)
		}
		images = map[uint]uint{}
		if ok {
			images[ids[0]] = imageID
		}
	} else {
		var err error
		images, err = t.store.GetMany(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to read term images: %w", err)
		}
	}

	for _, term := range targeted {
		if imageID, ok := images[term.ID]; ok {
			term.SetAttribute(Attribute, imageID)
		} else {
			term.SetAttribute(Attribute, nil)
		}
	}
	return nil
}
