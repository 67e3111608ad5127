package termimage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"termimage/backend/internal/hooks"
	"termimage/backend/internal/hub"
)

// saveTermImage handles created_term and edited_term.
//
// The handler fires for every taxonomy's form, so a submission without a
// valid nonce, for another taxonomy, or without the image field is skipped
// without error. The posted taxonomy must be the one of the saved term.
// Otherwise a value that sanitizes to a positive id is stored, an empty or
// zero value clears an existing entry, and an id too large to be an image
// changes nothing.
func (t *TermImage) saveTermImage(ctx context.Context, e *hooks.Event) error {
	log := t.log.WithFields(logrus.Fields{"event": e.Name, "term_id": e.TermID})

	if e.Form == nil || e.TermID == 0 {
		return nil
	}
	if !t.nonces.VerifyNonce(e.Form.Get(NonceField), NonceAction, e.UserID) {
		log.Debug("skipping term image save: missing or invalid nonce")
		return nil
	}
	taxonomy := e.Form.Get(TaxonomyField)
	if !t.targets(taxonomy) {
		return nil
	}
	if e.Taxonomy != "" && e.Taxonomy != taxonomy {
		log.WithFields(logrus.Fields{"form_taxonomy": taxonomy, "term_taxonomy": e.Taxonomy}).
			Warn("skipping term image save: posted taxonomy does not match the term")
		return nil
	}
	values, submitted := e.Form[FieldName]
	if !submitted || len(values) == 0 {
		return nil
	}

	raw := strings.TrimSpace(values[0])
	if raw != "" {
		imageID, ok := absint(raw)
		if !ok {
			log.WithField("value", raw).Warn("skipping term image save: image id out of range")
			return nil
		}
		if imageID > 0 {
			if err := t.store.Set(ctx, e.TermID, imageID); err != nil {
				return fmt.Errorf("failed to save image for term %d: %w", e.TermID, err)
			}
			log.WithField("image_id", imageID).Info("term image saved")
			t.notify(taxonomy, EventUpdated, e.TermID, imageID)
			return nil
		}
	}

	return t.clear(ctx, taxonomy, e.TermID, log)
}

// deleteTermImage handles delete_term.
func (t *TermImage) deleteTermImage(ctx context.Context, e *hooks.Event) error {
	if e.TermID == 0 || !t.targets(e.Taxonomy) {
		return nil
	}
	return t.clear(ctx, e.Taxonomy, e.TermID, t.log.WithFields(logrus.Fields{"event": e.Name, "term_id": e.TermID}))
}

// clear removes the entry of termID when one exists.
func (t *TermImage) clear(ctx context.Context, taxonomy string, termID uint, log *logrus.Entry) error {
	_, exists, err := t.store.Get(ctx, termID)
	if err != nil {
		return fmt.Errorf("failed to read image for term %d: %w", termID, err)
	}
	if !exists {
		return nil
	}
	if err := t.store.Remove(ctx, termID); err != nil {
		return fmt.Errorf("failed to remove image for term %d: %w", termID, err)
	}
	log.Info("term image removed")
	t.notify(taxonomy, EventRemoved, termID, 0)
	return nil
}

type changePayload struct {
	TermID  uint  `json:"term_id"`
	ImageID *uint `json:"image_id"`
}

func (t *TermImage) notify(taxonomy, eventType string, termID, imageID uint) {
	if t.notifier == nil {
		return
	}
	payload := changePayload{TermID: termID}
	if imageID > 0 {
		payload.ImageID = &imageID
	}
	t.notifier.Broadcast(taxonomy, hub.Event{Type: eventType, Payload: payload})
}
