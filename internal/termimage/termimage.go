// Package termimage attaches one image to each term of the configured
// taxonomies. It renders the picker field on the term screens, keeps the
// association store in step with term saves and deletions, and exposes the
// stored image id as the "image_id" attribute of fetched terms.
package termimage

import (
	"io"
	"sort"

	"github.com/sirupsen/logrus"

	"termimage/backend/internal/hooks"
	"termimage/backend/internal/hub"
	"termimage/backend/internal/media"
	"termimage/backend/internal/store"
)

const (
	// FieldName is the form field carrying the selected image id.
	FieldName = "taxonomy_term_image"
	// NonceField is the form field carrying the anti-forgery token.
	NonceField = "taxonomy_term_image_nonce"
	// NonceAction is the action nonces are issued for.
	NonceAction = "taxonomy_term_image_save"
	// TaxonomyField is the host form field naming the submitted term's taxonomy.
	TaxonomyField = "taxonomy"
	// Attribute is the term attribute set on fetch.
	Attribute = "image_id"

	// DefaultTaxonomy is targeted when no taxonomy is configured.
	DefaultTaxonomy = "category"
)

// Event types published to the Notifier.
const (
	EventUpdated = "term_image.updated"
	EventRemoved = "term_image.removed"
)

// Nonces issues and checks anti-forgery tokens bound to a user and an action.
type Nonces interface {
	GenerateNonce(action string, userID uint) (string, error)
	VerifyNonce(nonce, action string, userID uint) bool
}

// Notifier receives association changes.
type Notifier interface {
	Broadcast(taxonomy string, event hub.Event)
}

// Labels are the user facing strings of the field.
type Labels struct {
	Field       string
	Description string
	Attach      string
	Remove      string
	ModalTitle  string
	ModalButton string
}

// DefaultLabels returns the built-in field labels.
func DefaultLabels() Labels {
	return Labels{
		Field:       "Image",
		Description: "Select which image should represent this term.",
		Attach:      "Select Image",
		Remove:      "Remove",
		ModalTitle:  "Select or upload an image",
		ModalButton: "Use this image",
	}
}

// merge overrides the receiver's fields with the non-empty fields of o.
func (l Labels) merge(o Labels) Labels {
	if o.Field != "" {
		l.Field = o.Field
	}
	if o.Description != "" {
		l.Description = o.Description
	}
	if o.Attach != "" {
		l.Attach = o.Attach
	}
	if o.Remove != "" {
		l.Remove = o.Remove
	}
	if o.ModalTitle != "" {
		l.ModalTitle = o.ModalTitle
	}
	if o.ModalButton != "" {
		l.ModalButton = o.ModalButton
	}
	return l
}

// TermImage is the term image component.
type TermImage struct {
	store      store.Store
	media      media.Library
	nonces     Nonces
	taxonomies map[string]struct{}
	labels     Labels
	notifier   Notifier
	mediaURL   string
	log        *logrus.Entry
}

// Option customizes a TermImage.
type Option func(*TermImage)

// WithTaxonomies sets the taxonomies the component targets.
// Empty names are ignored; an empty list keeps the default.
func WithTaxonomies(taxonomies ...string) Option {
	return func(t *TermImage) {
		set := make(map[string]struct{}, len(taxonomies))
		for _, name := range taxonomies {
			if name != "" {
				set[name] = struct{}{}
			}
		}
		if len(set) > 0 {
			t.taxonomies = set
		}
	}
}

// WithLabels overrides the non-empty labels of l.
func WithLabels(l Labels) Option {
	return func(t *TermImage) {
		t.labels = t.labels.merge(l)
	}
}

// WithMediaURL sets the media listing the picker script reads from.
func WithMediaURL(url string) Option {
	return func(t *TermImage) {
		if url != "" {
			t.mediaURL = url
		}
	}
}

// WithNotifier publishes association changes to n.
func WithNotifier(n Notifier) Option {
	return func(t *TermImage) {
		t.notifier = n
	}
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Entry) Option {
	return func(t *TermImage) {
		t.log = log
	}
}

// New creates the component.
func New(s store.Store, lib media.Library, nonces Nonces, opts ...Option) *TermImage {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	t := &TermImage{
		store:      s,
		media:      lib,
		nonces:     nonces,
		taxonomies: map[string]struct{}{DefaultTaxonomy: {}},
		labels:     DefaultLabels(),
		mediaURL:   DefaultMediaURL,
		log:        logrus.NewEntry(discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Register adds the component's handlers to the host event table.
func (t *TermImage) Register(table hooks.Table) {
	table.Add(hooks.AddFormFields, t.renderAddFields)
	table.Add(hooks.EditFormFields, t.renderEditFields)
	table.Add(hooks.TermCreated, t.saveTermImage)
	table.Add(hooks.TermEdited, t.saveTermImage)
	table.Add(hooks.TermDeleted, t.deleteTermImage)
	table.Add(hooks.TermFetched, t.decorateTerms)
	table.Add(hooks.TermsFetched, t.decorateTerms)
}

// Taxonomies returns the targeted taxonomies in name order.
func (t *TermImage) Taxonomies() []string {
	names := make([]string, 0, len(t.taxonomies))
	for name := range t.taxonomies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Labels returns the effective labels.
func (t *TermImage) Labels() Labels {
	return t.labels
}

func (t *TermImage) targets(taxonomy string) bool {
	_, ok := t.taxonomies[taxonomy]
	return ok
}
