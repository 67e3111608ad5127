// Package hooks is the host's event table. Components add handlers for the
// taxonomy lifecycle events they care about once at startup; the host fires
// the events while serving a request.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/sirupsen/logrus"

	"termimage/backend/internal/metrics"
	"termimage/backend/internal/models"
)

// Name identifies a host event.
type Name string

const (
	AddFormFields  Name = "term_add_form_fields"
	EditFormFields Name = "term_edit_form_fields"
	TermCreated    Name = "created_term"
	TermEdited     Name = "edited_term"
	TermDeleted    Name = "delete_term"
	TermFetched    Name = "get_term"
	TermsFetched   Name = "get_terms"
)

// Event is the payload handed to every handler of one firing.
// Which fields are set depends on the event:
//
//	AddFormFields           Taxonomy, UserID, Output
//	EditFormFields          Taxonomy, UserID, TermID, Terms[0], Output
//	TermCreated, TermEdited Taxonomy, UserID, TermID, Form
//	TermDeleted             Taxonomy, UserID, TermID
//	TermFetched             Taxonomy, TermID, Terms[0]
//	TermsFetched            Taxonomy, Terms
type Event struct {
	Name     Name
	Taxonomy string
	TermID   uint
	UserID   uint
	Form     url.Values
	Terms    []*models.Term
	Output   io.Writer
}

// Handler reacts to an event. Returned errors are logged by the dispatcher.
type Handler func(ctx context.Context, e *Event) error

// Table maps each event to its handlers in registration order.
type Table map[Name][]Handler

// Add appends a handler for name.
func (t Table) Add(name Name, h Handler) {
	t[name] = append(t[name], h)
}

// Dispatcher fires events against a frozen copy of a Table.
type Dispatcher struct {
	table Table
	log   *logrus.Entry
}

// NewDispatcher freezes table. Later changes to table are not observed.
// A nil log discards handler failures.
func NewDispatcher(table Table, log *logrus.Entry) *Dispatcher {
	frozen := make(Table, len(table))
	for name, handlers := range table {
		frozen[name] = append([]Handler(nil), handlers...)
	}
	if log == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		log = logrus.NewEntry(discard)
	}
	return &Dispatcher{table: frozen, log: log}
}

// Has reports whether any handler is registered for name.
func (d *Dispatcher) Has(name Name) bool {
	return len(d.table[name]) > 0
}

// Fire runs every handler registered for e.Name in order. A failing handler
// does not stop the ones after it; all failures are joined into the result.
func (d *Dispatcher) Fire(ctx context.Context, e *Event) error {
	var errs []error
	for i, h := range d.table[e.Name] {
		if err := h(ctx, e); err != nil {
			metrics.HookFailures.WithLabelValues(string(e.Name)).Inc()
			d.log.WithFields(logrus.Fields{
				"event":    e.Name,
				"handler":  i,
				"taxonomy": e.Taxonomy,
				"term_id":  e.TermID,
			}).WithError(err).Warn("event handler failed")
			errs = append(errs, fmt.Errorf("%s handler %d: %w", e.Name, i, err))
		}
	}
	return errors.Join(errs...)
}
