package termimage

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strconv"

	"termimage/backend/internal/hooks"
)

var fieldTemplates = template.Must(template.New("field").Parse(`
{{- define "controls" -}}
<input type="button" class="taxonomy-term-image-attach button" value="{{.Labels.Attach}}" data-modal-title="{{.Labels.ModalTitle}}" data-modal-button="{{.Labels.ModalButton}}" data-media-url="{{.MediaURL}}" />
<input type="button" class="taxonomy-term-image-remove button" value="{{.Labels.Remove}}" />
<input type="hidden" id="taxonomy-term-image-id" name="{{.FieldName}}" value="{{.ImageID}}" />
<input type="hidden" name="{{.NonceField}}" value="{{.Nonce}}" />
<p class="description">{{.Labels.Description}}</p>
<p id="taxonomy-term-image-container">{{if .ThumbnailURL}}<img class="taxonomy-term-image-attach" src="{{.ThumbnailURL}}" />{{end}}</p>
<script src="{{.ScriptURL}}" defer></script>
{{- end -}}

{{- define "add" -}}
<div class="form-field term-image-wrap">
<label>{{.Labels.Field}}</label>
{{template "controls" .}}
</div>
{{- end -}}

{{- define "edit" -}}
<tr class="form-field term-image-wrap">
<th scope="row"><label>{{.Labels.Field}}</label></th>
<td class="taxonomy-term-image-row">
{{template "controls" .}}
</td>
</tr>
{{- end -}}
`))

type fieldView struct {
	Labels       Labels
	FieldName    string
	NonceField   string
	Nonce        string
	ImageID      string
	ThumbnailURL string
	MediaURL     string
	ScriptURL    string
}

// renderAddFields handles term_add_form_fields. A new term has no image yet.
func (t *TermImage) renderAddFields(ctx context.Context, e *hooks.Event) error {
	if !t.targets(e.Taxonomy) {
		return nil
	}
	view, err := t.newFieldView(e.UserID)
	if err != nil {
		return err
	}
	return t.render(e, "add", view)
}

// renderEditFields handles term_edit_form_fields.
func (t *TermImage) renderEditFields(ctx context.Context, e *hooks.Event) error {
	if !t.targets(e.Taxonomy) {
		return nil
	}
	view, err := t.newFieldView(e.UserID)
	if err != nil {
		return err
	}

	imageID, ok, err := t.store.Get(ctx, e.TermID)
	if err != nil {
		return fmt.Errorf("failed to read image for term %d: %w", e.TermID, err)
	}
	if ok {
		view.ImageID = strconv.FormatUint(uint64(imageID), 10)
		thumbnail, err := t.media.ThumbnailURL(ctx, imageID)
		if err != nil {
			return err
		}
		view.ThumbnailURL = thumbnail
	}
	return t.render(e, "edit", view)
}

func (t *TermImage) newFieldView(userID uint) (fieldView, error) {
	nonce, err := t.nonces.GenerateNonce(NonceAction, userID)
	if err != nil {
		return fieldView{}, fmt.Errorf("failed to issue nonce: %w", err)
	}
	return fieldView{
		Labels:     t.labels,
		FieldName:  FieldName,
		NonceField: NonceField,
		Nonce:      nonce,
		MediaURL:   t.mediaURL,
		ScriptURL:  ScriptPath,
	}, nil
}

func (t *TermImage) render(e *hooks.Event, name string, view fieldView) error {
	if e.Output == nil {
		return errors.New("no output to render the term image field to")
	}
	if err := fieldTemplates.ExecuteTemplate(e.Output, name, view); err != nil {
		return fmt.Errorf("failed to render term image field: %w", err)
	}
	return nil
}
