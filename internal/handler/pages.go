package handler

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"termimage/backend/internal/models"
)

var termPages = template.Must(template.New("pages").Parse(`
{{- define "head" -}}
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body class="taxonomy-{{.Taxonomy}}">
<h1>{{.Title}}</h1>
{{- end -}}

{{- define "new" -}}
{{template "head" .}}
<form id="addtag" method="post" action="{{.Action}}" class="validate">
<input type="hidden" name="taxonomy" value="{{.Taxonomy}}" />
<div class="form-field form-required term-name-wrap">
<label for="tag-name">Name</label>
<input name="name" id="tag-name" type="text" value="" size="40" aria-required="true" />
</div>
<div class="form-field term-slug-wrap">
<label for="tag-slug">Slug</label>
<input name="slug" id="tag-slug" type="text" value="" size="40" />
</div>
<div class="form-field term-description-wrap">
<label for="tag-description">Description</label>
<textarea name="description" id="tag-description" rows="5" cols="40"></textarea>
</div>
{{.Fields}}
<p class="submit"><input type="submit" class="button button-primary" value="Add New {{.Label}}" /></p>
</form>
</body>
</html>
{{- end -}}

{{- define "edit" -}}
{{template "head" .}}
<form name="edittag" id="edittag" method="post" action="{{.Action}}" class="validate">
<input type="hidden" name="taxonomy" value="{{.Taxonomy}}" />
<input type="hidden" name="tag_ID" value="{{.Term.ID}}" />
<table class="form-table" role="presentation">
<tr class="form-field form-required term-name-wrap">
<th scope="row"><label for="name">Name</label></th>
<td><input name="name" id="name" type="text" value="{{.Term.Name}}" size="40" aria-required="true" /></td>
</tr>
<tr class="form-field term-slug-wrap">
<th scope="row"><label for="slug">Slug</label></th>
<td><input name="slug" id="slug" type="text" value="{{.Term.Slug}}" size="40" /></td>
</tr>
<tr class="form-field term-description-wrap">
<th scope="row"><label for="description">Description</label></th>
<td><textarea name="description" id="description" rows="5" cols="50">{{.Term.Description}}</textarea></td>
</tr>
{{.Fields}}
</table>
<p class="submit"><input type="submit" class="button button-primary" value="Update" /></p>
</form>
</body>
</html>
{{- end -}}
`))

type termPage struct {
	Title    string
	Label    string
	Taxonomy string
	Action   string
	Term     *models.Term
	// Fields holds markup written by event handlers.
	Fields template.HTML
}

func renderPage(c *gin.Context, name string, page termPage) {
	var buf bytes.Buffer
	if err := termPages.ExecuteTemplate(&buf, name, page); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render page"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
