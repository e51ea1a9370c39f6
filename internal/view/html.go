package view

import (
	"fmt"
	"html/template"
	"io"
)

// html/template escapes every interpolated value for its context, so task
// text is always rendered as text and never as markup.
var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; }
.todo-item { display: flex; gap: .5rem; align-items: center; padding: .5rem; border-left: 4px solid #ccc; }
.todo-item.priority-high { border-color: #e74c3c; }
.todo-item.priority-medium { border-color: #f39c12; }
.todo-item.priority-low { border-color: #27ae60; }
.todo-item.completed .todo-text { text-decoration: line-through; color: #999; }
.empty { text-align: center; padding: 40px; color: #999; }
</style>
</head>
<body>
<h1>{{.Title}} <small>{{.FilterLabel}}</small></h1>
<ul class="todo-list">
{{- range .Rows}}
{{- if .Placeholder}}
<li class="empty">{{.Text}}</li>
{{- else}}
<li class="todo-item priority-{{.Priority}}{{if .Completed}} completed{{end}}" data-id="{{.ID}}">
<input type="checkbox" class="todo-checkbox"{{if .Completed}} checked{{end}}>
{{- if .Editing}}
<input type="text" class="todo-edit-input" value="{{.EditValue}}"{{if .Focus}} autofocus{{end}}>
{{- else}}
<span class="todo-text">{{.Text}}</span>
<span class="priority-badge {{.Priority}}">{{.PriorityLabel}}</span>
{{- end}}
<div class="todo-actions">
{{- range .Actions}}{{if ne .Kind "toggle"}}
<button class="todo-btn {{.Kind}}-btn" data-action="{{.Kind}}">{{.Label}}</button>
{{- end}}{{end}}
</div>
</li>
{{- end}}
{{- end}}
</ul>
<div class="stats">
<span id="totalCount">{{.Summary.Total}}</span>
<span id="activeCount">{{.Summary.Active}}</span>
<span id="completedCount">{{.Summary.Completed}}</span>
</div>
</body>
</html>
`))

// RenderHTML writes page as a standalone HTML document.
func RenderHTML(w io.Writer, page Page) error {
	if err := pageTmpl.Execute(w, page); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
