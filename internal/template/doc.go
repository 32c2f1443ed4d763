// Package template parses and renders site configuration templates.
//
// The package ships embedded templates for the Nginx server block, the
// Apache virtual hosts, and the uWSGI/supervisor files that start the
// application behind them. Templates may also be loaded from disk.
//
// # Syntax
//
//	{{ name }}                  placeholder, name matches [A-Za-z_][A-Za-z0-9_]*
//	{% if flag %} ... {% endif %}
//	{% if flag %} ... {% else %} ... {% endif %}
//
// Conditionals are flat: nesting is a parse error. A block tag that stands
// alone on its line removes that whole line, so a false block leaves nothing
// behind.
//
// # Rendering
//
//	tmpl, err := template.Builtin("nginx")
//	if err != nil {
//	    return err
//	}
//
//	ctx := template.NewContext().
//	    Set("prjname", "acme").
//	    Set("project_dir", "/srv/acme").
//	    Set("server_domain", "acme.example.com").
//	    Set("env_link", "env").
//	    SetFlag("webdav", false)
//
//	doc, err := template.Render(tmpl, ctx)
//
// Render first checks that every placeholder and flag in the template (in
// both branches of every conditional) is supplied, and that each value is
// safe to place in an unquoted directive. The first problem in document
// order is returned as a MISSING_VARIABLE or INVALID_CONTEXT error.
//
// Render is pure: identical inputs give byte-identical output, and a
// *Template may be rendered from many goroutines at once. RenderAll does
// exactly that for a batch of jobs.
package template
