// Package view renders the application's HTML. Components are built
// directly on the templ runtime so fragments compose the same way whether
// they are rendered into a full page, returned from the fragment endpoint,
// or patched in over SSE.
package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

const datastarCDN = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

// layout wraps body in the shared document shell with the navbar.
func layout(title, displayName string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>%s - HerCal</title>
<link rel="stylesheet" href="/static/css/app.css">
<script type="module" src="%s"></script>
</head>
<body>
<nav class="navbar"><a class="brand" href="/">HerCal</a><div class="nav-links">`,
			templ.EscapeString(title), datastarCDN); err != nil {
			return err
		}

		if displayName != "" {
			if _, err := fmt.Fprintf(w,
				`<a href="/dashboard">Dashboard</a><span class="nav-user">%s</span><form class="inline" method="post" action="/logout"><button type="submit" class="link">Log out</button></form>`,
				templ.EscapeString(displayName)); err != nil {
				return err
			}
		} else {
			if _, err := io.WriteString(w, `<a href="/login">Log in</a><a href="/register">Register</a>`); err != nil {
				return err
			}
		}

		if _, err := io.WriteString(w, `</div></nav>`); err != nil {
			return err
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func writef(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format, args...)
	return err
}
