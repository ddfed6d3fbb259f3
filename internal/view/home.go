package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// HomePage renders the landing page.
func HomePage(displayName string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if displayName != "" {
			return writef(w, `<main class="container">
<h1>Welcome back, %s</h1>
<p>Your cycle history and next-period estimate are on the <a href="/dashboard">dashboard</a>.</p>
</main>`, templ.EscapeString(displayName))
		}
		return writef(w, `<main class="container">
<h1>Track your cycle</h1>
<p>Record period start dates and HerCal estimates when the next one is due.</p>
<p><a class="button" href="/register">Create an account</a> or <a href="/login">log in</a>.</p>
</main>`)
	})
	return layout("Home", displayName, body)
}
