package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// LoginPage renders the login form, with an optional error banner.
func LoginPage(errMsg string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writef(w, `<main class="container narrow"><h1>Log in</h1>`); err != nil {
			return err
		}
		if err := errorBanner(w, errMsg); err != nil {
			return err
		}
		return writef(w, `<form method="post" action="/login">
<label>Email<input type="email" name="email" required></label>
<label>Password<input type="password" name="password" required></label>
<button type="submit">Log in</button>
</form>
<p>No account yet? <a href="/register">Register</a>.</p>
</main>`)
	})
	return layout("Log in", "", body)
}

// RegisterPage renders the registration form, with an optional error banner.
func RegisterPage(errMsg string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writef(w, `<main class="container narrow"><h1>Create an account</h1>`); err != nil {
			return err
		}
		if err := errorBanner(w, errMsg); err != nil {
			return err
		}
		return writef(w, `<form method="post" action="/register">
<label>Email<input type="email" name="email" required></label>
<label>Display name<input type="text" name="display_name" required></label>
<label>Password<input type="password" name="password" required minlength="8"></label>
<label>Confirm password<input type="password" name="confirm_password" required minlength="8"></label>
<button type="submit">Register</button>
</form>
<p>Already registered? <a href="/login">Log in</a>.</p>
</main>`)
	})
	return layout("Register", "", body)
}

func errorBanner(w io.Writer, errMsg string) error {
	if errMsg == "" {
		return nil
	}
	return writef(w, `<div class="error-banner">%s</div>`, templ.EscapeString(errMsg))
}
