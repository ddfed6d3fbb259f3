package view

import (
	"context"
	"io"
	"time"

	"github.com/a-h/templ"
	"github.com/hercal-app/hercal/internal/domain"
)

const dateInputFormat = "2006-01-02"

// CycleFormPage renders the create/edit form. last and next may be empty
// (new entry) or pre-filled ISO dates (edit, or a rejected submission).
func CycleFormPage(displayName, heading, action, last, next, errMsg string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writef(w, `<main class="container narrow"><h1>%s</h1>`, templ.EscapeString(heading)); err != nil {
			return err
		}
		if err := errorBanner(w, errMsg); err != nil {
			return err
		}
		return writef(w, `<form method="post" action="%s">
<label>Last period start date<input type="date" name="last_period_start" value="%s" required></label>
<label>Next period start date<input type="date" name="next_period_start" value="%s" required></label>
<button type="submit">Save</button>
<a href="/dashboard">Cancel</a>
</form>
</main>`, templ.EscapeString(action), templ.EscapeString(last), templ.EscapeString(next))
	})
	return layout(heading, displayName, body)
}

// CycleDeletePage renders the delete confirmation.
func CycleDeletePage(displayName string, c *domain.Cycle) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return writef(w, `<main class="container narrow">
<h1>Delete entry</h1>
<p>Delete the cycle starting %s (next period %s, %d days)?</p>
<form method="post" action="/cycles/%d/delete">
<button type="submit" class="danger">Delete</button>
<a href="/dashboard">Cancel</a>
</form>
</main>`, c.LastPeriodStart.Format(dateFormat), c.NextPeriodStart.Format(dateFormat), c.CycleLength, c.ID)
	})
	return layout("Delete entry", displayName, body)
}

// FormDate formats a stored date for an <input type="date"> value.
func FormDate(t time.Time) string {
	return t.Format(dateInputFormat)
}
