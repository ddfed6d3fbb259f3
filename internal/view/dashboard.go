package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
	"github.com/hercal-app/hercal/internal/domain"
)

const dateFormat = "Jan 02, 2006"

// DashboardPage renders the dashboard with the payload inline: the same
// content the fragment endpoint serves, composed into the full document.
// The container carries no fragment URL, so cycle-loader.js leaves an
// already-hydrated page alone.
func DashboardPage(displayName string, cycles []domain.Cycle, est domain.Estimate, pageSize int) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writef(w, `<main id="cycle-dashboard" class="container">`); err != nil {
			return err
		}
		if err := DashboardFragment(cycles, est, pageSize).Render(ctx, w); err != nil {
			return err
		}
		return writef(w, `</main>
<script src="/static/js/cycle-loader.js"></script>`)
	})
	return layout("Dashboard", displayName, body)
}

// DashboardSkeleton renders the dashboard without data: an empty container
// plus the loader overlay. Served when the synchronous read finds the
// store still waking up; cycle-loader.js then hydrates the container from
// the fragment endpoint, retrying until the backend answers.
func DashboardSkeleton(displayName string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return writef(w, `<div id="global-loader" class="loader-overlay" hidden>
<div class="spinner"></div>
<p id="loading-message">Loading...</p>
<div class="progress"><div id="loader-progress-bar" class="progress-bar"></div></div>
<button id="retry-btn" class="button" hidden>Try again</button>
</div>
<main id="cycle-dashboard" class="container" data-fragment-url="/dashboard/fragment">
<h1>My cycles</h1>
<p class="muted">Loading your history...</p>
</main>
<script src="/static/js/cycle-loader.js"></script>`)
	})
	return layout("Dashboard", displayName, body)
}

// DashboardFragment renders the dashboard content: derived stats plus the
// first page of the cycle table. The same markup serves the fragment
// endpoint and any full-page render.
func DashboardFragment(cycles []domain.Cycle, est domain.Estimate, pageSize int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := writef(w, `<h1>My cycles</h1>`); err != nil {
			return err
		}

		if err := writef(w, `<section class="stats"><div class="stat"><span class="stat-label">Average cycle length</span><span class="stat-value">%d days</span></div>`,
			est.AverageCycleLength); err != nil {
			return err
		}
		if est.NextPeriod != nil && est.DaysUntil != nil {
			if err := writef(w, `<div class="stat"><span class="stat-label">Estimated next period</span><span class="stat-value">%s</span></div><div class="stat"><span class="stat-label">Days until next</span><span class="stat-value">%d</span></div>`,
				est.NextPeriod.Format(dateFormat), *est.DaysUntil); err != nil {
				return err
			}
		} else {
			if err := writef(w, `<div class="stat"><span class="stat-label">Estimated next period</span><span class="stat-value">&mdash;</span></div>`); err != nil {
				return err
			}
		}
		if err := writef(w, `</section><p><a class="button" href="/cycles/new">Add entry</a></p>`); err != nil {
			return err
		}

		if len(cycles) == 0 {
			return writef(w, `<p class="muted">No entries yet. Add your first cycle to see an estimate.</p>`)
		}

		if err := writef(w, `<table class="cycle-table"><thead><tr><th>Last period start</th><th>Next period start</th><th>Length (days)</th><th></th></tr></thead><tbody id="cycle-rows">`); err != nil {
			return err
		}
		visible := cycles
		if pageSize > 0 && len(visible) > pageSize {
			visible = visible[:pageSize]
		}
		if err := CycleRows(visible).Render(ctx, w); err != nil {
			return err
		}
		if err := writef(w, `</tbody></table>`); err != nil {
			return err
		}

		return LoadMoreButton(len(cycles), len(visible)).Render(ctx, w)
	})
}

// CycleRows renders table rows for the given cycles; used by the fragment
// and appended over SSE by the load-more flow.
func CycleRows(cycles []domain.Cycle) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		for _, c := range cycles {
			if err := writef(w, `<tr><td>%s</td><td>%s</td><td>%d</td><td class="row-actions"><a href="/cycles/%d/edit">Edit</a> <a href="/cycles/%d/delete">Delete</a></td></tr>`,
				c.LastPeriodStart.Format(dateFormat), c.NextPeriodStart.Format(dateFormat),
				c.CycleLength, c.ID, c.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadMoreButton renders the load-more control, or an empty placeholder
// once every entry is on the page. It always carries the same element ID
// so SSE patches can replace it in place.
func LoadMoreButton(total, nextOffset int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if nextOffset >= total {
			return writef(w, `<div id="cycles-load-more"></div>`)
		}
		return writef(w, `<div id="cycles-load-more"><button data-on-click="@get('/dashboard/cycles/more?offset=%d')">Show %d more</button></div>`,
			nextOffset, total-nextOffset)
	})
}
