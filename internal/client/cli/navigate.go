package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dmitrijs2005/sportclub/internal/client/routes"
)

// Go navigates; the orchestrator's guard may redirect right away.
func (a *App) Go(_ context.Context, path string) error {
	a.router.Navigate(path)
	if cur := a.router.Current(); cur != routes.Normalize(path) {
		fmt.Fprintf(a.out, "Now at %s\n", cur)
	}
	return nil
}

func (a *App) Where(context.Context) error {
	fmt.Fprintln(a.out, a.router.Current())
	return nil
}

// Back returns to the previous page.
func (a *App) Back(context.Context) error {
	if !a.router.Back() {
		fmt.Fprintln(a.out, "Nothing to go back to")
		return nil
	}
	fmt.Fprintf(a.out, "Now at %s\n", a.router.Current())
	return nil
}

// History prints visited pages, oldest first.
func (a *App) History(context.Context) error {
	h := a.router.History()
	if len(h) == 0 {
		fmt.Fprintln(a.out, "No history")
		return nil
	}
	fmt.Fprintln(a.out, strings.Join(h, " -> "))
	return nil
}

// Pages lists the pages open to visitors.
func (a *App) Pages(context.Context) error {
	pub := a.routes.Public()
	sort.Strings(pub)
	for _, p := range pub {
		fmt.Fprintln(a.out, p)
	}
	return nil
}
