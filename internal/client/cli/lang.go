package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/sportclub/internal/client/i18n"
)

// Lang prints the interface language, or switches to tag.
func (a *App) Lang(ctx context.Context, tag string) error {
	if tag == "" {
		fmt.Fprintln(a.out, i18n.Code(a.langs.Language())+a.direction())
		return nil
	}
	t, ok, err := a.langs.Set(ctx, tag)
	if err != nil {
		return a.report(err)
	}
	if !ok {
		fmt.Fprintf(a.out, "%q is not supported, using %s\n", tag, i18n.Code(t))
		return nil
	}
	fmt.Fprintf(a.out, "Language set to %s%s\n", i18n.Code(t), a.direction())
	return nil
}

func (a *App) direction() string {
	if a.langs.RightToLeft() {
		return " (right-to-left)"
	}
	return ""
}
