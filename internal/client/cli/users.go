package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/sportclub/internal/client/models"
)

// Users prints one page of club members.
func (a *App) Users(ctx context.Context, page string) error {
	n := 1
	if page != "" {
		p, err := strconv.Atoi(page)
		if err != nil || p < 1 {
			fmt.Fprintln(a.out, "Usage: users [page]")
			return fmt.Errorf("bad page %q", page)
		}
		n = p
	}

	res, err := a.users.ListUsers(ctx, n, a.pageSize)
	if err != nil {
		return a.report(err)
	}
	if len(res.Items) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}

	if err := a.printUsers(res.Items); err != nil {
		return err
	}
	if res.Total > 0 {
		fmt.Fprintf(a.out, "page %d, %d users total\n", res.Page, res.Total)
	}
	return nil
}

// User prints one member.
func (a *App) User(ctx context.Context, id string) error {
	u, err := a.users.UserByID(ctx, id)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "%s (%s)\n", u.DisplayName(), u.ID)
	if u.SportCategory != "" {
		fmt.Fprintf(a.out, "  sport: %s\n", u.SportCategory)
	}
	if u.City != "" || u.Country != "" {
		fmt.Fprintf(a.out, "  from:  %s %s\n", u.City, u.Country)
	}
	if len(u.Positions) > 0 {
		fmt.Fprintf(a.out, "  positions: %v\n", u.Positions)
	}
	return nil
}

// Members prints the members of a group or the participants of an event.
func (a *App) Members(ctx context.Context, kind, id string) error {
	var (
		list []models.User
		err  error
	)
	switch kind {
	case "group":
		list, err = a.users.UsersByGroup(ctx, id)
	case "event":
		list, err = a.users.UsersByEvent(ctx, id)
	default:
		fmt.Fprintln(a.out, "Usage: members group|event <id>")
		return fmt.Errorf("unknown member list %q", kind)
	}
	if err != nil {
		return a.report(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}
	return a.printUsers(list)
}

// Subscribe switches the signed-in user to plan and reloads the session.
func (a *App) Subscribe(ctx context.Context, plan string) error {
	u, err := a.users.ChangeSubscription(ctx, plan)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Subscription changed, role: %s\n", u.Role)
	if err := a.session.Refresh(ctx); err != nil {
		a.log.Warn(ctx, "session reload after subscription change", "error", err)
	}
	return nil
}

func (a *App) printUsers(users []models.User) error {
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSPORT\tCITY")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.DisplayName(), u.SportCategory, u.City)
	}
	return tw.Flush()
}
