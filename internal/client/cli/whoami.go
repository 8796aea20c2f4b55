package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpiry reads the exp claim without verifying the signature; the
// backend alone decides whether the token is valid.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// WhoAmI prints the signed-in user and, for JWT credentials, when the token
// expires.
func (a *App) WhoAmI(ctx context.Context) error {
	st := a.session.State()
	if !st.Authenticated() {
		fmt.Fprintln(a.out, "Not logged in")
		if st.Error != nil {
			fmt.Fprintln(a.out, "Last error:", st.Error.Message)
		}
		return nil
	}

	u := st.User
	fmt.Fprintf(a.out, "%s <%s>\n", u.DisplayName(), u.Email)
	fmt.Fprintf(a.out, "  id:    %s\n", u.ID)
	if u.Role != "" {
		fmt.Fprintf(a.out, "  role:  %s\n", u.Role)
	}
	if u.SportCategory != "" {
		fmt.Fprintf(a.out, "  sport: %s\n", u.SportCategory)
	}

	tok, ok, err := a.creds.Get(ctx)
	if err != nil {
		return a.report(err)
	}
	if !ok {
		return nil
	}
	if exp, ok := tokenExpiry(string(tok)); ok {
		fmt.Fprintf(a.out, "  token expires %s\n", exp.Local().Format(time.RFC1123))
	}
	return nil
}
