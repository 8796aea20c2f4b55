package cli

import (
	"errors"
	"sort"
	"strings"

	"github.com/dmitrijs2005/sportclub/internal/client/api"
	"github.com/dmitrijs2005/sportclub/internal/client/models"
)

func describeError(err error) string {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		keys := make([]string, 0, len(ve.Fields))
		for k := range ve.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, "  "+k+": "+ve.Fields[k])
		}
		return "please fix the form\n" + strings.Join(lines, "\n")
	}
	if api.IsUnauthorized(err) {
		return "please log in again (" + api.Normalize(err).Message + ")"
	}
	return api.Normalize(err).Message
}
