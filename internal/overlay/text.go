package overlay

import (
	"time"

	"github.com/ncruces/go-strftime"

	"github.com/framemark/framemark/internal/frameinfo"
)

// expandText expands the metadata placeholders of a text template,
// then its time directives. When the time pass yields nothing, the
// text before time expansion is used as a fallback.
func expandText(template string, info frameinfo.Info, now time.Time) string {
	expanded := info.ToString(template)

	withTime := strftime.Format(expanded, now)
	if withTime == "" {
		return expanded
	}

	return withTime
}
