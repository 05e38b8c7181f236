package layoutlens

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal problem met during extraction. The result is still
// usable but may be missing the region the warning refers to.
type Warning struct {
	// Page is the 1-indexed page the warning refers to, 0 for the document.
	Page int

	// Message describes what was skipped and why.
	Message string
}

func (w Warning) String() string {
	if w.Page == 0 {
		return w.Message
	}
	return fmt.Sprintf("page %d: %s", w.Page, w.Message)
}

// FormatWarnings joins warnings into one line for logging.
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

func pageWarning(page int, format string, args ...any) Warning {
	return Warning{Page: page, Message: fmt.Sprintf(format, args...)}
}
