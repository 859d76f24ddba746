package ingest

const (
	ShortDescriptionLimit = 150
	ellipsis              = "..."
)

// ShortDescription keeps the first 150 characters of description and marks
// the cut with "..." when anything was dropped.
func ShortDescription(description string) string {
	runes := []rune(description)
	if len(runes) <= ShortDescriptionLimit {
		return description
	}
	return string(runes[:ShortDescriptionLimit]) + ellipsis
}
