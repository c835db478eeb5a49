package election

// Contest describes one contest of the manifest.
type Contest struct {
	Label          string   `json:"label"`
	SelectionLimit uint32   `json:"selection_limit"`
	Options        []string `json:"options"`
}

// NumOptions returns the number of selectable options.
func (c Contest) NumOptions() int {
	return len(c.Options)
}
