package roster

import "fmt"

// SourcePlayer is a tracked player from the roster dimension. The
// collector only ever reads these; a separate maintenance process owns
// their lifecycle.
type SourcePlayer struct {
	Tag      string
	Name     string
	Team     string
	Region   string
	Nation   string
	ImageURL string
	Active   bool
}

func (p SourcePlayer) Validate() error {
	if p.Tag == "" {
		return fmt.Errorf("player tag is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}
