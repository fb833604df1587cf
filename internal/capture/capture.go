package capture

import (
	"fmt"

	"livehl/internal/rangeset"
)

// Capture is one highlighted span. Text is only filled in for kinds whose
// content is inspected later (comments) and always covers Extent, the node's
// full range before any clipping.
type Capture struct {
	Range  rangeset.Range
	Extent rangeset.Range
	Kind   Kind
	Text   string
}

func (c Capture) String() string {
	return fmt.Sprintf("%s%v", c.Kind, c.Range)
}

// Clip restricts c to window, reporting false when nothing remains. Extent
// and Text keep describing the whole node.
func (c Capture) Clip(window rangeset.Range) (Capture, bool) {
	r, ok := c.Range.Intersect(window)
	if !ok {
		return Capture{}, false
	}
	if c.Extent.Empty() {
		c.Extent = c.Range
	}
	c.Range = r
	return c, true
}
