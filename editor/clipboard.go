package editor

import (
	"github.com/beatline/beatline"
)

// Clipboard holds deep copies of regions, so later edits to the project do
// not change what gets pasted.
type Clipboard struct {
	regions []beatline.Region
}

// Set replaces the clipboard contents with copies of the regions.
func (c *Clipboard) Set(regions []*beatline.Region) {
	c.regions = c.regions[:0]
	for _, r := range regions {
		if r != nil {
			c.regions = append(c.regions, r.Copy())
		}
	}
}

// Regions returns fresh copies of the clipboard contents.
func (c *Clipboard) Regions() []beatline.Region {
	ret := make([]beatline.Region, len(c.regions))
	for i := range c.regions {
		ret[i] = c.regions[i].Copy()
	}
	return ret
}

func (c *Clipboard) Len() int { return len(c.regions) }

func (c *Clipboard) Clear() { c.regions = nil }
