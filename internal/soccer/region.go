package soccer

import "github.com/Garsondee/Soccer-Sense/internal/geom"

// RegionModifier selects how strictly containment is tested.
type RegionModifier int

const (
	RegionNormal   RegionModifier = iota // the full rectangle
	RegionHalfsize                       // inset by a quarter of width/height on every side
)

// Region is an axis-aligned rectangle of the pitch with an integer id.
type Region struct {
	ID     int
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

func NewRegion(id int, left, top, right, bottom float64) Region {
	return Region{ID: id, Left: left, Top: top, Right: right, Bottom: bottom}
}

func (r Region) Width() float64  { return r.Right - r.Left }
func (r Region) Height() float64 { return r.Bottom - r.Top }

func (r Region) Center() geom.Vec2 {
	return geom.V((r.Left+r.Right)*0.5, (r.Top+r.Bottom)*0.5)
}

// Inside reports whether p is strictly inside the region.
func (r Region) Inside(p geom.Vec2, mod RegionModifier) bool {
	if mod == RegionHalfsize {
		mx := r.Width() * 0.25
		my := r.Height() * 0.25
		return p.X() > r.Left+mx && p.X() < r.Right-mx &&
			p.Y() > r.Top+my && p.Y() < r.Bottom-my
	}
	return p.X() > r.Left && p.X() < r.Right && p.Y() > r.Top && p.Y() < r.Bottom
}

const (
	regionCols = 6
	regionRows = 3
)

// buildRegions tiles area with regionCols x regionRows regions. Ids count
// down column by column, so the top-left region has the highest id and the
// bottom-right region is 0.
func buildRegions(area Region) []Region {
	w := area.Width() / regionCols
	h := area.Height() / regionRows
	regions := make([]Region, regionCols*regionRows)
	id := len(regions) - 1
	for col := 0; col < regionCols; col++ {
		for row := 0; row < regionRows; row++ {
			left := area.Left + float64(col)*w
			top := area.Top + float64(row)*h
			regions[id] = NewRegion(id, left, top, left+w, top+h)
			id--
		}
	}
	return regions
}
