package collisions

import "github.com/solarlune/resolv"

const (
	// HitSpaceTagCoin marks the clickable bounds of the coin.
	HitSpaceTagCoin = "coin"

	hitSpaceCellSize = 8
)

// NewHitSpace creates a space for pointer hit-testing on a w by h screen.
func NewHitSpace(w, h int) *resolv.Space {
	return resolv.NewSpace(w, h, hitSpaceCellSize, hitSpaceCellSize)
}

// PointCheck returns the objects tagged with any of tags whose bounds
// contain the point (x, y).
func PointCheck(space *resolv.Space, x, y float64, tags ...string) []*resolv.Object {
	probe := resolv.NewObject(x, y, 1, 1)
	space.Add(probe)
	defer space.Remove(probe)

	collision := probe.Check(0, 0, tags...)
	if collision == nil {
		return nil
	}

	// the space only resolves down to cells, so confirm against the bounds
	hits := make([]*resolv.Object, 0, len(collision.Objects))
	for _, obj := range collision.Objects {
		if x < obj.Position.X || x >= obj.Position.X+obj.Size.X {
			continue
		}
		if y < obj.Position.Y || y >= obj.Position.Y+obj.Size.Y {
			continue
		}
		hits = append(hits, obj)
	}
	return hits
}
