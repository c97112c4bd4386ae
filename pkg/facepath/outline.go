package facepath

import (
	"math"

	"github.com/chazu/cncbox/pkg/box"
	"github.com/chazu/cncbox/pkg/geom"
)

// Along each edge, depth is measured inward from the panel envelope. A face on
// the Tabs side of a joint sits back by the wall thickness with fingers
// reaching out to the envelope; a face on the Slots side runs along the
// envelope with notches cut one wall thickness deep.

// step is a change of depth at distance s along an edge.
type step struct {
	s, from, to float64
}

// profile is the depth of one edge as a function of distance along it.
type profile struct {
	base  float64
	steps []step
}

// frame places an edge in face coordinates: points are
// corner + dir*s + normal*depth, where normal points into the panel.
type frame struct {
	corner, dir, normal geom.Point
	length              float64
}

func (fr frame) at(s, depth float64) geom.Point {
	return fr.corner.Add(fr.dir.Scale(s)).Add(fr.normal.Scale(depth))
}

type generator struct {
	m    *box.Model
	face box.Face
	w, h float64
	mode box.ReliefMode
	r    float64

	path    geom.Path
	pen     geom.Point
	pockets []geom.Pocket
}

func (g *generator) frame(side box.EdgeSide) frame {
	switch side {
	case box.EdgeRight:
		return frame{geom.Pt(g.w, 0), geom.Pt(0, 1), geom.Pt(-1, 0), g.h}
	case box.EdgeTop:
		return frame{geom.Pt(g.w, g.h), geom.Pt(-1, 0), geom.Pt(0, -1), g.w}
	case box.EdgeLeft:
		return frame{geom.Pt(0, g.h), geom.Pt(0, -1), geom.Pt(1, 0), g.h}
	}
	return frame{geom.Pt(0, 0), geom.Pt(1, 0), geom.Pt(0, 1), g.w}
}

// profile derives the depth profile of edge e and records any blind pockets
// the edge needs.
func (g *generator) profile(e box.Edge) profile {
	m := g.m
	j := m.Joint(e.Class)
	wall := m.Wall()

	if m.Role(g.face, e.Class) == box.Tabs {
		p := profile{base: wall}
		if j.Count == 0 {
			return p
		}
		tip := 0.0
		if m.MateBlind(g.face, e) {
			tip = m.Skin()
		}
		for _, s := range m.FingerStarts(e.Class) {
			p.steps = append(p.steps, step{s, wall, tip}, step{s + j.Length, tip, wall})
		}
		return p
	}

	p := profile{base: 0}
	if j.Count == 0 {
		return p
	}
	if m.BlindEdge(g.face, e) {
		g.addPockets(e, j)
		return p
	}
	for _, s := range m.FingerStarts(e.Class) {
		p.steps = append(p.steps, step{s, 0, wall}, step{s + j.Length, wall, 0})
	}
	return p
}

// addPockets records one partial-depth pocket per hidden notch. Pockets run
// past the envelope by the tool radius and take the relief extension of the
// current mode, so the mating finger seats fully.
func (g *generator) addPockets(e box.Edge, j box.Joint) {
	fr := g.frame(e.Side)
	wall := g.m.Wall()
	outside := g.r
	deep := wall
	along := 0.0
	switch g.mode {
	case box.ReliefHeight:
		deep += g.r
	case box.ReliefWidth:
		along = g.r
	}
	for _, s := range g.m.FingerStarts(e.Class) {
		b := geom.EmptyBounds().
			Extend(fr.at(s-along, -outside)).
			Extend(fr.at(s+j.Length+along, deep))
		g.pockets = append(g.pockets, geom.Pocket{
			Rect:  geom.RectFromBounds(b),
			Depth: wall - g.m.Skin(),
		})
	}
}

// outline walks the four edges counter-clockwise from the origin corner.
func (g *generator) outline() {
	edges := box.Edges(g.face)
	var profiles [4]profile
	for i, e := range edges {
		profiles[i] = g.profile(e)
	}
	for i, e := range edges {
		prev := profiles[(i+3)%4].base
		next := profiles[(i+1)%4].base
		g.edge(g.frame(e.Side), profiles[i], prev, next, i == 0)
	}
	if n := len(g.path); n > 0 {
		g.path[n-1].End = g.path[0].Start
	}
}

func (g *generator) lineTo(p geom.Point) {
	if p.Eq(g.pen, geom.Eps) {
		return
	}
	g.path = append(g.path, geom.Line(g.pen, p))
	g.pen = p
}

// reliefTo adds a clockwise relief arc; inside corners of a counter-clockwise
// outline are right turns.
func (g *generator) reliefTo(p, center geom.Point) {
	g.path = append(g.path, geom.Arc(g.pen, p, center, true))
	g.pen = p
}

// edge emits one edge. The previous edge's base depth sets where this edge
// starts and the next edge's base depth sets where it ends.
func (g *generator) edge(fr frame, p profile, prevBase, nextBase float64, first bool) {
	start := fr.at(prevBase, p.base)
	end := fr.at(fr.length-nextBase, p.base)
	if first {
		g.pen = start
	}

	r := g.r
	d, n := fr.dir, fr.normal
	merged := -1
	for i, st := range p.steps {
		if st.from > st.to {
			// Deep to shallow: the inside corner is at the foot of the wall.
			q := fr.at(st.s, st.from)
			switch g.mode {
			case box.ReliefHeight:
				if merged != i {
					g.lineTo(q.Sub(d.Scale(2 * r)))
					g.reliefTo(q, q.Sub(d.Scale(r)))
				}
			case box.ReliefWidth:
				g.lineTo(q)
				g.reliefTo(q.Sub(n.Scale(2*r)), q.Sub(n.Scale(r)))
			default:
				g.lineTo(q)
			}
			g.lineTo(fr.at(st.s, st.to))
			continue
		}

		// Shallow to deep: the inside corner is at the bottom of the wall.
		g.lineTo(fr.at(st.s, st.from))
		q := fr.at(st.s, st.to)
		switch g.mode {
		case box.ReliefHeight:
			g.lineTo(q)
			if i+1 < len(p.steps) {
				nx := p.steps[i+1]
				if nx.from > nx.to && nx.s-st.s < 4*r {
					// The floor is too short for two separate arcs: join them
					// where their circles cross below the floor.
					q2 := fr.at(nx.s, nx.from)
					c1 := q.Add(d.Scale(r))
					c2 := q2.Sub(d.Scale(r))
					half := c1.Dist(c2) / 2
					x := c1.Lerp(c2, 0.5).Add(n.Scale(math.Sqrt(math.Max(r*r-half*half, 0))))
					g.reliefTo(x, c1)
					g.reliefTo(q2, c2)
					merged = i + 1
					continue
				}
			}
			g.reliefTo(q.Add(d.Scale(2*r)), q.Add(d.Scale(r)))
		case box.ReliefWidth:
			g.lineTo(q.Sub(n.Scale(2 * r)))
			g.reliefTo(q, q.Sub(n.Scale(r)))
		default:
			g.lineTo(q)
		}
	}
	g.lineTo(end)
}
