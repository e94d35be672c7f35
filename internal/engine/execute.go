package engine

import (
	"context"
	"log/slog"
	"math"

	"github.com/roach88/mercator/internal/ast"
	"github.com/roach88/mercator/internal/space"
	"github.com/roach88/mercator/internal/store"
)

// Executor turns expression trees into result sets by querying a Store.
//
// Every result is grouped by reference space and operators never mix
// objects of different spaces. Each node executes its children fully before
// combining them.
type Executor struct {
	store     Store
	params    Parameters
	predictor *Predictor
	logger    *slog.Logger
}

// NewExecutor returns an executor for one query turn. A nil logger uses
// slog.Default().
func NewExecutor(s Store, params Parameters, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		store:     s,
		params:    params,
		predictor: NewPredictor(s),
		logger:    logger,
	}
}

// Execute runs a projection. JSON projections return their bag's result
// unchanged; Nifti projections are not implemented.
func (x *Executor) Execute(ctx context.Context, p ast.Projection) (store.ResultSet, error) {
	switch p := p.(type) {
	case *ast.JSON:
		return x.Bag(ctx, p.Bag)
	case *ast.Nifti:
		return nil, newError(ErrKindExecution, "nifti projection: not yet implemented")
	default:
		return nil, newError(ErrKindExecution, "unknown projection %T", p)
	}
}

// Bag runs a bag expression.
func (x *Executor) Bag(ctx context.Context, b ast.Bag) (store.ResultSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrapError(ErrKindExecution, err, "query cancelled")
	}

	switch b := b.(type) {
	case *ast.ViewPort:
		return x.viewport(ctx, b)
	case *ast.Distinct:
		inner, err := x.Bag(ctx, b.Bag)
		if err != nil {
			return nil, err
		}
		return distinct(inner), nil
	case *ast.Filter:
		return x.filter(ctx, b)
	case *ast.Complement:
		return x.complement(ctx, b)
	case *ast.Intersection:
		return x.intersection(ctx, b)
	case *ast.Union:
		left, err := x.Bag(ctx, b.Left)
		if err != nil {
			return nil, err
		}
		right, err := x.Bag(ctx, b.Right)
		if err != nil {
			return nil, err
		}
		return merge(left, right), nil
	case *ast.BagList:
		sets := make([]store.ResultSet, 0, len(b.Bags))
		for _, inner := range b.Bags {
			set, err := x.Bag(ctx, inner)
			if err != nil {
				return nil, err
			}
			sets = append(sets, set)
		}
		return merge(sets...), nil
	case *ast.Inside:
		return x.inside(ctx, b.Shape)
	case *ast.Outside:
		return x.outside(ctx, b.Shape)
	default:
		return nil, newError(ErrKindExecution, "unknown bag %T", b)
	}
}

// viewport intersects the bag with the caller's viewport rectangle, taken
// in the bag's space.
func (x *Executor) viewport(ctx context.Context, b *ast.ViewPort) (store.ResultSet, error) {
	vp := x.params.ViewPort
	if vp == nil {
		return x.Bag(ctx, b.Bag)
	}
	clip := &ast.Inside{Shape: &ast.HyperRectangle{
		SpaceID: b.Bag.Space(x.store.Universe().Name),
		Corners: []ast.LiteralPosition{vp.Low, vp.High},
	}}
	return x.Bag(ctx, &ast.Intersection{Left: b.Bag, Right: clip})
}

func (x *Executor) filter(ctx context.Context, b *ast.Filter) (store.ResultSet, error) {
	var (
		set store.ResultSet
		err error
	)
	if b.Bag == nil {
		set, err = x.universe(ctx)
	} else {
		set, err = x.Bag(ctx, b.Bag)
	}
	if err != nil {
		return nil, err
	}
	if b.Predicate == nil {
		return set, nil
	}
	return keep(set, func(_ string, o store.Object) bool {
		return Evaluate(b.Predicate, o)
	}), nil
}

// complement is every object of the universe not in the bag, whatever
// space the bag reports.
func (x *Executor) complement(ctx context.Context, b *ast.Complement) (store.ResultSet, error) {
	inner, err := x.Bag(ctx, b.Bag)
	if err != nil {
		return nil, err
	}
	all, err := x.universe(ctx)
	if err != nil {
		return nil, err
	}
	return subtract(all, inner), nil
}

// intersection probes the side with the smaller predicted volume. Ties, and
// predictions that fail, probe with the left side.
func (x *Executor) intersection(ctx context.Context, b *ast.Intersection) (store.ResultSet, error) {
	left, err := x.Bag(ctx, b.Left)
	if err != nil {
		return nil, err
	}
	right, err := x.Bag(ctx, b.Right)
	if err != nil {
		return nil, err
	}

	lv, lerr := x.predictor.Predict(b.Left)
	rv, rerr := x.predictor.Predict(b.Right)
	if lerr != nil || rerr != nil {
		x.logger.Warn("intersection prediction failed, probing with left operand",
			"left_error", lerr,
			"right_error", rerr,
		)
		return probe(right, left), nil
	}
	if rv < lv {
		return probe(left, right), nil
	}
	return probe(right, left), nil
}

func (x *Executor) inside(ctx context.Context, s ast.Shape) (store.ResultSet, error) {
	if l, ok := s.(*ast.Label); ok {
		set, err := x.store.GetByLabel(ctx, l.SpaceID, l.ID)
		if err != nil {
			return nil, wrapError(ErrKindExecution, err, "inside label %q", l.ID)
		}
		return set, nil
	}

	sp, err := x.space(s.Space())
	if err != nil {
		return nil, err
	}
	q, err := x.encode(sp, s, 0)
	if err != nil {
		return nil, err
	}
	set, err := x.store.GetByShape(ctx, sp.Name, q)
	if err != nil {
		return nil, wrapError(ErrKindExecution, err, "inside %s", ast.Format(s))
	}
	return set, nil
}

// outside is the complement of the shape within its own space. The inside
// part is queried on the shape shrunk by epsilon, so objects on the surface
// count as outside. Points are looked up by raw position, without nudge.
func (x *Executor) outside(ctx context.Context, s ast.Shape) (store.ResultSet, error) {
	sp, err := x.space(s.Space())
	if err != nil {
		return nil, err
	}

	var inner store.ResultSet
	switch s := s.(type) {
	case *ast.Point:
		inner, err = x.store.GetByPositions(ctx, sp.Name, []space.Position{s.Position.Floats()})
	case *ast.Label:
		inner, err = x.store.GetByLabel(ctx, sp.Name, s.ID)
	default:
		var q store.Shape
		if q, err = x.encode(sp, s, x.params.Epsilon); err != nil {
			return nil, err
		}
		inner, err = x.store.GetByShape(ctx, sp.Name, q)
	}
	if err != nil {
		return nil, wrapError(ErrKindExecution, err, "outside %s", ast.Format(s))
	}

	all, err := x.fullSpace(ctx, sp)
	if err != nil {
		return nil, err
	}
	return subtract(all, inner), nil
}

// encode converts a geometric shape to a store query in sp's key domain,
// after shrinking it by nudge.
//
// The sphere radius is broadcast to every axis and encoded like a position;
// the first encoded coordinate is the radius. This is exact for identity
// encoders only.
func (x *Executor) encode(sp *space.Space, s ast.Shape, nudge float64) (store.Shape, error) {
	switch s := s.(type) {
	case *ast.Point:
		p, err := sp.Encode(s.Position.Floats())
		if err != nil {
			return nil, wrapError(ErrKindExecution, err, "point")
		}
		return store.PointQuery{Position: p}, nil

	case *ast.HyperRectangle:
		if len(s.Corners) != 2 {
			return nil, newError(ErrKindExecution,
				"hyperrectangle: %d corner positions given, only 2 (low, high) are supported", len(s.Corners))
		}
		low, high := s.Corners[0].Floats(), s.Corners[1].Floats()
		// Corners given in reverse are reordered before shrinking. An axis
		// that the shrink crosses stays crossed and matches nothing.
		crossed := make([]bool, len(low))
		for i := range low {
			if i >= len(high) {
				break
			}
			if low[i] > high[i] {
				low[i], high[i] = high[i], low[i]
			}
			low[i] += nudge
			high[i] -= nudge
			crossed[i] = low[i] > high[i]
		}
		el, err := sp.Encode(low)
		if err != nil {
			return nil, wrapError(ErrKindExecution, err, "hyperrectangle low corner")
		}
		eh, err := sp.Encode(high)
		if err != nil {
			return nil, wrapError(ErrKindExecution, err, "hyperrectangle high corner")
		}
		for i := range el {
			switch {
			case i < len(crossed) && crossed[i]:
				el[i], eh[i] = math.Inf(1), math.Inf(-1)
			case el[i] > eh[i]:
				el[i], eh[i] = eh[i], el[i]
			}
		}
		return store.BoxQuery{Low: el, High: eh}, nil

	case *ast.HyperSphere:
		center, err := sp.Encode(s.Center.Floats())
		if err != nil {
			return nil, wrapError(ErrKindExecution, err, "hypersphere center")
		}
		r := s.Radius.Float64() - nudge
		if r < 0 {
			return store.SphereQuery{Center: center, Radius: r}, nil
		}
		radii := make(space.Position, len(center))
		for i := range radii {
			radii[i] = r
		}
		encoded, err := sp.Encode(radii)
		if err != nil {
			return nil, wrapError(ErrKindExecution, err, "hypersphere radius")
		}
		return store.SphereQuery{Center: center, Radius: encoded[0]}, nil

	case *ast.NiftiShape:
		return nil, newError(ErrKindExecution, "nifti shape: not yet implemented")

	default:
		return nil, newError(ErrKindExecution, "unsupported shape %T", s)
	}
}

// universe returns every object inside the universe bounding box.
func (x *Executor) universe(ctx context.Context) (store.ResultSet, error) {
	return x.fullSpace(ctx, x.store.Universe())
}

func (x *Executor) fullSpace(ctx context.Context, sp *space.Space) (store.ResultSet, error) {
	low, high := sp.BoundingBox()
	bounds := &ast.HyperRectangle{
		SpaceID: sp.Name,
		Corners: []ast.LiteralPosition{ast.FloatPos(low...), ast.FloatPos(high...)},
	}
	q, err := x.encode(sp, bounds, 0)
	if err != nil {
		return nil, err
	}
	set, err := x.store.GetByShape(ctx, sp.Name, q)
	if err != nil {
		return nil, wrapError(ErrKindExecution, err, "scan space %q", sp.Name)
	}
	return set, nil
}

func (x *Executor) space(name string) (*space.Space, error) {
	sp, err := x.store.Space(name)
	if err != nil {
		return nil, wrapError(ErrKindExecution, err, "resolve space")
	}
	return sp, nil
}
