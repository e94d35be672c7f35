package engine

import (
	"github.com/roach88/mercator/internal/ast"
	"github.com/roach88/mercator/internal/space"
)

// Predictor estimates the volume a bag covers. The estimate orders the
// operands of an intersection and never changes results.
type Predictor struct {
	catalog space.Catalog
}

// NewPredictor returns a predictor resolving spaces through catalog.
func NewPredictor(catalog space.Catalog) *Predictor {
	return &Predictor{catalog: catalog}
}

// Predict returns the predicted volume of n, or a PREDICTION error.
//
// Semantics:
//   - shapes report their geometric volume (a point reports ast.PointVolume)
//   - Complement: volume of the bag's space minus the bag's prediction
//   - Outside: volume of the shape's space minus the shape's volume
//   - Intersection: the smaller operand prediction
//   - Union and bag lists: the sum of their operands, overlap counted twice
//   - Filter without bag: the universe volume
//   - everything else forwards to its child
func (p *Predictor) Predict(n ast.Node) (float64, error) {
	switch n := n.(type) {
	case ast.Projection:
		return p.bag(n.Input())
	case ast.Bag:
		return p.bag(n)
	case ast.Shape:
		return p.shape(n)
	default:
		return 0, newError(ErrKindPrediction, "cannot predict %T", n)
	}
}

func (p *Predictor) bag(b ast.Bag) (float64, error) {
	switch b := b.(type) {
	case *ast.ViewPort:
		return p.bag(b.Bag)
	case *ast.Distinct:
		return p.bag(b.Bag)
	case *ast.Filter:
		if b.Bag == nil {
			return p.catalog.Universe().Volume(), nil
		}
		return p.bag(b.Bag)
	case *ast.Complement:
		total, err := p.spaceVolume(b.Space(p.catalog.Universe().Name))
		if err != nil {
			return 0, err
		}
		inner, err := p.bag(b.Bag)
		if err != nil {
			return 0, err
		}
		return total - inner, nil
	case *ast.Intersection:
		l, err := p.bag(b.Left)
		if err != nil {
			return 0, err
		}
		r, err := p.bag(b.Right)
		if err != nil {
			return 0, err
		}
		return min(l, r), nil
	case *ast.Union:
		l, err := p.bag(b.Left)
		if err != nil {
			return 0, err
		}
		r, err := p.bag(b.Right)
		if err != nil {
			return 0, err
		}
		return l + r, nil
	case *ast.BagList:
		var sum float64
		for _, inner := range b.Bags {
			v, err := p.bag(inner)
			if err != nil {
				return 0, err
			}
			sum += v
		}
		return sum, nil
	case *ast.Inside:
		return p.shape(b.Shape)
	case *ast.Outside:
		total, err := p.spaceVolume(b.Shape.Space())
		if err != nil {
			return 0, err
		}
		inner, err := p.shape(b.Shape)
		if err != nil {
			return 0, err
		}
		return total - inner, nil
	default:
		return 0, newError(ErrKindPrediction, "unknown bag %T", b)
	}
}

func (p *Predictor) shape(s ast.Shape) (float64, error) {
	if _, ok := s.(*ast.NiftiShape); ok {
		return 0, newError(ErrKindPrediction, "nifti shape: not yet implemented")
	}
	if _, err := p.catalog.Space(s.Space()); err != nil {
		return 0, wrapError(ErrKindPrediction, err, "shape space")
	}
	return s.Volume(), nil
}

func (p *Predictor) spaceVolume(name string) (float64, error) {
	sp, err := p.catalog.Space(name)
	if err != nil {
		return 0, wrapError(ErrKindPrediction, err, "space volume")
	}
	return sp.Volume(), nil
}
