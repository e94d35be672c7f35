package ast

// Projection is the root of a query: it says how the selected objects are
// rendered.
type Projection interface {
	Node
	projectionNode()

	// Space returns the output space of the projection.
	Space() string

	// Input returns the bag being projected.
	Input() Bag
}

// JSON renders the objects of Bag through the JSON value template Value.
// The template is parsed and carried but not applied yet: execution returns
// Bag's result unchanged.
type JSON struct {
	SpaceID string
	Value   JSONValue
	Bag     Bag
}

// Nifti renders Bag as a volume. Unsupported.
type Nifti struct {
	SpaceID  string
	Selector LiteralSelector
	Bag      Bag
}

func (*JSON) node()            {}
func (*JSON) projectionNode()  {}
func (*Nifti) node()           {}
func (*Nifti) projectionNode() {}

func (p *JSON) Space() string  { return p.SpaceID }
func (p *Nifti) Space() string { return p.SpaceID }
func (p *JSON) Input() Bag     { return p.Bag }
func (p *Nifti) Input() Bag    { return p.Bag }

// JSONValue is a node of the JSON template language.
type JSONValue interface {
	Node
	jsonValue()
}

// JSONString is a string constant.
type JSONString string

// JSONNumber is a numeric constant.
type JSONNumber struct {
	Value LiteralNumber
}

// JSONBool is a boolean constant.
type JSONBool bool

// JSONNull is the null constant.
type JSONNull struct{}

// JSONField is one key of a JSONObject. Key order is preserved.
type JSONField struct {
	Key   string
	Value JSONValue
}

// JSONObject is an object template.
type JSONObject []JSONField

// JSONArray is an array template.
type JSONArray []JSONValue

// JSONSelector extracts a value from each object.
type JSONSelector struct {
	Selector LiteralSelector
}

// AggregationKind enumerates the aggregation functions.
type AggregationKind uint8

const (
	Count AggregationKind = iota
	Sum
	Min
	Max
)

// String returns the query-language function name.
func (k AggregationKind) String() string {
	switch k {
	case Count:
		return "count"
	case Sum:
		return "sum"
	case Min:
		return "min"
	case Max:
		return "max"
	default:
		return "unknown"
	}
}

// Aggregation folds a selector over every object. Distinct only applies to
// Count.
type Aggregation struct {
	Kind     AggregationKind
	Distinct bool
	Selector LiteralSelector
}

func (JSONString) node()         {}
func (JSONString) jsonValue()    {}
func (*JSONNumber) node()        {}
func (*JSONNumber) jsonValue()   {}
func (JSONBool) node()           {}
func (JSONBool) jsonValue()      {}
func (JSONNull) node()           {}
func (JSONNull) jsonValue()      {}
func (JSONObject) node()         {}
func (JSONObject) jsonValue()    {}
func (JSONArray) node()          {}
func (JSONArray) jsonValue()     {}
func (*JSONSelector) node()      {}
func (*JSONSelector) jsonValue() {}
func (*Aggregation) node()       {}
func (*Aggregation) jsonValue()  {}
