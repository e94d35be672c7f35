package ast

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DecodeError reports a malformed AST document, with the position of the
// offending node when known.
type DecodeError struct {
	Line    int
	Column  int
	Message string
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d:%d: %s", e.Line, e.Column, e.Message)
	}
	return e.Message
}

func errorAt(n *yaml.Node, format string, args ...any) error {
	e := &DecodeError{Message: fmt.Sprintf(format, args...)}
	if n != nil {
		e.Line, e.Column = n.Line, n.Column
	}
	return e
}

// Decoder builds expression trees from YAML (or JSON) documents.
//
// Every node is a mapping with a single key naming the operator:
//
//	distinct:
//	  union:
//	    - inside: {point: {position: [0, 0]}}
//	    - inside: {hypersphere: {center: [0, 0], radius: 1.5, space: brain}}
//
// Integer and float literals keep their YAML kind (1 is Int, 1.0 is Float).
// A shape without a space is placed in the universe.
type Decoder struct {
	// Universe is the name of the universe space, used for omitted spaces.
	Universe string
}

// NewDecoder returns a decoder defaulting to the given universe name.
func NewDecoder(universe string) *Decoder {
	return &Decoder{Universe: universe}
}

// Query decodes a full query: a json/nifti projection, or a bare bag which
// is projected as json(., bag). The projected bag is wrapped in the implicit
// ViewPort, as the query parser does.
func (d *Decoder) Query(data []byte) (Projection, error) {
	root, err := document(data)
	if err != nil {
		return nil, err
	}
	return d.QueryNode(root)
}

// BagDocument decodes a bare bag expression, without projection or viewport.
func (d *Decoder) BagDocument(data []byte) (Bag, error) {
	root, err := document(data)
	if err != nil {
		return nil, err
	}
	return d.Bag(root)
}

// QueryNode decodes a query from an already parsed YAML node.
func (d *Decoder) QueryNode(n *yaml.Node) (Projection, error) {
	n = resolve(n)
	key, val, err := single(n)
	if err != nil {
		return nil, err
	}

	switch key {
	case "json":
		fields, err := mapping(val, []string{"value", "bag"}, []string{"space"})
		if err != nil {
			return nil, err
		}
		value, err := d.json(fields["value"])
		if err != nil {
			return nil, err
		}
		bag, err := d.Bag(fields["bag"])
		if err != nil {
			return nil, err
		}
		return &JSON{SpaceID: d.space(fields), Value: value, Bag: &ViewPort{Bag: bag}}, nil

	case "nifti":
		fields, err := mapping(val, []string{"bag"}, []string{"selector", "space"})
		if err != nil {
			return nil, err
		}
		sel := LiteralSelector{}
		if s, ok := fields["selector"]; ok {
			if sel, err = d.selector(s); err != nil {
				return nil, err
			}
		}
		bag, err := d.Bag(fields["bag"])
		if err != nil {
			return nil, err
		}
		return &Nifti{SpaceID: d.space(fields), Selector: sel, Bag: &ViewPort{Bag: bag}}, nil

	default:
		bag, err := d.Bag(n)
		if err != nil {
			return nil, err
		}
		return &JSON{
			SpaceID: d.Universe,
			Value:   &JSONSelector{Selector: LiteralSelector{}},
			Bag:     &ViewPort{Bag: bag},
		}, nil
	}
}

// Bag decodes a bag expression from a parsed YAML node.
func (d *Decoder) Bag(n *yaml.Node) (Bag, error) {
	n = resolve(n)
	key, val, err := single(n)
	if err != nil {
		return nil, err
	}

	switch key {
	case "distinct":
		inner, err := d.Bag(val)
		if err != nil {
			return nil, err
		}
		return &Distinct{Bag: inner}, nil

	case "complement":
		inner, err := d.Bag(val)
		if err != nil {
			return nil, err
		}
		return &Complement{Bag: inner}, nil

	case "filter":
		fields, err := mapping(val, []string{"predicate"}, []string{"bag"})
		if err != nil {
			return nil, err
		}
		pred, err := d.predicate(fields["predicate"])
		if err != nil {
			return nil, err
		}
		f := &Filter{Predicate: pred}
		if b, ok := fields["bag"]; ok {
			if f.Bag, err = d.Bag(b); err != nil {
				return nil, err
			}
		}
		return f, nil

	case "intersection", "union":
		items, err := sequence(val, 2)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		left, err := d.Bag(items[0])
		if err != nil {
			return nil, err
		}
		right, err := d.Bag(items[1])
		if err != nil {
			return nil, err
		}
		if key == "union" {
			return &Union{Left: left, Right: right}, nil
		}
		return &Intersection{Left: left, Right: right}, nil

	case "bag":
		items, err := sequence(val, -1)
		if err != nil {
			return nil, fmt.Errorf("bag: %w", err)
		}
		list := &BagList{Bags: make([]Bag, 0, len(items))}
		for _, item := range items {
			b, err := d.Bag(item)
			if err != nil {
				return nil, err
			}
			list.Bags = append(list.Bags, b)
		}
		return list, nil

	case "inside", "outside":
		shape, err := d.Shape(val)
		if err != nil {
			return nil, err
		}
		if key == "outside" {
			return &Outside{Shape: shape}, nil
		}
		return &Inside{Shape: shape}, nil

	case "viewport":
		return nil, errorAt(n, "viewport is implicit and cannot be written in a query")

	default:
		return nil, errorAt(n, "unknown bag operator %q", key)
	}
}

// Shape decodes a shape from a parsed YAML node.
func (d *Decoder) Shape(n *yaml.Node) (Shape, error) {
	n = resolve(n)
	key, val, err := single(n)
	if err != nil {
		return nil, err
	}

	switch key {
	case "point":
		fields, err := mapping(val, []string{"position"}, []string{"space"})
		if err != nil {
			return nil, err
		}
		pos, err := d.literal(fields["position"])
		if err != nil {
			return nil, err
		}
		return &Point{SpaceID: d.space(fields), Position: pos}, nil

	case "hyperrectangle":
		fields, err := mapping(val, []string{"corners"}, []string{"space"})
		if err != nil {
			return nil, err
		}
		items, err := sequence(fields["corners"], -1)
		if err != nil {
			return nil, fmt.Errorf("hyperrectangle corners: %w", err)
		}
		rect := &HyperRectangle{SpaceID: d.space(fields)}
		for _, item := range items {
			c, err := d.literal(item)
			if err != nil {
				return nil, err
			}
			rect.Corners = append(rect.Corners, c)
		}
		return rect, nil

	case "hypersphere":
		fields, err := mapping(val, []string{"center", "radius"}, []string{"space"})
		if err != nil {
			return nil, err
		}
		center, err := d.literal(fields["center"])
		if err != nil {
			return nil, err
		}
		radius, err := d.number(fields["radius"])
		if err != nil {
			return nil, err
		}
		return &HyperSphere{SpaceID: d.space(fields), Center: center, Radius: radius}, nil

	case "label":
		fields, err := mapping(val, []string{"id"}, []string{"space"})
		if err != nil {
			return nil, err
		}
		id, err := str(fields["id"])
		if err != nil {
			return nil, err
		}
		return &Label{SpaceID: d.space(fields), ID: id}, nil

	case "nifti":
		fields, err := mapping(val, nil, []string{"space"})
		if err != nil {
			return nil, err
		}
		return &NiftiShape{SpaceID: d.space(fields)}, nil

	default:
		return nil, errorAt(n, "unknown shape %q", key)
	}
}

var predicateAliases = map[string]string{
	"<": "less", ">": "greater", "=": "equal",
	"!": "not", "&": "and", "|": "or",
}

func (d *Decoder) predicate(n *yaml.Node) (Predicate, error) {
	n = resolve(n)
	key, val, err := single(n)
	if err != nil {
		return nil, err
	}
	if alias, ok := predicateAliases[key]; ok {
		key = alias
	}

	switch key {
	case "less", "greater", "equal":
		items, err := sequence(val, 2)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		left, err := d.position(items[0])
		if err != nil {
			return nil, err
		}
		right, err := d.literal(items[1])
		if err != nil {
			return nil, err
		}
		switch key {
		case "less":
			return &Less{Left: left, Right: right}, nil
		case "greater":
			return &Greater{Left: left, Right: right}, nil
		default:
			return &Equal{Left: left, Right: right}, nil
		}

	case "not":
		inner, err := d.predicate(val)
		if err != nil {
			return nil, err
		}
		return &Not{Predicate: inner}, nil

	case "and", "or":
		items, err := sequence(val, 2)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		left, err := d.predicate(items[0])
		if err != nil {
			return nil, err
		}
		right, err := d.predicate(items[1])
		if err != nil {
			return nil, err
		}
		if key == "and" {
			return &And{Left: left, Right: right}, nil
		}
		return &Or{Left: left, Right: right}, nil

	default:
		return nil, errorAt(n, "unknown predicate %q", key)
	}
}

func (d *Decoder) position(n *yaml.Node) (Position, error) {
	n = resolve(n)
	switch n.Kind {
	case yaml.SequenceNode:
		lit, err := d.literal(n)
		if err != nil {
			return nil, err
		}
		return &PositionLiteral{Value: lit}, nil

	case yaml.ScalarNode:
		sel, err := d.selector(n)
		if err != nil {
			return nil, err
		}
		return &PositionSelector{Selector: sel}, nil

	case yaml.MappingNode:
		key, val, err := single(n)
		if err != nil {
			return nil, err
		}
		if key != "str_cmp" && key != "str_cmp_ignore_case" {
			return nil, errorAt(n, "unknown position function %q", key)
		}
		items, err := sequence(val, 2)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		sel, err := d.selector(items[0])
		if err != nil {
			return nil, err
		}
		lit, err := str(items[1])
		if err != nil {
			return nil, err
		}
		if key == "str_cmp" {
			return &StrCmp{Selector: sel, Literal: lit}, nil
		}
		return &StrCmpICase{Selector: sel, Literal: lit}, nil

	default:
		return nil, errorAt(n, "expected a position")
	}
}

func (d *Decoder) selector(n *yaml.Node) (LiteralSelector, error) {
	text, err := str(n)
	if err != nil {
		return nil, err
	}
	sel, err := ParseSelector(text)
	if err != nil {
		return nil, errorAt(n, "%v", err)
	}
	return sel, nil
}

func (d *Decoder) literal(n *yaml.Node) (LiteralPosition, error) {
	items, err := sequence(n, -1)
	if err != nil {
		return nil, fmt.Errorf("position: %w", err)
	}
	pos := make(LiteralPosition, 0, len(items))
	for _, item := range items {
		num, err := d.number(item)
		if err != nil {
			return nil, err
		}
		pos = append(pos, num)
	}
	return pos, nil
}

func (d *Decoder) number(n *yaml.Node) (LiteralNumber, error) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return LiteralNumber{}, errorAt(n, "expected a number")
	}
	switch n.ShortTag() {
	case "!!int":
		var v int64
		if err := n.Decode(&v); err != nil {
			return LiteralNumber{}, errorAt(n, "invalid integer %q: %v", n.Value, err)
		}
		return Int(v), nil
	case "!!float":
		var v float64
		if err := n.Decode(&v); err != nil {
			return LiteralNumber{}, errorAt(n, "invalid float %q: %v", n.Value, err)
		}
		return Float(v), nil
	default:
		return LiteralNumber{}, errorAt(n, "expected a number, got %q", n.Value)
	}
}

// jsonNumber follows the strict JSON grammar: no leading '+', no leading
// zeros.
var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

var jsonFunctions = []string{"selector", "count", "count_distinct", "sum", "min", "max", "object"}

func (d *Decoder) json(n *yaml.Node) (JSONValue, error) {
	n = resolve(n)
	if n == nil {
		return nil, errorAt(n, "expected a json value")
	}

	switch n.Kind {
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!null":
			return JSONNull{}, nil
		case "!!bool":
			if n.Value != "true" && n.Value != "false" {
				return nil, errorAt(n, "json booleans are lowercase, got %q", n.Value)
			}
			return JSONBool(n.Value == "true"), nil
		case "!!int", "!!float":
			if !jsonNumber.MatchString(n.Value) {
				return nil, errorAt(n, "invalid json number %q", n.Value)
			}
			num, err := d.number(n)
			if err != nil {
				return nil, err
			}
			return &JSONNumber{Value: num}, nil
		default:
			return JSONString(n.Value), nil
		}

	case yaml.SequenceNode:
		arr := make(JSONArray, 0, len(n.Content))
		for _, item := range n.Content {
			v, err := d.json(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil

	case yaml.MappingNode:
		key, val, err := single(n)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(jsonFunctions, key) {
			return nil, errorAt(n, "unknown json function %q (literal objects are written {object: {...}})", key)
		}
		if key == "object" {
			return d.jsonObject(val)
		}
		sel, err := d.selector(val)
		if err != nil {
			return nil, err
		}
		switch key {
		case "selector":
			return &JSONSelector{Selector: sel}, nil
		case "count":
			return &Aggregation{Kind: Count, Selector: sel}, nil
		case "count_distinct":
			return &Aggregation{Kind: Count, Distinct: true, Selector: sel}, nil
		case "sum":
			return &Aggregation{Kind: Sum, Selector: sel}, nil
		case "min":
			return &Aggregation{Kind: Min, Selector: sel}, nil
		default:
			return &Aggregation{Kind: Max, Selector: sel}, nil
		}

	default:
		return nil, errorAt(n, "expected a json value")
	}
}

func (d *Decoder) jsonObject(n *yaml.Node) (JSONValue, error) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, errorAt(n, "object expects a mapping")
	}
	obj := make(JSONObject, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i]
		if k.ShortTag() != "!!str" {
			return nil, errorAt(k, "object keys must be strings")
		}
		v, err := d.json(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		obj = append(obj, JSONField{Key: k.Value, Value: v})
	}
	return obj, nil
}

func (d *Decoder) space(fields map[string]*yaml.Node) string {
	if n, ok := fields["space"]; ok {
		if s, err := str(n); err == nil && s != "" {
			return s
		}
	}
	return d.Universe
}

func document(data []byte) (*yaml.Node, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &DecodeError{Message: err.Error()}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil, &DecodeError{Message: "empty query document"}
	}
	return doc.Content[0], nil
}

func resolve(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

// single unpacks a mapping with exactly one key.
func single(n *yaml.Node) (string, *yaml.Node, error) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return "", nil, errorAt(n, "expected a single-key mapping naming an operator")
	}
	if len(n.Content) != 2 {
		keys := make([]string, 0, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			keys = append(keys, n.Content[i].Value)
		}
		return "", nil, errorAt(n, "expected exactly one operator, got [%s]", strings.Join(keys, ", "))
	}
	return n.Content[0].Value, resolve(n.Content[1]), nil
}

// mapping unpacks a mapping, checking required and allowed keys.
func mapping(n *yaml.Node, required, optional []string) (map[string]*yaml.Node, error) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.MappingNode {
		return nil, errorAt(n, "expected a mapping with keys %v", append(required, optional...))
	}
	fields := make(map[string]*yaml.Node, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k := n.Content[i].Value
		if !slices.Contains(required, k) && !slices.Contains(optional, k) {
			return nil, errorAt(n.Content[i], "unexpected key %q", k)
		}
		if _, dup := fields[k]; dup {
			return nil, errorAt(n.Content[i], "duplicate key %q", k)
		}
		fields[k] = resolve(n.Content[i+1])
	}
	for _, k := range required {
		if _, ok := fields[k]; !ok {
			return nil, errorAt(n, "missing key %q", k)
		}
	}
	return fields, nil
}

// sequence unpacks a sequence; want < 0 accepts any length.
func sequence(n *yaml.Node, want int) ([]*yaml.Node, error) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil, errorAt(n, "expected a sequence")
	}
	if want >= 0 && len(n.Content) != want {
		return nil, errorAt(n, "expected %d operands, got %d", want, len(n.Content))
	}
	return n.Content, nil
}

func str(n *yaml.Node) (string, error) {
	n = resolve(n)
	if n == nil || n.Kind != yaml.ScalarNode {
		return "", errorAt(n, "expected a string")
	}
	return n.Value, nil
}

// Decode decodes a query document, defaulting omitted spaces to universe.
func Decode(data []byte, universe string) (Projection, error) {
	return NewDecoder(universe).Query(data)
}

// DecodeBag decodes a bare bag document, defaulting omitted spaces to
// universe.
func DecodeBag(data []byte, universe string) (Bag, error) {
	return NewDecoder(universe).BagDocument(data)
}
