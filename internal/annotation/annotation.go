// Package annotation adapts the oracle's raw annotation payloads
// (oracle.RawAnnotation/AnnotationArg) into the legacy visitor-dispatched
// mirrors spec.md §4.4 describes, and groups repeatable annotation
// instances into their synthetic container the way the legacy model does
// when a declaration carries more than one instance of a @Repeatable type.
package annotation

import (
	"fmt"

	"github.com/funvibe/typebridge/internal/bridgeerr"
	"github.com/funvibe/typebridge/internal/element"
	"github.com/funvibe/typebridge/internal/mirror"
	"github.com/funvibe/typebridge/internal/oracle"
	"github.com/funvibe/typebridge/internal/projection"
)

// ValueKind tags which payload an AnnotationValue carries.
type ValueKind int

const (
	ValueBool ValueKind = iota
	ValueByte
	ValueShort
	ValueInt
	ValueLong
	ValueChar
	ValueFloat
	ValueDouble
	ValueString
	ValueEnumConstant
	ValueClass
	ValueAnnotation
	ValueArray
)

// Value is the adapted form of oracle.AnnotationArg: a self-describing
// payload plus a Visit dispatcher, the Go analogue of
// AnnotationValue.accept (spec.md §4.4.2).
type Value struct {
	kind ValueKind

	boolVal   bool
	intVal    int64
	floatVal  float64
	strVal    string
	enumEntry *element.ClassTypeElement
	classVal  mirror.Type
	annoVal   *Mirror
	listVal   []Value
}

// Kind reports which payload v carries.
func (v Value) Kind() ValueKind { return v.kind }

// Visitor dispatches over a Value's payload, the same shape as the legacy
// AnnotationValueVisitor (spec.md §4.4.2): exactly one method fires.
type Visitor struct {
	Bool         func(bool)
	Byte         func(int64)
	Short        func(int64)
	Int          func(int64)
	Long         func(int64)
	Char         func(int64)
	Float        func(float64)
	Double       func(float64)
	String       func(string)
	EnumConstant func(*element.ClassTypeElement)
	Class        func(mirror.Type)
	Annotation   func(*Mirror)
	Array        func([]Value)
}

// Visit dispatches v to the matching field of vis, panicking with a
// ContractViolationError if the matching field was left nil — every Value
// a well-formed adapter produces must be handled.
func (v Value) Visit(vis Visitor) {
	missing := func(what string) {
		bridgeerr.Panic(bridgeerr.NewContractViolationError("Visit", what+" visitor field not supplied"))
	}
	switch v.kind {
	case ValueBool:
		if vis.Bool == nil {
			missing("bool")
		}
		vis.Bool(v.boolVal)
	case ValueByte:
		if vis.Byte == nil {
			missing("byte")
		}
		vis.Byte(v.intVal)
	case ValueShort:
		if vis.Short == nil {
			missing("short")
		}
		vis.Short(v.intVal)
	case ValueInt:
		if vis.Int == nil {
			missing("int")
		}
		vis.Int(v.intVal)
	case ValueLong:
		if vis.Long == nil {
			missing("long")
		}
		vis.Long(v.intVal)
	case ValueChar:
		if vis.Char == nil {
			missing("char")
		}
		vis.Char(v.intVal)
	case ValueFloat:
		if vis.Float == nil {
			missing("float")
		}
		vis.Float(v.floatVal)
	case ValueDouble:
		if vis.Double == nil {
			missing("double")
		}
		vis.Double(v.floatVal)
	case ValueString:
		if vis.String == nil {
			missing("string")
		}
		vis.String(v.strVal)
	case ValueEnumConstant:
		if vis.EnumConstant == nil {
			missing("enum constant")
		}
		vis.EnumConstant(v.enumEntry)
	case ValueClass:
		if vis.Class == nil {
			missing("class")
		}
		vis.Class(v.classVal)
	case ValueAnnotation:
		if vis.Annotation == nil {
			missing("annotation")
		}
		vis.Annotation(v.annoVal)
	case ValueArray:
		if vis.Array == nil {
			missing("array")
		}
		vis.Array(v.listVal)
	default:
		bridgeerr.Panic(bridgeerr.NewContractViolationError("Visit", fmt.Sprintf("unknown value kind %d", v.kind)))
	}
}

// Mirror is the adapted form of oracle.RawAnnotation (spec.md §4.4.1): an
// annotation type element plus its name/value pairs, in source order.
type Mirror struct {
	Type   *element.ClassTypeElement
	Values []NamedValue
}

// NamedValue is one name/value pair of a Mirror, in source order.
type NamedValue struct {
	Name  string
	Value Value
}

// Get looks up a named value, returning ok=false if absent (the element
// carried no explicit or default value for that attribute).
func (m *Mirror) Get(name string) (Value, bool) {
	for _, nv := range m.Values {
		if nv.Name == name {
			return nv.Value, true
		}
	}
	return Value{}, false
}

// Adapter turns the oracle's raw annotation payloads into Mirror/Value
// trees, bound to one Projector so annotation-argument class/enum payloads
// resolve through the same cache as everything else.
type Adapter struct {
	Projector *projection.Projector
}

// New builds an Adapter.
func New(p *projection.Projector) *Adapter {
	return &Adapter{Projector: p}
}

// AdaptAnnotations adapts every annotation the oracle reports on decl, in
// source order, without any repeatable grouping (callers that want grouped
// repeatables use Group instead).
func (a *Adapter) AdaptAnnotations(decl oracle.Declaration) []*Mirror {
	raws := a.Projector.Oracle.Annotations(decl)
	out := make([]*Mirror, len(raws))
	for i, r := range raws {
		out[i] = a.AdaptMirror(r)
	}
	return out
}

// AdaptMirror adapts a single raw annotation instance.
func (a *Adapter) AdaptMirror(raw oracle.RawAnnotation) *Mirror {
	if raw.Type == nil {
		bridgeerr.Panic(bridgeerr.NewContractViolationError("AdaptMirror", "raw annotation with nil type"))
	}
	values := make([]NamedValue, len(raw.Attrs))
	for i, attr := range raw.Attrs {
		values[i] = NamedValue{Name: attr.Name, Value: a.adaptArg(attr.Value)}
	}
	return &Mirror{Type: a.Projector.Element(raw.Type), Values: values}
}

func (a *Adapter) adaptArg(arg oracle.AnnotationArg) Value {
	switch arg.Kind {
	case oracle.ArgBool:
		return Value{kind: ValueBool, boolVal: arg.Bool}
	case oracle.ArgByte:
		return Value{kind: ValueByte, intVal: arg.Int}
	case oracle.ArgShort:
		return Value{kind: ValueShort, intVal: arg.Int}
	case oracle.ArgInt:
		return Value{kind: ValueInt, intVal: arg.Int}
	case oracle.ArgLong:
		return Value{kind: ValueLong, intVal: arg.Int}
	case oracle.ArgChar:
		return Value{kind: ValueChar, intVal: arg.Int}
	case oracle.ArgFloat:
		return Value{kind: ValueFloat, floatVal: arg.Float}
	case oracle.ArgDouble:
		return Value{kind: ValueDouble, floatVal: arg.Float}
	case oracle.ArgString:
		return Value{kind: ValueString, strVal: arg.Str}
	case oracle.ArgEnumEntry:
		if arg.EnumEntry == nil {
			bridgeerr.Panic(bridgeerr.NewContractViolationError("adaptArg", "enum-entry argument with nil declaration"))
		}
		return Value{kind: ValueEnumConstant, enumEntry: a.Projector.Element(arg.EnumEntry)}
	case oracle.ArgClass:
		return Value{kind: ValueClass, classVal: a.Projector.Project(arg.Class)}
	case oracle.ArgAnnotation:
		if arg.Nested == nil {
			bridgeerr.Panic(bridgeerr.NewContractViolationError("adaptArg", "annotation argument with nil nested payload"))
		}
		return Value{kind: ValueAnnotation, annoVal: a.AdaptMirror(*arg.Nested)}
	case oracle.ArgList:
		list := make([]Value, len(arg.List))
		for i, el := range arg.List {
			list[i] = a.adaptArg(el)
		}
		return Value{kind: ValueArray, listVal: list}
	default:
		bridgeerr.Panic(bridgeerr.NewContractViolationError("adaptArg", fmt.Sprintf("unknown argument kind %d", arg.Kind)))
		return Value{}
	}
}
