package bridgesvc

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/funvibe/typebridge/internal/annotation"
	"github.com/funvibe/typebridge/internal/bridgeerr"
	"github.com/funvibe/typebridge/internal/element"
	"github.com/funvibe/typebridge/internal/mirror"
	"github.com/funvibe/typebridge/internal/oracle"
)

// decodeTypeRef turns the wire shape {qualifiedName, nullable, args[],
// typeParam} into an oracle.TypeRef, resolving qualifiedName against s's
// oracle. This is the only place the bridge accepts a type description
// directly from a caller instead of deriving it from the oracle itself.
func (s *Service) decodeTypeRef(v *structpb.Value) (oracle.TypeRef, error) {
	st := v.GetStructValue()
	if st == nil {
		return oracle.TypeRef{}, fmt.Errorf("type reference must be an object")
	}
	fields := st.GetFields()

	if tp := fields["typeParam"].GetStringValue(); tp != "" {
		return oracle.TypeRef{
			IsTypeParam: true,
			ParamName:   tp,
			Nullable:    fields["nullable"].GetBoolValue(),
		}, nil
	}

	qn := fields["qualifiedName"].GetStringValue()
	if qn == "" {
		return oracle.TypeRef{}, fmt.Errorf("type reference missing qualifiedName")
	}
	decl, ok := s.Oracle.LookupByQualifiedName(s.Oracle.QualifiedNameOf(qn))
	if !ok {
		return oracle.TypeRef{}, fmt.Errorf("unknown declaration %q", qn)
	}

	var args []oracle.TypeRef
	for _, a := range fields["args"].GetListValue().GetValues() {
		ref, err := s.decodeTypeRef(a)
		if err != nil {
			return oracle.TypeRef{}, err
		}
		args = append(args, ref)
	}

	return oracle.TypeRef{
		Decl:     decl,
		Nullable: fields["nullable"].GetBoolValue(),
		Args:     args,
	}, nil
}

// decodePair decodes the {a, b} request shape every binary type predicate
// (IsSameType/IsSubtype/IsAssignable) accepts.
func (s *Service) decodePair(req *structpb.Struct) (oracle.TypeRef, oracle.TypeRef, error) {
	aField, ok := req.Fields["a"]
	if !ok {
		return oracle.TypeRef{}, oracle.TypeRef{}, fmt.Errorf("request missing \"a\"")
	}
	bField, ok := req.Fields["b"]
	if !ok {
		return oracle.TypeRef{}, oracle.TypeRef{}, fmt.Errorf("request missing \"b\"")
	}
	a, err := s.decodeTypeRef(aField)
	if err != nil {
		return oracle.TypeRef{}, oracle.TypeRef{}, fmt.Errorf("decoding \"a\": %w", err)
	}
	b, err := s.decodeTypeRef(bField)
	if err != nil {
		return oracle.TypeRef{}, oracle.TypeRef{}, fmt.Errorf("decoding \"b\": %w", err)
	}
	return a, b, nil
}

// encodeType turns a projected mirror.Type into a wire object tagged with
// its "kind". Declared types carry the qualifiedName/args fields
// decodeTypeRef reads, but the output is not decodeTypeRef's input shape in
// general: primitives, arrays, wildcards and the like have no decodeTypeRef
// form, type variables are written under "name" rather than "typeParam",
// and nullability is not encoded.
func encodeType(t mirror.Type) *structpb.Value {
	if t == nil {
		return structpb.NewNullValue()
	}
	switch tt := t.(type) {
	case *mirror.PrimitiveType:
		return structOf(map[string]*structpb.Value{
			"kind":      structpb.NewStringValue("primitive"),
			"primitive": structpb.NewStringValue(tt.PKind.String()),
		})
	case *mirror.NoType:
		return structOf(map[string]*structpb.Value{
			"kind":   structpb.NewStringValue("noType"),
			"noType": structpb.NewStringValue(tt.NKind.String()),
		})
	case *mirror.NullType:
		return structOf(map[string]*structpb.Value{"kind": structpb.NewStringValue("nullType")})
	case *mirror.ArrayType:
		return structOf(map[string]*structpb.Value{
			"kind":      structpb.NewStringValue("array"),
			"component": encodeType(tt.Component),
		})
	case *mirror.WildcardType:
		fields := map[string]*structpb.Value{"kind": structpb.NewStringValue("wildcard")}
		if tt.ExtendsBound != nil {
			fields["extends"] = encodeType(tt.ExtendsBound)
		}
		if tt.SuperBound != nil {
			fields["super"] = encodeType(tt.SuperBound)
		}
		return structOf(fields)
	case *mirror.TypeVariable:
		return structOf(map[string]*structpb.Value{
			"kind": structpb.NewStringValue("typeVariable"),
			"name": structpb.NewStringValue(tt.Name),
		})
	case *mirror.DeclaredTypeMirror:
		fields := map[string]*structpb.Value{"kind": structpb.NewStringValue("declared")}
		if tt.Element != nil {
			fields["qualifiedName"] = structpb.NewStringValue(string(tt.Element.QualifiedName()))
		}
		args := tt.TypeArguments()
		if len(args) > 0 {
			vals := make([]*structpb.Value, len(args))
			for i, a := range args {
				vals[i] = encodeType(a)
			}
			fields["args"] = structpb.NewListValue(&structpb.ListValue{Values: vals})
		}
		return structOf(fields)
	case *mirror.ExecutableType:
		params := make([]*structpb.Value, len(tt.Params))
		for i, p := range tt.Params {
			params[i] = encodeType(p)
		}
		fields := map[string]*structpb.Value{
			"kind":   structpb.NewStringValue("executable"),
			"params": structpb.NewListValue(&structpb.ListValue{Values: params}),
		}
		if tt.Return != nil {
			fields["return"] = encodeType(tt.Return)
		}
		return structOf(fields)
	default:
		bridgeerr.Panic(bridgeerr.NewContractViolationError("encodeType", fmt.Sprintf("unsupported mirror variant %T", t)))
		return nil
	}
}

func structOf(fields map[string]*structpb.Value) *structpb.Value {
	return structpb.NewStructValue(&structpb.Struct{Fields: fields})
}

// encodeAnnotation turns an adapted annotation.Mirror into its wire shape.
func encodeAnnotation(m *annotation.Mirror) *structpb.Value {
	values := make(map[string]*structpb.Value, len(m.Values))
	for _, nv := range m.Values {
		values[nv.Name] = encodeAnnotationValue(nv.Value)
	}
	return structOf(map[string]*structpb.Value{
		"qualifiedName": structpb.NewStringValue(string(m.Type.QualifiedName())),
		"values":        structOf(values),
	})
}

func encodeAnnotationValue(v annotation.Value) *structpb.Value {
	var out *structpb.Value
	v.Visit(annotation.Visitor{
		Bool:   func(b bool) { out = structpb.NewBoolValue(b) },
		Byte:   func(i int64) { out = structpb.NewNumberValue(float64(i)) },
		Short:  func(i int64) { out = structpb.NewNumberValue(float64(i)) },
		Int:    func(i int64) { out = structpb.NewNumberValue(float64(i)) },
		Long:   func(i int64) { out = structpb.NewNumberValue(float64(i)) },
		Char:   func(i int64) { out = structpb.NewNumberValue(float64(i)) },
		Float:  func(f float64) { out = structpb.NewNumberValue(f) },
		Double: func(f float64) { out = structpb.NewNumberValue(f) },
		String: func(str string) { out = structpb.NewStringValue(str) },
		EnumConstant: func(el *element.ClassTypeElement) {
			out = structpb.NewStringValue(string(el.QualifiedName()))
		},
		Class:      func(t mirror.Type) { out = encodeType(t) },
		Annotation: func(m *annotation.Mirror) { out = encodeAnnotation(m) },
		Array: func(vs []annotation.Value) {
			vals := make([]*structpb.Value, len(vs))
			for i, item := range vs {
				vals[i] = encodeAnnotationValue(item)
			}
			out = structpb.NewListValue(&structpb.ListValue{Values: vals})
		},
	})
	return out
}
