// Package protodesc implements oracle.Oracle over a serialized protobuf
// FileDescriptorSet, using jhump/protoreflect's desc package the same way
// internal/evaluator/builtins_grpc.go already does for lib/grpc's dynamic
// invocation: messages become class-like declarations, fields become
// enclosed members, and nested messages/enums become nested elements. It
// is one of the bridge's two concrete oracle backends (the other is
// oracle/gosource), selected by config.BridgeConfig.Backend.
package protodesc

import (
	"fmt"
	"os"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"

	"github.com/funvibe/typebridge/internal/oracle"
)

// rootName is the synthetic top type every message and enum in this oracle
// is an implicit subtype of, since protobuf has no inheritance. TypeUtils
// does not use it: TopClass looks up java.lang.Object, which this oracle
// does not declare, so unbounded type variables and wildcards have no top
// type to erase to under this backend.
const rootName = "protobridge.Object"

// decl is this package's Declaration implementation: a qualified name, a
// kind, and (for message/enum declarations) the underlying protoreflect
// descriptor, kept for field/nested-type enumeration.
type decl struct {
	qn   oracle.QualifiedName
	kind oracle.DeclKind

	msg  *desc.MessageDescriptor
	enum *desc.EnumDescriptor
}

func (d *decl) QualifiedName() oracle.QualifiedName { return d.qn }
func (d *decl) Kind() oracle.DeclKind               { return d.kind }

// Oracle is the protodesc-backed oracle.Oracle + oracle.MemberOracle.
type Oracle struct {
	byName   map[oracle.QualifiedName]*decl
	builtins map[oracle.BuiltinKind]*decl
	root     *decl
}

// Load parses a serialized descriptorpb.FileDescriptorSet (as produced by
// `protoc -o descriptor.bin --include_imports ...`) from path and builds an
// Oracle over every message and enum it declares.
func Load(path string) (*Oracle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading descriptor set %s: %w", path, err)
	}
	var fdSet descriptorpb.FileDescriptorSet
	if err := proto.Unmarshal(data, &fdSet); err != nil {
		return nil, fmt.Errorf("parsing descriptor set %s: %w", path, err)
	}
	files, err := desc.CreateFileDescriptorsFromSet(&fdSet)
	if err != nil {
		return nil, fmt.Errorf("resolving descriptor set %s: %w", path, err)
	}

	o := newOracle()
	for _, fd := range files {
		o.indexFile(fd)
	}
	return o, nil
}

// LoadProtoFiles parses .proto source files directly via protoparse,
// without requiring a pre-built FileDescriptorSet — the same entry point
// lib/grpc's grpcLoadProto builtin uses.
func LoadProtoFiles(importPaths []string, files ...string) (*Oracle, error) {
	parser := protoparse.Parser{ImportPaths: importPaths}
	fds, err := parser.ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("parsing proto files %v: %w", files, err)
	}
	o := newOracle()
	for _, fd := range fds {
		o.indexFile(fd)
	}
	return o, nil
}

func newOracle() *Oracle {
	o := &Oracle{
		byName:   make(map[oracle.QualifiedName]*decl),
		builtins: make(map[oracle.BuiltinKind]*decl),
	}
	o.root = &decl{qn: rootName, kind: oracle.DeclClass}
	o.byName[o.root.qn] = o.root

	builtinNames := map[oracle.BuiltinKind]string{
		oracle.BuiltinUnit:    "protobridge.Void",
		oracle.BuiltinBoolean: "protobridge.Bool",
		oracle.BuiltinByte:    "protobridge.Byte",
		oracle.BuiltinShort:   "protobridge.Short",
		oracle.BuiltinInt:     "protobridge.Int32",
		oracle.BuiltinLong:    "protobridge.Int64",
		oracle.BuiltinChar:    "protobridge.Char",
		oracle.BuiltinFloat:   "protobridge.Float",
		oracle.BuiltinDouble:  "protobridge.Double",
	}
	for kind, name := range builtinNames {
		d := &decl{qn: oracle.QualifiedName(name), kind: oracle.DeclClass}
		o.builtins[kind] = d
		o.byName[d.qn] = d
	}
	return o
}

func (o *Oracle) indexFile(fd *desc.FileDescriptor) {
	for _, m := range fd.GetMessageTypes() {
		o.indexMessage(m)
	}
	for _, e := range fd.GetEnumTypes() {
		o.indexEnum(e)
	}
}

func (o *Oracle) indexMessage(m *desc.MessageDescriptor) {
	d := &decl{qn: oracle.QualifiedName(m.GetFullyQualifiedName()), kind: oracle.DeclClass, msg: m}
	o.byName[d.qn] = d
	for _, nested := range m.GetNestedMessageTypes() {
		o.indexMessage(nested)
	}
	for _, nested := range m.GetNestedEnumTypes() {
		o.indexEnum(nested)
	}
}

func (o *Oracle) indexEnum(e *desc.EnumDescriptor) {
	d := &decl{qn: oracle.QualifiedName(e.GetFullyQualifiedName()), kind: oracle.DeclEnum, enum: e}
	o.byName[d.qn] = d
	for _, v := range e.GetValues() {
		vd := &decl{qn: oracle.QualifiedName(e.GetFullyQualifiedName() + "." + v.GetName()), kind: oracle.DeclEnumEntry}
		o.byName[vd.qn] = vd
	}
}

// --- oracle.Oracle ---

func (o *Oracle) LookupByQualifiedName(name oracle.QualifiedName) (oracle.Declaration, bool) {
	d, ok := o.byName[name]
	if !ok {
		return nil, false
	}
	return d, true
}

func (o *Oracle) StarProject(d oracle.Declaration) oracle.TypeRef {
	return oracle.TypeRef{Decl: d}
}

func (o *Oracle) IsRawAssignable(from, to oracle.TypeRef) bool {
	if from.Decl == nil || to.Decl == nil {
		return false
	}
	if from.Decl.QualifiedName() == to.Decl.QualifiedName() {
		return true
	}
	return to.Decl.QualifiedName() == rootName
}

// DirectSupertypes always yields the synthetic root for a message or enum
// (protobuf declarations carry no inheritance of their own), and nothing
// for the root itself or for a builtin.
func (o *Oracle) DirectSupertypes(d oracle.Declaration) []oracle.TypeRef {
	pd, ok := d.(*decl)
	if !ok || pd == o.root || pd.msg == nil && pd.enum == nil {
		return nil
	}
	return []oracle.TypeRef{{Decl: o.root}}
}

// TypeParams is always empty: protobuf declarations are never generic.
func (o *Oracle) TypeParams(oracle.Declaration) []oracle.TypeParamRef { return nil }

// Annotations surfaces the one custom option this bridge currently reads
// off a protobuf message: its deprecated flag, reported as a raw
// annotation of synthetic type protobridge.Deprecated so annotation.Adapter
// can carry it through like any other annotation.
func (o *Oracle) Annotations(d oracle.Declaration) []oracle.RawAnnotation {
	pd, ok := d.(*decl)
	if !ok || pd.msg == nil {
		return nil
	}
	if !pd.msg.GetMessageOptions().GetDeprecated() {
		return nil
	}
	depDecl := &decl{qn: "protobridge.Deprecated", kind: oracle.DeclAnnotation}
	return []oracle.RawAnnotation{{Type: depDecl}}
}

func (o *Oracle) Builtin(kind oracle.BuiltinKind) oracle.Declaration {
	d, ok := o.builtins[kind]
	if !ok {
		return nil
	}
	return d
}

func (o *Oracle) QualifiedNameOf(s string) oracle.QualifiedName { return oracle.QualifiedName(s) }

// --- oracle.MemberOracle ---

func (o *Oracle) NestedElements(d oracle.Declaration) []oracle.Declaration {
	pd, ok := d.(*decl)
	if !ok || pd.msg == nil {
		return nil
	}
	var out []oracle.Declaration
	for _, nested := range pd.msg.GetNestedMessageTypes() {
		if nd, ok := o.byName[oracle.QualifiedName(nested.GetFullyQualifiedName())]; ok {
			out = append(out, nd)
		}
	}
	for _, nested := range pd.msg.GetNestedEnumTypes() {
		if nd, ok := o.byName[oracle.QualifiedName(nested.GetFullyQualifiedName())]; ok {
			out = append(out, nd)
		}
	}
	return out
}

func (o *Oracle) EnclosedMembers(d oracle.Declaration) []oracle.MemberRef {
	pd, ok := d.(*decl)
	if !ok || pd.msg == nil {
		return nil
	}
	out := make([]oracle.MemberRef, 0, len(pd.msg.GetFields()))
	for _, f := range pd.msg.GetFields() {
		out = append(out, oracle.MemberRef{
			Name:         f.GetName(),
			Kind:         oracle.MemberField,
			Decl:         pd,
			DeclaredType: o.fieldTypeRef(f),
		})
	}
	return out
}

// fieldTypeRef maps one protobuf field to its TypeRef, boxing repeated
// fields as a declared List<E> to keep a single non-array representation
// for protobuf's "repeated" modifier (protodesc has no array type of its
// own to mirror.ArrayType cleanly, since proto repeated fields are ordered
// multisets of a scalar or message, not raw Go arrays).
func (o *Oracle) fieldTypeRef(f *desc.FieldDescriptor) oracle.TypeRef {
	elem := o.scalarOrMessageRef(f)
	if !f.IsRepeated() {
		return elem
	}
	listDecl := &decl{qn: "protobridge.List", kind: oracle.DeclInterface}
	if existing, ok := o.byName[listDecl.qn]; ok {
		listDecl = existing
	} else {
		o.byName[listDecl.qn] = listDecl
	}
	return oracle.TypeRef{Decl: listDecl, Args: []oracle.TypeRef{elem}}
}

func (o *Oracle) scalarOrMessageRef(f *desc.FieldDescriptor) oracle.TypeRef {
	switch f.GetType() {
	case descriptorpb.FieldDescriptorProto_TYPE_BOOL:
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinBoolean], Nullable: f.IsProto3Optional()}
	case descriptorpb.FieldDescriptorProto_TYPE_FLOAT:
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinFloat], Nullable: f.IsProto3Optional()}
	case descriptorpb.FieldDescriptorProto_TYPE_DOUBLE:
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinDouble], Nullable: f.IsProto3Optional()}
	case descriptorpb.FieldDescriptorProto_TYPE_INT64, descriptorpb.FieldDescriptorProto_TYPE_SINT64,
		descriptorpb.FieldDescriptorProto_TYPE_SFIXED64, descriptorpb.FieldDescriptorProto_TYPE_UINT64,
		descriptorpb.FieldDescriptorProto_TYPE_FIXED64:
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinLong], Nullable: f.IsProto3Optional()}
	case descriptorpb.FieldDescriptorProto_TYPE_MESSAGE, descriptorpb.FieldDescriptorProto_TYPE_GROUP:
		if md, ok := o.byName[oracle.QualifiedName(f.GetMessageType().GetFullyQualifiedName())]; ok {
			return oracle.TypeRef{Decl: md, Nullable: true}
		}
		return oracle.TypeRef{Decl: o.root, Nullable: true}
	case descriptorpb.FieldDescriptorProto_TYPE_ENUM:
		if ed, ok := o.byName[oracle.QualifiedName(f.GetEnumType().GetFullyQualifiedName())]; ok {
			return oracle.TypeRef{Decl: ed}
		}
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinInt]}
	case descriptorpb.FieldDescriptorProto_TYPE_STRING, descriptorpb.FieldDescriptorProto_TYPE_BYTES:
		strDecl := &decl{qn: "protobridge.String", kind: oracle.DeclClass}
		if existing, ok := o.byName[strDecl.qn]; ok {
			strDecl = existing
		} else {
			o.byName[strDecl.qn] = strDecl
		}
		return oracle.TypeRef{Decl: strDecl, Nullable: true}
	default:
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinInt], Nullable: f.IsProto3Optional()}
	}
}
