// Package gosource implements oracle.Oracle over a set of Go packages
// loaded with golang.org/x/tools/go/packages, the same loader
// internal/ext/inspector.go uses to bind Go host types for the embedder: a
// *packages.Config with NeedTypes/NeedTypesInfo/NeedSyntax/NeedDeps, walked
// via pkg.Types.Scope() and go/types type switches. It is one of the
// bridge's two concrete oracle backends (the other is oracle/protodesc),
// selected by config.BridgeConfig.Backend.
package gosource

import (
	"fmt"
	"go/types"
	"sort"

	"golang.org/x/tools/go/packages"

	"github.com/funvibe/typebridge/internal/oracle"
)

// rootName is the synthetic top type every exported Go type in this oracle
// is an implicit subtype of, standing in for Go's lack of a universal
// class (interface{} itself has no qualified name to anchor a
// Declaration on).
const rootName = "gosource.Any"

// decl is this package's Declaration implementation. For everything but
// the synthetic root and builtins, named wraps the real *types.Named (or,
// for a method, the enclosing *types.Named) so Oracle can defer directly
// to go/types for assignability and member enumeration instead of
// re-deriving it.
type decl struct {
	qn     oracle.QualifiedName
	kind   oracle.DeclKind
	named  *types.Named
	object types.Object
}

func (d *decl) QualifiedName() oracle.QualifiedName { return d.qn }
func (d *decl) Kind() oracle.DeclKind               { return d.kind }

// Oracle is the go/types-backed oracle.Oracle + oracle.MemberOracle.
type Oracle struct {
	byName   map[oracle.QualifiedName]*decl
	builtins map[oracle.BuiltinKind]*decl
	root     *decl
	pkgs     []*packages.Package
}

// Load loads the Go packages matching patterns (in the current module,
// mirroring inspector.go's loadPackages) and builds an Oracle over every
// exported type declaration their scopes contain.
func Load(patterns ...string) (*Oracle, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedTypes |
			packages.NeedTypesInfo |
			packages.NeedSyntax |
			packages.NeedImports |
			packages.NeedDeps,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages %v: %w", patterns, err)
	}

	var errs []string
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = append(errs, fmt.Sprintf("%s: %s", pkg.PkgPath, e.Msg))
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("package errors: %v", errs)
	}

	o := newOracle()
	o.pkgs = pkgs
	for _, pkg := range pkgs {
		o.indexScope(pkg)
	}
	return o, nil
}

func newOracle() *Oracle {
	o := &Oracle{
		byName:   make(map[oracle.QualifiedName]*decl),
		builtins: make(map[oracle.BuiltinKind]*decl),
	}
	o.root = &decl{qn: rootName, kind: oracle.DeclInterface}
	o.byName[o.root.qn] = o.root

	builtinNames := map[oracle.BuiltinKind]string{
		oracle.BuiltinUnit:    "gosource.Void",
		oracle.BuiltinBoolean: "bool",
		oracle.BuiltinByte:    "byte",
		oracle.BuiltinShort:   "int16",
		oracle.BuiltinInt:     "int",
		oracle.BuiltinLong:    "int64",
		oracle.BuiltinChar:    "rune",
		oracle.BuiltinFloat:   "float32",
		oracle.BuiltinDouble:  "float64",
	}
	for kind, name := range builtinNames {
		d := &decl{qn: oracle.QualifiedName(name), kind: oracle.DeclClass}
		o.builtins[kind] = d
		o.byName[d.qn] = d
	}
	return o
}

// indexScope registers every exported type declared in pkg's package
// scope, the same scope.Names()/scope.Lookup walk resolveBindAll uses to
// discover bind_all candidates.
func (o *Oracle) indexScope(pkg *packages.Package) {
	scope := pkg.Types.Scope()
	names := scope.Names()
	sort.Strings(names)

	for _, name := range names {
		obj := scope.Lookup(name)
		if !obj.Exported() {
			continue
		}
		tn, ok := obj.(*types.TypeName)
		if !ok {
			continue
		}
		named, ok := tn.Type().(*types.Named)
		if !ok {
			continue
		}
		o.register(named)
	}
}

// register declares named (and, recursively, any exported named types its
// fields/elements embed) under its package-qualified name, skipping a
// type that has already been indexed.
func (o *Oracle) register(named *types.Named) *decl {
	qn := qualifiedNameOf(named)
	if existing, ok := o.byName[qn]; ok {
		return existing
	}

	kind := oracle.DeclClass
	if _, ok := named.Underlying().(*types.Interface); ok {
		kind = oracle.DeclInterface
	}
	d := &decl{qn: qn, kind: kind, named: named, object: named.Obj()}
	o.byName[qn] = d

	if st, ok := named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if !f.Embedded() {
				continue
			}
			if embeddedNamed, ok := underlyingNamed(f.Type()); ok {
				o.register(embeddedNamed)
			}
		}
	}
	return d
}

func qualifiedNameOf(named *types.Named) oracle.QualifiedName {
	obj := named.Obj()
	pkg := obj.Pkg()
	if pkg == nil {
		return oracle.QualifiedName(obj.Name())
	}
	return oracle.QualifiedName(pkg.Path() + "." + obj.Name())
}

// underlyingNamed strips one layer of pointer indirection off t and
// reports whether what remains is a *types.Named — the shape an embedded
// struct field or interface method set lookup deals with.
func underlyingNamed(t types.Type) (*types.Named, bool) {
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	named, ok := t.(*types.Named)
	return named, ok
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

// IsRawAssignable defers to go/types.AssignableTo when both sides carry a
// real *types.Named, the same assignability go vet and the compiler use;
// the synthetic root is assignable from anything and assignable to
// nothing but itself.
func (o *Oracle) IsRawAssignable(from, to oracle.TypeRef) bool {
	fd, fok := from.Decl.(*decl)
	td, tok := to.Decl.(*decl)
	if !fok || !tok {
		return false
	}
	if fd.qn == td.qn {
		return true
	}
	if td == o.root {
		return true
	}
	if fd.named == nil || td.named == nil {
		return false
	}
	return types.AssignableTo(fd.named, td.named)
}

// DirectSupertypes reports a struct's embedded fields and an interface's
// embedded interfaces as its direct supertypes, falling back to the
// synthetic root for anything else (Go has no class hierarchy beyond
// embedding).
func (o *Oracle) DirectSupertypes(d oracle.Declaration) []oracle.TypeRef {
	gd, ok := d.(*decl)
	if !ok || gd == o.root || gd.named == nil {
		return nil
	}

	var supers []oracle.TypeRef
	switch under := gd.named.Underlying().(type) {
	case *types.Struct:
		for i := 0; i < under.NumFields(); i++ {
			f := under.Field(i)
			if !f.Embedded() {
				continue
			}
			if embeddedNamed, ok := underlyingNamed(f.Type()); ok {
				supers = append(supers, oracle.TypeRef{Decl: o.register(embeddedNamed)})
			}
		}
	case *types.Interface:
		for i := 0; i < under.NumEmbeddeds(); i++ {
			if embeddedNamed, ok := under.EmbeddedType(i).(*types.Named); ok {
				supers = append(supers, oracle.TypeRef{Decl: o.register(embeddedNamed)})
			}
		}
	}
	if len(supers) == 0 {
		return []oracle.TypeRef{{Decl: o.root}}
	}
	return supers
}

// TypeParams surfaces a generic type's own type parameters, bounding each
// to the synthetic root unless its constraint resolves to another
// registered declaration.
func (o *Oracle) TypeParams(d oracle.Declaration) []oracle.TypeParamRef {
	gd, ok := d.(*decl)
	if !ok || gd.named == nil {
		return nil
	}
	tparams := gd.named.TypeParams()
	if tparams == nil {
		return nil
	}
	out := make([]oracle.TypeParamRef, tparams.Len())
	for i := 0; i < tparams.Len(); i++ {
		tp := tparams.At(i)
		bound := oracle.TypeRef{Decl: o.root}
		if iface, ok := tp.Constraint().(*types.Interface); ok && iface.NumEmbeddeds() == 1 {
			if named, ok := underlyingNamed(iface.EmbeddedType(0)); ok {
				bound = oracle.TypeRef{Decl: o.register(named)}
			}
		}
		out[i] = oracle.TypeParamRef{Name: tp.Obj().Name(), Bound: &bound}
	}
	return out
}

// Annotations is always empty: Go carries no per-declaration annotation
// construct analogous to a Java annotation or protobuf option.
func (o *Oracle) Annotations(oracle.Declaration) []oracle.RawAnnotation { return nil }

func (o *Oracle) Builtin(kind oracle.BuiltinKind) oracle.Declaration {
	d, ok := o.builtins[kind]
	if !ok {
		return nil
	}
	return d
}

func (o *Oracle) QualifiedNameOf(s string) oracle.QualifiedName { return oracle.QualifiedName(s) }

// --- oracle.MemberOracle ---

// NestedElements reports the exported named types embedded (directly) in
// a struct or interface, reusing the same walk DirectSupertypes performs
// — Go has no separate nested-type declaration construct, so this oracle
// treats "nested" and "embedded" as the same relationship.
func (o *Oracle) NestedElements(d oracle.Declaration) []oracle.Declaration {
	supers := o.DirectSupertypes(d)
	if len(supers) == 1 && supers[0].Decl == o.root {
		return nil
	}
	out := make([]oracle.Declaration, len(supers))
	for i, s := range supers {
		out[i] = s.Decl
	}
	return out
}

// EnclosedMembers enumerates a struct's exported fields and a named
// type's exported method set, built with types.NewMethodSet the way
// resolveTypeBinding builds a method set to discover Go methods for
// binding.
func (o *Oracle) EnclosedMembers(d oracle.Declaration) []oracle.MemberRef {
	gd, ok := d.(*decl)
	if !ok || gd.named == nil {
		return nil
	}

	var out []oracle.MemberRef
	if st, ok := gd.named.Underlying().(*types.Struct); ok {
		for i := 0; i < st.NumFields(); i++ {
			f := st.Field(i)
			if !f.Exported() || f.Embedded() {
				continue
			}
			out = append(out, oracle.MemberRef{
				Name:         f.Name(),
				Kind:         oracle.MemberField,
				Decl:         gd,
				DeclaredType: o.typeRef(f.Type()),
			})
		}
	}

	mset := types.NewMethodSet(types.NewPointer(gd.named))
	for i := 0; i < mset.Len(); i++ {
		sel := mset.At(i)
		fn, ok := sel.Obj().(*types.Func)
		if !ok || !fn.Exported() {
			continue
		}
		sig, ok := fn.Type().(*types.Signature)
		if !ok {
			continue
		}
		out = append(out, oracle.MemberRef{
			Name:   fn.Name(),
			Kind:   oracle.MemberMethod,
			Decl:   gd,
			Params: o.paramRefs(sig.Params()),
			Return: o.returnRef(sig.Results()),
		})
	}
	return out
}

func (o *Oracle) paramRefs(tup *types.Tuple) []oracle.TypeRef {
	out := make([]oracle.TypeRef, tup.Len())
	for i := 0; i < tup.Len(); i++ {
		out[i] = o.typeRef(tup.At(i).Type())
	}
	return out
}

// returnRef collapses a Go signature's result tuple to a single TypeRef:
// the first result's type, or void for a signature with none. Multi-value
// returns (typically (T, error)) are narrowed to their first result,
// whatever its type, matching the adapter core's single-return member model.
func (o *Oracle) returnRef(tup *types.Tuple) oracle.TypeRef {
	if tup.Len() == 0 {
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinUnit]}
	}
	return o.typeRef(tup.At(0).Type())
}

// typeRef maps a go/types.Type to an oracle.TypeRef, following the same
// type-switch shape goTypeToRef uses for codegen, but resolving named
// types against this oracle's own declarations instead of emitting a
// GoTypeRef string.
func (o *Oracle) typeRef(t types.Type) oracle.TypeRef {
	switch tt := t.(type) {
	case *types.Basic:
		return o.basicRef(tt)
	case *types.Pointer:
		ref := o.typeRef(tt.Elem())
		ref.Nullable = true
		return ref
	case *types.Named:
		return oracle.TypeRef{Decl: o.register(tt)}
	case *types.TypeParam:
		return oracle.TypeRef{IsTypeParam: true, ParamName: tt.Obj().Name()}
	case *types.Interface, *types.Struct:
		return oracle.TypeRef{Decl: o.root}
	default:
		return oracle.TypeRef{Decl: o.root}
	}
}

func (o *Oracle) basicRef(b *types.Basic) oracle.TypeRef {
	switch b.Kind() {
	case types.Bool:
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinBoolean]}
	case types.Int8, types.Uint8:
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinByte]}
	case types.Int16, types.Uint16:
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinShort]}
	case types.Int, types.Int32, types.Uint, types.Uint32:
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinInt]}
	case types.Int64, types.Uint64:
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinLong]}
	case types.Float32:
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinFloat]}
	case types.Float64:
		return oracle.TypeRef{Decl: o.builtins[oracle.BuiltinDouble]}
	case types.String:
		return oracle.TypeRef{Decl: o.root, Nullable: true}
	default:
		return oracle.TypeRef{Decl: o.root}
	}
}
