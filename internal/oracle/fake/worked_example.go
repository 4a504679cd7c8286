package fake

import "github.com/funvibe/typebridge/internal/oracle"

// NewWorkedExample builds a fake Oracle pre-populated with a small but
// representative hierarchy: java.lang.Object plus Cloneable/Serializable,
// the eight primitive wrapper classes, a generic List<E>/ArrayList<E> pair
// (with ArrayList implementing List<E>), and a repeatable @Mapping
// annotation with its nested @Mapping.Container container — enough to exercise
// every operation typeutils and annotation define.
func NewWorkedExample() *Oracle {
	o := New()

	object := o.Declare("java.lang.Object", oracle.DeclClass)
	cloneable := o.Declare("java.lang.Cloneable", oracle.DeclInterface)
	serializable := o.Declare("java.io.Serializable", oracle.DeclInterface)
	o.SetSupertypes(cloneable)
	o.SetSupertypes(serializable)

	wrapperNames := []string{
		"java.lang.Boolean", "java.lang.Byte", "java.lang.Short", "java.lang.Integer",
		"java.lang.Long", "java.lang.Character", "java.lang.Float", "java.lang.Double",
	}
	for _, name := range wrapperNames {
		w := o.Declare(name, oracle.DeclClass)
		o.SetSupertypes(w, Ref(object))
	}

	// interface List<E>
	list := o.Declare("java.util.List", oracle.DeclInterface)
	o.SetTypeParams(list, oracle.TypeParamRef{Name: "E"})
	o.SetSupertypes(list, Ref(object))

	// class ArrayList<E> implements List<E>
	arrayList := o.Declare("java.util.ArrayList", oracle.DeclClass)
	o.SetTypeParams(arrayList, oracle.TypeParamRef{Name: "E"})
	o.SetSupertypes(arrayList,
		Ref(object),
		RefWithArgs(list, false, TypeParamRefTo("E", false)),
	)
	o.SetMembers(arrayList,
		oracle.MemberRef{
			Name:   "get",
			Kind:   oracle.MemberMethod,
			Decl:   arrayList,
			Params: []oracle.TypeRef{{Decl: o.Builtin(oracle.BuiltinInt)}},
			Return: TypeParamRefTo("E", true),
		},
		oracle.MemberRef{
			Name:   "add",
			Kind:   oracle.MemberMethod,
			Decl:   arrayList,
			Params: []oracle.TypeRef{TypeParamRefTo("E", true)},
		},
		oracle.MemberRef{
			Name:   "size",
			Kind:   oracle.MemberMethod,
			Decl:   arrayList,
			Return: oracle.TypeRef{Decl: o.Builtin(oracle.BuiltinInt)},
		},
	)

	// @interface Mapping, repeatable via its nested @interface Container
	mapping := o.Declare("bridge.example.Mapping", oracle.DeclAnnotation)
	container := o.Declare("bridge.example.Mapping.Container", oracle.DeclAnnotation)
	o.SetSupertypes(mapping, Ref(object))
	o.SetSupertypes(container, Ref(object))
	o.SetNested(mapping, container)
	o.SetMembers(mapping,
		oracle.MemberRef{Name: "from", Kind: oracle.MemberMethod, Decl: mapping, Return: oracle.TypeRef{Decl: o.stringDecl()}},
		oracle.MemberRef{Name: "to", Kind: oracle.MemberMethod, Decl: mapping, Return: oracle.TypeRef{Decl: o.stringDecl()}},
	)

	return o
}

func (o *Oracle) stringDecl() oracle.Declaration {
	if info, ok := o.classes["java.lang.String"]; ok {
		return info.decl
	}
	d := o.Declare("java.lang.String", oracle.DeclClass)
	object, _ := o.LookupByQualifiedName("java.lang.Object")
	o.SetSupertypes(d, Ref(object))
	return d
}
