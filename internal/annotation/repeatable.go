package annotation

import (
	"github.com/funvibe/typebridge/internal/bridgeerr"
	"github.com/funvibe/typebridge/internal/element"
	"github.com/funvibe/typebridge/internal/oracle"
)

// containerValueAttr is the conventional attribute name a repeatable
// annotation's synthetic container carries its grouped instances under.
const containerValueAttr = "value"

// legacyRepeatableMeta is the meta-annotation an annotation type carries
// when it opts into the legacy model's repeatable machinery directly; its
// first argument names the container type (spec.md §4.5).
const legacyRepeatableMeta = "java.lang.annotation.Repeatable"

// Group implements the legacy model's repeatable-annotation grouping
// (spec.md §4.4.3): when decl carries two or more raw instances of the
// same annotation type, they are folded into one synthetic container
// Mirror whose "value" attribute is the array of individual instances,
// matching what getAnnotationsByType returns for a @Repeatable type. A
// single instance of an otherwise-repeatable type is returned ungrouped,
// exactly as written, and so are repeated instances of a type that declares
// no container. See containerFor for how the container element itself is
// resolved.
func (a *Adapter) Group(decl oracle.Declaration) []*Mirror {
	raws := a.Projector.Oracle.Annotations(decl)

	byType := make(map[oracle.QualifiedName][]oracle.RawAnnotation)
	var order []oracle.QualifiedName
	for _, r := range raws {
		if r.Type == nil {
			bridgeerr.Panic(bridgeerr.NewContractViolationError("Group", "raw annotation with nil type"))
		}
		qn := r.Type.QualifiedName()
		if _, seen := byType[qn]; !seen {
			order = append(order, qn)
		}
		byType[qn] = append(byType[qn], r)
	}

	out := make([]*Mirror, 0, len(order))
	for _, qn := range order {
		group := byType[qn]
		if len(group) == 1 {
			out = append(out, a.AdaptMirror(group[0]))
			continue
		}
		containerEl, ok := a.containerFor(a.Projector.Element(group[0].Type))
		if !ok {
			for _, r := range group {
				out = append(out, a.AdaptMirror(r))
			}
			continue
		}
		out = append(out, a.container(containerEl, group))
	}
	return out
}

func (a *Adapter) container(containerEl *element.ClassTypeElement, group []oracle.RawAnnotation) *Mirror {
	values := make([]Value, len(group))
	for i, raw := range group {
		values[i] = Value{kind: ValueAnnotation, annoVal: a.AdaptMirror(raw)}
	}

	return &Mirror{
		Type: containerEl,
		Values: []NamedValue{
			{Name: containerValueAttr, Value: Value{kind: ValueArray, listVal: values}},
		},
	}
}

// containerFor resolves the synthetic container for a repeatable annotation
// type, per spec.md §4.5's two routes: the legacy repeatable meta-annotation
// (whose first argument names the container), tried first since it is
// authoritative when present, falling back to the source-language route —
// a nested class literally named "Container" — only when no legacy meta is
// declared. Neither route being present means repeatedEl does not actually
// declare a container, so grouping cannot happen.
func (a *Adapter) containerFor(repeatedEl *element.ClassTypeElement) (*element.ClassTypeElement, bool) {
	if containerEl, ok := a.legacyContainer(repeatedEl); ok {
		return containerEl, true
	}
	return repeatedEl.FindNested("Container")
}

// legacyContainer looks for the legacy @Repeatable-style meta-annotation on
// repeatedEl's own declaration and resolves its first class-valued argument
// to the container element it names.
func (a *Adapter) legacyContainer(repeatedEl *element.ClassTypeElement) (*element.ClassTypeElement, bool) {
	for _, meta := range a.Projector.Oracle.Annotations(repeatedEl.RawSymbol()) {
		if meta.Type == nil || meta.Type.QualifiedName() != legacyRepeatableMeta {
			continue
		}
		for _, attr := range meta.Attrs {
			if attr.Value.Kind != oracle.ArgClass || attr.Value.Class.Decl == nil {
				continue
			}
			return a.Projector.Element(attr.Value.Class.Decl), true
		}
	}
	return nil, false
}
