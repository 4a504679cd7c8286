package projection

import (
	"sync"

	"github.com/funvibe/typebridge/internal/element"
	"github.com/funvibe/typebridge/internal/mirror"
	"github.com/funvibe/typebridge/internal/oracle"
)

// Cache interns the process-local mirrors TypeProjection hands back:
// one PrimitiveType per kind, one NoType per kind, and one ClassTypeElement
// per qualified name (spec.md §2, §5). Spec.md §5 only requires the mutex
// when a Cache outlives a single round or is shared across goroutines; it
// is cheap enough uncontended that we always take it rather than branch on
// scope. Whether a Cache serves one round or is shared across rounds is up
// to whoever constructs it; config.CacheScope is not consulted, and
// cmd/bridge shares one Cache for the whole process.
type Cache struct {
	mu         sync.Mutex
	primitives [len(mirror.AllPrimitiveKinds)]*mirror.PrimitiveType
	noTypes    map[mirror.NoTypeKind]*mirror.NoType
	elements   map[oracle.QualifiedName]*element.ClassTypeElement
}

// NewCache builds an empty cache.
func NewCache() *Cache {
	return &Cache{
		noTypes:  make(map[mirror.NoTypeKind]*mirror.NoType),
		elements: make(map[oracle.QualifiedName]*element.ClassTypeElement),
	}
}

// Primitive returns the interned PrimitiveType for k, constructing it on
// first use.
func (c *Cache) Primitive(k mirror.PrimitiveKind) *mirror.PrimitiveType {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.primitives[k] == nil {
		c.primitives[k] = mirror.NewPrimitiveType(k)
	}
	return c.primitives[k]
}

// NoType returns the interned NoType for k, constructing it on first use.
func (c *Cache) NoType(k mirror.NoTypeKind) *mirror.NoType {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t, ok := c.noTypes[k]; ok {
		return t
	}
	t := mirror.NewNoType(k)
	c.noTypes[k] = t
	return t
}

// Element returns the cached ClassTypeElement for qn, if any.
func (c *Cache) Element(qn oracle.QualifiedName) (*element.ClassTypeElement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.elements[qn]
	return el, ok
}

// PutElement records el as the cached wrapper for qn.
func (c *Cache) PutElement(qn oracle.QualifiedName, el *element.ClassTypeElement) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elements[qn] = el
}
