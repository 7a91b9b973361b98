package world

// Well-known transient attribute keys.
const (
	AttrIsPortal          = "is_portal"
	AttrFightingBrother   = "currentlyFightingBrother"
	AttrBarrowsTunnel     = "barrows_tunnel"
	AttrCanLoot           = "canLoot"
	AttrTeleBlockAttacker = "teleblock_attacker"
)

// Attributes is a string-keyed store for flags that live for one life and are
// wiped on episode reset.
type Attributes map[string]any

func (a Attributes) Get(key string) (any, bool) {
	v, ok := a[key]
	return v, ok
}

func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

func (a Attributes) Bool(key string) bool {
	b, _ := a[key].(bool)
	return b
}

func (a Attributes) Int32(key string) (int32, bool) {
	v, ok := a[key].(int32)
	return v, ok
}

func (a Attributes) Set(key string, v any) { a[key] = v }

func (a Attributes) Remove(key string) { delete(a, key) }

func (a Attributes) Clear() { clear(a) }
