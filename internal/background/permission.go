package background

// Permission reports whether notifications may be posted
type Permission interface {
	Ready() bool
}

// StaticPermission is a Permission fixed at startup, e.g. from configuration
type StaticPermission bool

func (p StaticPermission) Ready() bool { return bool(p) }
