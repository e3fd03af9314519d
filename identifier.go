package corotick

// Identifier names a registered generator method. Equality is structural:
// two identifiers are equal iff both fields match. Namespace is typically
// the declaring package or type; Method is the generator's own name.
type Identifier struct {
	Namespace string
	Method    string
}

// String renders the identifier as "namespace.method", or just "method" if
// Namespace is empty.
func (id Identifier) String() string {
	if id.Namespace == "" {
		return id.Method
	}
	return id.Namespace + "." + id.Method
}

// NewIdentifier builds an Identifier from an explicit namespace and method
// name.
func NewIdentifier(namespace, method string) Identifier {
	return Identifier{Namespace: namespace, Method: method}
}
