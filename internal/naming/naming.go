// Package naming derives stable Identifiers for generator constructors from
// the running binary's own function metadata, so callers don't have to
// hand-type a namespace/method string pair for every generator.
package naming

import (
	"reflect"
	"runtime"
	"strings"

	"github.com/outpace/corotick"
)

// Of derives an Identifier from the constructor function that produces a
// generator (e.g. a package-level `newFooGenerator` func). The function's
// fully-qualified name, as reported by the runtime, is split into a
// namespace (its package path) and a method (its declared name).
//
// Of is meant to be called once at package init time to build a stable
// Identifier for registration; it is not safe to call on a bound method
// value obtained from an interface, since those report a synthetic name.
func Of(constructor any) corotick.Identifier {
	pc := reflect.ValueOf(constructor).Pointer()
	fn := runtime.FuncForPC(pc)
	if fn == nil {
		return corotick.NewIdentifier("unknown", "unknown")
	}
	return splitFuncName(fn.Name())
}

func splitFuncName(full string) corotick.Identifier {
	// full is of the form "import/path.funcName" or
	// "import/path.(*Receiver).methodName"; the first "." after the last
	// "/" separates namespace from method.
	lastSlash := strings.LastIndex(full, "/")
	rest := full
	prefix := ""
	if lastSlash != -1 {
		prefix = full[:lastSlash+1]
		rest = full[lastSlash+1:]
	}

	dot := strings.Index(rest, ".")
	if dot == -1 {
		return corotick.NewIdentifier(prefix+rest, "")
	}

	namespace := prefix + rest[:dot]
	method := rest[dot+1:]
	return corotick.NewIdentifier(namespace, method)
}
