package extensibility

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/outpace/corotick"
)

// Derive builds a GeneratorDescriptor from struct tags instead of
// hand-written accessor closures, for generator types whose fields are
// plain, reflectable values. newFn must return a pointer to a struct;
// recognized tags on its fields are:
//
//	`coroutine:"state"`      int32 program-counter field (required)
//	`coroutine:"current"`    mirrors the last value returned by Current()
//	`coroutine:"receiver"`   the generator's capturing instance, if any
//	`coroutine:"arg:<name>"` a named argument, seeded from FrameSnapshot.Args
//	`coroutine:"local:<name>"` a named hoisted local
//
// Derive panics if newFn's result is not a pointer to a struct, or if no
// field carries the state tag; both are programming errors caught at
// registration time, not at runtime on live data.
func Derive(id corotick.Identifier, initialState int32, newFn func() corotick.Generator) *corotick.GeneratorDescriptor {
	sample := newFn()
	rv := reflect.ValueOf(sample)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("extensibility.Derive: %T must be a pointer to a struct", sample))
	}
	rt := rv.Elem().Type()

	var stateField, currentField, receiverField string
	var args, locals []corotick.NamedAccessor

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		tag, ok := f.Tag.Lookup("coroutine")
		if !ok {
			continue
		}

		switch {
		case tag == "state":
			stateField = f.Name
		case tag == "current":
			currentField = f.Name
		case tag == "receiver":
			receiverField = f.Name
		case strings.HasPrefix(tag, "arg:"):
			args = append(args, fieldAccessor(strings.TrimPrefix(tag, "arg:"), f.Name))
		case strings.HasPrefix(tag, "local:"):
			locals = append(locals, fieldAccessor(strings.TrimPrefix(tag, "local:"), f.Name))
		}
	}
	if stateField == "" {
		panic(fmt.Sprintf("extensibility.Derive: %T has no field tagged `coroutine:\"state\"`", sample))
	}

	desc := &corotick.GeneratorDescriptor{
		ID:           id,
		InitialState: initialState,
		New:          newFn,
		GetState: func(g corotick.Generator) int32 {
			return int32(structField(g, stateField).Int())
		},
		SetState: func(g corotick.Generator, s int32) {
			structField(g, stateField).SetInt(int64(s))
		},
		Args:   args,
		Locals: locals,
	}

	if currentField != "" {
		desc.GetCurrent = func(g corotick.Generator) any { return structField(g, currentField).Interface() }
		desc.SetCurrent = func(g corotick.Generator, v any) error { return setReflected(structField(g, currentField), v) }
	}
	if receiverField != "" {
		desc.GetReceiver = func(g corotick.Generator) any { return structField(g, receiverField).Interface() }
		desc.SetReceiver = func(g corotick.Generator, v any) error { return setReflected(structField(g, receiverField), v) }
	}

	return desc
}

func fieldAccessor(name, fieldName string) corotick.NamedAccessor {
	return corotick.NamedAccessor{
		Name: name,
		Get:  func(g corotick.Generator) any { return structField(g, fieldName).Interface() },
		Set:  func(g corotick.Generator, v any) error { return setReflected(structField(g, fieldName), v) },
	}
}

func structField(g corotick.Generator, name string) reflect.Value {
	return reflect.ValueOf(g).Elem().FieldByName(name)
}

// setReflected assigns v into fv, converting between numeric kinds when
// the field's static type doesn't match v's concrete type exactly — a
// value arriving via Rehydrate may have passed through encoding/json
// (which decodes every non-bool, non-string scalar into float64) or
// yaml.v3 (which commonly decodes a plain integer into int), neither of
// which matches a field declared e.g. time.Duration or int32. It reports
// ErrSchemaMismatch instead of letting reflect.Value.Set panic when no
// such conversion applies.
func setReflected(fv reflect.Value, v any) error {
	if v == nil {
		fv.Set(reflect.Zero(fv.Type()))
		return nil
	}

	rv := reflect.ValueOf(v)
	switch {
	case rv.Type().AssignableTo(fv.Type()):
		fv.Set(rv)
		return nil
	case isNumericKind(rv.Kind()) && isNumericKind(fv.Kind()) && rv.Type().ConvertibleTo(fv.Type()):
		fv.Set(rv.Convert(fv.Type()))
		return nil
	default:
		return fmt.Errorf("%w: cannot assign %T to field of type %s", corotick.ErrSchemaMismatch, v, fv.Type())
	}
}

func isNumericKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}
