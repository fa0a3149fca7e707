package assert

import "github.com/oomph-ac/mover/oerror"

// IsTrue panics with a MoverError if ok is false.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

// NotNil panics with a MoverError if v is nil.
func NotNil(v any, message string, args ...interface{}) {
	IsTrue(v != nil, message, args...)
}
