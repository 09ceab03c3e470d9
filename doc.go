// Package terminus routes facade calls through an ordered chain of
// cross-cutting interceptors before they reach the real handler methods.
//
// A generated entry point builds an Invocation describing the exposed
// method, its arguments and candidate handlers, then executes it through
// a Pipeline.  Interceptors wrap the terminal dispatch in registration
// order and may short-circuit, observe, or filter the handlers that
// ultimately run.  Parameter values consumed by handlers are produced by
// an ordered chain of binding strategies.
package terminus
