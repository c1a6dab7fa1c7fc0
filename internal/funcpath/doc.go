// Package funcpath builds and parses the canonical identifiers used to
// locate a mission module's compiled function bodies.
//
// A path is a plain string of the form
//
//	<namespace>/<component>/functions/<name>.fn
//
// for named functions, or
//
//	<namespace>/<component>/<entry>.fn
//
// for a component's phase entry points. The same string is used both as the
// compile-cache key and as the lookup path handed to the function source
// provider, so construction must be deterministic: identical inputs always
// produce byte-identical output.
package funcpath
