// Copyright © 2024 The ELPS authors

package analysis

import "github.com/jshint/jshint-sub001/options"

// Global name tables.  A true value marks a writable global.

var ecmaGlobals = map[string]bool{
	"Array":              false,
	"Boolean":            false,
	"Date":               false,
	"decodeURI":          false,
	"decodeURIComponent": false,
	"encodeURI":          false,
	"encodeURIComponent": false,
	"Error":              false,
	"eval":               false,
	"EvalError":          false,
	"Function":           false,
	"hasOwnProperty":     false,
	"Infinity":           false,
	"isFinite":           false,
	"isNaN":              false,
	"Math":               false,
	"NaN":                false,
	"Number":             false,
	"Object":             false,
	"parseFloat":         false,
	"parseInt":           false,
	"RangeError":         false,
	"ReferenceError":     false,
	"RegExp":             false,
	"String":             false,
	"SyntaxError":        false,
	"TypeError":          false,
	"undefined":          false,
	"URIError":           false,
}

// versionGlobals lists names introduced by each edition.
var versionGlobals = []struct {
	version int
	names   []string
}{
	{5, []string{"JSON"}},
	{6, []string{
		"ArrayBuffer", "DataView", "Float32Array", "Float64Array", "Int8Array",
		"Int16Array", "Int32Array", "Map", "Promise", "Proxy", "Reflect", "Set",
		"Symbol", "Uint8Array", "Uint8ClampedArray", "Uint16Array",
		"Uint32Array", "WeakMap", "WeakSet",
	}},
	{8, []string{"Atomics", "SharedArrayBuffer"}},
	{11, []string{"BigInt", "BigInt64Array", "BigUint64Array", "globalThis"}},
	{12, []string{"AggregateError", "FinalizationRegistry", "WeakRef"}},
}

var browserGlobals = map[string]bool{
	"atob":                  false,
	"addEventListener":      false,
	"Blob":                  false,
	"btoa":                  false,
	"cancelAnimationFrame":  false,
	"clearInterval":         false,
	"clearTimeout":          false,
	"CustomEvent":           false,
	"document":              false,
	"Element":               false,
	"Event":                 false,
	"fetch":                 false,
	"File":                  false,
	"FileReader":            false,
	"FormData":              false,
	"getComputedStyle":      false,
	"history":               false,
	"HTMLElement":           false,
	"Image":                 false,
	"localStorage":          false,
	"location":              false,
	"matchMedia":            false,
	"MutationObserver":      false,
	"name":                  false,
	"navigator":             false,
	"Node":                  false,
	"onload":                true,
	"parent":                false,
	"performance":           false,
	"removeEventListener":   false,
	"requestAnimationFrame": false,
	"screen":                false,
	"self":                  false,
	"sessionStorage":        false,
	"setInterval":           false,
	"setTimeout":            false,
	"top":                   false,
	"URL":                   false,
	"URLSearchParams":       false,
	"WebSocket":             false,
	"window":                false,
	"Worker":                false,
	"XMLHttpRequest":        false,
}

var nodeGlobals = map[string]bool{
	"__dirname":      false,
	"__filename":     false,
	"Buffer":         true,
	"clearImmediate": true,
	"clearInterval":  true,
	"clearTimeout":   true,
	"console":        false,
	"exports":        true,
	"global":         false,
	"module":         false,
	"process":        false,
	"require":        false,
	"setImmediate":   true,
	"setInterval":    true,
	"setTimeout":     true,
}

var develGlobals = map[string]bool{
	"alert":   false,
	"confirm": false,
	"console": false,
	"Debug":   false,
	"opera":   false,
	"print":   false,
	"prompt":  false,
}

// Predefined returns the global names known under o: the standard
// built-ins of its ECMAScript edition, the enabled environments and the
// configured globals.
func Predefined(o *options.Options) map[string]bool {
	names := make(map[string]bool, len(ecmaGlobals)+len(o.Globals))
	for name, w := range ecmaGlobals {
		names[name] = w
	}
	for _, v := range versionGlobals {
		if o.ESVersion < v.version && !(v.version == 6 && o.Moz) {
			continue
		}
		for _, name := range v.names {
			names[name] = false
		}
	}
	if o.Browser {
		merge(names, browserGlobals)
	}
	if o.Node {
		merge(names, nodeGlobals)
	}
	if o.Devel {
		merge(names, develGlobals)
	}
	merge(names, o.Globals)
	return names
}

func merge(dst, src map[string]bool) {
	for name, w := range src {
		dst[name] = w
	}
}
