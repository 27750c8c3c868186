// Package classify maps raw diagnostic text to remedy error types.
//
// The classifier is an ordered table of regular-expression rules; the first
// matching rule decides the type and anything unmatched falls back to
// [remedy.ErrorTypeOther]. [Default] returns the standard table covering
// Python and Go diagnostics:
//
//	det := remedy.NewDetector(remedy.DefaultConfig()).
//	    WithClassifier(classify.Default())
//
// Rules are data. Hosts targeting other toolchains can build their own table
// with [New] or load one from YAML with [Load]:
//
//	rules:
//	  - type: syntax
//	    patterns:
//	      - 'SyntaxError'
//	      - 'invalid syntax'
//	  - type: database
//	    patterns:
//	      - 'deadlock detected'
//
// Rule order matters: put the most specific diagnostics first, because a
// message is classified by the first rule that matches it.
package classify
