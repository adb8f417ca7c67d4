package eval

import "github.com/dlclark/regexp2"

// compileRegex compiles an @matches pattern using regexp2's
// ECMAScript-compatible dialect, which supports lookaround and
// backreferences that Go's RE2-based regexp package cannot express;
// closest to what a .NET-facing caller expects from an unqualified
// "regex". Compiled patterns are not cached across
// predicates the way globs are: @matches patterns are typically
// embedded literals that appear once per query, so the cache would
// rarely pay for itself and would otherwise need its own eviction
// policy for long-lived caller processes.
func compileRegex(pattern string) (*regexp2.Regexp, error) {
	return regexp2.Compile(pattern, regexp2.ECMAScript)
}
