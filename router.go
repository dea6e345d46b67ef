package httpserv

import (
	"fmt"
	"regexp"
)

// Decision is the router's verdict for one request.
type Decision int

const (
	Found Decision = iota
	NotFound
	MethodNotAllowed
)

type endpoint struct {
	pattern  string
	literal  bool
	re       *regexp.Regexp
	provider Provider
}

// registry maps endpoint patterns to providers. Patterns are literal paths
// or regular expressions matched against the full target. Entries keep
// registration order and the first match wins, so resolution is
// deterministic when several patterns cover one target. Re-registering a
// pattern overwrites the earlier entry in place.
//
// The registry is mutated only before the accept loop starts and is
// read-only during serving, so no locking is needed.
type registry struct {
	endpoints []endpoint
}

func (r *registry) register(pattern string, p Provider) error {
	ep := endpoint{pattern: pattern, provider: p}
	if regexp.QuoteMeta(pattern) == pattern {
		ep.literal = true
	} else {
		re, err := regexp.Compile(`\A(?:` + pattern + `)\z`)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrBadPattern, pattern, err)
		}
		ep.re = re
	}
	for i := range r.endpoints {
		if r.endpoints[i].pattern == pattern {
			r.endpoints[i] = ep
			return nil
		}
	}
	r.endpoints = append(r.endpoints, ep)
	return nil
}

// lookup returns the provider for the first pattern matching target.
func (r *registry) lookup(target string) (Provider, bool) {
	for _, ep := range r.endpoints {
		if ep.literal {
			if ep.pattern == target {
				return ep.provider, true
			}
		} else if ep.re.MatchString(target) {
			return ep.provider, true
		}
	}
	return nil, false
}

// route decides the outcome for one request. The method check is
// independent of the target and takes precedence over NotFound.
func (r *registry) route(method, target string, allowed map[string]bool) Decision {
	if !allowed[method] {
		return MethodNotAllowed
	}
	if _, ok := r.lookup(target); ok {
		return Found
	}
	return NotFound
}
