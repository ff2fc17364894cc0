package ratelimit

import (
	"strings"
)

// route is a parsed EndpointConfig pattern
type route struct {
	method   string
	segments []string
}

func parsePattern(pattern string) (route, bool) {
	method, path, ok := strings.Cut(strings.TrimSpace(pattern), " ")
	if !ok || method == "" || !strings.HasPrefix(path, "/") {
		return route{}, false
	}
	return route{method: method, segments: splitPath(path)}, true
}

func splitPath(path string) []string {
	return strings.Split(strings.Trim(path, "/"), "/")
}

func isWildcard(seg string) bool {
	return len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}

func (rt route) matches(method string, segments []string) bool {
	if rt.method != method || len(rt.segments) != len(segments) {
		return false
	}
	for i, seg := range rt.segments {
		if isWildcard(seg) {
			if segments[i] == "" {
				return false
			}
			continue
		}
		if seg != segments[i] {
			return false
		}
	}
	return true
}

// MatchEndpoint returns the first config whose pattern matches the request,
// or nil. Malformed patterns never match.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	segments := splitPath(path)
	for i := range configs {
		rt, ok := parsePattern(configs[i].Pattern)
		if ok && rt.matches(method, segments) {
			return &configs[i]
		}
	}
	return nil
}

// bucketKey groups requests: matched routes share their pattern's bucket,
// unmatched requests are counted per method and path.
func bucketKey(clientID, path, method string, ec *EndpointConfig) string {
	if ec != nil && ec.Pattern != "" {
		return clientID + "|" + ec.Pattern
	}
	return clientID + "|" + method + " " + path
}
