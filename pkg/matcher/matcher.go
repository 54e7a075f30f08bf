// Package matcher decides whether a live outbound request is served from a
// recorded transaction. Matchers compare filtered base URIs and, optionally,
// filtered canonical querystrings, so a live request carrying the original
// secret value still matches a recording that was redacted on write.
package matcher

import (
	"net/url"

	"go.netreplay.io/netreplay/pkg/filter"
	"go.netreplay.io/netreplay/pkg/models"
)

// Matcher matches live requests against one registered URI. The stored URI
// is normalized once at construction; the live side is normalized per call
// with the same specs.
type Matcher struct {
	method           models.Method
	uri              string
	matchQuerystring bool
	uriSpec          filter.Spec
	querySpec        filter.Spec

	baseURI string
	query   string
}

// New builds a matcher for a stored URI. When matchQuerystring is set, the
// querystring embedded in uri takes part in matching; otherwise base-URI
// equality alone decides.
func New(method models.Method, uri string, matchQuerystring bool, uriSpec, querySpec filter.Spec) *Matcher {
	m := &Matcher{
		method:           method,
		uri:              uri,
		matchQuerystring: matchQuerystring,
		uriSpec:          uriSpec,
		querySpec:        querySpec,
	}
	m.baseURI = filter.URI(uri, uriSpec)
	m.query = filter.EncodeQuery(filter.Querystring(queryOf(uri), querySpec))
	return m
}

// Key identifies the catalog slot for this matcher. Two registrations with
// the same method and normalized URI collide and merge.
func (m *Matcher) Key() string {
	key := string(m.method) + " " + m.baseURI
	if m.matchQuerystring {
		key += "?" + m.query
	}
	return key
}

// URI returns the stored URI as registered.
func (m *Matcher) URI() string {
	return m.uri
}

// Method returns the method this matcher is registered for.
func (m *Matcher) Method() models.Method {
	return m.method
}

// Matches applies the matching algorithm to a live request: filtered,
// slash-normalized base URIs must be equal, and when querystring matching
// is on, the filtered canonical querystrings must be equal as well.
func (m *Matcher) Matches(method models.Method, rawURL string) bool {
	if method != m.method {
		return false
	}
	if filter.URI(rawURL, m.uriSpec) != m.baseURI {
		return false
	}
	if !m.matchQuerystring {
		return true
	}
	live := filter.EncodeQuery(filter.Querystring(queryOf(rawURL), m.querySpec))
	return live == m.query
}

func queryOf(rawURL string) url.Values {
	u, err := url.Parse(rawURL)
	if err != nil {
		return url.Values{}
	}
	return u.Query()
}

// AddQuerystring reattaches a stored querystring map to a base URI, merging
// the map over any query already embedded in the literal URI.
func AddQuerystring(uri string, querystring map[string][]string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	merged := u.Query()
	for k, vs := range querystring {
		merged[k] = append([]string(nil), vs...)
	}
	u.RawQuery = merged.Encode()
	return u.String()
}
