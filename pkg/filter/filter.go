// Package filter redacts or rewrites sensitive fields in headers,
// querystrings and URIs before they are persisted or compared. All
// functions are pure; inputs are never mutated.
package filter

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// bareHostRe recognizes a URI of the form scheme://host[.tld][:port] with no
// path, which is normalized by appending a trailing slash.
var bareHostRe = regexp.MustCompile(`^\w+://[^/]+[.]\w{2,}(:[0-9]+)?$`)

type kind int

const (
	kindDelete kind = iota
	kindLiteral
	kindComputed
)

// Replacement is the tagged policy applied to a matched field: delete it,
// substitute a literal, or compute the substitute from the original value.
type Replacement struct {
	kind    kind
	literal string
	compute func(string) string
}

// Delete removes the matched field entirely.
func Delete() Replacement {
	return Replacement{kind: kindDelete}
}

// Literal substitutes the matched field's value with s.
func Literal(s string) Replacement {
	return Replacement{kind: kindLiteral, literal: s}
}

// Computed substitutes the matched field's value with fn(original),
// evaluated at filter-application time.
func Computed(fn func(string) string) Replacement {
	return Replacement{kind: kindComputed, compute: fn}
}

// Spec maps a header key, querystring key or URI substring to its
// replacement policy.
type Spec map[string]Replacement

// Headers applies the spec to a header map by exact key membership and
// returns a filtered copy.
func Headers(headers map[string]string, spec Spec) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		out[k] = v
	}
	for key, rep := range spec {
		v, ok := out[key]
		if !ok {
			continue
		}
		switch rep.kind {
		case kindDelete:
			delete(out, key)
		case kindLiteral:
			out[key] = rep.literal
		case kindComputed:
			out[key] = rep.compute(v)
		}
	}
	return out
}

// Querystring applies the spec to list-valued query parameters by exact key
// membership and returns a filtered copy. A literal replacement collapses
// the value list to a single element; a computed replacement is applied per
// element.
func Querystring(query url.Values, spec Spec) url.Values {
	out := make(url.Values, len(query))
	for k, vs := range query {
		out[k] = append([]string(nil), vs...)
	}
	for key, rep := range spec {
		vs, ok := out[key]
		if !ok {
			continue
		}
		switch rep.kind {
		case kindDelete:
			delete(out, key)
		case kindLiteral:
			out[key] = []string{rep.literal}
		case kindComputed:
			replaced := make([]string, len(vs))
			for i, v := range vs {
				replaced[i] = rep.compute(v)
			}
			out[key] = replaced
		}
	}
	return out
}

// URI strips the querystring, applies the spec as substring
// replace/delete anywhere in the remaining string, and normalizes a bare
// scheme://host URI with a trailing slash.
func URI(uri string, spec Spec) string {
	uri = RemoveQuerystring(uri)

	subs := make([]string, 0, len(spec))
	for sub := range spec {
		subs = append(subs, sub)
	}
	sort.Strings(subs)

	for _, sub := range subs {
		rep := spec[sub]
		if !strings.Contains(uri, sub) {
			continue
		}
		switch rep.kind {
		case kindDelete:
			uri = strings.ReplaceAll(uri, sub, "")
		case kindLiteral:
			uri = strings.ReplaceAll(uri, sub, rep.literal)
		case kindComputed:
			uri = strings.ReplaceAll(uri, sub, rep.compute(sub))
		}
	}

	return NormalizeTrailingSlash(uri)
}

// RemoveQuerystring drops the query component of a URI, keeping the
// fragment.
func RemoveQuerystring(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}
	u.RawQuery = ""
	u.ForceQuery = false
	return u.String()
}

// NormalizeTrailingSlash appends "/" to a bare scheme://host URI so that
// https://example.com and https://example.com/ compare as identical.
func NormalizeTrailingSlash(uri string) string {
	if bareHostRe.MatchString(uri) {
		return uri + "/"
	}
	return uri
}

// EncodeQuery renders query parameters in canonical form: keys sorted,
// list values preserved in order. Used for querystring comparison on both
// the stored and the live side.
func EncodeQuery(query url.Values) string {
	return query.Encode()
}
