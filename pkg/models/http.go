// Package models holds the wire types shared by the recorder, the matcher
// and the codecs.
package models

// Method is an HTTP request method supported by the recorder.
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
)

// Methods returns every supported method, in the order the universal record
// handler registers them.
func Methods() []Method {
	return []Method{
		MethodGet,
		MethodPost,
		MethodPut,
		MethodPatch,
		MethodDelete,
		MethodHead,
		MethodOptions,
	}
}

// Transaction is one recorded request/response pair. Transactions are
// immutable once appended to a session; their order within a recording is
// insertion order and is significant for replay registration.
type Transaction struct {
	Request  RequestRecord  `json:"request" yaml:"request"`
	Response ResponseRecord `json:"response" yaml:"response"`
}

// RequestRecord captures the outbound request as persisted. URI carries
// scheme, host and path only; the querystring is stripped and stored
// separately so that filtered and unfiltered forms can be compared.
type RequestRecord struct {
	URI         string              `json:"uri" yaml:"uri"`
	Method      Method              `json:"method" yaml:"method"`
	Headers     map[string]string   `json:"headers" yaml:"headers"`
	Body        any                 `json:"body" yaml:"body"`
	Querystring map[string][]string `json:"querystring" yaml:"querystring"`
}

// ResponseRecord captures the upstream response as persisted. Body follows
// the decoding rule in DecodeBody.
type ResponseRecord struct {
	Status  int               `json:"status" yaml:"status"`
	Body    any               `json:"body" yaml:"body"`
	Headers map[string]string `json:"headers" yaml:"headers"`
}
