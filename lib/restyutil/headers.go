package restyutil

import "net/http"

// Headers is an immutable set of request headers. Clients keep a base template and derive
// the headers of every request from it with With, the template itself never changes.
type Headers struct {
	values map[string]string
}

func NewHeaders(values map[string]string) Headers {
	h := Headers{values: make(map[string]string, len(values))}
	for k, v := range values {
		h.values[http.CanonicalHeaderKey(k)] = v
	}
	return h
}

// With returns a copy of the headers with the given key set to value.
func (h Headers) With(key, value string) Headers {
	out := Headers{values: make(map[string]string, len(h.values)+1)}
	for k, v := range h.values {
		out.values[k] = v
	}
	out.values[http.CanonicalHeaderKey(key)] = value
	return out
}

// Merge returns a copy of the headers with every header of other set on it.
func (h Headers) Merge(other Headers) Headers {
	out := h
	for k, v := range other.values {
		out = out.With(k, v)
	}
	return out
}

func (h Headers) Get(key string) string {
	return h.values[http.CanonicalHeaderKey(key)]
}

// Map returns a copy of the headers, ready for resty's SetHeaders.
func (h Headers) Map() map[string]string {
	out := make(map[string]string, len(h.values))
	for k, v := range h.values {
		out[k] = v
	}
	return out
}
