package vudials

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const apiPrefix = "/api/v0/"

const (
	dialKeyParam  = "key"
	adminKeyParam = "admin_key"
)

// BaseURL combines the server address and port into the API base URL.
func BaseURL(address string, port int) string {
	return fmt.Sprintf("http://%s:%d", address, port)
}

// Escape percent-encodes s leaving only the RFC 3986 unreserved set
// (ALPHA / DIGIT / "-" / "." / "_" / "~") intact.
func Escape(s string) string {
	// QueryEscape already escapes everything else; it only differs in
	// writing space as '+', and a literal '+' is always emitted as %2B.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuildDialURL returns {baseURL}/api/v0/{endpointPath}?key={apiKey}{extraQuery}.
// endpointPath must already have any caller-supplied segments escaped and
// extraQuery is appended verbatim.
func BuildDialURL(baseURL, apiKey, endpointPath, extraQuery string) string {
	return buildURL(baseURL, dialKeyParam, apiKey, endpointPath, extraQuery)
}

// BuildAdminURL is BuildDialURL for the admin_key scheme.
func BuildAdminURL(baseURL, adminKey, endpointPath, extraQuery string) string {
	return buildURL(baseURL, adminKeyParam, adminKey, endpointPath, extraQuery)
}

func buildURL(baseURL, param, key, endpointPath, extraQuery string) string {
	var b strings.Builder
	b.Grow(len(baseURL) + len(apiPrefix) + len(endpointPath) + len(param) + len(key) + len(extraQuery) + 2)
	b.WriteString(baseURL)
	b.WriteString(apiPrefix)
	b.WriteString(endpointPath)
	b.WriteByte('?')
	b.WriteString(param)
	b.WriteByte('=')
	b.WriteString(Escape(key))
	b.WriteString(extraQuery)
	return b.String()
}

// dialPath builds dial/{uid}/{action} with the uid escaped.
func dialPath(uid, action string) string {
	return "dial/" + Escape(uid) + "/" + action
}

// queryParam is a single extra query parameter; values are escaped on render.
type queryParam struct {
	name  string
	value string
}

func intParam(name string, v int) queryParam { return queryParam{name: name, value: strconv.Itoa(v)} }

func strParam(name, v string) queryParam { return queryParam{name: name, value: v} }

// extraQuery renders params as "&name=value..." ready for the URL builders.
func extraQuery(params ...queryParam) string {
	if len(params) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range params {
		b.WriteByte('&')
		b.WriteString(p.name)
		b.WriteByte('=')
		b.WriteString(Escape(p.value))
	}
	return b.String()
}
