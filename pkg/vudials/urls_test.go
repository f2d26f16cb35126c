package vudials

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDialURL(t *testing.T) {
	cases := []struct {
		name, base, key, path, extra, want string
	}{
		{
			name: "basic",
			base: "http://localhost:5340", key: "mykey", path: "dial/list",
			want: "http://localhost:5340/api/v0/dial/list?key=mykey",
		},
		{
			name: "extra query appended verbatim",
			base: "http://localhost:5340", key: "mykey", path: "dial/abc/set", extra: "&value=50",
			want: "http://localhost:5340/api/v0/dial/abc/set?key=mykey&value=50",
		},
		{
			name: "other host",
			base: "http://192.168.1.1:8080", key: "k", path: "some/endpoint",
			want: "http://192.168.1.1:8080/api/v0/some/endpoint?key=k",
		},
		{
			name: "empty key stays valid",
			base: "http://localhost:5340", key: "", path: "dial/list",
			want: "http://localhost:5340/api/v0/dial/list?key=",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, BuildDialURL(tc.base, tc.key, tc.path, tc.extra))
		})
	}
}

func TestBuildDialURLEscapesKey(t *testing.T) {
	u := BuildDialURL("http://localhost:5340", "k&admin_key=evil", "dial/list", "")
	assert.Contains(t, u, "key=k%26admin_key%3Devil")
	assert.NotContains(t, u, "admin_key=evil")

	_, query, ok := strings.Cut(u, "?")
	require.True(t, ok)
	assert.Equal(t, 1, strings.Count(query, "="), "key must not inject parameters: %s", query)
	assert.NotContains(t, query, "&")
}

func TestBuildAdminURL(t *testing.T) {
	u := BuildAdminURL("http://localhost:5340", "adminkey", "admin/keys/list", "")
	assert.Equal(t, "http://localhost:5340/api/v0/admin/keys/list?admin_key=adminkey", u)
	assert.NotContains(t, u, "?key=")

	u = BuildAdminURL("http://localhost:5340", "adminkey", "admin/keys/create", "&name=foo&dials=all")
	assert.Contains(t, u, "admin_key=adminkey&name=foo&dials=all")
}

func TestBuildAdminURLNeverEmitsBareKey(t *testing.T) {
	for _, key := range []string{"a&key=evil", "key=", "", "plain", "?key=x", "k e y"} {
		u := BuildAdminURL("http://localhost:5340", key, "admin/keys/list", "")
		_, query, _ := strings.Cut(u, "?")
		assert.True(t, strings.HasPrefix(query, "admin_key="), "query %q", query)
		for _, pair := range strings.Split(query, "&") {
			name, _, _ := strings.Cut(pair, "=")
			assert.NotEqual(t, "key", name, "bare key parameter in %q", u)
		}
	}
	u := BuildAdminURL("http://localhost:5340", "a&key=evil", "admin/keys/list", "")
	assert.Contains(t, u, "a%26key%3Devil")
	assert.NotContains(t, u, "key=evil")
}

func TestEscape(t *testing.T) {
	cases := map[string]string{
		"abcXYZ019-._~": "abcXYZ019-._~",
		"uid/special":   "uid%2Fspecial",
		"My Dial":       "My%20Dial",
		"a+b":           "a%2Bb",
		"k&v=1":         "k%26v%3D1",
		"?#%":           "%3F%23%25",
		"\n\t":          "%0A%09",
		"é":             "%C3%A9",
		"":              "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Escape(in), "Escape(%q)", in)
	}
}

func TestExtraQuery(t *testing.T) {
	assert.Equal(t, "", extraQuery())
	assert.Equal(t, "&value=0", extraQuery(intParam("value", 0)))
	assert.Equal(t, "&value=-5", extraQuery(intParam("value", -5)))
	assert.Equal(t, "&name=My%20Dial&dials=d1%2Cd2",
		extraQuery(strParam("name", "My Dial"), strParam("dials", "d1,d2")))
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:5340", BaseURL("localhost", 5340))
	assert.Equal(t, "http://192.168.1.100:9000", BaseURL("192.168.1.100", 9000))
}
