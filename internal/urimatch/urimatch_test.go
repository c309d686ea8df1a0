package urimatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTemplate(t *testing.T) {
	testCases := []struct {
		description string
		input       string
		expect      bool
	}{
		{description: "plain string", input: "file:///etc/hosts", expect: false},
		{description: "reserved expansion", input: "file:///{+path}", expect: true},
		{description: "empty braces are not a template", input: "file:///{}", expect: false},
		{description: "query operator", input: "https://api/search{?q,limit}", expect: true},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expect, IsTemplate(tc.input), tc.description)
	}
}

func TestMatch(t *testing.T) {
	testCases := []struct {
		description string
		uri         string
		template    string
		matches     bool
		vars        map[string]string
	}{
		{
			description: "exact literal equality",
			uri:         "file:///etc/hosts",
			template:    "file:///etc/hosts",
			matches:     true,
		},
		{
			description: "exact literal mismatch",
			uri:         "file:///etc/passwd",
			template:    "file:///etc/hosts",
			matches:     false,
		},
		{
			description: "reserved expansion captures remaining path",
			uri:         "file:///etc/hosts",
			template:    "file:///{+path}",
			matches:     true,
			vars:        map[string]string{"path": "etc/hosts"},
		},
		{
			description: "path segment variable",
			uri:         "/users/42",
			template:    "/users/{id}",
			matches:     true,
			vars:        map[string]string{"id": "42"},
		},
		{
			description: "path segment variable does not match extra segment",
			uri:         "/users/42/edit",
			template:    "/users/{id}",
			matches:     false,
		},
	}
	for _, tc := range testCases {
		result := Match(tc.uri, tc.template)
		assert.Equal(t, tc.matches, result.Matches, tc.description)
		if tc.matches && tc.vars != nil {
			for k, v := range tc.vars {
				assert.Equal(t, v, result.Variables[k], tc.description+": var "+k)
			}
		}
	}
}

func TestMatchImpliesOverlap(t *testing.T) {
	// Property law 5: match(U,T).matches => templatesCanOverlap(T,U).
	testCases := []struct {
		uri      string
		template string
	}{
		{uri: "file:///etc/hosts", template: "file:///{+path}"},
		{uri: "/users/42", template: "/users/{id}"},
	}
	for _, tc := range testCases {
		if Match(tc.uri, tc.template).Matches {
			assert.True(t, TemplatesCanOverlap(tc.template, tc.uri), "template %q uri %q", tc.template, tc.uri)
		}
	}
}

func TestTemplatesCanOverlap(t *testing.T) {
	testCases := []struct {
		description string
		a, b        string
		expect      bool
	}{
		{description: "identical exact", a: "file:///etc/hosts", b: "file:///etc/hosts", expect: true},
		{description: "different exact", a: "file:///etc/hosts", b: "file:///etc/passwd", expect: false},
		{description: "two templates same prefix", a: "file:///{+path}", b: "file:///{+other}", expect: true},
		{description: "two templates different scheme", a: "file:///{+path}", b: "https:///{+path}", expect: false},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.expect, TemplatesCanOverlap(tc.a, tc.b), tc.description)
	}
}

func TestGenerateExampleURI(t *testing.T) {
	got := GenerateExampleURI("file:///{+path}")
	assert.Equal(t, "file:///example-path", got)
}

func TestVariables(t *testing.T) {
	got := Variables("https://api/search{?q,limit}")
	assert.Equal(t, []string{"q,limit"}, got)
}
