// File: testharness/fixture.go
// LoadYAMLFixture loads a table of request/expected-response cases from a
// YAML file, matching a table-driven test style but with the table sourced
// from a file instead of a Go literal, the same way docker-compose drives
// its compose-file test fixtures through gopkg.in/yaml.v3.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package testharness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-web/httpmsg"
)

// FixtureCase is one row of a YAML fixture table: a request to issue and
// the response shape expected back.
type FixtureCase struct {
	Name    string            `yaml:"name"`
	Method  string            `yaml:"method"`
	Path    string            `yaml:"path"`
	Headers map[string]string `yaml:"headers"`
	Body    string            `yaml:"body"`

	WantStatus int               `yaml:"want_status"`
	WantBody   string            `yaml:"want_body"`
	WantHeader map[string]string `yaml:"want_header"`
}

// LoadYAMLFixture reads a list of FixtureCase rows from path.
func LoadYAMLFixture(path string) ([]FixtureCase, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testharness: reading fixture %s: %w", path, err)
	}
	var cases []FixtureCase
	if err := yaml.Unmarshal(raw, &cases); err != nil {
		return nil, fmt.Errorf("testharness: parsing fixture %s: %w", path, err)
	}
	return cases, nil
}

// Run issues every case in cases against c and returns the responses in
// order, so a caller's test loop can assert WantStatus/WantBody/WantHeader
// per row the way it would against an inline table-driven test.
func (c *Client) Run(cases []FixtureCase) ([]*httpmsg.Response, error) {
	out := make([]*httpmsg.Response, 0, len(cases))
	for _, tc := range cases {
		method := httpmsg.ParseMethod([]byte(tc.Method))
		if method == httpmsg.MethodUnknown {
			return out, fmt.Errorf("testharness: fixture %q: unrecognized method %q", tc.Name, tc.Method)
		}
		var headers httpmsg.Headers
		for k, v := range tc.Headers {
			headers.Set(k, v)
		}
		res, err := c.Do(method, tc.Path, headers, []byte(tc.Body))
		if err != nil {
			return out, fmt.Errorf("testharness: fixture %q: %w", tc.Name, err)
		}
		out = append(out, res.Response)
	}
	return out, nil
}
