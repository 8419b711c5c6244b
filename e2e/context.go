// Package e2e drives a running onegov server through Gherkin scenarios.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "onegov-identity"
	tokenAudience = "onegov-portal"
)

// TestContext is the per-scenario state shared by all step packages.
type TestContext struct {
	baseURL    string
	signingKey []byte
	client     *http.Client

	token      string
	lastStatus int
	lastBody   []byte
	saved      map[string]string
}

func NewTestContext(baseURL, signingKey string) *TestContext {
	return &TestContext{
		baseURL:    strings.TrimRight(baseURL, "/"),
		signingKey: []byte(signingKey),
		client:     &http.Client{Timeout: 10 * time.Second},
		saved:      make(map[string]string),
	}
}

// Reset clears scenario state between scenarios.
func (tc *TestContext) Reset() {
	tc.token = ""
	tc.lastStatus = 0
	tc.lastBody = nil
	tc.saved = make(map[string]string)
}

// ActAs mints a token for a fresh subject with role and uses it for every
// following request. An empty role switches to anonymous.
func (tc *TestContext) ActAs(subject, role string) error {
	if role == "" {
		tc.token = ""
		return nil
	}
	now := time.Now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"citizen_id": subject,
		"role":       role,
		"iss":        tokenIssuer,
		"aud":        tokenAudience,
		"iat":        now.Unix(),
		"exp":        now.Add(time.Hour).Unix(),
	}).SignedString(tc.signingKey)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}
	tc.token = tok
	return nil
}

var placeholder = regexp.MustCompile(`\{([a-z_]+)\}`)

// Expand substitutes {name} with remembered values.
func (tc *TestContext) Expand(s string) string {
	return placeholder.ReplaceAllStringFunc(s, func(m string) string {
		if v, ok := tc.saved[m[1:len(m)-1]]; ok {
			return v
		}
		return m
	})
}

func (tc *TestContext) Do(ctx context.Context, method, path string, body any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, tc.baseURL+tc.Expand(path), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if tc.token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.token)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) GET(ctx context.Context, path string) error {
	return tc.Do(ctx, http.MethodGet, path, nil)
}

func (tc *TestContext) POST(ctx context.Context, path string, body any) error {
	return tc.Do(ctx, http.MethodPost, path, body)
}

func (tc *TestContext) PUT(ctx context.Context, path string, body any) error {
	return tc.Do(ctx, http.MethodPut, path, body)
}

func (tc *TestContext) LastStatus() int      { return tc.lastStatus }
func (tc *TestContext) LastBody() []byte     { return tc.lastBody }
func (tc *TestContext) Remember(k, v string) { tc.saved[k] = v }

// ResponseField reads a dotted path ("application.tracking_id",
// "timeline.1.status") from the last JSON response.
func (tc *TestContext) ResponseField(path string) (any, error) {
	var cur any
	if err := json.Unmarshal(tc.lastBody, &cur); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in %s", path, tc.lastBody)
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %q", part, path)
			}
			cur = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %q at %q", path, part)
		}
	}
	return cur, nil
}
