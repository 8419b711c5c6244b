package common

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cucumber/godog"
)

// TestContext is the subset of the shared context these steps use.
type TestContext interface {
	Do(ctx context.Context, method, path string, body any) error
	LastStatus() int
	LastBody() []byte
	ResponseField(path string) (any, error)
	Remember(key, value string)
	ActAs(subject, role string) error
	Expand(s string) string
}

// RegisterSteps registers request and assertion steps shared by every feature.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	ctx.Step(`^I am anonymous$`, steps.anonymous)
	ctx.Step(`^I send a (GET|POST|PUT|DELETE) request to "([^"]*)"$`, steps.sendRequest)
	ctx.Step(`^I send a (POST|PUT) request to "([^"]*)" with body:$`, steps.sendRequestWithBody)

	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, steps.fieldShouldEqual)
	ctx.Step(`^the response field "([^"]*)" should match "([^"]*)"$`, steps.fieldShouldMatch)
	ctx.Step(`^the response should not contain "([^"]*)"$`, steps.bodyShouldNotContain)
	ctx.Step(`^I remember the response field "([^"]*)" as "([^"]*)"$`, steps.remember)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) anonymous() error {
	return s.tc.ActAs("", "")
}

func (s *commonSteps) sendRequest(ctx context.Context, method, path string) error {
	return s.tc.Do(ctx, method, path, nil)
}

func (s *commonSteps) sendRequestWithBody(ctx context.Context, method, path string, doc *godog.DocString) error {
	var body any
	if err := json.Unmarshal([]byte(doc.Content), &body); err != nil {
		return fmt.Errorf("step body is not JSON: %w", err)
	}
	return s.tc.Do(ctx, method, path, body)
}

func (s *commonSteps) statusShouldBe(want int) error {
	if got := s.tc.LastStatus(); got != want {
		return fmt.Errorf("expected status %d (%s), got %d: %s", want, http.StatusText(want), got, s.tc.LastBody())
	}
	return nil
}

func (s *commonSteps) fieldShouldEqual(path, want string) error {
	v, err := s.tc.ResponseField(path)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(v); got != want {
		return fmt.Errorf("field %q: expected %q, got %q", path, want, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldMatch(path, pattern string) error {
	v, err := s.tc.ResponseField(path)
	if err != nil {
		return err
	}
	return matchString(fmt.Sprint(v), pattern)
}

func (s *commonSteps) bodyShouldNotContain(needle string) error {
	needle = s.tc.Expand(needle)
	if containsString(string(s.tc.LastBody()), needle) {
		return fmt.Errorf("response unexpectedly contains %q", needle)
	}
	return nil
}

func (s *commonSteps) remember(path, name string) error {
	v, err := s.tc.ResponseField(path)
	if err != nil {
		return err
	}
	s.tc.Remember(name, fmt.Sprint(v))
	return nil
}
