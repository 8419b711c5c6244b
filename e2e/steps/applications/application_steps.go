package applications

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/cucumber/godog"
)

type TestContext interface {
	Do(ctx context.Context, method, path string, body any) error
	LastStatus() int
	LastBody() []byte
	ResponseField(path string) (any, error)
	Remember(key, value string)
	ActAs(subject, role string) error
}

// RegisterSteps registers citizen journey and officer steps.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &applicationSteps{tc: tc}

	ctx.Step(`^I am a new citizen$`, steps.newCitizen)
	ctx.Step(`^I am an officer$`, steps.officer)
	ctx.Step(`^my profile says I am a (\d+) year old "([^"]*)" earning (\d+)$`, steps.saveProfile)
	ctx.Step(`^I have uploaded an? "([^"]*)" document$`, steps.upload)
	ctx.Step(`^I apply for the scheme "([^"]*)"$`, steps.applyForScheme)
	ctx.Step(`^I move application "([^"]*)" to "([^"]*)"$`, steps.transition)
	ctx.Step(`^I move application "([^"]*)" to "([^"]*)" with remarks "([^"]*)"$`, steps.transitionWithRemarks)
}

type applicationSteps struct {
	tc TestContext
}

func (s *applicationSteps) newCitizen() error {
	subject, err := newUUID()
	if err != nil {
		return err
	}
	s.tc.Remember("citizen_id", subject)
	return s.tc.ActAs(subject, "citizen")
}

func (s *applicationSteps) officer() error {
	subject, err := newUUID()
	if err != nil {
		return err
	}
	return s.tc.ActAs(subject, "officer")
}

func (s *applicationSteps) saveProfile(ctx context.Context, age int, occupation string, income int) error {
	if err := s.tc.Do(ctx, "PUT", "/v1/profile", map[string]any{
		"name":          "E2E Citizen",
		"age":           age,
		"gender":        "female",
		"category":      "General",
		"annual_income": income,
		"occupation":    occupation,
		"state":         "Bihar",
		"has_bpl_card":  false,
	}); err != nil {
		return err
	}
	return s.expect(200)
}

func (s *applicationSteps) upload(ctx context.Context, kind string) error {
	if err := s.tc.Do(ctx, "POST", "/v1/vault/documents", map[string]any{
		"kind":       kind,
		"file_name":  kind + ".pdf",
		"size_bytes": 4096,
	}); err != nil {
		return err
	}
	return s.expect(201)
}

func (s *applicationSteps) applyForScheme(ctx context.Context, schemeID string) error {
	if err := s.tc.Do(ctx, "POST", "/v1/applications", map[string]any{"scheme_id": schemeID}); err != nil {
		return err
	}
	if err := s.expect(201); err != nil {
		return err
	}
	for field, name := range map[string]string{
		"application.id":          "application_id",
		"application.tracking_id": "tracking_id",
	} {
		v, err := s.tc.ResponseField(field)
		if err != nil {
			return err
		}
		s.tc.Remember(name, fmt.Sprint(v))
	}
	return nil
}

func (s *applicationSteps) transition(ctx context.Context, appID, status string) error {
	return s.tc.Do(ctx, "POST", "/v1/applications/"+appID+"/transitions", map[string]any{"status": status})
}

func (s *applicationSteps) transitionWithRemarks(ctx context.Context, appID, status, remarks string) error {
	return s.tc.Do(ctx, "POST", "/v1/applications/"+appID+"/transitions", map[string]any{
		"status":  status,
		"remarks": remarks,
	})
}

func (s *applicationSteps) expect(status int) error {
	if got := s.tc.LastStatus(); got != status {
		return fmt.Errorf("expected %d, got %d: %s", status, got, s.tc.LastBody())
	}
	return nil
}

func newUUID() (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:]), nil
}
