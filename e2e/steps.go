package e2e

import (
	"github.com/cucumber/godog"

	"onegov/e2e/steps/applications"
	"onegov/e2e/steps/common"
)

// RegisterSteps registers all step definitions from modular packages.
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	applications.RegisterSteps(ctx, tc)
}
