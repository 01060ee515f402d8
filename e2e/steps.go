package e2e

import (
	"github.com/cucumber/godog"

	"greenforge/e2e/steps/common"
	"greenforge/e2e/steps/recommend"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register recommendation steps
	recommend.RegisterSteps(ctx, tc)
}
