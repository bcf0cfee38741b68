// Package services implements the driving port interfaces.
// Services contain the core business logic - classification,
// aggregation and summary construction - and orchestrate calls to
// driven ports (ingesters, writers, stores).
//
// Services are pure Go with no CGO dependencies.
package services
