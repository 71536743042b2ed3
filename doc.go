/*
Package intake runs adaptive intake interviews: one question at a time, decided by a remote service.

The client holds no decision logic. After every answer it posts the complete AnswerSet to the
decision service, which replies with exactly one of three outcomes: a refusal, the next question,
or a conclusion linking to a result page. A refusal or a conclusion ends the session.

# Architecture

The module follows a hexagonal layout. The Interview Controller (pkg/interview) owns the session
state machine and talks to two ports (pkg/ports): a DecisionService and a Presenter. Adapters
implement them: an HTTP client for the decision service (pkg/adapters/http), a terminal presenter
(pkg/presentation/text) and a headless NDJSON presenter (pkg/presentation/jsonl).

A reference decision service (pkg/decision, served by pkg/adapters/http and pkg/adapters/mcp)
ships with a built-in sinusitis question bank so the client can be exercised end to end.

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/intake"
	)

	func main() {
		s, err := intake.New("http://localhost:5000")
		if err != nil {
			log.Fatal(err)
		}
		if err := s.Run(context.Background()); err != nil {
			log.Fatal(err)
		}
	}
*/
package intake
