/*
Package dsl provides a Go DSL for programmatically constructing question banks.

It is an alternative to YAML, JSON or loam documents when a bank is generated by
code or defined inline in tests. Questions keep the order in which they are added
and conclusions keep their priority order.

Example usage:

	b := dsl.New("fever")

	b.Ask("temperature").
		Number("What is your temperature?").
		Range(34, 43).
		Step(0.1)

	b.Ask("chills").
		Boolean("Do you have chills?").
		If("temperature >= 38")

	b.Conclude("high").
		Label("High fever").
		Severity("high").
		When("temperature >= 39 && chills")

	b.Conclude("mild").
		Label("No urgent sign").
		Fallback()

	bank, err := b.Build()
	// ... pass bank to decision.NewEngine(bank)
*/
package dsl
