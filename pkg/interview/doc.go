/*
Package interview implements the Interview Controller: the client-side state
machine that drives an adaptive, one-question-at-a-time intake interview.

The Controller owns the AnswerSet, sends it in full to a ports.DecisionService
after every answer and dispatches the resulting Outcome to a ports.Presenter:

	idle -> awaiting_response -> presenting_question -> awaiting_response -> ... -> terminal
	                          \-> failed (retry) -/

Terminal is absorbing. The only writer of the AnswerSet is SubmitAnswer.
*/
package interview
