/*
Package domain contains the core models of an adaptive intake interview.

It defines the entities exchanged between the Interview Controller, the
presentation layer and the decision service. This package is kept pure and
free of I/O, following Hexagonal Architecture principles.

# Key Entities

  - AnswerSet: variable -> value mapping accumulated during one session.
  - Question: server-supplied descriptor of the next prompt and its input shape.
  - Outcome: tagged result of one round trip (Refusal, NextQuestion or Conclusion).
  - Transcript: append-only sequence of system and user turns.
  - Phase: the position of the controller in its state machine.
*/
package domain
