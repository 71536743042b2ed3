/*
Package ports defines the interfaces that decouple the Interview Controller from
its collaborators.

# Key Interfaces

  - DecisionService: the external service that picks the next question or concludes.
  - Presenter: renders the transcript and the active input control.
  - ResultStore: keeps concluded interview records for the reference decision service.
*/
package ports
