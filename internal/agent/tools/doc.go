// Package tools defines the tool catalogue the agent offers the model and
// the executor that runs those tools against the task service.
//
// The executor is bound to one owner for its lifetime; a tool can only ever
// touch that owner's tasks, regardless of what arguments the model produces.
// Tool failures are returned inside the result map, never as errors, so the
// model can explain the problem to the user.
package tools
