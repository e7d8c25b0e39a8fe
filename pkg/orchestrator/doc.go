// Package orchestrator drives the provisioning pipeline:
//
//	Init → TaskSelect → PreCheck → PlanSelect → Confirm → Execute → Summary
//
// Every Check and Execute call runs sequentially in task order. The
// orchestrator is the only place where task errors and panics are turned
// into recorded results; nothing escapes one task to affect another.
//
// User interaction is delegated to a Selector and execution display to a
// Runner so the pipeline can be driven by terminal UI or by tests.
package orchestrator
