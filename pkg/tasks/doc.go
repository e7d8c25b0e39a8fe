// Package tasks defines the contract every provisioning task implements.
//
// A task inspects the host in Check and returns a Plan. The plan reports
// what is already satisfied and what is pending, may be narrowed to a user
// selection when it implements Selectable, and is the only value that can
// Execute. Executing a plan twice does nothing the second time.
package tasks
