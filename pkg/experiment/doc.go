// Package experiment runs a set of commands in dependency order.
//
// Commands are linked when an output of one is an input of another. The resulting graph must
// be acyclic and every output must be written by a single command. A Runner executes the
// commands in a stable topological order, skipping those whose outputs already exist.
package experiment
