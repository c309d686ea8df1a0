// Package main implements the mcpgateway command-line entrypoint: a single
// `serve <groupnames...>` subcommand plus two read-only introspection
// subcommands (`list-groups`, `list-backends`) over the same two
// configuration documents.
package main

import (
	"log"

	"github.com/jessevdk/go-flags"
)

// Options is the root command that groups mcpgateway's sub-commands.
type Options struct {
	Serve        *ServeCmd        `command:"serve" description:"Start the aggregating proxy for the given groups"`
	ListGroups   *ListGroupsCmd   `command:"list-groups" description:"List configured groups"`
	ListBackends *ListBackendsCmd `command:"list-backends" description:"List configured backend servers"`
}

// Run parses args and executes the selected sub-command.
func Run(args []string) int {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return 0
		}
		log.Printf("mcpgateway: %v", err)
		return 1
	}
	return 0
}
