package cmd

// Version is the CLI version, overridable at build time:
//
//	go build -ldflags "-X github.com/lumenplan/dayplanner/cmd.Version=v1.2.3"
var Version = "dev"
