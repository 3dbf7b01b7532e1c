package main

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/pershin-daniil/meetups/pkg/config"
	"github.com/pershin-daniil/meetups/pkg/service"
	"github.com/pershin-daniil/meetups/pkg/sorter"
)

type cliFlags struct {
	search  string
	all     bool
	max     int
	sort    sorter.SortMethod
	profile string
	verbose bool
	set     map[string]bool
}

func parseFlags(name string, args []string, handling flag.ErrorHandling, output io.Writer) (cliFlags, error) {
	defaults := config.DefaultSearch()
	f := cliFlags{sort: defaults.Sort, set: make(map[string]bool)}

	fs := flag.NewFlagSet(name, handling)
	fs.SetOutput(output)
	fs.StringVar(&f.search, "search", defaults.Text, "search term to filter events")
	fs.BoolVar(&f.all, "all", false, "ignores any search term")
	fs.IntVar(&f.max, "max", defaults.MaxDisplayed, "maximum number of events to display")
	fs.Var(&f.sort, "sort", "sort method used to display results: "+strings.Join(sorter.Names(), ", "))
	fs.StringVar(&f.profile, "config", "", "path to a YAML search profile")
	fs.BoolVar(&f.verbose, "v", false, "debug logging")
	if err := fs.Parse(args); err != nil {
		return cliFlags{}, err
	}
	if fs.NArg() > 0 {
		return cliFlags{}, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	fs.Visit(func(fl *flag.Flag) {
		f.set[fl.Name] = true
	})
	return f, nil
}

// options merges the flags over the loaded search profile: flags given on the
// command line win, the rest come from the profile.
func (f cliFlags) options(search config.Search) service.Options {
	opts := service.Options{
		Max:  search.MaxDisplayed,
		Sort: search.Sort,
	}
	term := search.Text
	if f.set["search"] {
		term = f.search
	}
	if f.set["max"] {
		opts.Max = f.max
	}
	if f.set["sort"] {
		opts.Sort = f.sort
	}
	if !f.all {
		opts.Search = &term
	}
	return opts
}
