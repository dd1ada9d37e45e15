package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	tabular "github.com/6a6d74/rdf-tabular"
)

var errValidation = errors.New("validation failed")

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow)
	pathColor    = color.New(color.FgCyan)
	okColor      = color.New(color.FgGreen, color.Bold)
)

// printError writes err to w, one line per issue when err carries
// tabular.Issues.
func printError(w io.Writer, err error) {
	if errors.Is(err, errValidation) {
		return
	}
	iss, ok := tabular.AsIssues(err)
	if !ok {
		errorColor.Fprint(w, "error: ")
		fmt.Fprintln(w, err)
		return
	}
	for _, it := range iss {
		errorColor.Fprintf(w, "%s ", it.Code)
		if it.Path != "" {
			pathColor.Fprintf(w, "%s ", it.Path)
		}
		fmt.Fprintln(w, it.Message)
	}
}

func printWarning(w io.Writer, where, msg string) {
	warningColor.Fprint(w, "cell ")
	pathColor.Fprintf(w, "%s ", where)
	fmt.Fprintln(w, msg)
}

func printOK(w io.Writer, input string) {
	okColor.Fprint(w, "ok ")
	fmt.Fprintln(w, input)
}
