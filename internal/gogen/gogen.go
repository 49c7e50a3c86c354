// Package gogen writes converted literals of a batch run as a Go source
// file of string constants.
package gogen

import (
	"fmt"
	"go/token"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/dave/jennifer/jen"

	"rxport/internal/batch"
)

// Options configures the generated file.
type Options struct {
	Package string // Go package name; defaults to "regexes"
	Index   bool   // also emit a name -> literal map
}

const defaultPackage = "regexes"

// File builds the generated file for rep. Failed jobs are listed in a
// comment and get no constant.
func File(rep *batch.Report, opts Options) (*jen.File, error) {
	pkg := opts.Package
	if pkg == "" {
		pkg = defaultPackage
	}
	if !token.IsIdentifier(pkg) {
		return nil, fmt.Errorf("invalid package name %q", pkg)
	}
	f := jen.NewFile(pkg)
	header := "Code generated by rxport; DO NOT EDIT."
	if rep.File != nil && rep.File.Path != "" {
		header = fmt.Sprintf("Code generated by rxport from %s; DO NOT EDIT.", filepath.Base(rep.File.Path))
	}
	f.HeaderComment(header)

	ids := identifiers(rep)
	index := jen.Dict{}
	var defs []jen.Code
	for i, o := range rep.Outcomes {
		if len(defs) > 0 {
			defs = append(defs, jen.Line())
		}
		if o.Failed() {
			defs = append(defs, jen.Comment(fmt.Sprintf("%s was not converted: %v", o.Job.Name, o.Err)))
			continue
		}
		id := ids[i]
		defs = append(defs, jen.Comment(fmt.Sprintf("%s is %s", id, describe(o))))
		for _, d := range o.Result.Diagnostics {
			defs = append(defs, jen.Comment(fmt.Sprintf("  %s %s: %s", d.Severity.Label(), d.Code.ID(), d.Message)))
		}
		defs = append(defs, jen.Id(id).Op("=").Lit(o.Result.Literal))
		index[jen.Lit(o.Job.Name)] = jen.Id(id)
	}
	if len(defs) > 0 {
		f.Const().Defs(defs...)
	}

	if opts.Index && len(index) > 0 {
		f.Line()
		f.Comment("Literals maps job names to their JavaScript regex literal.")
		f.Var().Id("Literals").Op("=").Map(jen.String()).String().Values(index)
	}
	return f, nil
}

// Render writes the generated file to w.
func Render(w io.Writer, rep *batch.Report, opts Options) error {
	f, err := File(rep, opts)
	if err != nil {
		return err
	}
	return f.Render(w)
}

// Save writes the generated file to path.
func Save(path string, rep *batch.Report, opts Options) error {
	f, err := File(rep, opts)
	if err != nil {
		return err
	}
	return f.Save(path)
}

func describe(o batch.Outcome) string {
	s := "the JavaScript form of " + strconv.Quote(o.Job.Source)
	if o.Letters != "" {
		s += " with flags " + strconv.Quote(o.Letters)
	}
	if n := len(o.Result.Diagnostics); n > 0 {
		s += fmt.Sprintf(" (%d %s)", n, plural(n, "warning"))
	}
	return s + "."
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}

// identifiers assigns a unique exported identifier to every job in order.
func identifiers(rep *batch.Report) []string {
	out := make([]string, len(rep.Outcomes))
	seen := map[string]bool{"Literals": true}
	for i, o := range rep.Outcomes {
		base := Identifier(o.Job.Name)
		id := base
		for n := 2; seen[id]; n++ {
			id = fmt.Sprintf("%s%d", base, n)
		}
		seen[id] = true
		out[i] = id
	}
	return out
}

// Identifier turns a job name into an exported Go identifier: "user-email"
// becomes "UserEmail", "2fa code" becomes "Pattern2faCode".
func Identifier(name string) string {
	var b strings.Builder
	upper := true
	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	id := b.String()
	if id == "" {
		return "Pattern"
	}
	first := []rune(id)[0]
	if !unicode.IsUpper(first) {
		id = "Pattern" + id
	}
	return id
}
