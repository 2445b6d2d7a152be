package cli

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"

	"table-mapper/internal/catalog"
	"table-mapper/internal/diagnostic"
)

const (
	formatText = "text"
	formatYAML = "yaml"
	formatJSON = "json"
)

// writeSnapshot prints snap in the given format.
func writeSnapshot(w io.Writer, snap *catalog.Snapshot, format string) error {
	var (
		data []byte
		err  error
	)

	switch format {
	case "", formatText:
		return writeText(w, snap)
	case formatYAML:
		data, err = snap.EncodeYAML()
	case formatJSON:
		data, err = snap.EncodeJSON()
		data = append(data, '\n')
	default:
		return fmt.Errorf("unknown format %q (want text, yaml or json)", format)
	}

	if err != nil {
		return err
	}

	_, err = w.Write(data)

	return err
}

func writeText(w io.Writer, snap *catalog.Snapshot) error {
	title := color.New(color.FgCyan, color.Bold)
	faint := color.New(color.FgHiBlack)

	for i, t := range snap.Tables {
		if i > 0 {
			fmt.Fprintln(w)
		}

		title.Fprint(w, t.QualifiedName())
		faint.Fprintf(w, " (%s)\n", t.Type)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, c := range t.Columns {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", c.Name, c.Path, columnFlags(c))
		}

		if err := tw.Flush(); err != nil {
			return err
		}

		for _, k := range slices.Sorted(maps.Keys(t.Metadata)) {
			fmt.Fprintf(w, "  @%s = %v\n", k, t.Metadata[k])
		}
	}

	return nil
}

func columnFlags(c *catalog.Column) string {
	var flags []string
	if c.PrimaryKey {
		flags = append(flags, "pk")
	}

	if c.ForeignKey {
		fk := "fk"
		if c.References != nil {
			fk += " -> " + c.References.Table + "." + c.References.Column
		}

		flags = append(flags, fk)
	}

	return strings.Join(flags, ", ")
}

// dumpSnapshot prints the Go value of snap.
func dumpSnapshot(w io.Writer, snap *catalog.Snapshot) {
	cfg := spew.ConfigState{Indent: "  ", SortKeys: true, DisablePointerAddresses: true}
	cfg.Fdump(w, snap)
}

// writeDiagnostics prints every diagnostic, errors first.
func writeDiagnostics(w io.Writer, diags *diagnostic.Diagnostics) {
	for _, d := range diags.All() {
		var c *color.Color

		switch d.Severity {
		case diagnostic.DiagnosticError:
			c = color.New(color.FgRed, color.Bold)
		case diagnostic.DiagnosticWarning:
			c = color.New(color.FgYellow, color.Bold)
		default:
			c = color.New(color.FgCyan)
		}

		c.Fprintf(w, "%s: ", d.Severity)
		fmt.Fprintln(w, d.String())
	}
}
