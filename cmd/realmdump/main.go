// Package main provides realmdump, a command-line inspector for the
// column-store files realmdb reads. It supports dumping the raw node
// graph (tree), listing tables with row counts (tables), and probing an
// indexed column for a value (probe).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/arcfile/realmdb"
	"github.com/arcfile/realmdb/internal/core"
)

func main() {
	verbose := flag.Bool("v", false, "log progress to stderr")
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd, file := args[0], args[1]
	if *verbose {
		log.Printf("opening %s", file)
	}

	var err error
	switch cmd {
	case "tree":
		err = runTree(file)
	case "tables":
		err = runTables(file)
	case "probe":
		if len(args) < 5 {
			usage()
			os.Exit(2)
		}
		err = runProbe(file, args[2], args[3], args[4])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  realmdump tree <file>")
	fmt.Fprintln(os.Stderr, "  realmdump tables <file>")
	fmt.Fprintln(os.Stderr, "  realmdump probe <file> <table> <column> <value>")
	flag.PrintDefaults()
}

func runTree(path string) error {
	m, err := core.OpenMapping(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer m.Close()

	h := m.Header()
	fmt.Printf("file header: version=%d active-copy=%d\n", h.FormatVersion, h.Flags&1)
	top := m.ActiveTop()
	fmt.Printf("active top-ref: %d\n", uint64(top))

	header, err := m.HeaderAt(top)
	if err != nil {
		return fmt.Errorf("reading top node: %w", err)
	}
	fmt.Printf("top node: inner-bptree=%v has-refs=%v context-flag=%v width-bits=%d size=%d\n",
		header.IsInnerBPTree, header.HasRefs, header.ContextFlag, header.WidthBits, header.Size)
	return nil
}

func runTables(path string) error {
	f, err := realmdb.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	g, err := f.Group()
	if err != nil {
		return fmt.Errorf("reading group: %w", err)
	}
	names, err := g.GetTableNames()
	if err != nil {
		return fmt.Errorf("listing tables: %w", err)
	}

	for i, name := range names {
		t, err := g.GetTable(uint64(i))
		if err != nil {
			return fmt.Errorf("opening table %q: %w", name, err)
		}
		rows, err := t.RowCount()
		if err != nil {
			return fmt.Errorf("counting rows in %q: %w", name, err)
		}
		fmt.Printf("%3d  %-32s %8d rows  %d columns\n", i, name, rows, len(t.ColumnSpecs()))
	}
	return nil
}

func runProbe(path, tableName, column, rawValue string) error {
	f, err := realmdb.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	g, err := f.Group()
	if err != nil {
		return fmt.Errorf("reading group: %w", err)
	}
	t, err := g.GetTableByName(tableName)
	if err != nil {
		return fmt.Errorf("opening table %q: %w", tableName, err)
	}

	value := probeValue(rawValue)
	row, err := t.FindRowFromIndexedColumn(column, value)
	if err != nil {
		return fmt.Errorf("probing %q.%q: %w", tableName, column, err)
	}
	if row == nil {
		fmt.Println("no match")
		return nil
	}
	for _, name := range row.Entries() {
		v, _ := row.Get(name)
		fmt.Printf("%s = %+v\n", name, v)
	}
	return nil
}

// probeValue coerces the command-line string into the narrowest type
// core.CoerceIndexKey accepts: an integer if it parses as one, a string
// otherwise. Bool/timestamp probes aren't reachable from this CLI.
func probeValue(raw string) any {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}
