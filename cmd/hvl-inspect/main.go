package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/h5bridge/varlen/alloc/cmalloc"
	"github.com/h5bridge/varlen/alloc/tracked"
	"github.com/h5bridge/varlen/hvl"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	allocStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	freeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	leakStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

func main() {
	var (
		scenario    = flag.String("scenario", "roundtrip", "Scenario to run (roundtrip, clone, nested, leak)")
		n           = flag.Int("n", 8, "Elements per array")
		k           = flag.Int("k", 3, "Inner arrays in the nested scenario")
		verbose     = flag.Bool("v", false, "Log every allocator call")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer logger.Sync()
		tracked.SetLogger(logger)
	}

	tr := tracked.New(cmalloc.New())
	if err := runScenario(tr, *scenario, *n, *k); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*scenario, tr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printLedger(*scenario, tr)
}

// runScenario drives the record types through a workload while the
// tracker records every allocator call.
func runScenario(tr *tracked.Tracker, scenario string, n, k int) error {
	switch scenario {
	case "roundtrip":
		src := make([]uint16, n)
		for i := range src {
			src[i] = uint16(i * i)
		}
		arr, err := hvl.New(tr, src)
		if err != nil {
			return err
		}
		fmt.Printf("record: len=%d view=%v\n", arr.Len(), arr)
		arr.Free(tr)
		return nil

	case "clone":
		src := make([]int32, n)
		for i := range src {
			src[i] = int32(i)
		}
		arr, err := hvl.New(tr, src)
		if err != nil {
			return err
		}
		clone, err := arr.Clone(tr)
		if err != nil {
			return err
		}
		fmt.Printf("original %p, clone %p, equal content: %v\n",
			arr.Ptr(), clone.Ptr(), hvl.Equal(arr, clone))
		arr.Free(tr)
		clone.Free(tr)
		return nil

	case "nested":
		inner := make([]hvl.LeakyVarLenArray[int32], k)
		for i := range inner {
			src := make([]int32, n)
			for j := range src {
				src[j] = int32(i*n + j)
			}
			var err error
			inner[i], err = hvl.NewLeaky(tr, src)
			if err != nil {
				return err
			}
		}
		outer, err := hvl.NewLeaky(tr, inner)
		if err != nil {
			return err
		}
		fmt.Printf("outer record holds %d inner records\n", outer.Len())
		outer.Drop(tr)
		return nil

	case "leak":
		// Deliberately discard without Drop to demonstrate the report.
		if _, err := hvl.NewLeaky(tr, make([]int64, n)); err != nil {
			return err
		}
		return nil

	default:
		return fmt.Errorf("unknown scenario %q", scenario)
	}
}

func printLedger(scenario string, tr *tracked.Tracker) {
	fmt.Println(titleStyle.Render("hvl-inspect: " + scenario))
	fmt.Println()

	for _, line := range ledgerLines(tr) {
		fmt.Println(line)
	}

	fmt.Println()
	fmt.Println(summaryLine(tr))
}

func ledgerLines(tr *tracked.Tracker) []string {
	events := tr.Events()
	lines := make([]string, 0, len(events))
	for _, e := range events {
		style := allocStyle
		if e.Type == tracked.EventFree {
			style = freeStyle
		}
		lines = append(lines, style.Render(
			fmt.Sprintf("%4d  %-5s  %10d B  0x%x", e.Seq, e.Type, e.Size, uintptr(e.Ptr))))
	}
	return lines
}

func summaryLine(tr *tracked.Tracker) string {
	leaks := tr.Report()
	summary := fmt.Sprintf("allocs=%d frees=%d peak=%d B", tr.Allocs(), tr.Frees(), tr.PeakBytes())
	if len(leaks) == 0 {
		return okStyle.Render(summary + "  no leaks")
	}
	var total uintptr
	for _, l := range leaks {
		total += l.Size
	}
	return leakStyle.Render(fmt.Sprintf("%s  LEAKED %d buffer(s), %d B", summary, len(leaks), total))
}
