package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/perfy/internal/wrapper"
	"github.com/psantana5/perfy/pkg/perf"
)

// Run is one measured execution inside a report
type Run struct {
	Name     string       `json:"name" yaml:"name"`
	ExitCode int          `json:"exit_code" yaml:"exit_code"`
	Error    string       `json:"error,omitempty" yaml:"error,omitempty"`
	Result   *perf.Result `json:"result,omitempty" yaml:"result,omitempty"`
}

// Report collects every measured run of one perfy invocation
type Report struct {
	RunID   string `json:"run_id" yaml:"run_id"`
	Command string `json:"command" yaml:"command"`
	Host    Host   `json:"host" yaml:"host"`
	Runs    []Run  `json:"runs" yaml:"runs"`
}

// New creates an empty report with a fresh run id
func New(command []string, host Host) *Report {
	return &Report{
		RunID:   uuid.NewString(),
		Command: strings.Join(command, " "),
		Host:    host,
		Runs:    make([]Run, 0),
	}
}

// AddOutcomes appends wrapper outcomes in order
func (r *Report) AddOutcomes(outcomes ...wrapper.Outcome) {
	for _, o := range outcomes {
		run := Run{Name: o.Name, ExitCode: o.ExitCode, Result: o.Result}
		if o.Err != nil {
			run.Error = o.Err.Error()
		}
		r.Runs = append(r.Runs, run)
	}
}

// Failed counts runs that did not start or exited non-zero
func (r *Report) Failed() int {
	n := 0
	for _, run := range r.Runs {
		if run.Error != "" || run.ExitCode != 0 {
			n++
		}
	}
	return n
}

// Write renders the report as table, json or yaml
func (r *Report) Write(w io.Writer, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(r)

	case "yaml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(r); err != nil {
			return err
		}
		return encoder.Close()

	case "table", "":
		return r.writeTable(w)

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func (r *Report) writeTable(w io.Writer) error {
	fmt.Fprintf(w, "Run %s on %s (%s/%s, %d CPUs)\n", r.RunID, r.Host.Hostname, r.Host.OS, r.Host.Architecture, r.Host.LogicalCPUs)
	fmt.Fprintf(w, "Command: %s\n\n", r.Command)

	if len(r.Runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Timer", "Exit", "Seconds", "Nanoseconds", "Full ms", "Time (s)", "Summary")

	for _, run := range r.Runs {
		exit := strconv.Itoa(run.ExitCode)
		if run.Error != "" {
			exit = "error"
		}
		if run.Result == nil {
			if err := table.Append(run.Name, exit, "-", "-", "-", "-", run.Error); err != nil {
				return err
			}
			continue
		}

		res := run.Result
		if err := table.Append(
			run.Name,
			exit,
			strconv.FormatInt(res.Seconds, 10),
			strconv.FormatInt(res.Nanoseconds, 10),
			strconv.FormatFloat(res.FullMilliseconds, 'f', 3, 64),
			strconv.FormatFloat(res.Time, 'f', 3, 64),
			res.Summary,
		); err != nil {
			return err
		}
	}

	return table.Render()
}
