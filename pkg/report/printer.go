// Package report 负责把检查过程和结果输出到终端
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/samber/lo"
	"github.com/wentf9/sftpcheck/pkg/checker"
	"github.com/wentf9/sftpcheck/pkg/models"
)

type Printer struct {
	out io.Writer

	Green  func(format string, a ...interface{}) string
	Yellow func(format string, a ...interface{}) string
	Red    func(format string, a ...interface{}) string
}

// NewPrinter 颜色是否生效由 color.NoColor 决定
func NewPrinter(out io.Writer) *Printer {
	return &Printer{
		out:    out,
		Green:  color.New(color.FgGreen).SprintfFunc(),
		Yellow: color.New(color.FgYellow).SprintfFunc(),
		Red:    color.New(color.FgRed).SprintfFunc(),
	}
}

func (p *Printer) Attempt(ep models.Endpoint) {
	fmt.Fprintf(p.out, "Connecting to %s (%s:%d) as %s...\n", ep.Alias, ep.Host, ep.Port, ep.Username)
}

func (p *Printer) Result(r checker.Result) {
	if r.OK() {
		fmt.Fprintf(p.out, "%s Files in '%s' on %s: %s\n",
			p.Green("%s", "OK"), r.Endpoint.ListDir, r.Endpoint.Alias, formatList(r.Files))
		return
	}
	msg := fmt.Sprintf("An error occurred while connecting to %s: [%s] %v",
		r.Endpoint.Alias, checker.KindOf(r.Err), r.Err)
	fmt.Fprintln(p.out, p.Red("%s", msg))
}

func (p *Printer) ConfigError(err error) {
	fmt.Fprintln(p.out, p.Red("Error reading configuration file: %v", err))
}

func (p *Printer) NothingToDo() {
	fmt.Fprintln(p.out, p.Yellow("%s", "No valid configurations found. Exiting."))
}

// Summary 输出汇总行
func (p *Printer) Summary(results []checker.Result) {
	ok := lo.CountBy(results, func(r checker.Result) bool { return r.OK() })
	failed := len(results) - ok
	line := fmt.Sprintf("Checked %d endpoint(s): %d succeeded, %d failed", len(results), ok, failed)
	if failed > 0 {
		line = p.Yellow("%s", line)
	}
	fmt.Fprintln(p.out, line)
}

func formatList(files []string) string {
	quoted := lo.Map(files, func(f string, _ int) string { return strconv.Quote(f) })
	return "[" + strings.Join(quoted, ", ") + "]"
}
