// Package ui renders repositories, batch results and account lists to the console.
package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"ghtool/pkg/github"
)

// Printer writes styled console output. Colors are only emitted when the
// writer is a terminal. Safe for concurrent use.
type Printer struct {
	mu  sync.Mutex
	out io.Writer

	header    lipgloss.Style
	private   lipgloss.Style
	public    lipgloss.Style
	archived  lipgloss.Style
	success   lipgloss.Style
	failure   lipgloss.Style
	skipped   lipgloss.Style
	simulated lipgloss.Style
	count     lipgloss.Style
}

// NewPrinter creates a printer for out
func NewPrinter(out io.Writer) *Printer {
	renderer := lipgloss.NewRenderer(out)
	return &Printer{
		out:       out,
		header:    renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		private:   renderer.NewStyle().Foreground(lipgloss.Color("11")),
		public:    renderer.NewStyle().Foreground(lipgloss.Color("10")),
		archived:  renderer.NewStyle().Foreground(lipgloss.Color("8")),
		success:   renderer.NewStyle().Foreground(lipgloss.Color("10")),
		failure:   renderer.NewStyle().Foreground(lipgloss.Color("9")),
		skipped:   renderer.NewStyle().Foreground(lipgloss.Color("8")),
		simulated: renderer.NewStyle().Foreground(lipgloss.Color("14")),
		count:     renderer.NewStyle().Foreground(lipgloss.Color("14")),
	}
}

// Writer returns the underlying writer
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Printf writes unstyled text
func (p *Printer) Printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format, args...)
}

// Println writes an unstyled line
func (p *Printer) Println(args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.out, args...)
}

// RepositoryDescription is the "Visibility (Archived: bool)" suffix shown after a repository name
func RepositoryDescription(repo github.Repository) string {
	return fmt.Sprintf("%s (Archived: %t)", repo.VisibilityLabel(), repo.Archived)
}

func (p *Printer) visibilityStyle(repo github.Repository) lipgloss.Style {
	if repo.Private {
		return p.private
	}
	return p.public
}

// Repositories prints a titled, numbered list of repositories
func (p *Printer) Repositories(title string, repos []github.Repository) {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, _ = fmt.Fprintln(p.out, p.header.Render(title))
	if len(repos) == 0 {
		_, _ = fmt.Fprintln(p.out, "No repositories found.")
		return
	}

	for i, repo := range repos {
		archived := fmt.Sprintf("(Archived: %t)", repo.Archived)
		if repo.Archived {
			archived = p.archived.Render(archived)
		}
		_, _ = fmt.Fprintf(p.out, "%d. %s - %s %s\n",
			i+1,
			repo.Name,
			p.visibilityStyle(repo).Render(repo.VisibilityLabel()),
			archived,
		)
	}
}

// Item prints one batch result line as soon as it resolves
func (p *Printer) Item(item github.ItemResult) {
	var line string
	switch item.Outcome {
	case github.OutcomeSucceeded:
		line = p.success.Render("✅ " + item.Message)
	case github.OutcomeFailed:
		line = p.failure.Render("❌ " + item.Message)
		if github.IsPermissionError(item.Err) {
			line += "\n   " + p.failure.Render("Permission denied: you must be an admin of this repository.")
		}
	case github.OutcomeSkipped:
		line = p.skipped.Render("⏭️  " + item.Message)
	case github.OutcomeSimulated:
		line = p.simulated.Render(item.Message)
	default:
		line = item.Message
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.out, line)
}

// Report implements github.Reporter
func (p *Printer) Report(item github.ItemResult) {
	p.Item(item)
}

// Summary prints the aggregate outcome of a batch
func (p *Printer) Summary(result *github.BatchResult) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if result.Summary.Total > 1 {
		switch result.Action {
		case github.ActionDelete:
			_, _ = fmt.Fprintln(p.out, "All selected repositories have been processed for deletion.")
		case github.ActionVisibility:
			_, _ = fmt.Fprintln(p.out, "All selected repositories have been processed for visibility change.")
		}
	}

	summary := result.Summary
	_, _ = fmt.Fprintf(p.out, "📊 %s succeeded, %s failed, %s skipped",
		p.count.Render(fmt.Sprintf("%d", summary.SucceededCount)),
		p.count.Render(fmt.Sprintf("%d", summary.FailedCount)),
		p.count.Render(fmt.Sprintf("%d", summary.SkippedCount)),
	)
	if result.DryRun {
		_, _ = fmt.Fprintf(p.out, ", %s simulated (dry run)", p.count.Render(fmt.Sprintf("%d", summary.SimulatedCount)))
	}
	_, _ = fmt.Fprintln(p.out)
}

// Accounts prints the known accounts and marks the active one
func (p *Printer) Accounts(known []string, active string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(known) == 0 && active == "" {
		_, _ = fmt.Fprintln(p.out, "No accounts added. Run 'ghtool add-account' to add one.")
		return
	}

	_, _ = fmt.Fprintln(p.out, p.header.Render("Accounts:"))
	listed := false
	for _, name := range known {
		if name == active {
			listed = true
			_, _ = fmt.Fprintf(p.out, "* %s %s\n", name, p.success.Render("(active)"))
			continue
		}
		_, _ = fmt.Fprintf(p.out, "  %s\n", name)
	}
	if !listed && active != "" {
		_, _ = fmt.Fprintf(p.out, "* %s %s\n", active, p.success.Render("(active)"))
	}
}

var _ github.Reporter = (*Printer)(nil)
