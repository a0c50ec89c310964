package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// ProgressBar displays capture progress as subnets are fetched.
type ProgressBar struct {
	w       io.Writer
	title   string
	total   int
	current int
	failed  int
	width   int
	mu      sync.Mutex
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(w io.Writer, title string) *ProgressBar {
	return &ProgressBar{
		w:     w,
		title: title,
		width: 30,
	}
}

// Update records that done of total subnets were processed, failed of them
// unsuccessfully. Its signature matches service.ProgressFunc.
func (p *ProgressBar) Update(done, failed, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = done
	p.failed = failed
	p.total = total
	p.render()
}

// Finish terminates the progress line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.render()
	fmt.Fprintln(p.w)
}

func (p *ProgressBar) render() {
	if p.total <= 0 {
		fmt.Fprintf(p.w, "\r%s %d", p.title, p.current)
		return
	}

	percent := float64(p.current) / float64(p.total)
	if percent > 1 {
		percent = 1
	}

	filled := int(float64(p.width) * percent)
	bar := strings.Repeat("#", filled) + strings.Repeat(".", p.width-filled)

	fmt.Fprintf(p.w, "\r%s [%s] %3.0f%% (%d/%d subnets", p.title, bar, percent*100, p.current, p.total)
	if p.failed > 0 {
		fmt.Fprintf(p.w, ", %d failed", p.failed)
	}
	fmt.Fprint(p.w, ")")
}

// FormatBytes formats bytes to human readable string.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
