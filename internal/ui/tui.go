// Package ui provides the terminal config inspector.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/maryjis/brainmagick-MICCAI/internal/config"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Width(24)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// RunTUI starts the interactive inspector on a config file.
func RunTUI(ctx context.Context, path string) error {
	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}
	model := newModel(path)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type row struct {
	key   string
	value string
}

type section struct {
	name string
	rows []row
}

type model struct {
	path     string
	cfg      *config.Config
	loadErr  error
	sections []section
	cursor   int
	geometry bool
	showHelp bool
}

func newModel(path string) *model {
	m := &model{path: path}
	m.reload()
	return m
}

func (m *model) reload() {
	cfg, err := config.LoadFile(m.path)
	if err != nil {
		m.loadErr = err
		m.cfg = nil
		m.sections = nil
		return
	}
	m.loadErr = nil
	m.cfg = cfg
	m.sections = buildSections(cfg)
	if m.cursor >= len(m.sections) {
		m.cursor = 0
	}
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.cursor > 0 {
				m.cursor--
			}
			m.geometry = false
		case "right", "l", "tab":
			if m.cursor < len(m.sections)-1 {
				m.cursor++
			}
			m.geometry = false
		case "g":
			m.geometry = !m.geometry
		case "r", "f5":
			m.reload()
		case "?":
			m.showHelp = !m.showHelp
		}
	}
	return m, nil
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("bmconf — "+m.path) + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		return b.String()
	}
	if m.loadErr != nil {
		b.WriteString(errStyle.Render("config error") + "\n")
		b.WriteString("  " + m.loadErr.Error() + "\n\n")
		b.WriteString(footer())
		return b.String()
	}

	writeTabs(&b, m.sections, m.cursor, m.geometry)
	b.WriteString("\n")

	if m.geometry {
		writeGeometry(&b, &m.cfg.SimpleConv)
	} else {
		for _, r := range m.sections[m.cursor].rows {
			b.WriteString("  " + keyStyle.Render(r.key) + r.value + "\n")
		}
	}

	b.WriteString("\n" + footer())
	return b.String()
}

func writeTabs(b *strings.Builder, sections []section, cursor int, geometry bool) {
	names := make([]string, 0, len(sections)+1)
	for i, s := range sections {
		if i == cursor && !geometry {
			names = append(names, selectedStyle.Render(s.name))
		} else {
			names = append(names, sectionStyle.Render(s.name))
		}
	}
	if geometry {
		names = append(names, selectedStyle.Render("geometry"))
	} else {
		names = append(names, sectionStyle.Render("geometry"))
	}
	b.WriteString("  " + strings.Join(names, "  ") + "\n")
}

func writeGeometry(b *strings.Builder, sc *config.SimpleConv) {
	b.WriteString(fmt.Sprintf("  %-6s %-8s %-8s %-10s %-8s\n", "layer", "kernel", "stride", "dilation", "padding"))
	for _, l := range sc.Layers() {
		b.WriteString(fmt.Sprintf("  %-6d %-8d %-8d %-10d %-8d\n", l.Index, l.Kernel, l.Stride, l.Dilation, l.Padding))
	}
	b.WriteString(fmt.Sprintf("\n  receptive field: %d samples\n", sc.ReceptiveField()))
	if out := sc.ConfiguredOutputLen(); out >= 0 {
		b.WriteString(fmt.Sprintf("  output length:   %d\n", out))
	} else {
		b.WriteString("  output length:   inferred from input\n")
	}
}

func writeHelp(b *strings.Builder) {
	b.WriteString("  ←/→, tab   switch section\n")
	b.WriteString("  g          toggle per-layer geometry\n")
	b.WriteString("  r          reload file\n")
	b.WriteString("  ?          toggle help\n")
	b.WriteString("  q          quit\n")
}

func footer() string {
	return sectionStyle.Render("  ←/→ sections · g geometry · r reload · ? help · q quit") + "\n"
}

func buildSections(cfg *config.Config) []section {
	sc := &cfg.SimpleConv
	return []section{
		{
			name: "general",
			rows: []row{
				{"num_workers", fmt.Sprintf("%d", cfg.NumWorkers)},
				{"model_name", cfg.ModelName},
			},
		},
		{
			name: "simpleconv",
			rows: []row{
				{"hidden.meg", fmt.Sprintf("%d", sc.Hidden.MEG)},
				{"batch_norm", fmt.Sprintf("%t", sc.BatchNorm)},
				{"depth", fmt.Sprintf("%d", sc.Depth)},
				{"dilation_period", fmt.Sprintf("%d", sc.DilationPeriod)},
				{"skip", fmt.Sprintf("%t", sc.Skip)},
				{"subject_layers", fmt.Sprintf("%t", sc.SubjectLayers)},
				{"subject_dim", fmt.Sprintf("%d", sc.SubjectDim)},
				{"complex_out", fmt.Sprintf("%t", sc.ComplexOut)},
				{"glu", fmt.Sprintf("%d", sc.GLU)},
				{"glu_context", fmt.Sprintf("%d", sc.GLUContext)},
				{"merger", fmt.Sprintf("%t", sc.Merger)},
				{"merger_pos_dim", fmt.Sprintf("%d", sc.MergerPosDim)},
				{"initial_linear", fmt.Sprintf("%d", sc.InitialLinear)},
				{"gelu", fmt.Sprintf("%t", sc.GELU)},
				{"avg_pool_out", fmt.Sprintf("%t", sc.AvgPoolOut)},
				{"flatten_out", fmt.Sprintf("%t", sc.FlattenOut)},
				{"flatten_out_channels", fmt.Sprintf("%d", sc.FlattenOutChannels)},
				{"strides", intsString(sc.Strides)},
				{"kernel_size", intsString(sc.KernelSize)},
				{"padding", intsString(sc.Padding)},
				{"seq_len", fmt.Sprintf("%d", sc.SeqLen)},
				{"auto_padding", fmt.Sprintf("%t", sc.AutoPadding)},
				{"is_deformable_conv", fmt.Sprintf("%t", sc.IsDeformableConv)},
			},
		},
		{
			name: "optim",
			rows: []row{
				{"loss", cfg.Optim.Loss},
				{"epochs", fmt.Sprintf("%d", cfg.Optim.Epochs)},
				{"max_batches", fmt.Sprintf("%d", cfg.Optim.MaxBatches)},
				{"batch_size", fmt.Sprintf("%d", cfg.Optim.BatchSize)},
			},
		},
		{
			name: "norm",
			rows: []row{
				{"clip", fmt.Sprintf("%t", cfg.Norm.Clip)},
			},
		},
		{
			name: "task",
			rows: []row{
				{"type", cfg.Task.Type},
				{"offset_meg_ms", fmt.Sprintf("%d", cfg.Task.OffsetMEGMs)},
			},
		},
	}
}

func intsString(vals []int) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// IsTTY returns true if the writer is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, _ := f.Stat()
	return (info.Mode() & os.ModeCharDevice) != 0
}
