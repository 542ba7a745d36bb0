// Package tui is the interactive viewer: a searchable row list, a detail panel
// for the selected row and the taxonomy reference.
package tui

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/models"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/output"
	"github.com/ukaji3/tweetcode-go/pkg/tweetcode/session"
)

// SelectPrompt is shown in the detail panel while no row is selected.
const SelectPrompt = "Soldan bir tweet seçiniz."

const (
	minListWidth = 24
	chromeHeight = 4
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
	focusStyle    = panelStyle.BorderForeground(lipgloss.Color("12"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// exportedMsg reports the outcome of writing an export file.
type exportedMsg struct {
	path string
	err  error
}

// Model is the bubbletea model. It drives one session.Store.
type Model struct {
	store      *session.Store
	taxonomy   []models.TaxonomyCategory
	exportPath string

	keys   keyMap
	help   help.Model
	search textinput.Model
	path   textinput.Model
	detail viewport.Model

	results      []models.SequenceID
	cursor       int
	searching    bool
	opening      bool
	showTaxonomy bool
	status       string
	statusErr    bool

	width  int
	height int
}

// New creates a model over a loaded store. taxonomy may be empty.
func New(store *session.Store, taxonomy []models.TaxonomyCategory, exportPath string) *Model {
	search := textinput.New()
	search.Placeholder = "Tweet ara..."
	search.Prompt = "/ "

	path := textinput.New()
	path.Placeholder = "kodlama_sonuclari.xlsx"
	path.Prompt = "Dosya: "

	m := &Model{
		store:      store,
		taxonomy:   taxonomy,
		exportPath: exportPath,
		keys:       newKeyMap(),
		help:       help.New(),
		search:     search,
		path:       path,
		detail:     viewport.New(60, 20),
	}
	m.refilter()
	m.refreshDetail()
	return m
}

// ExportPath returns the file ctrl+s writes to.
func (m *Model) ExportPath() string { return m.exportPath }

// Run starts the program on the alternate screen and blocks until it exits.
func Run(m *Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.applyLayout()
		return m, nil

	case exportedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("Dışa aktarma başarısız: %v", msg.err))
			slog.Warn("export failed", "component", "tui", "path", msg.path, "error", msg.err)
		} else {
			m.setStatus("Dışa aktarıldı: " + msg.path)
			slog.Info("table exported", "component", "tui", "path", msg.path)
		}
		return m, nil

	case tea.KeyMsg:
		if m.opening {
			return m, m.updateOpen(msg)
		}
		if m.searching {
			return m, m.updateSearch(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) updateSearch(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.leave) {
		m.searching = false
		m.search.Blur()
		return nil
	}
	if msg.Type == tea.KeyCtrlC {
		return tea.Quit
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != before {
		m.refilter()
	}
	return cmd
}

func (m *Model) updateOpen(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		return tea.Quit
	case tea.KeyEsc:
		m.closeOpen()
		return nil
	case tea.KeyEnter:
		path := strings.TrimSpace(m.path.Value())
		m.closeOpen()
		if path != "" {
			m.loadFile(path)
		}
		return nil
	}

	var cmd tea.Cmd
	m.path, cmd = m.path.Update(msg)
	return cmd
}

func (m *Model) closeOpen() {
	m.opening = false
	m.path.Blur()
	m.path.Reset()
}

// loadFile replaces the table with the workbook at path. Loading the file
// that is already open keeps generated labels.
func (m *Model) loadFile(path string) {
	before := m.store.Source()
	if err := m.store.LoadFile(path); err != nil {
		m.setError(fmt.Sprintf("Yükleme başarısız: %v", err))
		slog.Warn("load failed", "component", "tui", "path", path, "error", err)
		return
	}
	if m.store.Source() == before {
		m.setStatus("Zaten yüklü: " + path)
		return
	}
	m.setStatus(fmt.Sprintf("Yüklendi: %s (%d satır)", path, len(m.store.Table().Rows)))
	m.showTaxonomy = false
	m.refilter()
	m.refreshDetail()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.quit):
		return tea.Quit
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m.search.Focus()
	case key.Matches(msg, m.keys.up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.down):
		if m.cursor < len(m.results)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.sel):
		m.selectCursor()
	case key.Matches(msg, m.keys.generate):
		m.generate(-1)
	case key.Matches(msg, m.keys.export):
		return m.exportCmd()
	case key.Matches(msg, m.keys.open):
		m.opening = true
		return m.path.Focus()
	case key.Matches(msg, m.keys.taxonomy):
		m.showTaxonomy = !m.showTaxonomy
		m.refreshDetail()
	case key.Matches(msg, m.keys.scrollUp):
		m.detail.SetYOffset(m.detail.YOffset - m.detail.Height/2)
	case key.Matches(msg, m.keys.scrollDown):
		m.detail.SetYOffset(m.detail.YOffset + m.detail.Height/2)
	case key.Matches(msg, m.keys.toggleHelp):
		m.help.ShowAll = !m.help.ShowAll
		m.applyLayout()
	default:
		for i, b := range m.keys.generateAt {
			if key.Matches(msg, b) {
				m.generate(i)
				break
			}
		}
	}
	return nil
}

// refilter reruns the search and keeps the cursor inside the result list.
func (m *Model) refilter() {
	m.results = m.store.Search(strings.TrimSpace(m.search.Value()), true)
	if m.cursor >= len(m.results) {
		m.cursor = len(m.results) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selectCursor() {
	if len(m.results) == 0 {
		return
	}
	if err := m.store.Select(m.results[m.cursor]); err != nil {
		m.setError(err.Error())
		return
	}
	m.status = ""
	m.showTaxonomy = false
	m.refreshDetail()
}

// generate fills a missing label of the selected row. A negative index picks
// the first missing hierarchical label.
func (m *Model) generate(index int) {
	row, ok := m.store.Selected()
	if !ok {
		m.setError(SelectPrompt)
		return
	}
	d := output.BuildDetail(m.store.Table(), row)

	var column string
	if index < 0 {
		columns := d.Generatable()
		if len(columns) == 0 {
			m.setError("Tüm etiketler dolu.")
			return
		}
		column = columns[0]
	} else {
		column = models.HierarchicalColumns[index]
	}

	tag, err := m.store.Generate(row.ID, column)
	if err != nil {
		m.setError(fmt.Sprintf("%s: %v", models.DisplayLabel(column), err))
		return
	}
	m.setStatus(fmt.Sprintf("%s etiketi üretildi: %s", models.DisplayLabel(column), tag))
	m.refreshDetail()
}

// exportCmd serializes the table now and writes the file in the background,
// so the store is never read outside Update.
func (m *Model) exportCmd() tea.Cmd {
	var buf bytes.Buffer
	if err := m.store.Export(&buf); err != nil {
		m.setError(fmt.Sprintf("Dışa aktarma başarısız: %v", err))
		return nil
	}
	path := m.exportPath
	return func() tea.Msg {
		return exportedMsg{path: path, err: os.WriteFile(path, buf.Bytes(), 0644)}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m *Model) refreshDetail() {
	m.detail.SetContent(m.detailContent())
	m.detail.GotoTop()
}

func (m *Model) detailContent() string {
	if m.showTaxonomy {
		if len(m.taxonomy) == 0 {
			return mutedStyle.Render("Taksonomi yüklenmedi.")
		}
		return output.TaxonomyMarkdown(m.taxonomy)
	}

	row, ok := m.store.Selected()
	if !ok {
		return mutedStyle.Render(SelectPrompt)
	}
	d := output.BuildDetail(m.store.Table(), row)

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Tweet #%d", row.ID)) + "\n\n")
	b.WriteString(output.DetailMarkdown(d))
	if columns := d.Generatable(); len(columns) > 0 {
		b.WriteString("\n")
		for _, c := range columns {
			for i, h := range models.HierarchicalColumns {
				if h == c {
					b.WriteString(mutedStyle.Render(fmt.Sprintf("[%d] %s için etiket üret", i+1, models.DisplayLabel(c))) + "\n")
				}
			}
		}
	}
	return b.String()
}

func (m *Model) listWidth() int {
	w := m.width * 2 / 5
	if w < minListWidth {
		w = minListWidth
	}
	return w
}

func (m *Model) bodyHeight() int {
	h := m.height - chromeHeight - lipgloss.Height(m.help.View(m.keys))
	if h < 3 {
		h = 3
	}
	return h
}

func (m *Model) applyLayout() {
	m.help.Width = m.width
	m.search.Width = m.listWidth() - 6
	m.path.Width = m.width - 10
	m.detail.Width = m.width - m.listWidth() - 4
	if m.detail.Width < 10 {
		m.detail.Width = 10
	}
	m.detail.Height = m.bodyHeight()
}

func (m *Model) View() string {
	if m.width == 0 {
		return "Yükleniyor..."
	}

	total := 0
	if t := m.store.Table(); t != nil {
		total = len(t.Rows)
	}
	header := titleStyle.Render("tweetcode") + mutedStyle.Render(fmt.Sprintf("  %s  %d/%d satır",
		m.store.Source(), len(m.results), total))

	left := panelStyle
	right := focusStyle
	if m.searching {
		left, right = focusStyle, panelStyle
	}
	list := left.Width(m.listWidth() - 2).Height(m.bodyHeight()).Render(m.renderList())
	detail := right.Width(m.detail.Width).Height(m.bodyHeight()).Render(m.detail.View())

	status := mutedStyle.Render(m.status)
	switch {
	case m.opening:
		status = m.path.View()
	case m.statusErr:
		status = errorStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		lipgloss.JoinHorizontal(lipgloss.Top, list, detail),
		status,
		m.help.View(m.keys),
	)
}

func (m *Model) renderList() string {
	lines := []string{m.search.View()}
	if len(m.results) == 0 {
		return strings.Join(append(lines, mutedStyle.Render("Sonuç yok.")), "\n")
	}

	visible := m.bodyHeight() - 1
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := start + visible
	if end > len(m.results) {
		end = len(m.results)
	}

	selected, hasSel := m.store.Selected()
	width := m.listWidth() - 4
	for i := start; i < end; i++ {
		id := m.results[i]
		row, _ := m.store.Table().Row(id)
		line := truncate(fmt.Sprintf("%d  %s", id, oneLine(row.Preview)), width-2)

		switch {
		case i == m.cursor:
			line = cursorStyle.Render("> " + line)
		case hasSel && selected.ID == id:
			line = selectedStyle.Render("• " + line)
		default:
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
