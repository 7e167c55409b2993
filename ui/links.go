package ui

import (
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pettabs/pettabs/internal/settings"
	"github.com/pettabs/pettabs/utils"
	"github.com/sahilm/fuzzy"
)

// linksModel renders the quick links bar with fuzzy filtering and
// copy-to-clipboard.
type linksModel struct {
	links    []settings.QuickLink
	visible  []settings.QuickLink
	selected int

	filtering bool
	filter    textinput.Model
}

func newLinksModel(links []settings.QuickLink) linksModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.CharLimit = 40
	return linksModel{links: links, visible: links, filter: ti}
}

func (m *linksModel) setLinks(links []settings.QuickLink) {
	m.links = links
	m.applyFilter()
}

func (m *linksModel) applyFilter() {
	query := m.filter.Value()
	if query == "" {
		m.visible = m.links
	} else {
		names := make([]string, len(m.links))
		for i, l := range m.links {
			names[i] = l.Name + " " + l.URL
		}
		matches := fuzzy.Find(query, names)
		m.visible = make([]settings.QuickLink, len(matches))
		for i, match := range matches {
			m.visible[i] = m.links[match.Index]
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = 0
	}
}

// copySelected puts the selected link's URL on the system clipboard and
// returns a status line for the dashboard.
func (m *linksModel) copySelected() string {
	if len(m.visible) == 0 {
		return ""
	}
	link := m.visible[m.selected]
	if err := clipboard.WriteAll(link.URL); err != nil {
		return "clipboard unavailable"
	}
	return "copied " + link.URL
}

func (m linksModel) update(msg tea.KeyMsg) (linksModel, tea.Cmd) {
	if m.filtering {
		switch msg.String() {
		case "enter", "esc":
			m.filtering = false
			m.filter.Blur()
			if msg.String() == "esc" {
				m.filter.SetValue("")
				m.applyFilter()
			}
			return m, nil
		default:
			var cmd tea.Cmd
			m.filter, cmd = m.filter.Update(msg)
			m.applyFilter()
			return m, cmd
		}
	}

	switch msg.String() {
	case "/":
		m.filtering = true
		return m, m.filter.Focus()
	case "left", "h":
		if m.selected > 0 {
			m.selected--
		}
	case "right", "l":
		if m.selected < len(m.visible)-1 {
			m.selected++
		}
	}
	return m, nil
}

func (m linksModel) view(width int) string {
	if len(m.links) == 0 {
		return ""
	}

	var parts []string
	for i, link := range m.visible {
		name := link.Name
		if name == "" {
			name = utils.DisplayName(link.URL)
		}
		name = utils.Truncate(name, 18)
		if i == m.selected && !m.filtering {
			parts = append(parts, selectedLinkStyle.Render(name))
		} else {
			parts = append(parts, linkStyle.Render(name))
		}
	}

	bar := strings.Join(parts, " ")
	if m.filtering {
		bar += "  " + m.filter.View()
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(bar)
}
