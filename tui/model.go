// Package tui is the terminal storefront. It drives the same app.Shop as the
// web front end, with the bubbletea event loop delivering one action at a time.
package tui

import (
	"fmt"
	"strings"
	"unicode"

	"bookstall/app"
	"bookstall/catalog"
	"bookstall/models"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
)

// CatalogReloadedMsg delivers a reloaded catalog into the event loop
type CatalogReloadedMsg struct {
	Catalog *catalog.Catalog
}

// Model is the bubbletea model of the terminal storefront
type Model struct {
	shop    *app.Shop
	state   app.State
	input   textinput.Model
	editing bool
	cursor  int
	step    decimal.Decimal
	styles  Styles
	err     error
	width   int
}

// New creates the storefront model. step is how far [ and ] move the price ceiling.
func New(shop *app.Shop, step decimal.Decimal) Model {
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.Placeholder = "title, author or tag"
	ti.CharLimit = 128

	if !step.IsPositive() {
		step = decimal.NewFromInt(1)
	}
	return Model{
		shop:   shop,
		state:  shop.InitialState(),
		input:  ti,
		step:   step,
		styles: DefaultStyles(),
	}
}

// State returns the current storefront state
func (m Model) State() app.State {
	return m.state
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case CatalogReloadedMsg:
		if msg.Catalog != nil {
			m.shop.SetCatalog(msg.Catalog)
			m.clampCursor()
		}
		return m, nil
	case tea.KeyMsg:
		if m.editing {
			return m.updateQuery(msg)
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) updateQuery(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.dispatch(app.SetQuery{Query: m.input.Value()})
	m.cursor = 0
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// notices and errors last until the next key press
	m.state.Notice = ""
	m.err = nil

	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "/":
		m.editing = true
		m.input.SetValue(m.state.Criteria.Query)
		m.input.CursorEnd()
		return m, m.input.Focus()
	case "s":
		m.dispatch(app.SetSort{Mode: nextSort(m.state.Criteria.Sort)})
	case "[":
		m.dispatch(app.SetMaxPrice{Max: m.state.Criteria.MaxPrice.Sub(m.step)})
	case "]":
		next := m.state.Criteria.MaxPrice.Add(m.step)
		if ceiling := m.shop.Catalog().MaxPrice(); next.GreaterThan(ceiling) {
			next = ceiling
		}
		m.dispatch(app.SetMaxPrice{Max: next})
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
	case "enter":
		if id, ok := m.selectedBook(); ok {
			m.dispatch(app.ShowDetails{ID: id})
		}
	case "a":
		if m.state.DetailID != "" {
			m.dispatch(app.AddToCart{ID: m.state.DetailID})
		} else if id, ok := m.selectedBook(); ok {
			m.dispatch(app.AddToCart{ID: id})
		}
	case "tab":
		m.dispatch(app.ToggleCart{})
		m.cursor = 0
	case "+", "=":
		if id, ok := m.selectedLine(); ok {
			m.dispatch(app.ChangeQty{ID: id, Delta: 1})
		}
	case "-":
		if id, ok := m.selectedLine(); ok {
			m.dispatch(app.ChangeQty{ID: id, Delta: -1})
		}
	case "x":
		if id, ok := m.selectedLine(); ok {
			m.dispatch(app.RemoveFromCart{ID: id})
		}
	case "o":
		m.dispatch(app.PlaceOrder{})
		if !m.state.CartOpen {
			m.cursor = 0
		}
	case "esc":
		switch {
		case m.state.DetailID != "":
			m.dispatch(app.CloseDetails{})
		case m.state.CartOpen:
			m.dispatch(app.ToggleCart{})
			m.cursor = 0
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if cats := m.shop.Catalog().Categories(); idx < len(cats) {
				m.dispatch(app.ToggleCategory{Category: cats[idx]})
			}
		}
	}
	m.clampCursor()
	return m, nil
}

func (m *Model) dispatch(a app.Action) {
	st, err := m.shop.Dispatch(m.state, a)
	m.state = st
	m.err = err
}

// selectedBook is the highlighted result when the cart panel is closed
func (m Model) selectedBook() (string, bool) {
	if m.state.CartOpen {
		return "", false
	}
	results := m.shop.Results(m.state)
	if m.cursor < 0 || m.cursor >= len(results) {
		return "", false
	}
	return results[m.cursor].ID, true
}

// selectedLine is the highlighted cart line when the cart panel is open
func (m Model) selectedLine() (string, bool) {
	if !m.state.CartOpen {
		return "", false
	}
	entries := m.shop.Cart().Entries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return "", false
	}
	return entries[m.cursor].Book.ID, true
}

func (m *Model) clampCursor() {
	n := len(m.shop.Results(m.state))
	if m.state.CartOpen {
		n = m.shop.Cart().Len()
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func nextSort(current models.SortMode) models.SortMode {
	current = models.ParseSortMode(string(current))
	for i, mode := range models.SortModes {
		if mode == current {
			return models.SortModes[(i+1)%len(models.SortModes)]
		}
	}
	return models.SortRelevance
}

// clean drops control characters so catalog text cannot move the cursor or
// emit terminal escape sequences.
func clean(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
