package tui

import (
	"fmt"
	"strings"

	"bookstall/app"
)

const helpLine = "/ search  1-9 category  s sort  [ ] price  ↑↓ move  enter details  a add  tab cart  +/- qty  x remove  o checkout  esc close  q quit"

// View implements tea.Model
func (m Model) View() string {
	v := m.shop.Render(m.state)
	s := m.styles
	var b strings.Builder

	b.WriteString(s.Header.Render("Bookstall"))
	b.WriteString(" ")
	b.WriteString(s.Badge.Render(fmt.Sprintf("cart %d", v.ItemCount)))
	b.WriteString("\n\n")

	if m.editing {
		b.WriteString(m.input.View())
	} else if v.Query != "" {
		b.WriteString(s.Label.Render("Search: ") + clean(v.Query))
	} else {
		b.WriteString(s.Muted.Render("Press / to search"))
	}
	b.WriteString("\n")

	b.WriteString(m.renderFilters(v))
	b.WriteString("\n\n")

	switch {
	case v.Detail != nil:
		b.WriteString(m.renderDetail(*v.Detail))
	case v.CartOpen:
		b.WriteString(m.renderCart(v))
	default:
		b.WriteString(m.renderResults(v))
	}
	b.WriteString("\n")

	if v.Notice != "" {
		b.WriteString(s.Notice.Render(v.Notice) + "\n")
	}
	if m.err != nil {
		b.WriteString(s.Error.Render("error: "+m.err.Error()) + "\n")
	}
	b.WriteString(s.Help.Render(helpLine))
	return b.String()
}

func (m Model) renderFilters(v app.View) string {
	s := m.styles
	var parts []string
	for i, c := range v.Categories {
		label := fmt.Sprintf("%d %s", i+1, clean(string(c.Name)))
		if c.Selected {
			parts = append(parts, s.Selected.Render("["+label+"]"))
		} else {
			parts = append(parts, s.Muted.Render(" "+label+" "))
		}
	}

	var sortLabel string
	for _, o := range v.SortOptions {
		if o.Selected {
			sortLabel = o.Label
		}
	}

	return fmt.Sprintf("%s\n%s %s   %s %s of %s",
		strings.Join(parts, " "),
		s.Label.Render("Sort:"), sortLabel,
		s.Label.Render("Max:"), app.FormatPrice(v.MaxPrice), app.FormatPrice(v.PriceCeiling))
}

func (m Model) renderResults(v app.View) string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Muted.Render(plural(v.ResultCount, "book")) + "\n")
	if v.ResultCount == 0 {
		b.WriteString("No books match these filters.\n")
		return b.String()
	}
	for i, c := range v.Results {
		cursor := "  "
		line := fmt.Sprintf("%-32s %-20s %8s  ★ %.1f",
			truncate(clean(c.Title), 32),
			truncate(clean(c.Author), 20),
			app.FormatPrice(c.Price),
			c.Rating)
		if c.InCart > 0 {
			line += s.Badge.Render(fmt.Sprintf("×%d", c.InCart))
		}
		if i == m.cursor {
			cursor = "> "
			line = s.Selected.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	return b.String()
}

func (m Model) renderDetail(c app.Card) string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Label.Render(clean(c.Title)) + "\n")
	b.WriteString("by " + clean(c.Author))
	if c.Year > 0 {
		b.WriteString(fmt.Sprintf(", %d", c.Year))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("%s · %s · ★ %.1f\n", clean(string(c.Category)), s.Price.Render(app.FormatPrice(c.Price)), c.Rating))
	if len(c.Tags) > 0 {
		tags := make([]string, len(c.Tags))
		for i, t := range c.Tags {
			tags[i] = clean(t)
		}
		b.WriteString(s.Muted.Render("Tags: "+strings.Join(tags, ", ")) + "\n")
	}
	if c.Description != "" {
		width := 72
		if m.width > 8 && m.width-4 < width {
			width = m.width - 4
		}
		b.WriteString("\n" + s.Panel.Width(width).Render(clean(c.Description)) + "\n")
	}
	if c.InCart > 0 {
		b.WriteString(s.Muted.Render(fmt.Sprintf("In cart: %d", c.InCart)) + "\n")
	}
	b.WriteString(s.Muted.Render("a add to cart · esc close"))
	return b.String()
}

func (m Model) renderCart(v app.View) string {
	s := m.styles
	var b strings.Builder
	b.WriteString(s.Label.Render("Your cart") + "\n")
	if len(v.CartLines) == 0 {
		b.WriteString("Your cart is empty.\n")
		return b.String()
	}
	for i, l := range v.CartLines {
		cursor := "  "
		line := fmt.Sprintf("%-32s %3d × %8s = %9s",
			truncate(clean(l.Title), 32), l.Qty, app.FormatPrice(l.Price), app.FormatPrice(l.LineTotal))
		if i == m.cursor {
			cursor = "> "
			line = s.Selected.Render(line)
		}
		b.WriteString(cursor + line + "\n")
	}
	b.WriteString(fmt.Sprintf("\n%s %s (%s)\n",
		s.Label.Render("Subtotal:"), s.Price.Render(app.FormatPrice(v.Subtotal)), plural(v.ItemCount, "item")))
	b.WriteString(s.Muted.Render("o checkout · esc close"))
	return b.String()
}
