// Package term renders view models as lipgloss cards for the CLI.
package term

import (
	"strconv"
	"strings"

	"github.com/BearBump/trackbook/internal/view"
	"github.com/charmbracelet/lipgloss"
)

var (
	Primary     = lipgloss.Color("#4F46E5")
	Muted       = lipgloss.Color("#6B7280")
	Border      = lipgloss.Color("#D1D5DB")
	Success     = lipgloss.Color("#10B981")
	Destructive = lipgloss.Color("#EF4444")
	Warning     = lipgloss.Color("#F59E0B")
	Info        = lipgloss.Color("#3B82F6")
)

type Styles struct {
	Title    lipgloss.Style
	Badge    lipgloss.Style
	Card     lipgloss.Style
	Heading  lipgloss.Style
	Muted    lipgloss.Style
	Empty    lipgloss.Style
	Timeline lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Status   map[string]lipgloss.Style
}

func DefaultStyles() Styles {
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(Primary),
		Badge:    lipgloss.NewStyle().Bold(true).Padding(0, 1).Foreground(lipgloss.Color("#FFFFFF")).Background(Primary),
		Card:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Border).Padding(0, 1),
		Heading:  lipgloss.NewStyle().Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(Muted),
		Empty:    lipgloss.NewStyle().Italic(true).Foreground(Muted).Padding(1, 2),
		Timeline: lipgloss.NewStyle().PaddingLeft(2),
		Success:  lipgloss.NewStyle().Foreground(Success),
		Error:    lipgloss.NewStyle().Foreground(Destructive),
		Status: map[string]lipgloss.Style{
			"pending":    lipgloss.NewStyle().Foreground(Warning),
			"in-transit": lipgloss.NewStyle().Foreground(Info),
			"delivered":  lipgloss.NewStyle().Foreground(Success),
			"exception":  lipgloss.NewStyle().Foreground(Destructive),
		},
	}
}

type Renderer struct {
	styles Styles
}

func New() *Renderer {
	return &Renderer{styles: DefaultStyles()}
}

func (r *Renderer) WithStyles(s Styles) *Renderer {
	r.styles = s
	return r
}

func (r *Renderer) header(title string, count int) string {
	return lipgloss.JoinHorizontal(lipgloss.Center,
		r.styles.Title.Render(title), " ", r.styles.Badge.Render(strconv.Itoa(count)))
}

func (r *Renderer) Shipments(l view.ShipmentList) string {
	var sb strings.Builder
	sb.WriteString(r.header("Tracked Shipments", l.Count))
	sb.WriteString("\n")
	if l.Empty {
		sb.WriteString(r.styles.Empty.Render("No shipments being tracked. Add a tracking number to get started."))
		sb.WriteString("\n")
		return sb.String()
	}
	for _, c := range l.Cards {
		sb.WriteString(r.shipmentCard(c))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Renderer) shipmentCard(c view.ShipmentCard) string {
	status := r.styles.Status[c.Status.Class].Render(c.Status.Icon + " " + c.Status.Label)
	lines := []string{
		r.styles.Heading.Render(c.TrackingNumber) + "  " + r.styles.Muted.Render(c.Carrier),
		status + "  " + r.styles.Muted.Render(c.Delivery),
		r.styles.Muted.Render("id " + c.ID),
	}
	if c.Expanded {
		lines = append(lines, "", r.styles.Heading.Render("Tracking History"))
		for _, ev := range c.Timeline {
			lines = append(lines, r.styles.Timeline.Render(
				ev.Icon+" "+ev.Status+" · "+ev.Location+" · "+r.styles.Muted.Render(ev.Date)))
		}
	}
	return r.styles.Card.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) Contacts(l view.ContactList) string {
	var sb strings.Builder
	sb.WriteString(r.header("Contacts", l.Count))
	if l.Shown != l.Count {
		sb.WriteString(r.styles.Muted.Render("  showing " + strconv.Itoa(l.Shown)))
	}
	sb.WriteString("\n")
	if l.Empty {
		sb.WriteString(r.styles.Empty.Render(l.EmptyMessage))
		sb.WriteString("\n")
		return sb.String()
	}
	for _, c := range l.Cards {
		sb.WriteString(r.contactCard(c))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r *Renderer) contactCard(c view.ContactCard) string {
	lines := []string{
		r.styles.Heading.Render(c.Name) + "  " + r.styles.Muted.Render(c.CategoryLabel),
		"📞 " + c.Phone,
	}
	if c.Notes != "" {
		lines = append(lines, r.styles.Muted.Render(c.Notes))
	}
	lines = append(lines,
		r.styles.Muted.Render("Last contacted: "+c.LastContacted+" · "+c.Calls),
		r.styles.Muted.Render("id "+c.ID),
	)
	return r.styles.Card.Render(strings.Join(lines, "\n"))
}

func (r *Renderer) Toast(t view.Toast) string {
	if t.IsZero() {
		return ""
	}
	if t.Kind == view.ToastError {
		return r.styles.Error.Render("✗ " + t.Message)
	}
	return r.styles.Success.Render("✓ " + t.Message)
}
