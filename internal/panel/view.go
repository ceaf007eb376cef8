package panel

import (
	"time"

	"github.com/MrSnakeDoc/blockpanel/internal/domain"
	"github.com/MrSnakeDoc/blockpanel/internal/i18n"
	"github.com/MrSnakeDoc/blockpanel/internal/lockdown"
	"github.com/MrSnakeDoc/blockpanel/internal/wizard"
)

// Notice is a transient message shown to the operator.
type Notice struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// LockdownView is the lockdown banner and toast as rendered.
type LockdownView struct {
	Active           bool       `json:"active"`
	EndsAt           *time.Time `json:"ends_at,omitempty"`
	Remaining        string     `json:"remaining"`
	RemainingSeconds int        `json:"remaining_seconds"`
	Notice           *Notice    `json:"notice,omitempty"`
}

// View is everything the page needs to render the panel.
type View struct {
	Locale   i18n.Locale          `json:"locale"`
	Strings  map[string]string    `json:"strings"`
	Apps     []domain.Application `json:"apps"`
	Total    int                  `json:"total"`
	Blocked  int                  `json:"blocked"`
	Adding   bool                 `json:"adding"`
	Lockdown LockdownView         `json:"lockdown"`
	Wizard   wizard.Snapshot      `json:"wizard"`
	Target   *domain.Application  `json:"target,omitempty"`
}

// State builds the full view model, with strings in locale l.
func (p *Panel) State(l i18n.Locale) View {
	apps := p.registry.List()
	blocked := 0
	for _, a := range apps {
		if a.Blocked() {
			blocked++
		}
	}

	v := View{
		Locale:   l,
		Strings:  i18n.Table(l),
		Apps:     apps,
		Total:    len(apps),
		Blocked:  blocked,
		Adding:   p.Adding(),
		Lockdown: p.lockdownView(p.lockdown.State(), l),
		Wizard:   p.wizard.Snapshot(),
	}
	if v.Wizard.Open {
		if app, ok := p.registry.Get(v.Wizard.TargetID); ok {
			v.Target = &app
		}
	}
	return v
}

func (p *Panel) lockdownView(s lockdown.State, l i18n.Locale) LockdownView {
	v := LockdownView{
		Active:           s.Active,
		Remaining:        lockdown.FormatRemaining(s.Remaining),
		RemainingSeconds: int(s.Remaining / time.Second),
	}
	if s.Active {
		end := s.EndsAt
		v.EndsAt = &end
	}
	if s.NoticeVisible() {
		v.Notice = &Notice{
			Key:  string(i18n.LockdownAlertTrigger),
			Text: i18n.T(l, i18n.LockdownAlertTrigger),
		}
	}
	return v
}
