package ui

import (
	"fmt"
	"net/url"

	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/buildinfo"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/internal/landing"
	"github.com/pr-poehali-dev/gptunnel-duplicate-project/pkg/types"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

func Layout(title string, content ...g.Node) g.Node {
	return g.Group([]g.Node{
		g.Raw("<!DOCTYPE html>"),
		HTML(
			Lang("ru"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1.0")),
				TitleEl(g.Text(title)),
				Link(Rel("stylesheet"), Href("/static/styles.css")),
				Script(Src("https://code.iconify.design/2/2.2.1/iconify.min.js")),
				Script(Src(htmxSrc)),
			),
			Body(content...),
		),
	})
}

func Icon(name string, size int) g.Node {
	return Span(
		Class("iconify"),
		g.Attr("data-icon", landing.IconID(name)),
		g.Attr("data-width", fmt.Sprint(size)),
		g.Attr("aria-hidden", "true"),
	)
}

func logo(brand string) g.Node {
	return Div(
		Class("logo"),
		Div(Class("logo-mark gradient-primary"), Icon("Sparkles", 24)),
		Span(Class("glow-text"), g.Text(brand)),
	)
}

func sectionHead(s landing.Section) g.Node {
	return Div(
		Class("section-head"),
		Span(Class("badge gradient-primary"), Icon(s.BadgeIcon, 16), g.Text(s.Badge)),
		H2(Class("glow-text"), g.Text(s.Title)),
		P(Class("muted"), g.Text(s.Subtitle)),
	)
}

func card(c landing.Card, centered bool) g.Node {
	cls := "card"
	if centered {
		cls = "card center"
	}
	return Div(
		Class(cls),
		Div(Class("icon-box gradient-primary"), Icon(c.Icon, 28)),
		H3(g.Text(c.Title)),
		P(Class("muted"), g.Text(c.Text)),
	)
}

func Topbar(c *landing.Content) g.Node {
	return Header(
		Class("topbar"),
		Nav(
			Class("container"),
			logo(c.Brand),
			Div(
				Class("links"),
				g.Group(g.Map(c.Nav, func(l landing.Link) g.Node {
					return A(Href(l.Href), g.Text(l.Label))
				})),
				A(Class("btn gradient-primary"), Href("#chat"), g.Text(c.NavCTA)),
			),
		),
	)
}

func HeroSection(h landing.Hero) g.Node {
	headline := make([]g.Node, 0, len(h.Headline)*2)
	for i, line := range h.Headline {
		if i > 0 {
			headline = append(headline, Br())
		}
		headline = append(headline, g.Text(line))
	}
	return Section(
		Class("hero"),
		Div(
			Class("container"),
			Span(Class("badge gradient-primary"), Icon("Zap", 16), g.Text(h.Badge)),
			H1(Class("glow-text"), g.Group(headline)),
			P(Class("lead muted"), g.Text(h.Lead)),
			Div(
				Class("actions"),
				A(Class("btn gradient-primary"), Href("#chat"), Icon("Rocket", 20), g.Text(h.Primary)),
				A(Class("btn"), Href("#chat"), Icon("PlayCircle", 20), g.Text(h.Secondary)),
			),
			Div(
				Class("grid cols-3 mt"),
				g.Group(g.Map(h.Stats, func(s landing.Card) g.Node { return card(s, true) })),
			),
		),
	)
}

func FeaturesSection(s landing.Section, grid []landing.Card) g.Node {
	return Section(
		ID("features"),
		Class("section alt"),
		Div(
			Class("container"),
			sectionHead(s),
			Div(
				Class("grid cols-3"),
				g.Group(g.Map(grid, func(c landing.Card) g.Node { return card(c, false) })),
			),
		),
	)
}

// MessageBubble renders one chat turn. Assistant HTML must already be sanitized.
func MessageBubble(role types.Role, text, safeHTML string, meta string) g.Node {
	if role == types.RoleUser {
		return Div(
			Class("bubble-row user"),
			Div(Class("bubble user gradient-primary"), g.Text(text)),
		)
	}
	return Div(
		Class("bubble-row assistant"),
		Div(
			Class("bubble assistant"),
			g.Raw(safeHTML),
			g.If(meta != "", Small(Class("meta muted"), g.Text(meta))),
		),
	)
}

// TypingIndicator is swapped out by the assistant reply once it is ready.
func TypingIndicator(sessionID string) g.Node {
	return Div(
		Class("bubble-row assistant"),
		g.Attr("hx-get", "/ui/chat/reply?s="+url.QueryEscape(sessionID)),
		g.Attr("hx-trigger", "load"),
		g.Attr("hx-swap", "outerHTML"),
		Div(
			Class("bubble assistant"),
			Div(Class("typing"), Span(), Span(), Span()),
		),
	)
}

func DemoChat(c landing.Chat, sessionID string, history []g.Node, typing bool) g.Node {
	return Section(
		ID("chat"),
		Class("section"),
		Div(
			Class("container"),
			sectionHead(c.Section),
			Div(
				Class("card chat glow-border"),
				Div(
					ID("chat-log"),
					Class("chat-log"),
					Div(
						Class("chat-empty muted"),
						Icon("MessageCircle", 48),
						P(g.Text(c.Empty)),
					),
					g.Group(history),
					g.If(typing, TypingIndicator(sessionID)),
				),
				Form(
					Class("chat-form"),
					g.Attr("hx-post", "/ui/chat"),
					g.Attr("hx-target", "#chat-log"),
					g.Attr("hx-swap", "beforeend scroll:bottom"),
					g.Attr("hx-on::after-request", "if (event.detail.successful) this.reset()"),
					Input(Type("hidden"), Name("session_id"), Value(sessionID)),
					Input(Type("text"), Name("message"), Placeholder(c.Placeholder), g.Attr("autocomplete", "off")),
					Button(Type("submit"), Class("btn gradient-primary"), g.Attr("aria-label", "send"), Icon("Send", 20)),
					Button(Type("button"), Class("btn"), g.Attr("hx-post", "/ui/session/new"), g.Attr("aria-label", "new chat"), Icon("RotateCcw", 20)),
				),
			),
		),
	)
}

func plan(p landing.Plan, popular, choose string) g.Node {
	cardClass, btnClass := "card plan center", "btn block"
	if p.Highlighted {
		cardClass += " highlighted glow-border"
		btnClass += " gradient-primary"
	}
	return Div(
		Class(cardClass),
		g.If(p.Highlighted, Div(Class("popular"), Span(Class("badge gradient-primary"), Icon("Star", 14), g.Text(popular)))),
		Div(Class("icon-box gradient-primary"), Icon(p.Icon, 32)),
		H3(g.Text(p.Name)),
		P(
			Span(Class("price glow-text"), g.Text(p.Price)),
			Span(Class("muted"), g.Text("/"+p.Period)),
		),
		Ul(g.Group(g.Map(p.Features, func(f string) g.Node {
			return Li(Icon("Check", 20), Span(g.Text(f)))
		}))),
		A(Class(btnClass), Href("#contact"), g.Text(choose)),
	)
}

func PricingSection(p landing.Pricing) g.Node {
	return Section(
		ID("pricing"),
		Class("section alt"),
		Div(
			Class("container"),
			sectionHead(p.Section),
			Div(
				Class("grid cols-3"),
				g.Group(g.Map(p.Plans, func(pl landing.Plan) g.Node { return plan(pl, p.Popular, p.Choose) })),
			),
		),
	)
}

func field(f landing.Field) g.Node {
	id := "contact-" + f.Name
	var control g.Node
	if f.Multiline {
		control = Textarea(ID(id), Name(f.Name), Placeholder(f.Placeholder))
	} else {
		control = Input(ID(id), Type(f.Type), Name(f.Name), Placeholder(f.Placeholder))
	}
	return Div(
		Label(g.Attr("for", id), g.Text(f.Label)),
		control,
	)
}

// ContactSection renders the contact form. It has no submit handler; the form
// only exists as page copy.
func ContactSection(c landing.Contact) g.Node {
	var pair, rest []landing.Field
	for i, f := range c.Fields {
		if i < 2 {
			pair = append(pair, f)
		} else {
			rest = append(rest, f)
		}
	}
	return Section(
		ID("contact"),
		Class("section"),
		Div(
			Class("container"),
			sectionHead(c.Section),
			Div(
				Class("card glow-border"),
				Form(
					Class("form"),
					g.Attr("onsubmit", "return false"),
					Div(Class("grid cols-2"), g.Group(g.Map(pair, field))),
					g.Group(g.Map(rest, field)),
					Button(Type("submit"), Class("btn block gradient-primary"), Icon("Send", 20), g.Text(c.Submit)),
				),
			),
			Div(
				Class("grid cols-3 mt"),
				g.Group(g.Map(c.Cards, func(cc landing.Card) g.Node { return card(cc, true) })),
			),
		),
	)
}

func PageFooter(brand string, f landing.Footer) g.Node {
	return Footer(
		Class("footer"),
		Div(
			Class("container"),
			Div(Class("row"), logo(brand)),
			P(Class("muted"), g.Text(f.Tagline)),
			Div(Class("row"), g.Group(g.Map(f.Links, func(l landing.Link) g.Node {
				return A(Href(l.Href), g.Text(l.Label))
			}))),
			Div(Class("row"), g.Group(g.Map(f.Socials, func(s string) g.Node {
				return A(Class("social"), Href("#"), g.Attr("aria-label", s), Icon(s, 20))
			}))),
			P(Class("muted"), g.Text(f.Copyright)),
			Div(g.Attr("hx-get", "/ui/version-pill"), g.Attr("hx-trigger", "load"), g.Attr("hx-swap", "outerHTML")),
		),
	)
}

func VersionPill() g.Node {
	return Span(
		Class("version-pill muted"),
		g.Textf("%s · %s · %s", buildinfo.Version, buildinfo.Commit, buildinfo.BuiltAt),
	)
}

// Page assembles the whole landing page.
func Page(c *landing.Content, sessionID string, history []g.Node, typing bool) g.Node {
	return Layout(
		c.Title,
		Topbar(c),
		Main(
			HeroSection(c.Hero),
			FeaturesSection(c.Features, c.Grid),
			DemoChat(c.Chat, sessionID, history, typing),
			PricingSection(c.Pricing),
			ContactSection(c.Contact),
		),
		PageFooter(c.Brand, c.Footer),
	)
}
