// Package landing holds the copy for every section of the GPTunnel landing page.
package landing

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

type Link struct {
	Label string
	Href  string
}

// Card is an icon + title + text tile used by the hero stats, the feature
// grid and the contact cards.
type Card struct {
	Icon  string
	Title string
	Text  string
}

type Plan struct {
	Name        string
	Price       string
	Period      string
	Features    []string
	Icon        string
	Highlighted bool
}

type Field struct {
	Name        string
	Label       string
	Type        string
	Placeholder string
	Multiline   bool
}

type Hero struct {
	Badge     string
	Headline  []string
	Lead      string
	Primary   string
	Secondary string
	Stats     []Card
}

type Section struct {
	Badge     string
	BadgeIcon string
	Title     string
	Subtitle  string
}

type Chat struct {
	Section
	Empty       string
	Placeholder string
}

type Pricing struct {
	Section
	Popular string
	Choose  string
	Plans   []Plan
}

type Contact struct {
	Section
	Fields []Field
	Submit string
	Cards  []Card
}

type Footer struct {
	Tagline   string
	Links     []Link
	Socials   []string
	Copyright string
}

type Content struct {
	Brand    string
	Title    string
	Nav      []Link
	NavCTA   string
	Hero     Hero
	Features Section
	Grid     []Card
	Chat     Chat
	Pricing  Pricing
	Contact  Contact
	Footer   Footer
}

// Default returns the production copy.
func Default() *Content {
	return &Content{
		Brand: "GPTunnel",
		Title: "GPTunnel — мощь искусственного интеллекта в ваших руках",
		Nav: []Link{
			{"Функционал", "#features"},
			{"Тарифы", "#pricing"},
			{"Контакты", "#contact"},
		},
		NavCTA: "Начать",
		Hero: Hero{
			Badge:     "Powered by GPT-4",
			Headline:  []string{"Мощь искусственного", "интеллекта в ваших руках"},
			Lead:      "Создавайте контент, автоматизируйте процессы и общайтесь с продвинутым ИИ через удобный интерфейс",
			Primary:   "Попробовать бесплатно",
			Secondary: "Смотреть демо",
			Stats: []Card{
				{"Zap", "10x быстрее", "Генерация контента"},
				{"Shield", "100% безопасно", "Шифрование данных"},
				{"Users", "50k+ пользователей", "Доверяют нам"},
			},
		},
		Features: Section{
			Badge:     "Возможности",
			BadgeIcon: "Sparkles",
			Title:     "Функционал платформы",
			Subtitle:  "Всё необходимое для работы с ИИ в одном месте",
		},
		Grid: []Card{
			{"MessageSquare", "Умный чат", "Общайтесь с GPT-4 в реальном времени"},
			{"FileText", "Генерация текста", "Создавайте статьи, посты, описания"},
			{"Code", "Помощь в коде", "Пишите и отлаживайте код быстрее"},
			{"ImagePlus", "Работа с изображениями", "Генерация и анализ картинок"},
			{"Languages", "Переводы", "Точные переводы на 50+ языков"},
			{"BrainCircuit", "Анализ данных", "Извлекайте инсайты из информации"},
		},
		Chat: Chat{
			Section: Section{
				Badge:     "Попробуйте прямо сейчас",
				BadgeIcon: "Bot",
				Title:     "Демо GPT-чат",
				Subtitle:  "Испытайте возможности ИИ в действии",
			},
			Empty:       "Начните диалог с ИИ...",
			Placeholder: "Напишите ваш вопрос...",
		},
		Pricing: Pricing{
			Section: Section{
				Badge:     "Тарифы",
				BadgeIcon: "DollarSign",
				Title:     "Выберите свой план",
				Subtitle:  "Гибкие тарифы для любых задач",
			},
			Popular: "Популярный",
			Choose:  "Выбрать план",
			Plans: []Plan{
				{
					Name:     "Старт",
					Price:    "990₽",
					Period:   "месяц",
					Features: []string{"100 запросов/день", "GPT-3.5", "Email поддержка", "Базовая аналитика"},
					Icon:     "Rocket",
				},
				{
					Name:        "Про",
					Price:       "2990₽",
					Period:      "месяц",
					Features:    []string{"1000 запросов/день", "GPT-4", "Приоритетная поддержка", "Расширенная аналитика", "API доступ"},
					Icon:        "Zap",
					Highlighted: true,
				},
				{
					Name:     "Бизнес",
					Price:    "9990₽",
					Period:   "месяц",
					Features: []string{"Безлимит запросов", "GPT-4 Turbo", "Персональный менеджер", "Кастомная интеграция", "SLA 99.9%"},
					Icon:     "Crown",
				},
			},
		},
		Contact: Contact{
			Section: Section{
				Badge:     "Свяжитесь с нами",
				BadgeIcon: "Mail",
				Title:     "Остались вопросы?",
				Subtitle:  "Мы поможем найти лучшее решение для вас",
			},
			Fields: []Field{
				{Name: "name", Label: "Ваше имя", Type: "text", Placeholder: "Иван Иванов"},
				{Name: "email", Label: "Email", Type: "email", Placeholder: "ivan@example.com"},
				{Name: "subject", Label: "Тема", Type: "text", Placeholder: "Вопрос по тарифам"},
				{Name: "message", Label: "Сообщение", Placeholder: "Расскажите, чем мы можем помочь...", Multiline: true},
			},
			Submit: "Отправить сообщение",
			Cards: []Card{
				{"Mail", "Email", "hello@gptunnel.ru"},
				{"Phone", "Телефон", "+7 (495) 123-45-67"},
				{"MapPin", "Офис", "Москва, ул. Примерная, 1"},
			},
		},
		Footer: Footer{
			Tagline: "Искусственный интеллект для вашего бизнеса",
			Links: []Link{
				{"О нас", "#"},
				{"Блог", "#"},
				{"API", "#"},
				{"Документация", "#"},
			},
			Socials:   []string{"Github", "Twitter", "Linkedin", "Youtube"},
			Copyright: "© 2024 GPTunnel. Все права защищены.",
		},
	}
}

// Validate checks the structural rules the page relies on.
func (c *Content) Validate() error {
	var errs []error
	if c.Brand == "" {
		errs = append(errs, errors.New("brand is empty"))
	}
	if len(c.Nav) == 0 {
		errs = append(errs, errors.New("nav has no links"))
	}
	if len(c.Pricing.Plans) == 0 {
		errs = append(errs, errors.New("no pricing plans"))
	}
	if n := len(c.HighlightedPlans()); n != 1 {
		errs = append(errs, fmt.Errorf("expected exactly one highlighted plan, got %d", n))
	}
	for _, p := range c.Pricing.Plans {
		if len(p.Features) == 0 {
			errs = append(errs, fmt.Errorf("plan %q lists no features", p.Name))
		}
	}
	return errors.Join(errs...)
}

func (c *Content) HighlightedPlans() []Plan {
	var out []Plan
	for _, p := range c.Pricing.Plans {
		if p.Highlighted {
			out = append(out, p)
		}
	}
	return out
}

// IconID maps a lucide component name ("BrainCircuit") to its iconify id
// ("lucide:brain-circuit").
func IconID(name string) string {
	var b strings.Builder
	b.WriteString("lucide:")
	prevLower := false
	for i, r := range name {
		if unicode.IsUpper(r) || (unicode.IsDigit(r) && prevLower) {
			if i > 0 {
				b.WriteByte('-')
			}
			prevLower = false
		} else {
			prevLower = unicode.IsLower(r)
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
