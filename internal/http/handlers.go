package http

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/robertorzech/budget/internal/core"
	"github.com/robertorzech/budget/internal/log"
)

type monthOption struct {
	Key   core.MonthKey
	Label string
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if s.templates == nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Templates not loaded",
			log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	current := core.MonthKeyOf(time.Now())
	selected := monthParam(r, current)

	var months []monthOption
	for _, key := range s.ledger.MonthKeys(current) {
		months = append(months, monthOption{Key: key, Label: key.Label()})
	}

	data := struct {
		Months     []monthOption
		Selected   core.MonthKey
		Categories []core.Category
	}{
		Months:     months,
		Selected:   selected,
		Categories: s.ledger.Categories(),
	}

	if err := s.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Index template execution failed",
			log.FieldError, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// handleMonthOverview renders the monthly summary partial: total,
// per-category groups sorted by amount, and the expense list.
func (s *Server) handleMonthOverview(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	key := monthParam(r, core.MonthKeyOf(time.Now()))

	cacheKey := "overview:" + string(key)
	if html, found := s.viewCache.Get(cacheKey); found {
		log.FromContext(r.Context()).DebugContext(r.Context(), "Overview cache hit",
			log.FieldMonth, string(key))
		_, _ = w.Write([]byte(html))
		return
	}

	html, err := s.renderMonthOverview(key)
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Month overview render failed",
			log.FieldError, err, log.FieldMonth, string(key))
		_, _ = w.Write([]byte(`<section id="month-overview"><div class="placeholder">Nie udało się załadować podsumowania</div></section>`))
		return
	}

	s.viewCache.Set(cacheKey, html)
	_, _ = w.Write([]byte(html))
}

func (s *Server) renderMonthOverview(key core.MonthKey) (string, error) {
	groups := s.ledger.ByCategoryForMonth(key)
	total := s.ledger.TotalForMonth(key)
	items := s.ledger.ExpensesForMonth(key)

	var maxCents int64
	for _, g := range groups {
		if g.Total.Cents > maxCents {
			maxCents = g.Total.Cents
		}
	}

	type groupRow struct {
		Icon   string
		Name   string
		Amount string
		Count  int
		Width  int
	}
	type itemRow struct {
		ID       int64
		Date     string
		Desc     string
		Icon     string
		Category string
		Amount   string
	}
	data := struct {
		Month  core.MonthKey
		Label  string
		Total  string
		Groups []groupRow
		Items  []itemRow
	}{
		Month: key,
		Label: key.Label(),
		Total: core.FormatPLN(total),
	}
	for _, g := range groups {
		width := 0
		if maxCents > 0 && g.Total.Cents > 0 {
			width = int((g.Total.Cents*100 + maxCents/2) / maxCents)
			if width < 2 {
				width = 2
			}
			if width > 100 {
				width = 100
			}
		}
		data.Groups = append(data.Groups, groupRow{
			Icon:   g.Category.Icon,
			Name:   g.Category.Name,
			Amount: core.FormatPLN(g.Total),
			Count:  len(g.Items),
			Width:  width,
		})
	}
	icons := s.categoryIcons()
	for _, e := range items {
		icon, ok := icons[e.Category]
		if !ok {
			icon = core.FallbackIcon
		}
		data.Items = append(data.Items, itemRow{
			ID:       e.ID,
			Date:     e.Date.Format("2006-01-02"),
			Desc:     e.Description,
			Icon:     icon,
			Category: e.Category,
			Amount:   core.FormatPLN(e.Amount),
		})
	}

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "month_overview.html", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// handleCategoryHistory renders the all-time expense list for one
// category, newest first.
func (s *Server) handleCategoryHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	name := sanitizeInput(r.URL.Query().Get("name"))
	if name == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Brak nazwy kategorii</div>`))
		return
	}

	cacheKey := "category:" + name
	if html, found := s.viewCache.Get(cacheKey); found {
		_, _ = w.Write([]byte(html))
		return
	}

	items := s.ledger.ExpensesForCategory(name)
	icon, ok := s.categoryIcons()[name]
	if !ok {
		icon = core.FallbackIcon
	}

	total := core.Money{}
	type itemRow struct {
		ID     int64
		Date   string
		Desc   string
		Amount string
	}
	data := struct {
		Icon  string
		Name  string
		Total string
		Items []itemRow
	}{Icon: icon, Name: name}
	for _, e := range items {
		total = total.Add(e.Amount)
		data.Items = append(data.Items, itemRow{
			ID:     e.ID,
			Date:   e.Date.Format("2006-01-02"),
			Desc:   e.Description,
			Amount: core.FormatPLN(e.Amount),
		})
	}
	data.Total = core.FormatPLN(total)

	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "category_history.html", data); err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Category template execution failed",
			log.FieldError, err, log.FieldCategory, name)
		_, _ = w.Write([]byte(`<div class="placeholder">Nie udało się załadować historii</div>`))
		return
	}
	html := buf.String()
	s.viewCache.Set(cacheKey, html)
	_, _ = w.Write([]byte(html))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Nieprawidłowe żądanie</div>`))
		return
	}

	category := sanitizeInput(r.Form.Get("category"))
	description := sanitizeInput(r.Form.Get("description"))
	amount := r.Form.Get("amount")

	e, err := s.ledger.AddExpense(r.Context(), category, description, amount)
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		switch err {
		case core.ErrEmptyCategory:
			_, _ = w.Write([]byte(`<div class="error">Wybierz kategorię</div>`))
		default:
			_, _ = w.Write([]byte(`<div class="error">Nieprawidłowa kwota</div>`))
		}
		return
	}

	s.viewCache.Flush()
	month := core.MonthKeyOf(e.Date)
	w.Header().Set("HX-Trigger", `{"expense:created": {"month": "`+string(month)+`"}}`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">Dodano: ` +
		template.HTMLEscapeString(e.Category) + ` — ` +
		template.HTMLEscapeString(core.FormatPLN(e.Amount)) + `</div>`))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Nieprawidłowe żądanie</div>`))
		return
	}

	id, err := strconv.ParseInt(r.Form.Get("id"), 10, 64)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Nieprawidłowy identyfikator</div>`))
		return
	}

	s.ledger.DeleteExpense(r.Context(), id)
	s.viewCache.Flush()
	w.Header().Set("HX-Trigger", `{"expense:deleted": {"id": `+strconv.FormatInt(id, 10)+`}}`)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`<div class="error">Nieprawidłowe żądanie</div>`))
		return
	}

	cat, err := s.ledger.AddCategory(r.Context(), sanitizeInput(r.Form.Get("name")))
	if err != nil {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`<div class="error">Podaj nazwę kategorii</div>`))
		return
	}

	s.viewCache.Flush()
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`<div class="success">` +
		template.HTMLEscapeString(cat.Icon+" "+cat.Name) + `</div>`))
}

// categoryIcons maps category names to their glyphs for item rows.
func (s *Server) categoryIcons() map[string]string {
	cats := s.ledger.Categories()
	icons := make(map[string]string, len(cats))
	for _, c := range cats {
		if _, ok := icons[c.Name]; !ok {
			icons[c.Name] = c.Icon
		}
	}
	return icons
}
