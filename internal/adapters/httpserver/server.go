package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
	"golang.org/x/oauth2"
	"gorm.io/datatypes"

	"github.com/lautarip/tiendamoda/internal/domain"
	"github.com/lautarip/tiendamoda/internal/usecase"
)

type Server struct {
	mux        *http.ServeMux
	products   *usecase.ProductUC
	attributes *usecase.AttributeUC
	variants   *usecase.VariantUC
	oauthCfg   *oauth2.Config

	adminAllowed map[string]struct{}
	adminSecret  []byte
}

func New(p *usecase.ProductUC, a *usecase.AttributeUC, v *usecase.VariantUC, oauthCfg *oauth2.Config) http.Handler {
	s := &Server{products: p, attributes: a, variants: v, oauthCfg: oauthCfg, mux: http.NewServeMux()}

	allowed := map[string]struct{}{}
	if raw := os.Getenv("ADMIN_ALLOWED_EMAILS"); raw != "" {
		for _, e := range strings.Split(raw, ",") {
			e = strings.ToLower(strings.TrimSpace(e))
			if e != "" {
				allowed[e] = struct{}{}
			}
		}
	}
	s.adminAllowed = allowed
	sec := os.Getenv("JWT_ADMIN_SECRET")
	if sec == "" {
		sec = os.Getenv("SECRET_KEY")
	}
	if sec == "" {
		sec = "dev-admin-secret"
	}
	s.adminSecret = []byte(sec)

	s.routes()
	return Chain(s.mux,
		PublicRateLimit(map[string]int{
			"/api/products": 120,
		}),
		RateLimit(60),
		Gzip,
		RequestID,
		Recovery,
		Logging,
	)
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/products", s.apiProducts)
	s.mux.HandleFunc("/api/products/", s.apiProductBySlug)

	// Atributos y valores (admin)
	// GET/POST /api/attributes · PUT/DELETE /api/attributes/{id}
	// POST /api/attributes/{id}/values · DELETE /api/attributes/{id}/values/{vid}
	s.mux.HandleFunc("/api/attributes", s.apiAttributes)
	s.mux.HandleFunc("/api/attributes/", s.apiAttributeByID)

	s.mux.HandleFunc("/auth/google/login", s.handleGoogleLogin)
	s.mux.HandleFunc("/auth/google/callback", s.handleGoogleCallback)
	s.mux.HandleFunc("/logout", s.handleLogout)

	s.mux.HandleFunc("/admin/login", s.handleAdminLogin)
	s.mux.HandleFunc("/admin/logout", s.handleAdminLogout)
	s.mux.HandleFunc("/admin/export/xlsx", s.handleAdminExportXLSX)
}

func (s *Server) apiProducts(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		qv := r.URL.Query()
		page, _ := strconv.Atoi(qv.Get("page"))
		pageSize, _ := strconv.Atoi(qv.Get("page_size"))
		list, total, err := s.products.List(r.Context(), domain.ProductFilter{
			Page: page, PageSize: pageSize,
			Query: qv.Get("q"), Category: qv.Get("category"), Sort: qv.Get("sort"),
		})
		if err != nil {
			http.Error(w, "list", 500)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list, "total": total})
		return
	}
	if r.Method == http.MethodPost {
		if !s.requireAdmin(w, r) {
			return
		}
		var req struct {
			Name      string         `json:"name"`
			Category  string         `json:"category"`
			ShortDesc string         `json:"short_desc"`
			BasePrice float64        `json:"base_price"`
			Brand     string         `json:"brand"`
			Metadata  map[string]any `json:"metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if req.Name == "" || req.BasePrice < 0 {
			http.Error(w, "datos", 400)
			return
		}
		p := &domain.Product{Name: req.Name, Category: req.Category, ShortDesc: req.ShortDesc, BasePrice: req.BasePrice, Brand: req.Brand, Metadata: datatypes.JSONMap(req.Metadata), Active: true}
		if err := s.products.Create(r.Context(), p); err != nil {
			http.Error(w, "crear", 500)
			return
		}
		writeJSON(w, 201, p)
		return
	}
	http.Error(w, "method", 405)
}

func (s *Server) apiProductBySlug(w http.ResponseWriter, r *http.Request) {
	// Nested: /api/products/{slug}/variants[...] · /options · /selection
	rest := strings.TrimPrefix(r.URL.Path, "/api/products/")
	switch {
	case strings.Contains(rest, "/variants"):
		s.apiProductVariants(w, r)
		return
	case strings.HasSuffix(rest, "/options"):
		s.apiProductOptions(w, r)
		return
	case strings.HasSuffix(rest, "/selection"):
		s.apiProductSelection(w, r)
		return
	}
	if r.Method == http.MethodGet {
		p, err := s.products.GetBySlug(r.Context(), rest)
		if err != nil {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, 200, p)
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method == http.MethodPut {
		p, err := s.products.GetBySlug(r.Context(), rest)
		if err != nil || p == nil {
			http.Error(w, "not found", 404)
			return
		}
		var req struct {
			Name      *string        `json:"name"`
			Category  *string        `json:"category"`
			ShortDesc *string        `json:"short_desc"`
			BasePrice *float64       `json:"base_price"`
			Brand     *string        `json:"brand"`
			Active    *bool          `json:"active"`
			Metadata  map[string]any `json:"metadata"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if req.Name != nil {
			p.Name = *req.Name
		}
		if req.Category != nil {
			p.Category = *req.Category
		}
		if req.ShortDesc != nil {
			p.ShortDesc = *req.ShortDesc
		}
		if req.BasePrice != nil && *req.BasePrice >= 0 {
			p.BasePrice = *req.BasePrice
		}
		if req.Brand != nil {
			p.Brand = *req.Brand
		}
		if req.Active != nil {
			p.Active = *req.Active
		}
		if req.Metadata != nil {
			p.Metadata = datatypes.JSONMap(req.Metadata)
		}
		if err := s.products.Create(r.Context(), p); err != nil {
			http.Error(w, "save", 500)
			return
		}
		writeJSON(w, 200, p)
		return
	}
	if r.Method == http.MethodDelete {
		if rest == "" {
			http.Error(w, "slug", 400)
			return
		}
		if err := s.products.DeleteBySlug(r.Context(), rest); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.Error(w, "not found", 404)
				return
			}
			http.Error(w, "delete", 500)
			return
		}
		writeJSON(w, 200, map[string]any{"status": "ok", "slug": rest})
		return
	}
	http.Error(w, "method", 405)
}

// /api/products/{slug}/variants · /variants/{id} · /variants/generate
func (s *Server) apiProductVariants(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/")
	if len(parts) < 2 || parts[1] != "variants" {
		http.Error(w, "path", 404)
		return
	}
	slug := parts[0]
	p, err := s.products.GetBySlug(r.Context(), slug)
	if err != nil || p == nil {
		http.Error(w, "prod", 404)
		return
	}
	if r.Method == http.MethodGet {
		list, err := s.products.ListVariants(r.Context(), p.ID)
		if err != nil {
			http.Error(w, "list", 500)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list})
		return
	}
	if !s.requireAdmin(w, r) {
		return
	}
	// POST /api/products/{slug}/variants/generate
	if r.Method == http.MethodPost && len(parts) == 3 && parts[2] == "generate" {
		var req struct {
			Picks    []usecase.VariantPick   `json:"picks"`
			Template usecase.VariantTemplate `json:"template"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		rep, err := s.variants.Generate(r.Context(), p.ID, req.Picks, req.Template)
		if err != nil {
			http.Error(w, "generate", 500)
			return
		}
		writeJSON(w, 200, rep)
		return
	}
	if r.Method == http.MethodDelete && len(parts) == 3 {
		vid, err := uuid.Parse(parts[2])
		if err != nil {
			http.Error(w, "variant", 400)
			return
		}
		if err := s.products.DeleteVariant(r.Context(), vid); err != nil {
			http.Error(w, "delete", 500)
			return
		}
		writeJSON(w, 200, map[string]any{"status": "ok"})
		return
	}
	if r.Method == http.MethodPost || r.Method == http.MethodPut {
		var req struct {
			ID          string                  `json:"id"`
			SKU         string                  `json:"sku"`
			Price       float64                 `json:"price"`
			Stock       int                     `json:"stock"`
			Available   *bool                   `json:"available"`
			ImageURLs   []string                `json:"image_urls"`
			Assignments []domain.AssignmentPair `json:"assignments"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if req.Price < 0 || req.Stock < 0 {
			http.Error(w, "datos", 400)
			return
		}
		var v domain.Variant
		if req.ID != "" {
			if uid, err := uuid.Parse(req.ID); err == nil {
				v.ID = uid
			}
		}
		v.ProductID = p.ID
		v.SKU = strings.TrimSpace(req.SKU)
		v.Price = req.Price
		v.Stock = req.Stock
		v.Available = req.Available == nil || *req.Available
		v.ImageURLs = req.ImageURLs
		for _, pair := range req.Assignments {
			if pair.AttributeID == uuid.Nil || pair.AttributeValueID == uuid.Nil {
				continue
			}
			v.Assignments = append(v.Assignments, domain.VariantAssignment{
				AttributeID:      pair.AttributeID,
				AttributeValueID: pair.AttributeValueID,
			})
		}
		if v.ID == uuid.Nil {
			err = s.products.CreateVariant(r.Context(), &v)
		} else {
			err = s.products.UpdateVariant(r.Context(), &v)
		}
		if err != nil {
			http.Error(w, "save", 500)
			return
		}
		writeJSON(w, 200, v)
		return
	}
	http.Error(w, "method", 405)
}

type optionValueDTO struct {
	ID         uuid.UUID `json:"id"`
	Value      string    `json:"value"`
	Selected   bool      `json:"selected"`
	Available  bool      `json:"available"`
	OutOfStock bool      `json:"out_of_stock"`
}

type optionAxisDTO struct {
	AttributeID uuid.UUID        `json:"attribute_id"`
	Name        string           `json:"name"`
	Values      []optionValueDTO `json:"values"`
}

func axesState(res *domain.Resolver) []optionAxisDTO {
	sel := res.Selection()
	out := []optionAxisDTO{}
	for _, ax := range res.Axes() {
		dto := optionAxisDTO{AttributeID: ax.Attribute.ID, Name: ax.Attribute.Name}
		for _, val := range ax.Values {
			dto.Values = append(dto.Values, optionValueDTO{
				ID:         val.ID,
				Value:      val.Value,
				Selected:   sel[ax.Attribute.ID] == val.ID,
				Available:  res.IsValueAvailable(ax.Attribute.ID, val.ID),
				OutOfStock: res.IsValueOutOfStock(ax.Attribute.ID, val.ID),
			})
		}
		out = append(out, dto)
	}
	return out
}

// GET /api/products/{slug}/options — ejes de opciones para el primer render,
// con los ejes de valor único ya preseleccionados.
func (s *Server) apiProductOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	slug := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/options")
	slug = strings.TrimSuffix(slug, "/")
	p, err := s.products.GetBySlug(r.Context(), slug)
	if err != nil || p == nil {
		http.Error(w, "prod", 404)
		return
	}
	res := domain.NewResolver(p.Variants, nil)
	res.AutoFillSingletons()
	v, matched := res.ResolveVariant()
	resp := map[string]any{"selection": res.Selection(), "axes": axesState(res), "variant": nil, "matched": matched}
	if matched {
		resp["variant"] = v
	}
	writeJSON(w, 200, resp)
}

// POST /api/products/{slug}/selection — un click del comprador. El body trae
// la selección vigente y el par elegido; la respuesta trae la selección
// confirmada, la variante resuelta (o null: "no ofrecido actualmente") y el
// estado por valor para pintar los chips.
func (s *Server) apiProductSelection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	slug := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/products/"), "/selection")
	slug = strings.TrimSuffix(slug, "/")
	p, err := s.products.GetBySlug(r.Context(), slug)
	if err != nil || p == nil {
		http.Error(w, "prod", 404)
		return
	}
	var req struct {
		Selection map[string]string `json:"selection"`
		Set       *struct {
			AttributeID      uuid.UUID `json:"attribute_id"`
			AttributeValueID uuid.UUID `json:"attribute_value_id"`
		} `json:"set"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "json", 400)
		return
	}
	sel := domain.Selection{}
	for k, v := range req.Selection {
		attrID, err1 := uuid.Parse(k)
		valID, err2 := uuid.Parse(v)
		if err1 != nil || err2 != nil {
			http.Error(w, "selection", 400)
			return
		}
		sel[attrID] = valID
	}
	res := domain.NewResolver(p.Variants, sel)
	res.AutoFillSingletons()
	if req.Set != nil {
		if req.Set.AttributeID == uuid.Nil || req.Set.AttributeValueID == uuid.Nil {
			http.Error(w, "set", 400)
			return
		}
		res.SetValue(req.Set.AttributeID, req.Set.AttributeValueID)
	}
	v, matched := res.ResolveVariant()
	resp := map[string]any{"selection": res.Selection(), "axes": axesState(res), "variant": nil, "matched": matched}
	if matched {
		resp["variant"] = v
	}
	writeJSON(w, 200, resp)
}

func (s *Server) apiAttributes(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		list, err := s.attributes.List(r.Context())
		if err != nil {
			http.Error(w, "list", 500)
			return
		}
		writeJSON(w, 200, map[string]any{"items": list})
		return
	}
	if r.Method == http.MethodPost {
		if !s.requireAdmin(w, r) {
			return
		}
		var req struct {
			Name      string `json:"name"`
			SortOrder int    `json:"sort_order"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		a := &domain.Attribute{Name: req.Name, SortOrder: req.SortOrder}
		if err := s.attributes.Create(r.Context(), a); err != nil {
			http.Error(w, "crear", 400)
			return
		}
		writeJSON(w, 201, a)
		return
	}
	http.Error(w, "method", 405)
}

// /api/attributes/{id}[/values[/{vid}]]
func (s *Server) apiAttributeByID(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/api/attributes/"), "/")
	id, err := uuid.Parse(parts[0])
	if err != nil {
		http.Error(w, "id", 400)
		return
	}
	if len(parts) >= 2 && parts[1] == "values" {
		if r.Method == http.MethodPost && len(parts) == 2 {
			var req struct {
				Value     string `json:"value"`
				SortOrder int    `json:"sort_order"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, "json", 400)
				return
			}
			v := &domain.AttributeValue{AttributeID: id, Value: req.Value, SortOrder: req.SortOrder}
			if err := s.attributes.AddValue(r.Context(), v); err != nil {
				http.Error(w, "crear", 400)
				return
			}
			writeJSON(w, 201, v)
			return
		}
		if r.Method == http.MethodDelete && len(parts) == 3 {
			vid, err := uuid.Parse(parts[2])
			if err != nil {
				http.Error(w, "value id", 400)
				return
			}
			if err := s.attributes.DeleteValue(r.Context(), vid); err != nil {
				http.Error(w, "delete", 409)
				return
			}
			writeJSON(w, 200, map[string]any{"status": "ok"})
			return
		}
		http.Error(w, "method", 405)
		return
	}
	if r.Method == http.MethodPut {
		a, err := s.attributes.Attributes.FindByID(r.Context(), id)
		if err != nil {
			http.Error(w, "not found", 404)
			return
		}
		var req struct {
			Name      *string `json:"name"`
			SortOrder *int    `json:"sort_order"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "json", 400)
			return
		}
		if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
			a.Name = strings.TrimSpace(*req.Name)
		}
		if req.SortOrder != nil {
			a.SortOrder = *req.SortOrder
		}
		if err := s.attributes.Update(r.Context(), a); err != nil {
			http.Error(w, "save", 500)
			return
		}
		writeJSON(w, 200, a)
		return
	}
	if r.Method == http.MethodDelete {
		if err := s.attributes.Delete(r.Context(), id); err != nil {
			http.Error(w, "delete", 409)
			return
		}
		writeJSON(w, 200, map[string]any{"status": "ok"})
		return
	}
	http.Error(w, "method", 405)
}

// GET /admin/export/xlsx — una fila por variante con sus valores de opción.
func (s *Server) handleAdminExportXLSX(w http.ResponseWriter, r *http.Request) {
	if !s.requireAdmin(w, r) {
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "method", 405)
		return
	}
	list, _, err := s.products.List(r.Context(), domain.ProductFilter{Page: 1, PageSize: 10000})
	if err != nil {
		http.Error(w, "list", 500)
		return
	}
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	headers := []string{"slug", "name", "category", "sku", "options", "price", "stock", "available"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
	row := 2
	for _, p := range list {
		vars, err := s.products.ListVariants(r.Context(), p.ID)
		if err != nil {
			continue
		}
		for _, v := range vars {
			opts := make([]string, 0, len(v.Assignments))
			for _, a := range v.Assignments {
				opts = append(opts, a.Attribute.Name+"="+a.AttributeValue.Value)
			}
			vals := []any{p.Slug, p.Name, p.Category, v.SKU, strings.Join(opts, ";"), v.Price, v.Stock, v.Available}
			for i, val := range vals {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				_ = f.SetCellValue(sheet, cell, val)
			}
			row++
		}
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="catalogo-`+time.Now().Format("2006-01-02")+`.xlsx"`)
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("export xlsx")
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func secretKey() []byte {
	k := os.Getenv("SESSION_KEY")
	if k == "" {
		k = "dev-insecure"
	}
	return []byte(k)
}

// --- Sesión de usuario (Google) y admin ---

type sessionUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func writeUserSession(w http.ResponseWriter, u *sessionUser) {
	if u == nil {
		http.SetCookie(w, &http.Cookie{Name: "sess", Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: true, SameSite: http.SameSiteStrictMode})
		return
	}
	b, _ := json.Marshal(u)
	h := hmac.New(sha256.New, secretKey())
	h.Write(b)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	val := sig + "." + base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{Name: "sess", Value: val, Path: "/", MaxAge: 60 * 60 * 24 * 7, HttpOnly: true, Secure: true, SameSite: http.SameSiteStrictMode})
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth no configurado", 500)
		return
	}
	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{Name: "oauth_state", Value: state, Path: "/", MaxAge: 300, HttpOnly: true})
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOnline), 302)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth no configurado", 500)
		return
	}
	q := r.URL.Query()
	state := q.Get("state")
	c, _ := r.Cookie("oauth_state")
	if c == nil || c.Value == "" || c.Value != state {
		http.Error(w, "state", 400)
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), q.Get("code"))
	if err != nil {
		log.Error().Err(err).Msg("exchange oauth")
		http.Error(w, "oauth", 400)
		return
	}
	client := s.oauthCfg.Client(r.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v3/userinfo")
	if err != nil || resp.StatusCode != 200 {
		log.Error().Err(err).Msg("userinfo")
		http.Error(w, "userinfo", 400)
		return
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	var info struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	_ = json.Unmarshal(body, &info)
	if info.Email == "" {
		http.Error(w, "email", 400)
		return
	}
	writeUserSession(w, &sessionUser{Email: info.Email, Name: info.Name})
	if _, ok := s.adminAllowed[strings.ToLower(info.Email)]; ok {
		if tok, _, err := s.issueAdminToken(info.Email, 6*time.Hour); err == nil {
			secure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
			http.SetCookie(w, &http.Cookie{Name: "admin_token", Value: tok, Path: "/", MaxAge: 60 * 60 * 6, HttpOnly: true, Secure: secure, SameSite: http.SameSiteStrictMode})
		}
	}
	http.Redirect(w, r, "/", 302)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	writeUserSession(w, nil)
	http.Redirect(w, r, "/", 302)
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method", 405)
		return
	}
	cfgKey := os.Getenv("ADMIN_API_KEY")
	if cfgKey == "" {
		log.Error().Msg("ADMIN_API_KEY faltante")
		http.Error(w, "config", 500)
		return
	}
	apiKey := r.Header.Get("X-Admin-Key")
	if apiKey == "" || !secureCompare(apiKey, cfgKey) {
		http.Error(w, "unauthorized", 401)
		return
	}
	var req struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" && len(s.adminAllowed) == 1 {
		for k := range s.adminAllowed {
			email = k
		}
	}
	if _, ok := s.adminAllowed[email]; !ok {
		http.Error(w, "forbidden", 403)
		return
	}
	tok, exp, err := s.issueAdminToken(email, 30*time.Minute)
	if err != nil {
		http.Error(w, "token", 500)
		return
	}
	writeJSON(w, 200, map[string]any{"token": tok, "exp": exp.Unix(), "email": email})
}

func (s *Server) handleAdminLogout(w http.ResponseWriter, r *http.Request) {
	secure := r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
	http.SetCookie(w, &http.Cookie{Name: "admin_token", Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: secure, SameSite: http.SameSiteStrictMode})
	http.Redirect(w, r, "/", 302)
}

func (s *Server) readAdminToken(r *http.Request) string {
	c, err := r.Cookie("admin_token")
	if err != nil || c.Value == "" {
		return ""
	}
	return c.Value
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		tok := strings.TrimSpace(auth[7:])
		if _, err := s.verifyAdminToken(tok); err == nil {
			return true
		}
	}
	if tok := s.readAdminToken(r); tok != "" {
		if _, err := s.verifyAdminToken(tok); err == nil {
			return true
		}
	}
	http.Error(w, "unauthorized", 401)
	return false
}

func (s *Server) issueAdminToken(email string, dur time.Duration) (string, time.Time, error) {
	head := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	exp := time.Now().Add(dur)
	claims := map[string]any{"sub": email, "email": email, "role": "admin", "exp": exp.Unix(), "iat": time.Now().Unix(), "iss": "tiendamoda"}
	b, _ := json.Marshal(claims)
	pay := base64.RawURLEncoding.EncodeToString(b)
	unsigned := head + "." + pay
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return unsigned + "." + sig, exp, nil
}

func (s *Server) verifyAdminToken(tok string) (string, error) {
	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		return "", fmt.Errorf("formato")
	}
	unsigned := parts[0] + "." + parts[1]
	sig, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return "", fmt.Errorf("sig")
	}
	h := hmac.New(sha256.New, s.adminSecret)
	h.Write([]byte(unsigned))
	if !hmac.Equal(sig, h.Sum(nil)) {
		return "", fmt.Errorf("firma")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return "", fmt.Errorf("payload")
	}
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return "", fmt.Errorf("json")
	}
	role, _ := m["role"].(string)
	email, _ := m["email"].(string)
	expF, _ := m["exp"].(float64)
	if role != "admin" || email == "" {
		return "", fmt.Errorf("claims")
	}
	if time.Now().Unix() > int64(expF) {
		return "", fmt.Errorf("exp")
	}
	if _, ok := s.adminAllowed[strings.ToLower(email)]; !ok {
		return "", fmt.Errorf("not allowed")
	}
	return email, nil
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := 0; i < len(a); i++ {
		v |= a[i] ^ b[i]
	}
	return v == 0
}
