// Package pages serves the HTML shell around the JSON API.
package pages

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/router-for-me/WiFiVoucher/internal/models"
	"github.com/router-for-me/WiFiVoucher/internal/security"
)

// DashboardPollInterval is how often the admin page refreshes its counters, in milliseconds.
const DashboardPollInterval = 30000

const shellName = "shell"

var shell = template.Must(template.New(shellName).Parse(shellTemplate))

type pageData struct {
	Title        string
	Page         string
	SignedIn     bool
	Email        string
	IsAdmin      bool
	PollInterval int
}

// RegisterPageRoutes mounts the gated HTML pages on r.
func RegisterPageRoutes(r *gin.Engine, codec security.TokenCodec, cookieName string) {
	if r == nil {
		return
	}
	r.SetHTMLTemplate(shell)

	group := r.Group("/")
	group.Use(Gate(codec, cookieName))
	group.GET("/", render("home", "WiFi Vouchers"))
	group.GET("/login", render("login", "Sign in"))
	group.GET("/register", render("register", "Create account"))
	group.GET("/dashboard", render("dashboard", "My vouchers"))
	group.GET("/admin", render("admin", "Admin dashboard"))

	r.GET("/favicon.ico", func(c *gin.Context) { c.Status(http.StatusNoContent) })
}

func render(page, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := pageData{Title: title, Page: page, PollInterval: DashboardPollInterval}
		if claims, ok := claimsFrom(c); ok {
			data.SignedIn = true
			data.Email = claims.Email
			data.IsAdmin = claims.Role == models.RoleAdmin
		}
		c.HTML(http.StatusOK, shellName, data)
	}
}

const shellTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
</head>
<body data-page="{{.Page}}">
<header>
  <a href="/">WiFi Vouchers</a>
  {{if .SignedIn}}
    <span>{{.Email}}</span>
    <a href="/dashboard">My vouchers</a>
    {{if .IsAdmin}}<a href="/admin">Admin</a>{{end}}
    <button type="button" id="logout">Sign out</button>
  {{else}}
    <a href="/login">Sign in</a>
    <a href="/register">Register</a>
  {{end}}
</header>
<main>
<h1>{{.Title}}</h1>
{{if eq .Page "home"}}
  <p>Buy hourly, daily, weekly or monthly internet access with M-Pesa or card.</p>
  <ul id="plans"></ul>
{{else if eq .Page "login"}}
  <form id="auth-form" data-endpoint="/api/auth/login">
    <input name="email" type="email" placeholder="Email" required>
    <input name="password" type="password" placeholder="Password" required>
    <button type="submit">Sign in</button>
  </form>
{{else if eq .Page "register"}}
  <form id="auth-form" data-endpoint="/api/auth/register">
    <input name="fullName" placeholder="Full name" required>
    <input name="email" type="email" placeholder="Email" required>
    <input name="phone" placeholder="Phone">
    <input name="password" type="password" placeholder="Password" required>
    <button type="submit">Create account</button>
  </form>
{{else if eq .Page "dashboard"}}
  <ul id="vouchers"></ul>
  <form id="purchase-form">
    <select name="planId" id="plan-select"></select>
    <select name="paymentMethod"><option value="mpesa">M-Pesa</option><option value="card">Card</option></select>
    <input name="phoneNumber" placeholder="07XXXXXXXX">
    <button type="submit">Buy voucher</button>
  </form>
{{else if eq .Page "admin"}}
  <dl id="stats"></dl>
  <p><a href="/api/admin/export/users">Export users</a> <a href="/api/admin/export/vouchers">Export vouchers</a></p>
{{end}}
<p id="status" role="status"></p>
</main>
<script>
const statusEl = document.getElementById("status");
async function api(path, options) {
  const res = await fetch(path, Object.assign({credentials: "same-origin", headers: {"Content-Type": "application/json"}}, options || {}));
  const body = await res.json().catch(() => ({}));
  if (!res.ok) { throw new Error(body.message || res.statusText); }
  return body;
}
function formJSON(form) { return JSON.stringify(Object.fromEntries(new FormData(form).entries())); }
const logout = document.getElementById("logout");
if (logout) { logout.onclick = () => api("/api/auth/logout", {method: "POST"}).finally(() => location.assign("/")); }
const authForm = document.getElementById("auth-form");
if (authForm) {
  authForm.onsubmit = (ev) => {
    ev.preventDefault();
    api(authForm.dataset.endpoint, {method: "POST", body: formJSON(authForm)})
      .then((body) => location.assign(body.user && body.user.role === "admin" ? "/admin" : "/dashboard"))
      .catch((err) => { statusEl.textContent = err.message; });
  };
}
const plansEl = document.getElementById("plans") || document.getElementById("plan-select");
if (plansEl) {
  api("/api/vouchers/plans").then((body) => {
    for (const p of body.plans) {
      const el = document.createElement(plansEl.tagName === "SELECT" ? "option" : "li");
      el.value = p.id;
      el.textContent = p.name + " - TZS " + p.price;
      plansEl.appendChild(el);
    }
  });
}
const vouchersEl = document.getElementById("vouchers");
function loadVouchers() {
  api("/api/vouchers/my-vouchers").then((body) => {
    vouchersEl.replaceChildren();
    for (const v of body.vouchers) {
      const li = document.createElement("li");
      li.textContent = v.code + " (" + v.plan_name + ", " + v.status + ")";
      vouchersEl.appendChild(li);
    }
  });
}
if (vouchersEl) { loadVouchers(); }
const purchaseForm = document.getElementById("purchase-form");
if (purchaseForm) {
  purchaseForm.onsubmit = (ev) => {
    ev.preventDefault();
    statusEl.textContent = "Processing payment...";
    api("/api/vouchers/purchase", {method: "POST", body: formJSON(purchaseForm)})
      .then((body) => { statusEl.textContent = body.message + ": " + body.voucher.code; loadVouchers(); })
      .catch((err) => { statusEl.textContent = err.message; });
  };
}
const statsEl = document.getElementById("stats");
function refreshStats() {
  api("/api/admin/dashboard-stats").then((body) => {
    statsEl.replaceChildren();
    for (const [k, v] of Object.entries(body)) {
      if (typeof v === "object") { continue; }
      const dt = document.createElement("dt"); dt.textContent = k;
      const dd = document.createElement("dd"); dd.textContent = v;
      statsEl.append(dt, dd);
    }
  }).catch((err) => { statusEl.textContent = err.message; });
}
if (statsEl) { refreshStats(); setInterval(refreshStats, {{.PollInterval}}); }
</script>
</body>
</html>
`
