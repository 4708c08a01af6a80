package web

import (
	"context"
	"html/template"
	"net/http"
	"strconv"

	"github.com/bankdesk/bank-console/internal/logger"
	"github.com/bankdesk/bank-console/pkg/transactions"
)

// Lister is the subset of the transactions client the list view needs.
type Lister interface {
	List(ctx context.Context, page, size int) ([]transactions.Transaction, error)
}

// ListView renders one page of transactions.
type ListView struct {
	client Lister
	log    logger.Logger
}

// NewListView builds the view on top of a transactions client.
func NewListView(client Lister, log logger.Logger) *ListView {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &ListView{client: client, log: log}
}

type listPage struct {
	Page         int
	Size         int
	PrevPage     int
	NextPage     int
	Transactions []transactions.Transaction
	Error        string
}

func (v *ListView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", transactions.DefaultPage)
	size := queryInt(r, "size", transactions.DefaultSize)

	data := listPage{Page: page, Size: size, PrevPage: page - 1, NextPage: page + 1}
	status := http.StatusOK

	txs, err := v.client.List(r.Context(), page, size)
	if err != nil {
		v.log.WarnObj("transaction list failed", "list_error", map[string]any{
			"request_id": GetRequestID(r.Context()),
			"page":       page,
			"size":       size,
			"error":      err.Error(),
		})
		data.Error = "Could not load transactions: " + err.Error()
		status = http.StatusBadGateway
	}
	data.Transactions = txs

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := listTemplate.Execute(w, data); err != nil {
		v.log.ErrorObj("render transaction list failed", "render_error", err.Error())
	}
}

// queryInt returns the integer query value, or fallback when absent or not a number.
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

var listTemplate = template.Must(template.New("list").Funcs(template.FuncMap{
	"stamp": func(t transactions.LocalTime) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04:05")
	},
}).Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Transactions</title></head>
<body>
<h1>Transactions</h1>
{{if .Error}}<div class="notice error" role="alert">{{.Error}}</div>{{end}}
<table id="transactions">
<thead><tr><th>ID</th><th>Type</th><th>Status</th><th>Amount</th><th>Currency</th><th>Account</th><th>User</th><th>Channel</th><th>Updated</th><th>Description</th></tr></thead>
<tbody>
{{range .Transactions}}<tr class="transaction">
<td class="id">{{if .ID.Valid}}{{.ID.UUID}}{{end}}</td>
<td class="type">{{.Type}}</td>
<td class="status">{{.Status}}</td>
<td class="amount">{{.Amount.StringFixed 2}}</td>
<td class="currency">{{.Currency}}</td>
<td class="account">{{.AccountNumber}}</td>
<td class="user">{{.UserName}}</td>
<td class="channel">{{.Channel}}</td>
<td class="updated">{{stamp .UpdatedAt}}</td>
<td class="description">{{.Description}}</td>
</tr>{{else}}<tr class="empty"><td colspan="10">No transactions</td></tr>{{end}}
</tbody>
</table>
<nav class="pager">
{{if gt .Page 1}}<a rel="prev" href="/?page={{.PrevPage}}&size={{.Size}}">Previous</a>{{end}}
<span class="page">Page {{.Page}}</span>
<a rel="next" href="/?page={{.NextPage}}&size={{.Size}}">Next</a>
</nav>
</body>
</html>
`))
