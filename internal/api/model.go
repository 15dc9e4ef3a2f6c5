package api

// searchParams translates recognized URL parameters to store query
// options; the keys are also removed from the remaining filter set. An
// empty target means recognized but without store effect (pretty).
var searchParams = map[string]string{
	"max":    "limit",
	"limit":  "limit",
	"limite": "limit",
	"page":   "page",
	"pag":    "page",
	"pagina": "page",
	"from":   "page",
	"desde":  "page",
	"order":  "order",
	"sort":   "sort",
	"pretty": "",
}

type LoginPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
