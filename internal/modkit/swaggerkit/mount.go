package swaggerkit

import (
	"encoding/json"
	"net/http"

	phttp "pfascheck/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Mount serves the UI under /api/docs and the rendered document at /api/docs/doc.json
// the document is encoded once at mount time
func Mount(r phttp.Router, enabled bool, info Info, ops []Operation) error {
	if !enabled {
		return nil
	}
	doc, err := json.Marshal(Document(info, ops))
	if err != nil {
		return err
	}
	r.Get("/api/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/docs/", http.StatusPermanentRedirect)
	})
	r.Get("/api/docs/doc.json", serveDocJSON(doc))
	r.Handle("/api/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/api/docs/doc.json"),
	))
	return nil
}
