package api

import (
	"errors"
	"io"
	"net/http"
)

func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	p, err := h.Parser(valueParser(r))

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	content, err := h.readFile(r)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if len(content) == 0 {
		writeError(w, http.StatusBadRequest, errors.New("invalid input"))
		return
	}

	document, err := p.Parse(r.Context(), content)

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJson(w, Document{
		Content: document.Content,

		Images: document.Images,
	})
}

func valueParser(r *http.Request) string {
	if val := r.URL.Query().Get("parser"); val != "" {
		return val
	}

	return r.FormValue("parser")
}

func (h *Handler) readFile(r *http.Request) ([]byte, error) {
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()

		return io.ReadAll(file)
	}

	return io.ReadAll(r.Body)
}
