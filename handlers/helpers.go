package handlers

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"runtime/debug"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
	"github.com/juho05/log"
)

var (
	formDecoder = form.NewDecoder()
	validate    = validator.New()
)

// decodeForm parses the request's POST body into T via its `form` tags.
func decodeForm[T any](r *http.Request) (T, error) {
	var obj T
	if err := r.ParseForm(); err != nil {
		return obj, err
	}
	err := formDecoder.Decode(&obj, r.PostForm)
	return obj, err
}

// decodeJSON parses the request's JSON body into T and checks its
// `validate` tags.
func decodeJSON[T any](r *http.Request) (T, error) {
	var obj T
	err := json.NewDecoder(r.Body).Decode(&obj)
	r.Body.Close()
	if err != nil {
		return obj, err
	}
	err = validate.Struct(obj)
	return obj, err
}

func sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func serverError(w http.ResponseWriter, err error) {
	log.Errorf("%s\n%s", err.Error(), debug.Stack())
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func readStatic(staticFS fs.FS, name string) ([]byte, error) {
	return fs.ReadFile(staticFS, name)
}
