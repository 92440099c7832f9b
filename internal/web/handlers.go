package web

import (
	"errors"
	"html/template"
	"net/http"
	"path/filepath"
	"time"

	"github.com/vitos/ust_basket/internal/domain"
	"github.com/vitos/ust_basket/internal/usecase"
	"go.uber.org/zap"
)

// Templates
var templates *template.Template

func InitTemplates(dir string) error {
	var err error
	templates, err = template.New("").Funcs(template.FuncMap{"date": dateFormat}).ParseGlob(filepath.Join(dir, "*.html"))
	return err
}

const expirationChoices = 4

type formView struct {
	Contracts   []domain.ContractSpec
	Expirations []usecase.Expiration
	Contract    string
	Expiration  string
}

type basketView struct {
	formView
	Spec   domain.ContractSpec
	Basket *domain.Basket
}

type errorView struct {
	formView
	Status  int
	Message string
}

func (s *Server) newFormView(contract, expiration string) formView {
	return formView{
		Contracts:   domain.Contracts(),
		Expirations: s.service.Expirations(expirationChoices),
		Contract:    contract,
		Expiration:  expiration,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "index.html", s.newFormView("TU", ""))
}

func (s *Server) handleBasket(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	contract := r.FormValue("futCon")
	expiration := r.FormValue("expiration")
	form := s.newFormView(contract, expiration)

	basket, spec, err := s.compute(r, contract, expiration)
	if err != nil {
		status := errorStatus(err)
		s.render(w, status, "error.html", errorView{formView: form, Status: status, Message: err.Error()})
		return
	}
	s.render(w, http.StatusOK, "basket.html", basketView{formView: form, Spec: spec, Basket: basket})
}

func (s *Server) compute(r *http.Request, contract, expiration string) (*domain.Basket, domain.ContractSpec, error) {
	ref, err := usecase.ParseExpiration(expiration)
	if err != nil {
		return nil, domain.ContractSpec{}, &badInputError{err}
	}
	basket, err := s.service.Compute(r.Context(), contract, ref)
	if err != nil {
		return nil, domain.ContractSpec{}, err
	}
	spec, _ := domain.LookupContract(basket.Contract)
	return basket, spec, nil
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("Template error", zap.String("template", name), zap.Error(err))
	}
}

type badInputError struct{ err error }

func (e *badInputError) Error() string { return e.err.Error() }
func (e *badInputError) Unwrap() error { return e.err }

// errorStatus maps computation failures to HTTP status codes. A fetch failure
// is reported as a gateway error and never as an empty basket.
func errorStatus(err error) int {
	var bad *badInputError
	switch {
	case errors.As(err, &bad), errors.Is(err, domain.ErrInvalidContract):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrFetch):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// dateFormat is used by the templates.
func dateFormat(t time.Time) string {
	return t.Format("2006-01-02")
}
