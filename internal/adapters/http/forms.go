package web

import (
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
)

// maxUploadBytes bounds multipart recipe forms, image included.
const maxUploadBytes = 10 << 20

// secret is a form value decoded byte for byte; plain strings are trimmed.
type secret string

type loginForm struct {
	Email    string `form:"email" label:"E-mail" validate:"required,email"`
	Password secret `form:"password" label:"Senha" validate:"required"`
}

type signupForm struct {
	Name     string `form:"name" label:"Nome" validate:"max=120"`
	Email    string `form:"email" label:"E-mail" validate:"required,email"`
	Password secret `form:"password" label:"Senha" validate:"required,min=6"`
}

type adminLoginForm struct {
	Username string `form:"username" label:"Usuario" validate:"required"`
	Password secret `form:"password" label:"Senha" validate:"required"`
}

type recipeForm struct {
	Title    string `form:"title" label:"Titulo" validate:"required,max=200"`
	Content  string `form:"content" label:"Conteudo" validate:"required"`
	Category string `form:"category" label:"Categoria" validate:"max=60"`
	IsPublic bool   `form:"is_public"`
	ImageURL string `form:"image_url" label:"Imagem" validate:"omitempty,url"`
}

type suggestionForm struct {
	Text string `form:"text" label:"Sugestao" validate:"required,max=2000"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("label")
	})
	return v
}

// newFormDecoder decodes `form` tagged fields, trimming every plain string.
func newFormDecoder() *form.Decoder {
	d := form.NewDecoder()
	d.RegisterCustomTypeFunc(func(vals []string) (any, error) {
		if len(vals) == 0 {
			return "", nil
		}
		return strings.TrimSpace(vals[0]), nil
	}, "")
	return d
}

// validationMessage turns the first validator error into a pt-BR sentence.
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "Dados invalidos."
	}
	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " e obrigatorio."
	case "email":
		return "Informe um e-mail valido."
	case "min":
		return fe.Field() + " deve ter pelo menos " + fe.Param() + " caracteres."
	case "max":
		return fe.Field() + " deve ter no maximo " + fe.Param() + " caracteres."
	case "url":
		return fe.Field() + " deve ser uma URL valida."
	default:
		return fe.Field() + " invalido."
	}
}

// decodeForm parses the request body and fills dst.
func (a *App) decodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return err
	}
	return a.forms.Decode(dst, r.Form)
}

// bindForm parses, decodes and validates a form. It returns a user-facing message on failure.
func (a *App) bindForm(r *http.Request, dst any) string {
	if err := a.decodeForm(r, dst); err != nil {
		return "Formulario invalido."
	}
	if err := a.validate.Struct(dst); err != nil {
		return validationMessage(err)
	}
	return ""
}
