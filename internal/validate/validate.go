package validate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"rapidxcel/internal/domain"
)

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Report form field names instead of Go field names.
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return val
}

// Struct validates tagged fields and converts the first failure into a
// domain.ValidationError.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.NewValidationError("", err.Error())
	}
	fe := verrs[0]
	return domain.NewValidationError(fe.Field(), message(fe))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "All fields are required!"
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be %s or more", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "numeric":
		return "must contain digits only"
	}
	return "is invalid"
}

// StockInput is the raw inventory form.
type StockInput struct {
	Name     string `form:"stock_name" json:"stock_name"`
	Price    string `form:"price" json:"price"`
	Quantity string `form:"quantity" json:"quantity"`
	Weight   string `form:"weight" json:"weight"`
	Unit     string `form:"unit" json:"unit"`
}

// Stock parses and checks the inventory form.
func Stock(in StockInput) (domain.StockFields, error) {
	f := domain.StockFields{
		Name: strings.TrimSpace(in.Name),
		Unit: strings.TrimSpace(in.Unit),
	}
	if f.Name == "" || f.Unit == "" || strings.TrimSpace(in.Price) == "" ||
		strings.TrimSpace(in.Quantity) == "" || strings.TrimSpace(in.Weight) == "" {
		return f, domain.NewValidationError("", "All fields are required!")
	}
	var err error
	if f.Price, err = strconv.ParseFloat(strings.TrimSpace(in.Price), 64); err != nil {
		return f, invalidNumber("price")
	}
	if f.Quantity, err = strconv.Atoi(strings.TrimSpace(in.Quantity)); err != nil {
		return f, invalidNumber("quantity")
	}
	if f.Weight, err = strconv.ParseFloat(strings.TrimSpace(in.Weight), 64); err != nil {
		return f, invalidNumber("weight")
	}
	return f, Struct(f)
}

func invalidNumber(field string) error {
	return domain.NewValidationError(field, "Please enter valid data for all fields.")
}

type RegisterInput struct {
	Username string `form:"username" json:"username" validate:"required,email,max=80"`
	Password string `form:"password" json:"password" validate:"required,min=8,max=72"`
	Name     string `form:"name" json:"name" validate:"required,max=100"`
	Role     string `form:"role" json:"role" validate:"required"`
}

func Register(in *RegisterInput) (domain.Role, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Name = strings.TrimSpace(in.Name)
	if err := Struct(in); err != nil {
		return "", err
	}
	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return "", domain.NewValidationError("role", "Choose a valid role.")
	}
	return role, nil
}

type OrderInput struct {
	Address string `form:"address" json:"address" validate:"required,max=300"`
	Pincode string `form:"pincode" json:"pincode" validate:"required,max=6"`
	Phone   string `form:"phone" json:"phone" validate:"required,numeric,min=7,max=15"`
}

// Order checks the delivery form. Pincode serviceability is decided by the
// pricing allow-list, not here.
func Order(in *OrderInput) error {
	in.Address = strings.TrimSpace(in.Address)
	in.Pincode = strings.TrimSpace(in.Pincode)
	in.Phone = strings.TrimSpace(in.Phone)
	return Struct(in)
}

// ID parses a positive integer path parameter.
func ID(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n, err == nil && n > 0
}
