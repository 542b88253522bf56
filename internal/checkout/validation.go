package checkout

import (
	"errors"
	"strings"

	"github.com/aaravmahajanofficial/teagram/internal/models"
	"github.com/go-playground/validator/v10"
)

type Field string

const (
	FieldName     Field = "name"
	FieldPhone    Field = "phone"
	FieldDelivery Field = "delivery"
	FieldAddress  Field = "address"
	FieldComment  Field = "comment"
)

// Form is the checkout form as entered. Phone holds the display form.
type Form struct {
	Name     string
	Phone    string
	Delivery models.DeliveryMethod
	Address  string
	Comment  string
}

func NewForm() Form {
	return Form{Delivery: models.DeliveryPickup}
}

// FieldErrors maps a form field to its user-facing message.
type FieldErrors map[Field]string

// orderInput is the normalized form the validator runs over.
type orderInput struct {
	Name     string `validate:"required"`
	Phone    string `validate:"required,len=11,numeric"`
	Delivery string `validate:"required,oneof=pickup courier cdek"`
	Address  string `validate:"required_unless=Delivery pickup"`
	Comment  string `validate:"max=500"`
}

var fieldOf = map[string]Field{
	"Name":     FieldName,
	"Phone":    FieldPhone,
	"Delivery": FieldDelivery,
	"Address":  FieldAddress,
	"Comment":  FieldComment,
}

var validate = validator.New()

func (f Form) normalized() orderInput {
	return orderInput{
		Name:     strings.TrimSpace(f.Name),
		Phone:    NormalizePhone(f.Phone),
		Delivery: string(f.Delivery),
		Address:  strings.TrimSpace(f.Address),
		Comment:  strings.TrimSpace(f.Comment),
	}
}

// Validate runs every client-side check and returns nil when the form can
// be submitted.
func Validate(form Form) FieldErrors {

	err := validate.Struct(form.normalized())
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return FieldErrors{FieldName: err.Error()}
	}

	result := make(FieldErrors, len(validationErrs))
	for _, fe := range validationErrs {
		field := fieldOf[fe.StructField()]
		if _, seen := result[field]; seen {
			continue
		}
		result[field] = message(field, fe.Tag())
	}

	return result
}

func message(field Field, tag string) string {
	switch field {
	case FieldName:
		return "Введите имя"
	case FieldPhone:
		if tag == "required" {
			return "Введите телефон"
		}
		return "Введите номер телефона полностью"
	case FieldDelivery:
		return "Выберите способ доставки"
	case FieldAddress:
		return "Укажите адрес доставки"
	case FieldComment:
		return "Комментарий слишком длинный"
	default:
		return "Проверьте поле"
	}
}

// Request builds the order payload. expectedTotal is the cart total the
// client showed, for the server's cross-check.
func (f Form) Request(expectedTotal int64) models.OrderRequest {
	in := f.normalized()

	return models.OrderRequest{
		CustomerName:   in.Name,
		Phone:          E164(in.Phone),
		DeliveryMethod: f.Delivery,
		Address:        in.Address,
		Comment:        in.Comment,
		ExpectedTotal:  expectedTotal,
	}
}
