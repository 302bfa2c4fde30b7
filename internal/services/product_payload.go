package services

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"

	"productapi/internal/apperror"

	"github.com/go-playground/validator/v10"
)

const (
	// MsgMissingFields is reported when a required create field is absent or blank.
	MsgMissingFields  = "Missing required fields: name, description, price, and category are required"
	// MsgInvalidPrice is reported when price is not a number or is negative.
	MsgInvalidPrice   = "Price must be a positive number"
	// MsgInvalidPayload is reported for any other field violation.
	MsgInvalidPayload = "Invalid product payload"
)

// ProductPayload is a decoded JSON object from a create or update request.
// Keys other than the product fields, including "id", are ignored.
type ProductPayload map[string]json.RawMessage

// CreateProductInput is a typed, normalized create request.
type CreateProductInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	Category    string   `json:"category" validate:"required"`
	InStock     *bool    `json:"inStock"`
}

// UpdateProductInput is a typed, normalized partial update. Nil fields are left unchanged.
type UpdateProductInput struct {
	Name        *string  `json:"name" validate:"omitnil,min=1"`
	Description *string  `json:"description" validate:"omitnil,min=1"`
	Price       *float64 `json:"price" validate:"omitnil,gte=0"`
	Category    *string  `json:"category" validate:"omitnil,min=1"`
	InStock     *bool    `json:"inStock"`
}

// payloadDecoder collects type errors while pulling fields out of a payload.
type payloadDecoder struct {
	payload      ProductPayload
	typeErrors   []apperror.FieldError
	priceInvalid bool
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// text returns the trimmed string value of key, or nil when absent or null.
func (d *payloadDecoder) text(key string, lower bool) *string {
	raw, ok := d.payload[key]
	if !ok || isNull(raw) {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		d.typeErrors = append(d.typeErrors, apperror.FieldError{Field: key, Message: "must be a string"})
		return nil
	}
	s = strings.TrimSpace(s)
	if lower {
		s = strings.ToLower(s)
	}
	return &s
}

// price returns the numeric price, or nil when absent. A present value that
// is not a JSON number marks the price invalid.
func (d *payloadDecoder) price() *float64 {
	raw, ok := d.payload["price"]
	if !ok {
		return nil
	}
	var f float64
	if isNull(raw) || json.Unmarshal(raw, &f) != nil {
		d.priceInvalid = true
		d.typeErrors = append(d.typeErrors, apperror.FieldError{Field: "price", Message: "must be a number"})
		return nil
	}
	return &f
}

func (d *payloadDecoder) boolean(key string) *bool {
	raw, ok := d.payload[key]
	if !ok || isNull(raw) {
		return nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		d.typeErrors = append(d.typeErrors, apperror.FieldError{Field: key, Message: "must be a boolean"})
		return nil
	}
	return &b
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// payloadValidator wraps validator.Validate and reports json field names.
type payloadValidator struct {
	validate *validator.Validate
}

func newPayloadValidator() *payloadValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &payloadValidator{validate: v}
}

// check validates s and folds rule violations and decoding errors into a
// single validation error. The headline message prefers missing fields, then
// a bad price, then anything else.
func (pv *payloadValidator) check(s interface{}, d *payloadDecoder) error {
	fields := append([]apperror.FieldError(nil), d.typeErrors...)
	missing := false
	badPrice := d.priceInvalid

	if err := pv.validate.Struct(s); err != nil {
		validationErrors, ok := err.(validator.ValidationErrors)
		if !ok {
			return apperror.Internal(err)
		}
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				if field == "price" && d.priceInvalid {
					continue
				}
				missing = true
				fields = append(fields, apperror.FieldError{Field: field, Message: "is required"})
			case "gte":
				if field == "price" {
					badPrice = true
				}
				fields = append(fields, apperror.FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
			case "min":
				fields = append(fields, apperror.FieldError{Field: field, Message: "must not be empty"})
			default:
				fields = append(fields, apperror.FieldError{Field: field, Message: "failed on the '" + e.Tag() + "' rule"})
			}
		}
	}

	switch {
	case missing:
		return apperror.Validation(MsgMissingFields, fields...)
	case badPrice:
		return apperror.Validation(MsgInvalidPrice, fields...)
	case len(fields) > 0:
		return apperror.Validation(MsgInvalidPayload, fields...)
	}
	return nil
}

// decodeCreate turns a payload into a normalized CreateProductInput.
func (pv *payloadValidator) decodeCreate(payload ProductPayload) (CreateProductInput, error) {
	d := &payloadDecoder{payload: payload}
	input := CreateProductInput{
		Name:        deref(d.text("name", false)),
		Description: deref(d.text("description", false)),
		Price:       d.price(),
		Category:    deref(d.text("category", true)),
		InStock:     d.boolean("inStock"),
	}
	if err := pv.check(input, d); err != nil {
		return CreateProductInput{}, err
	}
	return input, nil
}

// decodeUpdate turns a payload into a normalized UpdateProductInput.
func (pv *payloadValidator) decodeUpdate(payload ProductPayload) (UpdateProductInput, error) {
	d := &payloadDecoder{payload: payload}
	input := UpdateProductInput{
		Name:        d.text("name", false),
		Description: d.text("description", false),
		Price:       d.price(),
		Category:    d.text("category", true),
		InStock:     d.boolean("inStock"),
	}
	if err := pv.check(input, d); err != nil {
		return UpdateProductInput{}, err
	}
	return input, nil
}
