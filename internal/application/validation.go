package application

import "github.com/go-playground/validator/v10"

var payloadValidate = validator.New(validator.WithRequiredStructEnabled())
