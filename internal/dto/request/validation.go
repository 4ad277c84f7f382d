package request

import (
	"reflect"

	"movie-catalog/internal/data/entity"
	"movie-catalog/pkg/utils"

	"github.com/go-playground/validator/v10"
)

type optionalValue interface {
	validationValue() any
}

func init() {
	utils.RegisterCustomType(func(field reflect.Value) interface{} {
		if value, ok := field.Interface().(optionalValue); ok {
			inner := value.validationValue()
			if date, ok := inner.(Date); ok {
				return date.Time
			}
			return inner
		}
		return nil
	}, Optional[string]{}, Optional[float64]{}, Optional[Date]{})

	utils.RegisterCustomType(func(field reflect.Value) interface{} {
		if date, ok := field.Interface().(Date); ok {
			return date.Time
		}
		return nil
	}, Date{})

	if err := utils.RegisterValidation("movie_status", func(fl validator.FieldLevel) bool {
		return entity.MovieStatus(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
}
