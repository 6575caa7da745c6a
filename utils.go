package appctx

import (
	"reflect"

	converter "github.com/samber/go-type-to-string"
)

// NameOf returns the name the container uses for type T in logs and errors,
// e.g. "*github.com/flightdesk/appctx/internal/flights.Service".
func NameOf[T any]() string {
	return converter.GetType[T]()
}

func empty[T any]() T {
	var t T
	return t
}

func elem[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
