package handlers

import "fmt"

func errMissingField(field string) error {
	return fmt.Errorf("%s is required", field)
}
