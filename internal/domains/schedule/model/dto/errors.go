package dto

import "fmt"

func errDuplicateDay(day string) error {
	return fmt.Errorf("%s appears more than once", day)
}
