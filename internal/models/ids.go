package models

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func isObjectIDHex(value interface{}) error {
	s, _ := value.(string)
	if !primitive.IsValidObjectID(s) {
		return errors.New("must be a valid id")
	}
	return nil
}
